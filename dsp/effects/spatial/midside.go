package spatial

// EncodeMidSide converts a left/right pair into mid (sum) and side
// (difference) components.
func EncodeMidSide(left, right float64) (mid, side float64) {
	mid = (left + right) * 0.5
	side = (left - right) * 0.5

	return mid, side
}

// DecodeMidSide converts mid/side components back to a left/right pair.
// It is the exact inverse of [EncodeMidSide].
func DecodeMidSide(mid, side float64) (left, right float64) {
	return mid + side, mid - side
}
