package reverb

// numLines is the order of the feedback delay network.
const numLines = 8

// FeedbackMatrix is a fixed orthogonal 8x8 matrix routing energy between
// the delay lines.
//
// The coefficients form a Householder reflection A = I − 2vvᵀ/(vᵀv),
// computed once at construction and never mutated. Orthogonality makes the
// routing energy-preserving: decay comes exclusively from the damping
// filters, and the loop cannot diverge from routing alone (eigenvalues ±1).
type FeedbackMatrix struct {
	a [numLines][numLines]float64
}

// NewFeedbackMatrix returns the Householder feedback matrix built from the
// all-ones reflection vector, the classic maximally-mixing FDN choice:
// every line feeds every other line with equal weight.
func NewFeedbackMatrix() FeedbackMatrix {
	return newHouseholder([numLines]float64{1, 1, 1, 1, 1, 1, 1, 1})
}

func newHouseholder(v [numLines]float64) FeedbackMatrix {
	var normSq float64
	for _, x := range v {
		normSq += x * x
	}

	var m FeedbackMatrix

	for i := range m.a {
		for j := range m.a[i] {
			m.a[i][j] = -2 * v[i] * v[j] / normSq
		}

		m.a[i][i] += 1
	}

	return m
}

// Multiply computes out = A·in as a dense matrix-vector product.
//
// This is the single largest per-sample cost in the core and the primary
// target for future vectorization.
func (m *FeedbackMatrix) Multiply(in, out *[numLines]float64) {
	for i := range m.a {
		row := &m.a[i]

		var sum float64
		for j := range row {
			sum += row[j] * in[j]
		}

		out[i] = sum
	}
}

// Coefficient returns A[i][j]. Indices outside [0, 8) return 0.
func (m *FeedbackMatrix) Coefficient(i, j int) float64 {
	if i < 0 || i >= numLines || j < 0 || j >= numLines {
		return 0
	}

	return m.a[i][j]
}
