// Package onepole provides single-pole lowpass building blocks for
// frequency-dependent damping inside feedback loops.
package onepole

import "math"

// Lowpass is a single-pole lowpass driven by a per-call retention
// coefficient.
//
// For a retention coefficient a in (0,1) the filter computes
//
//	y[n] = a²·x[n] + (1−a)·y[n−1]
//
// which places the pole at 1−a and makes the DC gain exactly a. A single
// coefficient therefore controls both the per-pass attenuation and the
// darkening: a near 1 is close to transparent (indefinite sustain inside an
// energy-preserving loop), smaller values lose more level and more high end
// on every round trip. A coefficient at or above 1 removes the loss
// entirely, which is why damping coefficients must stay strictly below 1.
type Lowpass struct {
	state float64
}

// Process filters one sample with retention coefficient a.
func (f *Lowpass) Process(x, a float64) float64 {
	f.state = a*a*x + (1-a)*f.state
	return f.state
}

// State returns the current filter memory.
func (f *Lowpass) State() float64 {
	return f.state
}

// Reset clears the filter memory.
func (f *Lowpass) Reset() {
	f.state = 0
}

// SmoothingCoefficient returns the feedback coefficient of a one-pole
// smoother with the given time constant, for use as
//
//	y[n] = target + (y[n−1] − target)·coeff
//
// Returns 0 (no smoothing) for non-positive arguments.
func SmoothingCoefficient(timeConstantSeconds, sampleRate float64) float64 {
	if timeConstantSeconds <= 0 || sampleRate <= 0 {
		return 0
	}

	return math.Exp(-1 / (timeConstantSeconds * sampleRate))
}
