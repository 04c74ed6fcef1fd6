// Package decay analyzes reverberation tails.
//
// It provides Schroeder backward integration, reverberation-time estimates
// (RT60 extrapolated from T30 or T20, plus EDT), and windowed energy series.
// The reverb tests use it as their decay oracle and cmd/verbinfo reports its
// metrics.
package decay

import (
	"errors"
	"math"
)

// Errors returned by decay analysis functions.
var (
	ErrEmptyTail         = errors.New("decay: tail is empty")
	ErrInvalidSampleRate = errors.New("decay: sample rate must be positive")
	ErrInvalidWindow     = errors.New("decay: window size must be positive")
	ErrNoDecay           = errors.New("decay: insufficient decay for RT calculation")
)

const schroederFloorDB = -200

// Metrics holds reverberation-tail analysis results.
type Metrics struct {
	RT60      float64 // reverberation time in seconds (extrapolated from T30 or T20)
	EDT       float64 // early decay time in seconds (0 to -10 dB)
	T20       float64 // RT from -5 to -25 dB slope
	T30       float64 // RT from -5 to -35 dB slope
	PeakIndex int     // sample index of the tail's absolute maximum
}

// Analyzer computes decay metrics from a rendered reverberation tail.
type Analyzer struct {
	SampleRate float64
}

// NewAnalyzer creates a decay analyzer with the given sample rate.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate}
}

// Analyze computes all decay metrics from a reverberation tail.
// The tail should start near the direct-sound arrival.
func (a *Analyzer) Analyze(tail []float64) (Metrics, error) {
	if len(tail) == 0 {
		return Metrics{}, ErrEmptyTail
	}

	if a.SampleRate <= 0 {
		return Metrics{}, ErrInvalidSampleRate
	}

	peakIdx := findPeak(tail)
	schroeder := a.schroederIntegral(tail[peakIdx:])

	m := Metrics{PeakIndex: peakIdx}
	m.EDT = a.reverbTime(schroeder, 0, -10)
	m.T20 = a.reverbTime(schroeder, -5, -25)
	m.T30 = a.reverbTime(schroeder, -5, -35)

	// Prefer T30 (more robust), fall back to T20.
	switch {
	case m.T30 > 0:
		m.RT60 = m.T30
	case m.T20 > 0:
		m.RT60 = m.T20
	default:
		return m, ErrNoDecay
	}

	return m, nil
}

// SchroederIntegral computes the Schroeder backward integration of the
// squared tail, returned in dB relative to the total energy.
//
//	S(t) = 10*log10( ∫_t^∞ h²(τ) dτ / ∫_0^∞ h²(τ) dτ )
//
// This converts the noisy energy decay into a smooth curve suitable for
// reverberation-time estimation.
func (a *Analyzer) SchroederIntegral(tail []float64) ([]float64, error) {
	if len(tail) == 0 {
		return nil, ErrEmptyTail
	}

	return a.schroederIntegral(tail), nil
}

// WindowedEnergy returns the energy of consecutive non-overlapping windows
// of windowSamples each. A trailing partial window is dropped.
func WindowedEnergy(tail []float64, windowSamples int) ([]float64, error) {
	if len(tail) == 0 {
		return nil, ErrEmptyTail
	}

	if windowSamples <= 0 {
		return nil, ErrInvalidWindow
	}

	numWindows := len(tail) / windowSamples
	out := make([]float64, numWindows)

	for w := range out {
		var sum float64
		for _, v := range tail[w*windowSamples : (w+1)*windowSamples] {
			sum += v * v
		}

		out[w] = sum
	}

	return out, nil
}

func findPeak(tail []float64) int {
	peakIdx := 0
	peakVal := 0.0

	for i, v := range tail {
		if abs := math.Abs(v); abs > peakVal {
			peakVal = abs
			peakIdx = i
		}
	}

	return peakIdx
}

// schroederIntegral computes the Schroeder integral (unchecked).
func (a *Analyzer) schroederIntegral(tail []float64) []float64 {
	n := len(tail)
	result := make([]float64, n)

	var cumSum float64
	for i := n - 1; i >= 0; i-- {
		cumSum += tail[i] * tail[i]
		result[i] = cumSum
	}

	totalEnergy := result[0]
	if totalEnergy <= 0 {
		return result
	}

	for i := range result {
		ratio := result[i] / totalEnergy
		if ratio <= 0 {
			result[i] = schroederFloorDB
		} else {
			result[i] = 10 * mathLog10(ratio)
		}
	}

	return result
}

// reverbTime calculates reverberation time by linear regression on the
// Schroeder curve between startDB and endDB, extrapolated to -60 dB.
//
// The backward integral of a finite buffer plunges toward the floor at the
// buffer end regardless of the signal, so the trailing tenth of the curve is
// excluded from the threshold search: a tail that only crosses endDB inside
// that region has not genuinely decayed.
func (a *Analyzer) reverbTime(schroeder []float64, startDB, endDB float64) float64 {
	if len(schroeder) == 0 || a.SampleRate <= 0 {
		return 0
	}

	limit := len(schroeder) - len(schroeder)/10

	startIdx := -1
	endIdx := -1

	for i, v := range schroeder[:limit] {
		if startIdx < 0 && v <= startDB {
			startIdx = i
		}

		if startIdx >= 0 && v <= endDB {
			endIdx = i
			break
		}
	}

	if startIdx < 0 || endIdx < 0 || endIdx <= startIdx {
		return 0
	}

	n := endIdx - startIdx + 1
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXX, sumXY float64

	for i := startIdx; i <= endIdx; i++ {
		x := float64(i - startIdx)
		y := schroeder[i]
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	nf := float64(n)

	denom := nf*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}

	slope := (nf*sumXY - sumX*sumY) / denom
	if slope >= 0 {
		return 0
	}

	rt := -60.0 / (slope * a.SampleRate)
	if rt < 0 {
		return 0
	}

	return rt
}
