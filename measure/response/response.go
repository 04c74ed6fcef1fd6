// Package response captures impulse responses of sample processors and
// computes their magnitude spectra.
//
// It is used by the reverb tests to verify frequency-domain properties
// (diffuser flatness, damping tilt) and by the offline analysis tooling.
package response

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// Errors returned by response functions.
var (
	ErrEmptyImpulse  = errors.New("response: impulse response is empty")
	ErrInvalidLength = errors.New("response: length must be positive")
	ErrNilProcessor  = errors.New("response: processor must not be nil")
)

// Capture renders the first length samples of the impulse response of
// process by feeding it a unit impulse followed by silence.
//
// The processor must be in a cleared state; Capture mutates it.
func Capture(process func(float64) float64, length int) ([]float64, error) {
	if process == nil {
		return nil, ErrNilProcessor
	}

	if length <= 0 {
		return nil, ErrInvalidLength
	}

	ir := make([]float64, length)
	for i := range ir {
		x := 0.0
		if i == 0 {
			x = 1
		}

		ir[i] = process(x)
	}

	return ir, nil
}

// Magnitude returns the single-sided magnitude spectrum of ir.
//
// The impulse response is zero-padded to the next power of two; the result
// holds N/2+1 bins from DC to Nyquist.
func Magnitude(ir []float64) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyImpulse
	}

	fftSize := nextPowerOfTwo(len(ir))

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}

	inData := make([]complex128, fftSize)
	for i, v := range ir {
		inData[i] = complex(v, 0)
	}

	out := make([]complex128, fftSize)

	err = plan.Forward(out, inData)
	if err != nil {
		return nil, fmt.Errorf("response: forward FFT failed: %w", err)
	}

	mag := make([]float64, fftSize/2+1)
	for i := range mag {
		mag[i] = cmplx.Abs(out[i])
	}

	return mag, nil
}

// MagnitudeDB returns the single-sided magnitude spectrum of ir in dB.
// Zero bins are floored at -200 dB.
func MagnitudeDB(ir []float64) ([]float64, error) {
	mag, err := Magnitude(ir)
	if err != nil {
		return nil, err
	}

	for i, m := range mag {
		if m <= 0 {
			mag[i] = -200
			continue
		}

		mag[i] = 20 * math.Log10(m)
	}

	return mag, nil
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}
