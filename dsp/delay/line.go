// Package delay provides a fixed-capacity circular delay line with
// fractional, bounds-safe reads.
package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-reverb/dsp/interp"
)

// Option mutates delay line construction parameters.
type Option func(*Line) error

// WithMode selects the interpolation kernel for fractional reads.
func WithMode(mode interp.Mode) Option {
	return func(d *Line) error {
		if mode != interp.Linear && mode != interp.Hermite {
			return fmt.Errorf("delay interpolation mode is unknown: %d", int(mode))
		}

		d.mode = mode

		return nil
	}
}

// Line is a circular delay line of fixed capacity.
//
// The capacity is chosen at construction and never changes; callers vary the
// effective delay per read. Requested delays outside the valid range are
// clamped, never an error: correctness under worst-case delay modulation is
// part of the contract.
type Line struct {
	buffer   []float64
	writePos int
	mode     interp.Mode
}

// New returns a delay line holding size samples.
func New(size int, opts ...Option) (*Line, error) {
	if size < 4 {
		return nil, fmt.Errorf("delay size must be >= 4: %d", size)
	}

	d := &Line{buffer: make([]float64, size)}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(d)
		if err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Mode returns the interpolation mode used by ReadFractional.
func (d *Line) Mode() interp.Mode {
	return d.mode
}

// MaxDelay returns the largest fractional delay ReadFractional can serve
// without clamping.
func (d *Line) MaxDelay() float64 {
	return float64(len(d.buffer) - maxDelayMargin(d.mode))
}

// Write stores one sample and advances the cursor circularly.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample

	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read returns the sample written delay calls ago. Read(0) is the most
// recently written sample. The delay is clamped into the buffer bounds.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)

	if delay < 0 {
		delay = 0
	}

	if delay >= size {
		delay = size - 1
	}

	idx := d.writePos - 1 - delay
	if idx < 0 {
		idx += size
	}

	return d.buffer[idx]
}

// ReadFractional returns an interpolated sample at a fractional delay.
// The delay is clamped into [0, MaxDelay].
func (d *Line) ReadFractional(delay float64) float64 {
	if delay < 0 || math.IsNaN(delay) {
		delay = 0
	}

	if maxDelay := d.MaxDelay(); delay > maxDelay {
		delay = maxDelay
	}

	p := int(math.Floor(delay))
	t := delay - float64(p)

	if d.mode == interp.Linear {
		return interp.Linear2(t, d.Read(p), d.Read(p+1))
	}

	xm1 := d.Read(maxInt(0, p-1))
	x0 := d.Read(p)
	x1 := d.Read(p + 1)
	x2 := d.Read(p + 2)

	return interp.Hermite4(t, xm1, x0, x1, x2)
}

// Reset clears line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}

	d.writePos = 0
}

func maxDelayMargin(mode interp.Mode) int {
	if mode == interp.Linear {
		return 2
	}

	return 3
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}
