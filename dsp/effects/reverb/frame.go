package reverb

import "github.com/cwbudde/algo-reverb/dsp/core"

// Default parameter values used when a frame or one of its streams is
// absent.
const (
	DefaultTime    = 0.5
	DefaultMass    = 0.5
	DefaultDensity = 0.5
	DefaultBloom   = 0.3
	DefaultGravity = 0.5
)

// Frame carries the per-sample automation streams for one processed block.
//
// Each stream holds one value per sample in [0, 1]; values outside the range
// are clamped on read. A nil frame, a nil stream, or a stream shorter than
// the block falls back to the documented default for the remaining samples.
//
// The core never mutates a frame. It is handed off via
// [LateReverb.SetFrame] and loaded once per block, so a control thread may
// publish a new frame at any time; the swap is picked up at the next block
// boundary. The core performs no smoothing of its own: streams are expected
// to be free of discontinuities (an external smoothing stage's job), but
// arbitrary in-range values must never destabilize the network.
type Frame struct {
	Time    []float64
	Mass    []float64
	Density []float64
	Bloom   []float64
	Gravity []float64
}

func (f *Frame) timeAt(i int) float64 {
	if f == nil {
		return DefaultTime
	}

	return streamAt(f.Time, i, DefaultTime)
}

func (f *Frame) massAt(i int) float64 {
	if f == nil {
		return DefaultMass
	}

	return streamAt(f.Mass, i, DefaultMass)
}

func (f *Frame) densityAt(i int) float64 {
	if f == nil {
		return DefaultDensity
	}

	return streamAt(f.Density, i, DefaultDensity)
}

func (f *Frame) bloomAt(i int) float64 {
	if f == nil {
		return DefaultBloom
	}

	return streamAt(f.Bloom, i, DefaultBloom)
}

func (f *Frame) gravityAt(i int) float64 {
	if f == nil {
		return DefaultGravity
	}

	return streamAt(f.Gravity, i, DefaultGravity)
}

func streamAt(stream []float64, i int, fallback float64) float64 {
	if i < 0 || i >= len(stream) {
		return fallback
	}

	return core.Clamp01(stream[i])
}
