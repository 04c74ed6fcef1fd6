package reverb

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-reverb/dsp/delay"
	"github.com/cwbudde/algo-reverb/dsp/effects/spatial"
	"github.com/cwbudde/algo-reverb/dsp/filter/allpass"
	"github.com/cwbudde/algo-reverb/dsp/filter/onepole"
	"github.com/cwbudde/algo-reverb/dsp/interp"
)

const (
	minDelaySeconds = 0.010
	maxDelaySeconds = 1.000

	// Extra capacity beyond the longest delay so fractional reads never
	// touch the write cursor's neighborhood.
	delayCapacityMargin = 4

	inputDiffuserStages = 4
	lateDiffuserStages  = 2

	// Diffuser coefficient range; density and bloom map [0,1] onto it.
	minDiffusionCoeff = 0.05
	maxDiffusionCoeff = 0.30

	// Damping coefficients must stay strictly inside (0,1): at 1 the loop
	// loses nothing and stops decaying.
	minDampingCoeff = 1e-4
	maxDampingCoeff = 0.9995

	// Freeze overrides the mass mapping with near-total retention.
	freezeDampingCoeff = 0.999

	defaultLateWet          = 1.0
	defaultLateDry          = 0.0
	defaultLateMaxBlockSize = 2048

	// Gain applied when spreading each encoded channel into its four lines.
	inputSpreadGain = 0.5
)

// lineDelayRatios detunes the eight delay lines against each other.
// The multipliers are mutually prime-like so no two lines share a common
// resonance.
var lineDelayRatios = [numLines]float64{1.0, 1.11, 1.23, 1.41, 1.53, 1.67, 1.79, 1.93}

// Errors returned by the late reverb processing surfaces.
var (
	ErrNotPrepared    = errors.New("reverb: process called before prepare")
	ErrLengthMismatch = errors.New("reverb: channel buffers must have equal length")
	ErrOddInterleaved = errors.New("reverb: interleaved buffer length must be even")
)

// externalInjection pairs a caller-owned buffer with its mix depth. The
// whole struct is swapped atomically so depth and buffer can never tear.
type externalInjection struct {
	buf   []float64
	depth float64
}

// LateReverbOption mutates late reverb construction parameters.
type LateReverbOption func(*lateReverbConfig) error

type lateReverbConfig struct {
	wet          float64
	dry          float64
	mode         interp.Mode
	maxBlock     int
	azimuthDeg   float64
	elevationDeg float64
}

func defaultLateReverbConfig() lateReverbConfig {
	return lateReverbConfig{
		wet:      defaultLateWet,
		dry:      defaultLateDry,
		mode:     interp.Linear,
		maxBlock: defaultLateMaxBlockSize,
	}
}

// WithWet sets the wet output gain.
func WithWet(v float64) LateReverbOption {
	return func(cfg *lateReverbConfig) error {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("late reverb wet must be >= 0: %f", v)
		}

		cfg.wet = v

		return nil
	}
}

// WithDry sets the dry output gain.
func WithDry(v float64) LateReverbOption {
	return func(cfg *lateReverbConfig) error {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("late reverb dry must be >= 0: %f", v)
		}

		cfg.dry = v

		return nil
	}
}

// WithInterpolation selects the delay-read interpolation kernel.
func WithInterpolation(mode interp.Mode) LateReverbOption {
	return func(cfg *lateReverbConfig) error {
		if mode != interp.Linear && mode != interp.Hermite {
			return fmt.Errorf("late reverb interpolation mode is unknown: %d", int(mode))
		}

		cfg.mode = mode

		return nil
	}
}

// WithMaxBlockSize sets the largest block Process accepts without clamping.
func WithMaxBlockSize(samples int) LateReverbOption {
	return func(cfg *lateReverbConfig) error {
		if samples < 1 {
			return fmt.Errorf("late reverb max block size must be >= 1: %d", samples)
		}

		cfg.maxBlock = samples

		return nil
	}
}

// WithPosition sets the initial spatial position in degrees.
func WithPosition(azimuthDeg, elevationDeg float64) LateReverbOption {
	return func(cfg *lateReverbConfig) error {
		if azimuthDeg < -90 || azimuthDeg > 90 || math.IsNaN(azimuthDeg) {
			return fmt.Errorf("late reverb azimuth must be in [-90, 90]: %f", azimuthDeg)
		}

		if elevationDeg < -90 || elevationDeg > 90 || math.IsNaN(elevationDeg) {
			return fmt.Errorf("late reverb elevation must be in [-90, 90]: %f", elevationDeg)
		}

		cfg.azimuthDeg = azimuthDeg
		cfg.elevationDeg = elevationDeg

		return nil
	}
}

// LateReverb is an eight-line feedback delay network producing a dense,
// evolving late-reverberation tail from a stereo input.
//
// Signal flow per sample: stereo in → mid/side encode → input diffusers →
// spread into eight line inputs (plus optional external injection) → delay
// read → mass lowpass → gravity lowpass → late diffuser → Householder
// feedback matrix → delay write; the pre-feedback damped values are summed
// into an aggregate mid/side pair, spatially rendered, decoded back to
// stereo, and mixed with the dry input.
//
// Five automatable parameters steer the tail per sample (see [Frame]):
// time (delay lengths), mass (high-frequency damping), density (input
// diffusion), bloom (late diffusion), and gravity (low-frequency
// retention).
//
// Process methods run on the audio thread and are never reentered
// concurrently. SetFrame, SetFreeze, SetExternalInjection and SetPosition
// may be called from a control thread; their effects begin at the next
// block. The output is not limited: freeze mode and deep external injection
// rely on a downstream limiting stage.
type LateReverb struct {
	sampleRate float64
	maxBlock   int
	prepared   bool

	wet  float64
	dry  float64
	mode interp.Mode

	lines     [numLines]*delay.Line
	massLP    [numLines]onepole.Lowpass
	gravityLP [numLines]onepole.Lowpass
	inputDiff [2]*allpass.Chain
	lateDiff  [numLines]*allpass.Chain
	matrix    FeedbackMatrix
	panner    *spatial.Panner

	frame     atomic.Pointer[Frame]
	injection atomic.Pointer[externalInjection]
	freeze    atomic.Bool

	injScratch []float64

	minDelaySamples float64
	maxDelaySamples float64
	outputScale     float64
}

// NewLateReverb creates a late reverb prepared for the given sample rate
// with practical defaults and optional overrides.
func NewLateReverb(sampleRate float64, opts ...LateReverbOption) (*LateReverb, error) {
	cfg := defaultLateReverbConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	r := &LateReverb{
		wet:         cfg.wet,
		dry:         cfg.dry,
		mode:        cfg.mode,
		matrix:      NewFeedbackMatrix(),
		outputScale: 1 / math.Sqrt(numLines),
	}

	for i := range r.inputDiff {
		chain, err := allpass.NewChain(inputDiffuserStages)
		if err != nil {
			return nil, err
		}

		r.inputDiff[i] = chain
	}

	for i := range r.lateDiff {
		chain, err := allpass.NewChain(lateDiffuserStages)
		if err != nil {
			return nil, err
		}

		r.lateDiff[i] = chain
	}

	panner, err := spatial.NewPanner(1,
		spatial.WithAzimuth(cfg.azimuthDeg),
		spatial.WithElevation(cfg.elevationDeg))
	if err != nil {
		return nil, err
	}

	r.panner = panner

	err = r.Prepare(sampleRate, cfg.maxBlock)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Prepare (re)allocates every fixed-capacity buffer for the given sample
// rate and maximum block size. It must run off the audio thread, before
// audio flows; afterwards the process methods are allocation-free.
func (r *LateReverb) Prepare(sampleRate float64, maxBlockSize int) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("late reverb sample rate must be > 0 and finite: %f", sampleRate)
	}

	if maxBlockSize < 1 {
		return fmt.Errorf("late reverb max block size must be >= 1: %d", maxBlockSize)
	}

	capacity := int(math.Ceil(maxDelaySeconds*sampleRate)) + delayCapacityMargin

	for i := range r.lines {
		line, err := delay.New(capacity, delay.WithMode(r.mode))
		if err != nil {
			return err
		}

		r.lines[i] = line
	}

	r.sampleRate = sampleRate
	r.maxBlock = maxBlockSize
	r.injScratch = make([]float64, maxBlockSize)
	r.minDelaySamples = minDelaySeconds * sampleRate
	r.maxDelaySamples = math.Min(maxDelaySeconds*sampleRate, r.lines[0].MaxDelay())

	err := r.panner.SetSampleRate(sampleRate)
	if err != nil {
		return err
	}

	r.resetFilters()

	r.prepared = true

	return nil
}

// Reset zeroes all delay, filter, diffuser, and smoothing state without
// reallocating.
func (r *LateReverb) Reset() {
	for i := range r.lines {
		if r.lines[i] != nil {
			r.lines[i].Reset()
		}
	}

	r.resetFilters()
}

// resetFilters tolerates nil components so Reset stays valid on the zero
// value, before Prepare has built the chains and panner.
func (r *LateReverb) resetFilters() {
	for i := range r.massLP {
		r.massLP[i].Reset()
		r.gravityLP[i].Reset()

		if r.lateDiff[i] != nil {
			r.lateDiff[i].Reset()
		}
	}

	for i := range r.inputDiff {
		if r.inputDiff[i] != nil {
			r.inputDiff[i].Reset()
		}
	}

	if r.panner != nil {
		r.panner.Reset()
	}
}

// SetFrame publishes the per-sample automation streams for upcoming blocks.
// Safe to call from a control thread; nil restores the defaults.
func (r *LateReverb) SetFrame(frame *Frame) {
	r.frame.Store(frame)
}

// SetFreeze toggles freeze mode from the next processed sample on. While
// frozen, the mass damping is pinned at near-total retention and the tail
// sustains indefinitely; amplitude bounding is the downstream limiter's job.
func (r *LateReverb) SetFreeze(enabled bool) {
	r.freeze.Store(enabled)
}

// Freeze reports whether freeze mode is engaged.
func (r *LateReverb) Freeze() bool {
	return r.freeze.Load()
}

// SetExternalInjection publishes a caller-owned buffer whose samples are
// added into the line inputs, scaled by depth in [0, 1]. A nil buffer or
// zero depth disables injection. The caller must keep the buffer valid and
// unmutated while a Process call using it is in flight; the swap is only
// ever picked up between blocks.
func (r *LateReverb) SetExternalInjection(buf []float64, depth float64) error {
	if depth < 0 || depth > 1 || math.IsNaN(depth) {
		return fmt.Errorf("late reverb injection depth must be in [0, 1]: %f", depth)
	}

	if buf == nil || depth == 0 {
		r.injection.Store(nil)
		return nil
	}

	r.injection.Store(&externalInjection{buf: buf, depth: depth})

	return nil
}

// SetPosition updates the spatial position in degrees. Non-finite values
// are rejected; out-of-range angles are clamped. Takes effect through the
// panner's smoothing ramp.
func (r *LateReverb) SetPosition(azimuthDeg, elevationDeg float64) error {
	return r.panner.SetPosition(azimuthDeg, elevationDeg)
}

// SetWet sets the wet output gain.
func (r *LateReverb) SetWet(v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("late reverb wet must be >= 0: %f", v)
	}

	r.wet = v

	return nil
}

// SetDry sets the dry output gain.
func (r *LateReverb) SetDry(v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("late reverb dry must be >= 0: %f", v)
	}

	r.dry = v

	return nil
}

// Wet returns the wet output gain.
func (r *LateReverb) Wet() float64 { return r.wet }

// Dry returns the dry output gain.
func (r *LateReverb) Dry() float64 { return r.dry }

// SampleRate returns the prepared sample rate in Hz.
func (r *LateReverb) SampleRate() float64 { return r.sampleRate }

// MaxBlockSize returns the prepared maximum block size in samples.
func (r *LateReverb) MaxBlockSize() int { return r.maxBlock }

// Prepared reports whether Prepare has run.
func (r *LateReverb) Prepared() bool { return r.prepared }

// Azimuth returns the current spatial azimuth in degrees.
func (r *LateReverb) Azimuth() float64 { return r.panner.Azimuth() }

// Elevation returns the current spatial elevation in degrees.
func (r *LateReverb) Elevation() float64 { return r.panner.Elevation() }

// Interpolation returns the delay-read interpolation mode.
func (r *LateReverb) Interpolation() interp.Mode { return r.mode }
