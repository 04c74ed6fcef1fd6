package spatial

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-reverb/dsp/filter/onepole"
)

const (
	defaultPannerAzimuth   = 0.0
	defaultPannerElevation = 0.0
	defaultPannerSmoothing = 0.02 // seconds

	minPannerAngle = -90.0
	maxPannerAngle = 90.0

	minPannerSmoothing = 0.0
	maxPannerSmoothing = 1.0
)

// PannerOption mutates panner construction parameters.
type PannerOption func(*pannerConfig) error

type pannerConfig struct {
	azimuthDeg       float64
	elevationDeg     float64
	smoothingSeconds float64
}

func defaultPannerConfig() pannerConfig {
	return pannerConfig{
		azimuthDeg:       defaultPannerAzimuth,
		elevationDeg:     defaultPannerElevation,
		smoothingSeconds: defaultPannerSmoothing,
	}
}

// WithAzimuth sets the initial azimuth in degrees, -90 (hard left) to +90
// (hard right).
func WithAzimuth(deg float64) PannerOption {
	return func(cfg *pannerConfig) error {
		if deg < minPannerAngle || deg > maxPannerAngle || math.IsNaN(deg) {
			return fmt.Errorf("panner azimuth must be in [%g, %g]: %f",
				minPannerAngle, maxPannerAngle, deg)
		}

		cfg.azimuthDeg = deg

		return nil
	}
}

// WithElevation sets the initial elevation in degrees, -90 to +90. Both
// extremes fully attenuate the output.
func WithElevation(deg float64) PannerOption {
	return func(cfg *pannerConfig) error {
		if deg < minPannerAngle || deg > maxPannerAngle || math.IsNaN(deg) {
			return fmt.Errorf("panner elevation must be in [%g, %g]: %f",
				minPannerAngle, maxPannerAngle, deg)
		}

		cfg.elevationDeg = deg

		return nil
	}
}

// WithSmoothingTime sets the gain smoothing time constant in seconds.
// Zero disables smoothing.
func WithSmoothingTime(seconds float64) PannerOption {
	return func(cfg *pannerConfig) error {
		if seconds < minPannerSmoothing || seconds > maxPannerSmoothing ||
			math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fmt.Errorf("panner smoothing time must be in [%g, %g]: %f",
				minPannerSmoothing, maxPannerSmoothing, seconds)
		}

		cfg.smoothingSeconds = seconds

		return nil
	}
}

// Panner positions a two-channel signal on a stereo pair using the
// constant-power law L = cos(φ/2), R = sin(φ/2), with φ mapping azimuth
// linearly onto [0, π]. Elevation attenuates both channels by
// cos(elevation), reaching silence at ±90°.
//
// Gain changes are smoothed with a one-pole exponential ramp (~20 ms by
// default) so position jumps never produce audible steps. The processor is
// real-time safe and not thread-safe; position setters are meant to be
// called between blocks.
type Panner struct {
	sampleRate       float64
	azimuthDeg       float64
	elevationDeg     float64
	smoothingSeconds float64

	smoothCoeff float64
	targetL     float64
	targetR     float64
	gainL       float64
	gainR       float64
}

// NewPanner creates a panner with practical defaults and optional overrides.
func NewPanner(sampleRate float64, opts ...PannerOption) (*Panner, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("panner sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultPannerConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	p := &Panner{
		sampleRate:       sampleRate,
		azimuthDeg:       cfg.azimuthDeg,
		elevationDeg:     cfg.elevationDeg,
		smoothingSeconds: cfg.smoothingSeconds,
	}

	p.smoothCoeff = onepole.SmoothingCoefficient(cfg.smoothingSeconds, sampleRate)
	p.updateTargets()
	p.snapToTargets()

	return p, nil
}

// PanGains returns the constant-power left/right gains for an azimuth in
// degrees, before elevation attenuation. L² + R² = 1 for every azimuth.
func PanGains(azimuthDeg float64) (l, r float64) {
	azimuthDeg = clampAngle(azimuthDeg)
	phi := (azimuthDeg - minPannerAngle) / (maxPannerAngle - minPannerAngle) * math.Pi

	return math.Cos(phi / 2), math.Sin(phi / 2)
}

// SetPosition updates azimuth and elevation in degrees. Non-finite values
// are rejected; out-of-range angles are clamped into [-90, +90], since
// position automation must never fail at runtime. The new gains take effect
// through the smoothing ramp.
func (p *Panner) SetPosition(azimuthDeg, elevationDeg float64) error {
	if math.IsNaN(azimuthDeg) || math.IsInf(azimuthDeg, 0) {
		return fmt.Errorf("panner azimuth must be finite: %f", azimuthDeg)
	}

	if math.IsNaN(elevationDeg) || math.IsInf(elevationDeg, 0) {
		return fmt.Errorf("panner elevation must be finite: %f", elevationDeg)
	}

	p.azimuthDeg = clampAngle(azimuthDeg)
	p.elevationDeg = clampAngle(elevationDeg)
	p.updateTargets()

	return nil
}

// SetSampleRate updates the sample rate and recomputes the smoothing ramp.
func (p *Panner) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("panner sample rate must be > 0 and finite: %f", sampleRate)
	}

	p.sampleRate = sampleRate
	p.smoothCoeff = onepole.SmoothingCoefficient(p.smoothingSeconds, sampleRate)

	return nil
}

// ProcessSample applies the smoothed position gains to a channel pair.
func (p *Panner) ProcessSample(c1, c2 float64) (float64, float64) {
	p.gainL = p.targetL + (p.gainL-p.targetL)*p.smoothCoeff
	p.gainR = p.targetR + (p.gainR-p.targetR)*p.smoothCoeff

	return c1 * p.gainL, c2 * p.gainR
}

// Reset snaps the smoothed gains to their targets.
func (p *Panner) Reset() {
	p.snapToTargets()
}

// Azimuth returns the current azimuth in degrees.
func (p *Panner) Azimuth() float64 { return p.azimuthDeg }

// Elevation returns the current elevation in degrees.
func (p *Panner) Elevation() float64 { return p.elevationDeg }

// SmoothingTime returns the gain smoothing time constant in seconds.
func (p *Panner) SmoothingTime() float64 { return p.smoothingSeconds }

// SampleRate returns the sample rate in Hz.
func (p *Panner) SampleRate() float64 { return p.sampleRate }

func (p *Panner) updateTargets() {
	l, r := PanGains(p.azimuthDeg)
	att := math.Cos(p.elevationDeg / 180 * math.Pi)

	p.targetL = l * att
	p.targetR = r * att
}

func (p *Panner) snapToTargets() {
	p.gainL = p.targetL
	p.gainR = p.targetR
}

func clampAngle(deg float64) float64 {
	if deg < minPannerAngle {
		return minPannerAngle
	}

	if deg > maxPannerAngle {
		return maxPannerAngle
	}

	return deg
}
