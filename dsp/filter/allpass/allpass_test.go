package allpass

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-reverb/internal/testutil"
	"github.com/cwbudde/algo-reverb/measure/response"
)

func TestNewChainValidatesStages(t *testing.T) {
	if _, err := NewChain(0); err == nil {
		t.Error("expected error for 0 stages")
	}
	if _, err := NewChain(17); err == nil {
		t.Error("expected error for too many stages")
	}

	c, err := NewChain(4)
	if err != nil {
		t.Fatalf("NewChain(4): %v", err)
	}
	if c.Stages() != 4 {
		t.Errorf("Stages() = %d, want 4", c.Stages())
	}
}

func TestSectionZeroCoefficientIsDelay(t *testing.T) {
	var s Section

	// With g=0 the section degenerates to a one-sample delay.
	if got := s.Process(1, 0); got != 0 {
		t.Errorf("first output = %g, want 0", got)
	}
	if got := s.Process(0, 0); got != 1 {
		t.Errorf("second output = %g, want 1", got)
	}
}

func TestChainUnityMagnitudeResponse(t *testing.T) {
	c, err := NewChain(4)
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}

	const g = 0.25

	ir, err := response.Capture(func(x float64) float64 {
		return c.Process(x, g)
	}, 4096)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	mag, err := response.Magnitude(ir)
	if err != nil {
		t.Fatalf("Magnitude: %v", err)
	}

	// An allpass passes every frequency at unity gain. The truncated
	// impulse response leaves a small ripple; g=0.25 over 4 stages decays
	// well below it within 4096 samples.
	for i, m := range mag {
		if math.Abs(m-1) > 1e-6 {
			t.Fatalf("bin %d magnitude = %g, want 1", i, m)
		}
	}
}

func TestChainEnergyPreservation(t *testing.T) {
	c, err := NewChain(2)
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}

	in := testutil.DeterministicNoise(7, 0.5, 48000)

	var inEnergy, outEnergy float64
	for _, x := range in {
		inEnergy += x * x
		y := c.Process(x, 0.3)
		outEnergy += y * y
	}
	// Drain the tail so the stored energy is accounted for.
	for i := 0; i < 4096; i++ {
		y := c.Process(0, 0.3)
		outEnergy += y * y
	}

	ratio := outEnergy / inEnergy
	if ratio < 0.99 || ratio > 1.01 {
		t.Errorf("energy ratio = %g, want ~1", ratio)
	}
}

func TestChainResetClearsAllStages(t *testing.T) {
	c, err := NewChain(3)
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}

	c.Process(1, 0.2)
	c.Reset()

	for i := 0; i < 16; i++ {
		if got := c.Process(0, 0.2); got != 0 {
			t.Fatalf("output %d after Reset = %g, want 0", i, got)
		}
	}
}
