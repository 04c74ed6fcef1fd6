package response

import (
	"math"
	"testing"
)

func TestCaptureValidation(t *testing.T) {
	if _, err := Capture(nil, 16); err != ErrNilProcessor {
		t.Errorf("Capture(nil) error = %v, want ErrNilProcessor", err)
	}
	if _, err := Capture(func(x float64) float64 { return x }, 0); err != ErrInvalidLength {
		t.Errorf("Capture(length=0) error = %v, want ErrInvalidLength", err)
	}
}

func TestCaptureIdentityProcessor(t *testing.T) {
	ir, err := Capture(func(x float64) float64 { return x }, 8)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	if ir[0] != 1 {
		t.Errorf("ir[0] = %g, want 1", ir[0])
	}
	for i := 1; i < len(ir); i++ {
		if ir[i] != 0 {
			t.Errorf("ir[%d] = %g, want 0", i, ir[i])
		}
	}
}

func TestMagnitudeOfUnitImpulseIsFlat(t *testing.T) {
	ir := make([]float64, 64)
	ir[0] = 1

	mag, err := Magnitude(ir)
	if err != nil {
		t.Fatalf("Magnitude: %v", err)
	}

	if len(mag) != 33 {
		t.Fatalf("len(mag) = %d, want 33", len(mag))
	}

	for i, m := range mag {
		if math.Abs(m-1) > 1e-12 {
			t.Errorf("bin %d = %g, want 1", i, m)
		}
	}
}

func TestMagnitudeOfScaledDelayedImpulse(t *testing.T) {
	ir := make([]float64, 64)
	ir[5] = 0.5

	mag, err := Magnitude(ir)
	if err != nil {
		t.Fatalf("Magnitude: %v", err)
	}

	// A pure delay only changes phase.
	for i, m := range mag {
		if math.Abs(m-0.5) > 1e-12 {
			t.Errorf("bin %d = %g, want 0.5", i, m)
		}
	}
}

func TestMagnitudeEmptyInput(t *testing.T) {
	if _, err := Magnitude(nil); err != ErrEmptyImpulse {
		t.Errorf("Magnitude(nil) error = %v, want ErrEmptyImpulse", err)
	}
}

func TestMagnitudeDBFloorsZeroBins(t *testing.T) {
	// All-zero signal except a cancellation-free single bin is hard to
	// construct; a zero IR is invalid, so use a two-sample IR whose
	// spectrum has a null at Nyquist.
	ir := []float64{0.5, 0.5}

	db, err := MagnitudeDB(ir)
	if err != nil {
		t.Fatalf("MagnitudeDB: %v", err)
	}

	if math.Abs(db[0]-0) > 1e-9 {
		t.Errorf("DC bin = %g dB, want 0", db[0])
	}

	nyquist := db[len(db)-1]
	if nyquist > -190 {
		t.Errorf("Nyquist bin = %g dB, want floored near -200", nyquist)
	}
}
