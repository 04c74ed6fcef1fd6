package reverb

import "testing"

func TestFrameNilFallsBackToDefaults(t *testing.T) {
	var f *Frame

	if got := f.timeAt(0); got != DefaultTime {
		t.Errorf("timeAt on nil frame = %g, want %g", got, DefaultTime)
	}
	if got := f.massAt(3); got != DefaultMass {
		t.Errorf("massAt on nil frame = %g, want %g", got, DefaultMass)
	}
	if got := f.densityAt(0); got != DefaultDensity {
		t.Errorf("densityAt on nil frame = %g, want %g", got, DefaultDensity)
	}
	if got := f.bloomAt(0); got != DefaultBloom {
		t.Errorf("bloomAt on nil frame = %g, want %g", got, DefaultBloom)
	}
	if got := f.gravityAt(0); got != DefaultGravity {
		t.Errorf("gravityAt on nil frame = %g, want %g", got, DefaultGravity)
	}
}

func TestFrameShortStreamFallsBack(t *testing.T) {
	f := &Frame{Time: []float64{0.1, 0.2}}

	if got := f.timeAt(1); got != 0.2 {
		t.Errorf("timeAt(1) = %g, want 0.2", got)
	}
	if got := f.timeAt(2); got != DefaultTime {
		t.Errorf("timeAt(2) past stream end = %g, want default %g", got, DefaultTime)
	}
	if got := f.massAt(0); got != DefaultMass {
		t.Errorf("massAt with nil stream = %g, want default %g", got, DefaultMass)
	}
}

func TestFrameClampsOutOfRangeValues(t *testing.T) {
	f := &Frame{
		Time: []float64{-0.5, 1.5},
		Mass: []float64{2},
	}

	if got := f.timeAt(0); got != 0 {
		t.Errorf("timeAt(0) = %g, want clamped 0", got)
	}
	if got := f.timeAt(1); got != 1 {
		t.Errorf("timeAt(1) = %g, want clamped 1", got)
	}
	if got := f.massAt(0); got != 1 {
		t.Errorf("massAt(0) = %g, want clamped 1", got)
	}
}
