package testutil

import (
	"math"
	"testing"
)

func TestDeterministicNoiseReproducible(t *testing.T) {
	a := DeterministicNoise(42, 1, 256)
	b := DeterministicNoise(42, 1, 256)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("index %d: %g != %g", i, a[i], b[i])
		}
	}
}

func TestImpulse(t *testing.T) {
	imp := Impulse(8, 3)
	for i, v := range imp {
		want := 0.0
		if i == 3 {
			want = 1
		}
		if v != want {
			t.Errorf("imp[%d] = %g, want %g", i, v, want)
		}
	}
}

func TestNoiseBurstSilentTail(t *testing.T) {
	burst := NoiseBurst(1, 0.5, 100, 400)

	for i := 100; i < len(burst); i++ {
		if burst[i] != 0 {
			t.Fatalf("sample %d = %g, want silence after burst", i, burst[i])
		}
	}

	if Energy(burst[:100]) == 0 {
		t.Fatal("burst should carry energy")
	}
}

func TestEnergy(t *testing.T) {
	if got := Energy([]float64{3, 4}); math.Abs(got-25) > 1e-12 {
		t.Errorf("Energy = %g, want 25", got)
	}
}
