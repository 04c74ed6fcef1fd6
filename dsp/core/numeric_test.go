package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		value, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{0.5, 1, 0, 0.5}, // swapped bounds
		{-3, 1, 0, 0},
	}

	for _, tt := range tests {
		got := Clamp(tt.value, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("Clamp(%g, %g, %g) = %g, want %g", tt.value, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestClamp01(t *testing.T) {
	if got := Clamp01(0.25); got != 0.25 {
		t.Errorf("Clamp01(0.25) = %g, want 0.25", got)
	}
	if got := Clamp01(-0.1); got != 0 {
		t.Errorf("Clamp01(-0.1) = %g, want 0", got)
	}
	if got := Clamp01(1.1); got != 1 {
		t.Errorf("Clamp01(1.1) = %g, want 1", got)
	}
	if got := Clamp01(math.NaN()); got != 0 {
		t.Errorf("Clamp01(NaN) = %g, want 0", got)
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Error("values within eps should compare equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-12) {
		t.Error("values outside eps should not compare equal")
	}
	if !NearlyEqual(0, 0, 0) {
		t.Error("zero should compare equal to zero with default eps")
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize(math.NaN()); got != 0 {
		t.Errorf("Sanitize(NaN) = %g, want 0", got)
	}
	if got := Sanitize(math.Inf(1)); got != 0 {
		t.Errorf("Sanitize(+Inf) = %g, want 0", got)
	}
	if got := Sanitize(math.Inf(-1)); got != 0 {
		t.Errorf("Sanitize(-Inf) = %g, want 0", got)
	}
	if got := Sanitize(0.5); got != 0.5 {
		t.Errorf("Sanitize(0.5) = %g, want 0.5", got)
	}
}

func TestFlushDenormals(t *testing.T) {
	if got := FlushDenormals(1e-40); got != 0 {
		t.Errorf("FlushDenormals(1e-40) = %g, want 0", got)
	}
	if got := FlushDenormals(1e-20); got != 1e-20 {
		t.Errorf("FlushDenormals(1e-20) = %g, want 1e-20", got)
	}
}

func TestDBConversions(t *testing.T) {
	if got := DBToLinear(0); !NearlyEqual(got, 1, 1e-12) {
		t.Errorf("DBToLinear(0) = %g, want 1", got)
	}
	if got := DBToLinear(-20); !NearlyEqual(got, 0.1, 1e-12) {
		t.Errorf("DBToLinear(-20) = %g, want 0.1", got)
	}
	if got := LinearToDB(1); !NearlyEqual(got, 0, 1e-12) {
		t.Errorf("LinearToDB(1) = %g, want 0", got)
	}
	if got := LinearToDB(0); !math.IsInf(got, -1) {
		t.Errorf("LinearToDB(0) = %g, want -Inf", got)
	}
	if got := LinearToDB(-1); !math.IsNaN(got) {
		t.Errorf("LinearToDB(-1) = %g, want NaN", got)
	}
	if got := LinearPowerToDB(0.1); !NearlyEqual(got, -10, 1e-12) {
		t.Errorf("LinearPowerToDB(0.1) = %g, want -10", got)
	}
}
