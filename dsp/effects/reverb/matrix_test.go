package reverb

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-reverb/internal/testutil"
)

func TestFeedbackMatrixOrthogonal(t *testing.T) {
	m := NewFeedbackMatrix()

	// AᵀA must be the identity.
	for i := 0; i < numLines; i++ {
		for j := 0; j < numLines; j++ {
			var dot float64
			for k := 0; k < numLines; k++ {
				dot += m.Coefficient(k, i) * m.Coefficient(k, j)
			}

			want := 0.0
			if i == j {
				want = 1
			}

			if math.Abs(dot-want) > 1e-12 {
				t.Fatalf("(AᵀA)[%d][%d] = %g, want %g", i, j, dot, want)
			}
		}
	}
}

func TestFeedbackMatrixPreservesNorm(t *testing.T) {
	m := NewFeedbackMatrix()

	noise := testutil.DeterministicNoise(11, 1, numLines*16)

	for trial := 0; trial < 16; trial++ {
		var in, out [numLines]float64
		copy(in[:], noise[trial*numLines:])

		m.Multiply(&in, &out)

		var inNorm, outNorm float64
		for i := range in {
			inNorm += in[i] * in[i]
			outNorm += out[i] * out[i]
		}

		if math.Abs(outNorm-inNorm) > 1e-12*math.Max(inNorm, 1) {
			t.Fatalf("trial %d: ‖Ax‖² = %g, ‖x‖² = %g", trial, outNorm, inNorm)
		}
	}
}

func TestFeedbackMatrixIsHouseholder(t *testing.T) {
	m := NewFeedbackMatrix()

	// All-ones reflection vector: A = I − J/4.
	for i := 0; i < numLines; i++ {
		for j := 0; j < numLines; j++ {
			want := -0.25
			if i == j {
				want = 0.75
			}

			if math.Abs(m.Coefficient(i, j)-want) > 1e-15 {
				t.Fatalf("A[%d][%d] = %g, want %g", i, j, m.Coefficient(i, j), want)
			}
		}
	}
}

func TestFeedbackMatrixCoefficientBounds(t *testing.T) {
	m := NewFeedbackMatrix()

	if m.Coefficient(-1, 0) != 0 || m.Coefficient(0, numLines) != 0 {
		t.Error("out-of-range indices should return 0")
	}
}
