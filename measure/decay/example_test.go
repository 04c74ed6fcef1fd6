package decay_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-reverb/measure/decay"
)

func ExampleAnalyzer_Analyze() {
	// Synthetic exponential tail with RT60 = 1.0 s.
	sampleRate := 48000.0
	decayRate := 6.9078 // ln(1000): -60 dB amplitude at t = 1 s

	tail := make([]float64, int(sampleRate*3))
	for i := range tail {
		t := float64(i) / sampleRate
		tail[i] = math.Exp(-decayRate * t)
	}

	analyzer := decay.NewAnalyzer(sampleRate)

	metrics, err := analyzer.Analyze(tail)
	if err != nil {
		panic(err)
	}

	fmt.Printf("RT60 = %.2f s\n", metrics.RT60)
	fmt.Printf("EDT  = %.2f s\n", metrics.EDT)

	// Output:
	// RT60 = 1.00 s
	// EDT  = 1.00 s
}
