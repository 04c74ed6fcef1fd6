// Command verbinfo renders the late reverb's impulse response offline and
// prints decay metrics.
//
// Usage:
//
//	verbinfo [flags]
//
// Examples:
//
//	verbinfo
//	verbinfo -time 0.8 -mass 0.7 -seconds 12
//	verbinfo -freeze -seconds 6
//	verbinfo -azimuth -45 -spectrum
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-reverb/dsp/effects/reverb"
	"github.com/cwbudde/algo-reverb/measure/decay"
	"github.com/cwbudde/algo-reverb/measure/response"
)

func main() {
	rate := flag.Float64("rate", 48000, "sample rate in Hz")
	seconds := flag.Float64("seconds", 8, "render length in seconds")
	timeParam := flag.Float64("time", 0.5, "time parameter in [0,1] (delay length)")
	mass := flag.Float64("mass", 0.5, "mass parameter in [0,1] (high-frequency damping)")
	density := flag.Float64("density", 0.5, "density parameter in [0,1] (input diffusion)")
	bloom := flag.Float64("bloom", 0.3, "bloom parameter in [0,1] (late diffusion)")
	gravity := flag.Float64("gravity", 0.5, "gravity parameter in [0,1] (bass retention)")
	freeze := flag.Bool("freeze", false, "engage freeze mode")
	azimuth := flag.Float64("azimuth", 0, "spatial azimuth in degrees [-90, 90]")
	elevation := flag.Float64("elevation", 0, "spatial elevation in degrees [-90, 90]")
	spectrum := flag.Bool("spectrum", false, "also print a magnitude-spectrum summary")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: verbinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders the late reverb's impulse response and prints decay metrics.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *seconds <= 0 {
		fatalf("render length must be > 0: %g", *seconds)
	}

	left, right, err := render(*rate, *seconds, params{
		time: *timeParam, mass: *mass, density: *density,
		bloom: *bloom, gravity: *gravity,
		freeze: *freeze, azimuth: *azimuth, elevation: *elevation,
	})
	if err != nil {
		fatalf("render failed: %v", err)
	}

	mono := make([]float64, len(left))
	for i := range mono {
		mono[i] = 0.5 * (left[i] + right[i])
	}

	printMetrics(*rate, mono, left, right)

	if *spectrum {
		printSpectrum(*rate, mono)
	}
}

type params struct {
	time, mass, density, bloom, gravity float64
	freeze                              bool
	azimuth, elevation                  float64
}

func render(rate, seconds float64, p params) (left, right []float64, err error) {
	const blockSize = 512

	r, err := reverb.NewLateReverb(rate,
		reverb.WithMaxBlockSize(blockSize),
		reverb.WithPosition(p.azimuth, p.elevation))
	if err != nil {
		return nil, nil, err
	}

	r.SetFreeze(p.freeze)

	frame := &reverb.Frame{
		Time:    constant(blockSize, p.time),
		Mass:    constant(blockSize, p.mass),
		Density: constant(blockSize, p.density),
		Bloom:   constant(blockSize, p.bloom),
		Gravity: constant(blockSize, p.gravity),
	}
	r.SetFrame(frame)

	n := int(rate * seconds)
	left = make([]float64, n)
	right = make([]float64, n)
	left[0] = 1
	right[0] = 1

	for pos := 0; pos < n; pos += blockSize {
		end := pos + blockSize
		if end > n {
			end = n
		}

		err = r.ProcessStereoInPlace(left[pos:end], right[pos:end])
		if err != nil {
			return nil, nil, err
		}
	}

	return left, right, nil
}

func printMetrics(rate float64, mono, left, right []float64) {
	analyzer := decay.NewAnalyzer(rate)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	m, err := analyzer.Analyze(mono)
	if err != nil {
		fmt.Fprintf(w, "decay:\t%v\n", err)
	} else {
		fmt.Fprintf(w, "RT60\t%.3f s\n", m.RT60)
		fmt.Fprintf(w, "EDT\t%.3f s\n", m.EDT)
		fmt.Fprintf(w, "T20\t%.3f s\n", m.T20)
		fmt.Fprintf(w, "T30\t%.3f s\n", m.T30)
		fmt.Fprintf(w, "peak\t%.1f ms\n", float64(m.PeakIndex)/rate*1000)
	}

	fmt.Fprintf(w, "peak |L|\t%.4f\n", peakAbs(left))
	fmt.Fprintf(w, "peak |R|\t%.4f\n", peakAbs(right))
}

func printSpectrum(rate float64, mono []float64) {
	mag, err := response.MagnitudeDB(mono)
	if err != nil {
		fatalf("spectrum failed: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	peakBin := 0
	for i, m := range mag {
		if m > mag[peakBin] {
			peakBin = i
		}
	}

	binWidth := rate / float64(2*(len(mag)-1))

	fmt.Fprintf(w, "spectrum bins\t%d\n", len(mag))
	fmt.Fprintf(w, "peak bin\t%.1f Hz (%.1f dB)\n", float64(peakBin)*binWidth, mag[peakBin])
}

func constant(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}

	return s
}

func peakAbs(data []float64) float64 {
	peak := 0.0
	for _, v := range data {
		if abs := math.Abs(v); abs > peak {
			peak = abs
		}
	}

	return peak
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "verbinfo: "+format+"\n", args...)
	os.Exit(1)
}
