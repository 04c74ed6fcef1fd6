// Command verbplay renders a percussive burst through the late reverb and
// loops it through the default audio device.
//
// Usage:
//
//	verbplay [flags]
//
// Examples:
//
//	verbplay
//	verbplay -time 0.9 -bloom 0.8
//	verbplay -freeze -seconds 10
//
// Press Ctrl+C to stop.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-reverb/dsp/effects/reverb"
)

const blockSize = 512

func main() {
	rate := flag.Int("rate", 48000, "sample rate in Hz")
	seconds := flag.Float64("seconds", 6, "loop length in seconds")
	timeParam := flag.Float64("time", 0.5, "time parameter in [0,1]")
	mass := flag.Float64("mass", 0.5, "mass parameter in [0,1]")
	density := flag.Float64("density", 0.5, "density parameter in [0,1]")
	bloom := flag.Float64("bloom", 0.3, "bloom parameter in [0,1]")
	gravity := flag.Float64("gravity", 0.5, "gravity parameter in [0,1]")
	freeze := flag.Bool("freeze", false, "engage freeze mode")
	dry := flag.Float64("dry", 0.5, "dry gain")
	wet := flag.Float64("wet", 1.0, "wet gain")
	flag.Parse()

	if *seconds <= 0 {
		fatalf("loop length must be > 0: %g", *seconds)
	}

	pcm, err := renderLoop(float64(*rate), *seconds, loopParams{
		time: *timeParam, mass: *mass, density: *density,
		bloom: *bloom, gravity: *gravity,
		freeze: *freeze, dry: *dry, wet: *wet,
	})
	if err != nil {
		fatalf("render failed: %v", err)
	}

	op := &oto.NewContextOptions{
		SampleRate:   *rate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		fatalf("audio device: %v", err)
	}
	<-ready

	player := ctx.NewPlayer(&loopReader{data: pcm})
	player.Play()

	fmt.Printf("playing %.1f s loop at %d Hz, Ctrl+C to stop\n", *seconds, *rate)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	err = player.Close()
	if err != nil {
		fatalf("player close: %v", err)
	}
}

type loopParams struct {
	time, mass, density, bloom, gravity float64
	freeze                              bool
	dry, wet                            float64
}

// renderLoop renders the wet burst into interleaved float32 little-endian
// PCM ready for the audio device.
func renderLoop(rate, seconds float64, p loopParams) ([]byte, error) {
	r, err := reverb.NewLateReverb(rate,
		reverb.WithMaxBlockSize(blockSize),
		reverb.WithWet(p.wet),
		reverb.WithDry(p.dry))
	if err != nil {
		return nil, err
	}

	r.SetFreeze(p.freeze)
	r.SetFrame(&reverb.Frame{
		Time:    constant(blockSize, p.time),
		Mass:    constant(blockSize, p.mass),
		Density: constant(blockSize, p.density),
		Bloom:   constant(blockSize, p.bloom),
		Gravity: constant(blockSize, p.gravity),
	})

	n := int(rate * seconds)
	buf := make([]float64, 2*n)

	// 60 ms noise burst with an exponential fade as the excitation.
	burst := int(0.060 * rate)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < burst && i < n; i++ {
		env := math.Exp(-5 * float64(i) / float64(burst))
		buf[2*i] = (rng.Float64()*2 - 1) * 0.5 * env
		buf[2*i+1] = (rng.Float64()*2 - 1) * 0.5 * env
	}

	for pos := 0; pos < n; pos += blockSize {
		end := pos + blockSize
		if end > n {
			end = n
		}

		err = r.ProcessInterleavedInPlace(buf[2*pos : 2*end])
		if err != nil {
			return nil, err
		}
	}

	pcm := make([]byte, 4*len(buf))
	for i, v := range buf {
		bits := math.Float32bits(float32(clamp(v, -1, 1)))
		binary.LittleEndian.PutUint32(pcm[4*i:], bits)
	}

	return pcm, nil
}

// loopReader replays a fixed PCM buffer forever.
type loopReader struct {
	data []byte
	pos  int
}

func (l *loopReader) Read(p []byte) (int, error) {
	if len(l.data) == 0 {
		for i := range p {
			p[i] = 0
		}

		return len(p), nil
	}

	n := 0
	for n < len(p) {
		c := copy(p[n:], l.data[l.pos:])
		n += c

		l.pos += c
		if l.pos >= len(l.data) {
			l.pos = 0
		}
	}

	return n, nil
}

func constant(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}

	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "verbplay: "+format+"\n", args...)
	os.Exit(1)
}
