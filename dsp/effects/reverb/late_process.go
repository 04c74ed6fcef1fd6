package reverb

import (
	"github.com/cwbudde/algo-reverb/dsp/core"
	"github.com/cwbudde/algo-reverb/dsp/effects/spatial"
	"github.com/cwbudde/algo-vecmath"
)

// blockState holds the control-thread handoffs loaded once per block, so a
// swap mid-block can never tear a running loop.
type blockState struct {
	frame     *Frame
	injection []float64
	freeze    bool
}

// beginBlock loads the atomics, clamps the block length to the prepared
// maximum, and pre-scales the injection buffer into the scratch slice.
func (r *LateReverb) beginBlock(numSamples int) (blockState, int) {
	if numSamples > r.maxBlock {
		numSamples = r.maxBlock
	}

	st := blockState{
		frame:  r.frame.Load(),
		freeze: r.freeze.Load(),
	}

	if inj := r.injection.Load(); inj != nil && len(inj.buf) > 0 {
		n := numSamples
		if n > len(inj.buf) {
			n = len(inj.buf)
		}

		st.injection = r.injScratch[:n]
		vecmath.ScaleBlock(st.injection, inj.buf[:n], inj.depth)

		for i := range st.injection {
			st.injection[i] = core.Sanitize(st.injection[i])
		}
	}

	return st, numSamples
}

// ProcessStereoInPlace runs the reverb over a planar stereo block in place.
//
// Both channels must have the same length. Blocks longer than the prepared
// maximum are clamped: the first MaxBlockSize samples are processed and the
// remainder is left untouched rather than overrunning internal buffers.
func (r *LateReverb) ProcessStereoInPlace(left, right []float64) error {
	if !r.prepared {
		return ErrNotPrepared
	}

	if len(left) != len(right) {
		return ErrLengthMismatch
	}

	st, n := r.beginBlock(len(left))

	for i := 0; i < n; i++ {
		inj := 0.0
		if i < len(st.injection) {
			inj = st.injection[i]
		}

		left[i], right[i] = r.processSample(left[i], right[i], &st, i, inj)
	}

	return nil
}

// ProcessInterleavedInPlace runs the reverb over an interleaved (LRLR…)
// stereo block in place. The buffer length must be even.
func (r *LateReverb) ProcessInterleavedInPlace(buf []float64) error {
	if !r.prepared {
		return ErrNotPrepared
	}

	if len(buf)%2 != 0 {
		return ErrOddInterleaved
	}

	st, n := r.beginBlock(len(buf) / 2)

	for i := 0; i < n; i++ {
		inj := 0.0
		if i < len(st.injection) {
			inj = st.injection[i]
		}

		buf[2*i], buf[2*i+1] = r.processSample(buf[2*i], buf[2*i+1], &st, i, inj)
	}

	return nil
}

// lineLengthSamples maps the time parameter to line's delay in samples,
// clamped into [10 ms, 1000 ms] at the prepared rate.
func (r *LateReverb) lineLengthSamples(timeValue float64, line int) float64 {
	base := (minDelaySeconds + (maxDelaySeconds-minDelaySeconds)*timeValue) * r.sampleRate

	return core.Clamp(base*lineDelayRatios[line], r.minDelaySamples, r.maxDelaySamples)
}

// processSample advances the network by one sample.
func (r *LateReverb) processSample(inL, inR float64, st *blockState, idx int, injSample float64) (float64, float64) {
	// Sanitize at the entry point: a NaN or Inf must never reach the
	// recirculating buffers, or every later sample is corrupted.
	inL = core.Sanitize(inL)
	inR = core.Sanitize(inR)

	timeValue := st.frame.timeAt(idx)
	mass := st.frame.massAt(idx)
	density := st.frame.densityAt(idx)
	bloom := st.frame.bloomAt(idx)
	gravity := st.frame.gravityAt(idx)

	mid, side := spatial.EncodeMidSide(inL, inR)

	inputCoeff := minDiffusionCoeff + (maxDiffusionCoeff-minDiffusionCoeff)*density
	mid = r.inputDiff[0].Process(mid, inputCoeff)
	side = r.inputDiff[1].Process(side, inputCoeff)

	// Spread the two diffused channels into the eight line inputs: mid
	// feeds the even lines, side the odd ones, with alternating sign so
	// the injected energy is balanced across the matrix eigenspaces.
	var feed [numLines]float64
	feed[0] = mid * inputSpreadGain
	feed[1] = side * inputSpreadGain
	feed[2] = -mid * inputSpreadGain
	feed[3] = -side * inputSpreadGain
	feed[4] = mid * inputSpreadGain
	feed[5] = side * inputSpreadGain
	feed[6] = -mid * inputSpreadGain
	feed[7] = -side * inputSpreadGain

	if injSample != 0 {
		for i := range feed {
			feed[i] += injSample
		}
	}

	massCoeff := 0.1 + 0.89*mass
	gravityCoeff := 0.995 - (1-gravity)*(0.995-0.85)

	// Freeze pins both damping stages at near-total retention; leaving the
	// gravity stage free would keep bleeding energy out of the loop and
	// sustain would stay finite.
	if st.freeze {
		massCoeff = freezeDampingCoeff
		gravityCoeff = freezeDampingCoeff
	}

	lateCoeff := minDiffusionCoeff + (maxDiffusionCoeff-minDiffusionCoeff)*bloom

	massCoeff = core.Clamp(massCoeff, minDampingCoeff, maxDampingCoeff)
	gravityCoeff = core.Clamp(gravityCoeff, minDampingCoeff, maxDampingCoeff)

	// Read, damp, and diffuse every line, then route the result through
	// the feedback matrix.
	var damped [numLines]float64
	for i := range damped {
		v := r.lines[i].ReadFractional(r.lineLengthSamples(timeValue, i))
		v = r.massLP[i].Process(v, massCoeff)
		v = r.gravityLP[i].Process(v, gravityCoeff)
		damped[i] = r.lateDiff[i].Process(v, lateCoeff)
	}

	var mixed [numLines]float64
	r.matrix.Multiply(&damped, &mixed)

	for i := range r.lines {
		r.lines[i].Write(core.FlushDenormals(feed[i] + mixed[i]))
	}

	// Aggregate the pre-feedback damped values into a mid/side pair with
	// energy-balanced fixed weights.
	var aggMid, aggSide float64
	for i := range damped {
		aggMid += damped[i]

		if i%2 == 0 {
			aggSide += damped[i]
		} else {
			aggSide -= damped[i]
		}
	}

	aggMid *= r.outputScale
	aggSide *= r.outputScale

	aggMid, aggSide = r.panner.ProcessSample(aggMid, aggSide)
	wetL, wetR := spatial.DecodeMidSide(aggMid, aggSide)

	return inL*r.dry + wetL*r.wet, inR*r.dry + wetR*r.wet
}
