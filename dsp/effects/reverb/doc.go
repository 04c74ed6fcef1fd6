// Package reverb implements the late-reverberation core: an eight-line
// feedback delay network (FDN) with an orthogonal Householder feedback
// matrix, input and late allpass diffusion, per-line two-stage damping,
// per-sample parameter automation, optional external signal injection, and
// constant-power spatial rendering of the network output.
//
// The processing surfaces are real-time safe: after Prepare, no call on the
// audio path allocates, blocks, or panics. Control-thread updates (parameter
// frames, freeze, injection buffers, position) are handed off through
// lock-free atomics and picked up once per block.
package reverb
