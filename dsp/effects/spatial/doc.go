// Package spatial provides stereo spatialization primitives: mid/side
// encoding and a constant-power azimuth/elevation panner.
package spatial
