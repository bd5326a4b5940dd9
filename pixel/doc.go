// Package pixel provides the generic pixel buffer that every other
// package in vision-core consumes and produces.
//
// A Buffer is a rectangular grid of numeric samples with a fixed channel
// count (1 to 4) and a sample depth chosen from the closed set
// {uint8, uint16, float32} via the Sample type parameter. Samples are
// stored in a single flat slice in row-major, channel-interleaved order:
// the sample for channel c of the pixel at (x, y) lives at index
// (y*Width+x)*Channels + c.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left
// corner: X increases rightward, Y increases downward. At and Set are
// bounds-checked and return ErrOutOfBounds for coordinates outside
// [0,Width) x [0,Height).
//
// # Ownership
//
// Operations in vision-core treat their input buffers as read-only and
// allocate a fresh output buffer. A Buffer is safe for concurrent reads;
// callers that mutate a buffer through Set (or the Pix slice directly)
// must synchronize access themselves.
//
// # Depth Ranges
//
// The nominal sample range is [0, 255] for uint8, [0, 65535] for uint16
// and [0, 1] for float32. Integer depths are clamped and rounded
// (round-half-to-even) when written from floating intermediates; float32
// buffers are written through unchanged so that intermediate products
// such as gradient magnitudes may exceed the nominal range.
package pixel
