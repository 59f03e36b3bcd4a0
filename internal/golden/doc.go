// Package golden is the reference model for the streaming pipeline.
//
// Model computes expected outputs from a whole frame in memory, using plain
// array indexing instead of line buffers and pipeline registers. Generate
// pairs a seeded random RGB565 frame with those outputs, and Write stores
// both as .mem hex files (one 16-bit word per line) for HDL testbenches.
// Compare and DiffImage report how far an actual stream is from the
// expected one.
package golden
