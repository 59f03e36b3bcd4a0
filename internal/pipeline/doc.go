// Package pipeline implements a fixed-latency streaming Sobel edge detector.
//
// Samples enter one per tick in raster order and flow through a chain of
// stages, each of which does its work once per tick:
//
//	grayscale -> window extractor -> noise filter -> gradient -> magnitude
//	          -> shadow/blob rejector -> binarizer -> spatial noise reject
//
// Every stage holds its output in a register, so several samples are in
// flight at once and each result leaves the pipeline exactly Latency() ticks
// after its input was accepted: one per stage, plus one look-ahead tick when
// the spatial noise-reject filter is enabled. All arithmetic is integer and
// bit-exact with the frame-level reference model in package golden.
//
// # Coordinates
//
// Row and column counters are advanced by the Coordinator on every accepted
// sample. A window emitted for the sample at (row, col) covers rows row-2..row
// and columns col-2..col, so its center pixel is (row-1, col-1). Column
// addressing wraps modulo the raster width: the window emitted at col 1 takes
// its left column from the end of the previous line.
//
// # Validity
//
// A window is valid only when row >= 2, col >= 1 and the extractor has seen
// 2*width+1 samples since the last reset. Invalid windows cause no work
// downstream; the corresponding output tick carries Valid == false.
//
// # Reset
//
// Pipeline.Reset zeroes every line buffer, history register and counter and
// discards any samples still in flight. A frame-start pulse is weaker: it only
// rewinds the row/column counters, leaving the line buffers and warm-up
// counter untouched.
//
// # Thread Safety
//
// A Pipeline is owned by a single goroutine. Independent streams use
// independent Pipeline values; nothing is shared between instances.
package pipeline
