// Package imaging connects image files to the streaming edge pipeline.
//
// It decodes source frames (with an in-memory cache), crops regions of
// interest, rasterizes images into the pipeline's fixed geometry, reads and
// writes raw RGB565 stream files, and renders pipeline outputs back into
// edge-map images.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive
//
// A pipeline output at (row, col) is drawn at its window center
// (x = col-1, y = row-1).
//
// # Raw Streams
//
// Raw stream files are concatenated frames of little-endian 16-bit RGB565
// words with no header. Geometry lives in a sidecar text file of key=value
// lines (frames, width, height, fps, format).
//
// # Thread Safety
//
// FrameCache is safe for concurrent use. The remaining functions are
// stateless; each StreamEdgeDetect call builds its own pipeline.
package imaging
