// Package server implements the MCP (Model Context Protocol) server for the
// streaming edge pipeline.
//
// This package provides a JSON-RPC 2.0 server that exposes the pipeline
// through the MCP protocol, so a client can stream frames, drive isolated
// pipeline instances sample by sample, and run golden-model checks.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Frames:
//   - frame_load: Load an image and describe it
//
// Edge Detection:
//   - edge_detect_stream: Stream one image as a frame and return the edge map
//   - edge_pipeline_info: Describe the effective configuration and timing
//   - edge_golden_check: Compare the pipeline against the reference model
//
// Streams:
//   - stream_open: Create an isolated pipeline
//   - stream_push: Clock samples into it, one tick each
//   - stream_reset: Asynchronous reset
//   - stream_close: Discard it
//
// Every tool that builds a pipeline accepts the same overrides (geometry,
// filter, rejector, binarizer, noise reject, output). Omitted keys keep the
// configuration the server was started with.
//
// # Streams
//
// Open streams live until closed or until the process exits. Pushes to one
// stream are serialized; different streams never share state.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(config.Default())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
