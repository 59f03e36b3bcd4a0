package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pipelineProperties are the configuration overrides accepted by every tool
// that builds a pipeline. Omitted keys keep the server's configured value.
func pipelineProperties() map[string]interface{} {
	return map[string]interface{}{
		"width": map[string]interface{}{
			"type":        "integer",
			"description": "Raster width in pixels (frames are resampled to it)",
		},
		"height": map[string]interface{}{
			"type":        "integer",
			"description": "Raster height in pixels",
		},
		"filter": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"gaussian", "bilateral"},
			"description": "Noise-reduction filter",
		},
		"range_threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Bilateral intensity gate (0-256)",
		},
		"bypass": map[string]interface{}{
			"type":        "boolean",
			"description": "Skip the noise-reduction filter",
		},
		"shadow_reject": map[string]interface{}{
			"type":        "boolean",
			"description": "Enable the shadow/blob rejector",
		},
		"stability_threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Rejector: maximum magnitude change between samples",
		},
		"strength_threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Rejector: minimum magnitude",
		},
		"binarize": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"fixed", "adaptive", "hysteresis"},
			"description": "Binarizer mode",
		},
		"threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Fixed-mode threshold (0-255)",
		},
		"low": map[string]interface{}{
			"type":        "integer",
			"description": "Hysteresis low threshold (0-255)",
		},
		"high": map[string]interface{}{
			"type":        "integer",
			"description": "Hysteresis high threshold (0-255), must exceed low",
		},
		"adaptive_offset": map[string]interface{}{
			"type":        "integer",
			"description": "Adaptive-mode offset added to the running mean",
		},
		"noise_reject": map[string]interface{}{
			"type":        "boolean",
			"description": "Enable the spatial noise-reject filter",
		},
		"output": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"magnitude", "binary"},
			"description": "Output contract to render",
		},
	}
}

func withPipeline(props map[string]interface{}) map[string]interface{} {
	for k, v := range pipelineProperties() {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Frames
		{
			Name:        "frame_load",
			Description: "Load an image file as a source frame and return its dimensions, format and pixel count.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"reload": map[string]interface{}{
						"type":        "boolean",
						"description": "Drop any cached copy and decode the file again",
					},
				},
				"required": []string{"path"},
			},
		},

		// Edge detection
		{
			Name:        "edge_detect_stream",
			Description: "Stream an image through the edge pipeline as one frame and return the edge map as base64 PNG with pipeline counters.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withPipeline(map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"region": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
						"description": "Optional region of interest cropped before streaming",
					},
					"blanking": map[string]interface{}{
						"type":        "integer",
						"description": "Idle ticks inserted after every line (default 0)",
					},
					"save_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to also write the edge map to",
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "edge_pipeline_info",
			Description: "Describe the effective pipeline configuration: geometry, modes, thresholds, latency and warm-up length.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pipelineProperties(),
			},
		},
		{
			Name:        "edge_golden_check",
			Description: "Generate a seeded random RGB565 frame, stream it and compare the output against the reference model bit for bit.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withPipeline(map[string]interface{}{
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Random seed (default 123)",
						"default":     123,
					},
					"blanking": map[string]interface{}{
						"type":        "integer",
						"description": "Idle ticks inserted after every line (default 0)",
					},
					"vectors_dir": map[string]interface{}{
						"type":        "string",
						"description": "Optional directory to write input/expected .mem files to",
					},
				}),
			},
		},

		// Streams
		{
			Name:        "stream_open",
			Description: "Open an isolated streaming pipeline and return its id.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pipelineProperties(),
			},
		},
		{
			Name:        "stream_push",
			Description: "Clock samples into an open stream, one tick per sample, and return the valid outputs produced.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"stream_id": map[string]interface{}{
						"type":        "string",
						"description": "Id returned by stream_open",
					},
					"samples": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"gray":        map[string]interface{}{"type": "integer", "description": "8-bit intensity"},
								"rgb565":      map[string]interface{}{"type": "integer", "description": "Packed 5:6:5 color, used when gray is absent"},
								"line_valid":  map[string]interface{}{"type": "boolean", "description": "Default true; false makes an idle tick"},
								"frame_start": map[string]interface{}{"type": "boolean"},
							},
						},
						"description": "Samples in raster order",
					},
					"drain": map[string]interface{}{
						"type":        "boolean",
						"description": "Append idle ticks to flush results still in flight",
					},
				},
				"required": []string{"stream_id", "samples"},
			},
		},
		{
			Name:        "stream_reset",
			Description: "Reset an open stream: clears line buffers, history and counters and discards samples in flight.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"stream_id": map[string]interface{}{"type": "string"},
				},
				"required": []string{"stream_id"},
			},
		},
		{
			Name:        "stream_close",
			Description: "Close an open stream and release its buffers.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"stream_id": map[string]interface{}{"type": "string"},
				},
				"required": []string{"stream_id"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
