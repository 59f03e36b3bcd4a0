package server

import (
	"encoding/json"
	"fmt"
	"image"
	"path/filepath"

	"github.com/ironsheep/edge-stream/internal/golden"
	"github.com/ironsheep/edge-stream/internal/imaging"
	"github.com/ironsheep/edge-stream/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "edge_detect_stream", "stream_push").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Debug("server: tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Overlays pipeline overrides on the server's configured defaults
//  3. Loads frames from cache or looks up the open stream as needed
//  4. Calls the appropriate pipeline/imaging/golden function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Frames
	case "frame_load":
		return s.handleFrameLoad(args)

	// Edge detection
	case "edge_detect_stream":
		return s.handleEdgeDetectStream(args)
	case "edge_pipeline_info":
		return s.handleEdgePipelineInfo(args)
	case "edge_golden_check":
		return s.handleEdgeGoldenCheck(args)

	// Streams
	case "stream_open":
		return s.handleStreamOpen(args)
	case "stream_push":
		return s.handleStreamPush(args)
	case "stream_reset":
		return s.handleStreamReset(args)
	case "stream_close":
		return s.handleStreamClose(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON marshals v to JSON, returning an error object on failure.
func mustMarshalJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error": "failed to marshal result: %s"}`, err.Error())
	}
	return string(data)
}

// observer bridges pipeline stage events to the debug log. The pipeline
// only calls it when the configuration has debug set.
func (s *Server) observer() pipeline.Option {
	return pipeline.WithObserver(func(ev pipeline.Event) {
		s.log.Debug("pipeline: stage",
			"stage", ev.Stage.String(),
			"row", ev.Row,
			"col", ev.Col,
			"gray", ev.Gray,
			"gx", ev.Gradient.Gx,
			"gy", ev.Gradient.Gy,
			"magnitude", ev.Magnitude,
			"binary", ev.Binary,
		)
	})
}

// === Pipeline Overrides ===

// pipelineArgs are the per-call configuration overrides shared by the tools
// that build a pipeline. Nil fields keep the server default.
type pipelineArgs struct {
	Width              *int    `json:"width"`
	Height             *int    `json:"height"`
	Filter             *string `json:"filter"`
	RangeThreshold     *int    `json:"range_threshold"`
	Bypass             *bool   `json:"bypass"`
	ShadowReject       *bool   `json:"shadow_reject"`
	StabilityThreshold *int    `json:"stability_threshold"`
	StrengthThreshold  *int    `json:"strength_threshold"`
	Binarize           *string `json:"binarize"`
	Threshold          *int    `json:"threshold"`
	Low                *int    `json:"low"`
	High               *int    `json:"high"`
	AdaptiveOffset     *int    `json:"adaptive_offset"`
	NoiseReject        *bool   `json:"noise_reject"`
	Output             *string `json:"output"`
}

// apply overlays the overrides on base and validates the result.
func (a pipelineArgs) apply(base pipeline.Config) (pipeline.Config, error) {
	c := base
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setBool := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}

	setInt(&c.Width, a.Width)
	setInt(&c.Height, a.Height)
	setInt(&c.RangeThreshold, a.RangeThreshold)
	setBool(&c.Bypass, a.Bypass)
	setBool(&c.ShadowReject, a.ShadowReject)
	setInt(&c.StabilityThreshold, a.StabilityThreshold)
	setInt(&c.StrengthThreshold, a.StrengthThreshold)
	setInt(&c.Threshold, a.Threshold)
	setInt(&c.LowThreshold, a.Low)
	setInt(&c.HighThreshold, a.High)
	setInt(&c.AdaptiveOffset, a.AdaptiveOffset)
	setBool(&c.NoiseReject, a.NoiseReject)

	var err error
	if a.Filter != nil {
		if c.Filter, err = pipeline.ParseFilterMode(*a.Filter); err != nil {
			return pipeline.Config{}, err
		}
	}
	if a.Binarize != nil {
		if c.Binarize, err = pipeline.ParseBinarizeMode(*a.Binarize); err != nil {
			return pipeline.Config{}, err
		}
	}
	if a.Output != nil {
		if c.Output, err = pipeline.ParseOutputMode(*a.Output); err != nil {
			return pipeline.Config{}, err
		}
	}

	if err := c.Validate(); err != nil {
		return pipeline.Config{}, err
	}
	return c, nil
}

func (s *Server) driveOptions(blanking *int) (pipeline.DriveOptions, error) {
	opts := s.settings.Drive
	if blanking != nil {
		if *blanking < 0 {
			return pipeline.DriveOptions{}, fmt.Errorf("blanking must be non-negative, got %d", *blanking)
		}
		opts.Blanking = *blanking
	}
	return opts, nil
}

// === Frame Handlers ===

type frameLoadArgs struct {
	Path   string `json:"path"`
	Reload bool   `json:"reload"`
}

func (s *Server) handleFrameLoad(args json.RawMessage) (interface{}, error) {
	var a frameLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Reload {
		s.cache.Evict(a.Path)
	}
	return imaging.LoadFrameInfo(s.cache, a.Path)
}

// === Edge Detection Handlers ===

type edgeDetectStreamArgs struct {
	pipelineArgs
	Path     string          `json:"path"`
	Region   *imaging.Region `json:"region"`
	Blanking *int            `json:"blanking"`
	SavePath string          `json:"save_path"`
}

func (s *Server) handleEdgeDetectStream(args json.RawMessage) (interface{}, error) {
	var a edgeDetectStreamArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.apply(s.settings.Pipeline)
	if err != nil {
		return nil, err
	}
	opts, err := s.driveOptions(a.Blanking)
	if err != nil {
		return nil, err
	}

	var img image.Image
	img, err = s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if a.Region != nil {
		if img, err = imaging.Crop(img, *a.Region); err != nil {
			return nil, err
		}
	}

	edges, p, err := imaging.StreamFrame(img, cfg, opts, s.observer())
	if err != nil {
		return nil, err
	}
	if a.SavePath != "" {
		if err := imaging.SaveEdgeMap(edges, a.SavePath); err != nil {
			return nil, err
		}
		// The file on disk changed; a later load must not see a stale frame.
		s.cache.Evict(a.SavePath)
	}
	s.log.Info("edge map streamed", "path", a.Path, "width", cfg.Width, "height", cfg.Height,
		"edges", p.Stats().Edges)
	return imaging.EncodeEdgeResult(edges, p)
}

// PipelineInfo describes an effective pipeline configuration.
type PipelineInfo struct {
	Width              int    `json:"width"`
	Height             int    `json:"height"`
	PixelBits          int    `json:"pixel_bits"`
	Filter             string `json:"filter"`
	RangeThreshold     int    `json:"range_threshold"`
	Bypass             bool   `json:"bypass"`
	ShadowReject       bool   `json:"shadow_reject"`
	StabilityThreshold int    `json:"stability_threshold"`
	StrengthThreshold  int    `json:"strength_threshold"`
	Binarize           string `json:"binarize"`
	Threshold          int    `json:"threshold"`
	LowThreshold       int    `json:"low"`
	HighThreshold      int    `json:"high"`
	AdaptiveOffset     int    `json:"adaptive_offset"`
	NoiseReject        bool   `json:"noise_reject"`
	Output             string `json:"output"`
	Latency            int    `json:"latency"`
	WarmupSamples      int    `json:"warmup_samples"`
	ValidWindows       int    `json:"valid_windows_per_frame"`
	Blanking           int    `json:"blanking"`
}

func (s *Server) handleEdgePipelineInfo(args json.RawMessage) (interface{}, error) {
	var a pipelineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.apply(s.settings.Pipeline)
	if err != nil {
		return nil, err
	}
	p, err := pipeline.New(cfg)
	if err != nil {
		return nil, err
	}

	return &PipelineInfo{
		Width:              cfg.Width,
		Height:             cfg.Height,
		PixelBits:          cfg.PixelBits,
		Filter:             cfg.Filter.String(),
		RangeThreshold:     cfg.RangeThreshold,
		Bypass:             cfg.Bypass,
		ShadowReject:       cfg.ShadowReject,
		StabilityThreshold: cfg.StabilityThreshold,
		StrengthThreshold:  cfg.StrengthThreshold,
		Binarize:           cfg.Binarize.String(),
		Threshold:          cfg.Threshold,
		LowThreshold:       cfg.LowThreshold,
		HighThreshold:      cfg.HighThreshold,
		AdaptiveOffset:     cfg.AdaptiveOffset,
		NoiseReject:        cfg.NoiseReject,
		Output:             cfg.Output.String(),
		Latency:            p.Latency(),
		WarmupSamples:      pipeline.WarmupSamples(cfg.Width),
		ValidWindows:       (cfg.Height - 2) * (cfg.Width - 1),
		Blanking:           s.settings.Drive.Blanking,
	}, nil
}

type edgeGoldenCheckArgs struct {
	pipelineArgs
	Seed       *int64 `json:"seed"`
	Blanking   *int   `json:"blanking"`
	VectorsDir string `json:"vectors_dir"`
}

// GoldenCheckResult is the outcome of a golden comparison.
type GoldenCheckResult struct {
	Pass   bool           `json:"pass"`
	Seed   int64          `json:"seed"`
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Report *golden.Report `json:"report"`
	Files  []string       `json:"files,omitempty"`
}

// Files written next to the .mem vectors by edge_golden_check.
const (
	actualMemFile = "actual_output.mem"
	reportFile    = "report.json"
	diffFile      = "diff.png"
)

func (s *Server) handleEdgeGoldenCheck(args json.RawMessage) (interface{}, error) {
	var a edgeGoldenCheckArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.apply(s.settings.Pipeline)
	if err != nil {
		return nil, err
	}
	opts, err := s.driveOptions(a.Blanking)
	if err != nil {
		return nil, err
	}
	seed := int64(123)
	if a.Seed != nil {
		seed = *a.Seed
	}

	v, err := golden.Generate(cfg, seed)
	if err != nil {
		return nil, err
	}
	got, err := golden.Run(cfg, v, opts)
	if err != nil {
		return nil, err
	}
	report := golden.Compare(got, v.Expected)

	result := &GoldenCheckResult{
		Pass:   report.Pass(),
		Seed:   seed,
		Width:  cfg.Width,
		Height: cfg.Height,
		Report: report,
	}
	if a.VectorsDir != "" {
		files, err := writeGoldenArtifacts(a.VectorsDir, v, got, report)
		if err != nil {
			return nil, err
		}
		result.Files = files
	}

	s.log.Info("golden check", "seed", seed, "pass", result.Pass, "mismatched", report.Mismatched)
	return result, nil
}

func writeGoldenArtifacts(dir string, v *golden.Vectors, got []uint16, report *golden.Report) ([]string, error) {
	if err := v.Write(dir); err != nil {
		return nil, err
	}
	actual := filepath.Join(dir, actualMemFile)
	if err := golden.WriteMem(actual, got); err != nil {
		return nil, err
	}
	rep := filepath.Join(dir, reportFile)
	if err := report.WriteJSON(rep); err != nil {
		return nil, err
	}
	diff, err := golden.DiffImage(got, v.Expected, v.Width, v.Height)
	if err != nil {
		return nil, err
	}
	diffPath := filepath.Join(dir, diffFile)
	if err := imaging.SaveEdgeMap(diff, diffPath); err != nil {
		return nil, err
	}
	return []string{
		filepath.Join(dir, golden.InputMemFile),
		filepath.Join(dir, golden.ExpectedMemFile),
		actual,
		rep,
		diffPath,
	}, nil
}

// === Stream Handlers ===

// StreamInfo is returned when a stream is opened.
type StreamInfo struct {
	StreamID      string `json:"stream_id"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Latency       int    `json:"latency"`
	WarmupSamples int    `json:"warmup_samples"`
}

func (s *Server) handleStreamOpen(args json.RawMessage) (interface{}, error) {
	var a pipelineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.apply(s.settings.Pipeline)
	if err != nil {
		return nil, err
	}
	id, latency, err := s.streams.Open(cfg, s.observer())
	if err != nil {
		return nil, err
	}
	info := &StreamInfo{
		StreamID:      id,
		Width:         cfg.Width,
		Height:        cfg.Height,
		Latency:       latency,
		WarmupSamples: pipeline.WarmupSamples(cfg.Width),
	}
	s.log.Info("stream opened", "stream_id", id, "width", cfg.Width, "height", cfg.Height)
	return info, nil
}

// streamSample is one tick of input. Gray takes precedence over RGB565; a
// sample with line_valid false is an idle tick and needs neither.
type streamSample struct {
	Gray       *int  `json:"gray"`
	RGB565     *int  `json:"rgb565"`
	LineValid  *bool `json:"line_valid"`
	FrameStart bool  `json:"frame_start"`
}

func (ss streamSample) input() (pipeline.Input, error) {
	in := pipeline.Input{LineValid: true, FrameStart: ss.FrameStart}
	if ss.LineValid != nil {
		in.LineValid = *ss.LineValid
	}
	switch {
	case ss.Gray != nil:
		if *ss.Gray < 0 || *ss.Gray > 255 {
			return pipeline.Input{}, fmt.Errorf("gray %d out of range 0-255", *ss.Gray)
		}
		in.Color = pipeline.Gray(uint8(*ss.Gray))
	case ss.RGB565 != nil:
		if *ss.RGB565 < 0 || *ss.RGB565 > 0xFFFF {
			return pipeline.Input{}, fmt.Errorf("rgb565 %d out of range 0-65535", *ss.RGB565)
		}
		in.Color = pipeline.FromRGB565(uint16(*ss.RGB565))
	case in.LineValid:
		return pipeline.Input{}, fmt.Errorf("sample needs gray or rgb565")
	}
	return in, nil
}

type streamPushArgs struct {
	StreamID string         `json:"stream_id"`
	Samples  []streamSample `json:"samples"`
	Drain    bool           `json:"drain"`
}

// StreamPushResult lists the valid outputs produced by one push.
type StreamPushResult struct {
	StreamID string                  `json:"stream_id"`
	Ticks    int                     `json:"ticks"`
	Outputs  []pipeline.Output       `json:"outputs"`
	Position pipeline.StreamPosition `json:"position"`
	WarmedUp bool                    `json:"warmed_up"`
	Stats    pipeline.Stats          `json:"stats"`
}

func (s *Server) handleStreamPush(args json.RawMessage) (interface{}, error) {
	var a streamPushArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	// Decode everything up front so a bad sample leaves the stream untouched.
	inputs := make([]pipeline.Input, len(a.Samples))
	for i, ss := range a.Samples {
		in, err := ss.input()
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		inputs[i] = in
	}

	result := &StreamPushResult{StreamID: a.StreamID, Outputs: []pipeline.Output{}}
	err := s.streams.With(a.StreamID, func(p *pipeline.Pipeline) error {
		collect := func(o pipeline.Output) {
			result.Ticks++
			if o.Valid {
				result.Outputs = append(result.Outputs, o)
			}
		}
		for _, in := range inputs {
			collect(p.Tick(in))
		}
		if a.Drain {
			p.Drain(collect)
		}
		result.Position = p.Position()
		result.WarmedUp = p.WarmedUp()
		result.Stats = p.Stats()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type streamIDArgs struct {
	StreamID string `json:"stream_id"`
}

func (s *Server) handleStreamReset(args json.RawMessage) (interface{}, error) {
	var a streamIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	err := s.streams.With(a.StreamID, func(p *pipeline.Pipeline) error {
		p.Reset()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"stream_id": a.StreamID, "reset": true}, nil
}

func (s *Server) handleStreamClose(args json.RawMessage) (interface{}, error) {
	var a streamIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := s.streams.Close(a.StreamID); err != nil {
		return nil, err
	}
	s.log.Info("stream closed", "stream_id", a.StreamID)
	return map[string]interface{}{"stream_id": a.StreamID, "closed": true}, nil
}
