package server

import (
	"testing"

	"github.com/ironsheep/edge-stream/internal/config"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"frame_load",
		"edge_detect_stream",
		"edge_pipeline_info",
		"edge_golden_check",
		"stream_open",
		"stream_push",
		"stream_reset",
		"stream_close",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok || props == nil {
				t.Fatal("InputSchema missing 'properties' field")
			}

			// Every required key must be a declared property.
			if req, ok := tool.InputSchema["required"].([]string); ok {
				for _, r := range req {
					if _, ok := props[r]; !ok {
						t.Errorf("required %q is not a property", r)
					}
				}
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	tests := []struct {
		tool string
		want []string
	}{
		{"frame_load", []string{"path"}},
		{"edge_detect_stream", []string{"path"}},
		{"stream_push", []string{"stream_id", "samples"}},
		{"stream_reset", []string{"stream_id"}},
		{"stream_close", []string{"stream_id"}},
	}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			req, ok := toolMap[tt.tool].InputSchema["required"].([]string)
			if !ok {
				t.Fatal("missing required list")
			}
			if len(req) != len(tt.want) {
				t.Fatalf("required: got %v, want %v", req, tt.want)
			}
			for i := range req {
				if req[i] != tt.want[i] {
					t.Errorf("required[%d]: got %s, want %s", i, req[i], tt.want[i])
				}
			}
		})
	}
}

func TestToolDefinitions_PipelineOverrides(t *testing.T) {
	withOverrides := []string{"edge_detect_stream", "edge_pipeline_info", "edge_golden_check", "stream_open"}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for _, name := range withOverrides {
		t.Run(name, func(t *testing.T) {
			props := toolMap[name].InputSchema["properties"].(map[string]interface{})
			for key := range pipelineProperties() {
				if _, ok := props[key]; !ok {
					t.Errorf("missing pipeline override %q", key)
				}
			}
		})
	}
}

func TestToolDefinitions_Enums(t *testing.T) {
	props := pipelineProperties()
	tests := []struct {
		key  string
		want []string
	}{
		{"filter", []string{"gaussian", "bilateral"}},
		{"binarize", []string{"fixed", "adaptive", "hysteresis"}},
		{"output", []string{"magnitude", "binary"}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			prop := props[tt.key].(map[string]interface{})
			enum, ok := prop["enum"].([]string)
			if !ok {
				t.Fatal("enum missing")
			}
			if len(enum) != len(tt.want) {
				t.Fatalf("enum: got %v, want %v", enum, tt.want)
			}
			for i := range enum {
				if enum[i] != tt.want[i] {
					t.Errorf("enum[%d]: got %s, want %s", i, enum[i], tt.want[i])
				}
			}
		})
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New(config.Default())
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 7, Method: "tools/list"})

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if resp.ID != 7 {
		t.Errorf("ID: got %v, want 7", resp.ID)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	tools, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	if len(tools) != 8 {
		t.Errorf("got %d tools, want 8", len(tools))
	}
}
