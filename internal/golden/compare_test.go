package golden

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/edge-stream/internal/pipeline"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name          string
		actual        []uint16
		expected      []uint16
		pass          bool
		mismatched    int
		firstMismatch int
		maxErr        float64
	}{
		{"identical", []uint16{0xFFFF, 0x0000, 0x8410}, []uint16{0xFFFF, 0x0000, 0x8410}, true, 0, -1, 0},
		{"one wrong", []uint16{0xFFFF, 0x0000, 0x8410}, []uint16{0xFFFF, 0xFFFF, 0x8410}, false, 1, 1, 255},
		{"short actual", []uint16{0xFFFF}, []uint16{0xFFFF, 0x8410}, false, 1, 1, 130},
		{"surplus actual", []uint16{0x0000, 0x0000}, []uint16{0x0000}, false, 1, 1, 0},
		{"both empty", nil, nil, true, 0, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compare(tt.actual, tt.expected)
			if r.Pass() != tt.pass {
				t.Errorf("Pass: got %v, want %v (%s)", r.Pass(), tt.pass, r)
			}
			if r.Mismatched != tt.mismatched {
				t.Errorf("Mismatched: got %d, want %d", r.Mismatched, tt.mismatched)
			}
			if r.FirstMismatch != tt.firstMismatch {
				t.Errorf("FirstMismatch: got %d, want %d", r.FirstMismatch, tt.firstMismatch)
			}
			if r.MaxAbsError != tt.maxErr {
				t.Errorf("MaxAbsError: got %v, want %v", r.MaxAbsError, tt.maxErr)
			}
		})
	}
}

func TestCompare_Statistics(t *testing.T) {
	r := Compare([]uint16{0x0000, 0x0000, 0x0000, 0x0000}, []uint16{0xFFFF, 0x0000, 0xFFFF, 0x0000})

	if r.Matched != 2 || r.Mismatched != 2 {
		t.Fatalf("matched/mismatched: got %d/%d, want 2/2", r.Matched, r.Mismatched)
	}
	if r.MeanAbsError != 127.5 {
		t.Errorf("MeanAbsError: got %v, want 127.5", r.MeanAbsError)
	}
	// Sample standard deviation of {255, 0, 255, 0}.
	if want := math.Sqrt(4 * 127.5 * 127.5 / 3); math.Abs(r.StdDevError-want) > 1e-9 {
		t.Errorf("StdDevError: got %v, want %v", r.StdDevError, want)
	}
	if !strings.HasPrefix(r.String(), "FAIL") {
		t.Errorf("String: got %q", r.String())
	}
}

func TestReport_WriteJSON(t *testing.T) {
	r := Compare([]uint16{1, 2}, []uint16{1, 2})
	path := filepath.Join(t.TempDir(), "report.json")
	if err := r.WriteJSON(path); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	var got Report
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	if got != *r {
		t.Errorf("report: got %+v, want %+v", got, *r)
	}
}

func TestDiffImage(t *testing.T) {
	const w, h = 6, 5
	n := (w - 1) * (h - 2)
	expected := make([]uint16, n)
	for i := range expected {
		expected[i] = pipeline.PackEdge565(uint8(i * 10))
	}

	img, err := DiffImage(expected, expected, w, h)
	if err != nil {
		t.Fatalf("DiffImage failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != w-1 || b.Dy() != h-2 {
		t.Fatalf("bounds: got %dx%d, want %dx%d", b.Dx(), b.Dy(), w-1, h-2)
	}
	for y := 0; y < h-2; y++ {
		for x := 0; x < w-1; x++ {
			if r := img.RGBAAt(x, y).R; r != 0 {
				t.Fatalf("identical streams differ at (%d,%d): %d", x, y, r)
			}
		}
	}

	actual := append([]uint16(nil), expected...)
	actual[w] = 0xFFFF // second row, second column
	img, err = DiffImage(actual, expected, w, h)
	if err != nil {
		t.Fatalf("DiffImage failed: %v", err)
	}
	if r := img.RGBAAt(1, 1).R; r == 0 {
		t.Error("mismatch not visible in diff image")
	}

	if _, err := DiffImage(nil, nil, 2, 5); err == nil {
		t.Error("DiffImage should reject an invalid frame size")
	}
}

func TestCheck(t *testing.T) {
	cfgs := map[string]pipeline.Config{
		"default":  config(32, 16, nil),
		"adaptive": config(32, 16, func(c *pipeline.Config) { c.Binarize = pipeline.BinarizeAdaptive }),
		"magnitude": config(32, 16, func(c *pipeline.Config) {
			c.Output, c.ShadowReject = pipeline.OutputMagnitude, true
		}),
	}
	for name, cfg := range cfgs {
		t.Run(name, func(t *testing.T) {
			r, err := Check(cfg, 123, pipeline.DriveOptions{Blanking: 2})
			if err != nil {
				t.Fatalf("Check failed: %v", err)
			}
			if !r.Pass() {
				t.Errorf("golden check failed: %s", r)
			}
		})
	}
}
