package golden

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/anthonynsimon/bild/blend"
	"github.com/ironsheep/edge-stream/internal/pipeline"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Report summarizes an actual output stream against the expected one.
type Report struct {
	Actual        int     `json:"actual"`
	Expected      int     `json:"expected"`
	Matched       int     `json:"matched"`
	Mismatched    int     `json:"mismatched"`
	FirstMismatch int     `json:"first_mismatch"`
	MeanAbsError  float64 `json:"mean_abs_error"`
	StdDevError   float64 `json:"stddev_abs_error"`
	MaxAbsError   float64 `json:"max_abs_error"`
}

// Pass reports whether the streams are identical.
func (r *Report) Pass() bool {
	return r.Actual == r.Expected && r.Mismatched == 0
}

func (r *Report) String() string {
	status := "PASS"
	if !r.Pass() {
		status = "FAIL"
	}
	return fmt.Sprintf("%s: %d/%d matched (got %d words), first mismatch %d, mean |err| %.3f, max |err| %.0f",
		status, r.Matched, r.Expected, r.Actual, r.FirstMismatch, r.MeanAbsError, r.MaxAbsError)
}

// Compare checks actual against expected word by word. Missing or surplus
// words on either side count as mismatches. Errors are measured on the
// green channel, the widest channel of a gray RGB565 pixel.
func Compare(actual, expected []uint16) *Report {
	n := max(len(actual), len(expected))
	r := &Report{
		Actual:        len(actual),
		Expected:      len(expected),
		FirstMismatch: -1,
	}
	if n == 0 {
		return r
	}

	errs := make([]float64, n)
	for i := 0; i < n; i++ {
		var a, e uint16
		okA, okE := i < len(actual), i < len(expected)
		if okA {
			a = actual[i]
		}
		if okE {
			e = expected[i]
		}
		if okA && okE && a == e {
			r.Matched++
			continue
		}
		r.Mismatched++
		if r.FirstMismatch < 0 {
			r.FirstMismatch = i
		}
		errs[i] = float64(iabs(int(edgeLevel(a)) - int(edgeLevel(e))))
	}
	r.MeanAbsError = stat.Mean(errs, nil)
	if n > 1 {
		r.StdDevError = stat.StdDev(errs, nil)
	}
	r.MaxAbsError = floats.Max(errs)
	return r
}

// edgeLevel recovers the 8-bit level of a gray RGB565 pixel.
func edgeLevel(p uint16) uint8 {
	return pipeline.Expand6(uint8(p >> 5))
}

// WriteJSON stores the report at path.
func (r *Report) WriteJSON(path string) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// DiffImage lays both streams out on the (width-1) x (height-2) grid of
// valid windows and returns their per-pixel absolute difference. Identical
// streams give an all-black image.
func DiffImage(actual, expected []uint16, width, height int) (*image.RGBA, error) {
	if width < 3 || height < 3 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	rect := image.Rect(0, 0, width-1, height-2)
	return blend.Difference(gridImage(expected, rect), gridImage(actual, rect)), nil
}

func gridImage(words []uint16, rect image.Rectangle) *image.Gray {
	img := image.NewGray(rect)
	for i, p := range words {
		x, y := i%rect.Dx(), i/rect.Dx()
		if y >= rect.Dy() {
			break
		}
		img.SetGray(x, y, color.Gray{Y: edgeLevel(p)})
	}
	return img
}
