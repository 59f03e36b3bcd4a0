package golden

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ironsheep/edge-stream/internal/pipeline"
)

// File names written by Vectors.Write.
const (
	InputMemFile    = "input_rgb565.mem"
	ExpectedMemFile = "expected_output.mem"
)

// Vectors is a stimulus frame and the display pixels a pipeline must emit for
// it, both as RGB565 words.
type Vectors struct {
	Width    int
	Height   int
	Seed     int64
	Input    []uint16
	Expected []uint16
}

// RandomFrame returns a width x height frame of uniformly random RGB565
// pixels. The same seed always yields the same frame.
func RandomFrame(width, height int, seed int64) []uint16 {
	rnd := rand.New(rand.NewSource(seed))
	px := make([]uint16, width*height)
	for i := range px {
		px[i] = uint16(rnd.Intn(1 << 16))
	}
	return px
}

// FrameFromRGB565 expands packed pixels into a pipeline frame.
func FrameFromRGB565(width, height int, px []uint16) pipeline.Frame {
	pix := make([]pipeline.RGB, len(px))
	for i, p := range px {
		pix[i] = pipeline.FromRGB565(p)
	}
	return pipeline.Frame{Width: width, Height: height, Pix: pix}
}

// Generate builds vectors for a random frame under cfg. cfg.Width and
// cfg.Height define the frame size.
func Generate(cfg pipeline.Config, seed int64) (*Vectors, error) {
	in := RandomFrame(cfg.Width, cfg.Height, seed)
	outs, err := Model(cfg, FrameFromRGB565(cfg.Width, cfg.Height, in))
	if err != nil {
		return nil, fmt.Errorf("failed to run reference model: %w", err)
	}
	return &Vectors{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Seed:     seed,
		Input:    in,
		Expected: PackOutputs(cfg.Output, outs),
	}, nil
}

// EdgeValue is the 8-bit display value of an output in the given mode.
func EdgeValue(mode pipeline.OutputMode, o pipeline.Output) uint8 {
	if mode == pipeline.OutputBinary {
		if o.Binary {
			return 255
		}
		return 0
	}
	return o.Magnitude
}

// PackOutputs renders outputs as gray RGB565 display pixels.
func PackOutputs(mode pipeline.OutputMode, outs []pipeline.Output) []uint16 {
	px := make([]uint16, len(outs))
	for i, o := range outs {
		px[i] = pipeline.PackEdge565(EdgeValue(mode, o))
	}
	return px
}

// Write stores the input and expected streams in dir as .mem files.
func (v *Vectors) Write(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create vector directory: %w", err)
	}
	if err := WriteMem(filepath.Join(dir, InputMemFile), v.Input); err != nil {
		return err
	}
	return WriteMem(filepath.Join(dir, ExpectedMemFile), v.Expected)
}

// WriteMem writes one 4-digit lowercase hex word per line, the format HDL
// $readmemh loaders expect.
func WriteMem(path string, words []uint16) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create mem file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, v := range words {
		if _, err := fmt.Fprintf(w, "%04x\n", v); err != nil {
			return fmt.Errorf("failed to write mem file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write mem file: %w", err)
	}
	return nil
}

// ReadMem parses a file written by WriteMem. Blank lines and // comments are
// skipped.
func ReadMem(path string) ([]uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mem file: %w", err)
	}
	defer f.Close()

	var words []uint16
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if i := strings.Index(line, "//"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}
		v, err := strconv.ParseUint(line, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid word %q: %w", path, n, line, err)
		}
		words = append(words, uint16(v))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mem file: %w", err)
	}
	return words, nil
}
