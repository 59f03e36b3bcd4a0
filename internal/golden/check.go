package golden

import (
	"fmt"

	"github.com/ironsheep/edge-stream/internal/pipeline"
)

// Run streams the vector input through a fresh pipeline and returns its
// output as RGB565 display words.
func Run(cfg pipeline.Config, v *Vectors, opts pipeline.DriveOptions) ([]uint16, error) {
	p, err := pipeline.New(cfg)
	if err != nil {
		return nil, err
	}
	outs, err := p.RunFrame(FrameFromRGB565(v.Width, v.Height, v.Input), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to stream vectors: %w", err)
	}
	return PackOutputs(cfg.Output, outs), nil
}

// Check generates vectors for seed, streams them, and compares the result
// against the reference model.
func Check(cfg pipeline.Config, seed int64, opts pipeline.DriveOptions) (*Report, error) {
	v, err := Generate(cfg, seed)
	if err != nil {
		return nil, err
	}
	got, err := Run(cfg, v, opts)
	if err != nil {
		return nil, err
	}
	return Compare(got, v.Expected), nil
}
