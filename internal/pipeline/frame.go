package pipeline

import "fmt"

// Frame is a raster of color samples in row-major order.
type Frame struct {
	Width  int
	Height int
	Pix    []RGB
}

// NewGrayFrame wraps 8-bit intensities as a Frame.
func NewGrayFrame(width, height int, gray []uint8) Frame {
	pix := make([]RGB, len(gray))
	for i, v := range gray {
		pix[i] = Gray(v)
	}
	return Frame{Width: width, Height: height, Pix: pix}
}

// DriveOptions controls how RunFrame presents a frame to the pipeline.
type DriveOptions struct {
	// Blanking is the number of idle ticks inserted after every line.
	Blanking int
	// NoDrain skips the idle ticks that flush the pipeline after the last
	// sample.
	NoDrain bool
}

// RunFrame streams one frame through p, asserting frame start on its first
// sample, and returns the valid outputs in order.
//
// Results still in flight when the frame ends are flushed with Latency()
// idle ticks unless opts.NoDrain is set, so a drained frame yields every
// valid window.
func (p *Pipeline) RunFrame(f Frame, opts DriveOptions) ([]Output, error) {
	if f.Width != p.cfg.Width || f.Height != p.cfg.Height {
		return nil, fmt.Errorf("frame %dx%d does not match pipeline geometry %dx%d",
			f.Width, f.Height, p.cfg.Width, p.cfg.Height)
	}
	if len(f.Pix) != f.Width*f.Height {
		return nil, fmt.Errorf("frame has %d samples, want %d", len(f.Pix), f.Width*f.Height)
	}

	var outs []Output
	collect := func(o Output) {
		if o.Valid {
			outs = append(outs, o)
		}
	}
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			collect(p.Tick(Input{
				Color:      f.Pix[y*f.Width+x],
				LineValid:  true,
				FrameStart: x == 0 && y == 0,
			}))
		}
		for i := 0; i < opts.Blanking; i++ {
			collect(p.Tick(Input{}))
		}
	}
	if !opts.NoDrain {
		p.Drain(collect)
	}
	return outs, nil
}

// Drain runs Latency() idle ticks, handing every output to fn.
func (p *Pipeline) Drain(fn func(Output)) {
	for i := 0; i < p.Latency(); i++ {
		o := p.Tick(Input{})
		if fn != nil {
			fn(o)
		}
	}
}
