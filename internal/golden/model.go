package golden

import (
	"fmt"

	"github.com/ironsheep/edge-stream/internal/pipeline"
)

// Model computes, from a whole frame held in memory, the outputs a freshly
// reset pipeline must produce for that frame. It shares no code with the
// streaming stages beyond the configuration and the luma/RGB helpers, so
// agreement between the two is a real cross-check of buffering and timing.
//
// The result lists valid outputs in emission order, one per valid window.
func Model(cfg pipeline.Config, f pipeline.Frame) ([]pipeline.Output, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if f.Width != cfg.Width || f.Height != cfg.Height || len(f.Pix) != f.Width*f.Height {
		return nil, fmt.Errorf("frame %dx%d (%d samples) does not match %dx%d",
			f.Width, f.Height, len(f.Pix), cfg.Width, cfg.Height)
	}

	w, h := f.Width, f.Height
	gray := make([]int, w*h)
	for i, c := range f.Pix {
		gray[i] = int(pipeline.Luma(c))
	}
	// at reads the line-buffer contents the window sees. Column -1 is the
	// last column of the line above, which is still in the buffer when the
	// window wraps; above the first line the buffer is zero after reset.
	at := func(r, c int) int {
		if c < 0 {
			r, c = r-1, w-1
		}
		if r < 0 {
			return 0
		}
		return gray[r*w+c]
	}

	var (
		outs               []pipeline.Output
		prevGx, prevGy     int
		prevMag            int
		adaptSum, adaptCnt int
		adaptMean          int
	)
	for r := 2; r < h; r++ {
		for c := 1; c < w; c++ {
			var p [9]int
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					p[3*i+j] = at(r-2+i, c-2+j)
				}
			}
			p[4] = smoothCenter(cfg, p)

			gx := -p[0] + p[2] - 2*p[3] + 2*p[5] - p[6] + p[8]
			gy := -p[0] - 2*p[1] - p[2] + p[6] + 2*p[7] + p[8]
			mag := (iabs(gx) + iabs(gy)) / 2
			if mag > 255 {
				mag = 255
			}

			if cfg.ShadowReject {
				consistent := 2*(gx*prevGx+gy*prevGy) > gx*gx+gy*gy
				stable := iabs(mag-prevMag) < cfg.StabilityThreshold
				strong := mag > cfg.StrengthThreshold
				prevGx, prevGy, prevMag = gx, gy, mag
				if !(consistent && stable && strong) {
					mag = 0
				}
			}

			o := pipeline.Output{
				Magnitude: uint8(mag),
				Valid:     true,
				Row:       uint16(r),
				Col:       uint16(c),
			}
			switch cfg.Binarize {
			case pipeline.BinarizeFixed:
				o.Binary = mag > cfg.Threshold
			case pipeline.BinarizeAdaptive:
				o.Binary = mag > adaptMean+cfg.AdaptiveOffset
				adaptSum += mag
				adaptCnt++
				if adaptCnt == pipeline.AdaptiveWindow {
					adaptMean = adaptSum / pipeline.AdaptiveWindow
					adaptSum, adaptCnt = 0, 0
				}
			case pipeline.BinarizeHysteresis:
				o.Strong = mag >= cfg.HighThreshold
				o.Weak = !o.Strong && mag >= cfg.LowThreshold
				o.Binary = o.Strong || o.Weak
			}
			outs = append(outs, o)
		}
	}

	if cfg.NoiseReject {
		outs = rejectIsolated(outs)
	}
	return outs, nil
}

// smoothCenter returns the filtered center of a window.
func smoothCenter(cfg pipeline.Config, p [9]int) int {
	if cfg.Bypass {
		return p[4]
	}
	kernel := [9]int{1, 2, 1, 2, 4, 2, 1, 2, 1}
	if cfg.Filter == pipeline.FilterGaussian {
		sum := 0
		for i := range p {
			sum += kernel[i] * p[i]
		}
		return sum / 16
	}
	sum, weights := 0, 0
	for i := range p {
		if i == 4 || iabs(p[i]-p[4]) < cfg.RangeThreshold {
			sum += kernel[i] * p[i]
			weights += kernel[i]
		}
	}
	if weights == 0 {
		return p[4]
	}
	return sum / weights
}

// rejectIsolated applies the spatial noise filter to a complete output
// sequence. Horizontal neighbors only count within a row: the stream always
// carries the invalid column-0 window between rows. The decision history
// runs across rows.
func rejectIsolated(in []pipeline.Output) []pipeline.Output {
	neighbor := func(i, k int) bool {
		return k >= 0 && k < len(in) && in[k].Row == in[i].Row && in[k].Binary
	}

	out := make([]pipeline.Output, len(in))
	var hist [2]bool
	for i, o := range in {
		keep := o.Binary && (neighbor(i, i-1) || neighbor(i, i+1) || hist[0] || hist[1])
		hist[1], hist[0] = hist[0], keep
		o.Binary = keep
		o.Strong = o.Strong && keep
		o.Weak = o.Weak && keep
		out[i] = o
	}
	return out
}

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
