package pipeline

// spatialWeight is the 3x3 binomial kernel shared by both filters.
var spatialWeight = [9]int{
	1, 2, 1,
	2, 4, 2,
	1, 2, 1,
}

// Filter smooths the center sample of a window. The eight neighbors are
// passed through unmodified.
type Filter interface {
	Apply(w Window) Window
}

// NewFilter returns the filter selected by cfg. With Bypass set the returned
// filter forwards windows unchanged.
func NewFilter(cfg Config) Filter {
	if cfg.Bypass {
		return bypassFilter{}
	}
	if cfg.Filter == FilterBilateral {
		return BilateralFilter{RangeThreshold: cfg.RangeThreshold}
	}
	return GaussianFilter{}
}

type bypassFilter struct{}

func (bypassFilter) Apply(w Window) Window { return w }

// GaussianFilter replaces the center with the [1 2 1; 2 4 2; 1 2 1]/16
// weighted mean of the window.
type GaussianFilter struct{}

func (GaussianFilter) Apply(w Window) Window {
	sum := 0
	for i, p := range w.P {
		sum += spatialWeight[i] * int(p)
	}
	w.P[4] = uint8(sum >> 4)
	return w
}

// BilateralFilter is an edge-preserving variant of GaussianFilter: a
// neighbor only contributes its spatial weight when its intensity is within
// RangeThreshold of the center.
type BilateralFilter struct {
	RangeThreshold int
}

func (f BilateralFilter) Apply(w Window) Window {
	center := int(w.P[4])
	sum := spatialWeight[4] * center
	weights := spatialWeight[4]
	for i, p := range w.P {
		if i == 4 {
			continue
		}
		d := int(p) - center
		if d < 0 {
			d = -d
		}
		if d < f.RangeThreshold {
			sum += spatialWeight[i] * int(p)
			weights += spatialWeight[i]
		}
	}
	// The center weight is never zero; the guard only matters if the
	// kernel changes.
	if weights == 0 {
		return w
	}
	w.P[4] = uint8(sum / weights)
	return w
}
