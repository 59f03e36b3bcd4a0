package pipeline

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("invalid pipeline configuration")

// MaxWidth is the widest raster the column counter can address.
const MaxWidth = 4096

// FilterMode selects the noise-reduction filter applied to each window.
type FilterMode int

const (
	FilterGaussian FilterMode = iota
	FilterBilateral
)

func (m FilterMode) String() string {
	switch m {
	case FilterGaussian:
		return "gaussian"
	case FilterBilateral:
		return "bilateral"
	}
	return fmt.Sprintf("FilterMode(%d)", int(m))
}

// BinarizeMode selects how magnitudes are turned into binary edge flags.
type BinarizeMode int

const (
	BinarizeFixed BinarizeMode = iota
	BinarizeAdaptive
	BinarizeHysteresis
)

func (m BinarizeMode) String() string {
	switch m {
	case BinarizeFixed:
		return "fixed"
	case BinarizeAdaptive:
		return "adaptive"
	case BinarizeHysteresis:
		return "hysteresis"
	}
	return fmt.Sprintf("BinarizeMode(%d)", int(m))
}

// OutputMode selects which half of the output contract a consumer reads.
// Both are always computed; the mode only tells writers what to render.
type OutputMode int

const (
	OutputMagnitude OutputMode = iota
	OutputBinary
)

func (m OutputMode) String() string {
	switch m {
	case OutputMagnitude:
		return "magnitude"
	case OutputBinary:
		return "binary"
	}
	return fmt.Sprintf("OutputMode(%d)", int(m))
}

// Config is the static configuration of one pipeline instance. It is resolved
// once by New and never re-read while streaming.
type Config struct {
	// Width and Height of the raster in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// PixelBits is the bit width of intensity samples. Only 8 is supported.
	PixelBits int `json:"pixel_bits"`

	Filter FilterMode `json:"filter"`
	// RangeThreshold is the bilateral intensity gate: neighbors whose absolute
	// difference from the center is not below it get zero weight.
	RangeThreshold int `json:"range_threshold"`
	// Bypass forwards windows around the noise-reduction filter. The stage
	// still occupies its tick so latency does not change.
	Bypass bool `json:"bypass"`

	// ShadowReject enables the shadow/blob rejector.
	ShadowReject       bool `json:"shadow_reject"`
	StabilityThreshold int  `json:"stability_threshold"`
	StrengthThreshold  int  `json:"strength_threshold"`

	Binarize       BinarizeMode `json:"binarize"`
	Threshold      int          `json:"threshold"`
	LowThreshold   int          `json:"low_threshold"`
	HighThreshold  int          `json:"high_threshold"`
	AdaptiveOffset int          `json:"adaptive_offset"`

	// NoiseReject enables the spatial noise-reject filter on the binary stream.
	NoiseReject bool `json:"noise_reject"`

	Output OutputMode `json:"output"`

	// Debug turns on the Observer hook. With Debug unset the observer is never
	// called even if one is installed.
	Debug bool `json:"debug"`
}

// DefaultConfig returns a 640x480 configuration with gaussian filtering and
// hysteresis binarization.
func DefaultConfig() Config {
	return Config{
		Width:              640,
		Height:             480,
		PixelBits:          8,
		Filter:             FilterGaussian,
		RangeThreshold:     20,
		StabilityThreshold: 64,
		StrengthThreshold:  16,
		Binarize:           BinarizeHysteresis,
		Threshold:          64,
		LowThreshold:       50,
		HighThreshold:      150,
		AdaptiveOffset:     16,
		NoiseReject:        true,
		Output:             OutputBinary,
	}
}

// Validate checks the configuration contract. Errors wrap ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Width < 3 || c.Width > MaxWidth {
		return fmt.Errorf("%w: width %d outside [3,%d]", ErrInvalidConfig, c.Width, MaxWidth)
	}
	if c.Height < 3 || c.Height > MaxRowCount {
		return fmt.Errorf("%w: height %d outside [3,%d]", ErrInvalidConfig, c.Height, MaxRowCount)
	}
	if c.PixelBits != 8 {
		return fmt.Errorf("%w: pixel width %d bits not supported", ErrInvalidConfig, c.PixelBits)
	}

	switch c.Filter {
	case FilterGaussian:
	case FilterBilateral:
		if c.RangeThreshold < 0 || c.RangeThreshold > 256 {
			return fmt.Errorf("%w: bilateral range threshold %d outside [0,256]", ErrInvalidConfig, c.RangeThreshold)
		}
	default:
		return fmt.Errorf("%w: unknown filter %v", ErrInvalidConfig, c.Filter)
	}

	if c.ShadowReject {
		if c.StabilityThreshold < 0 || c.StrengthThreshold < 0 {
			return fmt.Errorf("%w: rejector thresholds must be non-negative", ErrInvalidConfig)
		}
	}

	switch c.Binarize {
	case BinarizeFixed:
		if err := checkLevel("threshold", c.Threshold); err != nil {
			return err
		}
	case BinarizeAdaptive:
		if c.AdaptiveOffset < 0 || c.AdaptiveOffset > 255 {
			return fmt.Errorf("%w: adaptive offset %d outside [0,255]", ErrInvalidConfig, c.AdaptiveOffset)
		}
	case BinarizeHysteresis:
		if err := checkLevel("low threshold", c.LowThreshold); err != nil {
			return err
		}
		if err := checkLevel("high threshold", c.HighThreshold); err != nil {
			return err
		}
		if c.LowThreshold >= c.HighThreshold {
			return fmt.Errorf("%w: low threshold %d must be below high threshold %d",
				ErrInvalidConfig, c.LowThreshold, c.HighThreshold)
		}
	default:
		return fmt.Errorf("%w: unknown binarize mode %v", ErrInvalidConfig, c.Binarize)
	}

	if c.Output != OutputMagnitude && c.Output != OutputBinary {
		return fmt.Errorf("%w: unknown output mode %v", ErrInvalidConfig, c.Output)
	}
	return nil
}

func checkLevel(name string, v int) error {
	if v < 0 || v > 255 {
		return fmt.Errorf("%w: %s %d outside [0,255]", ErrInvalidConfig, name, v)
	}
	return nil
}

// ParseFilterMode maps a configuration string to a FilterMode.
func ParseFilterMode(s string) (FilterMode, error) {
	switch s {
	case "gaussian", "":
		return FilterGaussian, nil
	case "bilateral":
		return FilterBilateral, nil
	}
	return 0, fmt.Errorf("%w: unknown filter %q", ErrInvalidConfig, s)
}

// ParseBinarizeMode maps a configuration string to a BinarizeMode.
func ParseBinarizeMode(s string) (BinarizeMode, error) {
	switch s {
	case "fixed":
		return BinarizeFixed, nil
	case "adaptive":
		return BinarizeAdaptive, nil
	case "hysteresis", "":
		return BinarizeHysteresis, nil
	}
	return 0, fmt.Errorf("%w: unknown binarize mode %q", ErrInvalidConfig, s)
}

// ParseOutputMode maps a configuration string to an OutputMode.
func ParseOutputMode(s string) (OutputMode, error) {
	switch s {
	case "magnitude":
		return OutputMagnitude, nil
	case "binary", "":
		return OutputBinary, nil
	}
	return 0, fmt.Errorf("%w: unknown output mode %q", ErrInvalidConfig, s)
}
