package pipeline

import (
	"errors"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"minimum geometry", func(c *Config) { c.Width, c.Height = 3, 3 }, false},
		{"maximum width", func(c *Config) { c.Width = MaxWidth }, false},
		{"width too small", func(c *Config) { c.Width = 2 }, true},
		{"width too large", func(c *Config) { c.Width = MaxWidth + 1 }, true},
		{"height too small", func(c *Config) { c.Height = 2 }, true},
		{"height too large", func(c *Config) { c.Height = MaxRowCount + 1 }, true},
		{"pixel bits", func(c *Config) { c.PixelBits = 10 }, true},
		{"unknown filter", func(c *Config) { c.Filter = FilterMode(9) }, true},
		{"bilateral range", func(c *Config) { c.Filter, c.RangeThreshold = FilterBilateral, 257 }, true},
		{"bilateral range max", func(c *Config) { c.Filter, c.RangeThreshold = FilterBilateral, 256 }, false},
		{"negative stability", func(c *Config) { c.ShadowReject, c.StabilityThreshold = true, -1 }, true},
		{"fixed threshold range", func(c *Config) { c.Binarize, c.Threshold = BinarizeFixed, 256 }, true},
		{"adaptive offset range", func(c *Config) { c.Binarize, c.AdaptiveOffset = BinarizeAdaptive, -1 }, true},
		{"hysteresis low equals high", func(c *Config) { c.LowThreshold, c.HighThreshold = 100, 100 }, true},
		{"hysteresis high out of range", func(c *Config) { c.HighThreshold = 300 }, true},
		{"unknown binarize", func(c *Config) { c.Binarize = BinarizeMode(7) }, true},
		{"unknown output", func(c *Config) { c.Output = OutputMode(5) }, true},
		// Thresholds of inactive modes are not checked.
		{"unused low/high in fixed mode", func(c *Config) { c.Binarize, c.LowThreshold = BinarizeFixed, 999 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v does not wrap ErrInvalidConfig", err)
			}
		})
	}
}

func TestParseModes(t *testing.T) {
	t.Run("filter", func(t *testing.T) {
		for s, want := range map[string]FilterMode{"": FilterGaussian, "gaussian": FilterGaussian, "bilateral": FilterBilateral} {
			got, err := ParseFilterMode(s)
			if err != nil || got != want {
				t.Errorf("ParseFilterMode(%q) = %v, %v; want %v", s, got, err, want)
			}
			if s != "" && got.String() != s {
				t.Errorf("String() = %q, want %q", got.String(), s)
			}
		}
		if _, err := ParseFilterMode("median"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("ParseFilterMode(median): got %v", err)
		}
	})

	t.Run("binarize", func(t *testing.T) {
		for s, want := range map[string]BinarizeMode{"": BinarizeHysteresis, "fixed": BinarizeFixed, "adaptive": BinarizeAdaptive, "hysteresis": BinarizeHysteresis} {
			got, err := ParseBinarizeMode(s)
			if err != nil || got != want {
				t.Errorf("ParseBinarizeMode(%q) = %v, %v; want %v", s, got, err, want)
			}
			if s != "" && got.String() != s {
				t.Errorf("String() = %q, want %q", got.String(), s)
			}
		}
		if _, err := ParseBinarizeMode("otsu"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("ParseBinarizeMode(otsu): got %v", err)
		}
	})

	t.Run("output", func(t *testing.T) {
		for s, want := range map[string]OutputMode{"": OutputBinary, "binary": OutputBinary, "magnitude": OutputMagnitude} {
			got, err := ParseOutputMode(s)
			if err != nil || got != want {
				t.Errorf("ParseOutputMode(%q) = %v, %v; want %v", s, got, err, want)
			}
			if s != "" && got.String() != s {
				t.Errorf("String() = %q, want %q", got.String(), s)
			}
		}
		if _, err := ParseOutputMode("rgb"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("ParseOutputMode(rgb): got %v", err)
		}
	})
}
