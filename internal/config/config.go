// Package config loads pipeline configuration from YAML files and the
// environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ironsheep/edge-stream/internal/pipeline"
	"gopkg.in/yaml.v3"
)

// LogLevelEnv selects the log level: debug, info, warn or error.
const LogLevelEnv = "EDGE_STREAM_LOG_LEVEL"

// File is the on-disk configuration layout. Zero values fall back to
// pipeline.DefaultConfig; the boolean switches are pointers so that an
// explicit false can be told apart from an omitted key.
type File struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	PixelBits int `yaml:"pixel_bits"`

	Filter struct {
		Mode           string `yaml:"mode"`            // gaussian, bilateral
		RangeThreshold *int   `yaml:"range_threshold"` // bilateral intensity gate
		Bypass         *bool  `yaml:"bypass"`
	} `yaml:"filter"`

	Reject struct {
		Enabled            *bool `yaml:"enabled"`
		StabilityThreshold *int  `yaml:"stability_threshold"`
		StrengthThreshold  *int  `yaml:"strength_threshold"`
	} `yaml:"reject"`

	Binarize struct {
		Mode           string `yaml:"mode"` // fixed, adaptive, hysteresis
		Threshold      *int   `yaml:"threshold"`
		Low            *int   `yaml:"low"`
		High           *int   `yaml:"high"`
		AdaptiveOffset *int   `yaml:"adaptive_offset"`
	} `yaml:"binarize"`

	NoiseReject *bool  `yaml:"noise_reject"`
	Output      string `yaml:"output"` // magnitude, binary
	Debug       bool   `yaml:"debug"`

	Drive struct {
		Blanking int `yaml:"blanking"`
	} `yaml:"drive"`
}

// Settings is a resolved configuration.
type Settings struct {
	Pipeline pipeline.Config
	Drive    pipeline.DriveOptions
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{Pipeline: pipeline.DefaultConfig()}
}

// Load reads and validates a YAML configuration file.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and validates the
// result.
func Parse(data []byte) (Settings, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config: %w", err)
	}
	s, err := f.Resolve()
	if err != nil {
		return Settings{}, err
	}
	if err := s.Pipeline.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}

// Resolve overlays f on the defaults. It does not validate.
func (f File) Resolve() (Settings, error) {
	s := Default()
	c := &s.Pipeline

	setInt(&c.Width, f.Width)
	setInt(&c.Height, f.Height)
	setInt(&c.PixelBits, f.PixelBits)

	var err error
	if c.Filter, err = pipeline.ParseFilterMode(f.Filter.Mode); err != nil {
		return Settings{}, err
	}
	overrideInt(&c.RangeThreshold, f.Filter.RangeThreshold)
	overrideBool(&c.Bypass, f.Filter.Bypass)

	overrideBool(&c.ShadowReject, f.Reject.Enabled)
	overrideInt(&c.StabilityThreshold, f.Reject.StabilityThreshold)
	overrideInt(&c.StrengthThreshold, f.Reject.StrengthThreshold)

	if c.Binarize, err = pipeline.ParseBinarizeMode(f.Binarize.Mode); err != nil {
		return Settings{}, err
	}
	overrideInt(&c.Threshold, f.Binarize.Threshold)
	overrideInt(&c.LowThreshold, f.Binarize.Low)
	overrideInt(&c.HighThreshold, f.Binarize.High)
	overrideInt(&c.AdaptiveOffset, f.Binarize.AdaptiveOffset)

	overrideBool(&c.NoiseReject, f.NoiseReject)
	if c.Output, err = pipeline.ParseOutputMode(f.Output); err != nil {
		return Settings{}, err
	}
	c.Debug = f.Debug

	if f.Drive.Blanking < 0 {
		return Settings{}, fmt.Errorf("%w: negative blanking %d", pipeline.ErrInvalidConfig, f.Drive.Blanking)
	}
	s.Drive.Blanking = f.Drive.Blanking
	return s, nil
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func overrideInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func overrideBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// LogLevel reads the log level from the environment. Unknown or empty values
// select info.
func LogLevel() slog.Level {
	switch strings.ToLower(os.Getenv(LogLevelEnv)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
