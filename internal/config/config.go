// Package config loads delver settings from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/samdwyer/delver/internal/mapgen"
)

// Config is the on-disk configuration. Zero-valued fields in the file keep
// their defaults.
type Config struct {
	// Seed for level generation. 0 picks a time-based seed.
	Seed int64 `yaml:"seed"`

	Map       MapConfig       `yaml:"map"`
	View      ViewConfig      `yaml:"view"`
	Preview   PreviewConfig   `yaml:"preview"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// MapConfig selects the generator and level size.
type MapConfig struct {
	Generator  string `yaml:"generator"` // bsp, cellular or simple
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	StartDepth int    `yaml:"start_depth"`
}

// ViewConfig sizes the player's sight and the monster flow map.
type ViewConfig struct {
	FOVRadius  int `yaml:"fov_radius"`
	FlowWindow int `yaml:"flow_window"`
}

// PreviewConfig paces the terminal preview.
type PreviewConfig struct {
	StepsPerFrame int `yaml:"steps_per_frame"`
	FrameMillis   int `yaml:"frame_millis"`
}

// LogConfig says where logs go while the terminal is in use.
type LogConfig struct {
	File string `yaml:"file"`
}

// TelemetryConfig toggles OTLP trace export.
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Map: MapConfig{
			Generator:  mapgen.KindBSP,
			Width:      80,
			Height:     45,
			StartDepth: 1,
		},
		View: ViewConfig{
			FOVRadius:  8,
			FlowWindow: 40,
		},
		Preview: PreviewConfig{
			StepsPerFrame: 1,
			FrameMillis:   33,
		},
		Log: LogConfig{
			File: "delver.log",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "delver",
			SampleRatio: 1,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings no generator or view can work with.
func (c Config) Validate() error {
	minSize, err := mapgen.MinSizeFor(c.Map.Generator)
	if err != nil {
		return fmt.Errorf("map: %w", err)
	}
	if c.Map.Width < minSize || c.Map.Height < minSize {
		return fmt.Errorf("map size %dx%d is below %dx%d for the %s generator",
			c.Map.Width, c.Map.Height, minSize, minSize, c.Map.Generator)
	}
	if c.Map.StartDepth < 1 {
		return fmt.Errorf("start_depth must be at least 1, got %d", c.Map.StartDepth)
	}
	if c.View.FOVRadius < 1 {
		return fmt.Errorf("fov_radius must be positive, got %d", c.View.FOVRadius)
	}
	if c.View.FlowWindow < 3 {
		return fmt.Errorf("flow_window must be at least 3, got %d", c.View.FlowWindow)
	}
	if c.Preview.StepsPerFrame < 1 {
		return fmt.Errorf("steps_per_frame must be positive, got %d", c.Preview.StepsPerFrame)
	}
	return nil
}
