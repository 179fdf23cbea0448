package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/delver/internal/mapgen"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "delver.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesFields(t *testing.T) {
	path := writeConfig(t, `
seed: 42
map:
  generator: cellular
  width: 60
view:
  fov_radius: 5
telemetry:
  enabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "cellular", cfg.Map.Generator)
	assert.Equal(t, 60, cfg.Map.Width)
	assert.Equal(t, Default().Map.Height, cfg.Map.Height, "untouched fields keep defaults")
	assert.Equal(t, 5, cfg.View.FOVRadius)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "delver", cfg.Telemetry.ServiceName)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "map: [unterminated")

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"tiny map", func(c *Config) { c.Map.Width = 10 }, "map size"},
		{"unknown generator", func(c *Config) { c.Map.Generator = "maze" }, "unknown generator"},
		{"simple needs room for two rooms", func(c *Config) {
			c.Map.Generator = "simple"
			c.Map.Width, c.Map.Height = 20, 20
		}, "map size"},
		{"simple at its minimum", func(c *Config) {
			c.Map.Generator = "simple"
			c.Map.Width, c.Map.Height = mapgen.SimpleMinSize, mapgen.SimpleMinSize
		}, ""},
		{"depth zero", func(c *Config) { c.Map.StartDepth = 0 }, "start_depth"},
		{"blind", func(c *Config) { c.View.FOVRadius = 0 }, "fov_radius"},
		{"flow window", func(c *Config) { c.View.FlowWindow = 2 }, "flow_window"},
		{"no steps", func(c *Config) { c.Preview.StepsPerFrame = 0 }, "steps_per_frame"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "map:\n  height: 4\n")

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "map size")
}
