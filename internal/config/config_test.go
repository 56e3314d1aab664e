package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultStationID, cfg.Stations[0].ID)
	assert.Equal(t, 5, cfg.Stations[0].WalkingMinutes)
	assert.Equal(t, 1520, cfg.Display.Width)
	assert.Equal(t, 180, cfg.Display.Height)
	assert.False(t, cfg.Filters.Bus)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval())
	assert.Equal(t, 10*time.Second, cfg.RotationInterval())
	assert.Equal(t, 10*time.Minute, cfg.WeatherRefresh())
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysOnlyGivenKeys(t *testing.T) {
	path := writeConfig(t, `
stations:
  - id: "900100003"
    name: S+U Alexanderplatz
    lines: [S5, S7]
  - id: "900120005"
    walking_minutes: 9
display:
  width: 256
  height: 64
  show_remarks: false
refresh:
  interval_seconds: 45
filters:
  bus: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Stations, 2)
	assert.Equal(t, Station{ID: "900100003", Name: "S+U Alexanderplatz", WalkingMinutes: 5, Lines: []string{"S5", "S7"}}, cfg.Stations[0])
	assert.Equal(t, 9, cfg.Stations[1].WalkingMinutes)

	assert.Equal(t, 256, cfg.Display.Width)
	assert.Equal(t, 64, cfg.Display.Height)
	assert.False(t, cfg.Display.ShowRemarks)
	assert.Equal(t, 30, cfg.Display.FPS)
	assert.Equal(t, 4, cfg.Display.ShowItems)

	assert.Equal(t, 45, cfg.Refresh.IntervalSeconds)
	assert.Equal(t, 20, cfg.Refresh.DepartureCount)
	assert.True(t, cfg.Filters.Bus)
	assert.True(t, cfg.Filters.Suburban)
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "display: [1, 2"))
	assert.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	cfg.Stations = append(cfg.Stations, Station{ID: "900100003", WalkingMinutes: 2})

	got := cfg.Apply(Overrides{StationID: "900058101", RefreshSeconds: 15, RotationSeconds: 20})
	assert.Equal(t, []Station{{ID: "900058101", WalkingMinutes: 5}}, got.Stations)
	assert.Equal(t, 15, got.Refresh.IntervalSeconds)
	assert.Equal(t, 20, got.Rotation.IntervalSeconds)

	// The receiver is a copy.
	assert.Len(t, cfg.Stations, 2)
	assert.Equal(t, cfg, cfg.Apply(Overrides{}))
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Stations = nil
	assert.True(t, errors.Is(cfg.Validate(), ErrNoStations))

	cases := map[string]func(*Config){
		"mode":       func(c *Config) { c.Display.Mode = "pygame" },
		"rows":       func(c *Config) { c.Display.ShowItems = 0 },
		"floor":      func(c *Config) { c.Display.HurryFloor = 2 },
		"fallback":   func(c *Config) { c.Display.EmptyFilterFallback = "first" },
		"language":   func(c *Config) { c.Display.Language = "fr" },
		"station":    func(c *Config) { c.Stations[0].ID = "Alexanderplatz" },
		"png path":   func(c *Config) { c.Display.Mode = "png" },
		"listen":     func(c *Config) { c.Web.Listen = "not a port" },
		"timezone":   func(c *Config) { c.Display.Timezone = "Mars/Olympus" },
		"latitude":   func(c *Config) { c.Weather.Latitude = 123 },
		"refresh":    func(c *Config) { c.Refresh.IntervalSeconds = 0 },
		"bvg url":    func(c *Config) { c.API.BVGURL = "" },
		"empty line": func(c *Config) { c.Stations[0].Lines = []string{""} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg = Default()
	cfg.Stations[0].ID = "x"
	var verrs validator.ValidationErrors
	require.True(t, errors.As(cfg.Validate(), &verrs))
	assert.Equal(t, "ID", verrs[0].Field())

	cfg = Default()
	cfg.Display.Mode = "png"
	cfg.Display.PNGPath = "/tmp/board.png"
	cfg.Web.Listen = ":8080"
	assert.NoError(t, cfg.Validate())
}
