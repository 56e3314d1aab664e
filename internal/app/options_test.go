package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ydixken/abfahrt/internal/config"
	"github.com/ydixken/abfahrt/internal/render"
)

func TestRenderOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Display.Width, cfg.Display.Height = 256, 64
	cfg.Display.ShowItems = 3
	cfg.Display.ShowRemarks = false
	cfg.Display.HurryFloor = 0
	cfg.Display.Profile = "demo"
	cfg.Display.Language = "en"

	opts, err := RenderOptions(cfg, NoopLogger{})
	require.NoError(t, err)
	assert.Equal(t, 256, opts.Width)
	assert.Equal(t, 3, opts.Rows)
	assert.False(t, opts.ShowRemarks)
	assert.Equal(t, 0, opts.HurryFloor)
	assert.Equal(t, render.DemoTiming(), opts.Timing)
	assert.Equal(t, render.EnglishLabels(), opts.Labels)
	assert.Equal(t, "Europe/Berlin", opts.Location.String())
	assert.Equal(t, render.DefaultFontFiles(), opts.Fonts)

	_, err = render.NewRenderer(opts)
	require.NoError(t, err)
}

func TestRenderOptionsFontDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Main.ttf"), goregular.TTF, 0o644))

	cfg := config.Default()
	cfg.Fonts.Dir = dir
	cfg.Fonts.Header = ""
	cfg.Fonts.Remark = ""
	cfg.Fonts.Main = "Main.ttf"
	opts, err := RenderOptions(cfg, NoopLogger{})
	require.NoError(t, err)
	assert.Equal(t, goregular.TTF, opts.Fonts.Main)

	cfg.Fonts.Main = "Missing.ttf"
	_, err = RenderOptions(cfg, NoopLogger{})
	assert.Error(t, err)
}

func TestDisplayConfigAndClients(t *testing.T) {
	cfg := config.Default()
	cfg.Display.Mode = "ssd1322"
	dc := DisplayConfig(cfg)
	assert.Equal(t, "ssd1322", dc.Mode)
	assert.Equal(t, "GPIO24", dc.SSD1322.DCPin)
	assert.Equal(t, int64(8_000_000), dc.SSD1322.SpeedHz)

	bc := NewBVGClient(cfg)
	assert.Equal(t, cfg.API.BVGURL, bc.BaseURL)
	assert.Equal(t, 20, bc.Results)
	assert.False(t, bc.Filters.Bus)

	assert.NotNil(t, NewWeatherClient(cfg))
	cfg.Weather.Enabled = false
	assert.Nil(t, NewWeatherClient(cfg))
}
