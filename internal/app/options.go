package app

import (
	"github.com/ydixken/abfahrt/internal/bvg"
	"github.com/ydixken/abfahrt/internal/config"
	"github.com/ydixken/abfahrt/internal/display"
	"github.com/ydixken/abfahrt/internal/render"
	"github.com/ydixken/abfahrt/internal/render/layout"
	"github.com/ydixken/abfahrt/internal/resilience"
	"github.com/ydixken/abfahrt/internal/weather"
)

// RenderOptions maps the configuration onto renderer options. Fonts are
// read from disk when a font directory is configured.
func RenderOptions(cfg config.Config, logger Logger) (render.Options, error) {
	opts := render.DefaultOptions()
	opts.Width = cfg.Display.Width
	opts.Height = cfg.Display.Height
	opts.Rows = cfg.Display.ShowItems
	opts.ShowRemarks = cfg.Display.ShowRemarks
	opts.Sizes = layout.Sizes{
		StationName: cfg.Fonts.StationNameSize,
		Header:      cfg.Fonts.HeaderSize,
		Departure:   cfg.Fonts.DepartureSize,
		Remark:      cfg.Fonts.RemarkSize,
	}
	opts.Timing = render.TimingProfile(cfg.Display.Profile)
	opts.Labels = render.LabelsFor(cfg.Display.Language)
	opts.HurryFloor = cfg.Display.HurryFloor
	opts.Location = cfg.Location()
	opts.Logger = logger

	if cfg.Fonts.Dir != "" {
		files, err := render.ReadFontFiles(cfg.Fonts.Dir, cfg.Fonts.Header, cfg.Fonts.Main, cfg.Fonts.Remark)
		if err != nil {
			return opts, err
		}
		opts.Fonts = files
	}
	return opts, nil
}

// DisplayConfig selects the output backend from the configuration.
func DisplayConfig(cfg config.Config) display.Config {
	d := cfg.Display
	return display.Config{
		Mode:    d.Mode,
		Width:   d.Width,
		Height:  d.Height,
		Device:  d.Device,
		PNGPath: d.PNGPath,
		SSD1322: display.SSD1322Config{
			Bus:      d.SSD1322.Bus,
			SpeedHz:  d.SSD1322.SpeedHz,
			DCPin:    d.SSD1322.DCPin,
			ResetPin: d.SSD1322.ResetPin,
		},
	}
}

// NewBVGClient builds the departures client behind its own breaker.
func NewBVGClient(cfg config.Config) *bvg.Client {
	hc := resilience.DefaultClientConfig("bvg")
	hc.Timeout = cfg.APITimeout()
	f := cfg.Filters
	filters := bvg.Filters{
		Suburban: f.Suburban,
		Subway:   f.Subway,
		Tram:     f.Tram,
		Bus:      f.Bus,
		Regional: f.Regional,
		Express:  f.Express,
	}
	return bvg.NewClient(cfg.API.BVGURL, cfg.Refresh.DepartureCount, filters, resilience.NewClient(hc))
}

// NewWeatherClient returns nil when weather is disabled.
func NewWeatherClient(cfg config.Config) *weather.Client {
	if !cfg.Weather.Enabled {
		return nil
	}
	hc := resilience.DefaultClientConfig("open-meteo")
	hc.Timeout = cfg.APITimeout()
	return weather.NewClient(cfg.API.WeatherURL, cfg.Display.Timezone, resilience.NewClient(hc))
}
