package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/ydixken/abfahrt/internal/app"
	"github.com/ydixken/abfahrt/internal/buttons"
	"github.com/ydixken/abfahrt/internal/bvg"
	"github.com/ydixken/abfahrt/internal/config"
	"github.com/ydixken/abfahrt/internal/demo"
	"github.com/ydixken/abfahrt/internal/departure"
	"github.com/ydixken/abfahrt/internal/display"
	"github.com/ydixken/abfahrt/internal/render"
	"github.com/ydixken/abfahrt/internal/state"
	"github.com/ydixken/abfahrt/internal/system"
	"github.com/ydixken/abfahrt/internal/web"
)

type stationSearcher interface {
	Search(ctx context.Context, query string) ([]bvg.Location, error)
}

func runSearch(ctx context.Context, api stationSearcher, query string, out io.Writer) error {
	results, err := api.Search(ctx, query)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(out, "No stations found.")
		return nil
	}
	for i, loc := range results {
		fmt.Fprintf(out, "  %d. %s  [ID: %s]\n", i+1, loc.Name, loc.ID)
	}
	return nil
}

func runFetchTest(ctx context.Context, cfg config.Config, api app.Departures, out io.Writer) error {
	labels := render.LabelsFor(cfg.Display.Language)
	for _, sc := range cfg.Stations {
		name := sc.Name
		if name == "" {
			resolved, err := api.StationName(ctx, sc.ID)
			if err != nil {
				resolved = bvg.FallbackName(sc.ID)
			}
			name = resolved
		}
		fmt.Fprintf(out, "\n=== %s (%s) ===\n\n", name, sc.ID)

		deps, err := api.Departures(ctx, sc.ID)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", sc.ID, err)
		}
		if len(deps) == 0 {
			fmt.Fprintf(out, "  %s\n", labels.NoDepartures)
			continue
		}
		now := time.Now()
		for _, d := range deps {
			fmt.Fprintln(out, formatDeparture(d, now))
		}
	}
	return nil
}

func formatDeparture(d departure.Departure, now time.Time) string {
	minutes := "?"
	if m, ok := d.MinutesUntil(now); ok {
		minutes = fmt.Sprintf("%d min", m)
	}
	cancelled := ""
	if d.Cancelled {
		cancelled = " X"
	}
	return fmt.Sprintf("  %-5s| %-25s| %-25s| %6s | %+d%s",
		d.LineName, d.Direction, strings.Join(d.Remarks, ", "), minutes, d.DelayMinutes(), cancelled)
}

// runRenderTest renders the mock board for the configured resolution and
// for the other display class (256x64 OLED vs 1024x256 desktop).
func runRenderTest(cfg config.Config, dir string, logger app.Logger, out io.Writer) error {
	other := cfg
	if cfg.Display.Mode == display.ModeSSD1322 {
		other.Display.Mode = display.ModeFramebuffer
		other.Display.Width, other.Display.Height = 1024, 256
	} else {
		other.Display.Mode = display.ModeSSD1322
		other.Display.Width, other.Display.Height = 256, 64
	}

	st := demo.Station{Name: "S Savignyplatz (Berlin)", WalkingMinutes: 5, Departures: demo.Departures(demo.Instant)}
	if len(cfg.Stations) > 0 {
		first := cfg.Stations[0]
		st.Name = first.Name
		if st.Name == "" {
			st.Name = bvg.FallbackName(first.ID)
		}
		st.WalkingMinutes = first.WalkingMinutes
	}

	for _, c := range []config.Config{cfg, other} {
		opts, err := app.RenderOptions(c, logger)
		if err != nil {
			return err
		}
		r, err := render.NewRenderer(opts)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("test_output_%dx%d.png", c.Display.Width, c.Display.Height))
		var img image.Image = demo.Snapshot(r, st, demo.Weather(demo.Instant))
		if c.Display.Mode == display.ModeSSD1322 {
			// The OLED only shows luminance.
			img = display.Grayscale(img, c.Display.Width, c.Display.Height)
		}
		if err := demo.WritePNG(path, img); err != nil {
			return err
		}
		fmt.Fprintf(out, "Rendered test output to: %s\n", path)
	}
	return nil
}

func runBoard(ctx context.Context, cfg config.Config, logger app.Logger) error {
	opts, err := app.RenderOptions(cfg, logger)
	if err != nil {
		return err
	}
	renderer, err := render.NewRenderer(opts)
	if err != nil {
		return err
	}

	disp, err := display.Open(app.DisplayConfig(cfg), logger)
	if err != nil {
		return fmt.Errorf("open display: %w", err)
	}
	defer func() { _ = disp.Close() }()

	store := state.NewStore()
	a := app.New(cfg, store, renderer, disp, app.NewBVGClient(cfg))
	a.Logger = logger
	a.Version = version
	a.Notify = system.NewNotifier(logger)
	if wc := app.NewWeatherClient(cfg); wc != nil {
		a.Weather = wc
	}
	a.Buttons = buttons.NewKeyboard(logger)

	serverCfg, err := web.ServerConfigFromEnv(cfg.Web.Listen, cfg.Web.Dev)
	if err != nil {
		return err
	}
	server := web.NewServer(serverCfg, web.Sources{State: store, Frame: a}, logger)
	if err := server.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = server.Stop() }()
	if addr := server.ListenAddr(); addr != "" {
		if ip, err := system.LocalIPv4(); err == nil {
			logger.Infof("web", "status API at http://%s%s/api/v1/status", ip, portSuffix(addr))
		}
	}

	err = a.Start(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func portSuffix(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return ""
	}
	return ":" + port
}
