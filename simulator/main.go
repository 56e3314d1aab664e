package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ydixken/abfahrt/internal/app"
	"github.com/ydixken/abfahrt/internal/config"
	"github.com/ydixken/abfahrt/internal/demo"
	"github.com/ydixken/abfahrt/internal/display"
	"github.com/ydixken/abfahrt/internal/render"
	"github.com/ydixken/abfahrt/internal/state"
	"github.com/ydixken/abfahrt/internal/web"
)

func main() {
	defaults, err := web.ServerConfigFromEnv(":8080", false)
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	scenario := flag.String("scenario", ScenarioMock, "upstream scenario: mock | empty | offline")
	width := flag.Int("width", 1520, "board width in pixels")
	height := flag.Int("height", 180, "board height in pixels")
	profile := flag.String("profile", "live", "animation timing: live | demo")
	language := flag.String("language", "de", "board language: de | en")
	pngPath := flag.String("png", "", "write every frame to this PNG file (optional)")
	gifPath := flag.String("gif", "", "write an animated demo GIF to this path and exit")
	flag.Parse()

	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Str("app", "simulator").
		Logger()
	logger := app.NewZeroLogger(zl)

	cfg := simConfig(*width, *height, *profile, *language)
	if *pngPath != "" {
		cfg.Display.Mode = "png"
		cfg.Display.PNGPath = *pngPath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	opts, err := app.RenderOptions(cfg, logger)
	if err != nil {
		fmt.Println("render options error:", err)
		os.Exit(2)
	}
	renderer, err := render.NewRenderer(opts)
	if err != nil {
		fmt.Println("renderer error:", err)
		os.Exit(2)
	}

	if *gifPath != "" {
		if err := writeDemoGIF(renderer, cfg, *gifPath); err != nil {
			fmt.Println("gif error:", err)
			os.Exit(1)
		}
		fmt.Println("Wrote", *gifPath)
		return
	}

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	control := NewSimControl(*scenario)
	if err := control.ApplyScenario(*scenario); err != nil {
		fmt.Println("scenario init error:", err)
		os.Exit(2)
	}

	var disp display.Display
	if *pngPath != "" {
		disp = display.NewPNGFile(*pngPath)
	}

	store := state.NewStore()
	a := app.New(cfg, store, renderer, disp, control)
	a.Weather = control
	a.Logger = logger
	a.Version = "simulator"

	mux := http.NewServeMux()
	mux.Handle("/", web.NewRouter(web.RouterConfig{Sources: web.Sources{State: store, Frame: a}}))
	registerSimEndpoints(mux, control)

	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode}, web.Sources{}, logger)
	server.Handler = mux
	if *devMode {
		server.Handler = web.WithDevCORS(mux, http.MethodGet, http.MethodPost)
	}
	if err := server.Start(processCtx); err != nil {
		fmt.Println("server start error:", err)
		os.Exit(1)
	}
	defer func() { _ = server.Stop() }()

	fmt.Println("Abfahrt simulator listening on", server.ListenAddr())
	fmt.Println("Scenario:", control.Scenario())
	fmt.Println("Frame: http://" + trimLeadingColon(*listenAddr) + "/api/v1/frame.png")

	if err := a.Start(processCtx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("board error:", err)
		os.Exit(1)
	}
}

// simConfig builds a board config for the mock stations served by SimControl.
func simConfig(width, height int, profile, language string) config.Config {
	cfg := config.Default()
	cfg.Display.Width = width
	cfg.Display.Height = height
	cfg.Display.Profile = profile
	cfg.Display.Language = language
	cfg.Weather.Enabled = true

	stations := demo.Stations(demo.Instant)
	cfg.Stations = cfg.Stations[:0]
	for i, id := range SimStationIDs {
		if i >= len(stations) {
			break
		}
		cfg.Stations = append(cfg.Stations, config.Station{ID: id, WalkingMinutes: stations[i].WalkingMinutes})
	}
	return cfg
}

func writeDemoGIF(r *render.Renderer, cfg config.Config, path string) error {
	opts := demo.DefaultGIFOptions()
	opts.Rows = cfg.Display.ShowItems
	opts.HurryFloor = cfg.Display.HurryFloor

	w := demo.Weather(demo.Instant)
	g, err := demo.GIF(r, demo.Stations(demo.Instant), &w, demo.Instant, opts)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := demo.EncodeGIF(f, g); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func trimLeadingColon(addr string) string {
	// Best-effort for display; don't attempt full URL parsing here.
	if strings.HasPrefix(addr, ":") {
		return "127.0.0.1" + addr
	}
	if addr == "" {
		return "127.0.0.1:8080"
	}
	return addr
}
