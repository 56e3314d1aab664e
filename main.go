package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ydixken/abfahrt/internal/app"
	"github.com/ydixken/abfahrt/internal/config"
)

const envConfigPath = "ABFAHRT_CONFIG"

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to YAML config file; also configurable via "+envConfigPath+" (default "+config.DefaultPath+")")
	stationID := flag.String("station-id", "", "single station ID override (skips rotation)")
	refresh := flag.Int("refresh", 0, "refresh interval in seconds")
	rotation := flag.Int("rotation", 0, "rotation interval in seconds")
	search := flag.String("search", "", "search for a station by name and exit")
	fetchTest := flag.Bool("fetch-test", false, "fetch and print live departures to stdout and exit")
	renderTest := flag.Bool("render-test", false, "render mock departures to PNG files and exit")
	renderDir := flag.String("render-dir", "assets", "output directory for -render-test")
	debug := flag.Bool("debug", false, "enable debug logging")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via ABFAHRT_STDIO_LOG")
	flag.Parse()

	// Best-effort: redirect all stdout/stderr output (including panic stack traces)
	// to a file so crashes are diagnosable even when the console is left in graphics mode.
	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv("ABFAHRT_STDIO_LOG")
	}
	if logPath != "" {
		if err := redirectStdIO(logPath); err != nil {
			fmt.Fprintln(os.Stderr, "stdio log redirect error:", err)
		}
	}

	// Logs go to stderr so stdout stays clean for -fetch-test and -search.
	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Str("version", version).
		Logger()
	logger := app.NewZeroLogger(zl)

	path := *configPath
	if path == "" {
		path = os.Getenv(envConfigPath)
	}
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Errorf("main", "%v", err)
		return 2
	}
	cfg = cfg.Apply(config.Overrides{StationID: *stationID, RefreshSeconds: *refresh, RotationSeconds: *rotation})
	if err := cfg.Validate(); err != nil {
		logger.Errorf("main", "%v", err)
		return 2
	}
	logger.Debugf("main", "config loaded from %s: %d station(s)", path, len(cfg.Stations))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *fetchTest:
		logger.Infof("main", "running fetch test")
		err = runFetchTest(ctx, cfg, app.NewBVGClient(cfg), os.Stdout)
	case *renderTest:
		logger.Infof("main", "running render test")
		err = runRenderTest(cfg, *renderDir, logger, os.Stdout)
	case *search != "":
		logger.Infof("main", "searching for station: %s", *search)
		err = runSearch(ctx, app.NewBVGClient(cfg), *search, os.Stdout)
	default:
		logger.Infof("main", "starting display application")
		err = runBoard(ctx, cfg, logger)
	}
	if err != nil {
		logger.Errorf("main", "%v", err)
		return 1
	}
	return 0
}
