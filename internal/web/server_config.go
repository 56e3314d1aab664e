package web

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvListenAddr = "ABFAHRT_LISTEN"
	EnvDevMode    = "ABFAHRT_DEV"
)

// ServerConfig contains settings for running the HTTP server.
// An empty ListenAddr disables the server.
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
}

// ServerConfigFromEnv overlays the environment onto the configured values.
func ServerConfigFromEnv(listenAddr string, devMode bool) (ServerConfig, error) {
	if env := os.Getenv(EnvListenAddr); env != "" {
		listenAddr = env
	}
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		devMode = parsed
	}
	return ServerConfig{ListenAddr: listenAddr, DevMode: devMode}, nil
}
