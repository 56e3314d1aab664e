package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// RateLimit bounds requests per client IP.
type RateLimit struct {
	RequestLimit int
	WindowLength time.Duration
}

// DefaultRateLimit allows a browser tab polling the frame at a few Hz.
var DefaultRateLimit = RateLimit{RequestLimit: 300, WindowLength: time.Minute}

type RouterConfig struct {
	Sources   Sources
	DevMode   bool
	RateLimit RateLimit
}

// NewRouter builds the API router:
//   - GET /api/v1/status     board state as JSON
//   - GET /api/v1/frame.png  the frame currently on the display
func NewRouter(cfg RouterConfig) http.Handler {
	limit := cfg.RateLimit
	if limit.RequestLimit <= 0 {
		limit = DefaultRateLimit
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(httprate.Limit(
		limit.RequestLimit,
		limit.WindowLength,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeAPIError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
		}),
	))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, "not_found", "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	api := apiV1{sources: cfg.Sources}
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", api.handleStatus)
		r.Get("/frame.png", api.handleFrame)
	})

	if cfg.DevMode {
		return WithDevCORS(r)
	}
	return r
}
