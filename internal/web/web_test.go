package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydixken/abfahrt/internal/departure"
	"github.com/ydixken/abfahrt/internal/state"
	"github.com/ydixken/abfahrt/internal/weather"
)

var t0 = time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)

type frameFunc func() image.Image

func (f frameFunc) Frame() image.Image { return f() }

func testStore() *state.Store {
	store := state.NewStore()
	store.SetStations([]state.Station{
		{ID: "900023201", Name: "S Savignyplatz", WalkingMinutes: 5, Lines: []string{"S5"}},
		{ID: "900100003", Name: "S+U Alexanderplatz", WalkingMinutes: 3},
	})
	store.RecordFetch(0, []departure.Departure{{
		LineName:     "S5",
		Product:      departure.Suburban,
		Direction:    "Spandau",
		Scheduled:    t0.Add(6 * time.Minute),
		Realtime:     t0.Add(7*time.Minute + 30*time.Second),
		DelaySeconds: departure.Seconds(90),
		Remarks:      []string{"Fahrradmitnahme möglich"},
	}}, t0)
	store.RecordFailure(1, errors.New("HTTP 503"), t0)
	store.SetPhase(state.RUNNING)
	store.UpdateWeather(weather.Data{CurrentTemp: 11.6, DailyLow: 4, DailyHigh: 14, PrecipNext12h: []float64{0.4, 1.2}, FetchedAt: t0})
	return store
}

func newTestRouter(sources Sources, dev bool) http.Handler {
	sources.Now = func() time.Time { return t0 }
	return NewRouter(RouterConfig{Sources: sources, DevMode: dev})
}

func TestStatus(t *testing.T) {
	h := newTestRouter(Sources{State: testStore()}, false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var got statusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "running", got.Phase)
	require.Len(t, got.Stations, 2)

	s := got.Stations[0]
	assert.Equal(t, "S Savignyplatz", s.Name)
	assert.True(t, s.FetchOK)
	require.Len(t, s.Departures, 1)
	d := s.Departures[0]
	assert.Equal(t, "S5", d.Line)
	assert.Equal(t, "suburban", d.Product)
	require.NotNil(t, d.Minutes)
	assert.Equal(t, 7, *d.Minutes)
	assert.Equal(t, 1, d.DelayMinutes)

	failed := got.Stations[1]
	assert.False(t, failed.FetchOK)
	assert.Equal(t, "HTTP 503", failed.LastError)
	require.NotNil(t, failed.LastFetch)
	assert.Empty(t, failed.Departures)

	require.NotNil(t, got.Weather)
	assert.Equal(t, "2mm", got.Weather.Precip)
}

func TestStatusWithoutState(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(Sources{}, false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestFrame(t *testing.T) {
	var current image.Image
	h := newTestRouter(Sources{Frame: frameFunc(func() image.Image { return current })}, false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/frame.png", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	current = image.NewRGBA(image.Rect(0, 0, 256, 64))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/frame.png", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 256, 64), img.Bounds())
}

func TestRoutingErrors(t *testing.T) {
	h := newTestRouter(Sources{State: testStore()}, false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/status", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	var body apiError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "method_not_allowed", body.Error)
}

func TestRateLimit(t *testing.T) {
	h := NewRouter(RouterConfig{
		Sources:   Sources{State: testStore()},
		RateLimit: RateLimit{RequestLimit: 2, WindowLength: time.Minute},
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
		req.RemoteAddr = "192.0.2.10:1234"
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestDevCORS(t *testing.T) {
	h := newTestRouter(Sources{State: testStore()}, true)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/status", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))

	rec = httptest.NewRecorder()
	h = newTestRouter(Sources{State: testStore()}, false)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDevCORS_Methods(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	h := WithDevCORS(next, http.MethodGet, http.MethodPost)

	req := httptest.NewRequest(http.MethodOptions, "/sim/reset", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET,POST,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sim/reset", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServerConfigFromEnv(t *testing.T) {
	t.Setenv(EnvListenAddr, "")
	t.Setenv(EnvDevMode, "")
	cfg, err := ServerConfigFromEnv(":8080", false)
	require.NoError(t, err)
	assert.Equal(t, ServerConfig{ListenAddr: ":8080"}, cfg)

	t.Setenv(EnvListenAddr, "127.0.0.1:9000")
	t.Setenv(EnvDevMode, "true")
	cfg, err = ServerConfigFromEnv("", false)
	require.NoError(t, err)
	assert.Equal(t, ServerConfig{ListenAddr: "127.0.0.1:9000", DevMode: true}, cfg)

	t.Setenv(EnvDevMode, "maybe")
	_, err = ServerConfigFromEnv("", false)
	assert.Error(t, err)
}

func TestHTTPServerLifecycle(t *testing.T) {
	srv := NewHTTPServer(ServerConfig{ListenAddr: "127.0.0.1:0"}, Sources{State: testStore()}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, srv.Start(ctx))

	resp, err := http.Get(fmt.Sprintf("http://%s/api/v1/status", srv.ListenAddr()))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "S Savignyplatz")

	require.NoError(t, srv.Stop())
	require.NoError(t, srv.Stop())
	assert.Error(t, srv.Start(ctx))
}

func TestNewServer(t *testing.T) {
	disabled := NewServer(ServerConfig{}, Sources{State: testStore()}, nil)
	require.IsType(t, &NoopServer{}, disabled)
	require.NoError(t, disabled.Start(context.Background()))
	assert.Empty(t, disabled.ListenAddr())
	assert.NoError(t, disabled.Stop())

	enabled := NewServer(ServerConfig{ListenAddr: "127.0.0.1:0"}, Sources{State: testStore()}, nil)
	require.IsType(t, &HTTPServer{}, enabled)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, enabled.Start(ctx))
	assert.NotEmpty(t, enabled.ListenAddr())
	assert.NoError(t, enabled.Stop())
}
