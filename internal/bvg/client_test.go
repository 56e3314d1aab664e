package bvg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ydixken/abfahrt/internal/departure"
	"github.com/ydixken/abfahrt/internal/resilience"
)

const departuresJSON = `{"departures": [
  {
    "line": {"name": "21", "product": "tram"},
    "direction": "S+U Schöneweide",
    "when": "2025-03-14T10:12:00+01:00",
    "plannedWhen": "2025-03-14T10:10:00+01:00",
    "delay": 120,
    "platform": null,
    "remarks": [{"type": "hint", "code": "FK", "text": "Fahrradmitnahme"}],
    "cancelled": false
  },
  {
    "line": {"name": "S7", "product": "suburban"},
    "direction": "S Ahrensfelde ⟳",
    "when": null,
    "plannedWhen": "2025-03-14T10:05:00+01:00",
    "delay": null,
    "platform": "2",
    "remarks": [
      {"type": "warning", "text": "Bauarbeiten &amp; Umleitung"},
      {"type": "hint", "code": "bf", "text": "barrierefrei"}
    ],
    "cancelled": true
  }
]}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 20, AllProducts(), resilience.NewClient(resilience.DefaultClientConfig("bvg")))
}

func TestDepartures(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stops/900023201/departures", r.URL.Path)
		assert.Equal(t, "60", r.URL.Query().Get("duration"))
		assert.Equal(t, "20", r.URL.Query().Get("results"))
		assert.Equal(t, "false", r.URL.Query().Get("ferry"))
		_, _ = w.Write([]byte(departuresJSON))
	})

	deps, err := c.Departures(context.Background(), "900023201")
	require.NoError(t, err)
	require.Len(t, deps, 2)

	first := deps[0]
	assert.Equal(t, "S7", first.LineName)
	assert.Equal(t, departure.Suburban, first.Product)
	assert.Equal(t, "Ahrensfelde", first.Direction)
	assert.True(t, first.Realtime.IsZero())
	assert.Nil(t, first.DelaySeconds)
	assert.Equal(t, "2", first.Platform)
	assert.Equal(t, []string{"Bauarbeiten & Umleitung"}, first.Remarks)
	assert.True(t, first.Cancelled)

	second := deps[1]
	assert.Equal(t, "M21", second.LineName)
	assert.Equal(t, "Schöneweide", second.Direction)
	assert.Equal(t, []string{BikeRemark}, second.Remarks)
	require.NotNil(t, second.DelaySeconds)
	assert.Equal(t, 2, second.DelayMinutes())
	assert.True(t, second.Realtime.Equal(time.Date(2025, 3, 14, 9, 12, 0, 0, time.UTC)))
}

func TestDeparturesBareArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"line": {"name": "240", "product": "bus"}, "direction": "U Boddinstr."}]`))
	})
	deps, err := c.Departures(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "B240", deps[0].LineName)
	assert.Equal(t, "Boddinstr.", deps[0].Direction)
	_, ok := deps[0].MinutesUntil(time.Now())
	assert.False(t, ok)
}

func TestStationName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/stops/1" {
			_, _ = w.Write([]byte(`{"name": "S Savignyplatz (Berlin)"}`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})
	name, err := c.StationName(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "S Savignyplatz (Berlin)", name)

	name, err = c.StationName(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "Station 2", name)
}

func TestSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/locations", r.URL.Path)
		assert.Equal(t, "alex", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`[{"type": "stop", "id": "900100003", "name": "S+U Alexanderplatz"}]`))
	})
	locs, err := c.Search(context.Background(), "alex")
	require.NoError(t, err)
	assert.Equal(t, []Location{{ID: "900100003", Name: "S+U Alexanderplatz", Type: "stop"}}, locs)
}

func TestLineName(t *testing.T) {
	cases := []struct{ name, product, want string }{
		{"21", "tram", "M21"},
		{"M10", "tram", "M10"},
		{"240", "bus", "B240"},
		{"N8", "bus", "N8"},
		{"M41", "bus", "M41"},
		{"BER1", "bus", "BER1"},
		{"U8", "subway", "U8"},
		{"", "bus", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LineName(tc.name, tc.product), "%s/%s", tc.name, tc.product)
	}
}

func TestCleanDirection(t *testing.T) {
	assert.Equal(t, "Ringbahn", CleanDirection("⟲ Ringbahn"))
	assert.Equal(t, "Hauptbahnhof", CleanDirection("S+U Hauptbahnhof"))
	assert.Equal(t, "Zoo", CleanDirection("U Zoo"))
	assert.Equal(t, "Potsdam Hbf", CleanDirection("Potsdam Hbf"))
}
