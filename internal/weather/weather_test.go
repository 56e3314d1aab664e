package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ydixken/abfahrt/internal/resilience"
)

func TestPrecipSummary(t *testing.T) {
	assert.Equal(t, "", Data{}.PrecipSummary())
	assert.Equal(t, "", Data{PrecipNext12h: []float64{0, 0, 0}}.PrecipSummary())

	d := Data{PrecipNext12h: []float64{0, 0, 0.1, 0.3, 0.5, 0.2, 0, 0}}
	assert.InDelta(t, 1.1, d.PrecipTotal(), 1e-9)
	assert.InDelta(t, 0.5, d.PrecipMax(), 1e-9)
	assert.Equal(t, "1mm", d.PrecipSummary())

	assert.Equal(t, "0mm", Data{PrecipNext12h: []float64{0.2}}.PrecipSummary())
	assert.Equal(t, "3mm", Data{PrecipNext12h: []float64{1.4, 1.5}}.PrecipSummary())
}

func TestStale(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, Data{}.Stale(now, time.Minute))
	d := Data{FetchedAt: now.Add(-5 * time.Minute)}
	assert.False(t, d.Stale(now, 10*time.Minute))
	assert.True(t, d.Stale(now, 5*time.Minute))
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "52.517", q.Get("latitude"))
		assert.Equal(t, "temperature_2m", q.Get("current"))
		assert.Equal(t, "Europe/Berlin", q.Get("timezone"))
		assert.Equal(t, "12", q.Get("forecast_hours"))
		_, _ = w.Write([]byte(`{
			"current": {"temperature_2m": 4.2},
			"daily": {"temperature_2m_min": [1.0], "temperature_2m_max": [8.4]},
			"hourly": {"precipitation": [0,0,0.1,0.3,0.5,0.2,0,0,0,0,0,0,0.9,0.9]}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", resilience.NewClient(resilience.DefaultClientConfig("weather")))
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	d, err := c.Fetch(context.Background(), 52.517, 13.454)
	require.NoError(t, err)
	assert.Equal(t, 4.2, d.CurrentTemp)
	assert.Equal(t, 1.0, d.DailyLow)
	assert.Equal(t, 8.4, d.DailyHigh)
	assert.Len(t, d.PrecipNext12h, 12)
	assert.Equal(t, fixed, d.FetchedAt)
}

func TestFetchIncomplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"daily": {}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", resilience.NewClient(resilience.DefaultClientConfig("weather")))
	_, err := c.Fetch(context.Background(), 0, 0)
	assert.ErrorIs(t, err, ErrIncomplete)
}
