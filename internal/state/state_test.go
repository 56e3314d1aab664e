package state

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ydixken/abfahrt/internal/departure"
	"github.com/ydixken/abfahrt/internal/weather"
)

var t0 = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func TestSnapshotIsDeepCopy(t *testing.T) {
	store := NewStore()
	store.SetStations([]Station{{ID: "1", Lines: []string{"S7"}}})
	store.RecordFetch(0, []departure.Departure{{LineName: "S7", Remarks: []string{"a"}}}, t0)
	store.UpdateWeather(weather.Data{PrecipNext12h: []float64{1}})

	snap := store.Snapshot()
	snap.Stations[0].Departures[0].Remarks[0] = "changed"
	snap.Stations[0].Lines[0] = "U8"
	snap.Weather.PrecipNext12h[0] = 9

	again := store.Snapshot()
	assert.Equal(t, "a", again.Stations[0].Departures[0].Remarks[0])
	assert.Equal(t, "S7", again.Stations[0].Lines[0])
	assert.Equal(t, 1.0, again.Weather.PrecipNext12h[0])
}

func TestRotateWraps(t *testing.T) {
	store := NewStore()
	store.SetStations([]Station{{ID: "1"}, {ID: "2"}, {ID: "3"}})
	assert.Equal(t, 1, store.Rotate())
	assert.Equal(t, 2, store.Rotate())
	assert.Equal(t, 0, store.Rotate())

	empty := NewStore()
	assert.Equal(t, 0, empty.Rotate())
}

func TestRecordFailureKeepsLastGoodData(t *testing.T) {
	store := NewStore()
	store.SetStations([]Station{{ID: "1"}, {ID: "2"}})
	store.RecordFetch(0, []departure.Departure{{LineName: "S7"}}, t0)

	store.RecordFailure(0, errors.New("timeout"), t0.Add(time.Minute))
	store.RecordFailure(1, errors.New("timeout"), t0.Add(time.Minute))

	snap := store.Snapshot()
	first := snap.Stations[0]
	assert.False(t, first.FetchOK)
	assert.Len(t, first.Departures, 1)
	assert.Equal(t, t0, first.LastFetch)
	assert.Equal(t, "timeout", first.LastError)

	second := snap.Stations[1]
	assert.False(t, second.FetchOK)
	assert.Equal(t, t0.Add(time.Minute), second.LastFetch)
}

func TestNeedsRefresh(t *testing.T) {
	st := Station{}
	assert.True(t, st.NeedsRefresh(t0, 30*time.Second))
	st.LastFetch = t0
	assert.False(t, st.NeedsRefresh(t0.Add(29*time.Second), 30*time.Second))
	assert.True(t, st.NeedsRefresh(t0.Add(30*time.Second), 30*time.Second))
}

func TestActiveStation(t *testing.T) {
	store := NewStore()
	_, ok := store.Snapshot().ActiveStation()
	assert.False(t, ok)

	store.SetStations([]Station{{ID: "1"}, {ID: "2"}})
	store.Rotate()
	st, ok := store.Snapshot().ActiveStation()
	require.True(t, ok)
	assert.Equal(t, "2", st.ID)
}
