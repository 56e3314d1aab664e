package state

import (
	"sync"
	"time"

	"github.com/ydixken/abfahrt/internal/departure"
	"github.com/ydixken/abfahrt/internal/weather"
)

type Phase int

const (
	BOOTING Phase = iota
	RUNNING
	STOPPING
)

func (p Phase) String() string {
	switch p {
	case BOOTING:
		return "booting"
	case RUNNING:
		return "running"
	case STOPPING:
		return "stopping"
	}
	return "unknown"
}

// Station is the cached view of one configured station.
type Station struct {
	ID             string
	Name           string
	WalkingMinutes int
	// Lines restricts the board to these line names when non-empty.
	Lines      []string
	Departures []departure.Departure
	// LastFetch is zero until the first fetch attempt finished.
	LastFetch time.Time
	FetchOK   bool
	LastError string
}

// NeedsRefresh reports whether interval has passed since the last fetch.
func (s Station) NeedsRefresh(now time.Time, interval time.Duration) bool {
	return s.LastFetch.IsZero() || now.Sub(s.LastFetch) >= interval
}

func (s Station) clone() Station {
	out := s
	out.Lines = append([]string(nil), s.Lines...)
	out.Departures = departure.CloneAll(s.Departures)
	return out
}

type State struct {
	Phase    Phase
	Status   string
	Stations []Station
	Active   int
	Weather  *weather.Data
}

// ActiveStation returns the station currently on screen.
func (s State) ActiveStation() (Station, bool) {
	if s.Active < 0 || s.Active >= len(s.Stations) {
		return Station{}, false
	}
	return s.Stations[s.Active], true
}

// Store guards the state shared by the refresher, the render loop and the
// status API. Snapshots are deep copies.
type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{state: State{Phase: BOOTING}}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	out := store.state
	out.Stations = make([]Station, len(store.state.Stations))
	for i, st := range store.state.Stations {
		out.Stations[i] = st.clone()
	}
	out.Weather = store.state.Weather.Clone()
	return out
}

func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	store.state.Phase = phase
	store.mu.Unlock()
}

func (store *Store) SetStatus(status string) {
	store.mu.Lock()
	store.state.Status = status
	store.mu.Unlock()
}

// SetStations replaces the station list and resets the rotation.
func (store *Store) SetStations(stations []Station) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.state.Stations = make([]Station, len(stations))
	for i, st := range stations {
		store.state.Stations[i] = st.clone()
	}
	store.state.Active = 0
}

// Rotate advances to the next station and returns its index.
func (store *Store) Rotate() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	if n := len(store.state.Stations); n > 0 {
		store.state.Active = (store.state.Active + 1) % n
	}
	return store.state.Active
}

// RecordFetch stores a successful fetch for station i.
func (store *Store) RecordFetch(i int, deps []departure.Departure, at time.Time) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if i < 0 || i >= len(store.state.Stations) {
		return
	}
	st := &store.state.Stations[i]
	st.Departures = departure.CloneAll(deps)
	st.LastFetch = at
	st.FetchOK = true
	st.LastError = ""
}

// RecordFailure keeps the last good departures. A station that never had
// data still gets LastFetch stamped so it shows the empty page instead of the
// network error page after the first attempt.
func (store *Store) RecordFailure(i int, err error, at time.Time) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if i < 0 || i >= len(store.state.Stations) {
		return
	}
	st := &store.state.Stations[i]
	st.FetchOK = false
	if err != nil {
		st.LastError = err.Error()
	}
	if len(st.Departures) == 0 {
		st.LastFetch = at
	}
}

func (store *Store) UpdateWeather(w weather.Data) {
	store.mu.Lock()
	store.state.Weather = w.Clone()
	store.mu.Unlock()
}
