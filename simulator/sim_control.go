package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ydixken/abfahrt/internal/demo"
	"github.com/ydixken/abfahrt/internal/departure"
	"github.com/ydixken/abfahrt/internal/weather"
)

const (
	ScenarioMock    = "mock"
	ScenarioEmpty   = "empty"
	ScenarioOffline = "offline"

	// timetableCycle is how long a mock timetable counts down before it
	// starts over.
	timetableCycle = 20 * time.Minute
)

var ErrSimulatedOutage = errors.New("simulated upstream outage")

// SimStationIDs are the stop IDs the mock timetable answers for.
var SimStationIDs = []string{"900000000", "900000001", "900000002"}

type SimFaults struct {
	// FetchFail makes every departure request fail.
	FetchFail bool `json:"fetchFail"`
	// NameFail makes station name lookups fail.
	NameFail bool `json:"nameFail"`
	// LatencyMS delays every request.
	LatencyMS int `json:"latencyMs"`
}

// SimControl is a fake upstream: it answers departure and weather requests
// from mock data and can be switched between scenarios at runtime.
type SimControl struct {
	startupScenario string
	currentScenario atomic.Value // string
	epoch           time.Time
	now             func() time.Time

	faults struct {
		mu sync.RWMutex
		v  SimFaults
	}
}

func NewSimControl(startupScenario string) *SimControl {
	c := &SimControl{startupScenario: strings.TrimSpace(startupScenario), now: time.Now}
	if c.startupScenario == "" {
		c.startupScenario = ScenarioMock
	}
	c.epoch = c.now()
	c.currentScenario.Store(c.startupScenario)
	return c
}

func (c *SimControl) Scenario() string { return c.currentScenario.Load().(string) }

func (c *SimControl) ApplyScenario(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = c.startupScenario
	}
	switch name {
	case ScenarioMock, ScenarioEmpty, ScenarioOffline:
	default:
		return fmt.Errorf("unknown scenario %q", name)
	}
	c.currentScenario.Store(name)
	return nil
}

func (c *SimControl) Reset() error {
	c.SetFaults(SimFaults{})
	return c.ApplyScenario(c.startupScenario)
}

func (c *SimControl) Faults() SimFaults {
	c.faults.mu.RLock()
	defer c.faults.mu.RUnlock()
	return c.faults.v
}

func (c *SimControl) SetFaults(v SimFaults) {
	c.faults.mu.Lock()
	c.faults.v = v
	c.faults.mu.Unlock()
}

func (c *SimControl) wait(ctx context.Context) error {
	latency := time.Duration(c.Faults().LatencyMS) * time.Millisecond
	if latency <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(latency):
		return nil
	}
}

// anchor snaps now back to the start of the current timetable cycle, so
// departures count down instead of staying a fixed distance away.
func (c *SimControl) anchor(now time.Time) time.Time {
	cycles := now.Sub(c.epoch) / timetableCycle
	return c.epoch.Add(cycles * timetableCycle)
}

func (c *SimControl) station(stopID string) (demo.Station, bool) {
	stations := demo.Stations(c.anchor(c.now()))
	for i, id := range SimStationIDs {
		if id == stopID && i < len(stations) {
			return stations[i], true
		}
	}
	return demo.Station{}, false
}

func (c *SimControl) Departures(ctx context.Context, stopID string) ([]departure.Departure, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	if c.Faults().FetchFail || c.Scenario() == ScenarioOffline {
		return nil, ErrSimulatedOutage
	}
	if c.Scenario() == ScenarioEmpty {
		return nil, nil
	}
	st, ok := c.station(stopID)
	if !ok {
		return nil, fmt.Errorf("unknown stop %s", stopID)
	}
	return st.Departures, nil
}

func (c *SimControl) StationName(ctx context.Context, stopID string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	if c.Faults().NameFail || c.Scenario() == ScenarioOffline {
		return "", ErrSimulatedOutage
	}
	st, ok := c.station(stopID)
	if !ok {
		return "", fmt.Errorf("unknown stop %s", stopID)
	}
	return st.Name, nil
}

func (c *SimControl) Fetch(ctx context.Context, lat, lon float64) (weather.Data, error) {
	if err := c.wait(ctx); err != nil {
		return weather.Data{}, err
	}
	if c.Scenario() == ScenarioOffline {
		return weather.Data{}, ErrSimulatedOutage
	}
	return demo.Weather(c.now()), nil
}

func registerSimEndpoints(mux *http.ServeMux, control *SimControl) {
	mux.HandleFunc("/sim/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if err := control.Reset(); err != nil {
			writeSimError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "scenario": control.Scenario()})
	})

	mux.HandleFunc("/sim/scenario/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		name := strings.TrimPrefix(r.URL.Path, "/sim/scenario/")
		name = strings.Trim(name, "/")
		if err := control.ApplyScenario(name); err != nil {
			writeSimError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "scenario": control.Scenario()})
	})

	mux.HandleFunc("/sim/faults", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeSimJSON(w, http.StatusOK, control.Faults())
			return
		case http.MethodPost:
			var patch struct {
				FetchFail *bool `json:"fetchFail"`
				NameFail  *bool `json:"nameFail"`
				LatencyMS *int  `json:"latencyMs"`
			}
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				writeSimError(w, http.StatusBadRequest, "invalid json")
				return
			}
			current := control.Faults()
			if patch.FetchFail != nil {
				current.FetchFail = *patch.FetchFail
			}
			if patch.NameFail != nil {
				current.NameFail = *patch.NameFail
			}
			if patch.LatencyMS != nil {
				current.LatencyMS = *patch.LatencyMS
			}
			control.SetFaults(current)
			writeSimJSON(w, http.StatusOK, current)
			return
		default:
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
	})
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}
