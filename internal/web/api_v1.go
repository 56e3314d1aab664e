package web

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/ydixken/abfahrt/internal/departure"
	"github.com/ydixken/abfahrt/internal/state"
)

// StateSource is typically *state.Store.
type StateSource interface {
	Snapshot() state.State
}

// FrameSource is typically *app.App.
type FrameSource interface {
	Frame() image.Image
}

type Sources struct {
	State StateSource
	Frame FrameSource
	// Now stamps the minute counts; defaults to time.Now.
	Now func() time.Time
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type departureResponse struct {
	Line         string   `json:"line"`
	Product      string   `json:"product"`
	Direction    string   `json:"direction"`
	When         string   `json:"when,omitempty"`
	Minutes      *int     `json:"minutes"`
	DelayMinutes int      `json:"delayMinutes"`
	Platform     string   `json:"platform,omitempty"`
	Cancelled    bool     `json:"cancelled"`
	Remarks      []string `json:"remarks"`
}

type stationResponse struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	WalkingMinutes int                 `json:"walkingMinutes"`
	Lines          []string            `json:"lines"`
	LastFetch      *time.Time          `json:"lastFetch"`
	FetchOK        bool                `json:"fetchOk"`
	LastError      string              `json:"lastError,omitempty"`
	Departures     []departureResponse `json:"departures"`
}

type weatherResponse struct {
	CurrentTemp float64   `json:"currentTemp"`
	DailyLow    float64   `json:"dailyLow"`
	DailyHigh   float64   `json:"dailyHigh"`
	Precip      string    `json:"precip"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

type statusResponse struct {
	Phase    string            `json:"phase"`
	Status   string            `json:"status"`
	Active   int               `json:"active"`
	Stations []stationResponse `json:"stations"`
	Weather  *weatherResponse  `json:"weather"`
}

type apiV1 struct {
	sources Sources
}

func (a apiV1) now() time.Time {
	if a.sources.Now != nil {
		return a.sources.Now()
	}
	return time.Now()
}

func (a apiV1) handleStatus(w http.ResponseWriter, r *http.Request) {
	if a.sources.State == nil {
		writeAPIError(w, http.StatusServiceUnavailable, "not_ready", "state not available")
		return
	}
	writeJSON(w, http.StatusOK, newStatusResponse(a.sources.State.Snapshot(), a.now()))
}

func newStatusResponse(snap state.State, now time.Time) statusResponse {
	resp := statusResponse{
		Phase:    snap.Phase.String(),
		Status:   snap.Status,
		Active:   snap.Active,
		Stations: make([]stationResponse, 0, len(snap.Stations)),
	}
	for _, st := range snap.Stations {
		sr := stationResponse{
			ID:             st.ID,
			Name:           st.Name,
			WalkingMinutes: st.WalkingMinutes,
			Lines:          append([]string{}, st.Lines...),
			FetchOK:        st.FetchOK,
			LastError:      st.LastError,
			Departures:     make([]departureResponse, 0, len(st.Departures)),
		}
		if !st.LastFetch.IsZero() {
			at := st.LastFetch
			sr.LastFetch = &at
		}
		for _, d := range st.Departures {
			sr.Departures = append(sr.Departures, newDepartureResponse(d, now))
		}
		resp.Stations = append(resp.Stations, sr)
	}
	if w := snap.Weather; w != nil {
		resp.Weather = &weatherResponse{
			CurrentTemp: w.CurrentTemp,
			DailyLow:    w.DailyLow,
			DailyHigh:   w.DailyHigh,
			Precip:      w.PrecipSummary(),
			FetchedAt:   w.FetchedAt,
		}
	}
	return resp
}

func newDepartureResponse(d departure.Departure, now time.Time) departureResponse {
	out := departureResponse{
		Line:         d.LineName,
		Product:      string(d.Product),
		Direction:    d.Direction,
		DelayMinutes: d.DelayMinutes(),
		Platform:     d.Platform,
		Cancelled:    d.Cancelled,
		Remarks:      append([]string{}, d.Remarks...),
	}
	if at, ok := d.EffectiveTime(); ok {
		out.When = at.Format(time.RFC3339)
	}
	if m, ok := d.MinutesUntil(now); ok {
		out.Minutes = &m
	}
	return out
}

func (a apiV1) handleFrame(w http.ResponseWriter, r *http.Request) {
	var img image.Image
	if a.sources.Frame != nil {
		img = a.sources.Frame.Frame()
	}
	if img == nil {
		writeAPIError(w, http.StatusServiceUnavailable, "no_frame", "no frame rendered yet")
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func writeAPIError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
