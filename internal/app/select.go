package app

import (
	"slices"
	"time"

	"github.com/ydixken/abfahrt/internal/departure"
)

// Selection describes which departures of a station are worth showing.
type Selection struct {
	WalkingMinutes int
	// HurryFloor is the lowest minute count ever shown.
	HurryFloor int
	// Lines restricts the board to these line names when non-empty.
	Lines []string
	// FallbackAll shows every line when Lines matches nothing.
	FallbackAll bool
}

// HurryBound is the smallest minute count still catchable on foot:
// walking time minus three minutes of running, never below the floor.
func (s Selection) HurryBound() int {
	return max(s.HurryFloor, s.WalkingMinutes-3)
}

// SelectDepartures drops departures that leave too soon to be reached and
// applies the line filter. Departures without a known time are dropped.
func SelectDepartures(deps []departure.Departure, now time.Time, sel Selection) []departure.Departure {
	bound := sel.HurryBound()
	var visible []departure.Departure
	for _, d := range deps {
		minutes, ok := d.MinutesUntil(now)
		if !ok || minutes < bound {
			continue
		}
		visible = append(visible, d)
	}
	if len(sel.Lines) == 0 {
		return visible
	}

	var filtered []departure.Departure
	for _, d := range visible {
		if slices.Contains(sel.Lines, d.LineName) {
			filtered = append(filtered, d)
		}
	}
	if len(filtered) == 0 && sel.FallbackAll {
		return visible
	}
	return filtered
}
