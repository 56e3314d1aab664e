// Package weather fetches the current temperature and the short term
// precipitation forecast shown in the board header.
package weather

import (
	"fmt"
	"math"
	"time"
)

// Data is a weather snapshot. Temperatures are in °C, precipitation in mm per hour.
type Data struct {
	CurrentTemp   float64
	DailyLow      float64
	DailyHigh     float64
	PrecipNext12h []float64
	FetchedAt     time.Time
}

// PrecipTotal sums the hourly precipitation.
func (d Data) PrecipTotal() float64 {
	total := 0.0
	for _, v := range d.PrecipNext12h {
		total += v
	}
	return total
}

// PrecipMax is the heaviest hour.
func (d Data) PrecipMax() float64 {
	peak := 0.0
	for i, v := range d.PrecipNext12h {
		if i == 0 || v > peak {
			peak = v
		}
	}
	return peak
}

// PrecipSummary is e.g. "3mm", or "" when no precipitation is expected.
func (d Data) PrecipSummary() string {
	total := d.PrecipTotal()
	if total == 0 {
		return ""
	}
	return fmt.Sprintf("%dmm", int(math.RoundToEven(total)))
}

// Stale reports whether the snapshot is older than ttl at now.
func (d Data) Stale(now time.Time, ttl time.Duration) bool {
	return d.FetchedAt.IsZero() || now.Sub(d.FetchedAt) >= ttl
}

// Clone returns a copy that does not share the precipitation slice.
func (d *Data) Clone() *Data {
	if d == nil {
		return nil
	}
	out := *d
	out.PrecipNext12h = append([]float64(nil), d.PrecipNext12h...)
	return &out
}
