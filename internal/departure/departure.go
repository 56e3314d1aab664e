// Package departure holds the departure record shared by the API clients,
// the state store and the board renderer.
package departure

import (
	"math"
	"time"
)

type Product string

const (
	Suburban Product = "suburban"
	Subway   Product = "subway"
	Tram     Product = "tram"
	Bus      Product = "bus"
	Regional Product = "regional"
	Express  Product = "express"
	Other    Product = "other"
)

// ParseProduct maps an API product name to a Product. Unknown names map to Other.
func ParseProduct(name string) Product {
	switch Product(name) {
	case Suburban, Subway, Tram, Bus, Regional, Express:
		return Product(name)
	}
	return Other
}

// Departure is an immutable snapshot of one upcoming departure.
// Zero times mean unknown; a nil DelaySeconds means the delay is unknown.
type Departure struct {
	LineName     string
	Product      Product
	Direction    string
	Scheduled    time.Time
	Realtime     time.Time
	DelaySeconds *int
	Platform     string
	Remarks      []string
	Cancelled    bool
}

// EffectiveTime prefers the realtime timestamp and falls back to the scheduled one.
func (d Departure) EffectiveTime() (time.Time, bool) {
	if !d.Realtime.IsZero() {
		return d.Realtime, true
	}
	if !d.Scheduled.IsZero() {
		return d.Scheduled, true
	}
	return time.Time{}, false
}

// MinutesUntil returns the whole minutes between now and the effective time,
// floored and clamped at zero. ok is false when no timestamp is known.
func (d Departure) MinutesUntil(now time.Time) (minutes int, ok bool) {
	at, ok := d.EffectiveTime()
	if !ok {
		return 0, false
	}
	delta := at.Sub(now)
	if delta <= 0 {
		return 0, true
	}
	return int(delta / time.Minute), true
}

// DelayMinutes floors the delay toward negative infinity; unknown delay is 0.
func (d Departure) DelayMinutes() int {
	if d.DelaySeconds == nil {
		return 0
	}
	return int(math.Floor(float64(*d.DelaySeconds) / 60))
}

// Clone returns a copy that shares no slices or pointers with d.
func (d Departure) Clone() Departure {
	out := d
	if d.DelaySeconds != nil {
		delay := *d.DelaySeconds
		out.DelaySeconds = &delay
	}
	if d.Remarks != nil {
		out.Remarks = append([]string(nil), d.Remarks...)
	}
	return out
}

// CloneAll deep-copies a departure list.
func CloneAll(in []Departure) []Departure {
	if in == nil {
		return nil
	}
	out := make([]Departure, len(in))
	for i, d := range in {
		out[i] = d.Clone()
	}
	return out
}

// Seconds is a convenience for building a DelaySeconds pointer.
func Seconds(v int) *int { return &v }
