package bvg

import (
	"html"
	"strings"
	"time"

	"github.com/ydixken/abfahrt/internal/departure"
)

// BikeRemark replaces the "FK" remark code.
const BikeRemark = "Fahrradmitnahme möglich"

type rawRemark struct {
	Type string `json:"type"`
	Code string `json:"code"`
	Text string `json:"text"`
}

type rawLine struct {
	Name    string `json:"name"`
	Product string `json:"product"`
}

type rawDeparture struct {
	Line        rawLine     `json:"line"`
	Direction   string      `json:"direction"`
	When        *time.Time  `json:"when"`
	PlannedWhen *time.Time  `json:"plannedWhen"`
	Delay       *int        `json:"delay"`
	Platform    *string     `json:"platform"`
	Remarks     []rawRemark `json:"remarks"`
	Cancelled   bool        `json:"cancelled"`
}

// toDeparture keeps only bike and warning remarks and normalizes line names
// and directions for the board.
func (raw rawDeparture) toDeparture() departure.Departure {
	d := departure.Departure{
		LineName:     LineName(raw.Line.Name, raw.Line.Product),
		Product:      departure.ParseProduct(raw.Line.Product),
		Direction:    CleanDirection(raw.Direction),
		DelaySeconds: raw.Delay,
		Cancelled:    raw.Cancelled,
	}
	if raw.When != nil {
		d.Realtime = *raw.When
	}
	if raw.PlannedWhen != nil {
		d.Scheduled = *raw.PlannedWhen
	}
	if raw.Platform != nil {
		d.Platform = *raw.Platform
	}
	for _, r := range raw.Remarks {
		switch {
		case r.Code == "FK":
			d.Remarks = append(d.Remarks, BikeRemark)
		case r.Type == "warning" && r.Text != "":
			d.Remarks = append(d.Remarks, html.UnescapeString(r.Text))
		}
	}
	return d
}

// LineName prefixes tram lines with M and bus lines with B, as the BVG
// signage does.
func LineName(name, product string) string {
	if name == "" {
		return ""
	}
	switch product {
	case "tram":
		if !strings.HasPrefix(name, "M") {
			return "M" + name
		}
	case "bus":
		if !strings.HasPrefix(name, "B") && !strings.HasPrefix(name, "N") && !strings.HasPrefix(name, "M") {
			return "B" + name
		}
	}
	return name
}

// CleanDirection drops ring line arrows and the S/U prefixes the line column
// already conveys.
func CleanDirection(direction string) string {
	direction = strings.ReplaceAll(direction, "⟲", "")
	direction = strings.ReplaceAll(direction, "⟳", "")
	direction = strings.TrimSpace(direction)
	for _, prefix := range []string{"S+U ", "S ", "U "} {
		direction = strings.TrimPrefix(direction, prefix)
	}
	return direction
}
