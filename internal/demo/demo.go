// Package demo provides mock board data and renders it to PNG and GIF
// without any network access.
package demo

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ydixken/abfahrt/internal/departure"
	"github.com/ydixken/abfahrt/internal/render"
	"github.com/ydixken/abfahrt/internal/weather"
)

// Instant is a fixed moment on a whole minute, so every blink period
// starts there and blinking content is drawn.
var Instant = time.Date(2025, 1, 6, 7, 42, 0, 0, time.UTC)

// Station is one page of a demo.
type Station struct {
	Name           string
	WalkingMinutes int
	Departures     []departure.Departure
}

func at(now time.Time, minutes int) time.Time {
	return now.Add(time.Duration(minutes) * time.Minute)
}

// Departures is a small board with a hurry-zone row, a delayed row and a
// cancelled row.
func Departures(now time.Time) []departure.Departure {
	return []departure.Departure{
		{
			LineName: "S7", Product: departure.Suburban, Direction: "Ahrensfelde",
			Scheduled: at(now, 5), Realtime: at(now, 5), DelaySeconds: departure.Seconds(0),
			Platform: "1", Remarks: []string{"Fahrradmitnahme möglich"},
		},
		{
			LineName: "S5", Product: departure.Suburban, Direction: "Strausberg",
			Scheduled: at(now, 8), Realtime: at(now, 8), DelaySeconds: departure.Seconds(0),
			Platform: "1", Remarks: []string{"Fahrradmitnahme möglich"},
		},
		{
			LineName: "S7", Product: departure.Suburban, Direction: "Potsdam Hauptbahnhof",
			Scheduled: at(now, 12), Realtime: at(now, 14), DelaySeconds: departure.Seconds(120),
			Platform: "2", Remarks: []string{"Fahrradmitnahme möglich"},
		},
		{
			LineName: "RE1", Product: departure.Regional, Direction: "Frankfurt (Oder)",
			Scheduled: at(now, 18), Realtime: at(now, 18), DelaySeconds: departure.Seconds(0),
			Platform: "3", Cancelled: true,
		},
	}
}

// Weather is a cold morning with a little rain in the afternoon.
func Weather(now time.Time) weather.Data {
	return weather.Data{
		CurrentTemp:   4,
		DailyLow:      1,
		DailyHigh:     8,
		PrecipNext12h: []float64{0, 0, 0.1, 0.3, 0.5, 0.2, 0, 0, 0, 0, 0, 0},
		FetchedAt:     now,
	}
}

// Stations returns three demo stations: the mock board, a second board
// with long scrolling remarks and a quiet stop.
func Stations(now time.Time) []Station {
	tram := []departure.Departure{
		{
			LineName: "M10", Product: departure.Tram, Direction: "Hauptbahnhof",
			Scheduled: at(now, 3), Realtime: at(now, 4), DelaySeconds: departure.Seconds(60),
			Remarks: []string{"Bauarbeiten: Umleitung zwischen Warschauer Str. und Eberswalder Str., Ersatzhaltestellen beachten"},
		},
		{
			LineName: "U1", Product: departure.Subway, Direction: "Uhlandstr.",
			Scheduled: at(now, 6), Realtime: at(now, 6), DelaySeconds: departure.Seconds(0),
		},
		{
			LineName: "U3", Product: departure.Subway, Direction: "Krumme Lanke",
			Scheduled: at(now, 11), Realtime: at(now, 10), DelaySeconds: departure.Seconds(-60),
		},
	}
	return []Station{
		{Name: "S Savignyplatz (Berlin)", WalkingMinutes: 5, Departures: Departures(now)},
		{Name: "S+U Warschauer Str. (Berlin)", WalkingMinutes: 4, Departures: tram},
		{Name: "Oberbaumbrücke (Berlin)", WalkingMinutes: 2},
	}
}

// Prepare limits deps to rows and makes sure the board shows a cancelled
// departure and one in the hurry zone, so a demo exercises every effect.
// The zone is [max(hurryFloor, walkingMinutes-3), walkingMinutes], as on the
// live board.
func Prepare(deps []departure.Departure, walkingMinutes, hurryFloor, rows int, now time.Time) []departure.Departure {
	out := departure.CloneAll(deps)
	if len(out) > rows {
		out = out[:rows]
	}

	hasCancelled := false
	for _, d := range out {
		hasCancelled = hasCancelled || d.Cancelled
	}
	if !hasCancelled {
		cancelled := departure.Departure{
			LineName: "RE1", Product: departure.Regional, Direction: "Frankfurt (Oder)",
			Scheduled: at(now, 15), Realtime: at(now, 15), DelaySeconds: departure.Seconds(0),
			Platform: "3", Cancelled: true,
		}
		if len(out) >= rows && len(out) > 0 {
			out[len(out)-1] = cancelled
		} else {
			out = append(out, cancelled)
		}
	}

	low := max(hurryFloor, walkingMinutes-3)
	for _, d := range out {
		if m, ok := d.MinutesUntil(now); ok && !d.Cancelled && m >= low && m <= walkingMinutes {
			return out
		}
	}
	for i := range out {
		if out[i].Cancelled {
			continue
		}
		when := at(now, max(low, walkingMinutes-1))
		out[i].Scheduled, out[i].Realtime = when, when
		out[i].DelaySeconds = departure.Seconds(0)
		break
	}
	return out
}

// Frame builds the render input for station i of a demo.
func Frame(st Station, page int, w *weather.Data, now time.Time) render.Frame {
	return render.Frame{
		Now:            now,
		Station:        st.Name,
		WalkingMinutes: st.WalkingMinutes,
		Weather:        w,
		Page:           page,
		Connected:      true,
		Departures:     st.Departures,
	}
}

// Snapshot renders st at Instant with scrolling at its start, or the empty
// page when st has no departures.
func Snapshot(r *render.Renderer, st Station, w weather.Data) *image.RGBA {
	r.ResetScroll(Instant)
	if len(st.Departures) == 0 {
		return r.RenderEmpty(Frame(st, 0, &w, Instant))
	}
	img, _ := r.Render(Frame(st, 0, &w, Instant))
	return img
}

// WritePNG encodes img into path, creating its directory.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// GIFOptions control animation playback.
type GIFOptions struct {
	// FrameDelay is the real playback time per frame.
	FrameDelay time.Duration
	// Step is the simulated time between frames.
	Step time.Duration
	// PerStation is the simulated time each station stays on screen.
	PerStation time.Duration
	// Rows > 0 passes each station through Prepare with HurryFloor.
	Rows       int
	HurryFloor int
}

func DefaultGIFOptions() GIFOptions {
	return GIFOptions{
		FrameDelay: 220 * time.Millisecond,
		Step:       150 * time.Millisecond,
		PerStation: 6 * time.Second,
		Rows:       4,
		HurryFloor: 1,
	}
}

func (o GIFOptions) prepare(st Station, now time.Time) Station {
	if o.Rows <= 0 || len(st.Departures) == 0 {
		return st
	}
	st.Departures = Prepare(st.Departures, st.WalkingMinutes, o.HurryFloor, o.Rows, now)
	return st
}

// GIF steps a simulated clock from start through every station and
// collects the frames. Each station restarts the scroll animation.
func GIF(r *render.Renderer, stations []Station, w *weather.Data, start time.Time, opts GIFOptions) (*gif.GIF, error) {
	if opts.Step <= 0 || opts.PerStation <= 0 {
		return nil, fmt.Errorf("demo: step and per-station duration must be positive")
	}
	palette := amberPalette()
	delay := max(1, int(opts.FrameDelay/(10*time.Millisecond)))

	out := &gif.GIF{LoopCount: 0}
	now := start
	for i, st := range stations {
		r.ResetScroll(now)
		stationStart := now
		st = opts.prepare(st, now)
		for now.Sub(stationStart) < opts.PerStation {
			f := Frame(st, i, w, now)
			var img *image.RGBA
			if len(st.Departures) > 0 {
				img, _ = r.Render(f)
			} else {
				img = r.RenderEmpty(f)
			}
			out.Image = append(out.Image, toPaletted(img, palette))
			out.Delay = append(out.Delay, delay)
			now = now.Add(opts.Step)
		}
	}
	if len(out.Image) == 0 {
		return nil, fmt.Errorf("demo: no frames")
	}
	return out, nil
}

func EncodeGIF(w io.Writer, g *gif.GIF) error {
	return gif.EncodeAll(w, g)
}

// amberPalette holds the 256 shades between background and foreground,
// which covers every anti-aliased pixel the board draws.
func amberPalette() color.Palette {
	bg, fg := render.Background, render.Foreground
	p := make(color.Palette, 256)
	for i := range p {
		mix := func(a, b uint8) uint8 { return uint8((int(a)*(255-i) + int(b)*i) / 255) }
		p[i] = color.RGBA{R: mix(bg.R, fg.R), G: mix(bg.G, fg.G), B: mix(bg.B, fg.B), A: 0xFF}
	}
	return p
}

func toPaletted(img image.Image, p color.Palette) *image.Paletted {
	out := image.NewPaletted(img.Bounds(), p)
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
