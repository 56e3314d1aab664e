package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// drawHeader fills the top bar: clock on the left, status dot and weather on
// the right, station name in the middle.
func (r *Renderer) drawHeader(img *image.RGBA, f Frame) {
	b := r.board
	fillRect(img, b.Header(), Foreground)
	cy := b.HeaderHeight / 2

	drawTextMiddle(img, r.faces.info, b.Margin, cy, f.Now.In(r.opts.Location).Format("15:04"), Background)

	dotX := b.Width - b.Margin - b.DotRadius
	if !f.Connected && BlinkOn(f.Now, r.opts.Timing.BlinkPeriod) {
		fillCircle(img, dotX, cy, b.DotRadius, Background)
	}

	if text := weatherText(f); text != "" {
		right := dotX - b.DotRadius - b.DotGap
		drawTextMiddle(img, r.faces.info, right-TextWidth(r.faces.info, text), cy, text, Background)
	}

	name := Truncate(r.faces.station, f.Station, b.Width-b.TitleMargin)
	if name != "" {
		x := (b.Width - TextWidth(r.faces.station, name)) / 2
		drawTextMiddle(img, r.faces.station, x, cy, name, Background)
	}
}

// weatherText shows temperatures, or precipitation on odd pages when any is
// expected.
func weatherText(f Frame) string {
	w := f.Weather
	if w == nil {
		return ""
	}
	if f.Page%2 == 1 {
		if precip := w.PrecipSummary(); precip != "" {
			return precip
		}
	}
	return fmt.Sprintf("%.0f° %.0f/%.0f°", w.CurrentTemp, w.DailyLow, w.DailyHigh)
}

// fillCircle rasterizes a filled disc as a polygon.
func fillCircle(img *image.RGBA, cx, cy, radius int, c color.Color) {
	if radius <= 0 {
		return
	}
	size := 2*radius + 2
	z := vector.NewRasterizer(size, size)
	const segments = 32
	center := float32(size) / 2
	for i := 0; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		px := center + float32(float64(radius)*math.Cos(a))
		py := center + float32(float64(radius)*math.Sin(a))
		if i == 0 {
			z.MoveTo(px, py)
		} else {
			z.LineTo(px, py)
		}
	}
	z.ClosePath()
	origin := image.Pt(cx-size/2, cy-size/2)
	z.Draw(img, image.Rectangle{Min: origin, Max: origin.Add(image.Pt(size, size))}, image.NewUniform(c), image.Point{})
}
