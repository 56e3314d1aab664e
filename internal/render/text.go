package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// TextWidth is the advance width of text in whole pixels.
func TextWidth(face font.Face, text string) int {
	if text == "" {
		return 0
	}
	return font.MeasureString(face, text).Ceil()
}

// Truncate shortens text until it fits maxWidth, appending Ellipsis. When not
// even one character fits, the bare Ellipsis is returned.
func Truncate(face font.Face, text string, maxWidth int) string {
	if text == "" {
		return ""
	}
	if TextWidth(face, text) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for end := len(runes); end > 0; end-- {
		candidate := string(runes[:end]) + Ellipsis
		if TextWidth(face, candidate) <= maxWidth {
			return candidate
		}
	}
	return Ellipsis
}

// drawText draws text with its ascent line at top.
func drawText(dst draw.Image, face font.Face, x, top int, text string, c color.Color) {
	if text == "" {
		return
	}
	d := font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	d.Dot = fixed.P(x, top+face.Metrics().Ascent.Ceil())
	d.DrawString(text)
}

// middleBaseline returns the baseline that vertically centers glyphs on cy.
func middleBaseline(face font.Face, cy int) int {
	m := face.Metrics()
	return cy + (m.Ascent.Ceil()-m.Descent.Ceil())/2
}

// drawTextMiddle draws text vertically centered on cy, starting at x.
func drawTextMiddle(dst draw.Image, face font.Face, x, cy int, text string, c color.Color) {
	if text == "" {
		return
	}
	d := font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	d.Dot = fixed.P(x, middleBaseline(face, cy))
	d.DrawString(text)
}

// inkBounds returns the tight pixel bounds of text drawn with its ascent
// line at (x, top).
func inkBounds(face font.Face, x, top int, text string) image.Rectangle {
	b, _ := font.BoundString(face, text)
	baseline := top + face.Metrics().Ascent.Ceil()
	return image.Rect(x+b.Min.X.Floor(), baseline+b.Min.Y.Floor(), x+b.Max.X.Ceil(), baseline+b.Max.Y.Ceil())
}

func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}
