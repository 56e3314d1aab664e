// Package display presents rendered frames on a physical or virtual screen.
package display

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Display shows frames. Update is called from the render loop only.
type Display interface {
	Update(img image.Image) error
	Close() error
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Modes accepted by Open.
const (
	ModeFramebuffer = "framebuffer"
	ModeSSD1322     = "ssd1322"
	ModePNG         = "png"
)

// Config selects and parameterizes a backend.
type Config struct {
	Mode   string
	Width  int
	Height int

	// Framebuffer device, e.g. /dev/fb0.
	Device string
	// PNGPath is the file the png backend rewrites on every frame.
	PNGPath string

	SSD1322 SSD1322Config
}

// Open creates the backend named by cfg.Mode.
func Open(cfg Config, logger Logger) (Display, error) {
	switch cfg.Mode {
	case ModeFramebuffer, "":
		return OpenFramebuffer(cfg.Device, logger)
	case ModeSSD1322:
		return OpenSSD1322(cfg.SSD1322, cfg.Width, cfg.Height, logger)
	case ModePNG:
		return NewPNGFile(cfg.PNGPath), nil
	}
	return nil, fmt.Errorf("unknown display mode %q", cfg.Mode)
}

// Grayscale converts img to 8-bit luma, scaled to w x h with nearest neighbor
// sampling when the sizes differ.
func Grayscale(img image.Image, w, h int) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, w, h))
	src := img.Bounds()
	if src.Dx() == w && src.Dy() == h {
		draw.Draw(out, out.Bounds(), img, src.Min, draw.Src)
		return out
	}
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), img, src, draw.Src, nil)
	return out
}

// fitRect returns the largest rectangle with src's aspect ratio centered in dst.
func fitRect(dst image.Rectangle, src image.Rectangle) image.Rectangle {
	dw, dh := dst.Dx(), dst.Dy()
	sw, sh := src.Dx(), src.Dy()
	if sw <= 0 || sh <= 0 || dw <= 0 || dh <= 0 {
		return image.Rectangle{}
	}
	w, h := dw, dw*sh/sw
	if h > dh {
		w, h = dh*sw/sh, dh
	}
	x := dst.Min.X + (dw-w)/2
	y := dst.Min.Y + (dh-h)/2
	return image.Rect(x, y, x+w, y+h)
}

var black = color.RGBA{A: 0xFF}
