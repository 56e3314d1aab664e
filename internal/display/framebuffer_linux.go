//go:build linux

package display

import (
	"image"
	"image/draw"

	fb "github.com/gonutz/framebuffer"
	"github.com/ydixken/abfahrt/internal/system"
	xdraw "golang.org/x/image/draw"
)

// Framebuffer draws onto a Linux framebuffer device, letterboxed and scaled
// with nearest neighbor sampling. The console is kept in graphics mode while
// open so the cursor does not blink over the board.
type Framebuffer struct {
	dev     *fb.Device
	logger  Logger
	lastSrc image.Rectangle
	target  image.Rectangle
}

func OpenFramebuffer(path string, logger Logger) (*Framebuffer, error) {
	if path == "" {
		path = "/dev/fb0"
	}
	dev, err := fb.Open(path)
	if err != nil {
		return nil, err
	}
	bounds := dev.Bounds()
	if logger != nil {
		logger.Infof("fb", "framebuffer %s open, bounds=%dx%d", path, bounds.Dx(), bounds.Dy())
	}
	_ = system.SetGraphicsModeWithLog(logger)
	_ = system.HideCursorWithLog(logger)
	return &Framebuffer{dev: dev, logger: logger}, nil
}

func (f *Framebuffer) Update(img image.Image) error {
	src := img.Bounds()
	if src != f.lastSrc {
		// Clear the letterbox bars once per source size.
		draw.Draw(f.dev, f.dev.Bounds(), image.NewUniform(black), image.Point{}, draw.Src)
		f.target = fitRect(f.dev.Bounds(), src)
		f.lastSrc = src
	}
	xdraw.NearestNeighbor.Scale(f.dev, f.target, img, src, draw.Src, nil)
	return nil
}

func (f *Framebuffer) Close() error {
	_ = system.ShowCursorWithLog(f.logger)
	_ = system.RestoreTextModeWithLog(f.logger)
	f.dev.Close()
	return nil
}
