//go:build !linux

package display

import (
	"errors"
	"image"
)

var errNoFramebuffer = errors.New("framebuffer display is only available on linux")

type Framebuffer struct{}

func OpenFramebuffer(path string, logger Logger) (*Framebuffer, error) {
	return nil, errNoFramebuffer
}

func (f *Framebuffer) Update(img image.Image) error { return errNoFramebuffer }
func (f *Framebuffer) Close() error                 { return nil }
