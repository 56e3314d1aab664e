package render

import (
	"image"
	"image/draw"

	"github.com/ydixken/abfahrt/internal/render/layout"
	xdraw "golang.org/x/image/draw"
)

// RenderError draws a single centered message.
func (r *Renderer) RenderError(message string) *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()

	img := r.newCanvas()
	face := r.faces.message
	msg := Truncate(face, message, r.board.Width-2*r.board.Pad)
	x := (r.board.Width - TextWidth(face, msg)) / 2
	drawTextMiddle(img, face, x, r.board.Height/2, msg, Foreground)
	return img
}

// RenderBoot draws the splash shown while starting: title, status line,
// version bottom right, project URL bottom left and, on tall enough canvases,
// a QR code of the URL on the right.
func (r *Renderer) RenderBoot(status, version string) *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.board
	img := r.newCanvas()
	area := image.Rect(0, 0, b.Width, b.Height)

	if b.Height >= 96 {
		square := layout.FitSquare(layout.Inset(area, b.Pad))
		if qr, err := QRCodeImage("https://"+ProjectURL, square.Dx()); err == nil && qr != nil {
			xdraw.NearestNeighbor.Scale(img, square, qr, qr.Bounds(), draw.Src, nil)
			area, _ = layout.SplitVertical(area, square.Min.X-b.Pad)
		} else if err != nil {
			r.opts.Logger.Errorf("render", "boot qr code: %v", err)
		}
	}

	title := r.faces.bootTitle
	line := Truncate(title, r.opts.Labels.BootTitle, area.Dx()-2*b.Pad)
	drawTextMiddle(img, title, area.Min.X+(area.Dx()-TextWidth(title, line))/2, b.Height*35/100, line, Foreground)

	statusFace := r.faces.bootStatus
	line = Truncate(statusFace, status, area.Dx()-2*b.Pad)
	drawTextMiddle(img, statusFace, area.Min.X+(area.Dx()-TextWidth(statusFace, line))/2, b.Height*68/100, line, Foreground)

	small := r.faces.small
	bottom := b.Height - b.Margin - small.Metrics().Height.Ceil()
	drawText(img, small, b.Margin, bottom, Truncate(small, ProjectURL, area.Dx()/2), Foreground)
	if version != "" {
		v := "v" + version
		drawText(img, small, area.Max.X-b.Margin-TextWidth(small, v), bottom, v, Foreground)
	}
	return img
}
