package render

import (
	"image"

	"github.com/skip2/go-qrcode"
)

// QRCodeImage returns a QR code for payload at most sizePx square, drawn in
// board colors. Empty payloads or sizes too small to scan return nil.
func QRCodeImage(payload string, sizePx int) (image.Image, error) {
	if payload == "" || sizePx <= 0 {
		return nil, nil
	}
	code, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	code.DisableBorder = true
	code.ForegroundColor = Background
	code.BackgroundColor = Foreground
	modules := len(code.Bitmap())
	if sizePx < modules {
		return nil, nil
	}
	return code.Image(sizePx), nil
}
