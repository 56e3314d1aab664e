package display

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// PNGFile rewrites a PNG file with every frame. The file is replaced
// atomically so readers never see a partial image.
type PNGFile struct {
	Path string
}

func NewPNGFile(path string) *PNGFile {
	if path == "" {
		path = "abfahrt.png"
	}
	return &PNGFile{Path: path}
}

func (p *PNGFile) Update(img image.Image) error {
	return WritePNG(p.Path, img)
}

func (p *PNGFile) Close() error { return nil }

// WritePNG encodes img to path through a temporary file in the same directory.
func WritePNG(path string, img image.Image) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".frame-*.png")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := png.Encode(tmp, img); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
