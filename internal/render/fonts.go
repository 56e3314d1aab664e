package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/ydixken/abfahrt/internal/assets"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// FontFiles holds raw font data per role. StationName is optional and falls
// back to Header.
type FontFiles struct {
	Header      []byte
	Main        []byte
	Remark      []byte
	StationName []byte
}

// DefaultFontFiles returns the embedded monospace fonts.
func DefaultFontFiles() FontFiles {
	return FontFiles{Header: assets.BoldFont, Main: assets.RegularFont, Remark: assets.RegularFont}
}

// ReadFontFiles loads fonts from dir. Empty names keep the embedded default for
// that role. The station name uses the ExtraBold sibling of the header font
// when one exists.
func ReadFontFiles(dir, header, main, remark string) (FontFiles, error) {
	files := DefaultFontFiles()
	var err error
	if header != "" {
		if files.Header, err = os.ReadFile(filepath.Join(dir, header)); err != nil {
			return FontFiles{}, fmt.Errorf("read header font: %w", err)
		}
		if strings.Contains(header, "Bold") {
			extra := strings.Replace(header, "Bold", "ExtraBold", 1)
			if data, xerr := os.ReadFile(filepath.Join(dir, extra)); xerr == nil {
				files.StationName = data
			}
		}
	}
	if main != "" {
		if files.Main, err = os.ReadFile(filepath.Join(dir, main)); err != nil {
			return FontFiles{}, fmt.Errorf("read main font: %w", err)
		}
	}
	if remark != "" {
		if files.Remark, err = os.ReadFile(filepath.Join(dir, remark)); err != nil {
			return FontFiles{}, fmt.Errorf("read remark font: %w", err)
		}
	}
	return files, nil
}

// typeface is a parsed font that can produce faces at any pixel size.
type typeface struct {
	otf *opentype.Font
	ttf *truetype.Font
}

var errNoFontData = errors.New("no font data")

// parseTypeface tries OpenType first and the freetype parser second.
func parseTypeface(data []byte) (*typeface, error) {
	if len(data) == 0 {
		return nil, errNoFontData
	}
	otf, err := opentype.Parse(data)
	if err == nil {
		return &typeface{otf: otf}, nil
	}
	ttf, terr := truetype.Parse(data)
	if terr != nil {
		return nil, fmt.Errorf("opentype: %v; truetype: %w", err, terr)
	}
	return &typeface{ttf: ttf}, nil
}

// face returns a face where size is in pixels (72 DPI).
func (t *typeface) face(size int) (font.Face, error) {
	switch {
	case t == nil:
		return basicfont.Face7x13, errNoFontData
	case t.otf != nil:
		return opentype.NewFace(t.otf, &opentype.FaceOptions{Size: float64(size), DPI: 72, Hinting: font.HintingFull})
	default:
		return truetype.NewFace(t.ttf, &truetype.Options{Size: float64(size), DPI: 72, Hinting: font.HintingFull}), nil
	}
}

// typefaces is the parsed set of fonts a renderer draws with.
type typefaces struct {
	header, main, remark, station *typeface
}

func parseTypefaces(files FontFiles, logger Logger) typefaces {
	parse := func(role string, data []byte) *typeface {
		tf, err := parseTypeface(data)
		if err != nil {
			logger.Errorf("render", "%s font parse failed, using basicfont: %v", role, err)
			return nil
		}
		return tf
	}
	set := typefaces{
		header: parse("header", files.Header),
		main:   parse("main", files.Main),
		remark: parse("remark", files.Remark),
	}
	set.station = set.header
	if len(files.StationName) > 0 {
		if tf, err := parseTypeface(files.StationName); err == nil {
			set.station = tf
		}
	}
	return set
}

// faceOrFallback never fails; a broken typeface yields basicfont.
func faceOrFallback(tf *typeface, size int, logger Logger) font.Face {
	if tf == nil {
		return basicfont.Face7x13
	}
	f, err := tf.face(size)
	if err != nil {
		logger.Errorf("render", "font face create failed at %dpx, using basicfont: %v", size, err)
		return basicfont.Face7x13
	}
	return f
}
