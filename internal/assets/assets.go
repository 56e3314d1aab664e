// Package assets provides the fonts bundled with the binary.
package assets

import (
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
)

// Default typefaces used when no font files are configured.
var (
	RegularFont = gomono.TTF
	BoldFont    = gomonobold.TTF
)
