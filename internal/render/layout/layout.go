package layout

import (
	"errors"
	"image"
	"math"
)

// ReferenceHeight is the canvas height at which base sizes apply unscaled.
const ReferenceHeight = 128

// Column positions as fractions of the canvas width.
const (
	ColLine       = 0.02
	ColSeparator  = 0.14
	ColDest       = 0.16
	ColRemarks    = 0.58
	ColTime       = 0.73
	ColMinutesEnd = 0.98
)

var (
	ErrInvalidSize = errors.New("layout: canvas width and height must be positive")
	ErrNoRows      = errors.New("layout: row count must be at least 1")
)

// Sizes are base font sizes in pixels at ReferenceHeight.
type Sizes struct {
	StationName int
	Header      int
	Departure   int
	Remark      int
}

func DefaultSizes() Sizes {
	return Sizes{StationName: 20, Header: 13, Departure: 18, Remark: 13}
}

// Board is the resolved geometry of a departure board.
type Board struct {
	Width  int
	Height int
	Rows   int
	Scale  float64

	// Pad is the generic gap between columns and at the right edge.
	Pad int
	// Margin insets the clock and status dot inside the header bar.
	Margin int

	StationNameSize int
	InfoSize        int
	DepartureSize   int
	RemarkSize      int

	// HeaderHeight is the height of the filled station name bar.
	HeaderHeight int
	FirstRowY    int
	RowPad       int
	RowHeight    int

	DotRadius   int
	DotGap      int
	TitleMargin int
	BlinkMargin int

	LineX        int
	SeparatorX   int
	DestX        int
	RemarksX     int
	TimeX        int
	MinutesRight int
}

// Compute derives the board geometry for a canvas and row count. Departure
// font size is solved so that rows fill the space below the header.
func Compute(width, height, rows int, sizes Sizes) (Board, error) {
	if width <= 0 || height <= 0 {
		return Board{}, ErrInvalidSize
	}
	if rows < 1 {
		return Board{}, ErrNoRows
	}
	if sizes == (Sizes{}) {
		sizes = DefaultSizes()
	}

	scale := float64(height) / ReferenceHeight
	b := Board{Width: width, Height: height, Rows: rows, Scale: scale}

	b.StationNameSize = fontSize(sizes.StationName, scale)
	headerSize := fontSize(sizes.Header, scale)
	b.RemarkSize = fontSize(sizes.Remark, scale)
	b.InfoSize = max(6, (headerSize+b.StationNameSize)/2)

	b.Pad = Scaled(8, scale)
	b.Margin = Scaled(4, scale)
	b.HeaderHeight = b.StationNameSize + Scaled(8, scale)
	b.FirstRowY = b.HeaderHeight + Scaled(2, scale)
	b.RowPad = Scaled(4, scale)

	available := height - b.FirstRowY
	b.DepartureSize = max(6, int(math.Floor(float64(available)/float64(rows)-float64(b.RowPad))))
	b.RowHeight = b.DepartureSize + b.RowPad

	// Tiny canvases cannot honour the minimum sizes; shrink rows (and the
	// header if needed) so nothing is drawn below the canvas.
	if b.FirstRowY > height {
		b.FirstRowY = height
		b.HeaderHeight = min(b.HeaderHeight, height)
	}
	if b.FirstRowY+rows*b.RowHeight > height {
		b.RowHeight = (height - b.FirstRowY) / rows
	}

	b.DotRadius = Scaled(3, scale)
	b.DotGap = Scaled(4, scale)
	b.TitleMargin = max(10, round(20*scale))
	b.BlinkMargin = max(1, round(2*scale))

	b.LineX = Frac(width, ColLine)
	b.SeparatorX = Frac(width, ColSeparator)
	b.DestX = Frac(width, ColDest)
	b.RemarksX = Frac(width, ColRemarks)
	b.TimeX = Frac(width, ColTime)
	b.MinutesRight = Frac(width, ColMinutesEnd)
	return b, nil
}

// Body is the area below the header where rows or messages go.
func (b Board) Body() image.Rectangle {
	_, body := SplitHorizontal(image.Rect(0, 0, b.Width, b.Height), b.FirstRowY)
	return body
}

// Header is the filled station name bar.
func (b Board) Header() image.Rectangle {
	top, _ := SplitHorizontal(image.Rect(0, 0, b.Width, b.Height), b.HeaderHeight)
	return top
}

// RowY is the top of row i.
func (b Board) RowY(i int) int { return b.FirstRowY + i*b.RowHeight }

// Scaled applies scale to a base pixel length and never returns less than 2.
func Scaled(base int, scale float64) int {
	return max(2, round(float64(base)*scale))
}

// Frac returns the integer x coordinate at fraction f of width.
func Frac(width int, f float64) int { return int(float64(width) * f) }

func fontSize(base int, scale float64) int {
	return max(6, round(float64(base)*scale))
}

func round(v float64) int { return int(math.RoundToEven(v)) }

// SplitHorizontal splits rect into top and bottom parts.
// topHeightPx is clamped to [0, rect.Dy()].
func SplitHorizontal(rect image.Rectangle, topHeightPx int) (top image.Rectangle, bottom image.Rectangle) {
	rect = Normalize(rect)
	height := rect.Dy()
	if topHeightPx < 0 {
		topHeightPx = 0
	}
	if topHeightPx > height {
		topHeightPx = height
	}
	top = image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+topHeightPx)
	bottom = image.Rect(rect.Min.X, rect.Min.Y+topHeightPx, rect.Max.X, rect.Max.Y)
	return top, bottom
}

// SplitVertical splits rect into left and right parts.
// leftWidthPx is clamped to [0, rect.Dx()].
func SplitVertical(rect image.Rectangle, leftWidthPx int) (left image.Rectangle, right image.Rectangle) {
	rect = Normalize(rect)
	width := rect.Dx()
	if leftWidthPx < 0 {
		leftWidthPx = 0
	}
	if leftWidthPx > width {
		leftWidthPx = width
	}
	left = image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+leftWidthPx, rect.Max.Y)
	right = image.Rect(rect.Min.X+leftWidthPx, rect.Min.Y, rect.Max.X, rect.Max.Y)
	return left, right
}

// Inset shrinks rect by paddingPx on all sides.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	if paddingPx <= 0 {
		return rect
	}
	out := image.Rect(rect.Min.X+paddingPx, rect.Min.Y+paddingPx, rect.Max.X-paddingPx, rect.Max.Y-paddingPx)
	return Normalize(out)
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// FitSquare returns the largest square that fits into rect, anchored at the right edge
// and centered vertically.
func FitSquare(rect image.Rectangle) image.Rectangle {
	rect = Normalize(rect)
	size := min(rect.Dx(), rect.Dy())
	top := rect.Min.Y + (rect.Dy()-size)/2
	return image.Rect(rect.Max.X-size, top, rect.Max.X, top+size)
}
