package render

import (
	"image"
	"image/draw"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ydixken/abfahrt/internal/departure"
	"github.com/ydixken/abfahrt/internal/render/layout"
	"github.com/ydixken/abfahrt/internal/weather"
	"golang.org/x/image/font"
)

var (
	ErrInvalidSize = layout.ErrInvalidSize
	ErrNoRows      = layout.ErrNoRows
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

// Options configure a Renderer. Changing any of them means building a new one.
type Options struct {
	Width       int
	Height      int
	Rows        int
	ShowRemarks bool
	Fonts       FontFiles
	Sizes       layout.Sizes
	Timing      Timing
	Labels      Labels
	// HurryFloor is the lowest minute count that can hurry-blink (0 or 1).
	HurryFloor int
	// Location formats clock and departure times. Defaults to time.Local.
	Location *time.Location
	Logger   Logger
}

// DefaultOptions returns the desktop window setup.
func DefaultOptions() Options {
	return Options{
		Width:       1520,
		Height:      180,
		Rows:        4,
		ShowRemarks: true,
		Fonts:       DefaultFontFiles(),
		Sizes:       layout.DefaultSizes(),
		Timing:      LiveTiming(),
		Labels:      GermanLabels(),
		HurryFloor:  1,
	}
}

// Frame is everything that changes between two renders.
type Frame struct {
	Now            time.Time
	Station        string
	WalkingMinutes int
	Weather        *weather.Data
	// Page alternates the weather view between temperature and precipitation.
	Page      int
	Connected bool
	// Departures are drawn top to bottom; entries beyond the row count are ignored.
	Departures []departure.Departure
	// LineFilter names the configured lines for the empty page.
	LineFilter []string
}

type faces struct {
	station   font.Face
	info      font.Face
	departure font.Face
	line      font.Face
	remark    font.Face
	small     font.Face

	// static pages
	message    font.Face
	bootTitle  font.Face
	bootStatus font.Face
}

// Renderer draws departure boards. Fonts and geometry are fixed at
// construction; the scroll epoch is the only state that changes afterwards.
type Renderer struct {
	opts  Options
	board layout.Board
	tf    typefaces
	faces faces

	// mu serializes drawing since font faces keep internal buffers.
	mu          sync.Mutex
	scrollEpoch atomic.Int64
}

// NewRenderer validates opts, computes the layout and loads all fonts once.
func NewRenderer(opts Options) (*Renderer, error) {
	board, err := layout.Compute(opts.Width, opts.Height, opts.Rows, opts.Sizes)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Timing == (Timing{}) {
		opts.Timing = LiveTiming()
	}
	if opts.Labels == (Labels{}) {
		opts.Labels = GermanLabels()
	}
	if opts.Fonts.Header == nil && opts.Fonts.Main == nil && opts.Fonts.Remark == nil {
		opts.Fonts = DefaultFontFiles()
	}

	r := &Renderer{opts: opts, board: board}
	r.tf = parseTypefaces(opts.Fonts, opts.Logger)
	r.faces = faces{
		station:   faceOrFallback(r.tf.station, board.StationNameSize, opts.Logger),
		info:      faceOrFallback(r.tf.header, board.InfoSize, opts.Logger),
		departure: faceOrFallback(r.tf.main, board.DepartureSize, opts.Logger),
		line:      faceOrFallback(r.tf.header, board.DepartureSize, opts.Logger),
		remark:    faceOrFallback(r.tf.remark, board.DepartureSize, opts.Logger),
		small:     faceOrFallback(r.tf.remark, board.RemarkSize, opts.Logger),

		message:    faceOrFallback(r.tf.header, max(6, board.Height/6), opts.Logger),
		bootTitle:  faceOrFallback(r.tf.header, max(6, board.Height*40/100), opts.Logger),
		bootStatus: faceOrFallback(r.tf.header, max(6, board.Height*15/100), opts.Logger),
	}
	r.ResetScroll(time.Now())
	opts.Logger.Infof("render", "board %dx%d rows=%d row_height=%d departure_font=%dpx",
		board.Width, board.Height, board.Rows, board.RowHeight, board.DepartureSize)
	return r, nil
}

// Board exposes the computed geometry.
func (r *Renderer) Board() layout.Board { return r.board }

// Size returns the canvas size.
func (r *Renderer) Size() (width int, height int) { return r.board.Width, r.board.Height }

// Labels returns the strings the board draws.
func (r *Renderer) Labels() Labels { return r.opts.Labels }

// Timing returns the animation parameters in use.
func (r *Renderer) Timing() Timing { return r.opts.Timing }

// ResetScroll restarts every scrolling element from its initial hold at t.
func (r *Renderer) ResetScroll(t time.Time) { r.scrollEpoch.Store(t.UnixNano()) }

// ScrollEpoch returns the instant scrolling was last reset.
func (r *Renderer) ScrollEpoch() time.Time { return time.Unix(0, r.scrollEpoch.Load()) }

// Render draws the board for f. done reports whether every scrolling remark
// has completed at least one cycle; it is true when nothing scrolls.
func (r *Renderer) Render(f Frame) (img *image.RGBA, done bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	img = r.newCanvas()
	r.drawHeader(img, f)

	b := r.board
	fillRect(img, image.Rect(b.SeparatorX, b.FirstRowY, b.SeparatorX+1, b.Height), Foreground)

	elapsed := f.Now.Sub(r.ScrollEpoch())
	done = true
	for i, dep := range f.Departures {
		if i >= b.Rows {
			break
		}
		if !r.drawRow(img, dep, b.RowY(i), f, elapsed) {
			done = false
		}
	}
	return img, done
}

// RenderEmpty draws the header and a centered "no departures" message, naming
// the configured lines when a line filter is active.
func (r *Renderer) RenderEmpty(f Frame) *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()

	img := r.newCanvas()
	r.drawHeader(img, f)

	msg := r.opts.Labels.NoDepartures
	if len(f.LineFilter) > 0 {
		msg += ": " + strings.Join(f.LineFilter, " / ")
	}
	body := r.board.Body()
	face := r.faces.departure
	msg = Truncate(face, msg, r.board.Width-2*r.board.Pad)
	x := (r.board.Width - TextWidth(face, msg)) / 2
	drawTextMiddle(img, face, x, body.Min.Y+body.Dy()/2, msg, Foreground)
	return img
}

func (r *Renderer) newCanvas() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.board.Width, r.board.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
	return img
}
