package render

import (
	"fmt"
	"image"
	"image/draw"
	"strconv"
	"strings"
	"time"

	"github.com/ydixken/abfahrt/internal/departure"
)

// minutesBlock is the right-aligned "12+2m" group of a row.
type minutesBlock struct {
	num, delay, unit    string
	numX, delayX, unitX int
	slotX               int
}

// inHurryZone reports whether a departure is catchable but only just.
func (r *Renderer) inHurryZone(dep departure.Departure, now time.Time, walking int) bool {
	if dep.Cancelled {
		return false
	}
	minutes, ok := dep.MinutesUntil(now)
	if !ok {
		return false
	}
	low := max(r.opts.HurryFloor, walking-3)
	return minutes >= low && minutes <= walking
}

// timeColumnX is where the HH:MM column starts. It sits at its fractional
// position unless the minutes block needs it pushed further right.
func (r *Renderer) timeColumnX() int {
	face := r.faces.departure
	b := r.board
	right := b.Width - b.Pad
	minutesW := TextWidth(face, "00") + TextWidth(face, "+00") + TextWidth(face, r.opts.Labels.MinuteSuffix)
	derived := right - minutesW - b.Pad - TextWidth(face, "00:00")
	return max(b.TimeX, derived)
}

// drawRow draws one departure at y and reports whether its scrolling is done.
func (r *Renderer) drawRow(img *image.RGBA, dep departure.Departure, y int, f Frame, elapsed time.Duration) bool {
	b := r.board
	face := r.faces.departure
	period := r.opts.Timing.BlinkPeriod
	blinkOn := r.inHurryZone(dep, f.Now, f.WalkingMinutes) && BlinkOn(f.Now, period)

	timeX := r.timeColumnX()
	drawText(img, r.faces.line, b.LineX, y, Truncate(r.faces.line, dep.LineName, b.DestX-b.LineX-b.Pad), Foreground)

	destW := timeX - b.DestX - b.Pad
	remarksW := 0
	if r.opts.ShowRemarks {
		destW = b.RemarksX - b.DestX - b.Pad
		remarksW = timeX - b.RemarksX - b.Pad
	}

	dest := Truncate(face, dep.Direction, destW)
	if dep.Cancelled && !BlinkOn(f.Now, period) {
		dest = Truncate(face, r.opts.Labels.Cancelled, destW)
	}
	drawText(img, face, b.DestX, y, dest, Foreground)

	done := true
	if r.opts.ShowRemarks && len(dep.Remarks) > 0 && remarksW > 20 {
		done = r.drawScrolling(img, strings.Join(dep.Remarks, ", "), b.RemarksX, y, remarksW, elapsed)
	}

	clock := placeholderTime
	if at, ok := dep.EffectiveTime(); ok {
		clock = at.In(r.opts.Location).Format("15:04")
	}
	mb := r.layoutMinutes(dep, f.Now, timeX)

	fg := Foreground
	if blinkOn {
		m := b.BlinkMargin
		fillRect(img, inkBounds(face, timeX, y, clock).Inset(-m), Foreground)
		full := inkBounds(face, mb.numX, y, mb.num+mb.delay+mb.unit)
		fillRect(img, image.Rect(mb.slotX-m, full.Min.Y-m, b.Width-b.Pad+m, full.Max.Y+m), Foreground)
		fg = Background
	}
	drawText(img, face, timeX, y, clock, fg)
	drawText(img, face, mb.numX, y, mb.num, fg)
	drawText(img, face, mb.delayX, y, mb.delay, fg)
	drawText(img, face, mb.unitX, y, mb.unit, fg)
	return done
}

// layoutMinutes anchors the minutes block right to left against the right
// edge and keeps a two digit slot for the number so columns line up.
func (r *Renderer) layoutMinutes(dep departure.Departure, now time.Time, timeX int) minutesBlock {
	face := r.faces.departure
	b := r.board

	mb := minutesBlock{num: placeholderMinutes, unit: r.opts.Labels.MinuteSuffix}
	if minutes, ok := dep.MinutesUntil(now); ok {
		mb.num = strconv.Itoa(minutes)
	}
	if delay := dep.DelayMinutes(); delay != 0 {
		mb.delay = fmt.Sprintf("%+d", delay)
	}

	right := b.Width - b.Pad
	mb.unitX = right - TextWidth(face, mb.unit)
	mb.delayX = mb.unitX - TextWidth(face, mb.delay)
	mb.numX = mb.delayX - TextWidth(face, mb.num)
	mb.slotX = mb.delayX - TextWidth(face, "00")

	timeEnd := timeX + TextWidth(face, "00:00") + b.Pad
	if left := min(mb.slotX, mb.numX); left < timeEnd {
		shift := timeEnd - left
		mb.slotX += shift
		mb.numX += shift
		mb.delayX += shift
		mb.unitX += shift
	}
	return mb
}

// drawScrolling draws text into a column colW wide, scrolling it when it
// overflows. It reports whether the text fits or finished a full cycle.
func (r *Renderer) drawScrolling(img *image.RGBA, text string, x, y, colW int, elapsed time.Duration) bool {
	face := r.faces.remark
	textW := TextWidth(face, text)
	if textW <= colW {
		drawText(img, face, x, y, text, Foreground)
		return true
	}

	t := r.opts.Timing
	offset, done := ScrollOffset(textW, colW, t.ScrollSpeed, t.ScrollPause, elapsed)

	rowH := r.board.RowHeight
	strip := image.NewRGBA(image.Rect(0, 0, textW, rowH))
	draw.Draw(strip, strip.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
	drawText(strip, face, 0, 0, text, Foreground)

	dst := image.Rect(x, y, x+colW, y+rowH)
	draw.Draw(img, dst, strip, image.Point{X: offset}, draw.Src)
	return done
}
