package render

import "time"

// BlinkOn reports whether a periodic toggle is in its first half at now.
// The phase is anchored at the Unix epoch so independent callers agree.
func BlinkOn(now time.Time, period time.Duration) bool {
	if period <= 0 {
		return true
	}
	phase := now.UnixNano() % int64(period)
	if phase < 0 {
		phase += int64(period)
	}
	return phase < int64(period)/2
}

// ScrollOffset computes the crop offset of a text strip textW wide shown in a
// column colW wide, elapsed after the scroll epoch. The strip holds still for
// pause, moves at speed px/s until its end is visible, then holds again.
// done is true once the full hold-move-hold cycle has passed.
func ScrollOffset(textW, colW int, speed float64, pause, elapsed time.Duration) (offset int, done bool) {
	distance := textW - colW
	if distance <= 0 || speed <= 0 {
		return 0, true
	}
	t := elapsed.Seconds()
	p := pause.Seconds()
	duration := float64(distance) / speed
	cycle := 2*p + duration

	switch {
	case t < p:
		offset = 0
	case t < p+duration:
		offset = int((t - p) * speed)
	default:
		offset = distance
	}
	if offset < 0 {
		offset = 0
	}
	if offset > distance {
		offset = distance
	}
	return offset, t >= cycle
}
