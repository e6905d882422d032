package gesture

import "github.com/san-kum/spinbottle/internal/angle"

// Unset marks a sample slot that has not been filled since the last reset.
const Unset int64 = -1

// Sample is one pointer observation, already converted to a disc angle.
type Sample struct {
	Angle  float64
	Millis int64
}

func (s Sample) Valid() bool { return s.Millis != Unset }

// Estimate returns the angular velocity in degrees per millisecond between two
// samples, taking the short way around the circle. It reports false when the
// former sample is unset or time did not move forward; callers treat that as
// zero velocity and skip the toss.
func Estimate(former, succeeding Sample) (float64, bool) {
	if !former.Valid() || !succeeding.Valid() {
		return 0, false
	}
	elapsed := succeeding.Millis - former.Millis
	if elapsed <= 0 {
		return 0, false
	}
	return angle.Delta(former.Angle, succeeding.Angle) / float64(elapsed), true
}

// Window keeps the two most recent samples of a gesture.
type Window struct {
	former     Sample
	succeeding Sample
}

func NewWindow() Window {
	return Window{
		former:     Sample{Millis: Unset},
		succeeding: Sample{Millis: Unset},
	}
}

// Push shifts the succeeding sample into the former slot.
func (w *Window) Push(s Sample) {
	w.former = w.succeeding
	w.succeeding = s
}

func (w *Window) Reset() { *w = NewWindow() }

func (w Window) Former() Sample     { return w.former }
func (w Window) Succeeding() Sample { return w.succeeding }

func (w Window) Velocity() (float64, bool) {
	return Estimate(w.former, w.succeeding)
}
