package gesture

import (
	"math"
	"time"
)

// Source identifies the input device an event came from.
type Source int

const (
	Mouse Source = iota
	Touch
)

// Kind is the phase of a pointer interaction.
type Kind int

const (
	Press Kind = iota
	Move
	Release
)

// Event is a pointer or touch event normalized by the host UI layer.
type Event struct {
	Kind   Kind
	Source Source
	X, Y   float64
	Time   time.Time
}

// Point is a position in pixels.
type Point struct {
	X, Y float64
}

// Sample is one normalized snapshot of a drag. DX/DY are pixels from the
// drag start, VX/VY are pixels per millisecond.
type Sample struct {
	DX, DY float64
	VX, VY float64
	Time   time.Time
}

// Session is the state of one press-to-release interaction.
type Session struct {
	Active bool
	Start  Point
	Last   Sample
	moved  bool
}

// minElapsed bounds the velocity denominator.
const minElapsed = time.Millisecond

// Tracker turns raw pointer events into gesture samples. It is owned by a
// single card and is only touched from the UI event loop.
type Tracker struct {
	session Session
}

// NewTracker returns an inactive tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Session returns a copy of the current drag session.
func (t *Tracker) Session() Session {
	return t.session
}

// Active reports whether a press is in progress.
func (t *Tracker) Active() bool {
	return t.session.Active
}

// Last returns the most recent sample.
func (t *Tracker) Last() Sample {
	return t.session.Last
}

// Press starts a new drag session. A press while a session is already
// active leaves the session untouched and returns false.
func (t *Tracker) Press(x, y float64, now time.Time) bool {
	if t.session.Active {
		return false
	}
	t.session = Session{
		Active: true,
		Start:  Point{X: finite(x), Y: finite(y)},
		Last:   Sample{Time: now},
	}
	return true
}

// Move records a new sample for the active session. The first move after a
// press reports zero displacement because there is no prior delta to
// measure velocity from. Moves without an active session are ignored.
func (t *Tracker) Move(x, y float64, now time.Time) (Sample, bool) {
	if !t.session.Active {
		return Sample{}, false
	}

	prev := t.session.Last
	dx := finite(x) - t.session.Start.X
	dy := finite(y) - t.session.Start.Y
	if !t.session.moved {
		dx, dy = 0, 0
		t.session.moved = true
	}

	elapsed := now.Sub(prev.Time)
	if elapsed < minElapsed {
		elapsed = minElapsed
	}
	ms := float64(elapsed) / float64(time.Millisecond)

	s := Sample{
		DX:   dx,
		DY:   dy,
		VX:   finite((dx - prev.DX) / ms),
		VY:   finite((dy - prev.DY) / ms),
		Time: now,
	}
	t.session.Last = s
	return s, true
}

// Release ends the active session and returns its final sample. A release
// with no active press is a no-op and returns false.
func (t *Tracker) Release() (Sample, bool) {
	if !t.session.Active {
		return Sample{}, false
	}
	t.session.Active = false
	return t.session.Last, true
}

// Cancel drops the active session without producing a release.
func (t *Tracker) Cancel() {
	t.session.Active = false
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
