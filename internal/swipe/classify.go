package swipe

import (
	"math"

	"github.com/olivier-w/reelswipe/internal/gesture"
)

// Mode selects which sample metric a classification inspects.
type Mode int

const (
	Velocity Mode = iota
	Distance
)

func (m Mode) String() string {
	if m == Distance {
		return "distance"
	}
	return "velocity"
}

// Thresholds are the minimum magnitudes that count as a swipe.
type Thresholds struct {
	Velocity float64 // px/ms
	Distance float64 // px
}

// DefaultThresholds matches the tuning the card ships with.
func DefaultThresholds() Thresholds {
	return Thresholds{Velocity: 0.3, Distance: 100}
}

// Classify returns the direction the sample points in for the given mode,
// or None when the dominant axis does not exceed the threshold. Ties go to
// the vertical axis.
func Classify(s gesture.Sample, mode Mode, th Thresholds) Direction {
	x, y, limit := s.VX, s.VY, th.Velocity
	if mode == Distance {
		x, y, limit = s.DX, s.DY, th.Distance
	}
	if math.IsNaN(x) || math.IsNaN(y) {
		return None
	}

	if math.Abs(x) > math.Abs(y) {
		switch {
		case x > limit:
			return Right
		case x < -limit:
			return Left
		}
		return None
	}
	switch {
	case y > limit:
		return Down
	case y < -limit:
		return Up
	}
	return None
}

// Decide tests velocity first and falls back to distance, so a short fast
// flick and a long slow drag both register.
func Decide(s gesture.Sample, th Thresholds) Direction {
	if d := Classify(s, Velocity, th); d != None {
		return d
	}
	return Classify(s, Distance, th)
}
