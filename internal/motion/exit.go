package motion

import (
	"math"
	"time"
)

const (
	exitReach      = 1.5 // multiples of the viewport diagonal
	exitTilt       = 45.0
	minExitSpeed   = 0.1 // px/ms
	exitSpeedScale = 4.0
	minExitTime    = 250 * time.Millisecond
	maxExitTime    = 500 * time.Millisecond
)

// NoSpeed tells PlanExit to derive the speed from the direction vector.
const NoSpeed = -1.0

// Plan is a fly-out trajectory.
type Plan struct {
	Target   Transform
	Duration time.Duration
}

// PlanExit computes where a card flying along vec ends up and how long it
// takes. speed is in px/ms; a negative speed means no hint and an infinite
// one exits as fast as allowed. random must
// return values in [0, 1) and is only consulted for purely vertical exits.
func PlanExit(vec Vec, speed float64, vp Viewport, random func() float64) Plan {
	diagonal := vp.Diagonal()
	if speed < 0 || math.IsNaN(speed) {
		speed = vec.Len()
	}
	if math.IsNaN(speed) {
		speed = minExitSpeed
	}
	speed = math.Max(speed, minExitSpeed)

	dir := vec.Unit()

	rot := dir.X * exitTilt
	if dir.X == 0 {
		rot = (random() - 0.5) * exitTilt
	}

	ms := clamp(diagonal/(speed*exitSpeedScale),
		float64(minExitTime/time.Millisecond),
		float64(maxExitTime/time.Millisecond))

	return Plan{
		Target: Transform{
			X:   diagonal * dir.X * exitReach,
			Y:   diagonal * dir.Y * exitReach,
			Rot: rot,
		},
		Duration: time.Duration(ms * float64(time.Millisecond)),
	}
}
