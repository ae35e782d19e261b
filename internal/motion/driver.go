package motion

import (
	"math"
	"math/rand"
	"time"
)

// Program is the motion currently driving the transform.
type Program int

const (
	Resting Program = iota
	Following
	Returning
	FlyingOut
)

func (p Program) String() string {
	switch p {
	case Following:
		return "following"
	case Returning:
		return "returning"
	case FlyingOut:
		return "flying out"
	default:
		return "resting"
	}
}

// Config holds the tuning of the driver.
type Config struct {
	Follow    SpringConfig  // stiff profile used while dragging
	Return    SpringConfig  // soft profile used to snap back
	MaxTilt   float64       // degrees
	TiltScale float64       // degrees per px/ms of horizontal velocity
	MaxStep   time.Duration // largest frame delta integrated at once

	RestDelta    float64 // position error considered settled
	RestVelocity float64 // velocity (units/s) considered settled
}

// DefaultConfig returns the tuning the card ships with.
func DefaultConfig() Config {
	return Config{
		Follow:       SpringConfig{Friction: 50, Tension: 2000},
		Return:       SpringConfig{Friction: 10, Tension: 200},
		MaxTilt:      25,
		TiltScale:    15,
		MaxStep:      time.Second / 15,
		RestDelta:    0.1,
		RestVelocity: 0.5,
	}
}

type flight struct {
	from     Transform
	plan     Plan
	start    time.Time
	progress float64
}

// Driver owns the card transform. Only one program drives it at a time and
// starting a program cancels the previous one. A Driver is not safe for
// concurrent use; it belongs to the UI loop.
type Driver struct {
	cfg     Config
	now     func() time.Time
	rand    *rand.Rand
	program Program
	field   springField
	target  Transform
	flight  flight
	motion  *Motion
	last    time.Time
}

// Option configures a Driver.
type Option func(*Driver)

// WithClock sets the time source used to stamp motion commands.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) { d.now = now }
}

// WithRand sets the random source used for vertical exit tilt.
func WithRand(r *rand.Rand) Option {
	return func(d *Driver) { d.rand = r }
}

// NewDriver returns a resting driver at the origin.
func NewDriver(cfg Config, opts ...Option) *Driver {
	d := &Driver{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	if d.rand == nil {
		d.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if d.cfg.MaxStep <= 0 {
		d.cfg.MaxStep = DefaultConfig().MaxStep
	}
	return d
}

// Transform returns a copy of the current transform.
func (d *Driver) Transform() Transform {
	return d.field.transform()
}

// Target returns where the active program is heading.
func (d *Driver) Target() Transform {
	if d.program == FlyingOut {
		return d.flight.plan.Target
	}
	return d.target
}

// Program returns the active program.
func (d *Driver) Program() Program {
	return d.program
}

// Active reports whether a program still needs frames.
func (d *Driver) Active() bool {
	return d.program != Resting
}

// Tilt converts a horizontal velocity into a rotation clamped to MaxTilt.
func (d *Driver) Tilt(vx float64) float64 {
	rot := vx * d.cfg.TiltScale
	if math.IsNaN(rot) {
		return 0
	}
	return clamp(rot, -d.cfg.MaxTilt, d.cfg.MaxTilt)
}

// Follow points the transform at the raw drag delta using the stiff
// spring. Repeated calls only move the target; later calls supersede
// earlier ones.
func (d *Driver) Follow(dx, dy, vx float64) {
	if d.program != Following {
		d.begin(Following)
	}
	d.target = Transform{X: finite(dx), Y: finite(dy), Rot: d.Tilt(vx)}
}

// Return animates the transform back to the origin with the soft spring.
// The returned motion settles once the card is at rest.
func (d *Driver) Return() *Motion {
	d.begin(Returning)
	d.target = Transform{}
	d.motion = newMotion()
	return d.motion
}

// FlyOut stops any running spring and carries the card off screen along
// vec. speed is in px/ms, NoSpeed derives it from vec. The returned motion
// settles when the exit completes.
func (d *Driver) FlyOut(vec Vec, speed float64, vp Viewport) *Motion {
	d.Stop()
	plan := PlanExit(vec, speed, vp, d.rand.Float64)
	d.begin(FlyingOut)
	d.flight = flight{
		from:  d.field.transform(),
		plan:  plan,
		start: d.last,
	}
	d.motion = newMotion()
	return d.motion
}

// Plan returns the trajectory of the current or most recent fly-out.
func (d *Driver) Plan() Plan {
	return d.flight.plan
}

// Stop cancels the running program, leaving the transform where it is
// with no residual velocity.
func (d *Driver) Stop() {
	d.motion.cancel()
	d.motion = nil
	d.field.stop()
	d.target = d.field.transform()
	d.program = Resting
}

// Reset jumps back to the origin with nothing running.
func (d *Driver) Reset() {
	d.Stop()
	d.field.load(Transform{})
	d.target = Transform{}
}

func (d *Driver) begin(p Program) {
	d.motion.cancel()
	d.motion = nil
	d.field.stop()
	d.program = p
	d.last = d.now()
}

// Tick advances the active program to now. It returns true while the
// driver still needs frames.
func (d *Driver) Tick(now time.Time) bool {
	if d.program == Resting {
		d.last = now
		return false
	}

	switch d.program {
	case FlyingOut:
		d.last = now
		d.stepFlight(now)
	default:
		dt := now.Sub(d.last)
		if dt <= 0 {
			return true
		}
		d.last = now
		if dt > d.cfg.MaxStep {
			dt = d.cfg.MaxStep
		}
		d.stepSpring(dt)
	}
	return d.program != Resting
}

func (d *Driver) stepSpring(dt time.Duration) {
	cfg := d.cfg.Follow
	if d.program == Returning {
		cfg = d.cfg.Return
	}
	d.field.configure(cfg, dt)
	d.field.step(axisX, d.target.X)
	d.field.step(axisY, d.target.Y)
	d.field.step(axisRot, d.target.Rot)

	if d.program != Returning {
		return
	}
	if d.field.atRest(d.target, d.cfg.RestDelta, d.cfg.RestVelocity) {
		d.field.load(d.target)
		d.field.stop()
		d.finish()
	}
}

func (d *Driver) stepFlight(now time.Time) {
	f := &d.flight
	p := 1.0
	if f.plan.Duration > 0 {
		p = float64(now.Sub(f.start)) / float64(f.plan.Duration)
	}
	p = clamp(p, 0, 1)
	f.progress = p

	to := f.plan.Target
	d.field.load(Transform{
		X:   lerp(f.from.X, to.X, p),
		Y:   lerp(f.from.Y, to.Y, p),
		Rot: lerp(f.from.Rot, to.Rot, p),
	})
	if p >= 1 {
		d.target = to
		d.finish()
	}
}

// finish marks the program done before running settle hooks so a hook can
// start the next program.
func (d *Driver) finish() {
	m := d.motion
	d.motion = nil
	d.program = Resting
	m.settle()
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
