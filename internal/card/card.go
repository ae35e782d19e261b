// Package card implements a draggable, swipeable card: it tracks pointer
// gestures, classifies swipe intent and drives the card's spring motion.
package card

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/olivier-w/reelswipe/internal/gesture"
	"github.com/olivier-w/reelswipe/internal/motion"
	"github.com/olivier-w/reelswipe/internal/swipe"
)

var (
	// ErrBusy is returned by Swipe while the card is already leaving.
	ErrBusy = errors.New("card is already flying out")
	// ErrInvalidDirection is returned by Swipe for swipe.None or unknown values.
	ErrInvalidDirection = errors.New("invalid swipe direction")
)

// Programmatic swipes travel mostly along the requested axis with a small
// random drift on the other one.
const (
	swipePower      = 1.3
	swipeDisturbMax = 0.25
)

// State is the lifecycle of the card.
type State int

const (
	Idle State = iota
	Dragging
	Returning
	FlyingOut
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Returning:
		return "returning"
	case FlyingOut:
		return "flying out"
	default:
		return "idle"
	}
}

// Handle is the command surface a host holds on to.
type Handle interface {
	Swipe(dir swipe.Direction) (*motion.Motion, error)
	RestoreCard() *motion.Motion
}

// Callbacks are invoked synchronously on the UI loop. Any of them may be nil.
type Callbacks struct {
	// OnSwipe fires once a swipe is decided, before the exit completes.
	OnSwipe func(swipe.Direction)
	// OnCardLeftScreen fires when the exit animation settles.
	OnCardLeftScreen func(swipe.Direction)
	// OnRequirementFulfilled fires when the live intent changes to a direction.
	OnRequirementFulfilled func(swipe.Direction)
	// OnRequirementUnfulfilled fires when the live intent drops back to none.
	OnRequirementUnfulfilled func()
}

// Options configures a Card.
type Options struct {
	Thresholds   swipe.Thresholds
	Motion       motion.Config
	FlickOnSwipe bool
	PreventSwipe []swipe.Direction
	Clock        func() time.Time
	Rand         *rand.Rand
	Logger       zerolog.Logger
}

// DefaultOptions returns the stock tuning with flicking enabled.
func DefaultOptions() Options {
	return Options{
		Thresholds:   swipe.DefaultThresholds(),
		Motion:       motion.DefaultConfig(),
		FlickOnSwipe: true,
		Logger:       zerolog.Nop(),
	}
}

// Card is one swipeable element. Each card owns its tracker, classifier
// state and transform; cards never share them.
type Card struct {
	opts      Options
	cb        Callbacks
	tracker   *gesture.Tracker
	intent    swipe.Requirement
	driver    *motion.Driver
	rand      *rand.Rand
	viewport  motion.Viewport
	state     State
	leaving   swipe.Direction
	prevented map[swipe.Direction]bool
	log       zerolog.Logger
}

var _ Handle = (*Card)(nil)

// New creates an idle card at the origin.
func New(opts Options, cb Callbacks) *Card {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	c := &Card{
		opts:      opts,
		cb:        cb,
		tracker:   gesture.NewTracker(),
		rand:      opts.Rand,
		prevented: make(map[swipe.Direction]bool, len(opts.PreventSwipe)),
		log:       opts.Logger,
	}
	for _, d := range opts.PreventSwipe {
		c.prevented[d] = true
	}
	c.driver = motion.NewDriver(opts.Motion, motion.WithClock(opts.Clock), motion.WithRand(opts.Rand))
	c.intent = swipe.Requirement{
		Fulfilled: func(d swipe.Direction) {
			if c.cb.OnRequirementFulfilled != nil {
				c.cb.OnRequirementFulfilled(d)
			}
		},
		Unfulfilled: func() {
			if c.cb.OnRequirementUnfulfilled != nil {
				c.cb.OnRequirementUnfulfilled()
			}
		},
	}
	return c
}

// State returns the card lifecycle state.
func (c *Card) State() State {
	return c.state
}

// Transform returns a copy of the card transform.
func (c *Card) Transform() motion.Transform {
	return c.driver.Transform()
}

// Plan returns the most recent exit trajectory.
func (c *Card) Plan() motion.Plan {
	return c.driver.Plan()
}

// Intent returns the last reported live swipe intent.
func (c *Card) Intent() swipe.Direction {
	return c.intent.Current()
}

// Leaving returns the direction of the exit in progress, or swipe.None.
func (c *Card) Leaving() swipe.Direction {
	return c.leaving
}

// SetViewport updates the size used to compute exit distances.
func (c *Card) SetViewport(width, height float64) {
	c.viewport = motion.Viewport{Width: width, Height: height}
}

// Animating reports whether the card needs animation frames.
func (c *Card) Animating() bool {
	return c.driver.Active()
}

// Tick advances the running animation to now.
func (c *Card) Tick(now time.Time) bool {
	return c.driver.Tick(now)
}

// HandleEvent feeds one pointer or touch event. Presses are only accepted
// while the card is idle.
func (c *Card) HandleEvent(ev gesture.Event) {
	if ev.Kind == gesture.Press && c.state != Idle {
		return
	}
	r := c.tracker.Handle(ev)
	if !r.OK {
		return
	}
	switch r.Kind {
	case gesture.Press:
		c.press(ev)
	case gesture.Move:
		c.move(r.Sample)
	case gesture.Release:
		c.release(r.Sample)
	}
}

func (c *Card) press(ev gesture.Event) {
	c.intent.Reset()
	c.state = Dragging
	c.log.Debug().Str("source", ev.Source.String()).Float64("x", ev.X).Float64("y", ev.Y).Msg("drag started")
}

func (c *Card) move(s gesture.Sample) {
	if c.state != Dragging {
		return
	}
	c.intent.Observe(swipe.Decide(s, c.opts.Thresholds))
	c.driver.Follow(s.DX, s.DY, s.VX)
}

func (c *Card) release(s gesture.Sample) {
	if c.state != Dragging {
		return
	}
	c.clearIntent()

	dir := swipe.Decide(s, c.opts.Thresholds)
	c.log.Debug().
		Stringer("direction", dir).
		Float64("dx", s.DX).Float64("dy", s.DY).
		Float64("vx", s.VX).Float64("vy", s.VY).
		Msg("drag released")

	if dir == swipe.None || c.prevented[dir] || !c.opts.FlickOnSwipe {
		c.returnToOrigin()
		return
	}

	c.fireSwipe(dir)
	x, y := dir.Vector()
	c.flyOut(dir, motion.Vec{X: x, Y: y}, math.Hypot(s.VX, s.VY))
}

// Swipe flies the card out in dir without a prior drag. The returned motion
// settles after OnCardLeftScreen has fired.
func (c *Card) Swipe(dir swipe.Direction) (*motion.Motion, error) {
	if !dir.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDirection, dir)
	}
	if c.state == FlyingOut {
		return nil, ErrBusy
	}
	c.tracker.Cancel()
	c.clearIntent()
	c.fireSwipe(dir)

	disturbance := (c.rand.Float64() - 0.5) * 2 * swipeDisturbMax
	var vec motion.Vec
	switch dir {
	case swipe.Right:
		vec = motion.Vec{X: swipePower, Y: disturbance}
	case swipe.Left:
		vec = motion.Vec{X: -swipePower, Y: disturbance}
	case swipe.Up:
		vec = motion.Vec{X: disturbance, Y: -swipePower}
	case swipe.Down:
		vec = motion.Vec{X: disturbance, Y: swipePower}
	}
	return c.flyOut(dir, vec, motion.NoSpeed), nil
}

// RestoreCard animates the card back to its resting position, cancelling
// any drag or exit in progress.
func (c *Card) RestoreCard() *motion.Motion {
	c.tracker.Cancel()
	c.clearIntent()
	return c.returnToOrigin()
}

// clearIntent ends the live intent of a finished drag, notifying once if a
// direction was being reported.
func (c *Card) clearIntent() {
	c.intent.Observe(swipe.None)
}

func (c *Card) fireSwipe(dir swipe.Direction) {
	c.log.Debug().Stringer("direction", dir).Msg("swipe")
	if c.cb.OnSwipe != nil {
		c.cb.OnSwipe(dir)
	}
}

func (c *Card) flyOut(dir swipe.Direction, vec motion.Vec, speed float64) *motion.Motion {
	c.state = FlyingOut
	c.leaving = dir
	m := c.driver.FlyOut(vec, speed, c.viewport)
	plan := c.driver.Plan()
	c.log.Debug().
		Stringer("direction", dir).
		Float64("target_x", plan.Target.X).
		Float64("target_y", plan.Target.Y).
		Dur("duration", plan.Duration).
		Msg("flying out")
	return m.OnSettle(func() {
		c.state = Idle
		c.leaving = swipe.None
		if c.cb.OnCardLeftScreen != nil {
			c.cb.OnCardLeftScreen(dir)
		}
	})
}

func (c *Card) returnToOrigin() *motion.Motion {
	c.state = Returning
	c.leaving = swipe.None
	return c.driver.Return().OnSettle(func() {
		c.state = Idle
	})
}
