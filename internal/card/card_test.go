package card

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/olivier-w/reelswipe/internal/gesture"
	"github.com/olivier-w/reelswipe/internal/motion"
	"github.com/olivier-w/reelswipe/internal/swipe"
)

const frame = 16 * time.Millisecond

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

type recorder struct {
	events []string
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnSwipe:          func(d swipe.Direction) { r.events = append(r.events, "swipe:"+d.String()) },
		OnCardLeftScreen: func(d swipe.Direction) { r.events = append(r.events, "left:"+d.String()) },
		OnRequirementFulfilled: func(d swipe.Direction) {
			r.events = append(r.events, "fulfilled:"+d.String())
		},
		OnRequirementUnfulfilled: func() { r.events = append(r.events, "unfulfilled") },
	}
}

func (r *recorder) count(prefix string) int {
	n := 0
	for _, e := range r.events {
		if len(e) >= len(prefix) && e[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

type harness struct {
	t     *testing.T
	card  *Card
	clock *fakeClock
	rec   *recorder
}

func newHarness(t *testing.T, mutate func(*Options)) *harness {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	opts := DefaultOptions()
	opts.Clock = clock.Now
	opts.Rand = rand.New(rand.NewSource(7))
	if mutate != nil {
		mutate(&opts)
	}
	rec := &recorder{}
	c := New(opts, rec.callbacks())
	c.SetViewport(1280, 720)
	return &harness{t: t, card: c, clock: clock, rec: rec}
}

func (h *harness) press(x, y float64) {
	h.card.HandleEvent(gesture.Event{Kind: gesture.Press, X: x, Y: y, Time: h.clock.Now()})
}

func (h *harness) move(x, y float64, after time.Duration) {
	h.card.HandleEvent(gesture.Event{Kind: gesture.Move, X: x, Y: y, Time: h.clock.Advance(after)})
	h.card.Tick(h.clock.Now())
}

func (h *harness) release() {
	h.card.HandleEvent(gesture.Event{Kind: gesture.Release, Time: h.clock.Now()})
}

func (h *harness) settle() {
	h.t.Helper()
	for range 5000 {
		if !h.card.Tick(h.clock.Advance(frame)) {
			return
		}
	}
	h.t.Fatal("card never settled")
}

func TestFastFlickSwipesRight(t *testing.T) {
	h := newHarness(t, nil)
	h.press(0, 0)
	h.move(0, 0, 50*time.Millisecond)
	h.move(150, 10, 50*time.Millisecond)
	if got := h.card.Intent(); got != swipe.Right {
		t.Fatalf("expected live intent right, got %s", got)
	}

	h.release()
	if h.card.State() != FlyingOut {
		t.Fatalf("expected flying out, got %s", h.card.State())
	}
	if len(h.rec.events) == 0 || h.rec.events[len(h.rec.events)-1] != "swipe:right" {
		t.Fatalf("expected onSwipe(right) on release, got %v", h.rec.events)
	}
	if h.rec.count("left:") != 0 {
		t.Fatal("onCardLeftScreen fired before the exit settled")
	}

	h.settle()
	if h.rec.events[len(h.rec.events)-1] != "left:right" {
		t.Fatalf("expected onCardLeftScreen(right) last, got %v", h.rec.events)
	}

	diagonal := math.Hypot(1280, 720)
	if got := h.card.Transform().X; math.Abs(got-1.5*diagonal) > 1e-6 {
		t.Fatalf("expected exit x=%v, got %v", 1.5*diagonal, got)
	}
	if h.card.State() != Idle {
		t.Fatalf("expected idle after exit, got %s", h.card.State())
	}
}

func TestSlowDragSwipesRightByDistance(t *testing.T) {
	h := newHarness(t, nil)
	h.press(0, 0)
	h.move(0, 0, 16*time.Millisecond)
	for i := 1; i <= 40; i++ {
		h.move(float64(i)*3.75, float64(i)*0.25, 50*time.Millisecond)
	}

	s := h.card.tracker.Last()
	if s.VX >= 0.3 {
		t.Fatalf("expected slow drag, got vx=%v", s.VX)
	}
	h.release()
	if h.rec.count("swipe:right") != 1 {
		t.Fatalf("expected distance fallback to swipe right, got %v", h.rec.events)
	}
	h.settle()
	if h.rec.count("left:right") != 1 {
		t.Fatalf("expected card to leave right, got %v", h.rec.events)
	}
}

func TestShortDragReturnsToOrigin(t *testing.T) {
	h := newHarness(t, nil)
	h.press(0, 0)
	h.move(0, 0, 50*time.Millisecond)
	for i := 1; i <= 10; i++ {
		h.move(float64(i)*3, float64(i)*0.5, 50*time.Millisecond)
	}
	h.release()
	if h.card.State() != Returning {
		t.Fatalf("expected returning, got %s", h.card.State())
	}

	h.settle()
	if h.card.Transform() != (motion.Transform{}) {
		t.Fatalf("expected card at origin, got %+v", h.card.Transform())
	}
	if h.rec.count("swipe:") != 0 || h.rec.count("left:") != 0 {
		t.Fatalf("expected no swipe callbacks, got %v", h.rec.events)
	}
	if h.card.State() != Idle {
		t.Fatalf("expected idle, got %s", h.card.State())
	}
}

func TestDoubleReleaseSettlesOnce(t *testing.T) {
	h := newHarness(t, nil)
	h.press(0, 0)
	h.move(0, 0, 50*time.Millisecond)
	h.move(150, 0, 50*time.Millisecond)
	h.release()
	h.release()
	h.settle()
	h.release()

	if h.rec.count("swipe:") != 1 || h.rec.count("left:") != 1 {
		t.Fatalf("expected exactly one swipe sequence, got %v", h.rec.events)
	}
}

func TestProgrammaticSwipeUp(t *testing.T) {
	h := newHarness(t, nil)
	start := h.clock.Now()

	m, err := h.card.Swipe(swipe.Up)
	if err != nil {
		t.Fatalf("swipe: %v", err)
	}
	plan := h.card.Plan()
	if plan.Target.Y >= 0 {
		t.Fatalf("expected upward exit, got %+v", plan.Target)
	}
	wantMag := 1.5 * math.Hypot(1280, 720)
	if got := math.Hypot(plan.Target.X, plan.Target.Y); math.Abs(got-wantMag) > 1e-6 {
		t.Fatalf("expected exit magnitude %v, got %v", wantMag, got)
	}

	h.settle()
	if err := m.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	elapsed := h.clock.Now().Sub(start)
	if elapsed < 250*time.Millisecond || elapsed > 500*time.Millisecond+frame {
		t.Fatalf("exit took %v", elapsed)
	}
	want := []string{"swipe:up", "left:up"}
	if len(h.rec.events) != 2 || h.rec.events[0] != want[0] || h.rec.events[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, h.rec.events)
	}
}

func TestSwipeResolvesAfterCardLeftScreen(t *testing.T) {
	h := newHarness(t, nil)
	m, _ := h.card.Swipe(swipe.Left)
	var leftBeforeDone bool
	h.card.cb.OnCardLeftScreen = func(swipe.Direction) {
		leftBeforeDone = !m.Settled()
	}
	h.settle()
	if !leftBeforeDone {
		t.Fatal("expected onCardLeftScreen to fire before the swipe resolves")
	}
}

func TestSwipeRejectsInvalidAndBusy(t *testing.T) {
	h := newHarness(t, nil)
	if _, err := h.card.Swipe(swipe.None); !errors.Is(err, ErrInvalidDirection) {
		t.Fatalf("expected ErrInvalidDirection, got %v", err)
	}
	if _, err := h.card.Swipe(swipe.Right); err != nil {
		t.Fatalf("swipe: %v", err)
	}
	if _, err := h.card.Swipe(swipe.Left); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestRestoreCardAfterExit(t *testing.T) {
	h := newHarness(t, nil)
	h.card.Swipe(swipe.Right)
	h.settle()

	m := h.card.RestoreCard()
	h.settle()
	if !m.Settled() {
		t.Fatal("expected restore to settle")
	}
	if h.card.Transform() != (motion.Transform{}) {
		t.Fatalf("expected card at origin, got %+v", h.card.Transform())
	}
}

func TestRestoreCardCancelsExit(t *testing.T) {
	h := newHarness(t, nil)
	out, _ := h.card.Swipe(swipe.Down)
	h.card.Tick(h.clock.Advance(frame))
	h.card.RestoreCard()
	h.settle()

	select {
	case <-out.Canceled():
	default:
		t.Fatal("expected exit to be canceled")
	}
	if h.rec.count("left:") != 0 {
		t.Fatalf("canceled exit must not report leaving, got %v", h.rec.events)
	}
}

func TestRequirementNotificationsAreDebounced(t *testing.T) {
	h := newHarness(t, nil)
	h.press(0, 0)
	h.move(0, 0, 50*time.Millisecond)
	// Slow drag right past the distance threshold, then back to the middle.
	for _, x := range []float64{20, 40, 60, 80, 110, 130, 150, 170, 120, 60, 20} {
		h.move(x, 0, 400*time.Millisecond)
	}

	if got := h.rec.count("fulfilled:right"); got != 1 {
		t.Fatalf("expected one fulfilled notification, got %d (%v)", got, h.rec.events)
	}
	if got := h.rec.count("unfulfilled"); got != 1 {
		t.Fatalf("expected one unfulfilled notification, got %d (%v)", got, h.rec.events)
	}
}

func TestPreventedDirectionReturns(t *testing.T) {
	h := newHarness(t, func(o *Options) {
		o.PreventSwipe = []swipe.Direction{swipe.Up}
	})
	h.press(0, 0)
	h.move(0, 0, 50*time.Millisecond)
	h.move(0, -200, 50*time.Millisecond)
	h.release()
	if h.card.State() != Returning {
		t.Fatalf("expected prevented swipe to return, got %s", h.card.State())
	}
	h.settle()
	if h.rec.count("swipe:") != 0 {
		t.Fatalf("prevented swipe fired callbacks: %v", h.rec.events)
	}
}

func TestNoFlickReturnsWithoutSwipe(t *testing.T) {
	h := newHarness(t, func(o *Options) {
		o.FlickOnSwipe = false
	})
	h.press(0, 0)
	h.move(0, 0, 50*time.Millisecond)
	h.move(-200, 0, 50*time.Millisecond)
	h.release()
	if h.card.State() != Returning {
		t.Fatalf("expected card to return, got %s", h.card.State())
	}
	h.settle()
	if h.rec.count("swipe:") != 0 || h.rec.count("left:") != 0 {
		t.Fatalf("unexpected callbacks %v", h.rec.events)
	}
	if h.card.Transform() != (motion.Transform{}) {
		t.Fatalf("expected card back at origin, got %+v", h.card.Transform())
	}
}

func TestReleaseClearsIntent(t *testing.T) {
	tests := map[string]func(*Options){
		"prevented": func(o *Options) { o.PreventSwipe = []swipe.Direction{swipe.Right} },
		"no flick":  func(o *Options) { o.FlickOnSwipe = false },
		"swiped":    nil,
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, mutate)
			h.press(0, 0)
			h.move(0, 0, 50*time.Millisecond)
			h.move(150, 0, 50*time.Millisecond)
			if h.card.Intent() != swipe.Right {
				t.Fatalf("expected live intent right, got %s", h.card.Intent())
			}

			h.release()
			if got := h.card.Intent(); got != swipe.None {
				t.Fatalf("expected intent cleared on release, got %s", got)
			}
			h.settle()
			if got := h.rec.count("unfulfilled"); got != 1 {
				t.Fatalf("expected one unfulfilled notification, got %d (%v)", got, h.rec.events)
			}
			if h.card.State() != Idle || h.card.Intent() != swipe.None {
				t.Fatalf("expected idle card without intent, got %s/%s", h.card.State(), h.card.Intent())
			}
		})
	}
}

func TestRestoreCardClearsIntent(t *testing.T) {
	h := newHarness(t, nil)
	h.press(0, 0)
	h.move(0, 0, 50*time.Millisecond)
	h.move(0, 150, 50*time.Millisecond)
	if h.card.Intent() != swipe.Down {
		t.Fatalf("expected live intent down, got %s", h.card.Intent())
	}

	h.card.RestoreCard()
	h.settle()
	if h.card.Intent() != swipe.None || h.rec.count("unfulfilled") != 1 {
		t.Fatalf("expected intent cleared once, got %s (%v)", h.card.Intent(), h.rec.events)
	}
	if h.rec.count("swipe:") != 0 {
		t.Fatalf("restore must not swipe, got %v", h.rec.events)
	}
}

func TestLeavingReportsExitDirection(t *testing.T) {
	h := newHarness(t, nil)
	if h.card.Leaving() != swipe.None {
		t.Fatalf("expected no exit on a fresh card, got %s", h.card.Leaving())
	}
	h.card.Swipe(swipe.Left)
	if h.card.Leaving() != swipe.Left {
		t.Fatalf("expected leaving left, got %s", h.card.Leaving())
	}
	h.settle()
	if h.card.Leaving() != swipe.None {
		t.Fatalf("expected exit cleared after settle, got %s", h.card.Leaving())
	}
}

func TestPressIgnoredWhileBusy(t *testing.T) {
	h := newHarness(t, nil)
	h.card.Swipe(swipe.Right)
	h.press(10, 10)
	if h.card.State() != FlyingOut {
		t.Fatalf("press during exit changed state to %s", h.card.State())
	}
	h.release()
	h.settle()
	if h.rec.count("left:") != 1 {
		t.Fatalf("expected exit to complete normally, got %v", h.rec.events)
	}
}

func TestOverlappingPressKeepsFollowing(t *testing.T) {
	h := newHarness(t, nil)
	h.press(0, 0)
	h.move(0, 0, 50*time.Millisecond)
	h.move(40, 0, 200*time.Millisecond)
	h.press(500, 500)
	if h.card.State() != Dragging {
		t.Fatalf("expected still dragging, got %s", h.card.State())
	}
	h.move(60, 0, 200*time.Millisecond)
	if got := h.card.driver.Target().X; got != 60 {
		t.Fatalf("expected follow target relative to first press, got %v", got)
	}
}

func TestCardsDoNotShareState(t *testing.T) {
	a := newHarness(t, nil)
	b := newHarness(t, nil)
	a.press(0, 0)
	a.move(0, 0, 50*time.Millisecond)
	a.move(80, 0, 100*time.Millisecond)

	if b.card.State() != Idle || b.card.tracker.Active() {
		t.Fatal("second card picked up the first card's drag")
	}
	if b.card.Transform() != (motion.Transform{}) {
		t.Fatalf("second card moved: %+v", b.card.Transform())
	}
}

func TestUnknownViewportStillExits(t *testing.T) {
	h := newHarness(t, nil)
	h.card.SetViewport(0, 0)
	h.card.Swipe(swipe.Right)
	if x := h.card.Plan().Target.X; x < 1000 {
		t.Fatalf("expected fallback exit distance, got %v", x)
	}
}
