package gesture

// Result describes what an event did to the tracker. OK is false when the
// event was ignored (a duplicate press, a stray move or release).
type Result struct {
	Kind   Kind
	Sample Sample
	OK     bool
}

// Handle dispatches a normalized event. Mouse and touch are treated the
// same once they reach the tracker.
func (t *Tracker) Handle(ev Event) Result {
	switch ev.Kind {
	case Press:
		ok := t.Press(ev.X, ev.Y, ev.Time)
		return Result{Kind: Press, Sample: t.session.Last, OK: ok}
	case Move:
		s, ok := t.Move(ev.X, ev.Y, ev.Time)
		return Result{Kind: Move, Sample: s, OK: ok}
	case Release:
		s, ok := t.Release()
		return Result{Kind: Release, Sample: s, OK: ok}
	}
	return Result{Kind: ev.Kind}
}

func (s Source) String() string {
	switch s {
	case Touch:
		return "touch"
	default:
		return "mouse"
	}
}

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Move:
		return "move"
	case Release:
		return "release"
	}
	return "unknown"
}
