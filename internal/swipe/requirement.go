package swipe

// Requirement tracks the live swipe intent during a drag and reports
// changes only. Fulfilled is called when the intent moves to a direction,
// Unfulfilled when it drops back to None.
type Requirement struct {
	last        Direction
	Fulfilled   func(Direction)
	Unfulfilled func()
}

// Observe feeds the latest classified direction and returns true if it
// differs from the previously reported one.
func (r *Requirement) Observe(d Direction) bool {
	if d == r.last {
		return false
	}
	r.last = d
	if d == None {
		if r.Unfulfilled != nil {
			r.Unfulfilled()
		}
		return true
	}
	if r.Fulfilled != nil {
		r.Fulfilled(d)
	}
	return true
}

// Current returns the last reported direction.
func (r *Requirement) Current() Direction {
	return r.last
}

// Reset forgets the last reported direction without notifying.
func (r *Requirement) Reset() {
	r.last = None
}
