package motion

import (
	"context"
	"errors"
)

// ErrCanceled is returned by Wait when a newer motion command superseded
// the one being waited on.
var ErrCanceled = errors.New("motion canceled")

// Motion is the completion handle of one motion program. Exactly one of
// Done or Canceled is closed, Done only once the motion has truly settled.
type Motion struct {
	done     chan struct{}
	canceled chan struct{}
	hooks    []func()
	finished bool
}

func newMotion() *Motion {
	return &Motion{
		done:     make(chan struct{}),
		canceled: make(chan struct{}),
	}
}

// Done is closed when the motion settles.
func (m *Motion) Done() <-chan struct{} {
	return m.done
}

// Canceled is closed when the motion is superseded before settling.
func (m *Motion) Canceled() <-chan struct{} {
	return m.canceled
}

// OnSettle registers fn to run on the animation loop right before Done is
// closed. Hooks run in registration order and never run on cancellation.
// Registering on a motion that already finished is a no-op.
func (m *Motion) OnSettle(fn func()) *Motion {
	if !m.finished {
		m.hooks = append(m.hooks, fn)
	}
	return m
}

// Settled reports whether Done has been closed.
func (m *Motion) Settled() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the motion settles, is canceled, or ctx ends.
func (m *Motion) Wait(ctx context.Context) error {
	select {
	case <-m.done:
		return nil
	case <-m.canceled:
		return ErrCanceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Motion) settle() {
	if m == nil || m.finished {
		return
	}
	m.finished = true
	hooks := m.hooks
	m.hooks = nil
	for _, fn := range hooks {
		fn()
	}
	close(m.done)
}

func (m *Motion) cancel() {
	if m == nil || m.finished {
		return
	}
	m.finished = true
	m.hooks = nil
	close(m.canceled)
}
