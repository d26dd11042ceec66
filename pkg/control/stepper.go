package control

import (
	"context"
	"time"

	"github.com/aretw0/algoviz/pkg/domain"
)

// Stepper bundles what a runner consumes between two atomic operations: the emitter
// that hands the event to observers, the pause gate, the artificial delay and the
// cancellation token.
type Stepper struct {
	Clock *Clock
	Token *Token
	Emit  func(domain.StepEvent)

	seq int
}

// NewStepper fills in defaults for any nil collaborator: an unpaused clock, a token
// derived from ctx and a no-op emitter.
func NewStepper(ctx context.Context, clock *Clock, token *Token, emit func(domain.StepEvent)) *Stepper {
	if clock == nil {
		clock = NewClock()
	}
	if token == nil {
		token = NewToken(ctx)
	}
	if emit == nil {
		emit = func(domain.StepEvent) {}
	}
	return &Stepper{Clock: clock, Token: token, Emit: emit}
}

// Step emits ev, then waits on the pause gate, then sleeps for d. Pause is checked
// before the delay so a paused run freezes before the next micro-step is shown.
func (s *Stepper) Step(ev domain.StepEvent, d time.Duration) {
	s.Notify(ev)
	ctx := s.Token.Context()
	s.Clock.Gate(ctx)
	s.Clock.Tick(ctx, d)
}

// Notify emits ev without suspending. Used for markers that are not steps of their own.
func (s *Stepper) Notify(ev domain.StepEvent) {
	s.seq++
	ev.Seq = s.seq
	s.Emit(ev)
}

// Cancelled reports whether the run should stop at the current check point.
func (s *Stepper) Cancelled() bool {
	return s.Token.Cancelled()
}

// Steps returns the number of events emitted so far.
func (s *Stepper) Steps() int {
	return s.seq
}
