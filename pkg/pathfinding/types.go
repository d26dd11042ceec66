package pathfinding

import (
	"log/slog"
	"time"

	"github.com/aretw0/algoviz/internal/logging"
	"github.com/aretw0/algoviz/pkg/control"
	"github.com/aretw0/algoviz/pkg/domain"
)

// StepDelay is the fixed pause after each visit. Pathfinding ignores the speed dial.
const StepDelay = 15 * time.Millisecond

// Option configures a pathfinding run.
type Option func(*Options)

// Options holds the collaborators of a pathfinding run.
type Options struct {
	Clock  *control.Clock
	Token  *control.Token
	Delay  time.Duration
	OnStep func(domain.StepEvent)
	Logger *slog.Logger
}

// DefaultOptions returns options with StepDelay and a discard logger.
func DefaultOptions() Options {
	return Options{
		Delay:  StepDelay,
		Logger: logging.NewNop(),
	}
}

// WithClock sets the step clock.
func WithClock(c *control.Clock) Option {
	return func(o *Options) {
		o.Clock = c
	}
}

// WithToken sets the cancellation token.
func WithToken(t *control.Token) Option {
	return func(o *Options) {
		o.Token = t
	}
}

// WithDelay overrides StepDelay.
func WithDelay(d time.Duration) Option {
	return func(o *Options) {
		if d >= 0 {
			o.Delay = d
		}
	}
}

// WithOnStep registers the step observer.
func WithOnStep(fn func(domain.StepEvent)) Option {
	return func(o *Options) {
		o.OnStep = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
