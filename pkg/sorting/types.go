package sorting

import (
	"log/slog"
	"time"

	"github.com/aretw0/algoviz/internal/logging"
	"github.com/aretw0/algoviz/pkg/control"
	"github.com/aretw0/algoviz/pkg/domain"
)

// Option configures a sorting run.
type Option func(*Options)

// Options holds the collaborators of a sorting run.
type Options struct {
	// Clock provides the pause gate and the delay. Defaults to an unpaused wall clock.
	Clock *control.Clock
	// Token requests early termination. Defaults to a token derived from the run context.
	Token *control.Token
	// Delay is the artificial pause after each step.
	Delay time.Duration
	// OnStep receives every step event, synchronously.
	OnStep func(domain.StepEvent)
	// Logger receives debug output.
	Logger *slog.Logger
}

// DefaultOptions returns options with the delay of the default speed.
func DefaultOptions() Options {
	return Options{
		Delay:  domain.DelayForSpeed(domain.DefaultSpeed),
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

// WithDelay sets the per-step delay directly.
func WithDelay(d time.Duration) Option {
	return func(o *Options) {
		if d >= 0 {
			o.Delay = d
		}
	}
}

// WithSpeed derives the per-step delay from the 1..10 speed dial.
func WithSpeed(speed int) Option {
	return func(o *Options) {
		o.Delay = domain.DelayForSpeed(speed)
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
