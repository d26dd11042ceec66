package controller

import (
	"log/slog"

	"github.com/aretw0/algoviz/pkg/control"
	"github.com/aretw0/algoviz/pkg/domain"
	"github.com/aretw0/algoviz/pkg/generator"
	"github.com/aretw0/algoviz/pkg/ports"
)

// Params selects what Start runs.
type Params struct {
	Mode      domain.Mode      `json:"mode"`
	Algorithm domain.Algorithm `json:"algorithm"`
	// Speed is the 1..10 dial of sorting runs. Out-of-range values are clamped;
	// zero means domain.DefaultSpeed. Pathfinding runs use a fixed delay.
	Speed int `json:"speed,omitempty"`
}

// SubjectSpec holds the parameters used whenever the controller generates a subject.
type SubjectSpec struct {
	Size             int     `json:"size" yaml:"size"`
	Min              int     `json:"min" yaml:"min"`
	Max              int     `json:"max" yaml:"max"`
	Rows             int     `json:"rows" yaml:"rows"`
	Cols             int     `json:"cols" yaml:"cols"`
	ObstacleFraction float64 `json:"obstacle_fraction" yaml:"obstacle_fraction"`
}

// DefaultSubjectSpec mirrors the defaults of the generation service.
func DefaultSubjectSpec() SubjectSpec {
	return SubjectSpec{
		Size:             generator.DefaultSize,
		Min:              generator.DefaultMin,
		Max:              generator.DefaultMax,
		Rows:             generator.DefaultRows,
		Cols:             generator.DefaultCols,
		ObstacleFraction: generator.DefaultObstacleFraction,
	}
}

// Option configures the Controller.
type Option func(*Controller)

// WithStore keeps every generated subject in store and enables Restore.
func WithStore(store ports.SubjectStore) Option {
	return func(c *Controller) {
		c.store = store
	}
}

// WithHooks registers lifecycle hooks. It may be given more than once.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hookSets = append(c.hookSets, h)
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSubjectSpec sets the generation parameters.
func WithSubjectSpec(spec SubjectSpec) Option {
	return func(c *Controller) {
		c.spec = spec
	}
}

// WithSleeper replaces the wall-clock delay of every run. Tests pass control.NoSleep.
func WithSleeper(s control.Sleeper) Option {
	return func(c *Controller) {
		c.sleeper = s
	}
}
