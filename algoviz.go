package algoviz

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/algoviz/internal/logging"
	"github.com/aretw0/algoviz/pkg/control"
	"github.com/aretw0/algoviz/pkg/controller"
	"github.com/aretw0/algoviz/pkg/domain"
	"github.com/aretw0/algoviz/pkg/generator"
	"github.com/aretw0/algoviz/pkg/observability"
	"github.com/aretw0/algoviz/pkg/ports"
)

// Engine is the high-level entry point for the algoviz library.
// It wires the run controller to a generator, an optional subject store, metrics,
// the event stream and any number of renderers.
type Engine struct {
	controller *controller.Controller
	generator  ports.Generator
	store      ports.SubjectStore
	metrics    *observability.Metrics
	streams    *observability.StreamManager
	hooks      []domain.LifecycleHooks
	spec       *controller.SubjectSpec
	sleeper    control.Sleeper
	logger     *slog.Logger

	mu        sync.RWMutex
	renderers map[int]ports.Renderer
	nextID    int
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithGenerator replaces the in-process random generator (for instance with the
// HTTP client of a remote generation service).
func WithGenerator(g ports.Generator) Option {
	return func(e *Engine) {
		e.generator = g
	}
}

// WithStore keeps the current subjects in store.
func WithStore(s ports.SubjectStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLifecycleHooks registers observability hooks. It may be given more than once.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = append(e.hooks, hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSubjectSpec sets the generation parameters.
func WithSubjectSpec(spec controller.SubjectSpec) Option {
	return func(e *Engine) {
		e.spec = &spec
	}
}

// WithSleeper replaces the wall-clock step delay. Tests pass control.NoSleep.
func WithSleeper(s control.Sleeper) Option {
	return func(e *Engine) {
		e.sleeper = s
	}
}

// New initializes a new Engine. It has no subjects until Prepare (or Reset) runs.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{renderers: make(map[int]ports.Renderer)}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil down, which would overwrite defaults)
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.generator == nil {
		eng.generator = generator.New()
	}
	eng.metrics = observability.NewMetrics()
	eng.streams = observability.NewStreamManager(observability.WithStreamLogger(eng.logger))

	hooks := append([]domain.LifecycleHooks{}, eng.hooks...)
	hooks = append(hooks, eng.metrics.Hooks(), eng.streams.Hooks(), eng.rendererHooks())

	ctrlOpts := []controller.Option{
		controller.WithLogger(eng.logger),
		controller.WithHooks(domain.MergeHooks(hooks...)),
	}
	if eng.store != nil {
		ctrlOpts = append(ctrlOpts, controller.WithStore(eng.store))
	}
	if eng.spec != nil {
		ctrlOpts = append(ctrlOpts, controller.WithSubjectSpec(*eng.spec))
	}
	if eng.sleeper != nil {
		ctrlOpts = append(ctrlOpts, controller.WithSleeper(eng.sleeper))
	}
	eng.controller = controller.New(eng.generator, ctrlOpts...)
	return eng, nil
}

// Prepare restores the subjects from the store or generates them.
func (e *Engine) Prepare(ctx context.Context) error {
	return e.controller.Prepare(ctx)
}

// Start begins a run, or toggles the pause of the run in flight.
func (e *Engine) Start(ctx context.Context, p controller.Params) error {
	return e.controller.Start(ctx, p)
}

// Run starts a run and blocks until it returns.
func (e *Engine) Run(ctx context.Context, p controller.Params) (domain.RunResult, error) {
	return e.controller.Run(ctx, p)
}

// TogglePause flips between running and paused.
func (e *Engine) TogglePause(ctx context.Context) (domain.RunState, error) {
	return e.controller.TogglePause(ctx)
}

// Reset cancels the run in flight and regenerates the subject of mode.
func (e *Engine) Reset(ctx context.Context, mode domain.Mode) error {
	return e.controller.Reset(ctx, mode)
}

// Cancel stops the run in flight and keeps the subject.
func (e *Engine) Cancel(ctx context.Context) error {
	return e.controller.Cancel(ctx)
}

// Wait blocks until the current run returns.
func (e *Engine) Wait(ctx context.Context) (domain.RunResult, error) {
	return e.controller.Wait(ctx)
}

// Status returns a snapshot of the controller.
func (e *Engine) Status() domain.Snapshot {
	return e.controller.Status()
}

// Sequence returns a copy of the current sequence.
func (e *Engine) Sequence() domain.Sequence {
	return e.controller.Sequence()
}

// Grid returns a copy of the current grid.
func (e *Engine) Grid() *domain.Grid {
	return e.controller.Grid()
}

// UseSequence installs seq as the current sequence.
func (e *Engine) UseSequence(ctx context.Context, seq domain.Sequence) error {
	return e.controller.UseSequence(ctx, seq)
}

// UseGrid installs g as the current grid.
func (e *Engine) UseGrid(ctx context.Context, g *domain.Grid) error {
	return e.controller.UseGrid(ctx, g)
}

// Generator returns the generator used for new subjects.
func (e *Engine) Generator() ports.Generator {
	return e.generator
}

// Streams returns the event fan-out served as Server-Sent Events.
func (e *Engine) Streams() *observability.StreamManager {
	return e.streams
}

// Metrics returns the Prometheus collectors of the engine.
func (e *Engine) Metrics() *observability.Metrics {
	return e.metrics
}

// Observe attaches r to every subsequent step and result. The returned func detaches it.
func (e *Engine) Observe(r ports.Renderer) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.renderers[id] = r
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.renderers, id)
	}
}

func (e *Engine) rendererHooks() domain.LifecycleHooks {
	each := func(fn func(ports.Renderer)) {
		e.mu.RLock()
		defer e.mu.RUnlock()
		for _, r := range e.renderers {
			fn(r)
		}
	}
	return domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, ev *domain.RunEvent) {
			each(func(r ports.Renderer) {
				if sr, ok := r.(ports.StartRenderer); ok {
					sr.RenderStart(*ev)
				}
			})
		},
		OnStep: func(_ context.Context, ev domain.StepEvent) {
			each(func(r ports.Renderer) { r.RenderStep(ev) })
		},
		OnRunFinish: func(_ context.Context, ev *domain.RunEvent) {
			if ev.Result == nil {
				return
			}
			each(func(r ports.Renderer) { r.RenderResult(*ev.Result) })
		},
	}
}
