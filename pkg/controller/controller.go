package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/algoviz/internal/logging"
	"github.com/aretw0/algoviz/pkg/control"
	"github.com/aretw0/algoviz/pkg/domain"
	"github.com/aretw0/algoviz/pkg/pathfinding"
	"github.com/aretw0/algoviz/pkg/ports"
	"github.com/aretw0/algoviz/pkg/sorting"
	"github.com/google/uuid"
)

// run is the bookkeeping of one runner goroutine.
type run struct {
	id        string
	params    Params
	startedAt time.Time
	clock     *control.Clock
	token     *control.Token
	done      chan struct{} // closed after the controller is back to idle
	resetting bool          // a Reset owns the cancelled → idle transition

	result domain.RunResult // written before done is closed
	steps  atomic.Int64
}

// Controller is the run/pause/cancel state machine. Safe for concurrent use.
type Controller struct {
	gen      ports.Generator
	store    ports.SubjectStore
	hookSets []domain.LifecycleHooks
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	spec     SubjectSpec
	sleeper  control.Sleeper

	mu    sync.Mutex
	state domain.RunState
	seq   domain.Sequence
	grid  *domain.Grid
	cur   *run
	last  *domain.RunResult
}

// New creates an idle controller without subjects. Call Prepare, Reset or
// UseSequence/UseGrid before starting a run.
func New(gen ports.Generator, opts ...Option) *Controller {
	c := &Controller{
		gen:    gen,
		logger: logging.NewNop(),
		spec:   DefaultSubjectSpec(),
		state:  domain.StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.hooks = domain.MergeHooks(c.hookSets...)
	return c
}

// Start begins a run of p.Algorithm over the current subject of p.Mode. If a run is
// already in flight in either mode the call toggles its pause instead.
// It fails with domain.ErrInvalidAlgorithm or domain.ErrNoSubject, leaving the
// controller idle.
func (c *Controller) Start(ctx context.Context, p Params) error {
	_, err := c.start(ctx, p, true)
	return err
}

// Run starts a run and waits for it. Unlike Start it refuses with
// domain.ErrAlreadyRunning when a run is in flight. If ctx is done first the run is
// cancelled and its partial result is returned together with ctx.Err().
func (c *Controller) Run(ctx context.Context, p Params) (domain.RunResult, error) {
	r, err := c.start(ctx, p, false)
	if err != nil {
		return domain.RunResult{}, err
	}
	select {
	case <-r.done:
		return r.result, nil
	case <-ctx.Done():
		c.cancel(ctx, r, false)
		<-r.done
		return r.result, ctx.Err()
	}
}

func (c *Controller) start(ctx context.Context, p Params, toggle bool) (*run, error) {
	c.mu.Lock()
	if c.state != domain.StateIdle {
		active := c.state.Active()
		c.mu.Unlock()
		if toggle && active {
			_, err := c.TogglePause(ctx)
			return nil, err
		}
		return nil, domain.ErrAlreadyRunning
	}

	mode, err := domain.ParseMode(string(p.Mode))
	if err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", err, p.Mode)
	}
	algo, err := domain.ParseAlgorithm(mode, string(p.Algorithm))
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if (mode == domain.ModeSorting && c.seq == nil) || (mode == domain.ModePathfinding && c.grid == nil) {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w for %s", domain.ErrNoSubject, mode)
	}
	if mode == domain.ModePathfinding {
		if err := c.grid.Validate(); err != nil {
			c.mu.Unlock()
			return nil, fmt.Errorf("%w: %w", domain.ErrNoSubject, err)
		}
	}

	p.Mode, p.Algorithm = mode, algo
	if p.Speed == 0 {
		p.Speed = domain.DefaultSpeed
	}
	p.Speed = domain.ClampSpeed(p.Speed)

	var clockOpts []control.ClockOption
	if c.sleeper != nil {
		clockOpts = append(clockOpts, control.WithSleeper(c.sleeper))
	}
	r := &run{
		id:        uuid.NewString(),
		params:    p,
		startedAt: time.Now(),
		clock:     control.NewClock(clockOpts...),
		token:     control.NewToken(context.Background()),
		done:      make(chan struct{}),
	}
	c.cur = r

	// The runner owns a private copy; the grid is read-only so a clone is enough.
	var seq domain.Sequence
	var grid *domain.Grid
	if mode == domain.ModeSorting {
		seq = c.seq.Clone()
	} else {
		grid = c.grid.Clone()
	}
	ev := c.setStateLocked(domain.StateRunning)
	c.mu.Unlock()

	hookCtx := context.WithoutCancel(ctx)
	c.emitState(hookCtx, ev)
	c.logger.Info("run started", "run_id", r.id, "mode", mode, "algorithm", algo, "speed", p.Speed)
	if c.hooks.OnRunStart != nil {
		c.hooks.OnRunStart(hookCtx, &domain.RunEvent{
			Timestamp: r.startedAt,
			RunID:     r.id,
			Mode:      mode,
			Algorithm: algo,
			State:     domain.StateRunning,
			Sequence:  seq.Clone(),
			Grid:      grid.Clone(),
		})
	}

	go c.execute(hookCtx, r, seq, grid)
	return r, nil
}

// execute runs on the runner goroutine.
func (c *Controller) execute(ctx context.Context, r *run, seq domain.Sequence, grid *domain.Grid) {
	onStep := func(e domain.StepEvent) {
		r.steps.Add(1)
		if c.hooks.OnStep != nil {
			c.hooks.OnStep(ctx, e)
		}
	}

	var res domain.RunResult
	var err error
	switch r.params.Mode {
	case domain.ModeSorting:
		res, err = sorting.Run(ctx, seq, r.params.Algorithm,
			sorting.WithClock(r.clock),
			sorting.WithToken(r.token),
			sorting.WithSpeed(r.params.Speed),
			sorting.WithOnStep(onStep),
			sorting.WithLogger(c.logger),
		)
	case domain.ModePathfinding:
		res, err = pathfinding.Run(ctx, grid, r.params.Algorithm,
			pathfinding.WithClock(r.clock),
			pathfinding.WithToken(r.token),
			pathfinding.WithOnStep(onStep),
			pathfinding.WithLogger(c.logger),
		)
	}
	if err != nil {
		// Inputs were validated by start; this only guards against a subject that
		// became invalid, which still has to release the controller.
		c.logger.Error("runner refused", "run_id", r.id, "error", err)
		res = domain.RunResult{Mode: r.params.Mode, Algorithm: r.params.Algorithm, Cancelled: true}
	}
	res.RunID = r.id
	r.result = res

	c.mu.Lock()
	c.last = &res
	var events []*domain.StateEvent
	if c.state.Active() {
		events = append(events, c.setStateLocked(domain.StateCompleted))
		if r.params.Mode == domain.ModeSorting && !res.Cancelled {
			c.seq = seq
		}
	}
	c.mu.Unlock()
	for _, ev := range events {
		c.emitState(ctx, ev)
	}

	level := slog.LevelInfo
	if res.Cancelled {
		level = slog.LevelWarn
	}
	c.logger.Log(ctx, level, "run finished",
		"run_id", r.id,
		"elapsed_ms", res.ElapsedMs(),
		"cancelled", res.Cancelled,
		"comparisons", res.Comparisons,
		"swaps", res.Swaps,
		"nodes_explored", res.NodesExplored,
		"path_length", res.PathLength,
	)

	c.mu.Lock()
	finished := c.state
	c.mu.Unlock()
	if c.hooks.OnRunFinish != nil {
		c.hooks.OnRunFinish(ctx, &domain.RunEvent{
			Timestamp: time.Now(),
			RunID:     r.id,
			Mode:      r.params.Mode,
			Algorithm: r.params.Algorithm,
			State:     finished,
			Result:    &res,
		})
	}

	c.mu.Lock()
	var idle *domain.StateEvent
	if c.state == domain.StateCompleted || (c.state == domain.StateCancelled && !r.resetting) {
		idle = c.setStateLocked(domain.StateIdle)
	}
	c.mu.Unlock()
	c.emitState(ctx, idle)
	close(r.done)
}

// TogglePause flips between running and paused and returns the new state.
func (c *Controller) TogglePause(ctx context.Context) (domain.RunState, error) {
	c.mu.Lock()
	if !c.state.Active() {
		c.mu.Unlock()
		return c.Status().State, domain.ErrNotRunning
	}
	target := domain.StateRunning
	if c.cur.clock.Toggle() {
		target = domain.StatePaused
	}
	ev := c.setStateLocked(target)
	id := c.cur.id
	c.mu.Unlock()

	c.logger.Info("run toggled", "run_id", id, "state", target)
	c.emitState(context.WithoutCancel(ctx), ev)
	return target, nil
}

// Reset cancels the run in flight, if any, waits for its runner to return, then
// regenerates the subject of mode and goes back to idle. An empty mode regenerates
// the subject of the cancelled run, or both subjects when idle.
// A generation failure leaves the controller idle without a subject for that mode
// and is reported as domain.ErrNoSubject.
func (c *Controller) Reset(ctx context.Context, mode domain.Mode) error {
	if mode != "" {
		if _, err := domain.ParseMode(string(mode)); err != nil {
			return fmt.Errorf("%w: %q", err, mode)
		}
	}

	c.mu.Lock()
	r := c.cur
	inFlight := r != nil && (c.state.Active() || c.state == domain.StateCancelled || c.state == domain.StateCompleted)
	c.mu.Unlock()

	if inFlight {
		c.cancel(ctx, r, true)
		<-r.done
		if mode == "" {
			mode = r.params.Mode
		}
	}

	var err error
	if mode == "" {
		err = errors.Join(c.regenerate(ctx, domain.ModeSorting), c.regenerate(ctx, domain.ModePathfinding))
	} else {
		err = c.regenerate(ctx, mode)
	}

	c.mu.Lock()
	var ev *domain.StateEvent
	if c.state == domain.StateCancelled {
		ev = c.setStateLocked(domain.StateIdle)
	}
	c.mu.Unlock()
	c.emitState(context.WithoutCancel(ctx), ev)
	return err
}

// cancel moves an active run to cancelled and signals its token.
func (c *Controller) cancel(ctx context.Context, r *run, resetting bool) {
	c.mu.Lock()
	if resetting {
		r.resetting = true
	}
	var ev *domain.StateEvent
	if c.cur == r && c.state.Active() {
		ev = c.setStateLocked(domain.StateCancelled)
	}
	c.mu.Unlock()

	r.token.Cancel()
	if ev != nil {
		c.logger.Info("run cancelled", "run_id", r.id)
		c.emitState(context.WithoutCancel(ctx), ev)
	}
}

// Wait blocks until the current (or last) run returns and yields its result.
func (c *Controller) Wait(ctx context.Context) (domain.RunResult, error) {
	c.mu.Lock()
	r := c.cur
	c.mu.Unlock()
	if r == nil {
		return domain.RunResult{}, domain.ErrNotRunning
	}
	select {
	case <-r.done:
		return r.result, nil
	case <-ctx.Done():
		return domain.RunResult{}, ctx.Err()
	}
}

// Status returns a point-in-time snapshot.
func (c *Controller) Status() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := domain.Snapshot{
		State:    c.state,
		HasArray: c.seq != nil,
		HasGrid:  c.grid != nil,
	}
	if c.last != nil {
		last := *c.last
		s.Last = &last
	}
	if r := c.cur; r != nil {
		s.Mode = r.params.Mode
		s.Algorithm = r.params.Algorithm
		s.RunID = r.id
		s.StartedAt = r.startedAt
		s.Steps = int(r.steps.Load())
	}
	return s
}

// Sequence returns a copy of the current sequence, nil if there is none. While a sort
// is in flight it is the sequence as it was when the run started.
func (c *Controller) Sequence() domain.Sequence {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq.Clone()
}

// Grid returns a copy of the current grid, nil if there is none.
func (c *Controller) Grid() *domain.Grid {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid.Clone()
}

func (c *Controller) setStateLocked(to domain.RunState) *domain.StateEvent {
	from := c.state
	if from == to {
		return nil
	}
	if !from.CanTransitionTo(to) {
		c.logger.Warn("unexpected state transition", "from", from, "to", to)
	}
	c.state = to
	return &domain.StateEvent{Timestamp: time.Now(), From: from, To: to}
}

func (c *Controller) emitState(ctx context.Context, ev *domain.StateEvent) {
	if ev == nil {
		return
	}
	c.logger.Debug("state changed", "from", ev.From, "to", ev.To)
	if c.hooks.OnStateChange != nil {
		c.hooks.OnStateChange(ctx, ev)
	}
}

// Cancel stops the run in flight without regenerating its subject. The runner
// returns at its next check point and the controller goes back to idle.
func (c *Controller) Cancel(ctx context.Context) error {
	c.mu.Lock()
	r := c.cur
	active := c.state.Active()
	c.mu.Unlock()
	if !active {
		return domain.ErrNotRunning
	}
	c.cancel(ctx, r, false)
	return nil
}
