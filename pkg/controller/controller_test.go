package controller_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/algoviz/pkg/adapters/memory"
	"github.com/aretw0/algoviz/pkg/control"
	"github.com/aretw0/algoviz/pkg/controller"
	"github.com/aretw0/algoviz/pkg/domain"
	"github.com/aretw0/algoviz/pkg/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepGate is a Sleeper that parks every step until the test releases it.
type stepGate struct {
	release chan struct{}
	once    sync.Once
}

func newStepGate() *stepGate {
	return &stepGate{release: make(chan struct{})}
}

func (g *stepGate) sleep(ctx context.Context, _ time.Duration) {
	select {
	case <-g.release:
	case <-ctx.Done():
	}
}

func (g *stepGate) open() {
	g.once.Do(func() { close(g.release) })
}

// recorder collects lifecycle hooks.
type recorder struct {
	mu       sync.Mutex
	states   []domain.RunState
	starts   []*domain.RunEvent
	finishes []*domain.RunEvent
	steps    int
}

func (r *recorder) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.starts = append(r.starts, e)
		},
		OnStep: func(context.Context, domain.StepEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.steps++
		},
		OnRunFinish: func(_ context.Context, e *domain.RunEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.finishes = append(r.finishes, e)
		},
		OnStateChange: func(_ context.Context, e *domain.StateEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.states = append(r.states, e.To)
		},
	}
}

func (r *recorder) stepCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.steps
}

func (r *recorder) stateLog() []domain.RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.RunState(nil), r.states...)
}

type failingGenerator struct{}

func (failingGenerator) GenerateSequence(context.Context, int, int, int) (domain.Sequence, error) {
	return nil, errors.New("service unavailable")
}

func (failingGenerator) GenerateGrid(context.Context, int, int, float64) (*domain.Grid, error) {
	return nil, errors.New("service unavailable")
}

func newController(t *testing.T, opts ...controller.Option) *controller.Controller {
	t.Helper()
	opts = append([]controller.Option{controller.WithSleeper(control.NoSleep)}, opts...)
	c := controller.New(generator.New(generator.WithSeed(7)), opts...)
	require.NoError(t, c.Prepare(context.Background()))
	return c
}

var bubble = controller.Params{Mode: domain.ModeSorting, Algorithm: domain.AlgorithmBubble}

func TestController_RunSorting(t *testing.T) {
	rec := &recorder{}
	c := newController(t, controller.WithHooks(rec.hooks()))
	require.NoError(t, c.UseSequence(context.Background(), domain.Sequence{5, 3, 8, 1, 9, 2}))

	res, err := c.Run(context.Background(), bubble)
	require.NoError(t, err)

	assert.False(t, res.Cancelled)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 15, res.Comparisons)
	assert.Equal(t, domain.Sequence{1, 2, 3, 5, 8, 9}, c.Sequence())

	status := c.Status()
	assert.Equal(t, domain.StateIdle, status.State)
	require.NotNil(t, status.Last)
	assert.Equal(t, res.RunID, status.Last.RunID)
	assert.Equal(t, res.RunID, status.RunID)
	assert.Positive(t, status.Steps)

	assert.Equal(t, []domain.RunState{domain.StateRunning, domain.StateCompleted, domain.StateIdle}, rec.stateLog())
	require.Len(t, rec.starts, 1)
	assert.Equal(t, domain.Sequence{5, 3, 8, 1, 9, 2}, rec.starts[0].Sequence, "start event carries the unsorted subject")
	require.Len(t, rec.finishes, 1)
	assert.Equal(t, domain.StateCompleted, rec.finishes[0].State)
	assert.Equal(t, status.Steps, rec.stepCount())
}

func TestController_RunPathfinding(t *testing.T) {
	c := newController(t)
	grid, err := domain.NewGrid([][]int{
		{0, 0, 0},
		{1, 1, 0},
		{0, 0, 0},
	}, domain.Point{Row: 0, Col: 0}, domain.Point{Row: 2, Col: 0})
	require.NoError(t, err)
	require.NoError(t, c.UseGrid(context.Background(), grid))

	res, err := c.Run(context.Background(), controller.Params{Mode: domain.ModePathfinding, Algorithm: domain.AlgorithmBFS})
	require.NoError(t, err)

	assert.Equal(t, 7, res.PathLength)
	assert.Equal(t, 7, res.NodesExplored)
	assert.Equal(t, grid.Matrix(), c.Grid().Matrix(), "grid is never modified")
}

func TestController_StartRefusals(t *testing.T) {
	c := controller.New(generator.New(), controller.WithSleeper(control.NoSleep))
	ctx := context.Background()

	err := c.Start(ctx, bubble)
	assert.ErrorIs(t, err, domain.ErrNoSubject)

	require.NoError(t, c.Prepare(ctx))

	err = c.Start(ctx, controller.Params{Mode: domain.ModeSorting, Algorithm: "bogo"})
	assert.ErrorIs(t, err, domain.ErrInvalidAlgorithm)

	err = c.Start(ctx, controller.Params{Mode: domain.ModePathfinding, Algorithm: domain.AlgorithmMerge})
	assert.ErrorIs(t, err, domain.ErrInvalidAlgorithm)

	err = c.Start(ctx, controller.Params{Mode: "painting", Algorithm: domain.AlgorithmMerge})
	assert.ErrorIs(t, err, domain.ErrInvalidMode)

	assert.Equal(t, domain.StateIdle, c.Status().State)

	_, err = c.TogglePause(ctx)
	assert.ErrorIs(t, err, domain.ErrNotRunning)

	_, err = c.Wait(ctx)
	assert.ErrorIs(t, err, domain.ErrNotRunning)
}

func TestController_StartTogglesPause(t *testing.T) {
	gate := newStepGate()
	rec := &recorder{}
	c := newController(t, controller.WithSleeper(gate.sleep), controller.WithHooks(rec.hooks()))
	ctx := context.Background()

	require.NoError(t, c.Start(ctx, bubble))
	require.Eventually(t, func() bool { return rec.stepCount() == 1 }, time.Second, time.Millisecond)

	// A second start, even for the other mode, toggles the pause of the run in flight.
	require.NoError(t, c.Start(ctx, controller.Params{Mode: domain.ModePathfinding, Algorithm: domain.AlgorithmAStar}))
	assert.Equal(t, domain.StatePaused, c.Status().State)
	assert.Equal(t, domain.ModeSorting, c.Status().Mode)

	gate.open()
	// The runner finishes its sleep, then parks on the pause gate.
	time.Sleep(20 * time.Millisecond)
	frozen := rec.stepCount()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, frozen, rec.stepCount(), "no step is taken while paused")
	assert.LessOrEqual(t, frozen, 2)

	state, err := c.TogglePause(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StateRunning, state)

	res, err := c.Wait(ctx)
	require.NoError(t, err)
	assert.False(t, res.Cancelled)
	assert.True(t, c.Sequence().IsSorted())
	assert.Equal(t, domain.StateIdle, c.Status().State)
}

func TestController_ResetWhilePaused(t *testing.T) {
	gate := newStepGate()
	rec := &recorder{}
	c := newController(t, controller.WithSleeper(gate.sleep), controller.WithHooks(rec.hooks()))
	ctx := context.Background()
	before := c.Sequence()

	require.NoError(t, c.Start(ctx, bubble))
	require.Eventually(t, func() bool { return rec.stepCount() >= 1 }, time.Second, time.Millisecond)
	_, err := c.TogglePause(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Reset(ctx, domain.ModeSorting))

	assert.Equal(t, domain.StateIdle, c.Status().State)
	res, err := c.Wait(ctx)
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.Less(t, res.Comparisons, 190)

	assert.NotEqual(t, before, c.Sequence(), "subject was regenerated")
	assert.Equal(t, []domain.RunState{
		domain.StateRunning, domain.StatePaused, domain.StateCancelled, domain.StateIdle,
	}, rec.stateLog())
	require.Len(t, rec.finishes, 1)
	assert.Equal(t, domain.StateCancelled, rec.finishes[0].State)

	// a new run can start right away
	gate.open()
	_, err = c.Run(ctx, bubble)
	assert.NoError(t, err)
}

func TestController_ResetIdleRegenerates(t *testing.T) {
	c := newController(t)
	before := c.Grid()

	require.NoError(t, c.Reset(context.Background(), domain.ModePathfinding))
	assert.NotEqual(t, before.Cells, c.Grid().Cells)
	assert.Equal(t, domain.StateIdle, c.Status().State)
}

func TestController_ResetGenerationFailure(t *testing.T) {
	c := controller.New(failingGenerator{}, controller.WithSleeper(control.NoSleep))
	ctx := context.Background()
	require.NoError(t, c.UseSequence(ctx, domain.Sequence{2, 1}))

	err := c.Reset(ctx, domain.ModeSorting)
	assert.ErrorIs(t, err, domain.ErrNoSubject)

	status := c.Status()
	assert.Equal(t, domain.StateIdle, status.State)
	assert.False(t, status.HasArray)
	assert.ErrorIs(t, c.Start(ctx, bubble), domain.ErrNoSubject)
}

func TestController_RunContextCancel(t *testing.T) {
	// the first three steps pass, the fourth parks until cancelled
	var ticks atomic.Int32
	sleeper := func(ctx context.Context, _ time.Duration) {
		if ticks.Add(1) <= 3 {
			return
		}
		<-ctx.Done()
	}
	c := newController(t, controller.WithSleeper(sleeper))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for ticks.Load() < 4 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	res, err := c.Run(ctx, bubble)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, res.Cancelled)
	// the parked step may be a comparison whose swap still completes
	assert.GreaterOrEqual(t, res.Comparisons+res.Swaps, 4)
	assert.LessOrEqual(t, res.Comparisons+res.Swaps, 5)
	assert.Equal(t, domain.StateIdle, c.Status().State)
}

func TestController_RunRefusesWhenActive(t *testing.T) {
	gate := newStepGate()
	c := newController(t, controller.WithSleeper(gate.sleep))
	ctx := context.Background()

	require.NoError(t, c.Start(ctx, bubble))
	_, err := c.Run(ctx, bubble)
	assert.ErrorIs(t, err, domain.ErrAlreadyRunning)
	assert.ErrorIs(t, c.Regenerate(ctx, domain.ModeSorting), domain.ErrAlreadyRunning)
	assert.ErrorIs(t, c.UseSequence(ctx, domain.Sequence{1}), domain.ErrAlreadyRunning)

	gate.open()
	_, err = c.Wait(ctx)
	require.NoError(t, err)
}

func TestController_StoreRestore(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	first := newController(t, controller.WithStore(store))
	seq, grid := first.Sequence(), first.Grid()

	second := controller.New(failingGenerator{}, controller.WithStore(store))
	require.NoError(t, second.Prepare(ctx), "restored subjects need no generation")
	assert.Equal(t, seq, second.Sequence())
	assert.Equal(t, grid.Cells, second.Grid().Cells)
}

// corruptGridStore serves a grid whose cells do not match its dimensions.
type corruptGridStore struct {
	*memory.Store
}

func (corruptGridStore) LoadGrid(context.Context) (*domain.Grid, error) {
	return &domain.Grid{Rows: 2, Cols: 2, Cells: []domain.Cell{domain.Open}}, nil
}

func TestController_RestoreDiscardsInvalidGrid(t *testing.T) {
	ctx := context.Background()
	store := corruptGridStore{memory.NewStore()}
	require.NoError(t, store.SaveSequence(ctx, domain.Sequence{3, 1, 2}))

	c := controller.New(failingGenerator{}, controller.WithStore(store), controller.WithSleeper(control.NoSleep))
	require.NoError(t, c.Restore(ctx))
	assert.Equal(t, domain.Sequence{3, 1, 2}, c.Sequence())
	assert.Nil(t, c.Grid())

	err := c.Start(ctx, controller.Params{Mode: domain.ModePathfinding, Algorithm: domain.AlgorithmBFS})
	assert.ErrorIs(t, err, domain.ErrNoSubject)
	assert.Equal(t, domain.StateIdle, c.Status().State)

	regenerated := newController(t, controller.WithStore(corruptGridStore{memory.NewStore()}))
	require.NoError(t, regenerated.Grid().Validate())
}

func TestController_SubjectSpec(t *testing.T) {
	spec := controller.SubjectSpec{Size: 7, Min: 10, Max: 20, Rows: 4, Cols: 9, ObstacleFraction: 0}
	c := newController(t, controller.WithSubjectSpec(spec))

	seq := c.Sequence()
	assert.Len(t, seq, 7)
	for _, v := range seq {
		assert.GreaterOrEqual(t, v, 10)
		assert.LessOrEqual(t, v, 20)
	}
	assert.Equal(t, 4, c.Grid().Rows)
	assert.Equal(t, 9, c.Grid().Cols)
}

func TestController_Cancel(t *testing.T) {
	gate := newStepGate()
	c := newController(t, controller.WithSleeper(gate.sleep))
	ctx := context.Background()
	before := c.Sequence()

	assert.ErrorIs(t, c.Cancel(ctx), domain.ErrNotRunning)

	require.NoError(t, c.Start(ctx, bubble))
	require.NoError(t, c.Cancel(ctx))

	res, err := c.Wait(ctx)
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.Equal(t, domain.StateIdle, c.Status().State)
	assert.Equal(t, before, c.Sequence(), "cancel keeps the subject")
}
