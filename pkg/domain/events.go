package domain

import (
	"context"
	"time"
)

// StepKind defines the category of a step event.
type StepKind string

const (
	// Sorting
	StepCompare   StepKind = "compare"
	StepSwap      StepKind = "swap"
	StepOverwrite StepKind = "overwrite"
	StepSorted    StepKind = "sorted"

	// Pathfinding
	StepFrontierAdd StepKind = "frontier_add"
	StepVisit       StepKind = "visit"
	StepPathFound   StepKind = "path_found"
)

// StepEvent is the snapshot emitted after each atomic operation. Events are handed to
// observers synchronously and are never retained by the engine.
type StepEvent struct {
	Mode Mode     `json:"mode"`
	Kind StepKind `json:"kind"`
	Seq  int      `json:"seq"`

	// Sorting: indices touched, the values written at them (swap and overwrite only)
	// and the running tally.
	Indices     []int `json:"indices,omitempty"`
	Values      []int `json:"values,omitempty"`
	Comparisons int   `json:"comparisons,omitempty"`
	Swaps       int   `json:"swaps,omitempty"`

	// Pathfinding: visited cell, newly added frontier cells and the final path.
	Cell          *Point  `json:"cell,omitempty"`
	Frontier      []Point `json:"frontier,omitempty"`
	Path          []Point `json:"path,omitempty"`
	NodesExplored int     `json:"nodes_explored,omitempty"`
}

// Mutates reports whether the event corresponds to a write on the sequence.
func (e StepEvent) Mutates() bool {
	return e.Kind == StepSwap || e.Kind == StepOverwrite
}

// RunEvent describes the start or the end of a run. On start it carries a copy of the
// subject so observers can replay step events onto their own view.
type RunEvent struct {
	Timestamp time.Time  `json:"timestamp"`
	RunID     string     `json:"run_id"`
	Mode      Mode       `json:"mode"`
	Algorithm Algorithm  `json:"algorithm"`
	State     RunState   `json:"state"`
	Sequence  Sequence   `json:"sequence,omitempty"`
	Grid      *Grid      `json:"grid,omitempty"`
	Result    *RunResult `json:"result,omitempty"`
}

// StateEvent describes a controller state transition.
type StateEvent struct {
	Timestamp time.Time `json:"timestamp"`
	From      RunState  `json:"from"`
	To        RunState  `json:"to"`
}

// LifecycleHooks defines callbacks for engine observability. Every field is optional.
// Hooks run on the runner goroutine and must not block.
type LifecycleHooks struct {
	OnRunStart    func(context.Context, *RunEvent)
	OnStep        func(context.Context, StepEvent)
	OnRunFinish   func(context.Context, *RunEvent)
	OnStateChange func(context.Context, *StateEvent)
}

// MergeHooks fans every callback out to all of the given hook sets, in order.
func MergeHooks(all ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *RunEvent) {
			for _, h := range all {
				if h.OnRunStart != nil {
					h.OnRunStart(ctx, e)
				}
			}
		},
		OnStep: func(ctx context.Context, e StepEvent) {
			for _, h := range all {
				if h.OnStep != nil {
					h.OnStep(ctx, e)
				}
			}
		},
		OnRunFinish: func(ctx context.Context, e *RunEvent) {
			for _, h := range all {
				if h.OnRunFinish != nil {
					h.OnRunFinish(ctx, e)
				}
			}
		},
		OnStateChange: func(ctx context.Context, e *StateEvent) {
			for _, h := range all {
				if h.OnStateChange != nil {
					h.OnStateChange(ctx, e)
				}
			}
		},
	}
}
