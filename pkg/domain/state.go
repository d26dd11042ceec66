package domain

import "time"

// RunState defines the lifecycle position of the single run owned by a controller.
type RunState string

const (
	StateIdle      RunState = "idle"      // No run in flight; a subject may be ready
	StateRunning   RunState = "running"   // A runner is executing steps
	StatePaused    RunState = "paused"    // A runner is parked on the pause gate
	StateCancelled RunState = "cancelled" // Reset requested; runner is unwinding
	StateCompleted RunState = "completed" // Runner returned normally; stats reported
)

// Active reports whether a runner is in flight (running or paused).
func (s RunState) Active() bool {
	return s == StateRunning || s == StatePaused
}

// CanTransitionTo checks whether the controller may move from s to target.
func (s RunState) CanTransitionTo(target RunState) bool {
	switch s {
	case StateIdle:
		return target == StateRunning
	case StateRunning:
		return target == StatePaused || target == StateCancelled || target == StateCompleted
	case StatePaused:
		return target == StateRunning || target == StateCancelled || target == StateCompleted
	case StateCancelled, StateCompleted:
		return target == StateIdle
	}
	return false
}

func (s RunState) String() string {
	return string(s)
}

// Mode selects which family of algorithms a run belongs to.
type Mode string

const (
	ModeSorting     Mode = "sorting"
	ModePathfinding Mode = "pathfinding"
)

// ParseMode validates a mode name.
func ParseMode(name string) (Mode, error) {
	switch Mode(name) {
	case ModeSorting, ModePathfinding:
		return Mode(name), nil
	}
	return "", ErrInvalidMode
}

// Snapshot is a point-in-time view of a controller, safe to serialize.
type Snapshot struct {
	State     RunState   `json:"state"`
	Mode      Mode       `json:"mode,omitempty"`
	Algorithm Algorithm  `json:"algorithm,omitempty"`
	RunID     string     `json:"run_id,omitempty"`
	StartedAt time.Time  `json:"started_at,omitempty"`
	Steps     int        `json:"steps"`
	Last      *RunResult `json:"last,omitempty"`
	HasArray  bool       `json:"has_array"`
	HasGrid   bool       `json:"has_grid"`
}
