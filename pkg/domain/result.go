package domain

import "time"

// RunResult is the terminal summary of a run. For a cancelled run it holds the
// best-effort counts accumulated up to the cancellation check point.
type RunResult struct {
	Mode      Mode          `json:"mode"`
	Algorithm Algorithm     `json:"algorithm"`
	RunID     string        `json:"run_id,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`
	Cancelled bool          `json:"cancelled"`

	// Sorting
	Comparisons int `json:"comparisons"`
	Swaps       int `json:"swaps"`

	// Pathfinding. PathLength == 0 signals that no path was found.
	NodesExplored int     `json:"nodes_explored"`
	PathLength    int     `json:"path_length"`
	Path          []Point `json:"path,omitempty"`
}

// ElapsedMs returns the elapsed time in whole milliseconds.
func (r RunResult) ElapsedMs() int64 {
	return r.Elapsed.Milliseconds()
}

// Found reports whether a pathfinding run reached the end cell.
func (r RunResult) Found() bool {
	return r.PathLength > 0
}
