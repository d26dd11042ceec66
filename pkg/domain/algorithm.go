package domain

import (
	"fmt"
	"time"
)

// Algorithm names one of the supported sorting or pathfinding algorithms.
type Algorithm string

const (
	AlgorithmBubble Algorithm = "bubble"
	AlgorithmQuick  Algorithm = "quick"
	AlgorithmMerge  Algorithm = "merge"
	AlgorithmHeap   Algorithm = "heap"

	AlgorithmDijkstra Algorithm = "dijkstra"
	AlgorithmAStar    Algorithm = "astar"
	AlgorithmBFS      Algorithm = "bfs"
	AlgorithmDFS      Algorithm = "dfs"
)

// SortingAlgorithms lists the sorting algorithms in menu order.
var SortingAlgorithms = []Algorithm{AlgorithmBubble, AlgorithmQuick, AlgorithmMerge, AlgorithmHeap}

// PathfindingAlgorithms lists the pathfinding algorithms in menu order.
var PathfindingAlgorithms = []Algorithm{AlgorithmDijkstra, AlgorithmAStar, AlgorithmBFS, AlgorithmDFS}

// Mode returns the mode an algorithm belongs to, or "" if it is unknown.
func (a Algorithm) Mode() Mode {
	for _, s := range SortingAlgorithms {
		if a == s {
			return ModeSorting
		}
	}
	for _, p := range PathfindingAlgorithms {
		if a == p {
			return ModePathfinding
		}
	}
	return ""
}

// ParseAlgorithm validates name against the algorithms of mode.
func ParseAlgorithm(mode Mode, name string) (Algorithm, error) {
	a := Algorithm(name)
	if a.Mode() != mode || mode == "" {
		return "", fmt.Errorf("%w: %q for mode %q", ErrInvalidAlgorithm, name, mode)
	}
	return a, nil
}

// Speed dial bounds.
const (
	MinSpeed     = 1
	MaxSpeed     = 10
	DefaultSpeed = 5
)

// ClampSpeed forces speed into [MinSpeed, MaxSpeed].
func ClampSpeed(speed int) int {
	if speed < MinSpeed {
		return MinSpeed
	}
	if speed > MaxSpeed {
		return MaxSpeed
	}
	return speed
}

// DelayForSpeed maps the speed dial to the artificial per-step delay of a sorting run.
// Speed 1 gives 150ms and speed 10 gives 15ms, linear in between.
func DelayForSpeed(speed int) time.Duration {
	return time.Duration(11-ClampSpeed(speed)) * 15 * time.Millisecond
}
