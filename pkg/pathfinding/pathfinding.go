package pathfinding

import (
	"context"
	"time"

	"github.com/aretw0/algoviz/pkg/control"
	"github.com/aretw0/algoviz/pkg/domain"
)

// offsets lists the 4-connected moves in expansion order: up, down, left, right.
var offsets = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// search is the per-run state. visited and prev are flat slices indexed by
// Grid.Index; prev holds -1 for cells without a predecessor.
type search struct {
	grid  *domain.Grid
	step  *control.Stepper
	delay time.Duration

	start, end int
	visited    []bool
	prev       []int
	explored   int
	found      bool
	halted     bool
}

// Run searches grid for a path from Start to End with the named algorithm. The grid
// is only read. An unknown algorithm fails with domain.ErrInvalidAlgorithm and a
// malformed grid with domain.ErrInvalidGrid, both before any cell is explored.
//
// RunResult.PathLength counts the cells of the path including both endpoints; zero
// means End is unreachable. A cancelled run returns the nodes explored so far.
func Run(ctx context.Context, grid *domain.Grid, algorithm domain.Algorithm, opts ...Option) (domain.RunResult, error) {
	algo, err := domain.ParseAlgorithm(domain.ModePathfinding, string(algorithm))
	if err != nil {
		return domain.RunResult{}, err
	}
	if err := grid.Validate(); err != nil {
		return domain.RunResult{}, err
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := newSearch(ctx, grid, o)
	o.Logger.Debug("search started",
		"algorithm", algo,
		"rows", grid.Rows,
		"cols", grid.Cols,
		"start", grid.Start.String(),
		"end", grid.End.String(),
	)
	begin := time.Now()

	switch algo {
	case domain.AlgorithmDijkstra:
		s.dijkstra()
	case domain.AlgorithmAStar:
		s.astar()
	case domain.AlgorithmBFS:
		s.bfs()
	case domain.AlgorithmDFS:
		s.dfs()
	}

	res := domain.RunResult{
		Mode:          domain.ModePathfinding,
		Algorithm:     algo,
		NodesExplored: s.explored,
		Elapsed:       time.Since(begin),
		Cancelled:     s.halted,
	}
	if s.found {
		res.Path = s.path()
		res.PathLength = len(res.Path)
		s.step.Notify(domain.StepEvent{
			Mode:          domain.ModePathfinding,
			Kind:          domain.StepPathFound,
			Path:          res.Path,
			NodesExplored: s.explored,
		})
	}
	o.Logger.Debug("search finished",
		"algorithm", algo,
		"explored", res.NodesExplored,
		"path_length", res.PathLength,
		"cancelled", res.Cancelled,
	)
	return res, nil
}

func newSearch(ctx context.Context, grid *domain.Grid, o Options) *search {
	n := grid.Size()
	s := &search{
		grid:    grid,
		step:    control.NewStepper(ctx, o.Clock, o.Token, o.OnStep),
		delay:   o.Delay,
		start:   grid.Index(grid.Start),
		end:     grid.Index(grid.End),
		visited: make([]bool, n),
		prev:    make([]int, n),
	}
	for i := range s.prev {
		s.prev[i] = -1
	}
	return s
}

// stop is the cancellation check point, consulted before every frontier pop.
func (s *search) stop() bool {
	if !s.halted && s.step.Cancelled() {
		s.halted = true
	}
	return s.halted
}

// neighbours returns the open, unvisited cells adjacent to idx in expansion order.
func (s *search) neighbours(idx int) []int {
	p := s.grid.PointAt(idx)
	out := make([]int, 0, len(offsets))
	for _, d := range offsets {
		q := domain.Point{Row: p.Row + d[0], Col: p.Col + d[1]}
		if !s.grid.Open(q) {
			continue
		}
		if j := s.grid.Index(q); !s.visited[j] {
			out = append(out, j)
		}
	}
	return out
}

// seed reports the start cell entering the frontier.
func (s *search) seed() {
	s.step.Notify(domain.StepEvent{
		Mode:     domain.ModePathfinding,
		Kind:     domain.StepFrontierAdd,
		Frontier: []domain.Point{s.grid.Start},
	})
}

// visit marks idx explored. It reports true when idx is the end cell, in which case
// the caller must stop without expanding it.
func (s *search) visit(idx int) bool {
	s.visited[idx] = true
	s.explored++
	if idx == s.end {
		s.found = true
	}
	return s.found
}

// emitVisit reports a visit together with the cells it pushed, then suspends.
func (s *search) emitVisit(idx int, added []int) {
	cell := s.grid.PointAt(idx)
	var frontier []domain.Point
	if len(added) > 0 {
		frontier = make([]domain.Point, len(added))
		for i, j := range added {
			frontier[i] = s.grid.PointAt(j)
		}
	}
	s.step.Step(domain.StepEvent{
		Mode:          domain.ModePathfinding,
		Kind:          domain.StepVisit,
		Cell:          &cell,
		Frontier:      frontier,
		NodesExplored: s.explored,
	}, s.delay)
}

// path walks prev back from the end cell and returns Start..End inclusive.
func (s *search) path() []domain.Point {
	var rev []domain.Point
	for at := s.end; at != -1; at = s.prev[at] {
		rev = append(rev, s.grid.PointAt(at))
		if at == s.start {
			break
		}
	}
	out := make([]domain.Point, len(rev))
	for i, p := range rev {
		out[len(rev)-1-i] = p
	}
	return out
}
