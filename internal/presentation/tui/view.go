package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aretw0/algoviz/pkg/domain"
	"github.com/muesli/termenv"
)

// Palette of the view.
const (
	colorBar      = "#818cf8"
	colorCompare  = "#facc15"
	colorWrite    = "#fb7185"
	colorSorted   = "#4ade80"
	colorObstacle = "#6b7280"
	colorVisited  = "#60a5fa"
	colorFrontier = "#c084fc"
	colorPath     = "#4ade80"
	colorEndpoint = "#f472b6"
)

// View draws sorting bars and pathfinding grids on a terminal. It implements
// ports.Renderer and ports.StartRenderer.
//
// In live mode every step redraws the frame in place. Otherwise only the final frame is
// printed, which keeps piped output readable.
type View struct {
	mu      sync.Mutex
	out     *termenv.Output
	profile *termenv.Profile
	live    bool
	width   int

	mode domain.Mode
	algo domain.Algorithm
	last domain.StepEvent

	// sorting
	seq       []int
	peak      int
	highlight map[int]string
	sorted    []bool

	// pathfinding
	grid     *domain.Grid
	visited  []bool
	frontier []bool
	path     []bool
	current  int
}

// ViewOption configures a View.
type ViewOption func(*View)

// WithLive forces live redraws on or off.
func WithLive(live bool) ViewOption {
	return func(v *View) { v.live = live }
}

// WithWidth overrides the detected terminal width.
func WithWidth(width int) ViewOption {
	return func(v *View) {
		if width > 0 {
			v.width = width
		}
	}
}

// WithProfile sets the color profile, termenv.Ascii disables colors.
func WithProfile(p termenv.Profile) ViewOption {
	return func(v *View) { v.profile = &p }
}

// NewView creates a view writing to w. Live mode and size are detected from w.
func NewView(w io.Writer, opts ...ViewOption) *View {
	v := &View{
		live:    IsTerminal(w),
		current: -1,
	}
	v.width, _ = Size(w)
	for _, opt := range opts {
		opt(v)
	}
	if v.profile != nil {
		v.out = termenv.NewOutput(w, termenv.WithProfile(*v.profile))
	} else {
		v.out = termenv.NewOutput(w)
	}
	return v
}

// RenderStart resets the view to the subject of a new run.
func (v *View) RenderStart(ev domain.RunEvent) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.mode, v.algo = ev.Mode, ev.Algorithm
	v.last = domain.StepEvent{}
	v.highlight = map[int]string{}
	v.seq, v.sorted, v.grid = nil, nil, nil
	v.current = -1

	switch ev.Mode {
	case domain.ModeSorting:
		v.seq = append([]int(nil), ev.Sequence...)
		v.sorted = make([]bool, len(v.seq))
		v.peak = 1
		for _, x := range v.seq {
			v.peak = max(v.peak, x)
		}
	case domain.ModePathfinding:
		if ev.Grid != nil {
			v.grid = ev.Grid.Clone()
			n := v.grid.Size()
			v.visited = make([]bool, n)
			v.frontier = make([]bool, n)
			v.path = make([]bool, n)
		}
	}
	if v.live {
		v.out.HideCursor()
		v.out.ClearScreen()
		v.draw()
	}
}

// RenderStep applies ev to the view and redraws it in live mode.
func (v *View) RenderStep(ev domain.StepEvent) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.last = ev
	switch ev.Mode {
	case domain.ModeSorting:
		v.applySort(ev)
	case domain.ModePathfinding:
		v.applyPath(ev)
	}
	if v.live {
		v.out.ClearScreen()
		v.draw()
	}
}

// RenderResult prints the final frame and a one line summary.
func (v *View) RenderResult(res domain.RunResult) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.highlight = map[int]string{}
	if v.live {
		v.out.ClearScreen()
	}
	v.draw()
	if v.live {
		v.out.ShowCursor()
	}
	fmt.Fprintln(v.out, Summary(res))
}

func (v *View) applySort(ev domain.StepEvent) {
	if v.seq == nil {
		return
	}
	v.highlight = map[int]string{}
	color := colorCompare
	if ev.Mutates() {
		color = colorWrite
	}
	for i, idx := range ev.Indices {
		if idx < 0 || idx >= len(v.seq) {
			continue
		}
		if ev.Kind == domain.StepSorted {
			v.sorted[idx] = true
			continue
		}
		v.highlight[idx] = color
		if ev.Mutates() && i < len(ev.Values) {
			v.seq[idx] = ev.Values[i]
		}
	}
}

func (v *View) applyPath(ev domain.StepEvent) {
	if v.grid == nil {
		return
	}
	mark := func(set []bool, p domain.Point) {
		if v.grid.InBounds(p) {
			set[v.grid.Index(p)] = true
		}
	}
	switch ev.Kind {
	case domain.StepVisit:
		if ev.Cell != nil && v.grid.InBounds(*ev.Cell) {
			idx := v.grid.Index(*ev.Cell)
			v.visited[idx] = true
			v.frontier[idx] = false
			v.current = idx
		}
		for _, p := range ev.Frontier {
			mark(v.frontier, p)
		}
	case domain.StepFrontierAdd:
		for _, p := range ev.Frontier {
			mark(v.frontier, p)
		}
	case domain.StepPathFound:
		for _, p := range ev.Path {
			mark(v.path, p)
		}
	}
}

func (v *View) draw() {
	var b strings.Builder
	fmt.Fprintf(&b, "%s · %s\n\n", v.out.String(string(v.algo)).Bold(), v.mode)
	switch {
	case v.seq != nil:
		v.drawBars(&b)
		fmt.Fprintf(&b, "\ncomparisons %d  swaps %d\n", v.last.Comparisons, v.last.Swaps)
	case v.grid != nil:
		v.drawGrid(&b)
		fmt.Fprintf(&b, "\nexplored %d\n", v.last.NodesExplored)
	}
	fmt.Fprint(v.out, b.String())
}

func (v *View) drawBars(b *strings.Builder) {
	span := max(v.width-8, 1)
	for i, x := range v.seq {
		n := max(x*span/v.peak, 1)
		color := colorBar
		if v.sorted[i] {
			color = colorSorted
		}
		if c, ok := v.highlight[i]; ok {
			color = c
		}
		bar := v.out.String(strings.Repeat("█", n)).Foreground(v.out.Color(color))
		fmt.Fprintf(b, "%5d %s\n", x, bar)
	}
}

func (v *View) drawGrid(b *strings.Builder) {
	g := v.grid
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			p := domain.Point{Row: r, Col: c}
			idx := g.Index(p)
			cell, color := "  ", ""
			switch {
			case p == g.Start:
				cell, color = "S ", colorEndpoint
			case p == g.End:
				cell, color = "E ", colorEndpoint
			case g.Cells[idx] == domain.Obstacle:
				cell, color = "██", colorObstacle
			case v.path[idx]:
				cell, color = "● ", colorPath
			case idx == v.current:
				cell, color = "◆ ", colorCompare
			case v.visited[idx]:
				cell, color = "· ", colorVisited
			case v.frontier[idx]:
				cell, color = "○ ", colorFrontier
			}
			if color == "" {
				b.WriteString(cell)
				continue
			}
			b.WriteString(v.out.String(cell).Foreground(v.out.Color(color)).String())
		}
		b.WriteString("\n")
	}
}

// Summary formats res as a single line.
func Summary(res domain.RunResult) string {
	if res.Mode == domain.ModePathfinding {
		return fmt.Sprintf("%s %s: explored %d, path %d, %d ms", res.Algorithm, outcome(res), res.NodesExplored, res.PathLength, res.ElapsedMs())
	}
	return fmt.Sprintf("%s %s: %d comparisons, %d swaps, %d ms", res.Algorithm, outcome(res), res.Comparisons, res.Swaps, res.ElapsedMs())
}
