package domain

import "fmt"

// Sequence is the subject of a sorting run. Its length is fixed for the duration of a run.
type Sequence []int

// Clone returns an independent copy of s.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// IsSorted reports whether s is non-decreasing.
func (s Sequence) IsSorted() bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

// Cell is the occupancy state of a grid cell.
type Cell int

const (
	Open     Cell = 0
	Obstacle Cell = 1
)

// Point addresses a grid cell by row and column.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Manhattan returns |Δrow| + |Δcol| between a and b.
func Manhattan(a, b Point) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Grid is the subject of a pathfinding run. Cells are stored row-major and are never
// written while a run is in flight.
type Grid struct {
	Rows  int    `json:"rows"`
	Cols  int    `json:"cols"`
	Cells []Cell `json:"cells"`
	Start Point  `json:"start"`
	End   Point  `json:"end"`
}

// NewGrid builds a grid from a matrix of 0 (open) and 1 (obstacle) values.
func NewGrid(matrix [][]int, start, end Point) (*Grid, error) {
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return nil, fmt.Errorf("%w: grid must have at least one row and one column", ErrInvalidGrid)
	}
	rows, cols := len(matrix), len(matrix[0])
	g := &Grid{Rows: rows, Cols: cols, Cells: make([]Cell, 0, rows*cols), Start: start, End: end}
	for r, row := range matrix {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidGrid, r, len(row), cols)
		}
		for _, v := range row {
			if v == 0 {
				g.Cells = append(g.Cells, Open)
			} else {
				g.Cells = append(g.Cells, Obstacle)
			}
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks the shape of g and that both endpoints are open cells.
func (g *Grid) Validate() error {
	if g == nil || g.Rows <= 0 || g.Cols <= 0 {
		return fmt.Errorf("%w: empty grid", ErrInvalidGrid)
	}
	if len(g.Cells) != g.Rows*g.Cols {
		return fmt.Errorf("%w: %d cells for %dx%d", ErrInvalidGrid, len(g.Cells), g.Rows, g.Cols)
	}
	for _, p := range []Point{g.Start, g.End} {
		if !g.InBounds(p) {
			return fmt.Errorf("%w: endpoint %s out of bounds", ErrInvalidGrid, p)
		}
		if !g.Open(p) {
			return fmt.Errorf("%w: endpoint %s is an obstacle", ErrInvalidGrid, p)
		}
	}
	return nil
}

// Size returns the number of cells.
func (g *Grid) Size() int {
	return g.Rows * g.Cols
}

// InBounds reports whether p lies inside the grid.
func (g *Grid) InBounds(p Point) bool {
	return p.Row >= 0 && p.Row < g.Rows && p.Col >= 0 && p.Col < g.Cols
}

// Index packs p into its row-major index.
func (g *Grid) Index(p Point) int {
	return p.Row*g.Cols + p.Col
}

// PointAt unpacks a row-major index.
func (g *Grid) PointAt(idx int) Point {
	return Point{Row: idx / g.Cols, Col: idx % g.Cols}
}

// Open reports whether p is in bounds and not an obstacle.
func (g *Grid) Open(p Point) bool {
	return g.InBounds(p) && g.Cells[g.Index(p)] == Open
}

// Matrix returns the grid as rows of 0/1 values, the shape the HTTP surface uses.
func (g *Grid) Matrix() [][]int {
	out := make([][]int, g.Rows)
	for r := 0; r < g.Rows; r++ {
		out[r] = make([]int, g.Cols)
		for c := 0; c < g.Cols; c++ {
			out[r][c] = int(g.Cells[r*g.Cols+c])
		}
	}
	return out
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	cp := *g
	cp.Cells = make([]Cell, len(g.Cells))
	copy(cp.Cells, g.Cells)
	return &cp
}
