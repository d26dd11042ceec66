// Package generator produces random subjects for sorting and pathfinding runs.
package generator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/aretw0/algoviz/pkg/domain"
)

// Defaults of the generation service.
const (
	DefaultSize             = 20
	DefaultMin              = 1
	DefaultMax              = 100
	DefaultRows             = 15
	DefaultCols             = 15
	DefaultObstacleFraction = 0.3

	// MaxSize bounds the length of a generated sequence.
	MaxSize = 10000
	// MaxSide bounds either side of a generated grid.
	MaxSide = 1000
)

// ErrInvalidParams is returned when generation parameters are out of range.
var ErrInvalidParams = errors.New("invalid generation parameters")

// Generator implements ports.Generator with a pseudo-random source.
// Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed makes the output reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// New creates a generator seeded from the runtime unless WithSeed is given.
func New(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g
}

// CheckSequence reports whether GenerateSequence accepts the parameters. Callers that
// forward untrusted input to another ports.Generator use it to apply the same bounds.
func CheckSequence(size, min, max int) error {
	if size < 1 || size > MaxSize {
		return fmt.Errorf("%w: size %d outside [1,%d]", ErrInvalidParams, size, MaxSize)
	}
	if min > max {
		return fmt.Errorf("%w: min %d greater than max %d", ErrInvalidParams, min, max)
	}
	// Two's-complement difference; wraps to 0 only for the full uint64 range.
	span := uint64(max) - uint64(min) + 1
	if span == 0 || span > math.MaxInt {
		return fmt.Errorf("%w: range [%d,%d] too wide", ErrInvalidParams, min, max)
	}
	return nil
}

// CheckGrid is the GenerateGrid counterpart of CheckSequence.
func CheckGrid(rows, cols int, obstacleFraction float64) error {
	if rows > MaxSide || cols > MaxSide {
		return fmt.Errorf("%w: grid %dx%d exceeds side %d", ErrInvalidParams, rows, cols, MaxSide)
	}
	if rows < 1 || cols < 1 || rows*cols < 2 {
		return fmt.Errorf("%w: grid %dx%d needs at least two cells", ErrInvalidParams, rows, cols)
	}
	if obstacleFraction < 0 || obstacleFraction > 1 {
		return fmt.Errorf("%w: obstacle fraction %.2f outside [0,1]", ErrInvalidParams, obstacleFraction)
	}
	return nil
}

// GenerateSequence returns size values drawn uniformly from [min, max].
func (g *Generator) GenerateSequence(ctx context.Context, size, min, max int) (domain.Sequence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := CheckSequence(size, min, max); err != nil {
		return nil, err
	}
	span := uint64(max) - uint64(min) + 1

	g.mu.Lock()
	defer g.mu.Unlock()

	seq := make(domain.Sequence, size)
	for i := range seq {
		seq[i] = min + g.rng.IntN(int(span))
	}
	return seq, nil
}

// GenerateGrid returns a rows×cols grid with Start at the top-left corner and End at
// the bottom-right one. Every other cell is an obstacle with probability
// obstacleFraction; the endpoints are always open.
func (g *Generator) GenerateGrid(ctx context.Context, rows, cols int, obstacleFraction float64) (*domain.Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := CheckGrid(rows, cols, obstacleFraction); err != nil {
		return nil, err
	}

	grid := &domain.Grid{
		Rows:  rows,
		Cols:  cols,
		Cells: make([]domain.Cell, rows*cols),
		Start: domain.Point{Row: 0, Col: 0},
		End:   domain.Point{Row: rows - 1, Col: cols - 1},
	}

	g.mu.Lock()
	for i := range grid.Cells {
		if g.rng.Float64() < obstacleFraction {
			grid.Cells[i] = domain.Obstacle
		}
	}
	g.mu.Unlock()

	grid.Cells[grid.Index(grid.Start)] = domain.Open
	grid.Cells[grid.Index(grid.End)] = domain.Open
	return grid, nil
}
