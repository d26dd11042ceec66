package ports

import (
	"context"

	"github.com/aretw0/algoviz/pkg/domain"
)

// Generator produces the subjects of a run.
type Generator interface {
	// GenerateSequence returns size integers drawn uniformly from [min, max].
	GenerateSequence(ctx context.Context, size, min, max int) (domain.Sequence, error)

	// GenerateGrid returns a rows×cols grid where each cell is an obstacle with
	// probability obstacleFraction. Start (0,0) and End (rows-1, cols-1) are always open.
	GenerateGrid(ctx context.Context, rows, cols int, obstacleFraction float64) (*domain.Grid, error)
}
