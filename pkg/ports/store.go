package ports

import (
	"context"

	"github.com/aretw0/algoviz/pkg/domain"
)

// SubjectStore keeps the current subject of each mode. Only the latest sequence and
// the latest grid are kept; run history is never stored.
type SubjectStore interface {
	// SaveSequence replaces the stored sequence with a copy of seq.
	SaveSequence(ctx context.Context, seq domain.Sequence) error

	// LoadSequence returns the stored sequence.
	// Returns domain.ErrSubjectNotFound if none was saved.
	LoadSequence(ctx context.Context) (domain.Sequence, error)

	// SaveGrid replaces the stored grid with a copy of g.
	SaveGrid(ctx context.Context, g *domain.Grid) error

	// LoadGrid returns the stored grid.
	// Returns domain.ErrSubjectNotFound if none was saved.
	LoadGrid(ctx context.Context) (*domain.Grid, error)

	// Delete removes the subject of the given mode. Deleting a missing subject is not an error.
	Delete(ctx context.Context, mode domain.Mode) error
}
