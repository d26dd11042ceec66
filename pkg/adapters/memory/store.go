package memory

import (
	"context"
	"sync"

	"github.com/aretw0/algoviz/pkg/domain"
)

// Store implements ports.SubjectStore in memory.
// Safe for concurrent use.
type Store struct {
	seq  domain.Sequence
	grid *domain.Grid
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{}
}

// SaveSequence keeps a copy of seq.
func (s *Store) SaveSequence(ctx context.Context, seq domain.Sequence) error {
	// Copy on write so the caller keeps ownership of seq
	cp := seq.Clone()
	if cp == nil {
		cp = domain.Sequence{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = cp
	return nil
}

// LoadSequence returns a copy of the stored sequence.
func (s *Store) LoadSequence(ctx context.Context) (domain.Sequence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.seq == nil {
		return nil, domain.ErrSubjectNotFound
	}
	return s.seq.Clone(), nil
}

// SaveGrid keeps a copy of g.
func (s *Store) SaveGrid(ctx context.Context, g *domain.Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}
	cp := g.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid = cp
	return nil
}

// LoadGrid returns a copy of the stored grid.
func (s *Store) LoadGrid(ctx context.Context) (*domain.Grid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.grid == nil {
		return nil, domain.ErrSubjectNotFound
	}
	return s.grid.Clone(), nil
}

// Delete drops the subject of mode.
func (s *Store) Delete(ctx context.Context, mode domain.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch mode {
	case domain.ModeSorting:
		s.seq = nil
	case domain.ModePathfinding:
		s.grid = nil
	default:
		return domain.ErrInvalidMode
	}
	return nil
}
