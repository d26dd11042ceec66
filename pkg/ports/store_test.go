package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/algoviz/pkg/domain"
	"github.com/aretw0/algoviz/pkg/ports"
)

// MockStore is a minimal SubjectStore used to exercise the contract itself.
type MockStore struct {
	seq  domain.Sequence
	grid *domain.Grid
}

func (m *MockStore) SaveSequence(ctx context.Context, seq domain.Sequence) error {
	m.seq = seq.Clone()
	return nil
}

func (m *MockStore) LoadSequence(ctx context.Context) (domain.Sequence, error) {
	if m.seq == nil {
		return nil, domain.ErrSubjectNotFound
	}
	return m.seq.Clone(), nil
}

func (m *MockStore) SaveGrid(ctx context.Context, g *domain.Grid) error {
	m.grid = g.Clone()
	return nil
}

func (m *MockStore) LoadGrid(ctx context.Context) (*domain.Grid, error) {
	if m.grid == nil {
		return nil, domain.ErrSubjectNotFound
	}
	return m.grid.Clone(), nil
}

func (m *MockStore) Delete(ctx context.Context, mode domain.Mode) error {
	switch mode {
	case domain.ModeSorting:
		m.seq = nil
	case domain.ModePathfinding:
		m.grid = nil
	default:
		return domain.ErrInvalidMode
	}
	return nil
}

func TestMockStore_Contract(t *testing.T) {
	ports.RunSubjectStoreContract(t, &MockStore{})
}
