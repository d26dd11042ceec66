package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/algoviz/pkg/domain"
)

// DefaultDir is used when NewStore receives an empty path.
var DefaultDir = filepath.Join(".algoviz", "subjects")

// Store implements ports.SubjectStore using the local filesystem.
// Each mode is one JSON file in BasePath.
type Store struct {
	BasePath string
}

// NewStore creates a new Store with the given base path.
func NewStore(basePath string) *Store {
	if basePath == "" {
		basePath = DefaultDir
	}
	return &Store{BasePath: basePath}
}

// SaveSequence writes sorting.json.
func (f *Store) SaveSequence(ctx context.Context, seq domain.Sequence) error {
	return f.write(domain.ModeSorting, seq)
}

// LoadSequence reads sorting.json.
func (f *Store) LoadSequence(ctx context.Context) (domain.Sequence, error) {
	var seq domain.Sequence
	if err := f.read(domain.ModeSorting, &seq); err != nil {
		return nil, err
	}
	return seq, nil
}

// SaveGrid writes pathfinding.json. Invalid grids are refused.
func (f *Store) SaveGrid(ctx context.Context, g *domain.Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return f.write(domain.ModePathfinding, g)
}

// LoadGrid reads pathfinding.json and validates it.
func (f *Store) LoadGrid(ctx context.Context) (*domain.Grid, error) {
	var g domain.Grid
	if err := f.read(domain.ModePathfinding, &g); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// Delete removes the file of mode. Deleting a missing subject is not an error.
func (f *Store) Delete(ctx context.Context, mode domain.Mode) error {
	if _, err := domain.ParseMode(string(mode)); err != nil {
		return err
	}
	err := os.Remove(f.path(mode))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete subject file: %w", err)
	}
	return nil
}

func (f *Store) path(mode domain.Mode) string {
	return filepath.Join(f.BasePath, string(mode)+".json")
}

// write replaces the file through a rename so readers never see a partial subject.
func (f *Store) write(mode domain.Mode, v any) error {
	if err := os.MkdirAll(f.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure subject directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal subject: %w", err)
	}

	tmp, err := os.CreateTemp(f.BasePath, string(mode)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write subject file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write subject file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write subject file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path(mode)); err != nil {
		return fmt.Errorf("failed to write subject file: %w", err)
	}
	return nil
}

func (f *Store) read(mode domain.Mode, v any) error {
	data, err := os.ReadFile(f.path(mode))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ErrSubjectNotFound
		}
		return fmt.Errorf("failed to read subject file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s subject: %w", mode, err)
	}
	return nil
}
