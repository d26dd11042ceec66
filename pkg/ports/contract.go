package ports

import (
	"context"
	"testing"

	"github.com/aretw0/algoviz/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSubjectStoreContract runs a suite of tests to verify that a SubjectStore
// implementation adheres to the interface contract. The store is emptied first.
func RunSubjectStoreContract(t *testing.T, store SubjectStore) {
	ctx := context.Background()
	require.NoError(t, store.Delete(ctx, domain.ModeSorting))
	require.NoError(t, store.Delete(ctx, domain.ModePathfinding))

	t.Run("Load Missing", func(t *testing.T) {
		_, err := store.LoadSequence(ctx)
		assert.ErrorIs(t, err, domain.ErrSubjectNotFound)

		_, err = store.LoadGrid(ctx)
		assert.ErrorIs(t, err, domain.ErrSubjectNotFound)
	})

	t.Run("Save and Load Sequence", func(t *testing.T) {
		seq := domain.Sequence{5, 3, 8, 1, 9, 2}
		require.NoError(t, store.SaveSequence(ctx, seq))

		// later writes by the caller must not leak into the store
		seq[0] = 100

		loaded, err := store.LoadSequence(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Sequence{5, 3, 8, 1, 9, 2}, loaded)

		require.NoError(t, store.SaveSequence(ctx, domain.Sequence{7}))
		loaded, err = store.LoadSequence(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Sequence{7}, loaded, "save replaces the previous sequence")
	})

	t.Run("Save and Load Grid", func(t *testing.T) {
		g, err := domain.NewGrid([][]int{
			{0, 1, 0},
			{0, 0, 0},
		}, domain.Point{Row: 0, Col: 0}, domain.Point{Row: 1, Col: 2})
		require.NoError(t, err)
		require.NoError(t, store.SaveGrid(ctx, g))

		g.Cells[1] = domain.Open

		loaded, err := store.LoadGrid(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, loaded.Rows)
		assert.Equal(t, 3, loaded.Cols)
		assert.Equal(t, domain.Point{Row: 1, Col: 2}, loaded.End)
		assert.Equal(t, [][]int{{0, 1, 0}, {0, 0, 0}}, loaded.Matrix())
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.SaveSequence(ctx, domain.Sequence{1, 2}))

		require.NoError(t, store.Delete(ctx, domain.ModeSorting))
		_, err := store.LoadSequence(ctx)
		assert.ErrorIs(t, err, domain.ErrSubjectNotFound, "Load after Delete should return ErrSubjectNotFound")

		_, err = store.LoadGrid(ctx)
		assert.NoError(t, err, "deleting one mode keeps the other")

		assert.NoError(t, store.Delete(ctx, domain.ModeSorting), "deleting twice is not an error")
		assert.ErrorIs(t, store.Delete(ctx, "knitting"), domain.ErrInvalidMode)
	})
}
