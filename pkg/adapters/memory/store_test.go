package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/algoviz/pkg/adapters/memory"
	"github.com/aretw0/algoviz/pkg/domain"
	"github.com/aretw0/algoviz/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSubjectStoreContract(t, store)
}

func TestMemoryStore_RejectsInvalidGrid(t *testing.T) {
	store := memory.NewStore()
	err := store.SaveGrid(context.Background(), &domain.Grid{Rows: 1, Cols: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidGrid)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.SaveSequence(ctx, domain.Sequence{i, i + 1})
			_, _ = store.LoadSequence(ctx)
		}(i)
	}
	wg.Wait()

	seq, err := store.LoadSequence(ctx)
	require.NoError(t, err)
	assert.Len(t, seq, 2)
}
