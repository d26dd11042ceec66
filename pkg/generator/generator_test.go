package generator_test

import (
	"context"
	"math"
	"testing"

	"github.com/aretw0/algoviz/pkg/domain"
	"github.com/aretw0/algoviz/pkg/generator"
	"github.com/aretw0/algoviz/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.Generator = (*generator.Generator)(nil)

func TestGenerateSequence(t *testing.T) {
	g := generator.New(generator.WithSeed(1))
	seq, err := g.GenerateSequence(context.Background(), generator.DefaultSize, generator.DefaultMin, generator.DefaultMax)
	require.NoError(t, err)

	assert.Len(t, seq, generator.DefaultSize)
	for _, v := range seq {
		assert.GreaterOrEqual(t, v, generator.DefaultMin)
		assert.LessOrEqual(t, v, generator.DefaultMax)
	}
}

func TestGenerateSequence_Seeded(t *testing.T) {
	a, err := generator.New(generator.WithSeed(99)).GenerateSequence(context.Background(), 50, 1, 1000)
	require.NoError(t, err)
	b, err := generator.New(generator.WithSeed(99)).GenerateSequence(context.Background(), 50, 1, 1000)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerateSequence_SingleValueRange(t *testing.T) {
	seq, err := generator.New().GenerateSequence(context.Background(), 5, 7, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.Sequence{7, 7, 7, 7, 7}, seq)
}

func TestGenerateSequence_WideRange(t *testing.T) {
	g := generator.New(generator.WithSeed(3))
	ctx := context.Background()

	seq, err := g.GenerateSequence(ctx, 50, math.MinInt, -2)
	require.NoError(t, err)
	for _, v := range seq {
		assert.Less(t, v, -1)
	}

	seq, err = g.GenerateSequence(ctx, 50, 0, math.MaxInt-1)
	require.NoError(t, err)
	for _, v := range seq {
		assert.GreaterOrEqual(t, v, 0)
	}
}

func TestGenerateGrid(t *testing.T) {
	g := generator.New(generator.WithSeed(5))
	grid, err := g.GenerateGrid(context.Background(), 15, 15, 1)
	require.NoError(t, err)

	require.NoError(t, grid.Validate())
	assert.Equal(t, domain.Point{Row: 0, Col: 0}, grid.Start)
	assert.Equal(t, domain.Point{Row: 14, Col: 14}, grid.End)

	open := 0
	for _, c := range grid.Cells {
		if c == domain.Open {
			open++
		}
	}
	assert.Equal(t, 2, open, "with fraction 1 only the endpoints stay open")

	empty, err := g.GenerateGrid(context.Background(), 4, 6, 0)
	require.NoError(t, err)
	for _, c := range empty.Cells {
		assert.Equal(t, domain.Open, c)
	}
}

func TestGenerate_InvalidParams(t *testing.T) {
	g := generator.New()
	ctx := context.Background()

	_, err := g.GenerateSequence(ctx, 0, 1, 10)
	assert.ErrorIs(t, err, generator.ErrInvalidParams)

	_, err = g.GenerateSequence(ctx, 5, 10, 1)
	assert.ErrorIs(t, err, generator.ErrInvalidParams)

	_, err = g.GenerateSequence(ctx, generator.MaxSize+1, 1, 10)
	assert.ErrorIs(t, err, generator.ErrInvalidParams)

	_, err = g.GenerateSequence(ctx, 3, math.MinInt, math.MaxInt)
	assert.ErrorIs(t, err, generator.ErrInvalidParams)

	_, err = g.GenerateSequence(ctx, 3, -1, math.MaxInt)
	assert.ErrorIs(t, err, generator.ErrInvalidParams)

	_, err = g.GenerateGrid(ctx, generator.MaxSide+1, 5, 0.3)
	assert.ErrorIs(t, err, generator.ErrInvalidParams)

	_, err = g.GenerateGrid(ctx, 1, 1, 0.3)
	assert.ErrorIs(t, err, generator.ErrInvalidParams)

	_, err = g.GenerateGrid(ctx, 5, 5, 1.5)
	assert.ErrorIs(t, err, generator.ErrInvalidParams)

	_, err = g.GenerateGrid(ctx, 5, 5, -0.1)
	assert.ErrorIs(t, err, generator.ErrInvalidParams)
}

func TestGenerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := generator.New().GenerateSequence(ctx, 5, 1, 10)
	assert.ErrorIs(t, err, context.Canceled)
}
