package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/algoviz"
	"github.com/aretw0/algoviz/pkg/control"
	"github.com/aretw0/algoviz/pkg/domain"
	"github.com/aretw0/algoviz/pkg/generator"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*Server, *algoviz.Engine) {
	t.Helper()
	eng, err := algoviz.New(
		algoviz.WithGenerator(generator.New(generator.WithSeed(3))),
		algoviz.WithSleeper(control.NoSleep),
	)
	require.NoError(t, err)
	return NewServer(eng, nil), eng
}

func TestToolsAreListed(t *testing.T) {
	s, _ := newServer(t)

	resp := s.MCPServer().HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	for _, name := range []string{"generate_array", "generate_grid", "start_run", "run_algorithm", "toggle_pause", "reset_run", "run_status"} {
		assert.Contains(t, string(raw), `"name":"`+name+`"`)
	}
}

func TestGenerateArrayTool(t *testing.T) {
	s, eng := newServer(t)
	ctx := context.Background()

	res, err := s.handleGenerateArray(ctx, mcp.CallToolRequest{}, map[string]interface{}{"size": float64(5), "min_val": float64(2), "max_val": float64(4)})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Size)
	for _, v := range res.Array {
		assert.GreaterOrEqual(t, v, 2)
		assert.LessOrEqual(t, v, 4)
	}
	assert.Equal(t, res.Array, []int(eng.Sequence()))

	res, err = s.handleGenerateArray(ctx, mcp.CallToolRequest{}, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, generator.DefaultSize, res.Size)

	_, err = s.handleGenerateArray(ctx, mcp.CallToolRequest{}, map[string]interface{}{"size": float64(0)})
	assert.ErrorIs(t, err, generator.ErrInvalidParams)

	_, err = s.handleGenerateArray(ctx, mcp.CallToolRequest{}, map[string]interface{}{"size": float64(1e6)})
	assert.ErrorIs(t, err, generator.ErrInvalidParams)

	_, err = s.handleGenerateArray(ctx, mcp.CallToolRequest{}, map[string]interface{}{"size": float64(3), "min_val": float64(-1e18), "max_val": float64(9e18)})
	assert.ErrorIs(t, err, generator.ErrInvalidParams)
	assert.Equal(t, res.Array, []int(eng.Sequence()), "rejected calls leave the subject alone")
}

func TestGenerateGridTool(t *testing.T) {
	s, eng := newServer(t)

	res, err := s.handleGenerateGrid(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"rows": float64(3), "cols": float64(4), "obstacle_percentage": float64(0)})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, 4, res.Cols)
	assert.Equal(t, domain.Point{Row: 2, Col: 3}, res.End)
	for _, row := range res.Grid {
		assert.Equal(t, []int{0, 0, 0, 0}, row)
	}
	require.NotNil(t, eng.Grid())
	assert.Equal(t, res.Grid, eng.Grid().Matrix())
}

func TestRunTools(t *testing.T) {
	s, eng := newServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	_, err := s.handleRunAlgorithm(ctx, req, map[string]interface{}{"mode": "sorting", "algorithm": "heap"})
	require.ErrorIs(t, err, domain.ErrNoSubject)

	require.NoError(t, eng.UseSequence(ctx, domain.Sequence{1, 2}))
	res, err := s.handleRunAlgorithm(ctx, req, map[string]interface{}{"mode": "sorting", "algorithm": "heap", "speed": float64(10)})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Comparisons)
	assert.Equal(t, 2, res.Swaps)

	_, err = s.handleRunAlgorithm(ctx, req, map[string]interface{}{"mode": "sorting", "algorithm": "dijkstra"})
	assert.ErrorIs(t, err, domain.ErrInvalidAlgorithm)

	_, err = s.handleTogglePause(ctx, req, nil)
	assert.ErrorIs(t, err, domain.ErrNotRunning)

	snap, err := s.handleStartRun(ctx, req, map[string]interface{}{"mode": "sorting", "algorithm": "bubble"})
	require.NoError(t, err)
	assert.NotEmpty(t, snap.RunID)
	_, err = eng.Wait(ctx)
	require.NoError(t, err)

	snap, err = s.handleResetRun(ctx, req, map[string]interface{}{"mode": "pathfinding"})
	require.NoError(t, err)
	assert.True(t, snap.HasGrid)

	snap, err = s.handleRunStatus(ctx, req, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StateIdle, snap.State)
	require.NotNil(t, snap.Last)
	assert.Equal(t, domain.AlgorithmBubble, snap.Last.Algorithm)
}

func TestStatusResource(t *testing.T) {
	s, _ := newServer(t)

	resp := s.MCPServer().HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":2,"method":"resources/read","params":{"uri":"algoviz://status"}}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), StatusURI)
	assert.Contains(t, string(raw), `\"state\":\"idle\"`)
}

func TestArgHelpers(t *testing.T) {
	args := map[string]interface{}{"a": float64(3), "b": 4, "c": "x"}
	assert.Equal(t, 3, intArg(args, "a", 0))
	assert.Equal(t, 4, intArg(args, "b", 0))
	assert.Equal(t, 9, intArg(args, "c", 9))
	assert.Equal(t, 9, intArg(args, "missing", 9))
	assert.InDelta(t, 4.0, floatArg(args, "b", 0), 1e-9)
	assert.InDelta(t, 0.5, floatArg(args, "missing", 0.5), 1e-9)
}
