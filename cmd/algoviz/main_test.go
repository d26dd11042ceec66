package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/aretw0/algoviz"
	httpAdapter "github.com/aretw0/algoviz/pkg/adapters/http"
	"github.com/aretw0/algoviz/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute(), errOut.String())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	assert.Equal(t, "algoviz version "+algoviz.Version+"\n", execute(t, "version"))
}

func TestGenerateCommand(t *testing.T) {
	var arr httpAdapter.GenerateArrayResponse
	require.NoError(t, json.Unmarshal([]byte(execute(t, "generate", "array", "--seed", "9", "--size", "6", "--min", "3", "--max", "4", "--rows", "2", "--cols", "3", "--obstacles", "0")), &arr))
	assert.True(t, arr.Success)
	assert.Len(t, arr.Array, 6)

	var grid httpAdapter.GenerateGridResponse
	require.NoError(t, json.Unmarshal([]byte(execute(t, "generate", "grid", "--seed", "9", "--size", "6", "--min", "3", "--max", "4", "--rows", "2", "--cols", "3", "--obstacles", "0")), &grid))
	assert.Equal(t, [][]int{{0, 0, 0}, {0, 0, 0}}, grid.Grid)
	assert.Equal(t, [2]int{1, 2}, grid.End)
}

func TestSortCommandJSON(t *testing.T) {
	out := execute(t, "sort", "heap", "--json", "--size", "5", "--speed", "10", "--seed", "4")

	var res domain.RunResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, domain.AlgorithmHeap, res.Algorithm)
	assert.Equal(t, domain.ModeSorting, res.Mode)
	assert.Positive(t, res.Comparisons)
}

func TestPathCommandJSON(t *testing.T) {
	out := execute(t, "path", "--algorithm", "dfs", "--json", "--rows", "3", "--cols", "3", "--obstacles", "0", "--speed", "10")

	var res domain.RunResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, domain.AlgorithmDFS, res.Algorithm)
	assert.True(t, res.Found())
}

func TestNest(t *testing.T) {
	assert.Equal(t, map[string]any{
		"speed": "3",
		"redis": map[string]any{"addr": "x:1"},
	}, nest(map[string]any{"speed": "3", "redis.addr": "x:1"}))
}
