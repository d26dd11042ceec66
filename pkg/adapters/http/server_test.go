package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/algoviz"
	"github.com/aretw0/algoviz/pkg/control"
	"github.com/aretw0/algoviz/pkg/controller"
	"github.com/aretw0/algoviz/pkg/domain"
	"github.com/aretw0/algoviz/pkg/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *algoviz.Engine {
	t.Helper()
	eng, err := algoviz.New(
		algoviz.WithGenerator(generator.New(generator.WithSeed(7))),
		algoviz.WithSleeper(control.NoSleep),
	)
	require.NoError(t, err)
	return eng
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := NewHandler(newEngine(t))
	w := do(t, h, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, ServiceName, body["service"])
	assert.IsType(t, float64(0), body["timestamp"])
}

func TestGenerateArray(t *testing.T) {
	eng := newEngine(t)
	h := NewHandler(eng)

	t.Run("defaults", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/generate-array", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp GenerateArrayResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, generator.DefaultSize, resp.Size)
		require.Len(t, resp.Array, generator.DefaultSize)
		for _, v := range resp.Array {
			assert.GreaterOrEqual(t, v, generator.DefaultMin)
			assert.LessOrEqual(t, v, generator.DefaultMax)
		}
		assert.Equal(t, resp.Array, []int(eng.Sequence()))
	})

	t.Run("explicit", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/generate-array", `{"size":4,"min_val":5,"max_val":5}`)
		require.Equal(t, http.StatusOK, w.Code)

		var resp GenerateArrayResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []int{5, 5, 5, 5}, resp.Array)
	})

	t.Run("invalid range", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/generate-array", `{"min_val":10,"max_val":1}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.NotEmpty(t, resp.Error)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/generate-array", `{"size":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGenerateGrid(t *testing.T) {
	eng := newEngine(t)
	h := NewHandler(eng)

	w := do(t, h, http.MethodPost, "/api/generate-grid", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp GenerateGridResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, generator.DefaultRows, resp.Rows)
	assert.Equal(t, generator.DefaultCols, resp.Cols)
	require.Len(t, resp.Grid, generator.DefaultRows)
	assert.Equal(t, [2]int{0, 0}, resp.Start)
	assert.Equal(t, [2]int{14, 14}, resp.End)
	assert.Equal(t, 0, resp.Grid[0][0])
	assert.Equal(t, 0, resp.Grid[14][14])
	require.NotNil(t, eng.Grid())
	assert.Equal(t, resp.Grid, eng.Grid().Matrix())

	w = do(t, h, http.MethodPost, "/api/generate-grid", `{"obstacle_percentage":1.5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunLifecycle(t *testing.T) {
	eng := newEngine(t)
	h := NewHandler(eng)
	ctx := context.Background()

	w := do(t, h, http.MethodPost, "/api/runs", `{"mode":"sorting","algorithm":"bubble"}`)
	assert.Equal(t, http.StatusConflict, w.Code, "no subject yet")

	require.NoError(t, eng.UseSequence(ctx, domain.Sequence{3, 2, 1}))

	w = do(t, h, http.MethodPost, "/api/runs", `{"mode":"sorting","algorithm":"bogo"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/runs", `{"mode":"sorting","algorithm":"bubble","speed":5}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	res, err := eng.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Comparisons)

	w = do(t, h, http.MethodGet, "/api/runs/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, domain.StateIdle, snap.State)
	require.NotNil(t, snap.Last)
	assert.Equal(t, 3, snap.Last.Swaps)

	w = do(t, h, http.MethodGet, "/api/subject/sorting", "")
	require.Equal(t, http.StatusOK, w.Code)
	var subj GenerateArrayResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subj))
	assert.Equal(t, []int{1, 2, 3}, subj.Array)

	w = do(t, h, http.MethodPost, "/api/runs/pause", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodPost, "/api/runs/reset", `{"mode":"pathfinding"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, eng.Grid())
}

func TestSubjectRoutes(t *testing.T) {
	h := NewHandler(newEngine(t))

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/subject/graph", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/subject/pathfinding", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/subject/sorting", "").Code)
}

func TestGenerateArray_RejectsUnboundedParams(t *testing.T) {
	h := NewHandler(newEngine(t))

	w := do(t, h, http.MethodPost, "/api/generate-array",
		`{"size":3,"min_val":-9223372036854775808,"max_val":9223372036854775807}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/generate-array", `{"size":100000000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/generate-grid", `{"rows":100000,"cols":100000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORS(t *testing.T) {
	h := NewHandler(newEngine(t))

	w := do(t, h, http.MethodOptions, "/api/generate-array", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestMetricsEndpoint(t *testing.T) {
	eng := newEngine(t)
	h := NewHandler(eng)
	ctx := context.Background()

	require.NoError(t, eng.UseSequence(ctx, domain.Sequence{2, 1}))
	_, err := eng.Run(ctx, algovizParams(domain.AlgorithmQuick))
	require.NoError(t, err)

	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `algoviz_runs_started_total{algorithm="quick",mode="sorting"} 1`)
}

func TestSubscribeEvents(t *testing.T) {
	eng := newEngine(t)
	srv := httptest.NewServer(NewHandler(eng))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)

	require.NoError(t, eng.UseSequence(ctx, domain.Sequence{2, 1}))
	require.NoError(t, eng.Start(ctx, algovizParams(domain.AlgorithmBubble)))

	var events []string
	for len(events) < 3 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			events = append(events, strings.TrimSpace(name))
		}
	}
	assert.Equal(t, []string{"state", "run_start", "step"}, events)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidAlgorithm, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", domain.ErrInvalidMode), http.StatusBadRequest},
		{generator.ErrInvalidParams, http.StatusBadRequest},
		{domain.ErrInvalidGrid, http.StatusBadRequest},
		{domain.ErrNoSubject, http.StatusConflict},
		{domain.ErrAlreadyRunning, http.StatusConflict},
		{domain.ErrNotRunning, http.StatusConflict},
		{domain.ErrSubjectNotFound, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestClient(t *testing.T) {
	srv := httptest.NewServer(NewHandler(newEngine(t)))
	defer srv.Close()
	c := NewClient(srv.URL + "/")
	ctx := context.Background()

	seq, err := c.GenerateSequence(ctx, 6, 1, 3)
	require.NoError(t, err)
	assert.Len(t, seq, 6)

	grid, err := c.GenerateGrid(ctx, 4, 5, 0.2)
	require.NoError(t, err)
	assert.Equal(t, 4, grid.Rows)
	assert.Equal(t, 5, grid.Cols)
	assert.Equal(t, domain.Point{Row: 3, Col: 4}, grid.End)
	assert.NoError(t, grid.Validate())

	_, err = c.GenerateSequence(ctx, 0, 1, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, WithHTTPClient(&http.Client{Timeout: time.Second})).GenerateSequence(context.Background(), 3, 1, 2)
	assert.ErrorContains(t, err, "unreachable")
}

func TestClientBadReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("x"), 3))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).GenerateGrid(context.Background(), 3, 3, 0)
	assert.ErrorContains(t, err, "invalid reply")
}

func algovizParams(a domain.Algorithm) controller.Params {
	return controller.Params{Mode: a.Mode(), Algorithm: a, Speed: 5}
}
