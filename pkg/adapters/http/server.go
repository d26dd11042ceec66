package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/algoviz"
	"github.com/aretw0/algoviz/internal/logging"
	"github.com/aretw0/algoviz/pkg/controller"
	"github.com/aretw0/algoviz/pkg/domain"
	"github.com/aretw0/algoviz/pkg/generator"
	"github.com/aretw0/algoviz/pkg/observability"
	"github.com/aretw0/algoviz/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "AlgoViz API"

// Engine defines what the HTTP surface needs from the algoviz engine.
type Engine interface {
	Generator() ports.Generator
	Start(ctx context.Context, p controller.Params) error
	TogglePause(ctx context.Context) (domain.RunState, error)
	Reset(ctx context.Context, mode domain.Mode) error
	Status() domain.Snapshot
	Sequence() domain.Sequence
	Grid() *domain.Grid
	UseSequence(ctx context.Context, seq domain.Sequence) error
	UseGrid(ctx context.Context, g *domain.Grid) error
	Streams() *observability.StreamManager
	Metrics() *observability.Metrics
}

var _ Engine = (*algoviz.Engine)(nil)

// Server holds the handlers of the HTTP surface.
type Server struct {
	Engine Engine
	Logger *slog.Logger
}

// HandlerOption configures the handler.
type HandlerOption func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(s *Server) {
		if l != nil {
			s.Logger = l
		}
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...HandlerOption) http.Handler {
	server := &Server{
		Engine: engine,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(enableCORS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", server.GetHealth)
		r.Post("/generate-array", server.GenerateArray)
		r.Post("/generate-grid", server.GenerateGrid)

		r.Route("/runs", func(r chi.Router) {
			r.Post("/", server.StartRun)
			r.Post("/pause", server.TogglePause)
			r.Post("/reset", server.ResetRun)
			r.Get("/status", server.GetStatus)
		})
		r.Get("/subject/{mode}", server.GetSubject)
		r.Get("/events", server.SubscribeEvents)
	})
	r.Handle("/metrics", promhttp.HandlerFor(engine.Metrics().Registry(), promhttp.HandlerOpts{}))
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GenerateArrayRequest is the body of POST /api/generate-array. Missing fields take
// the service defaults.
type GenerateArrayRequest struct {
	Size   *int `json:"size"`
	MinVal *int `json:"min_val"`
	MaxVal *int `json:"max_val"`
}

// GenerateArrayResponse is the reply of POST /api/generate-array.
type GenerateArrayResponse struct {
	Success bool  `json:"success"`
	Array   []int `json:"array"`
	Size    int   `json:"size"`
}

// GenerateGridRequest is the body of POST /api/generate-grid. ObstaclePercentage is
// a fraction in [0,1].
type GenerateGridRequest struct {
	Rows               *int     `json:"rows"`
	Cols               *int     `json:"cols"`
	ObstaclePercentage *float64 `json:"obstacle_percentage"`
}

// GenerateGridResponse is the reply of POST /api/generate-grid. Start and End are
// [row, col] pairs.
type GenerateGridResponse struct {
	Success bool    `json:"success"`
	Grid    [][]int `json:"grid"`
	Rows    int     `json:"rows"`
	Cols    int     `json:"cols"`
	Start   [2]int  `json:"start"`
	End     [2]int  `json:"end"`
}

// StartRunRequest is the body of POST /api/runs.
type StartRunRequest struct {
	Mode      string `json:"mode"`
	Algorithm string `json:"algorithm"`
	Speed     int    `json:"speed"`
}

// ResetRunRequest is the body of POST /api/runs/reset.
type ResetRunRequest struct {
	Mode string `json:"mode"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// GenerateArray handles POST /api/generate-array. When the engine is idle the new
// array also becomes the current sorting subject.
func (s *Server) GenerateArray(w http.ResponseWriter, r *http.Request) {
	var body GenerateArrayRequest
	if !s.decode(w, r, &body) {
		return
	}
	size := valueOr(body.Size, generator.DefaultSize)
	minVal := valueOr(body.MinVal, generator.DefaultMin)
	maxVal := valueOr(body.MaxVal, generator.DefaultMax)
	if err := generator.CheckSequence(size, minVal, maxVal); err != nil {
		s.fail(w, err)
		return
	}

	seq, err := s.Engine.Generator().GenerateSequence(r.Context(), size, minVal, maxVal)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.install(r.Context(), func(ctx context.Context) error { return s.Engine.UseSequence(ctx, seq) })

	s.reply(w, http.StatusOK, GenerateArrayResponse{Success: true, Array: seq, Size: len(seq)})
}

// GenerateGrid handles POST /api/generate-grid. When the engine is idle the new
// grid also becomes the current pathfinding subject.
func (s *Server) GenerateGrid(w http.ResponseWriter, r *http.Request) {
	var body GenerateGridRequest
	if !s.decode(w, r, &body) {
		return
	}
	rows := valueOr(body.Rows, generator.DefaultRows)
	cols := valueOr(body.Cols, generator.DefaultCols)
	fraction := valueOr(body.ObstaclePercentage, generator.DefaultObstacleFraction)
	if err := generator.CheckGrid(rows, cols, fraction); err != nil {
		s.fail(w, err)
		return
	}

	grid, err := s.Engine.Generator().GenerateGrid(r.Context(), rows, cols, fraction)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.install(r.Context(), func(ctx context.Context) error { return s.Engine.UseGrid(ctx, grid) })

	s.reply(w, http.StatusOK, gridResponse(grid))
}

// GetHealth handles GET /api/health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.reply(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": float64(time.Now().UnixNano()) / 1e9,
		"service":   ServiceName,
		"version":   algoviz.Version,
	})
}

// StartRun handles POST /api/runs. A run in flight is toggled instead.
func (s *Server) StartRun(w http.ResponseWriter, r *http.Request) {
	var body StartRunRequest
	if !s.decode(w, r, &body) {
		return
	}
	p := controller.Params{
		Mode:      domain.Mode(body.Mode),
		Algorithm: domain.Algorithm(body.Algorithm),
		Speed:     body.Speed,
	}
	if err := s.Engine.Start(r.Context(), p); err != nil {
		s.fail(w, err)
		return
	}
	s.reply(w, http.StatusAccepted, s.Engine.Status())
}

// TogglePause handles POST /api/runs/pause.
func (s *Server) TogglePause(w http.ResponseWriter, r *http.Request) {
	if _, err := s.Engine.TogglePause(r.Context()); err != nil {
		s.fail(w, err)
		return
	}
	s.reply(w, http.StatusOK, s.Engine.Status())
}

// ResetRun handles POST /api/runs/reset. The body is optional.
func (s *Server) ResetRun(w http.ResponseWriter, r *http.Request) {
	var body ResetRunRequest
	if !s.decode(w, r, &body) {
		return
	}
	if err := s.Engine.Reset(r.Context(), domain.Mode(body.Mode)); err != nil {
		s.fail(w, err)
		return
	}
	s.reply(w, http.StatusOK, s.Engine.Status())
}

// GetStatus handles GET /api/runs/status.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	s.reply(w, http.StatusOK, s.Engine.Status())
}

// GetSubject handles GET /api/subject/{mode}.
func (s *Server) GetSubject(w http.ResponseWriter, r *http.Request) {
	mode, err := domain.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		s.fail(w, err)
		return
	}
	switch mode {
	case domain.ModeSorting:
		seq := s.Engine.Sequence()
		if seq == nil {
			s.fail(w, fmt.Errorf("%w: no %s subject", domain.ErrSubjectNotFound, mode))
			return
		}
		s.reply(w, http.StatusOK, GenerateArrayResponse{Success: true, Array: seq, Size: len(seq)})
	case domain.ModePathfinding:
		grid := s.Engine.Grid()
		if grid == nil {
			s.fail(w, fmt.Errorf("%w: no %s subject", domain.ErrSubjectNotFound, mode))
			return
		}
		s.reply(w, http.StatusOK, gridResponse(grid))
	}
}

// SubscribeEvents handles GET /api/events (SSE). Every lifecycle event is sent with
// its type as the SSE event name.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Engine.Streams().Subscribe()
	defer cancel()
	s.Logger.Info("SSE: client subscribed")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE: client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Type, msg.Data)
			flusher.Flush()
		}
	}
}

// install hands a generated subject to the engine. A busy engine keeps its subject.
func (s *Server) install(ctx context.Context, use func(context.Context) error) {
	if err := use(ctx); err != nil && !errors.Is(err, domain.ErrAlreadyRunning) {
		s.Logger.Warn("failed to install generated subject", "error", err)
	}
}

// decode reads an optional JSON body. An empty body leaves v untouched.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.Logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		s.reply(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "error", err)
	}
	s.reply(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

// StatusFor maps engine errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAlgorithm),
		errors.Is(err, domain.ErrInvalidMode),
		errors.Is(err, domain.ErrInvalidGrid),
		errors.Is(err, generator.ErrInvalidParams):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoSubject),
		errors.Is(err, domain.ErrNotRunning),
		errors.Is(err, domain.ErrAlreadyRunning):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSubjectNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func gridResponse(g *domain.Grid) GenerateGridResponse {
	return GenerateGridResponse{
		Success: true,
		Grid:    g.Matrix(),
		Rows:    g.Rows,
		Cols:    g.Cols,
		Start:   [2]int{g.Start.Row, g.Start.Col},
		End:     [2]int{g.End.Row, g.End.Col},
	}
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
