package mcp

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
	"github.com/aretw0/algoviz/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// StatusURI is the resource exposing the controller snapshot.
const StatusURI = "algoviz://status"

// ArrayResponse is the structured result of generate_array.
type ArrayResponse struct {
	Array []int `json:"array" jsonschema_description:"The generated values"`
	Size  int   `json:"size" jsonschema_description:"Number of values"`
}

// GridResponse is the structured result of generate_grid.
type GridResponse struct {
	Grid  [][]int      `json:"grid" jsonschema_description:"Rows of 0 (open) and 1 (obstacle)"`
	Rows  int          `json:"rows"`
	Cols  int          `json:"cols"`
	Start domain.Point `json:"start"`
	End   domain.Point `json:"end"`
}

// Engine defines the interface required by the MCP server to drive algoviz.
type Engine interface {
	Generator() ports.Generator
	Start(ctx context.Context, p controller.Params) error
	Run(ctx context.Context, p controller.Params) (domain.RunResult, error)
	TogglePause(ctx context.Context) (domain.RunState, error)
	Reset(ctx context.Context, mode domain.Mode) error
	Status() domain.Snapshot
	UseSequence(ctx context.Context, seq domain.Sequence) error
	UseGrid(ctx context.Context, g *domain.Grid) error
}

var _ Engine = (*algoviz.Engine)(nil)

// Server wraps the algoviz Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("algoviz-mcp", algoviz.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, mostly for in-process transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and shuts it down when ctx ends.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("generate_array",
		mcp.WithDescription("Generate a random integer array and make it the sorting subject when no run is active."),
		mcp.WithNumber("size", mcp.Description("Number of values (default 20)")),
		mcp.WithNumber("min_val", mcp.Description("Smallest value (default 1)")),
		mcp.WithNumber("max_val", mcp.Description("Largest value (default 100)")),
		mcp.WithOutputSchema[ArrayResponse](),
	), mcp.NewStructuredToolHandler(s.handleGenerateArray))

	s.mcpServer.AddTool(mcp.NewTool("generate_grid",
		mcp.WithDescription("Generate a random obstacle grid and make it the pathfinding subject when no run is active."),
		mcp.WithNumber("rows", mcp.Description("Row count (default 15)")),
		mcp.WithNumber("cols", mcp.Description("Column count (default 15)")),
		mcp.WithNumber("obstacle_percentage", mcp.Description("Obstacle probability in [0,1] (default 0.3)")),
		mcp.WithOutputSchema[GridResponse](),
	), mcp.NewStructuredToolHandler(s.handleGenerateGrid))

	runArgs := []mcp.ToolOption{
		mcp.WithString("mode", mcp.Required(), mcp.Enum(string(domain.ModeSorting), string(domain.ModePathfinding))),
		mcp.WithString("algorithm", mcp.Required(), mcp.Description("bubble, quick, merge, heap, dijkstra, astar, bfs or dfs")),
		mcp.WithNumber("speed", mcp.Description("Playback speed 1..10 (default 5)")),
	}

	s.mcpServer.AddTool(mcp.NewTool("start_run", append([]mcp.ToolOption{
		mcp.WithDescription("Start a run in the background. If a run is active it is paused or resumed instead."),
		mcp.WithOutputSchema[domain.Snapshot](),
	}, runArgs...)...), mcp.NewStructuredToolHandler(s.handleStartRun))

	s.mcpServer.AddTool(mcp.NewTool("run_algorithm", append([]mcp.ToolOption{
		mcp.WithDescription("Run an algorithm to completion on the current subject and return its result."),
		mcp.WithOutputSchema[domain.RunResult](),
	}, runArgs...)...), mcp.NewStructuredToolHandler(s.handleRunAlgorithm))

	s.mcpServer.AddTool(mcp.NewTool("toggle_pause",
		mcp.WithDescription("Pause a running run or resume a paused one."),
		mcp.WithOutputSchema[domain.Snapshot](),
	), mcp.NewStructuredToolHandler(s.handleTogglePause))

	s.mcpServer.AddTool(mcp.NewTool("reset_run",
		mcp.WithDescription("Cancel any active run and regenerate the subject."),
		mcp.WithString("mode", mcp.Description("Subject to regenerate (default: the active run's mode, or both)")),
		mcp.WithOutputSchema[domain.Snapshot](),
	), mcp.NewStructuredToolHandler(s.handleResetRun))

	s.mcpServer.AddTool(mcp.NewTool("run_status",
		mcp.WithDescription("Get the current run state, progress and the last result."),
		mcp.WithOutputSchema[domain.Snapshot](),
	), mcp.NewStructuredToolHandler(s.handleRunStatus))
}

func (s *Server) handleGenerateArray(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ArrayResponse, error) {
	size := intArg(args, "size", generator.DefaultSize)
	minVal := intArg(args, "min_val", generator.DefaultMin)
	maxVal := intArg(args, "max_val", generator.DefaultMax)
	if err := generator.CheckSequence(size, minVal, maxVal); err != nil {
		return ArrayResponse{}, fmt.Errorf("generate_array failed: %w", err)
	}
	seq, err := s.engine.Generator().GenerateSequence(ctx, size, minVal, maxVal)
	if err != nil {
		return ArrayResponse{}, fmt.Errorf("generate_array failed: %w", err)
	}
	s.install(s.engine.UseSequence(ctx, seq))
	return ArrayResponse{Array: seq, Size: len(seq)}, nil
}

func (s *Server) handleGenerateGrid(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GridResponse, error) {
	rows := intArg(args, "rows", generator.DefaultRows)
	cols := intArg(args, "cols", generator.DefaultCols)
	fraction := floatArg(args, "obstacle_percentage", generator.DefaultObstacleFraction)
	if err := generator.CheckGrid(rows, cols, fraction); err != nil {
		return GridResponse{}, fmt.Errorf("generate_grid failed: %w", err)
	}
	grid, err := s.engine.Generator().GenerateGrid(ctx, rows, cols, fraction)
	if err != nil {
		return GridResponse{}, fmt.Errorf("generate_grid failed: %w", err)
	}
	s.install(s.engine.UseGrid(ctx, grid))
	return GridResponse{Grid: grid.Matrix(), Rows: grid.Rows, Cols: grid.Cols, Start: grid.Start, End: grid.End}, nil
}

func (s *Server) handleStartRun(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Snapshot, error) {
	if err := s.engine.Start(ctx, runParams(args)); err != nil {
		return domain.Snapshot{}, fmt.Errorf("start_run failed: %w", err)
	}
	return s.engine.Status(), nil
}

func (s *Server) handleRunAlgorithm(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.RunResult, error) {
	res, err := s.engine.Run(ctx, runParams(args))
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("run_algorithm failed: %w", err)
	}
	return res, nil
}

func (s *Server) handleTogglePause(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Snapshot, error) {
	if _, err := s.engine.TogglePause(ctx); err != nil {
		return domain.Snapshot{}, fmt.Errorf("toggle_pause failed: %w", err)
	}
	return s.engine.Status(), nil
}

func (s *Server) handleResetRun(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Snapshot, error) {
	mode, _ := args["mode"].(string)
	if err := s.engine.Reset(ctx, domain.Mode(mode)); err != nil {
		return domain.Snapshot{}, fmt.Errorf("reset_run failed: %w", err)
	}
	return s.engine.Status(), nil
}

func (s *Server) handleRunStatus(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Snapshot, error) {
	return s.engine.Status(), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(StatusURI, "Run Status",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.engine.Status())
		if err != nil {
			return nil, fmt.Errorf("failed to encode status: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      StatusURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func (s *Server) install(err error) {
	if err != nil && !errors.Is(err, domain.ErrAlreadyRunning) {
		s.logger.Warn("MCP: failed to install generated subject", "error", err)
	}
}

func runParams(args map[string]interface{}) controller.Params {
	mode, _ := args["mode"].(string)
	algo, _ := args["algorithm"].(string)
	return controller.Params{
		Mode:      domain.Mode(mode),
		Algorithm: domain.Algorithm(algo),
		Speed:     intArg(args, "speed", domain.DefaultSpeed),
	}
}

// JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

func floatArg(args map[string]interface{}, key string, def float64) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}
