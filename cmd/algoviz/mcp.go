package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/algoviz/internal/cli"
	"github.com/aretw0/algoviz/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the AlgoViz engine as an MCP Server.
This allows AI agents to generate subjects and drive runs as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		transport, _ := cmd.Flags().GetString("transport")

		cfg, err := cli.ResolveConfig(configPath, os.Environ(), "", nest(flagOverrides(cmd, map[string]string{
			"port":  "server.mcp_port",
			"redis": "redis.addr",
		})))
		if err != nil {
			return err
		}
		// Stdout carries JSON-RPC in stdio mode, so logs always go to stderr.
		logger := cli.NewLogger(os.Stderr, cfg.LogLevel)
		log.SetOutput(os.Stderr)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engine, closeStore, err := cli.NewEngine(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()
		if err := engine.Prepare(ctx); err != nil {
			return fmt.Errorf("failed to prepare subjects: %w", err)
		}

		srv := mcp.NewServer(engine, logger)

		switch transport {
		case "stdio":
			logger.Info("Starting AlgoViz MCP Server (Stdio)...")
			if err := srv.ServeStdio(); err != nil {
				return fmt.Errorf("MCP Server execution failed: %w", err)
			}
		case "sse":
			logger.Info("Starting AlgoViz MCP Server (SSE)", "port", cfg.Server.MCPPort)
			if err := srv.ServeSSE(ctx, cfg.Server.MCPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("MCP Server execution failed: %w", err)
			}
			logger.Info("MCP Server stopped gracefully")
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8090, "Port to listen on (only for SSE)")
	mcpCmd.Flags().String("redis", "", "Persist subjects in the redis server at this address")
}
