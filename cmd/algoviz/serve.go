package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/algoviz/internal/cli"
	httpAdapter "github.com/aretw0/algoviz/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the AlgoViz HTTP API: subject generation, run control, an SSE stream of
step events on /api/events and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		overrides := nest(flagOverrides(cmd, map[string]string{
			"addr":      "server.addr",
			"redis":     "redis.addr",
			"seed":      "seed",
			"store-dir": "store_dir",
		}))

		cfg, err := cli.ResolveConfig(configPath, os.Environ(), "", overrides)
		if err != nil {
			return err
		}
		logger := cli.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel)

		ctx := context.Background()
		engine, closeStore, err := cli.NewEngine(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()
		if err := engine.Prepare(ctx); err != nil {
			return fmt.Errorf("failed to prepare subjects: %w", err)
		}

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           httpAdapter.NewHandler(engine, httpAdapter.WithLogger(logger)),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Starting AlgoViz Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			fmt.Fprintf(cmd.OutOrStdout(), "\nStart shutdown... Signal: %v\n", sig)

			// A live run would keep SSE clients busy; stop it first.
			_ = engine.Cancel(ctx)

			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "AlgoViz Server stopped gracefully")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":5001", "Address to listen on")
	serveCmd.Flags().String("redis", "", "Persist subjects in the redis server at this address")
	serveCmd.Flags().String("store-dir", "", "Persist subjects as JSON files in this directory")
	serveCmd.Flags().Uint64("seed", 0, "Seed for the subject generator (0 picks a random one)")
}
