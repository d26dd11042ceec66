package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "algoviz",
	Short: "AlgoViz runs sorting and pathfinding algorithms step by step",
	Long: `AlgoViz animates sorting (bubble, quick, merge, heap) and grid pathfinding
(dijkstra, astar, bfs, dfs) in the terminal, and serves the same engine over HTTP and MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error or off")
}

// flagOverrides maps the flags the user actually set to config keys.
func flagOverrides(cmd *cobra.Command, keys map[string]string) map[string]any {
	out := map[string]any{}
	for flag, key := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		out[key] = f.Value.String()
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		out["log_level"] = f.Value.String()
	}
	return out
}
