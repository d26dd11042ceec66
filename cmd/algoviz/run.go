package main

import (
	"os"

	"github.com/aretw0/algoviz/internal/cli"
	"github.com/aretw0/algoviz/pkg/domain"
	"github.com/spf13/cobra"
)

var runFlagKeys = map[string]string{
	"algorithm": "algorithm",
	"speed":     "speed",
	"seed":      "seed",
	"size":      "array_size",
	"min":       "min_value",
	"max":       "max_value",
	"rows":      "grid_rows",
	"cols":      "grid_cols",
	"obstacles": "obstacle_percentage",
	"redis":     "redis.addr",
	"store-dir": "store_dir",
}

func newRunCmd(mode domain.Mode, use, short string, algorithms []domain.Algorithm) *cobra.Command {
	cmd := &cobra.Command{
		Use:       use + " [algorithm]",
		Short:     short,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: algorithmNames(algorithms),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			headless, _ := cmd.Flags().GetBool("headless")
			jsonMode, _ := cmd.Flags().GetBool("json")
			report, _ := cmd.Flags().GetBool("report")
			noBanner, _ := cmd.Flags().GetBool("no-banner")
			input, _ := cmd.Flags().GetString("input")

			overrides := nest(flagOverrides(cmd, runFlagKeys))
			if len(args) == 1 {
				overrides["algorithm"] = args[0]
			}

			ctx, stop := cli.InterruptContext(cmd.Context())
			defer stop()

			_, err := cli.Execute(ctx, cli.RunOptions{
				ConfigPath: configPath,
				Mode:       mode,
				Overrides:  overrides,
				InputPath:  input,
				Headless:   headless,
				JSON:       jsonMode,
				Report:     report,
				Banner:     !noBanner && !headless,
				Input:      os.Stdin,
				Output:     cmd.OutOrStdout(),
				Errors:     cmd.ErrOrStderr(),
			})
			return err
		},
	}

	cmd.Flags().StringP("algorithm", "a", "", "Algorithm to run")
	cmd.Flags().IntP("speed", "s", domain.DefaultSpeed, "Playback speed from 1 (slow) to 10 (fast)")
	cmd.Flags().Uint64("seed", 0, "Seed for the subject generator (0 picks a random one)")
	cmd.Flags().Bool("headless", false, "Run without reading controls from stdin")
	cmd.Flags().Bool("json", false, "Print the result as JSON instead of drawing")
	cmd.Flags().Bool("report", false, "Print a statistics report when the run ends")
	cmd.Flags().Bool("no-banner", false, "Do not print the banner")
	cmd.Flags().String("redis", "", "Persist subjects in the redis server at this address")
	cmd.Flags().String("store-dir", "", "Persist subjects as JSON files in this directory")
	cmd.Flags().StringP("input", "i", "", "JSON or YAML subject file (the output of 'algoviz generate')")

	switch mode {
	case domain.ModeSorting:
		cmd.Flags().Int("size", 20, "Array size")
		cmd.Flags().Int("min", 1, "Smallest generated value")
		cmd.Flags().Int("max", 100, "Largest generated value")
	case domain.ModePathfinding:
		cmd.Flags().Int("rows", 15, "Grid rows")
		cmd.Flags().Int("cols", 15, "Grid columns")
		cmd.Flags().Int("obstacles", 30, "Obstacle percentage (0-100)")
	}
	return cmd
}

// nest turns dotted keys into nested maps.
func nest(flat map[string]any) map[string]any {
	out := map[string]any{}
	for k, v := range flat {
		cli.SetPath(out, k, v)
	}
	return out
}

func algorithmNames(algos []domain.Algorithm) []string {
	out := make([]string, len(algos))
	for i, a := range algos {
		out[i] = string(a)
	}
	return out
}

func init() {
	rootCmd.AddCommand(newRunCmd(domain.ModeSorting, "sort", "Animate a sorting algorithm on a random array", domain.SortingAlgorithms))
	rootCmd.AddCommand(newRunCmd(domain.ModePathfinding, "path", "Animate a pathfinding algorithm on a random grid", domain.PathfindingAlgorithms))
}
