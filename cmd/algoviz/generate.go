package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/algoviz/internal/cli"
	httpAdapter "github.com/aretw0/algoviz/pkg/adapters/http"
	"github.com/aretw0/algoviz/pkg/generator"
	"github.com/aretw0/algoviz/pkg/ports"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:       "generate (array|grid)",
	Short:     "Generate a random array or grid and print it as JSON",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"array", "grid"},
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		remote, _ := cmd.Flags().GetString("remote")

		cfg, err := cli.ResolveConfig(configPath, os.Environ(), "", nest(flagOverrides(cmd, runFlagKeys)))
		if err != nil {
			return err
		}

		var gen ports.Generator
		if remote != "" {
			gen = httpAdapter.NewClient(remote)
		} else {
			opts := []generator.Option{}
			if cfg.Seed != 0 {
				opts = append(opts, generator.WithSeed(cfg.Seed))
			}
			gen = generator.New(opts...)
		}

		var out any
		spec := cfg.SubjectSpec()
		switch args[0] {
		case "array":
			seq, err := gen.GenerateSequence(cmd.Context(), spec.Size, spec.Min, spec.Max)
			if err != nil {
				return err
			}
			out = httpAdapter.GenerateArrayResponse{Success: true, Array: seq, Size: len(seq)}
		case "grid":
			g, err := gen.GenerateGrid(cmd.Context(), spec.Rows, spec.Cols, spec.ObstacleFraction)
			if err != nil {
				return err
			}
			out = httpAdapter.GenerateGridResponse{
				Success: true,
				Grid:    g.Matrix(),
				Rows:    g.Rows,
				Cols:    g.Cols,
				Start:   [2]int{g.Start.Row, g.Start.Col},
				End:     [2]int{g.End.Row, g.End.Col},
			}
		default:
			return fmt.Errorf("unknown subject %q: use array or grid", args[0])
		}
		return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("remote", "", "Use the generation endpoints of a running server (e.g. http://localhost:5001)")
	generateCmd.Flags().Uint64("seed", 0, "Seed for the generator (0 picks a random one)")
	generateCmd.Flags().Int("size", 20, "Array size")
	generateCmd.Flags().Int("min", 1, "Smallest generated value")
	generateCmd.Flags().Int("max", 100, "Largest generated value")
	generateCmd.Flags().Int("rows", 15, "Grid rows")
	generateCmd.Flags().Int("cols", 15, "Grid columns")
	generateCmd.Flags().Int("obstacles", 30, "Obstacle percentage (0-100)")
}
