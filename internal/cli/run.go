package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/algoviz"
	"github.com/aretw0/algoviz/internal/config"
	"github.com/aretw0/algoviz/internal/presentation/tui"
	"github.com/aretw0/algoviz/pkg/domain"
)

// RunOptions contains all the configuration for the sort and path commands.
type RunOptions struct {
	ConfigPath string
	// Mode selects the subject; an algorithm configured for the other mode is ignored.
	Mode domain.Mode
	// Overrides are applied after the config file and the environment, usually from flags.
	Overrides map[string]any
	// InputPath names a subject file that replaces the generated subject.
	InputPath string
	Headless  bool
	JSON      bool
	Report    bool
	Banner    bool

	Input  io.Reader
	Output io.Writer
	// Errors receives the logs.
	Errors io.Writer
	// Environ defaults to os.Environ().
	Environ []string
	// Engine options appended after the config-derived ones; tests use it to drop delays.
	EngineOptions []algoviz.Option
}

// ResolveConfig loads the config file and applies the environment, the mode and then
// the overrides.
func ResolveConfig(path string, environ []string, mode domain.Mode, overrides map[string]any) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Apply(config.FromEnv(environ)); err != nil {
		return cfg, err
	}
	if mode != "" {
		cfg.UseMode(mode)
	}
	if err := cfg.Apply(overrides); err != nil {
		return cfg, err
	}
	if err := cfg.Normalize(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Execute runs one algorithm on a freshly prepared subject and prints its result.
func Execute(ctx context.Context, opts RunOptions) (domain.RunResult, error) {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Errors == nil {
		opts.Errors = os.Stderr
	}
	if opts.Environ == nil {
		opts.Environ = os.Environ()
	}

	cfg, err := ResolveConfig(opts.ConfigPath, opts.Environ, opts.Mode, opts.Overrides)
	if err != nil {
		return domain.RunResult{}, err
	}
	logger := NewLogger(opts.Errors, cfg.LogLevel)

	engine, closeStore, err := NewEngine(ctx, cfg, logger, opts.EngineOptions...)
	if err != nil {
		return domain.RunResult{}, err
	}
	defer func() { _ = closeStore() }()

	if err := engine.Prepare(ctx); err != nil {
		return domain.RunResult{}, fmt.Errorf("failed to prepare subjects: %w", err)
	}
	if opts.InputPath != "" {
		if err := useSubjectFile(ctx, engine, opts.InputPath); err != nil {
			return domain.RunResult{}, err
		}
	}

	if opts.Banner && !opts.JSON {
		tui.PrintBanner(opts.Output, algoviz.Version)
	}
	if !opts.JSON {
		detach := engine.Observe(tui.NewView(opts.Output, tui.WithLive(!opts.Headless && tui.IsTerminal(opts.Output))))
		defer detach()
	}

	runner := algoviz.NewRunner(opts.Input, opts.Output)
	runner.Headless = opts.Headless || opts.JSON || opts.Input == nil
	res, err := runner.Run(ctx, engine, cfg.Params())
	if err != nil {
		return res, err
	}

	switch {
	case opts.JSON:
		enc := json.NewEncoder(opts.Output)
		enc.SetIndent("", "  ")
		return res, enc.Encode(res)
	case opts.Report:
		return res, printReport(opts.Output, res)
	}
	return res, nil
}

func useSubjectFile(ctx context.Context, engine *algoviz.Engine, path string) error {
	seq, grid, err := LoadSubject(path)
	if err != nil {
		return err
	}
	if seq != nil {
		if err := engine.UseSequence(ctx, seq); err != nil {
			return err
		}
	}
	if grid != nil {
		if err := engine.UseGrid(ctx, grid); err != nil {
			return err
		}
	}
	return nil
}

func printReport(w io.Writer, res domain.RunResult) error {
	style := ""
	if !tui.IsTerminal(w) {
		style = "notty"
	}
	width, _ := tui.Size(w)
	render, err := tui.NewMarkdownRenderer(style, width)
	if err != nil {
		return err
	}
	out, err := render(tui.Report(res))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}

// SetPath stores value under a dotted key such as "redis.addr".
func SetPath(m map[string]any, key string, value any) {
	config.Set(m, strings.Split(key, "."), value)
}
