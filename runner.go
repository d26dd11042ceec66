package algoviz

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aretw0/algoviz/pkg/controller"
	"github.com/aretw0/algoviz/pkg/domain"
)

// Runner drives a single run from a line-oriented control surface: "p" (or an empty
// line) toggles the pause, "r" resets and "q" cancels. This allows for easy testing
// and integration with different frontends (CLI, scripts).
//
// A Runner may drive several runs in turn. Input is read by a single goroutine that
// lives until Input reaches EOF; lines typed between runs go to the next one.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool

	readOnce sync.Once
	lines    chan string
}

// NewRunner creates a Runner. Input and Output must be set before Run unless Headless.
func NewRunner(input io.Reader, output io.Writer) *Runner {
	return &Runner{Input: input, Output: output}
}

// Run starts p on engine and returns its result. In headless mode no input is read.
func (r *Runner) Run(ctx context.Context, engine *Engine, p controller.Params) (domain.RunResult, error) {
	if !r.Headless && (r.Input == nil || r.Output == nil) {
		return domain.RunResult{}, errors.New("input and output must be set (use os.Stdin and os.Stdout)")
	}
	// Start would toggle a run that is already in flight; that one is not ours to drive.
	if engine.Status().State != domain.StateIdle {
		return domain.RunResult{}, domain.ErrAlreadyRunning
	}
	if err := engine.Start(ctx, p); err != nil {
		return domain.RunResult{}, err
	}

	if !r.Headless {
		fmt.Fprintln(r.Output, "[p] pause/resume  [r] reset  [q] quit")
		done, stopped := make(chan struct{}), make(chan struct{})
		go func() {
			defer close(stopped)
			r.control(ctx, engine, p.Mode, done)
		}()
		defer func() {
			close(done)
			<-stopped
		}()
	}

	res, err := engine.Wait(ctx)
	if err != nil {
		_ = engine.Cancel(context.WithoutCancel(ctx))
		return res, err
	}
	return res, nil
}

// commands returns the channel fed by the Input reader, starting it on first use.
func (r *Runner) commands() <-chan string {
	r.readOnce.Do(func() {
		r.lines = make(chan string)
		go func() {
			defer close(r.lines)
			sc := bufio.NewScanner(r.Input)
			for sc.Scan() {
				r.lines <- sc.Text()
			}
		}()
	})
	return r.lines
}

// control applies commands until done is closed, ctx ends or Input is exhausted.
func (r *Runner) control(ctx context.Context, engine *Engine, mode domain.Mode, done <-chan struct{}) {
	lines := r.commands()
	for {
		var text string
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case t, ok := <-lines:
			if !ok {
				return
			}
			text = t
		}
		if !engine.Status().State.Active() {
			return
		}
		line, err := SanitizeInput(text)
		if err != nil {
			fmt.Fprintf(r.Output, "input rejected: %v\n", err)
			continue
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "", "p", "pause", "resume":
			state, err := engine.TogglePause(ctx)
			if err != nil {
				return
			}
			fmt.Fprintf(r.Output, "-- %s\n", state)
		case "r", "reset":
			if err := engine.Reset(ctx, mode); err != nil {
				fmt.Fprintf(r.Output, "reset failed: %v\n", err)
			}
			return
		case "q", "quit", "exit":
			_ = engine.Cancel(ctx)
			return
		default:
			fmt.Fprintln(r.Output, "unknown command (p, r, q)")
		}
	}
}
