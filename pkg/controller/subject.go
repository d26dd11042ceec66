package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/algoviz/pkg/domain"
)

// Prepare makes sure both subjects exist: each one is restored from the store when
// possible and generated otherwise.
func (c *Controller) Prepare(ctx context.Context) error {
	if err := c.Restore(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	needSeq, needGrid := c.seq == nil, c.grid == nil
	c.mu.Unlock()

	var errs []error
	if needSeq {
		errs = append(errs, c.Regenerate(ctx, domain.ModeSorting))
	}
	if needGrid {
		errs = append(errs, c.Regenerate(ctx, domain.ModePathfinding))
	}
	return errors.Join(errs...)
}

// Restore loads the subjects kept by the store. Missing subjects are not an error.
// Without a store it does nothing.
func (c *Controller) Restore(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	seq, err := c.store.LoadSequence(ctx)
	if err != nil && !errors.Is(err, domain.ErrSubjectNotFound) {
		return fmt.Errorf("failed to restore sequence: %w", err)
	}
	grid, gerr := c.store.LoadGrid(ctx)
	if gerr != nil && !errors.Is(gerr, domain.ErrSubjectNotFound) {
		return fmt.Errorf("failed to restore grid: %w", gerr)
	}
	if gerr == nil {
		if verr := grid.Validate(); verr != nil {
			c.logger.Warn("discarding stored grid", "error", verr)
			gerr = verr
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != domain.StateIdle {
		return domain.ErrAlreadyRunning
	}
	if err == nil {
		c.seq = seq
	}
	if gerr == nil {
		c.grid = grid
	}
	c.logger.Debug("subjects restored", "sequence", err == nil, "grid", gerr == nil)
	return nil
}

// Regenerate replaces the subject of mode with a freshly generated one. It refuses
// with domain.ErrAlreadyRunning unless the controller is idle.
func (c *Controller) Regenerate(ctx context.Context, mode domain.Mode) error {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()
	if state != domain.StateIdle && state != domain.StateCancelled {
		return domain.ErrAlreadyRunning
	}
	return c.regenerate(ctx, mode)
}

// UseSequence installs seq as the current sequence.
func (c *Controller) UseSequence(ctx context.Context, seq domain.Sequence) error {
	if seq == nil {
		return domain.ErrNoSubject
	}
	return c.install(ctx, seq.Clone(), nil)
}

// UseGrid installs g as the current grid after validating it.
func (c *Controller) UseGrid(ctx context.Context, g *domain.Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return c.install(ctx, nil, g.Clone())
}

// regenerate is called while no runner owns the subject.
func (c *Controller) regenerate(ctx context.Context, mode domain.Mode) error {
	spec := c.spec
	switch mode {
	case domain.ModeSorting:
		seq, err := c.gen.GenerateSequence(ctx, spec.Size, spec.Min, spec.Max)
		if err != nil {
			c.drop(mode)
			c.logger.Error("sequence generation failed", "error", err)
			return fmt.Errorf("%w: %w", domain.ErrNoSubject, err)
		}
		return c.install(ctx, seq, nil)
	case domain.ModePathfinding:
		grid, err := c.gen.GenerateGrid(ctx, spec.Rows, spec.Cols, spec.ObstacleFraction)
		if err == nil {
			err = grid.Validate()
		}
		if err != nil {
			c.drop(mode)
			c.logger.Error("grid generation failed", "error", err)
			return fmt.Errorf("%w: %w", domain.ErrNoSubject, err)
		}
		return c.install(ctx, nil, grid)
	}
	return fmt.Errorf("%w: %q", domain.ErrInvalidMode, mode)
}

func (c *Controller) install(ctx context.Context, seq domain.Sequence, grid *domain.Grid) error {
	c.mu.Lock()
	if c.state != domain.StateIdle && c.state != domain.StateCancelled {
		c.mu.Unlock()
		return domain.ErrAlreadyRunning
	}
	if seq != nil {
		c.seq = seq
	}
	if grid != nil {
		c.grid = grid
	}
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	// A store failure does not invalidate the subject already installed.
	if seq != nil {
		if err := c.store.SaveSequence(ctx, seq); err != nil {
			c.logger.Warn("failed to persist sequence", "error", err)
		}
	}
	if grid != nil {
		if err := c.store.SaveGrid(ctx, grid); err != nil {
			c.logger.Warn("failed to persist grid", "error", err)
		}
	}
	return nil
}

func (c *Controller) drop(mode domain.Mode) {
	c.mu.Lock()
	if mode == domain.ModeSorting {
		c.seq = nil
	} else {
		c.grid = nil
	}
	c.mu.Unlock()
	if c.store != nil {
		_ = c.store.Delete(context.Background(), mode)
	}
}
