package control

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Sleeper suspends for d or until ctx is done, whichever happens first.
type Sleeper func(ctx context.Context, d time.Duration)

// Clock is the step clock shared by a controller and the runner it drives.
// Safe for concurrent use: the controller toggles the pause flag while the
// runner blocks in Gate.
type Clock struct {
	mu     sync.Mutex
	paused bool
	resume chan struct{} // closed to release the gate; non-nil only while paused

	waiters atomic.Int32
	sleep   Sleeper
}

// ClockOption configures a Clock.
type ClockOption func(*Clock)

// WithSleeper replaces the wall-clock sleeper. Tests use it to run at full speed.
func WithSleeper(s Sleeper) ClockOption {
	return func(c *Clock) {
		if s != nil {
			c.sleep = s
		}
	}
}

// NewClock creates an unpaused clock.
func NewClock(opts ...ClockOption) *Clock {
	c := &Clock{sleep: SleepContext}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SleepContext is the default Sleeper, backed by a timer.
func SleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// NoSleep is a Sleeper that returns immediately.
func NoSleep(context.Context, time.Duration) {}

// Tick suspends the calling step for at least d. It returns early only when ctx is done.
func (c *Clock) Tick(ctx context.Context, d time.Duration) {
	c.sleep(ctx, d)
}

// Gate blocks while the clock is paused and returns as soon as the pause flag is
// cleared or ctx is done.
func (c *Clock) Gate(ctx context.Context) {
	c.mu.Lock()
	if !c.paused {
		c.mu.Unlock()
		return
	}
	ch := c.resume
	c.mu.Unlock()

	c.waiters.Add(1)
	defer c.waiters.Add(-1)
	select {
	case <-ch:
	case <-ctx.Done():
	}
}

// Pause sets the pause flag. It reports false if the clock was already paused,
// in which case no new wait channel is created.
func (c *Clock) Pause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pauseLocked()
}

// Resume clears the pause flag and releases the gate. It reports false (and does
// nothing) when the clock was not paused.
func (c *Clock) Resume() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resumeLocked()
}

// Toggle flips the pause flag and returns the new value.
func (c *Clock) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		c.resumeLocked()
	} else {
		c.pauseLocked()
	}
	return c.paused
}

// Paused reports the current pause flag.
func (c *Clock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Waiting reports whether a caller is currently parked in Gate.
func (c *Clock) Waiting() bool {
	return c.waiters.Load() > 0
}

func (c *Clock) pauseLocked() bool {
	if c.paused {
		return false
	}
	c.paused = true
	c.resume = make(chan struct{})
	return true
}

func (c *Clock) resumeLocked() bool {
	if !c.paused {
		return false
	}
	c.paused = false
	close(c.resume)
	c.resume = nil
	return true
}
