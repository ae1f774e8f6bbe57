package flow

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TickerFunc starts a ticker and returns its channel and a stop function.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Countdown decrements the resend timer once per interval while it is above
// zero. At most one goroutine runs at a time. It exits when the timer reaches
// zero, when the Start context is cancelled, or when Stop is called.
type Countdown struct {
	machine  *Machine
	interval time.Duration
	ticker   TickerFunc
	logger   *slog.Logger

	mu      sync.Mutex
	current *countdownRun
}

type countdownRun struct {
	cancel context.CancelFunc
	done   chan struct{}
}

type CountdownOption func(*Countdown)

// WithTicker replaces the wall-clock ticker. Tests drive ticks by hand.
func WithTicker(fn TickerFunc) CountdownOption {
	return func(c *Countdown) {
		c.ticker = fn
	}
}

func WithInterval(d time.Duration) CountdownOption {
	return func(c *Countdown) {
		c.interval = d
	}
}

func WithCountdownLogger(logger *slog.Logger) CountdownOption {
	return func(c *Countdown) {
		c.logger = logger
	}
}

// NewCountdown creates a stopped countdown bound to m.
func NewCountdown(m *Machine, opts ...CountdownOption) *Countdown {
	c := &Countdown{
		machine:  m,
		interval: time.Second,
		ticker:   realTicker,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins counting down if the timer is above zero and no countdown is
// already running. It reports whether a new goroutine was started.
func (c *Countdown) Start(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil || c.machine.Snapshot().OTPResendTimer == 0 {
		return false
	}

	ctx, cancel := context.WithCancel(ctx)
	run := &countdownRun{cancel: cancel, done: make(chan struct{})}
	c.current = run

	ticks, stop := c.ticker(c.interval)
	go c.loop(ctx, run, ticks, stop)
	return true
}

func (c *Countdown) loop(ctx context.Context, run *countdownRun, ticks <-chan time.Time, stop func()) {
	defer close(run.done)
	defer run.cancel()
	defer stop()

	for {
		select {
		case <-ctx.Done():
			c.release(run)
			return
		case <-ticks:
			c.machine.Dispatch(DecrementResendTimer{})

			c.mu.Lock()
			if c.machine.Snapshot().OTPResendTimer == 0 {
				if c.current == run {
					c.current = nil
				}
				c.mu.Unlock()
				if c.logger != nil {
					c.logger.Debug("resend cooldown elapsed")
				}
				return
			}
			c.mu.Unlock()
		}
	}
}

func (c *Countdown) release(run *countdownRun) {
	c.mu.Lock()
	if c.current == run {
		c.current = nil
	}
	c.mu.Unlock()
}

// Stop cancels a running countdown and waits for its goroutine to exit.
// Safe to call when nothing is running.
func (c *Countdown) Stop() {
	c.mu.Lock()
	run := c.current
	c.current = nil
	c.mu.Unlock()

	if run == nil {
		return
	}
	run.cancel()
	<-run.done
}

// Running reports whether a countdown goroutine is active.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}
