package flow

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTicker struct {
	ch      chan time.Time
	started atomic.Int32
	stopped atomic.Int32
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time)}
}

func (m *manualTicker) fn(time.Duration) (<-chan time.Time, func()) {
	m.started.Add(1)
	return m.ch, func() { m.stopped.Add(1) }
}

func (m *manualTicker) tick() {
	m.ch <- time.Now()
}

func machineWithTimer(seconds int) *Machine {
	m := NewMachine()
	m.Dispatch(ResendOTPSucceeded{})
	for m.Snapshot().OTPResendTimer > seconds {
		m.Dispatch(DecrementResendTimer{})
	}
	return m
}

func TestCountdown(t *testing.T) {
	t.Run("does not start when the timer is zero", func(t *testing.T) {
		ticker := newManualTicker()
		c := NewCountdown(NewMachine(), WithTicker(ticker.fn))

		assert.False(t, c.Start(context.Background()))
		assert.False(t, c.Running())
		assert.Zero(t, ticker.started.Load())
	})

	t.Run("counts down to zero and exits", func(t *testing.T) {
		m := machineWithTimer(3)
		ticker := newManualTicker()
		c := NewCountdown(m, WithTicker(ticker.fn))

		require.True(t, c.Start(context.Background()))
		ticker.tick()
		ticker.tick()
		ticker.tick()

		require.Eventually(t, func() bool { return !c.Running() }, time.Second, time.Millisecond)
		assert.Zero(t, m.Snapshot().OTPResendTimer)
		require.Eventually(t, func() bool { return ticker.stopped.Load() == 1 }, time.Second, time.Millisecond)
	})

	t.Run("only one countdown runs at a time", func(t *testing.T) {
		m := machineWithTimer(60)
		ticker := newManualTicker()
		c := NewCountdown(m, WithTicker(ticker.fn))
		defer c.Stop()

		assert.True(t, c.Start(context.Background()))
		assert.False(t, c.Start(context.Background()))
		assert.Equal(t, int32(1), ticker.started.Load())
	})

	t.Run("stop halts the countdown and waits for it", func(t *testing.T) {
		m := machineWithTimer(60)
		ticker := newManualTicker()
		c := NewCountdown(m, WithTicker(ticker.fn))

		require.True(t, c.Start(context.Background()))
		ticker.tick()
		c.Stop()

		assert.False(t, c.Running())
		assert.Equal(t, 59, m.Snapshot().OTPResendTimer)
		assert.Equal(t, int32(1), ticker.stopped.Load())
	})

	t.Run("cancelling the owning context tears it down", func(t *testing.T) {
		m := machineWithTimer(60)
		ticker := newManualTicker()
		c := NewCountdown(m, WithTicker(ticker.fn))

		ctx, cancel := context.WithCancel(context.Background())
		require.True(t, c.Start(ctx))
		cancel()

		require.Eventually(t, func() bool { return !c.Running() }, time.Second, time.Millisecond)
		assert.Equal(t, 60, m.Snapshot().OTPResendTimer)
	})

	t.Run("stop is safe when idle", func(t *testing.T) {
		c := NewCountdown(NewMachine())
		c.Stop()
		c.Stop()
		assert.False(t, c.Running())
	})

	t.Run("can restart after the timer is set again", func(t *testing.T) {
		m := machineWithTimer(1)
		ticker := newManualTicker()
		c := NewCountdown(m, WithTicker(ticker.fn))

		require.True(t, c.Start(context.Background()))
		ticker.tick()
		require.Eventually(t, func() bool { return !c.Running() }, time.Second, time.Millisecond)

		m.Dispatch(ResendOTPSucceeded{})
		require.True(t, c.Start(context.Background()))
		defer c.Stop()
		assert.Equal(t, int32(2), ticker.started.Load())
	})

	t.Run("real ticker decrements with a short interval", func(t *testing.T) {
		m := machineWithTimer(2)
		c := NewCountdown(m, WithInterval(time.Millisecond))

		require.True(t, c.Start(context.Background()))
		require.Eventually(t, func() bool { return m.Snapshot().OTPResendTimer == 0 }, time.Second, time.Millisecond)
		require.Eventually(t, func() bool { return !c.Running() }, time.Second, time.Millisecond)
	})
}
