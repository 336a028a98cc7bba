package ioc

import (
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHookedContainer(t *testing.T, runs *atomic.Int32) (*Container, chan os.Signal) {
	t.Helper()

	raised := make(chan os.Signal, 1)
	c := New()
	c.onSignal = func(sig os.Signal) { raised <- sig }

	require.NoError(t, c.AddSingleton("db", func() (any, error) { return struct{}{}, nil }))
	require.NoError(t, c.AddDestructor(func() error {
		runs.Add(1)
		return nil
	}))
	require.NoError(t, c.Init())
	require.NoError(t, c.RegisterShutdownHook())
	return c, raised
}

func TestShutdownHook(t *testing.T) {
	t.Run("SignalClosesContainer", func(t *testing.T) {
		var runs atomic.Int32
		c, raised := newHookedContainer(t, &runs)

		c.hook.signals <- syscall.SIGTERM

		select {
		case sig := <-raised:
			assert.Equal(t, syscall.SIGTERM, sig)
		case <-time.After(2 * time.Second):
			t.Fatal("shutdown hook did not fire")
		}

		assert.Equal(t, StateUnconfigured, c.State())
		assert.EqualValues(t, 1, runs.Load())

		// An explicit Close after the hook must not run destructors again.
		var stateErr *StateError
		assert.ErrorAs(t, c.Close(), &stateErr)
		assert.EqualValues(t, 1, runs.Load())
	})

	t.Run("CloseRemovesHook", func(t *testing.T) {
		var runs atomic.Int32
		c, _ := newHookedContainer(t, &runs)
		h := c.hook

		require.NoError(t, c.Close())
		assert.Nil(t, c.hook)

		select {
		case <-h.done:
		case <-time.After(2 * time.Second):
			t.Fatal("hook was not stopped by Close")
		}

		// A hook that lost the race to Close is a no-op.
		c.closeFromHook(h)
		assert.EqualValues(t, 1, runs.Load())
	})

	t.Run("RegisterTwiceIsNoop", func(t *testing.T) {
		var runs atomic.Int32
		c, _ := newHookedContainer(t, &runs)
		h := c.hook

		require.NoError(t, c.RegisterShutdownHook())
		assert.Same(t, h, c.hook)
		require.NoError(t, c.Close())
	})
}
