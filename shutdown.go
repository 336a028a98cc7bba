package ioc

import (
	"os"
	"os/signal"
	"sync"
)

// shutdownHook closes the container when one of its signals arrives.
type shutdownHook struct {
	signals  chan os.Signal
	done     chan struct{}
	stopOnce sync.Once
}

// RegisterShutdownHook installs a process-termination hook that closes the
// container when a shutdown signal arrives, then re-raises the signal so the
// process terminates as it would have without the hook. Close removes the
// hook. Registering twice is a no-op.
//
// If Close has already run when the signal arrives, the hook does nothing
// beyond re-raising, so destructors never run twice.
func (c *Container) RegisterShutdownHook() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hook != nil {
		return nil
	}

	h := &shutdownHook{
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
	signal.Notify(h.signals, c.signals...)
	c.hook = h

	go func() {
		select {
		case sig := <-h.signals:
			c.logger.Info("shutdown signal received", "signal", sig)
			c.closeFromHook(h)
			h.stop()
			c.onSignal(sig)
		case <-h.done:
		}
	}()

	c.logger.Debug("shutdown hook registered", "signals", c.signals)
	return nil
}

// closeFromHook runs the same exclusive section as Close. Losing the race to
// an explicit Close is not an error.
func (c *Container) closeFromHook(h *shutdownHook) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hook == h {
		c.hook = nil
	}
	if c.State() != StateInitialized {
		return
	}
	c.close()
}

func (h *shutdownHook) stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.signals)
		close(h.done)
	})
}

// reraise delivers sig to the current process with default handling restored.
func reraise(sig os.Signal) {
	signal.Reset(sig)
	if p, err := os.FindProcess(os.Getpid()); err == nil {
		_ = p.Signal(sig)
	}
}
