package usecase

import (
	"context"
	"sync"

	"BotPull/internal/domain/models"
	mid "BotPull/internal/middleware"
)

// StateCollector is the single event loop tying the producers together. Both
// the stream client and the synthetic generator call Notify after emitting;
// the collector re-evaluates the selector on every notification, feeds the
// equity history, and fans the effective snapshot out to subscribers.
// Notifications coalesce: a slow loop sees at most one pending wakeup.
type StateCollector struct {
	selector *StateSelector
	history  *EquityHistory
	fanout   *mid.Fanout

	events chan struct{}

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

func NewStateCollector(selector *StateSelector, history *EquityHistory, fanout *mid.Fanout) *StateCollector {
	return &StateCollector{
		selector: selector,
		history:  history,
		fanout:   fanout,
		events:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Notify wakes the collector loop. Safe from any goroutine; never blocks.
func (c *StateCollector) Notify() {
	select {
	case c.events <- struct{}{}:
	default:
	}
}

// Start launches the collector loop.
func (c *StateCollector) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil
	}
	c.started = true
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	go c.run(runCtx)
	return nil
}

func (c *StateCollector) run(ctx context.Context) {
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.events:
			c.process()
		}
	}
}

func (c *StateCollector) process() {
	snap, _, _ := c.selector.Effective()
	if snap == nil {
		return
	}
	c.history.Observe(snap)
	if c.fanout != nil {
		c.fanout.Publish(snap)
	}
}

// Effective exposes the selector's current choice for pull-style consumers.
func (c *StateCollector) Effective() (*models.Snapshot, string, bool) {
	return c.selector.Effective()
}

// History exposes the equity series.
func (c *StateCollector) History() *EquityHistory {
	return c.history
}

// Shutdown stops the loop and waits for it to exit.
func (c *StateCollector) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	started := c.started
	cancel := c.cancel
	c.mu.Unlock()
	if !started {
		return nil
	}
	cancel()
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
