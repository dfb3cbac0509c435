package middleware

import (
	"sync"

	"BotPull/internal/domain/models"
)

// Fanout is the delivery middleware between the collector and view-layer
// consumers. Delivery is non-blocking and latest-wins: when a subscriber's
// buffer is full the stale pending snapshot is replaced with the new one,
// so a slow consumer lags but never stalls the loop or sees ancient state.
type Fanout struct {
	mu      sync.Mutex
	subs    map[int]chan *models.Snapshot
	nextID  int
	bufSize int
	dropped int64
}

type FanoutOption func(*Fanout)

// WithSubscriberBuffer sets per-subscriber channel capacity.
func WithSubscriberBuffer(n int) FanoutOption {
	return func(f *Fanout) {
		if n > 0 {
			f.bufSize = n
		}
	}
}

func NewFanout(opts ...FanoutOption) *Fanout {
	f := &Fanout{
		subs:    make(map[int]chan *models.Snapshot),
		bufSize: 1,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Subscribe registers a consumer. The returned cancel func must be called to
// release the subscription.
func (f *Fanout) Subscribe() (<-chan *models.Snapshot, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	ch := make(chan *models.Snapshot, f.bufSize)
	f.subs[id] = ch
	return ch, func() { f.unsubscribe(id) }
}

func (f *Fanout) unsubscribe(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.subs[id]; ok {
		delete(f.subs, id)
		close(ch)
	}
}

// Publish delivers the snapshot to every subscriber without blocking.
func (f *Fanout) Publish(snap *models.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// full: evict the stale pending value, then retry once
		select {
		case <-ch:
			f.dropped++
		default:
		}
		select {
		case ch <- snap:
		default:
			f.dropped++
		}
	}
}

// Dropped reports how many stale snapshots were evicted or discarded.
func (f *Fanout) Dropped() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dropped
}

// SubscriberCount reports active subscriptions.
func (f *Fanout) SubscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
