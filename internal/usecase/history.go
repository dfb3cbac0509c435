package usecase

import (
	"sync"

	"BotPull/internal/domain/models"
)

// EquityHistory turns the effective snapshot stream into a bounded series of
// bankroll values for charting. A new point is appended only when the
// snapshot's cycle differs from the last observed one, so re-broadcasts of
// the same decision round never duplicate points.
type EquityHistory struct {
	mu        sync.RWMutex
	points    []float64
	capacity  int
	seed      float64
	lastCycle int64
	observed  bool
}

// NewEquityHistory seeds the series with one initial point so the chart is
// never empty.
func NewEquityHistory(capacity int, seed float64) *EquityHistory {
	if capacity <= 0 {
		capacity = 200
	}
	return &EquityHistory{
		points:   []float64{seed},
		capacity: capacity,
		seed:     seed,
	}
}

// Observe appends the snapshot's bankroll if its cycle differs from the last
// observed cycle. The series stays bounded: oldest points fall off the front.
func (h *EquityHistory) Observe(snap *models.Snapshot) {
	if snap == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.observed && snap.Cycle == h.lastCycle {
		return
	}
	h.observed = true
	h.lastCycle = snap.Cycle

	h.points = append(h.points, snap.Bankroll(h.seed))
	if over := len(h.points) - h.capacity; over > 0 {
		h.points = h.points[over:]
	}
}

// Points returns a copy of the series, oldest first.
func (h *EquityHistory) Points() []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]float64, len(h.points))
	copy(out, h.points)
	return out
}

// Len returns the current series length.
func (h *EquityHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.points)
}
