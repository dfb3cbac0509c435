package usecase

import (
	"BotPull/internal/domain/models"
	drepo "BotPull/internal/domain/repository"
)

// Source labels for the effective snapshot's origin.
const (
	SourceLive      = "live"
	SourceSynthetic = "synthetic"
	SourceNone      = "none"
)

// StateSelector is the composition point the view layer reads. Once a live
// snapshot has ever arrived it always wins; the synthetic feed only covers
// the window where the remote process has never been heard from. The choice
// is re-evaluated on every call, never latched.
type StateSelector struct {
	live  drepo.StateStream
	synth drepo.SnapshotSource
}

func NewStateSelector(live drepo.StateStream, synth drepo.SnapshotSource) *StateSelector {
	return &StateSelector{live: live, synth: synth}
}

// Effective returns the snapshot to render, its origin, and the stream's
// connectivity flag verbatim (the synthetic feed never reports connected).
// Snapshot is nil only in the brief window before either producer has
// emitted anything.
func (s *StateSelector) Effective() (*models.Snapshot, string, bool) {
	connected := s.live.IsConnected()
	if snap := s.live.Snapshot(); snap != nil {
		return snap, SourceLive, connected
	}
	if snap := s.synth.Snapshot(); snap != nil {
		return snap, SourceSynthetic, connected
	}
	return nil, SourceNone, connected
}
