package repository

import (
	"context"

	"BotPull/internal/domain/models"
)

// SnapshotSource exposes the most recent snapshot a producer holds, or nil
// before anything has been produced.
type SnapshotSource interface {
	Snapshot() *models.Snapshot
}

// StateStream is a live connection to the remote trading process. The stream
// owns its reconnect lifecycle; Snapshot is retained across transient drops.
type StateStream interface {
	SnapshotSource
	Start(ctx context.Context) error
	IsConnected() bool
	Close() error
}

type Metrics interface {
	RecordSnapshot(source string)
	RecordDecodeFailure()
	RecordReconnect()
	RecordConnected(up bool)
	RecordBankroll(v float64)
	RecordOraclePrice(v float64)
	RecordLatency(op string, seconds float64)
}

// NopMetrics discards all recordings. Default for components constructed
// without a recorder, and for tests.
type NopMetrics struct{}

func (NopMetrics) RecordSnapshot(string)         {}
func (NopMetrics) RecordDecodeFailure()          {}
func (NopMetrics) RecordReconnect()              {}
func (NopMetrics) RecordConnected(bool)          {}
func (NopMetrics) RecordBankroll(float64)        {}
func (NopMetrics) RecordOraclePrice(float64)     {}
func (NopMetrics) RecordLatency(string, float64) {}
