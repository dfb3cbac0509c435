package models

import (
	"errors"
	"testing"
)

func TestDecodeSnapshotFull(t *testing.T) {
	payload := []byte(`{
		"type": "state", "timestamp": 1767717000.5, "cycle": 42,
		"oracle": {"price": 96650.2, "chainlink": 96648.9, "sources": ["chainlink", "binance"], "spread_pct": 0.004},
		"anchor": {"open_price": 96601.0, "source": "chainlink", "drift_pct": 0.0509},
		"strategy": {"direction": "up", "confidence": 0.64, "should_trade": true, "drift_pct": 0.0509},
		"signals": {
			"price_vs_open": {"direction": "up", "strength": 0.25, "raw_value": 0.0509},
			"rsi": {"direction": "down", "strength": 0.4, "raw_value": 44.1}
		},
		"stats": {"wins": 5, "losses": 2, "win_rate": 71.43, "total_pnl": 20.0, "total_wagered": 175.0, "total_trades": 7},
		"risk": {"daily_trades": 7, "max_daily_trades": 20, "consecutive_losses": 1},
		"config": {"bankroll": 1020.0, "arb_enabled": true, "hedge_enabled": false},
		"remaining_secs": 312
	}`)
	s, err := DecodeSnapshot(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Cycle != 42 {
		t.Fatalf("cycle = %d", s.Cycle)
	}
	if s.Oracle.Price != 96650.2 || len(s.Oracle.Sources) != 2 {
		t.Fatalf("oracle = %+v", s.Oracle)
	}
	if s.Strategy.Direction != DirectionUp || !s.Strategy.ShouldTrade {
		t.Fatalf("strategy = %+v", s.Strategy)
	}
	if got := s.Signals["rsi"].RawValue; got != 44.1 {
		t.Fatalf("rsi raw = %v", got)
	}
	if s.RemainingSecs == nil || *s.RemainingSecs != 312 {
		t.Fatalf("remaining_secs = %v", s.RemainingSecs)
	}
}

func TestDecodeSnapshotTolerant(t *testing.T) {
	// Unknown fields and missing optional sections must not fail the decode.
	s, err := DecodeSnapshot([]byte(`{"cycle": 3, "config": {"bankroll": 850}, "future_field": {"x": 1}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Cycle != 3 || s.Config.Bankroll != 850 {
		t.Fatalf("snapshot = %+v", s)
	}
	if s.RemainingSecs != nil {
		t.Fatalf("expected nil remaining_secs")
	}
	if len(s.Signals) != 0 {
		t.Fatalf("expected empty signals")
	}
}

func TestDecodeSnapshotNonState(t *testing.T) {
	_, err := DecodeSnapshot([]byte(`{"type": "pong"}`))
	if !errors.Is(err, ErrNotState) {
		t.Fatalf("expected ErrNotState, got %v", err)
	}
}

func TestDecodeSnapshotMalformed(t *testing.T) {
	if _, err := DecodeSnapshot([]byte(`{"cycle": `)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestWinRate(t *testing.T) {
	if got := WinRate(0, 0); got != 0 {
		t.Fatalf("no trades: %v", got)
	}
	if got := WinRate(3, 1); got != 75 {
		t.Fatalf("3W1L: %v", got)
	}
}

func TestBankrollFallback(t *testing.T) {
	var nilSnap *Snapshot
	if got := nilSnap.Bankroll(1000); got != 1000 {
		t.Fatalf("nil snapshot: %v", got)
	}
	s := &Snapshot{}
	if got := s.Bankroll(1000); got != 1000 {
		t.Fatalf("zero bankroll: %v", got)
	}
	s.Config.Bankroll = 725.5
	if got := s.Bankroll(1000); got != 725.5 {
		t.Fatalf("set bankroll: %v", got)
	}
}
