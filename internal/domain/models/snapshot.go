package models

import (
	"encoding/json"
	"fmt"
)

// Direction is the producer's view of where price is heading.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionHold Direction = "hold"
)

// Snapshot is one complete state record from the trading process. Live and
// synthetic snapshots populate the same field set so downstream consumers
// never care about origin. Cycle is the change-detection key for history
// accumulation.
type Snapshot struct {
	Type      string  `json:"type,omitempty"`
	Timestamp float64 `json:"timestamp,omitempty"`
	Cycle     int64   `json:"cycle"`

	Oracle   Oracle                   `json:"oracle"`
	Anchor   Anchor                   `json:"anchor"`
	Strategy Strategy                 `json:"strategy"`
	Signals  map[string]SignalReading `json:"signals"`
	Stats    Stats                    `json:"stats"`
	Risk     Risk                     `json:"risk"`
	Position Positions                `json:"positions,omitempty"`
	Config   BotConfig                `json:"config"`

	// Seconds until the next decision boundary; derived locally from the
	// wall clock when the producer omits it.
	RemainingSecs *int `json:"remaining_secs,omitempty"`
}

// Oracle is the consensus price view across feed sources.
type Oracle struct {
	Price     float64  `json:"price"`
	Chainlink float64  `json:"chainlink"`
	Sources   []string `json:"sources"`
	SpreadPct float64  `json:"spread_pct"`
}

// Anchor is the window-open reference price the strategy drifts against.
type Anchor struct {
	OpenPrice float64 `json:"open_price"`
	Source    string  `json:"source"`
	DriftPct  float64 `json:"drift_pct"`
}

type Strategy struct {
	Direction     Direction `json:"direction"`
	Confidence    float64   `json:"confidence"`
	ShouldTrade   bool      `json:"should_trade"`
	Reason        string    `json:"reason,omitempty"`
	DriftPct      float64   `json:"drift_pct"`
	VolatilityPct float64   `json:"volatility_pct,omitempty"`
}

// SignalReading is one named signal's contribution. The key set of the
// Signals map is open-ended; consumers must tolerate any (or no) names.
type SignalReading struct {
	Direction   Direction `json:"direction"`
	Strength    float64   `json:"strength"`
	RawValue    float64   `json:"raw_value"`
	Description string    `json:"description,omitempty"`
}

type Stats struct {
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"`
	TotalPnl     float64 `json:"total_pnl"`
	TotalWagered float64 `json:"total_wagered"`
	TotalTrades  int     `json:"total_trades"`
}

type Risk struct {
	DailyTrades       int     `json:"daily_trades"`
	MaxDailyTrades    int     `json:"max_daily_trades"`
	DailyLossPct      float64 `json:"daily_loss_pct,omitempty"`
	ConsecutiveLosses int     `json:"consecutive_losses"`
	CooldownActive    bool    `json:"cooldown_active,omitempty"`
}

// Positions carries the producer's open and recently closed trade records.
type Positions struct {
	Open   []TradeRecord `json:"open,omitempty"`
	Closed []TradeRecord `json:"closed,omitempty"`
}

type TradeRecord struct {
	ID         string  `json:"id"`
	Direction  string  `json:"direction"`
	SizeUSD    float64 `json:"size_usd"`
	EntryPrice float64 `json:"entry_price"`
	Confidence float64 `json:"confidence"`
	Pnl        float64 `json:"pnl,omitempty"`
	Outcome    string  `json:"outcome,omitempty"`
	Timestamp  float64 `json:"timestamp"`
}

type BotConfig struct {
	Bankroll     float64 `json:"bankroll"`
	ArbEnabled   bool    `json:"arb_enabled"`
	HedgeEnabled bool    `json:"hedge_enabled"`
}

// Bankroll returns the snapshot's bankroll, or the seed value when the
// producer left it unset.
func (s *Snapshot) Bankroll(seed float64) float64 {
	if s == nil || s.Config.Bankroll == 0 {
		return seed
	}
	return s.Config.Bankroll
}

// WinRate derives wins/(wins+losses)*100, or 0 with no resolved trades.
func WinRate(wins, losses int) float64 {
	total := wins + losses
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total) * 100
}

// DecodeSnapshot parses one inbound frame. Frames that are not state records
// (heartbeats, acks) return ErrNotState so callers can skip them without
// treating the frame as malformed. Unknown extra fields are ignored.
func DecodeSnapshot(b []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Type != "" && s.Type != "state" {
		return nil, ErrNotState
	}
	return &s, nil
}

// ErrNotState marks a well-formed frame that is not a state record.
var ErrNotState = fmt.Errorf("frame is not a state record")
