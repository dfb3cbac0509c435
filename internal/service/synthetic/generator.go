package synthetic

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"BotPull/internal/domain/models"
	drepo "BotPull/internal/domain/repository"
	applogger "BotPull/pkg/logger"
	"BotPull/pkg/util"
)

// Signal names mirror the live producer's strategy engine so the view layer
// renders the same rows either way.
var signalNames = []string{"price_vs_open", "momentum", "rsi", "macd", "ema_cross"}

// Generator manufactures schema-complete fake snapshots on a fixed cadence so
// the dashboard behaves identically with no live producer reachable. Each tick
// fully replaces the previous synthetic snapshot; the synthetic cycle counter
// increases monotonically.
type Generator struct {
	interval  time.Duration
	basePrice float64
	rng       *rand.Rand
	now       func() time.Time

	logger  *applogger.Logger
	metrics drepo.Metrics
	notify  func()

	mu     sync.RWMutex
	latest *models.Snapshot

	price float64
	cycle int64

	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

type Option func(*Generator)

// WithInterval sets the tick cadence.
func WithInterval(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.interval = d
		}
	}
}

// WithBasePrice sets the reference level the price walk orbits.
func WithBasePrice(p float64) Option {
	return func(g *Generator) {
		if p > 0 {
			g.basePrice = p
		}
	}
}

// WithRand injects the randomness source so sequences are reproducible.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// WithNow injects the time source for deterministic countdown fields.
func WithNow(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithLogger attaches a logger.
func WithLogger(l *applogger.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m drepo.Metrics) Option {
	return func(g *Generator) { g.metrics = m }
}

// WithNotify registers a callback invoked after each generated snapshot.
func WithNotify(fn func()) Option {
	return func(g *Generator) { g.notify = fn }
}

// SetNotify registers the notification callback after construction.
// It must be called before Start.
func (g *Generator) SetNotify(fn func()) { g.notify = fn }

func New(opts ...Option) *Generator {
	g := &Generator{
		interval:  4 * time.Second,
		basePrice: 97000,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
		metrics:   drepo.NopMetrics{},
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.price = g.basePrice
	return g
}

// Start generates one snapshot immediately, then one per interval, until ctx
// is cancelled or Close is called.
func (g *Generator) Start(ctx context.Context) error {
	g.mu.Lock()
	if g.started {
		g.mu.Unlock()
		return errors.New("synthetic: already started")
	}
	g.started = true
	runCtx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.mu.Unlock()

	go g.run(runCtx)
	return nil
}

func (g *Generator) run(ctx context.Context) {
	defer close(g.done)

	g.tick()
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.tick()
		}
	}
}

func (g *Generator) tick() {
	g.Generate()
	g.metrics.RecordSnapshot("synthetic")
	if g.notify != nil {
		g.notify()
	}
}

// Snapshot returns the latest synthetic snapshot, nil before the first tick.
func (g *Generator) Snapshot() *models.Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.latest
}

// Close stops the tick loop and waits for it to exit.
func (g *Generator) Close() error {
	g.mu.Lock()
	started := g.started
	cancel := g.cancel
	g.mu.Unlock()
	if !started {
		return nil
	}
	cancel()
	<-g.done
	return nil
}

// Generate advances the walk and builds the next snapshot. Exported so tests
// can drive the generator without the ticker.
func (g *Generator) Generate() *models.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.cycle++

	// Bounded random walk around the reference level.
	step := g.basePrice * 0.0004
	g.price += (g.rng.Float64()*2 - 1) * step
	band := g.basePrice * 0.015
	g.price = math.Max(g.basePrice-band, math.Min(g.basePrice+band, g.price))

	// Window-open price as a small offset from the current price.
	open := g.price * (1 + (g.rng.Float64()-0.5)*0.001)
	driftPct := (g.price - open) / open * 100
	direction := models.DirectionDown
	if driftPct > 0 {
		direction = models.DirectionUp
	}

	chainlink := g.price + (g.rng.Float64()*2-1)*3
	spreadPct := math.Abs(g.price-chainlink) / g.price * 100

	wins := g.rng.Intn(8)
	losses := g.rng.Intn(5)
	totalTrades := wins + losses
	totalPnl := float64(wins)*8 - float64(losses)*10 + (g.rng.Float64()*10 - 5)
	bankroll := 1000 + totalPnl

	confidence := 0.5 + g.rng.Float64()*0.45
	remaining := util.SecondsToNextBoundary(now)

	snap := &models.Snapshot{
		Type:      "state",
		Timestamp: float64(now.UnixNano()) / 1e9,
		Cycle:     g.cycle,
		Oracle: models.Oracle{
			Price:     g.price,
			Chainlink: chainlink,
			Sources:   []string{"chainlink", "binance"},
			SpreadPct: spreadPct,
		},
		Anchor: models.Anchor{
			OpenPrice: open,
			Source:    "chainlink",
			DriftPct:  driftPct,
		},
		Strategy: models.Strategy{
			Direction:   direction,
			Confidence:  confidence,
			ShouldTrade: confidence >= 0.65,
			DriftPct:    driftPct,
		},
		Signals: g.generateSignals(driftPct, direction),
		Stats: models.Stats{
			Wins:         wins,
			Losses:       losses,
			WinRate:      models.WinRate(wins, losses),
			TotalPnl:     totalPnl,
			TotalWagered: float64(totalTrades) * 25,
			TotalTrades:  totalTrades,
		},
		Risk: models.Risk{
			DailyTrades:       totalTrades,
			MaxDailyTrades:    20,
			ConsecutiveLosses: g.rng.Intn(3),
		},
		Config: models.BotConfig{
			Bankroll:     bankroll,
			ArbEnabled:   true,
			HedgeEnabled: false,
		},
		RemainingSecs: &remaining,
	}

	g.latest = snap
	return snap
}

func (g *Generator) generateSignals(driftPct float64, driftDir models.Direction) map[string]models.SignalReading {
	signals := make(map[string]models.SignalReading, len(signalNames))
	for _, name := range signalNames {
		r := models.SignalReading{
			Direction: models.DirectionUp,
			Strength:  0.2 + g.rng.Float64()*0.8,
			RawValue:  g.rng.Float64()*2 - 1,
		}
		if g.rng.Float64() < 0.5 {
			r.Direction = models.DirectionDown
		}
		switch name {
		case "price_vs_open":
			// Tracks the drift so the headline signal never contradicts the card.
			r.Direction = driftDir
			r.Strength = math.Min(1, math.Abs(driftPct)/0.2)
			r.RawValue = driftPct
		case "rsi":
			r.RawValue = 30 + g.rng.Float64()*40
		}
		signals[name] = r
	}
	return signals
}
