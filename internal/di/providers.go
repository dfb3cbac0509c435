package di

import (
	"fmt"
	"math/rand"

	"BotPull/internal/domain/repository"
	"BotPull/internal/handler/api"
	mid "BotPull/internal/middleware"
	"BotPull/internal/service/feed"
	"BotPull/internal/service/synthetic"
	"BotPull/internal/usecase"
	"BotPull/pkg/config"
	xhttp "BotPull/pkg/http"
	applogger "BotPull/pkg/logger"
	"BotPull/pkg/metrics"
	"BotPull/pkg/server"
)

// ProvideLogger creates the structured logger with its warning ring.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	l.AddCollector(cfg.Logging.RingCapacity)
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideFeedClient creates the live WebSocket stream client.
func ProvideFeedClient(cfg *config.Config, l *applogger.Logger, m repository.Metrics) *feed.Client {
	return feed.New(cfg.Feed.Endpoint,
		feed.WithRetryDelay(cfg.Feed.RetryDelay),
		feed.WithPingInterval(cfg.Feed.PingInterval),
		feed.WithHandshakeTimeout(cfg.Feed.HandshakeTimeout),
		feed.WithLogger(l),
		feed.WithMetrics(m),
	)
}

// ProvideStateStream exposes the feed client through the stream interface.
func ProvideStateStream(c *feed.Client) repository.StateStream { return c }

// ProvideGenerator creates the synthetic snapshot generator.
func ProvideGenerator(cfg *config.Config, l *applogger.Logger, m repository.Metrics) *synthetic.Generator {
	opts := []synthetic.Option{
		synthetic.WithInterval(cfg.Synthetic.Interval),
		synthetic.WithBasePrice(cfg.Synthetic.BasePrice),
		synthetic.WithLogger(l),
		synthetic.WithMetrics(m),
	}
	if cfg.Synthetic.Seed != 0 {
		opts = append(opts, synthetic.WithRand(rand.New(rand.NewSource(cfg.Synthetic.Seed))))
	}
	return synthetic.New(opts...)
}

// ProvideSelector creates the live-over-synthetic selector.
func ProvideSelector(stream repository.StateStream, gen *synthetic.Generator) *usecase.StateSelector {
	return usecase.NewStateSelector(stream, gen)
}

// ProvideHistory creates the bounded equity history.
func ProvideHistory(cfg *config.Config) *usecase.EquityHistory {
	return usecase.NewEquityHistory(cfg.History.Capacity, cfg.History.SeedBankroll)
}

// ProvideFanout creates the snapshot fanout for downstream consumers.
func ProvideFanout() *mid.Fanout {
	return mid.NewFanout()
}

// ProvideStateCollector creates the collector event loop.
func ProvideStateCollector(selector *usecase.StateSelector, history *usecase.EquityHistory, fanout *mid.Fanout) *usecase.StateCollector {
	return usecase.NewStateCollector(selector, history, fanout)
}

// ProvideStateHandler creates the Echo API handler.
func ProvideStateHandler(cfg *config.Config, l *applogger.Logger, collector *usecase.StateCollector) *api.StateEchoHandler {
	return api.NewStateEchoHandler(l, collector, api.RateLimitSettings{
		Enabled:   cfg.RateLimit.Enabled,
		Burst:     cfg.RateLimit.Burst,
		PerSecond: cfg.RateLimit.PerSecond,
	})
}

// ProvideHTTPHandler exposes the API handler through the route registration interface.
func ProvideHTTPHandler(h *api.StateEchoHandler) xhttp.Handler { return h }

// ProvideApp creates the application server and hooks the producers to the
// collector so every accepted snapshot wakes the event loop.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	client *feed.Client,
	gen *synthetic.Generator,
	collector *usecase.StateCollector,
	handler xhttp.Handler,
) *server.App {
	client.SetNotify(collector.Notify)
	gen.SetNotify(collector.Notify)

	app := server.New(cfg, l, client, gen, collector)
	app.SetHTTPHandler(handler)
	return app
}
