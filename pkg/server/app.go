package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"BotPull/internal/domain/repository"
	"BotPull/internal/handler/api"
	"BotPull/internal/service/synthetic"
	"BotPull/internal/usecase"
	"BotPull/pkg/config"
	xhttp "BotPull/pkg/http"
	applogger "BotPull/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	stream      repository.StateStream
	generator   *synthetic.Generator
	collector   *usecase.StateCollector
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	stream repository.StateStream,
	generator *synthetic.Generator,
	collector *usecase.StateCollector,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		stream:    stream,
		generator: generator,
		collector: collector,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.logger

	httpHandler := a.httpHandler
	if httpHandler == nil {
		httpHandler = api.NewStateEchoHandler(l, a.collector, api.RateLimitSettings{
			Enabled:   a.cfg.RateLimit.Enabled,
			Burst:     a.cfg.RateLimit.Burst,
			PerSecond: a.cfg.RateLimit.PerSecond,
		})
	}

	a.httpServer = xhttp.NewServer(httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithServerLogger(l),
	)

	// State collector drains producer notifications, so it goes first.
	if err := a.collector.Start(ctx); err != nil {
		l.Error("collector start error", applogger.Error(err))
		return err
	}
	l.Info("state collector started")

	if err := a.stream.Start(ctx); err != nil {
		l.Error("feed start error", applogger.Error(err))
		return err
	}
	l.Info("feed client started", applogger.String("endpoint", a.cfg.Feed.Endpoint))

	if err := a.generator.Start(ctx); err != nil {
		l.Error("synthetic generator start error", applogger.Error(err))
		return err
	}
	l.Info("synthetic generator started", applogger.Duration("interval", a.cfg.Synthetic.Interval))

	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.logger

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop producers first so the collector sees no more notifications.
	if err := a.stream.Close(); err != nil {
		l.Warn("feed close error", applogger.Error(err))
	}
	if err := a.generator.Close(); err != nil {
		l.Warn("synthetic generator close error", applogger.Error(err))
	}

	if err := a.collector.Shutdown(shutdownCtx); err != nil {
		l.Warn("collector stop error", applogger.Error(err))
	}

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	l.Info("shutdown complete")
	return nil
}
