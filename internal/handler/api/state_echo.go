package api

import (
	"time"

	models "BotPull/internal/domain/models"
	"BotPull/internal/service/ratelimit"
	"BotPull/internal/usecase"
	xhttp "BotPull/pkg/http"
	xmw "BotPull/pkg/http/middleware"
	xlogger "BotPull/pkg/logger"
	"BotPull/pkg/util"

	"github.com/labstack/echo/v4"
)

// RateLimitSettings controls the per-client limit on the /api group.
type RateLimitSettings struct {
	Enabled   bool
	Burst     float64
	PerSecond float64
}

// StateEchoHandler exposes the dashboard read surface over Echo.
type StateEchoHandler struct {
	logger    *xlogger.Logger
	collector *usecase.StateCollector
	rl        *ratelimit.Limiter
	rlCfg     RateLimitSettings
	now       func() time.Time
}

func NewStateEchoHandler(logger *xlogger.Logger, collector *usecase.StateCollector, rlCfg RateLimitSettings) *StateEchoHandler {
	return &StateEchoHandler{
		logger:    logger,
		collector: collector,
		rl:        ratelimit.New(),
		rlCfg:     rlCfg,
		now:       time.Now,
	}
}

func (h *StateEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	if h.rlCfg.Enabled {
		g.Use(xmw.RateLimit(xmw.RateLimitConfig{
			Allow: func(key string) bool {
				allowed := h.rl.Allow(key+":api", h.rlCfg.Burst, h.rlCfg.PerSecond)
				if !allowed {
					h.logger.Warn("api rate_limited", xlogger.String("remote", key))
				}
				return allowed
			},
		}))
	}
	g.GET("/state", h.State)
	g.GET("/equity", h.Equity)
	g.GET("/logs", h.Logs)
}

// StateResponse is the full dashboard payload.
type StateResponse struct {
	Connected     bool             `json:"connected"`
	Source        string           `json:"source"`
	RemainingSecs int              `json:"remaining_secs"`
	Countdown     string           `json:"countdown"`
	Snapshot      *models.Snapshot `json:"snapshot"`
}

// EquityResponse carries the bounded bankroll history.
type EquityResponse struct {
	Points []float64 `json:"points"`
	Count  int       `json:"count"`
}

// LogsResponse carries recent warning and error log entries.
type LogsResponse struct {
	Entries []xlogger.Entry `json:"entries"`
	Count   int             `json:"count"`
}

func (h *StateEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *StateEchoHandler) State(c echo.Context) error {
	snap, source, connected := h.collector.Effective()

	remaining := util.SecondsToNextBoundary(h.now())
	if snap != nil && snap.RemainingSecs != nil {
		remaining = *snap.RemainingSecs
	}

	return xhttp.SuccessResponse(c, StateResponse{
		Connected:     connected,
		Source:        source,
		RemainingSecs: remaining,
		Countdown:     util.FormatCountdown(remaining),
		Snapshot:      snap,
	})
}

func (h *StateEchoHandler) Equity(c echo.Context) error {
	points := h.collector.History().Points()
	return xhttp.SuccessResponse(c, EquityResponse{
		Points: points,
		Count:  len(points),
	})
}

func (h *StateEchoHandler) Logs(c echo.Context) error {
	limit := util.ParseIntDefault(c.QueryParam("limit"), 50)

	var entries []xlogger.Entry
	if col := h.logger.Collector(); col != nil {
		entries = col.Recent(limit)
	}
	if entries == nil {
		entries = []xlogger.Entry{}
	}
	return xhttp.SuccessResponse(c, LogsResponse{
		Entries: entries,
		Count:   len(entries),
	})
}
