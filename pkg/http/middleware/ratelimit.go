package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig holds per-client rate limit configuration.
type RateLimitConfig struct {
	// Allow decides whether one request may proceed for the given client key.
	Allow func(key string) bool
}

// RateLimit rejects requests with 429 when the allow function denies the
// client. The client key is the request's real IP.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Allow != nil && !cfg.Allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"status":  http.StatusTooManyRequests,
					"message": "Too Many Requests",
				})
			}
			return next(c)
		}
	}
}
