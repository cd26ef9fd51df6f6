package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/movescout/internal/config"
)

// DiscoverPath is the only route the discovery limiter applies to.
const DiscoverPath = "/discover"

// DiscoverRateLimiter applies a token bucket limiter to the discovery endpoint.
func DiscoverRateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}

	limiter := rate.NewLimiter(rate.Every(perRequest), cfg.Requests)
	retryAfter := strconv.Itoa(int(math.Ceil(perRequest.Seconds())))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() != DiscoverPath {
				return next(c)
			}
			if !limiter.Allow() {
				c.Response().Header().Set(echo.HeaderRetryAfter, retryAfter)
				return reject(c, http.StatusTooManyRequests, "discover rate limit exceeded")
			}
			return next(c)
		}
	}
}
