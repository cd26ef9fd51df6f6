package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/movescout/internal/auth"
	"github.com/octobees/movescout/internal/config"
	"github.com/octobees/movescout/internal/handler"
	middlewarepkg "github.com/octobees/movescout/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Discover *handler.DiscoverHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager), middlewarepkg.RequireRole(auth.RoleOperator))

	secured.POST(middlewarepkg.DiscoverPath, handlers.Discover.Discover, middlewarepkg.DiscoverRateLimiter(cfg.RateLimitDiscover))
	secured.GET("/sessions/:id", handlers.Discover.GetSession)
}
