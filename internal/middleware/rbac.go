package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole admits requests whose token role is one of roles. It runs
// after JWT, which puts the role on the context.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextKeyRole).(string)
			if role == "" {
				return reject(c, http.StatusForbidden, "token carries no role")
			}
			if _, ok := allowed[role]; !ok {
				return reject(c, http.StatusForbidden, "role not permitted for this route")
			}
			return next(c)
		}
	}
}
