package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	authpkg "github.com/octobees/movescout/internal/auth"
)

const bearerChallenge = `Bearer realm="movescout"`

var (
	errMissingAuthorization   = errors.New("missing authorization header")
	errMalformedAuthorization = errors.New("authorization header must carry a bearer token")
)

// JWT admits requests carrying a valid operator token and records the
// operator and role on the context.
func JWT(manager *authpkg.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return unauthorized(c, err.Error())
			}

			claims, err := manager.ParseToken(token)
			if err != nil {
				return unauthorized(c, "invalid or expired token")
			}

			c.Set(ContextKeyOperator, claims.Subject)
			c.Set(ContextKeyRole, claims.Role)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errMissingAuthorization
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errMalformedAuthorization
	}
	return token, nil
}

func unauthorized(c echo.Context, message string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, bearerChallenge)
	return reject(c, http.StatusUnauthorized, message)
}
