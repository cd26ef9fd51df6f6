package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/movescout/internal/auth"
)

func decodeRejection(t *testing.T, rec *httptest.ResponseRecorder) rejection {
	t.Helper()
	var body rejection
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestJWT(t *testing.T) {
	e := echo.New()
	manager := auth.NewJWTManager("secret", 0)

	token, err := manager.GenerateToken("op-7", auth.RoleOperator)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	foreign, err := auth.NewJWTManager("other-secret", 0).GenerateToken("op-7", auth.RoleOperator)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{name: "missing header", message: "missing authorization header"},
		{name: "basic scheme", header: "Basic b3A6cHc=", message: "authorization header must carry a bearer token"},
		{name: "bearer without token", header: "Bearer   ", message: "authorization header must carry a bearer token"},
		{name: "garbage token", header: "Bearer not-a-jwt", message: "invalid or expired token"},
		{name: "foreign signature", header: "Bearer " + foreign, message: "invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/discover", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.Set(ContextKeyRequestID, "rid-jwt")

			err := JWT(manager)(func(c echo.Context) error {
				t.Fatalf("handler must not run")
				return nil
			})(c)
			if err != nil {
				t.Fatalf("middleware returned error: %v", err)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if rec.Header().Get(echo.HeaderWWWAuthenticate) != bearerChallenge {
				t.Fatalf("expected bearer challenge, got %q", rec.Header().Get(echo.HeaderWWWAuthenticate))
			}
			body := decodeRejection(t, rec)
			if body.Status != "error" || body.Message != tt.message || body.RequestID != "rid-jwt" {
				t.Fatalf("unexpected body %+v", body)
			}
		})
	}

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/discover", nil)
		req.Header.Set(echo.HeaderAuthorization, "bearer "+token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		executed := false
		err := JWT(manager)(func(c echo.Context) error {
			executed = true
			if c.Get(ContextKeyOperator) != "op-7" || c.Get(ContextKeyRole) != auth.RoleOperator {
				t.Fatalf("expected operator identity in context")
			}
			return c.NoContent(http.StatusOK)
		})(c)
		if err != nil || !executed {
			t.Fatalf("expected handler to run, err=%v", err)
		}
	})
}
