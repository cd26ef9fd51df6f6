package middleware

import "github.com/labstack/echo/v4"

// rejection has the same JSON shape as the handler error envelope, for
// requests turned away before any handler runs.
type rejection struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func reject(c echo.Context, code int, message string) error {
	return c.JSON(code, rejection{
		Status:    "error",
		Message:   message,
		RequestID: RequestIDFromContext(c),
	})
}
