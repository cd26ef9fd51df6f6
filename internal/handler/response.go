package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	middlewarepkg "github.com/octobees/movescout/internal/middleware"
)

// APIResponse describes the standard envelope returned by the API. RequestID
// echoes the X-Request-ID so a session can be traced back to its logs.
type APIResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, envelope(c, "success", message, data))
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, envelope(c, "error", message, nil))
}

func envelope(c echo.Context, status, message string, data any) APIResponse {
	return APIResponse{
		Status:    status,
		Message:   message,
		RequestID: middlewarepkg.RequestIDFromContext(c),
		Data:      data,
	}
}
