package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/movescout/internal/dto"
	"github.com/octobees/movescout/internal/entity"
	"github.com/octobees/movescout/internal/logger"
	middlewarepkg "github.com/octobees/movescout/internal/middleware"
	"github.com/octobees/movescout/internal/repository"
	"github.com/octobees/movescout/internal/service"
)

// SessionRunner runs discovery sessions and looks them up afterwards.
type SessionRunner interface {
	Run(ctx context.Context, req entity.CustomerRequest) (service.RunResult, error)
	Session(ctx context.Context, id uuid.UUID) (entity.Session, error)
}

// DiscoverHandler exposes the discovery pipeline over HTTP.
type DiscoverHandler struct {
	runner SessionRunner
	log    *zap.Logger
}

// NewDiscoverHandler wires the handler.
func NewDiscoverHandler(runner SessionRunner, log *zap.Logger) *DiscoverHandler {
	return &DiscoverHandler{runner: runner, log: logger.OrNop(log)}
}

// Discover handles POST /discover and returns the shortlist once the session closes.
func (h *DiscoverHandler) Discover(c echo.Context) error {
	var req dto.DiscoverRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	result, err := h.runner.Run(c.Request().Context(), req.CustomerRequest())
	if err != nil {
		if errors.Is(err, entity.ErrMissingAddress) {
			return Error(c, http.StatusBadRequest, err.Error())
		}
		h.log.Error("discovery session failed",
			zap.String("request_id", middlewarepkg.RequestIDFromContext(c)),
			zap.Error(err),
		)
		return Error(c, http.StatusInternalServerError, "discovery failed")
	}

	companies := result.Companies
	if companies == nil {
		companies = []entity.EnrichedCompany{}
	}
	resp := dto.DiscoverResponse{
		SessionID:  result.SessionID,
		ReportPath: result.ReportPath,
		Count:      len(companies),
		Companies:  companies,
	}
	return Success(c, http.StatusOK, "discovery completed", resp)
}

// GetSession handles GET /sessions/:id.
func (h *DiscoverHandler) GetSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid session id")
	}

	session, err := h.runner.Session(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return Error(c, http.StatusNotFound, "session not found")
		}
		return Error(c, http.StatusInternalServerError, err.Error())
	}
	return Success(c, http.StatusOK, "", session)
}
