package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/octobees/movescout/internal/entity"
	"github.com/octobees/movescout/internal/logger"
	"github.com/octobees/movescout/internal/repository"
)

// Discoverer produces a shortlist for a request.
type Discoverer interface {
	Discover(ctx context.Context, req entity.CustomerRequest) []entity.EnrichedCompany
}

// ReportWriter persists a shortlist as a report and returns its location.
type ReportWriter interface {
	WriteFile(req entity.CustomerRequest, companies []entity.EnrichedCompany, at time.Time) (string, error)
}

// RunResult is the outcome of one pipeline run.
type RunResult struct {
	SessionID  uuid.UUID                `json:"session_id"`
	Companies  []entity.EnrichedCompany `json:"companies"`
	ReportPath string                   `json:"report_path"`
}

// Pipeline runs a full customer session: open, discover, report, close.
type Pipeline struct {
	discovery Discoverer
	store     repository.SessionStore
	reports   ReportWriter
	log       *zap.Logger
	now       func() time.Time
}

// NewPipeline wires a pipeline.
func NewPipeline(discovery Discoverer, store repository.SessionStore, reports ReportWriter, log *zap.Logger) *Pipeline {
	return &Pipeline{
		discovery: discovery,
		store:     store,
		reports:   reports,
		log:       logger.OrNop(log),
		now:       time.Now,
	}
}

// Run executes a session for req. Discovery itself never fails; errors come
// from validation, the session store or the report writer.
func (p *Pipeline) Run(ctx context.Context, req entity.CustomerRequest) (RunResult, error) {
	if err := req.Validate(); err != nil {
		return RunResult{}, err
	}

	session, err := p.store.Open(ctx, req)
	if err != nil {
		return RunResult{}, fmt.Errorf("open session: %w", err)
	}
	log := p.log.With(zap.String("session_id", session.ID.String()))

	companies := p.discovery.Discover(ctx, req)
	result := RunResult{SessionID: session.ID, Companies: companies}
	log.Info("discovery finished", zap.Int("companies", len(companies)))

	if err := p.store.SaveCompanies(ctx, session.ID, companies); err != nil {
		p.fail(ctx, session.ID, log)
		return result, fmt.Errorf("save companies: %w", err)
	}

	path, err := p.reports.WriteFile(req, companies, p.now())
	if err != nil {
		p.fail(ctx, session.ID, log)
		return result, fmt.Errorf("write report: %w", err)
	}
	result.ReportPath = path

	if err := p.store.Close(ctx, session.ID, entity.SessionCompleted, path); err != nil {
		return result, fmt.Errorf("close session: %w", err)
	}
	log.Info("session closed", zap.String("report", path))
	return result, nil
}

// Session returns a stored session.
func (p *Pipeline) Session(ctx context.Context, id uuid.UUID) (entity.Session, error) {
	return p.store.Get(ctx, id)
}

func (p *Pipeline) fail(ctx context.Context, id uuid.UUID, log *zap.Logger) {
	if err := p.store.Close(ctx, id, entity.SessionFailed, ""); err != nil {
		log.Warn("failed to mark session failed", zap.Error(err))
	}
}
