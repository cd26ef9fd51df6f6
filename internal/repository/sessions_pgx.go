package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/movescout/internal/entity"
)

type pgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ pgxPool = (*pgxpool.Pool)(nil)

const pgxSessionsSchema = `
    CREATE TABLE IF NOT EXISTS discovery_sessions (
        id          UUID PRIMARY KEY,
        request     JSONB NOT NULL,
        status      TEXT NOT NULL,
        companies   JSONB NOT NULL DEFAULT '[]'::jsonb,
        report_path TEXT,
        created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        closed_at   TIMESTAMPTZ
    );
`

// PGXSessionStore implements SessionStore on PostgreSQL using pgx.
type PGXSessionStore struct {
	pool pgxPool
}

// NewPGXSessionStore wires a pgx backed session store.
func NewPGXSessionStore(pool *pgxpool.Pool) *PGXSessionStore {
	return &PGXSessionStore{pool: pool}
}

// Migrate creates the sessions table when missing.
func (r *PGXSessionStore) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, pgxSessionsSchema); err != nil {
		return fmt.Errorf("migrate sessions: %w", err)
	}
	return nil
}

// Open inserts a new session in the open state.
func (r *PGXSessionStore) Open(ctx context.Context, req entity.CustomerRequest) (entity.Session, error) {
	payload, err := encodeJSON(req)
	if err != nil {
		return entity.Session{}, err
	}

	session := entity.Session{ID: uuid.New(), Request: req, Status: entity.SessionOpen}
	query := `
        INSERT INTO discovery_sessions (id, request, status)
        VALUES ($1, $2, $3)
        RETURNING created_at, updated_at
    `
	if err := r.pool.QueryRow(ctx, query, session.ID, payload, string(session.Status)).Scan(&session.CreatedAt, &session.UpdatedAt); err != nil {
		return entity.Session{}, fmt.Errorf("insert session: %w", err)
	}
	return session, nil
}

// SaveCompanies replaces the shortlist stored for a session.
func (r *PGXSessionStore) SaveCompanies(ctx context.Context, id uuid.UUID, companies []entity.EnrichedCompany) error {
	if companies == nil {
		companies = []entity.EnrichedCompany{}
	}
	payload, err := encodeJSON(companies)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `UPDATE discovery_sessions SET companies = $2, updated_at = NOW() WHERE id = $1`, id, payload)
	if err != nil {
		return fmt.Errorf("update session companies: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Close records the final status and report location.
func (r *PGXSessionStore) Close(ctx context.Context, id uuid.UUID, status entity.SessionStatus, reportPath string) error {
	query := `
        UPDATE discovery_sessions
        SET status = $2, report_path = NULLIF($3, ''), closed_at = NOW(), updated_at = NOW()
        WHERE id = $1
    `
	tag, err := r.pool.Exec(ctx, query, id, string(status), reportPath)
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Get loads a session with its shortlist.
func (r *PGXSessionStore) Get(ctx context.Context, id uuid.UUID) (entity.Session, error) {
	query := `
        SELECT id, request, status, companies, report_path, created_at, updated_at, closed_at
        FROM discovery_sessions
        WHERE id = $1
    `
	var (
		session    entity.Session
		request    []byte
		status     string
		companies  []byte
		reportPath *string
		closedAt   *time.Time
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&request,
		&status,
		&companies,
		&reportPath,
		&session.CreatedAt,
		&session.UpdatedAt,
		&closedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Session{}, ErrSessionNotFound
		}
		return entity.Session{}, fmt.Errorf("get session: %w", err)
	}

	if err := json.Unmarshal(request, &session.Request); err != nil {
		return entity.Session{}, fmt.Errorf("decode session request: %w", err)
	}
	if session.Companies, err = decodeCompanies(companies); err != nil {
		return entity.Session{}, err
	}
	session.Status = entity.SessionStatus(status)
	if reportPath != nil {
		session.ReportPath = *reportPath
	}
	session.ClosedAt = closedAt
	return session, nil
}
