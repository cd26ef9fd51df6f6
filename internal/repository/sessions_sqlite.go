package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/movescout/internal/entity"
)

const sqliteSessionsSchema = `
CREATE TABLE IF NOT EXISTS discovery_sessions (
    id          TEXT PRIMARY KEY,
    request     TEXT NOT NULL,
    status      TEXT NOT NULL,
    companies   TEXT NOT NULL DEFAULT '[]',
    report_path TEXT NOT NULL DEFAULT '',
    created_at  DATETIME NOT NULL,
    updated_at  DATETIME NOT NULL,
    closed_at   DATETIME
);
`

// SQLiteSessionStore implements SessionStore on a local SQLite file.
type SQLiteSessionStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteSessionStore wires a SQLite backed session store.
func NewSQLiteSessionStore(db *sql.DB) *SQLiteSessionStore {
	return &SQLiteSessionStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Migrate creates the sessions table when missing.
func (r *SQLiteSessionStore) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sqliteSessionsSchema); err != nil {
		return fmt.Errorf("migrate sessions: %w", err)
	}
	return nil
}

func (r *SQLiteSessionStore) Open(ctx context.Context, req entity.CustomerRequest) (entity.Session, error) {
	payload, err := encodeJSON(req)
	if err != nil {
		return entity.Session{}, err
	}

	now := r.now()
	session := entity.Session{
		ID:        uuid.New(),
		Request:   req,
		Status:    entity.SessionOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO discovery_sessions (id, request, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		session.ID.String(), string(payload), string(session.Status), now, now,
	)
	if err != nil {
		return entity.Session{}, fmt.Errorf("insert session: %w", err)
	}
	return session, nil
}

func (r *SQLiteSessionStore) SaveCompanies(ctx context.Context, id uuid.UUID, companies []entity.EnrichedCompany) error {
	if companies == nil {
		companies = []entity.EnrichedCompany{}
	}
	payload, err := encodeJSON(companies)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE discovery_sessions SET companies = ?, updated_at = ? WHERE id = ?`,
		string(payload), r.now(), id.String(),
	)
	if err != nil {
		return fmt.Errorf("update session companies: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteSessionStore) Close(ctx context.Context, id uuid.UUID, status entity.SessionStatus, reportPath string) error {
	now := r.now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE discovery_sessions SET status = ?, report_path = ?, closed_at = ?, updated_at = ? WHERE id = ?`,
		string(status), reportPath, now, now, id.String(),
	)
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteSessionStore) Get(ctx context.Context, id uuid.UUID) (entity.Session, error) {
	var (
		session   entity.Session
		rawID     string
		request   string
		status    string
		companies string
		closedAt  sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, request, status, companies, report_path, created_at, updated_at, closed_at FROM discovery_sessions WHERE id = ?`,
		id.String(),
	).Scan(&rawID, &request, &status, &companies, &session.ReportPath, &session.CreatedAt, &session.UpdatedAt, &closedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Session{}, ErrSessionNotFound
		}
		return entity.Session{}, fmt.Errorf("get session: %w", err)
	}

	if session.ID, err = uuid.Parse(rawID); err != nil {
		return entity.Session{}, fmt.Errorf("parse session id: %w", err)
	}
	if err := json.Unmarshal([]byte(request), &session.Request); err != nil {
		return entity.Session{}, fmt.Errorf("decode session request: %w", err)
	}
	if session.Companies, err = decodeCompanies([]byte(companies)); err != nil {
		return entity.Session{}, err
	}
	session.Status = entity.SessionStatus(status)
	if closedAt.Valid {
		t := closedAt.Time
		session.ClosedAt = &t
	}
	return session, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
