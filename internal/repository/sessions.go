package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/movescout/internal/entity"
)

// ErrSessionNotFound indicates there is no session with the given id.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists discovery sessions. A session is opened before
// discovery starts and closed with its final status once the report exists.
type SessionStore interface {
	Open(ctx context.Context, req entity.CustomerRequest) (entity.Session, error)
	SaveCompanies(ctx context.Context, id uuid.UUID, companies []entity.EnrichedCompany) error
	Close(ctx context.Context, id uuid.UUID, status entity.SessionStatus, reportPath string) error
	Get(ctx context.Context, id uuid.UUID) (entity.Session, error)
}

// MemorySessionStore keeps sessions in process memory.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]entity.Session
	now      func() time.Time
}

// NewMemorySessionStore returns an empty in-memory store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[uuid.UUID]entity.Session),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemorySessionStore) Open(_ context.Context, req entity.CustomerRequest) (entity.Session, error) {
	now := s.now()
	session := entity.Session{
		ID:        uuid.New(),
		Request:   req,
		Status:    entity.SessionOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return session, nil
}

func (s *MemorySessionStore) SaveCompanies(_ context.Context, id uuid.UUID, companies []entity.EnrichedCompany) error {
	copied, err := cloneCompanies(companies)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	session.Companies = copied
	session.UpdatedAt = s.now()
	s.sessions[id] = session
	return nil
}

func (s *MemorySessionStore) Close(_ context.Context, id uuid.UUID, status entity.SessionStatus, reportPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	now := s.now()
	session.Status = status
	session.ReportPath = reportPath
	session.UpdatedAt = now
	session.ClosedAt = &now
	s.sessions[id] = session
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id uuid.UUID) (entity.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return entity.Session{}, ErrSessionNotFound
	}
	companies, err := cloneCompanies(session.Companies)
	if err != nil {
		return entity.Session{}, err
	}
	session.Companies = companies
	return session, nil
}

// cloneCompanies deep-copies through JSON, the same encoding the SQL stores use.
func cloneCompanies(in []entity.EnrichedCompany) ([]entity.EnrichedCompany, error) {
	if in == nil {
		return nil, nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode companies: %w", err)
	}
	return decodeCompanies(raw)
}

func decodeCompanies(raw []byte) ([]entity.EnrichedCompany, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out []entity.EnrichedCompany
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode companies: %w", err)
	}
	return out, nil
}

func encodeJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return raw, nil
}
