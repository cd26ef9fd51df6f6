package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus tracks the lifecycle of a discovery run.
type SessionStatus string

const (
	SessionOpen      SessionStatus = "open"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
)

// Session is the persisted record of one customer discovery run.
type Session struct {
	ID         uuid.UUID         `json:"id"`
	Request    CustomerRequest   `json:"request"`
	Status     SessionStatus     `json:"status"`
	Companies  []EnrichedCompany `json:"companies"`
	ReportPath string            `json:"report_path,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	ClosedAt   *time.Time        `json:"closed_at,omitempty"`
}
