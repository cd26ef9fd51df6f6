package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/octobees/movescout/internal/entity"
)

// Source names.
const (
	NameLinkup    = "linkup"
	NameGemini    = "gemini"
	NameScraped   = "scraped"
	NameDirectory = "directory"
	NameFixture   = "fixture"
)

var (
	// ErrNotConfigured indicates a source is missing credentials or endpoints.
	ErrNotConfigured = errors.New("source not configured")
	// ErrUnexpectedStatus indicates a remote endpoint answered with a non-success status.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// Source answers a free-text query with raw listings.
type Source interface {
	Name() string
	Search(ctx context.Context, query string) ([]entity.RawListing, error)
}

// OpenWeb is implemented by sources that return arbitrary web pages, whose
// results must pass the relevance filter before they are kept.
type OpenWeb interface {
	OpenWeb() bool
}

// IsOpenWeb reports whether results from s need relevance filtering.
func IsOpenWeb(s Source) bool {
	ow, ok := s.(OpenWeb)
	return ok && ow.OpenWeb()
}

// UnavailableError reports that a source could not answer a query.
type UnavailableError struct {
	Source string
	Query  string
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable for %q: %v", e.Source, e.Query, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// TransientError marks a failure that may succeed when retried.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return "transient: " + e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// StatusError carries the HTTP status returned by a remote endpoint.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", ErrUnexpectedStatus, e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// Temporary reports whether the status is worth retrying.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code/100 == 5
}
