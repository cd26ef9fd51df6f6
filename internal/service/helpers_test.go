package service

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/octobees/movescout/internal/config"
	"github.com/octobees/movescout/internal/entity"
	"github.com/octobees/movescout/internal/extract"
	"github.com/octobees/movescout/internal/matcher"
)

var estimateShape = regexp.MustCompile(`^\$\d+-\d+$`)

type mockSource struct {
	name    string
	openWeb bool
	search  func(ctx context.Context, query string) ([]entity.RawListing, error)

	mu      sync.Mutex
	queries []string
}

func (m *mockSource) Name() string  { return m.name }
func (m *mockSource) OpenWeb() bool { return m.openWeb }

func (m *mockSource) Search(ctx context.Context, query string) ([]entity.RawListing, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	if m.search != nil {
		return m.search(ctx, query)
	}
	return nil, nil
}

func (m *mockSource) calls(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, q := range m.queries {
		if strings.HasPrefix(q, prefix) {
			n++
		}
	}
	return n
}

type mockResearcher struct {
	research func(ctx context.Context, req entity.CustomerRequest) (string, error)
}

func (m mockResearcher) Research(ctx context.Context, req entity.CustomerRequest) (string, error) {
	return m.research(ctx, req)
}

func brooklynRequest() entity.CustomerRequest {
	return entity.CustomerRequest{
		CurrentAddress:     "523 Franklin Ave, Brooklyn, New York",
		DestinationAddress: "1875 Atlantic Ave, Brooklyn, New York",
		MoveOutDate:        "10/10/2025",
		MoveInDate:         "10/10/2025",
		ApartmentSize:      "2BR",
		SpecialItems:       "none",
		PackingNeeded:      true,
	}
}

func testExtractor() *extract.Extractor {
	return extract.New(matcher.New(config.DefaultVocabulary()))
}

func testPlanner() *QueryPlanner {
	return NewQueryPlanner(config.DefaultVocabulary())
}

func listing(title, snippet string) entity.RawListing {
	return entity.RawListing{Source: "stub", Title: title, URL: "https://example.com", Snippet: snippet}
}
