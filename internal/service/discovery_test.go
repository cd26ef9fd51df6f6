package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/octobees/movescout/internal/config"
	"github.com/octobees/movescout/internal/entity"
	"github.com/octobees/movescout/internal/source"
)

func newTestDiscovery(sources ...source.Source) *Discovery {
	extractor := testExtractor()
	planner := testPlanner()
	return NewDiscovery(
		sources,
		extractor,
		planner,
		NewRelevanceFilter(config.DefaultVocabulary().Relevance),
		NewEnricher(extractor, planner),
	)
}

func discoveryOnly(listings []entity.RawListing) func(ctx context.Context, query string) ([]entity.RawListing, error) {
	return func(ctx context.Context, query string) ([]entity.RawListing, error) {
		if strings.HasPrefix(query, "moving companies from") {
			return listings, nil
		}
		return nil, nil
	}
}

func names(companies []entity.EnrichedCompany) []string {
	out := make([]string, 0, len(companies))
	for _, c := range companies {
		out = append(out, c.Name)
	}
	return out
}

func TestDiscovery_Discover_FixtureOnly(t *testing.T) {
	d := newTestDiscovery(source.NewStaticFixtureSource())

	companies := d.Discover(context.Background(), brooklynRequest())
	if len(companies) != 5 {
		t.Fatalf("expected 5 companies, got %d", len(companies))
	}
	if companies[0].Name != "Brooklyn Moving Company" || companies[3].Name != "Atlantic Moving Co" {
		t.Fatalf("unexpected fixture order %q", names(companies))
	}
	if companies[0].Contact.Phone != "7185550123" {
		t.Fatalf("expected fixture phone to be kept, got %q", companies[0].Contact.Phone)
	}
	if companies[0].Quotation.EstimatedCost != "$800-1200" {
		t.Fatalf("expected fixture estimate, got %q", companies[0].Quotation.EstimatedCost)
	}
	for i, c := range companies {
		if c.Contact.Phone == "" {
			t.Fatalf("company %d (%s): expected a phone", i, c.Name)
		}
		if !estimateShape.MatchString(c.Quotation.EstimatedCost) {
			t.Fatalf("company %d (%s): expected a $low-high estimate, got %q", i, c.Name, c.Quotation.EstimatedCost)
		}
	}
}

func TestDiscovery_Discover_AnswerSummaryNamesNoCompany(t *testing.T) {
	web := &mockSource{
		name:    "web",
		openWeb: true,
		search: discoveryOnly([]entity.RawListing{
			listing("Oz Moving - Brooklyn Movers", "Licensed movers"),
			{Source: "web", Snippet: "Sven Moving and Oz Moving both serve Brooklyn, call (718) 555-0199", Summary: true},
		}),
	}
	d := newTestDiscovery(web, source.NewStaticFixtureSource())

	companies := d.Discover(context.Background(), brooklynRequest())
	if len(companies) != 5 {
		t.Fatalf("expected 5 companies, got %d: %q", len(companies), names(companies))
	}
	want := []string{"Oz Moving", "Brooklyn Moving Company", "NYC Movers Pro", "Brooklyn Best Movers", "Atlantic Moving Co"}
	for i, name := range want {
		if companies[i].Name != name {
			t.Fatalf("expected %q at %d, got %q", name, i, names(companies))
		}
	}
}

func TestDiscovery_Discover_FallsBackAndAccumulates(t *testing.T) {
	web := &mockSource{
		name:    "web",
		openWeb: true,
		search: discoveryOnly([]entity.RawListing{
			listing("Oz Moving - Brooklyn Movers", "Licensed movers, call (212) 555-0199"),
			listing("Yelp: Top 10 Best Movers", "Reviews near you"),
			listing("Sven Moving | Reviews", "Starting at $650 for a 2BR"),
		}),
	}
	d := newTestDiscovery(web, source.NewStaticFixtureSource())

	companies := d.Discover(context.Background(), brooklynRequest())
	if len(companies) != 5 {
		t.Fatalf("expected 5 companies, got %d: %q", len(companies), names(companies))
	}
	want := []string{"Oz Moving", "Sven Moving", "Brooklyn Moving Company", "NYC Movers Pro", "Brooklyn Best Movers"}
	for i, name := range want {
		if companies[i].Name != name {
			t.Fatalf("expected %q at %d, got %q", name, i, names(companies))
		}
	}
	if companies[0].Contact.Phone != "2125550199" {
		t.Fatalf("expected extracted phone, got %q", companies[0].Contact.Phone)
	}
	if companies[1].Quotation.EstimatedCost != "$650" {
		t.Fatalf("expected extracted estimate, got %q", companies[1].Quotation.EstimatedCost)
	}
	if companies[0].Quotation.EstimatedCost != entity.DefaultEstimate {
		t.Fatalf("expected sentinel estimate, got %q", companies[0].Quotation.EstimatedCost)
	}
}

func TestDiscovery_Discover_SkipsFailingSources(t *testing.T) {
	broken := &mockSource{
		name:    "broken",
		openWeb: true,
		search: func(ctx context.Context, query string) ([]entity.RawListing, error) {
			return nil, &source.UnavailableError{Source: "broken", Query: query, Err: errors.New("boom")}
		},
	}
	d := newTestDiscovery(broken, source.NewStaticFixtureSource())

	companies := d.Discover(context.Background(), brooklynRequest())
	if len(companies) != 5 {
		t.Fatalf("expected fixture to fill the shortlist, got %d", len(companies))
	}
	if got := broken.calls("moving companies from"); got != 1 {
		t.Fatalf("expected the first discovery query to be tried once, got %d", got)
	}
}

func TestDiscovery_Discover_StopsAtTarget(t *testing.T) {
	var many []entity.RawListing
	for i := 0; i < 8; i++ {
		many = append(many, entity.RawListing{Source: "web", Name: fmt.Sprintf("Mover %d Moving", i), Title: "movers"})
	}
	web := &mockSource{name: "web", openWeb: true, search: discoveryOnly(many)}
	fixture := &mockSource{name: source.NameFixture}

	companies := newTestDiscovery(web, fixture).Discover(context.Background(), brooklynRequest())
	if len(companies) != DefaultTarget {
		t.Fatalf("expected %d companies, got %d", DefaultTarget, len(companies))
	}
	if got := web.calls("movers "); got != 0 {
		t.Fatalf("expected no further discovery queries once full, got %d", got)
	}
	if len(fixture.queries) != 0 {
		t.Fatalf("expected later sources to be skipped, got %d calls", len(fixture.queries))
	}
}

func TestDiscovery_Discover_DedupesAcrossSources(t *testing.T) {
	web := &mockSource{
		name:    "web",
		openWeb: true,
		search: discoveryOnly([]entity.RawListing{
			{Source: "web", Name: "NYC Movers Pro", Title: "NYC Movers Pro", URL: "https://web.example"},
		}),
	}
	d := newTestDiscovery(web, source.NewStaticFixtureSource())

	companies := d.Discover(context.Background(), brooklynRequest())
	seen := map[string]int{}
	for _, c := range companies {
		seen[c.Key()]++
	}
	if seen["nyc movers pro"] != 1 {
		t.Fatalf("expected one NYC Movers Pro, got %d", seen["nyc movers pro"])
	}
	if companies[0].URL != "https://web.example" {
		t.Fatalf("expected first-seen record to win, got %q", companies[0].URL)
	}
}

func TestDiscovery_Discover_AllSourcesEmpty(t *testing.T) {
	empty := &mockSource{name: "empty", openWeb: true}
	companies := newTestDiscovery(empty).Discover(context.Background(), brooklynRequest())
	if len(companies) != 0 {
		t.Fatalf("expected empty shortlist, got %d", len(companies))
	}
}

func TestDiscovery_WithTarget(t *testing.T) {
	extractor := testExtractor()
	planner := testPlanner()
	d := NewDiscovery([]source.Source{source.NewStaticFixtureSource()}, extractor, planner, nil, nil, WithTarget(2), WithTarget(9))

	companies := d.Discover(context.Background(), brooklynRequest())
	if len(companies) != 2 {
		t.Fatalf("expected 2 companies, got %d", len(companies))
	}
}
