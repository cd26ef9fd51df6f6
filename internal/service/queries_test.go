package service

import (
	"reflect"
	"testing"

	"github.com/octobees/movescout/internal/config"
	"github.com/octobees/movescout/internal/entity"
)

func TestQueryPlanner_City(t *testing.T) {
	planner := testPlanner()
	cases := []struct {
		address string
		want    string
	}{
		{"523 Franklin Ave, Brooklyn, New York", "Brooklyn"},
		{"100 Queens Blvd, Sunnyside", "Queens"},
		{"1 Washington St, Hoboken, NJ", "Hoboken"},
		{"somewhere without commas", "New York"},
	}
	for _, tc := range cases {
		if got := planner.City(tc.address); got != tc.want {
			t.Fatalf("address %q: expected city %q, got %q", tc.address, tc.want, got)
		}
	}
}

func TestQueryPlanner_QueryCity(t *testing.T) {
	planner := testPlanner()
	cases := []struct {
		query string
		want  string
	}{
		{"moving companies from 523 Franklin Ave, Brooklyn, New York to 1875 Atlantic Ave, Brooklyn, New York", "Brooklyn"},
		{"movers 1 Washington St, Hoboken, NJ to 9 Elm St, Queens, NY", "Hoboken"},
		{"moving services Staten Island New York", "Staten Island"},
		{"local movers Yonkers", "Yonkers"},
		{"moving companies near 100 Queens Blvd, Sunnyside", "Queens"},
		{"moving services New York", "New York"},
		{"Oz Moving phone number contact information", "New York"},
	}
	for _, tc := range cases {
		if got := planner.QueryCity(tc.query); got != tc.want {
			t.Fatalf("query %q: expected city %q, got %q", tc.query, tc.want, got)
		}
	}
}

func TestQueryPlanner_DiscoveryQueries(t *testing.T) {
	req := entity.CustomerRequest{CurrentAddress: "1 Main St, Brooklyn, NY", DestinationAddress: "9 Elm St, Queens, NY"}
	got := testPlanner().DiscoveryQueries(req)
	want := []string{
		"moving companies from 1 Main St, Brooklyn, NY to 9 Elm St, Queens, NY",
		"movers 1 Main St, Brooklyn, NY to 9 Elm St, Queens, NY",
		"moving services Brooklyn New York",
		"local movers Brooklyn",
		"moving companies near 1 Main St, Brooklyn, NY",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected queries:\n got %q\nwant %q", got, want)
	}
}

func TestQueryPlanner_DefaultCityWithoutRegionRepeat(t *testing.T) {
	vocab := config.DefaultVocabulary()
	vocab.Boroughs = nil
	planner := NewQueryPlanner(vocab)

	req := entity.CustomerRequest{CurrentAddress: "nowhere", DestinationAddress: "elsewhere"}
	queries := planner.DiscoveryQueries(req)
	if queries[2] != "moving services New York" {
		t.Fatalf("expected region not to repeat the city, got %q", queries[2])
	}
}

func TestQueryPlanner_FollowUps(t *testing.T) {
	planner := testPlanner()
	req := brooklynRequest()

	contact := planner.ContactQueries("Oz Moving", req)
	if len(contact) != 4 || contact[0] != "Oz Moving phone number contact information" {
		t.Fatalf("unexpected contact queries %q", contact)
	}
	if contact[1] != "Oz Moving Brooklyn movers contact" {
		t.Fatalf("expected city in contact query, got %q", contact[1])
	}

	quote := planner.QuoteQuery("Oz Moving", req)
	want := "Oz Moving moving quote estimate from 523 Franklin Ave, Brooklyn, New York to 1875 Atlantic Ave, Brooklyn, New York"
	if quote != want {
		t.Fatalf("unexpected quote query %q", quote)
	}
}

func TestUniqueQueries(t *testing.T) {
	got := uniqueQueries("a  b", "A B", "", "c")
	if !reflect.DeepEqual(got, []string{"a b", "c"}) {
		t.Fatalf("unexpected queries %q", got)
	}
}

func TestRelevanceFilter(t *testing.T) {
	filter := NewRelevanceFilter(config.DefaultVocabulary().Relevance)
	cases := []struct {
		name string
		want bool
	}{
		{"Metropolis Moving", true},
		{"Piece of Cake", true},
		{"Brooklyn Express Movers", true},
		{"Yelp: Top 10 Best Movers", false},
		{"Franklin Avenue Storage", false},
		{"Joe's Pizza", false},
		{"Reddit - moving in NYC", false},
	}
	for _, tc := range cases {
		if got := filter.Relevant(tc.name); got != tc.want {
			t.Fatalf("name %q: expected relevant=%v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestDedupe(t *testing.T) {
	in := []entity.EnrichedCompany{
		{Name: "Oz Moving", URL: "first"},
		{Name: "  oz moving "},
		{Name: ""},
		{Name: "Sven Moving"},
	}
	got := Dedupe(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 companies, got %d", len(got))
	}
	if got[0].URL != "first" || got[1].Name != "Sven Moving" {
		t.Fatalf("expected first occurrences in order, got %+v", got)
	}
}
