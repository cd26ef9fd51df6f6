package matcher

import (
	"reflect"
	"strings"
	"testing"

	"github.com/octobees/movescout/internal/config"
)

func newRules() *Rules {
	return New(config.DefaultVocabulary())
}

func TestNamePrecedence(t *testing.T) {
	r := newRules()

	tests := map[string]struct {
		title   string
		snippet string
		want    string
	}{
		"registry wins over shapes": {
			title:   "Top 10 Movers in Brooklyn",
			snippet: "Piece of Cake Moving & Storage and Hudson Valley Movers serve the area",
			want:    "Piece of Cake Moving & Storage",
		},
		"registry order": {
			title:   "Dumbo Moving & Storage vs Metropolis Moving",
			snippet: "",
			want:    "Metropolis Moving",
		},
		"snippet shape": {
			title:   "Movers near me",
			snippet: "Call Hudson Valley Movers for a quote",
			want:    "Call Hudson Valley Movers",
		},
		"stop word rejects shape": {
			title:   "Reviews",
			snippet: "Brooklyn Best Movers is popular",
			want:    "Reviews",
		},
		"title segment": {
			title:   "Home | Kings County Moving Co | Reviews",
			snippet: "",
			want:    "Kings County Moving Co",
		},
		"title shape": {
			title:   "Hudson Storage offers units",
			snippet: "",
			want:    "Hudson Storage",
		},
		"ampersand shape trimmed": {
			title:   "",
			snippet: "Ask Lincoln & Sons about it",
			want:    "Ask Lincoln",
		},
		"fallback truncates": {
			title:   strings.Repeat("a", 60),
			snippet: "",
			want:    strings.Repeat("a", 50) + "...",
		},
		"fallback cleans": {
			title:   "⭐ Ratings | reviews",
			snippet: "",
			want:    "Ratings - reviews",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := r.Name(tt.title, tt.snippet); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPhonesRequireTenDigits(t *testing.T) {
	text := "Call (718) 555-0123 or 212-555-0199, office 555-0100, fax 718.555.0123"
	got := Phones(text)
	want := []string{"7185550123", "2125550199"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for _, p := range got {
		digits := 0
		for _, r := range p {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits < 10 {
			t.Fatalf("phone %q has fewer than 10 digits", p)
		}
	}

	if phones := Phones("Tel: 555-0100"); len(phones) != 0 {
		t.Fatalf("expected short numbers dropped, got %v", phones)
	}
	if phones := Phones("+1 718 555 0456"); len(phones) == 0 || phones[0] != "7185550456" {
		t.Fatalf("unexpected phones %v", phones)
	}
}

func TestPhonesAfterCallPrefix(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "bare digits stop at ten", text: "Call 7185550123 7 days a week", want: []string{"7185550123"}},
		{name: "phone label with dots", text: "Phone: 718.555.0456 ext 12", want: []string{"7185550456"}},
		{name: "tel without separator", text: "tel 2125550199, 24 hours", want: []string{"2125550199"}},
		{name: "too short", text: "Call 555-0100 today", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Phones(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Phones(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestContact(t *testing.T) {
	r := newRules()
	info := r.Contact("Reach us at contact@nycmoverspro.com or (718) 555-0456. Visit www.nycmoverspro.com.")
	if info.Phone != "7185550456" {
		t.Fatalf("unexpected phone %q", info.Phone)
	}
	if info.Email != "contact@nycmoverspro.com" {
		t.Fatalf("unexpected email %q", info.Email)
	}
	if info.Website != "https://www.nycmoverspro.com" {
		t.Fatalf("unexpected website %q", info.Website)
	}

	empty := r.Contact("no details here")
	if !empty.IsZero() {
		t.Fatalf("expected empty contact, got %+v", empty)
	}
}

func TestWebsite(t *testing.T) {
	tests := map[string]string{
		"see https://metropolismoving.com/quote, thanks": "https://metropolismoving.com/quote",
		"visit brooklynmoving.com today":                 "https://brooklynmoving.com",
		"mail info@only-email.com":                       "",
		"go to http://WWW.Example.com/a":                 "http://www.example.com/a",
	}
	for in, want := range tests {
		got, ok := Website(in)
		if want == "" {
			if ok {
				t.Fatalf("expected no website in %q, got %q", in, got)
			}
			continue
		}
		if got != want {
			t.Fatalf("input %q: expected %q, got %q", in, want, got)
		}
	}
}

func TestPriceOrdering(t *testing.T) {
	got, ok := Price("Starting at $800, range $700-$1100")
	if !ok || got != "$800" {
		t.Fatalf("expected $800, got %q", got)
	}

	got, ok = Price("roughly 950 dollars")
	if !ok || got != "950 dollars" {
		t.Fatalf("expected dollars phrase, got %q", got)
	}

	if _, ok := Price("call for pricing"); ok {
		t.Fatalf("expected no price")
	}

	rng, ok := PriceRange("Starting at $800, range $700-$1100")
	if !ok || rng != "$700-$1100" {
		t.Fatalf("unexpected range %q", rng)
	}
	rng, ok = PriceRange("usually between $900 and $1,500")
	if !ok || rng != "between $900 and $1,500" {
		t.Fatalf("unexpected range %q", rng)
	}

	patterns := PricePatterns()
	if len(patterns) != 9 || !strings.HasPrefix(patterns[0], `\$`) {
		t.Fatalf("unexpected pattern table %v", patterns)
	}
}

func TestServicesAndFees(t *testing.T) {
	r := newRules()
	services := r.Services("We offer PACKING, long distance moves and storage.")
	want := []string{"Packing", "Storage", "Long Distance"}
	if !reflect.DeepEqual(services, want) {
		t.Fatalf("expected %v, got %v", want, services)
	}

	fees := r.Fees("A stairs fee applies, plus a fuel surcharge. Stairs fee waived for ground floor.")
	if !reflect.DeepEqual(fees, []string{"Stairs Fee", "Fuel Surcharge"}) {
		t.Fatalf("unexpected fees %v", fees)
	}
}

func TestContainsStopWord(t *testing.T) {
	r := newRules()
	if !r.ContainsStopWord("Best Movers") || !r.ContainsStopWord("New  York Van") {
		t.Fatalf("expected stop words detected")
	}
	if r.ContainsStopWord("Bestway Movers") {
		t.Fatalf("stop words must match whole words")
	}
}
