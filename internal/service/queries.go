package service

import (
	"fmt"
	"strings"

	"github.com/octobees/movescout/internal/config"
	"github.com/octobees/movescout/internal/entity"
)

// QueryPlanner phrases the search queries sent to discovery sources.
type QueryPlanner struct {
	boroughs    []string
	defaultCity string
	region      string
}

// NewQueryPlanner builds a planner from the vocabulary's place names.
func NewQueryPlanner(vocab config.Vocabulary) *QueryPlanner {
	city := strings.TrimSpace(vocab.DefaultCity)
	if city == "" {
		city = "New York"
	}
	return &QueryPlanner{
		boroughs:    vocab.Boroughs,
		defaultCity: city,
		region:      strings.TrimSpace(vocab.Region),
	}
}

// City picks the city an address belongs to: a known borough named in the
// address, else the second-to-last comma separated part, else the default.
func (p *QueryPlanner) City(address string) string {
	lower := strings.ToLower(address)
	for _, b := range p.boroughs {
		if b != "" && strings.Contains(lower, strings.ToLower(b)) {
			return b
		}
	}
	parts := strings.Split(address, ",")
	if len(parts) >= 2 {
		if city := strings.TrimSpace(parts[len(parts)-2]); city != "" {
			return city
		}
	}
	return p.defaultCity
}

var placePrefixes = []string{
	"moving companies from ",
	"moving companies near ",
	"moving services ",
	"local movers ",
	"movers ",
}

// QueryCity picks the city a discovery query is about: the origin of a route
// phrasing, or the place named after the query's leading words.
func (p *QueryPlanner) QueryCity(query string) string {
	place := strings.Join(strings.Fields(query), " ")
	prefixed := false
	for _, prefix := range placePrefixes {
		if len(place) >= len(prefix) && strings.EqualFold(place[:len(prefix)], prefix) {
			place = place[len(prefix):]
			prefixed = true
			break
		}
	}
	if i := strings.Index(strings.ToLower(place), " to "); i >= 0 {
		place = place[:i]
	}

	if city := p.City(place); !prefixed || city != p.defaultCity || strings.Contains(place, ",") {
		return city
	}
	if n := len(place) - len(p.region); p.region != "" && n >= 0 && strings.EqualFold(place[n:], p.region) {
		place = strings.TrimSpace(place[:n])
	}
	if place == "" {
		return p.defaultCity
	}
	return place
}

// DiscoveryQueries lists the queries for finding vendors, route-specific
// phrasings first.
func (p *QueryPlanner) DiscoveryQueries(req entity.CustomerRequest) []string {
	origin := strings.TrimSpace(req.CurrentAddress)
	dest := strings.TrimSpace(req.DestinationAddress)
	city := p.City(origin)

	area := city
	if p.region != "" && !strings.EqualFold(p.region, city) {
		area = city + " " + p.region
	}

	return uniqueQueries(
		fmt.Sprintf("moving companies from %s to %s", origin, dest),
		fmt.Sprintf("movers %s to %s", origin, dest),
		fmt.Sprintf("moving services %s", area),
		fmt.Sprintf("local movers %s", city),
		fmt.Sprintf("moving companies near %s", origin),
	)
}

// ContactQueries lists the follow-up queries used to find a vendor's phone.
func (p *QueryPlanner) ContactQueries(name string, req entity.CustomerRequest) []string {
	city := p.City(req.CurrentAddress)
	return uniqueQueries(
		fmt.Sprintf("%s phone number contact information", name),
		fmt.Sprintf("%s %s movers contact", name, city),
		fmt.Sprintf("%s moving company phone", name),
		fmt.Sprintf("call %s %s", name, city),
	)
}

// QuoteQuery phrases the price lookup for a vendor and route.
func (p *QueryPlanner) QuoteQuery(name string, req entity.CustomerRequest) string {
	return fmt.Sprintf("%s moving quote estimate from %s to %s",
		name, strings.TrimSpace(req.CurrentAddress), strings.TrimSpace(req.DestinationAddress))
}

func uniqueQueries(queries ...string) []string {
	seen := make(map[string]struct{}, len(queries))
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		q = strings.Join(strings.Fields(q), " ")
		key := strings.ToLower(q)
		if q == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}
	return out
}
