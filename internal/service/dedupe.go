package service

import "github.com/octobees/movescout/internal/entity"

// Deduplicator keeps the first company seen for each normalised name.
type Deduplicator struct {
	seen      map[string]struct{}
	companies []entity.EnrichedCompany
}

// NewDeduplicator returns an empty deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Add keeps c unless its name is empty or already seen, and reports whether
// it was kept.
func (d *Deduplicator) Add(c entity.EnrichedCompany) bool {
	key := c.Key()
	if key == "" {
		return false
	}
	if _, dup := d.seen[key]; dup {
		return false
	}
	d.seen[key] = struct{}{}
	d.companies = append(d.companies, c)
	return true
}

// Len returns the number of unique companies kept.
func (d *Deduplicator) Len() int { return len(d.companies) }

// Companies returns the kept companies in first-seen order.
func (d *Deduplicator) Companies() []entity.EnrichedCompany {
	out := make([]entity.EnrichedCompany, len(d.companies))
	copy(out, d.companies)
	return out
}

// Dedupe drops repeated names from in, keeping first occurrences in order.
func Dedupe(in []entity.EnrichedCompany) []entity.EnrichedCompany {
	d := NewDeduplicator()
	for _, c := range in {
		d.Add(c)
	}
	return d.Companies()
}
