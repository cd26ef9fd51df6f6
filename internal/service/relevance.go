package service

import (
	"strings"

	"github.com/octobees/movescout/internal/config"
)

// RelevanceFilter keeps names that look like moving businesses and drops
// directories, forums and unrelated places.
type RelevanceFilter struct {
	positive []string
	negative []string
}

// NewRelevanceFilter builds a filter from keyword lists.
func NewRelevanceFilter(r config.Relevance) *RelevanceFilter {
	return &RelevanceFilter{positive: lowered(r.Positive), negative: lowered(r.Negative)}
}

// Relevant reports whether name contains a positive keyword and no negative one.
func (f *RelevanceFilter) Relevant(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range f.negative {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	for _, kw := range f.positive {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func lowered(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
