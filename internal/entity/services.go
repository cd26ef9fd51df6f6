package entity

import (
	"encoding/json"
	"strings"
)

// ServiceSet is an insertion-ordered set of service tags. Membership is
// case-insensitive; the first spelling seen is kept.
type ServiceSet struct {
	items []string
	index map[string]struct{}
}

// NewServiceSet builds a set from the given tags.
func NewServiceSet(tags ...string) ServiceSet {
	var s ServiceSet
	for _, t := range tags {
		s.Add(t)
	}
	return s
}

// Add inserts tag and reports whether it was new.
func (s *ServiceSet) Add(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	key := strings.ToLower(tag)
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = struct{}{}
	s.items = append(s.items, tag)
	return true
}

// Has reports whether tag is present.
func (s ServiceSet) Has(tag string) bool {
	_, ok := s.index[strings.ToLower(strings.TrimSpace(tag))]
	return ok
}

// Len returns the number of tags.
func (s ServiceSet) Len() int { return len(s.items) }

// Slice returns a copy of the tags in insertion order.
func (s ServiceSet) Slice() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

func (s ServiceSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

func (s *ServiceSet) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*s = NewServiceSet(tags...)
	return nil
}
