package source

import (
	"context"
	"strings"

	"github.com/octobees/movescout/internal/entity"
)

// AnswerOnlyTitle labels the single listing built from an answer that cites
// no sources.
const AnswerOnlyTitle = "Moving Company (from search results)"

// Cited is one source referenced by a structured answer.
type Cited struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Answer is the result of a structured-answer query. Text is nil when the
// provider returned no answer; Sources may be empty independently of Text.
type Answer struct {
	Text    *string
	Sources []Cited
}

// HasSources reports whether the answer cites at least one source.
func (a Answer) HasSources() bool { return len(a.Sources) > 0 }

// AnswerText returns the trimmed answer text, if any.
func (a Answer) AnswerText() (string, bool) {
	if a.Text == nil {
		return "", false
	}
	text := strings.TrimSpace(*a.Text)
	return text, text != ""
}

// Answerer is a provider that answers a question and cites its sources.
type Answerer interface {
	Name() string
	Answer(ctx context.Context, query string) (Answer, error)
}

// StructuredAnswerSource adapts an Answerer to the Source interface.
type StructuredAnswerSource struct {
	answerer Answerer
}

// NewStructuredAnswerSource wraps answerer.
func NewStructuredAnswerSource(answerer Answerer) *StructuredAnswerSource {
	return &StructuredAnswerSource{answerer: answerer}
}

func (s *StructuredAnswerSource) Name() string { return s.answerer.Name() }

func (s *StructuredAnswerSource) OpenWeb() bool { return true }

// Search yields one listing per cited source, or a single listing carrying
// the answer text when nothing is cited. When both are present the answer
// text follows the cited listings as a summary listing.
func (s *StructuredAnswerSource) Search(ctx context.Context, query string) ([]entity.RawListing, error) {
	ans, err := s.answerer.Answer(ctx, query)
	if err != nil {
		return nil, err
	}
	text, hasText := ans.AnswerText()

	if ans.HasSources() {
		listings := make([]entity.RawListing, 0, len(ans.Sources)+1)
		for _, c := range ans.Sources {
			listings = append(listings, entity.RawListing{
				Source:  s.Name(),
				Title:   strings.TrimSpace(c.Name),
				URL:     strings.TrimSpace(c.URL),
				Snippet: strings.TrimSpace(c.Snippet),
			})
		}
		if hasText {
			listings = append(listings, entity.RawListing{
				Source:  s.Name(),
				Snippet: text,
				Summary: true,
			})
		}
		return listings, nil
	}

	if hasText {
		return []entity.RawListing{{
			Source:  s.Name(),
			Title:   AnswerOnlyTitle,
			Snippet: text,
		}}, nil
	}
	return nil, nil
}
