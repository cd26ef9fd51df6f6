package matcher

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/octobees/movescout/internal/config"
	"github.com/octobees/movescout/internal/entity"
)

// Rule extracts a single value from free text.
type Rule func(text string) (string, bool)

// Rules evaluates the ordered extraction tables for names, contact details,
// services and prices. A Rules value is safe for concurrent use.
type Rules struct {
	registry       []string
	movingKeywords []string
	serviceWords   []string
	stopWords      *regexp.Regexp
	feeRules       []*regexp.Regexp
	nameShapes     []*regexp.Regexp
}

// New compiles the rule tables for the given vocabulary.
func New(vocab config.Vocabulary) *Rules {
	r := &Rules{
		registry:       append([]string(nil), vocab.Registry...),
		movingKeywords: lowerAll(vocab.MovingKeywords),
		serviceWords:   lowerAll(vocab.ServiceKeywords),
		stopWords:      wordSetPattern(vocab.StopWords),
		nameShapes:     nameShapePatterns,
	}
	for _, kw := range lowerAll(vocab.FeeKeywords) {
		r.feeRules = append(r.feeRules, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(kw)+`s?\s+(?:fee|charge|surcharge)s?\b`))
	}
	return r
}

// Contact runs the phone, email and website rules over text.
func (r *Rules) Contact(text string) entity.ContactInfo {
	phones := Phones(text)
	info := entity.ContactInfo{AllPhones: phones}
	if len(phones) > 0 {
		info.Phone = phones[0]
	}
	info.Email, _ = Email(text)
	info.Website, _ = Website(text)
	return info
}

// Services returns the title-cased vocabulary keywords contained in text,
// in vocabulary order.
func (r *Rules) Services(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, kw := range r.serviceWords {
		if strings.Contains(lower, kw) {
			out = append(out, TitleCase(kw))
		}
	}
	return out
}

// Fees lists surcharges mentioned in text, such as "Stairs Fee".
func (r *Rules) Fees(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, re := range r.feeRules {
		m := re.FindString(text)
		if m == "" {
			continue
		}
		fee := TitleCase(strings.ToLower(strings.Join(strings.Fields(m), " ")))
		if _, dup := seen[fee]; dup {
			continue
		}
		seen[fee] = struct{}{}
		out = append(out, fee)
	}
	return out
}

// TitleCase applies English title casing. Casers keep state, so each call
// builds its own.
func TitleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// ContainsStopWord reports whether s holds a generic marketing word such as
// "best" or "local" as a whole word.
func (r *Rules) ContainsStopWord(s string) bool {
	return r.stopWords != nil && r.stopWords.MatchString(s)
}

func wordSetPattern(words []string) *regexp.Regexp {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		quoted = append(quoted, strings.ReplaceAll(regexp.QuoteMeta(w), " ", `\s+`))
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
