package matcher

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxTitleRunes = 50

// Up to four capitalised words ahead of the business suffix.
const capWords = `[A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,3}`

var nameShapePatterns = []*regexp.Regexp{
	regexp.MustCompile(capWords + `\s+(?:Moving\s+&?\s*Storage|Moving\s+Company)`),
	regexp.MustCompile(capWords + `\s+Moving\b`),
	regexp.MustCompile(capWords + `\s+Movers\b`),
	regexp.MustCompile(capWords + `\s+&`),
	regexp.MustCompile(capWords + `\s+Storage\b`),
}

var titleSeparator = regexp.MustCompile(`\s*\|\s*|\s+[-–]\s+`)

// Name picks a company name from a listing. Precedence: known registry
// entry, name-shaped phrase in the snippet, a title segment, a name-shaped
// phrase in the title, and finally the cleaned, truncated title.
func (r *Rules) Name(title, snippet string) string {
	if name, ok := r.registryName(title + " " + snippet); ok {
		return name
	}
	if name, ok := r.shapedName(snippet); ok {
		return name
	}
	if name, ok := r.titleSegment(title); ok {
		return name
	}
	if name, ok := r.shapedName(title); ok {
		return name
	}
	return cleanTitle(title)
}

func (r *Rules) registryName(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, entry := range r.registry {
		if entry != "" && strings.Contains(lower, strings.ToLower(entry)) {
			return entry, true
		}
	}
	return "", false
}

func (r *Rules) shapedName(text string) (string, bool) {
	for _, re := range r.nameShapes {
		for _, m := range re.FindAllString(text, -1) {
			candidate := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(m), "&"))
			candidate = strings.Join(strings.Fields(candidate), " ")
			if candidate == "" || r.ContainsStopWord(candidate) {
				continue
			}
			return candidate, true
		}
	}
	return "", false
}

func (r *Rules) titleSegment(title string) (string, bool) {
	segments := titleSeparator.Split(title, -1)
	if len(segments) < 2 {
		return "", false
	}
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" || r.ContainsStopWord(seg) {
			continue
		}
		lower := strings.ToLower(seg)
		for _, kw := range r.movingKeywords {
			if strings.Contains(lower, kw) {
				return seg, true
			}
		}
	}
	return "", false
}

func cleanTitle(title string) string {
	cleaned := strings.ReplaceAll(title, "|", " - ")
	cleaned = strings.ReplaceAll(cleaned, "⭐", "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if utf8.RuneCountInString(cleaned) <= maxTitleRunes {
		return cleaned
	}
	runes := []rune(cleaned)
	return strings.TrimSpace(string(runes[:maxTitleRunes])) + "..."
}
