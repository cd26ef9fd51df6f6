package matcher

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

var idnaProfile = idna.Lookup

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`),
	regexp.MustCompile(`\b\d{3}-\d{3}-\d{4}\b`),
	regexp.MustCompile(`\b\d{3}\.\d{3}\.\d{4}\b`),
	regexp.MustCompile(`\b\d{3}\s\d{3}\s\d{4}\b`),
	regexp.MustCompile(`\+1[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
	regexp.MustCompile(`(?i)\b(?:call|phone|tel)\b[:.]?\s*(\d{3}[-.\s]?\d{3}[-.\s]?\d{4})`),
}

const minPhoneDigits = 10

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

var websitePatterns = []*regexp.Regexp{
	regexp.MustCompile(`https?://[^\s]+`),
	regexp.MustCompile(`\bwww\.[^\s]+`),
	regexp.MustCompile(`\b[a-zA-Z0-9][a-zA-Z0-9.-]*\.[a-zA-Z]{2,}(?:/[^\s]*)?`),
}

const urlTrailingPunct = `.,;:!?)"']>`

// Phones returns every phone number in text, reduced to digits and '+',
// with fewer than ten digits dropped and duplicates removed in order.
func Phones(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, re := range phonePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			raw := m[0]
			if len(m) > 1 {
				raw = m[1]
			}
			phone, ok := normalizePhone(raw)
			if !ok {
				continue
			}
			if _, dup := seen[phone]; dup {
				continue
			}
			seen[phone] = struct{}{}
			out = append(out, phone)
		}
	}
	return out
}

func normalizePhone(raw string) (string, bool) {
	var b strings.Builder
	digits := 0
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits++
			b.WriteRune(r)
		case r == '+':
			b.WriteRune(r)
		}
	}
	if digits < minPhoneDigits {
		return "", false
	}
	return b.String(), true
}

// Email returns the first e-mail address in text.
func Email(text string) (string, bool) {
	m := emailPattern.FindString(text)
	return m, m != ""
}

// Website returns the first URL-like token in text, ignoring e-mail domains.
// The result always carries a scheme and an ASCII host.
func Website(text string) (string, bool) {
	stripped := emailPattern.ReplaceAllString(text, " ")
	for _, re := range websitePatterns {
		m := strings.TrimRight(re.FindString(stripped), urlTrailingPunct)
		if m == "" {
			continue
		}
		return normalizeWebsite(m), true
	}
	return "", false
}

func normalizeWebsite(raw string) string {
	if !strings.HasPrefix(strings.ToLower(raw), "http://") && !strings.HasPrefix(strings.ToLower(raw), "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	host, err := idnaProfile.ToASCII(u.Hostname())
	if err != nil || host == "" {
		return raw
	}
	if port := u.Port(); port != "" {
		host += ":" + port
	}
	u.Host = host
	return u.String()
}
