package matcher

import "regexp"

// Digits with optional thousands groups; a trailing comma is not part of the amount.
const amount = `\d+(?:,\d{3})*`

var singlePricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$` + amount + `(?:\.\d{2})?`),
	regexp.MustCompile(`(?i)` + amount + `(?:\.\d{2})?\s*dollars?`),
	regexp.MustCompile(`(?i)starting at \$` + amount),
	regexp.MustCompile(`(?i)from \$` + amount),
	regexp.MustCompile(`(?i)estimate.*?\$` + amount),
	regexp.MustCompile(`(?i)quote.*?\$` + amount),
}

var rangePricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$` + amount + `\s*-\s*\$?` + amount),
	regexp.MustCompile(`(?i)\$` + amount + ` to \$` + amount),
	regexp.MustCompile(`(?i)between \$` + amount + ` and \$` + amount),
}

// Price returns the first price mention. Single-value patterns are tried
// before range patterns, so "Starting at $800, range $700-$1100" yields "$800".
func Price(text string) (string, bool) {
	if m, ok := firstMatch(singlePricePatterns, text); ok {
		return m, true
	}
	return firstMatch(rangePricePatterns, text)
}

// PriceRange returns the first explicit price range in text.
func PriceRange(text string) (string, bool) {
	return firstMatch(rangePricePatterns, text)
}

// PricePatterns exposes the evaluation order of the price table.
func PricePatterns() []string {
	out := make([]string, 0, len(singlePricePatterns)+len(rangePricePatterns))
	for _, re := range singlePricePatterns {
		out = append(out, re.String())
	}
	for _, re := range rangePricePatterns {
		out = append(out, re.String())
	}
	return out
}

func firstMatch(patterns []*regexp.Regexp, text string) (string, bool) {
	for _, re := range patterns {
		if m := re.FindString(text); m != "" {
			return m, true
		}
	}
	return "", false
}
