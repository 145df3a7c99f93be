package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reSpaces = regexp.MustCompile(`\s+`)

	// NFD decomposition followed by removal of combining marks drops the
	// Hebrew niqqud and cantillation marks (U+0591..U+05C7 are all Mn).
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// StripNiqqud removes Hebrew vowel and diacritic marks from s.
func StripNiqqud(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize produces the canonical searchable form of free text: lowercase,
// no niqqud, single internal spaces, trimmed.
func Normalize(s string) string {
	s = strings.ToLower(StripNiqqud(s))
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeCode canonicalizes a SKU or barcode for identity comparison.
// Catalog exports carry a float artifact where "123456" arrives as
// "123456.0"; the suffix is stripped along with all whitespace.
func NormalizeCode(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".0")
	s = strings.Join(strings.Fields(s), "")
	return strings.ToLower(s)
}

// Tokenize splits free text into normalized tokens of at least two runes.
func Tokenize(s string) []string {
	parts := strings.Fields(Normalize(s))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if len([]rune(p)) >= 2 {
			out = append(out, p)
		}
	}
	return out
}

// ContainsFold reports whether haystack contains needle after both are
// normalized.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(Normalize(haystack), Normalize(needle))
}

// EqualFold compares two values ignoring case and surrounding whitespace.
func EqualFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// EqualCompact compares two values ignoring case and all internal whitespace.
func EqualCompact(a, b string) bool {
	compact := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), ""))
	}
	return compact(a) == compact(b)
}
