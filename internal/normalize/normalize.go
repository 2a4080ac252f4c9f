// Package normalize provides canonicalization for vocabulary entries and
// search input.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches any run of non-alphanumeric characters.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches multiple hyphens.
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Slug converts a tag or item-type name to its canonical slug. The slug is
// the source of truth for vocabulary identity: "Straßen Mode", "strassen
// mode" and "STRASSEN-MODE" all resolve to the same entry.
//
//	"Slow Fashion"  -> "slow-fashion"
//	"Été"           -> "ete"
//	"  multi  word " -> "multi-word"
func Slug(s string) string {
	// Decompose accented characters, then drop anything non-ASCII.
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SearchTerm canonicalizes free-text search input for case-insensitive
// substring matching: fold to lower case and collapse surrounding space.
func SearchTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
