package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes a name for comparison: lower-case, decompose
// accented characters and drop the combining marks (so "ç", "ã", "é" compare
// equal to "c", "a", "e"), trim, and collapse whitespace runs to one space.
// Total function; Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	s := strings.ToLower(text)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}
	return strings.Join(strings.Fields(s), " ")
}

// Similarity scores two names in [0, 1]. Both inputs are normalized before
// comparison. Rule order and thresholds are load-bearing: existing grouped
// reports depend on exactly this behavior, so do not "improve" it.
//
//  1. identical normalized strings -> 1
//  2. one contains the other -> 0.8
//  3. length ratio below 0.7 -> 0
//  4. otherwise count characters of the shorter string that occur anywhere
//     in the longer one (order-insensitive) and divide by the longer length.
func Similarity(a, b string) float64 {
	s1 := Normalize(a)
	s2 := Normalize(b)

	if s1 == s2 {
		return 1
	}
	if strings.Contains(s1, s2) || strings.Contains(s2, s1) {
		return 0.8
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	minLen := len(r1)
	maxLen := len(r2)
	if minLen > maxLen {
		minLen, maxLen = maxLen, minLen
	}
	if float64(minLen)/float64(maxLen) < 0.7 {
		return 0
	}

	shorter, longer := s2, s1
	if len(r1) < len(r2) {
		shorter, longer = s1, s2
	}

	matches := 0
	for _, r := range shorter {
		if strings.ContainsRune(longer, r) {
			matches++
		}
	}
	return float64(matches) / float64(maxLen)
}
