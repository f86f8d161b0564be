// Package textmatch provides text normalization and similarity scoring for
// matching free-form predictions against reference catalogs.
package textmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes a string for comparison: Unicode NFD
// decomposition, removal of combining marks, lowercasing, trimming, and
// whitespace collapse. Curly apostrophes and en/em dashes are folded to
// their ASCII forms. Idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, text)
	if err != nil {
		// Transform only fails on malformed input; fall back to the raw text.
		stripped = text
	}

	stripped = strings.ToLower(stripped)
	stripped = strings.ReplaceAll(stripped, "’", "'")
	stripped = strings.ReplaceAll(stripped, "‘", "'")
	stripped = strings.ReplaceAll(stripped, "–", "-")
	stripped = strings.ReplaceAll(stripped, "—", "-")

	return strings.Join(strings.Fields(stripped), " ")
}

// Levenshtein computes the edit distance between two strings by rune.
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	previous := make([]int, len(rb)+1)
	current := make([]int, len(rb)+1)
	for j := range previous {
		previous[j] = j
	}

	for i, ca := range ra {
		current[0] = i + 1
		for j, cb := range rb {
			cost := 1
			if ca == cb {
				cost = 0
			}
			current[j+1] = min(previous[j+1]+1, current[j]+1, previous[j]+cost)
		}
		previous, current = current, previous
	}

	return previous[len(rb)]
}

// EditSimilarity computes a normalized similarity between two strings.
// Returns 1.0 when the normalized forms are equal, 0.0 when either side
// normalizes to empty, otherwise 1 - distance/maxLen floored at zero.
func EditSimilarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)

	if na == nb {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0.0
	}

	distance := Levenshtein(na, nb)
	maxLen := max(len([]rune(na)), len([]rune(nb)))

	similarity := 1.0 - float64(distance)/float64(maxLen)
	return max(similarity, 0.0)
}
