package textmatch

import "strings"

// Stop words to filter out before scoring word overlap. French function
// words plus generic catalog filler ("autres activites", "services"...).
var stopWords = map[string]bool{
	"de": true, "du": true, "des": true, "le": true, "la": true, "les": true,
	"et": true, "en": true, "a": true, "au": true, "aux": true,
	"d": true, "l": true, "n": true, "c": true, "qu": true,
	"sur": true, "pour": true, "par": true, "avec": true, "sans": true,
	"autres": true, "autre": true, "non": true, "hors": true,
	"except": true, "exception": true,
	"activites": true, "activite": true, "services": true, "service": true,
}

// significantWords tokenizes on whitespace and drops stop words.
func significantWords(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))
	for _, word := range words {
		if !stopWords[word] {
			filtered = append(filtered, word)
		}
	}
	return filtered
}

// StemWord trims common French suffixes (plural "s", "-es", "-ment") from
// words longer than four runes. Light stemming only; no dictionary.
func StemWord(word string) string {
	if len(word) <= 4 {
		return word
	}
	switch {
	case strings.HasSuffix(word, "ment"):
		return word[:len(word)-4]
	case strings.HasSuffix(word, "es"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss"):
		return word[:len(word)-1]
	}
	return word
}

// wordsMatch reports whether two words match exactly, after stemming, or
// via 4+-character prefix containment.
func wordsMatch(a, b string) bool {
	if a == b {
		return true
	}
	if StemWord(a) == StemWord(b) {
		return true
	}
	if len(a) >= 4 && len(b) >= 4 {
		if strings.HasPrefix(a, b) || strings.HasPrefix(b, a) {
			return true
		}
	}
	return false
}

// WordOverlapScore scores how many significant words of the prediction
// appear in the reference, with fuzzy per-word matching. The score is
// matched/total with a flat +0.3 bonus when every predicted word matched.
// Inputs are expected to be normalized already.
func WordOverlapScore(pred, ref string) float64 {
	predWords := significantWords(pred)
	if len(predWords) == 0 {
		return 0.0
	}
	refWords := significantWords(ref)

	matched := 0
	for _, pw := range predWords {
		for _, rw := range refWords {
			if wordsMatch(pw, rw) {
				matched++
				break
			}
		}
	}

	score := float64(matched) / float64(len(predWords))
	if matched == len(predWords) {
		score += 0.3
	}
	return score
}
