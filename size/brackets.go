// Package size parses free-text company-size expressions into canonical
// employee-count brackets.
package size

import "math"

// Unbounded marks a bracket or bound with no upper limit.
const Unbounded = math.MaxInt

// Bracket is one canonical employee-count range.
type Bracket struct {
	Label string
	Min   int
	Max   int
}

// Brackets is the fixed, ordered list of canonical employee-count
// brackets. Bundle and API values always come from this list.
var Brackets = []Bracket{
	{"0 employees", 0, 0},
	{"1 to 2 employees", 1, 2},
	{"3 to 5 employees", 3, 5},
	{"6 to 9 employees", 6, 9},
	{"10 to 19 employees", 10, 19},
	{"20 to 49 employees", 20, 49},
	{"50 to 99 employees", 50, 99},
	{"100 to 199 employees", 100, 199},
	{"200 to 249 employees", 200, 249},
	{"250 to 499 employees", 250, 499},
	{"500 to 999 employees", 500, 999},
	{"1000 to 1999 employees", 1000, 1999},
	{"2000 to 4999 employees", 2000, 4999},
	{"5000 to 9999 employees", 5000, 9999},
	{"10000+ employees", 10000, Unbounded},
}

// Class is a coarse company-size category.
type Class int

const (
	// ClassNone means no acronym class applies.
	ClassNone Class = iota
	// ClassMicro covers 0-9 employees (TPE/MIC).
	ClassMicro
	// ClassSmall covers 10-249 employees (PME).
	ClassSmall
	// ClassMedium covers 250-4999 employees (ETI).
	ClassMedium
	// ClassLarge covers 5000+ employees (GE).
	ClassLarge
)

// String returns the customary French acronym for the class.
func (c Class) String() string {
	switch c {
	case ClassMicro:
		return "TPE"
	case ClassSmall:
		return "PME"
	case ClassMedium:
		return "ETI"
	case ClassLarge:
		return "GE"
	default:
		return ""
	}
}

// classBounds holds the employee bounds of each acronym class.
var classBounds = map[Class][2]int{
	ClassMicro:  {0, 9},
	ClassSmall:  {10, 249},
	ClassMedium: {250, 4999},
	ClassLarge:  {5000, Unbounded},
}

// acronymKeywords maps input keywords to their class. Both the French
// acronyms and the INSEE "MIC" variant are accepted.
var acronymKeywords = map[string]Class{
	"MIC": ClassMicro,
	"TPE": ClassMicro,
	"PME": ClassSmall,
	"ETI": ClassMedium,
	"GE":  ClassLarge,
}

// bracketsForBounds selects every canonical bracket whose upper bound lies
// within [min, max]. The rule intentionally tests only the upper bound so
// that "<=500" excludes "500 to 999".
func bracketsForBounds(minVal, maxVal int) []string {
	var result []string
	for _, b := range Brackets {
		if b.Max >= minVal && b.Max <= maxVal {
			result = append(result, b.Label)
		}
	}
	return result
}

// detectClass returns the acronym class whose bounds exactly equal the
// given pair, if any.
func detectClass(minVal, maxVal int) Class {
	for _, class := range []Class{ClassMicro, ClassSmall, ClassMedium, ClassLarge} {
		bounds := classBounds[class]
		if bounds[0] == minVal && bounds[1] == maxVal {
			return class
		}
	}
	return ClassNone
}
