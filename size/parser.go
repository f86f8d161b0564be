package size

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sirenic/firmatch/core"
)

// Result is the outcome of parsing a size expression.
type Result struct {
	Brackets     []string
	Class        Class
	MinEmployees int
	// MaxEmployees is Unbounded for open-ended expressions.
	MaxEmployees int
}

var (
	combinedRe   = regexp.MustCompile(`^([<>=\d\s]+?)\s*(?:AND|ET|&)\s*([<>=\d\s]+)$`)
	rangeRe      = regexp.MustCompile(`^(\d+)\s*[-AÀ]\s*(\d+)$`)
	comparisonRe = regexp.MustCompile(`^([<>=]+)\s*(\d+)$`)
	exactRe      = regexp.MustCompile(`^\d+$`)
)

// Parse maps a free-text size expression to canonical employee-count
// brackets. Recognized forms, tried in order: acronym keyword (TPE, PME,
// ETI, GE, MIC), combined comparison (">10 AND <250"), explicit range
// ("10-50", "10 à 50"), single comparison ("<10", ">=250"), bare integer.
// Returns false when the expression cannot be parsed; the caller must
// leave the original text untouched rather than guessing.
func Parse(expression string) (*Result, bool) {
	if expression == "" {
		return nil, false
	}

	expr := strings.ToUpper(strings.TrimSpace(expression))

	if class, ok := acronymKeywords[expr]; ok {
		bounds := classBounds[class]
		return &Result{
			Brackets:     bracketsForBounds(bounds[0], bounds[1]),
			Class:        class,
			MinEmployees: bounds[0],
			MaxEmployees: bounds[1],
		}, true
	}

	if m := combinedRe.FindStringSubmatch(expr); m != nil {
		minVal, maxVal := 0, Unbounded
		for _, part := range []string{m[1], m[2]} {
			cm := comparisonRe.FindStringSubmatch(strings.TrimSpace(part))
			if cm == nil {
				continue
			}
			op := cm[1]
			val, _ := strconv.Atoi(cm[2])
			switch {
			case strings.Contains(op, ">"):
				minVal = val
				if !strings.Contains(op, "=") {
					minVal = val + 1
				}
			case strings.Contains(op, "<"):
				maxVal = val
				if !strings.Contains(op, "=") {
					maxVal = val - 1
				}
			}
		}
		return resultForBounds(minVal, maxVal)
	}

	if m := rangeRe.FindStringSubmatch(expr); m != nil {
		minVal, _ := strconv.Atoi(m[1])
		maxVal, _ := strconv.Atoi(m[2])
		return resultForBounds(minVal, maxVal)
	}

	if m := comparisonRe.FindStringSubmatch(expr); m != nil {
		op := m[1]
		val, _ := strconv.Atoi(m[2])
		switch {
		case strings.Contains(op, "<"):
			maxVal := val
			if !strings.Contains(op, "=") {
				maxVal = val - 1
			}
			return resultForBounds(0, maxVal)
		case strings.Contains(op, ">"):
			minVal := val
			if !strings.Contains(op, "=") {
				minVal = val + 1
			}
			return resultForBounds(minVal, Unbounded)
		default:
			return nil, false
		}
	}

	if exactRe.MatchString(expr) {
		val, _ := strconv.Atoi(expr)
		return resultForBounds(val, val)
	}

	return nil, false
}

// resultForBounds resolves a bound pair to brackets and back-fills the
// acronym class when the bounds exactly match one.
func resultForBounds(minVal, maxVal int) (*Result, bool) {
	brackets := bracketsForBounds(minVal, maxVal)
	if len(brackets) == 0 {
		return nil, false
	}
	return &Result{
		Brackets:     brackets,
		Class:        detectClass(minVal, maxVal),
		MinEmployees: minVal,
		MaxEmployees: maxVal,
	}, true
}

// Apply rewrites the size section of a bundle from its raw expression (or
// legacy acronym field) into canonical brackets. On success the raw
// expression is cleared; on parse failure the section is left untouched.
// Returns the parse result and whether the section was rewritten.
func Apply(bundle *core.CriteriaBundle) (*Result, bool) {
	if !bundle.Size.Present {
		return nil, false
	}

	expression := bundle.Size.Expression
	if expression == "" {
		expression = bundle.Size.Acronym
	}
	if expression == "" {
		return nil, false
	}

	result, ok := Parse(expression)
	if !ok {
		return nil, false
	}

	bundle.Size.Brackets = result.Brackets
	bundle.Size.Acronym = result.Class.String()
	bundle.Size.Expression = ""
	return result, true
}

// Refinable reports whether a bracket list is coarse enough to be worth
// narrowing further (more than 3 brackets, typically acronym-derived).
func Refinable(brackets []string) bool {
	return len(brackets) > 3
}
