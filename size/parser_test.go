package size

import (
	"testing"

	"github.com/sirenic/firmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Acronyms(t *testing.T) {
	tests := []struct {
		expr         string
		class        Class
		bracketCount int
		min, max     int
	}{
		{"TPE", ClassMicro, 4, 0, 9},
		{"MIC", ClassMicro, 4, 0, 9},
		{"PME", ClassSmall, 5, 10, 249},
		{"ETI", ClassMedium, 4, 250, 4999},
		{"GE", ClassLarge, 2, 5000, Unbounded},
		{"pme", ClassSmall, 5, 10, 249},
		{"  ge  ", ClassLarge, 2, 5000, Unbounded},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			result, ok := Parse(tt.expr)
			require.True(t, ok)
			assert.Equal(t, tt.class, result.Class)
			assert.Len(t, result.Brackets, tt.bracketCount)
			assert.Equal(t, tt.min, result.MinEmployees)
			assert.Equal(t, tt.max, result.MaxEmployees)
		})
	}
}

func TestParse_AcronymEqualsCombined(t *testing.T) {
	// "PME" and its bound expression must resolve identically.
	fromAcronym, ok := Parse("PME")
	require.True(t, ok)
	fromBounds, ok := Parse(">=10 AND <=249")
	require.True(t, ok)

	assert.Equal(t, fromAcronym.Brackets, fromBounds.Brackets)
	assert.Equal(t, fromAcronym.Class, fromBounds.Class)
	assert.Equal(t, ClassSmall, fromBounds.Class)
}

func TestParse_Combined(t *testing.T) {
	t.Run("strict operators adjust bounds", func(t *testing.T) {
		result, ok := Parse(">9 AND <250")
		require.True(t, ok)
		assert.Equal(t, 10, result.MinEmployees)
		assert.Equal(t, 249, result.MaxEmployees)
		assert.Equal(t, ClassSmall, result.Class)
	})

	t.Run("french conjunction", func(t *testing.T) {
		result, ok := Parse(">=50 ET <=500")
		require.True(t, ok)
		assert.Equal(t, []string{"50 to 99 employees", "100 to 199 employees",
			"200 to 249 employees", "250 to 499 employees"}, result.Brackets)
	})

	t.Run("ampersand", func(t *testing.T) {
		result, ok := Parse(">=10 & <=19")
		require.True(t, ok)
		assert.Equal(t, []string{"10 to 19 employees"}, result.Brackets)
	})
}

func TestParse_Range(t *testing.T) {
	tests := []struct {
		expr     string
		brackets []string
	}{
		{"10-50", []string{"10 to 19 employees", "20 to 49 employees"}},
		{"10 - 50", []string{"10 to 19 employees", "20 to 49 employees"}},
		{"10 à 250", []string{"10 to 19 employees", "20 to 49 employees",
			"50 to 99 employees", "100 to 199 employees", "200 to 249 employees"}},
		{"10 a 250", []string{"10 to 19 employees", "20 to 49 employees",
			"50 to 99 employees", "100 to 199 employees", "200 to 249 employees"}},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			result, ok := Parse(tt.expr)
			require.True(t, ok)
			assert.Equal(t, tt.brackets, result.Brackets)
		})
	}
}

func TestParse_Comparison(t *testing.T) {
	t.Run("less than", func(t *testing.T) {
		result, ok := Parse("<10")
		require.True(t, ok)
		assert.Equal(t, 0, result.MinEmployees)
		assert.Equal(t, 9, result.MaxEmployees)
		assert.Equal(t, ClassMicro, result.Class)
	})

	t.Run("less than or equal excludes straddling bracket", func(t *testing.T) {
		result, ok := Parse("<=500")
		require.True(t, ok)
		assert.NotContains(t, result.Brackets, "500 to 999 employees")
		assert.Contains(t, result.Brackets, "250 to 499 employees")
	})

	t.Run("greater than", func(t *testing.T) {
		result, ok := Parse(">500")
		require.True(t, ok)
		assert.Equal(t, 501, result.MinEmployees)
		assert.Equal(t, Unbounded, result.MaxEmployees)
		assert.Equal(t, []string{"500 to 999 employees", "1000 to 1999 employees",
			"2000 to 4999 employees", "5000 to 9999 employees", "10000+ employees"}, result.Brackets)
	})

	t.Run("greater or equal", func(t *testing.T) {
		result, ok := Parse(">=10000")
		require.True(t, ok)
		assert.Equal(t, []string{"10000+ employees"}, result.Brackets)
	})
}

func TestParse_BareInteger(t *testing.T) {
	// An exact value selects only a bracket whose upper bound equals it.
	result, ok := Parse("9")
	require.True(t, ok)
	assert.Equal(t, []string{"6 to 9 employees"}, result.Brackets)

	// No bracket tops out at 50, so the value is unparseable by the
	// upper-bound rule.
	_, ok = Parse("50")
	assert.False(t, ok)
}

func TestParse_Unparseable(t *testing.T) {
	for _, expr := range []string{"", "beaucoup", "dix salaries", "=10", "<>"} {
		_, ok := Parse(expr)
		assert.False(t, ok, "Parse(%q) should fail", expr)
	}
}

func TestApply(t *testing.T) {
	t.Run("expression rewritten", func(t *testing.T) {
		bundle := &core.CriteriaBundle{
			Size: core.SizeCriteria{Present: true, Expression: "PME"},
		}

		result, changed := Apply(bundle)
		require.True(t, changed)
		assert.Equal(t, ClassSmall, result.Class)
		assert.Equal(t, "PME", bundle.Size.Acronym)
		assert.Len(t, bundle.Size.Brackets, 5)
		assert.Empty(t, bundle.Size.Expression, "raw expression is cleared")
	})

	t.Run("legacy acronym field used as fallback", func(t *testing.T) {
		bundle := &core.CriteriaBundle{
			Size: core.SizeCriteria{Present: true, Acronym: "GE"},
		}

		result, changed := Apply(bundle)
		require.True(t, changed)
		assert.Equal(t, ClassLarge, result.Class)
		assert.Len(t, bundle.Size.Brackets, 2)
	})

	t.Run("unparseable expression left untouched", func(t *testing.T) {
		bundle := &core.CriteriaBundle{
			Size: core.SizeCriteria{Present: true, Expression: "une dizaine"},
		}

		_, changed := Apply(bundle)
		assert.False(t, changed)
		assert.Equal(t, "une dizaine", bundle.Size.Expression)
		assert.Empty(t, bundle.Size.Brackets)
	})

	t.Run("absent section untouched", func(t *testing.T) {
		bundle := &core.CriteriaBundle{}
		_, changed := Apply(bundle)
		assert.False(t, changed)
	})
}

func TestRefinable(t *testing.T) {
	assert.False(t, Refinable(nil))
	assert.False(t, Refinable([]string{"a", "b", "c"}))
	assert.True(t, Refinable([]string{"a", "b", "c", "d"}))
}
