package mock

import (
	"context"

	"github.com/sirenic/firmatch/core"
)

// MockCriteriaExtractor is a test double for ai.CriteriaExtractor.
// It allows custom behavior injection via function fields.
type MockCriteriaExtractor struct {
	// ExtractCriteriaFunc is called by ExtractCriteria if set.
	// If nil, returns an empty bundle with no sections present.
	ExtractCriteriaFunc func(ctx context.Context, messages []core.Message) (core.CriteriaBundle, error)

	callCount int
}

// NewMockCriteriaExtractor creates a mock criteria extractor.
// Note: Returns concrete type to allow behavior injection and assertions.
func NewMockCriteriaExtractor() *MockCriteriaExtractor {
	return &MockCriteriaExtractor{}
}

// ExtractCriteria returns the injected bundle or an empty one.
func (m *MockCriteriaExtractor) ExtractCriteria(ctx context.Context, messages []core.Message) (core.CriteriaBundle, error) {
	m.callCount++

	if m.ExtractCriteriaFunc != nil {
		return m.ExtractCriteriaFunc(ctx, messages)
	}

	return core.CriteriaBundle{}, nil
}

// CallCount returns the number of times ExtractCriteria was called.
func (m *MockCriteriaExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockCriteriaExtractor) Reset() {
	m.callCount = 0
	m.ExtractCriteriaFunc = nil
}
