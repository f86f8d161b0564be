// Package mock provides test double implementations of AI service interfaces.
//
// The doubles here stand in for ai.Embedder, ai.CriteriaExtractor, and
// ai.Provider so the matching pipeline can be tested without a model
// endpoint. Default behavior is deterministic; tests override it through
// the exported function fields.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vector, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockEmbedder := mock.NewMockEmbedder()
//	mockEmbedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//
//	// Check call counts
//	count := mockEmbedder.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockCriteriaExtractor: Returns an empty bundle with nothing present
//   - MockProvider: Aggregates mock embedder and extractor
package mock
