package mock

import (
	"context"
	"hash/fnv"
	"math"
)

// vectorDim matches the dimensionality of common sentence-embedding models
// so fixtures look realistic without being tied to any provider.
const vectorDim = 384

// MockEmbedder is a test double for ai.Embedder. Behavior can be injected
// through the function fields; when they are nil, each method falls back to
// a deterministic vector derived from the input text.
type MockEmbedder struct {
	EmbedTextFunc  func(ctx context.Context, text string) ([]float32, error)
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	callCount int
}

// NewMockEmbedder returns the concrete type so tests can inject functions
// and assert on call counts.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// EmbedText returns the injected result or a hash-derived vector.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.callCount++

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return hashVector(text), nil
}

// EmbedTexts returns the injected result or one hash-derived vector per text.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount++

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = hashVector(text)
	}
	return vectors, nil
}

// CallCount reports how many times either embed method ran.
func (m *MockEmbedder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected functions.
func (m *MockEmbedder) Reset() {
	m.callCount = 0
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// hashVector expands an FNV-1a hash of the text into a unit vector via a
// linear congruential generator. Equal texts always map to equal vectors,
// which is all the similarity tests need.
func hashVector(text string) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	state := h.Sum32()

	vector := make([]float32, vectorDim)
	var sumSquares float64
	for i := range vector {
		state = state*1664525 + 1013904223
		vector[i] = float32(state%1000) / 1000.0
		sumSquares += float64(vector[i]) * float64(vector[i])
	}

	if sumSquares > 0 {
		inv := float32(1.0 / math.Sqrt(sumSquares))
		for i := range vector {
			vector[i] *= inv
		}
	}
	return vector
}
