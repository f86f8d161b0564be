package ai

import (
	"context"

	"github.com/sirenic/firmatch/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts. Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// CriteriaExtractor turns a French-language conversation into a structured
// criteria bundle. Implementations must be thread-safe for concurrent use.
type CriteriaExtractor interface {
	// ExtractCriteria analyzes the conversation and extracts the search
	// criteria it describes. Sections the conversation never mentions come
	// back with Present=false and zeroed sub-fields. Extracted values are
	// raw model output; resolution against reference catalogs is the
	// caller's concern.
	ExtractCriteria(ctx context.Context, messages []core.Message) (core.CriteriaBundle, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// CriteriaExtractor instances, ensuring they share configuration.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// CriteriaExtractor returns the criteria extraction service.
	// The returned CriteriaExtractor is safe for concurrent use.
	CriteriaExtractor() CriteriaExtractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
