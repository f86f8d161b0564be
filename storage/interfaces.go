package storage

import (
	"context"

	"github.com/sirenic/firmatch/core"
)

// ActivityRepository provides persistence for the activity embedding index.
// Implementations must be thread-safe and support concurrent access.
type ActivityRepository interface {
	// PutEmbeddings stores one or more activity embeddings, replacing any
	// existing entry with the same label. Sets UpdatedAt if not already set.
	PutEmbeddings(ctx context.Context, embeddings ...*core.ActivityEmbedding) error

	// GetEmbedding retrieves a single embedding by its activity label.
	// Returns ErrNotFound if the label is not indexed.
	GetEmbedding(ctx context.Context, label string) (*core.ActivityEmbedding, error)

	// FindSimilar finds indexed activities similar to the given vector.
	// Returns matches with similarity >= minSimilarity, up to limit results,
	// ordered by similarity score (highest first). Vectors are assumed
	// normalized, so cosine similarity reduces to a dot product.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ActivityMatch, error)

	// CountEmbeddings returns the number of indexed activity labels.
	CountEmbeddings(ctx context.Context) (int, error)

	// Fingerprint retrieves the stored index fingerprint.
	// Returns ErrNotFound if no index has been built yet.
	Fingerprint(ctx context.Context) (*core.IndexFingerprint, error)

	// SetFingerprint stores the index fingerprint, replacing any previous one.
	SetFingerprint(ctx context.Context, fingerprint *core.IndexFingerprint) error

	// Clear removes every embedding and the fingerprint.
	Clear(ctx context.Context) error

	// Close closes the storage backend and releases resources.
	Close() error
}
