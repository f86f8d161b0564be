package activity

import "errors"

var (
	// ErrRepositoryRequired is returned when a constructor is missing its repository.
	ErrRepositoryRequired = errors.New("activity repository is required")

	// ErrEmbedderRequired is returned when a constructor is missing its embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrCatalogRequired is returned when a constructor is missing its catalog.
	ErrCatalogRequired = errors.New("catalog is required")

	// ErrEmbeddingUnavailable signals that the embedding collaborator failed.
	// Distinct from an empty match list: callers must not read it as
	// "no similar activities found".
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrInvalidMaxAttempts is returned when retry is configured with a
	// non-positive attempt count.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
