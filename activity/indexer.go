// Copyright 2025 Sirenic Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package activity

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sirenic/firmatch/ai"
	"github.com/sirenic/firmatch/catalog"
	"github.com/sirenic/firmatch/core"
	"github.com/sirenic/firmatch/storage"
)

const (
	defaultBatchSize      = 100
	defaultMaxRetries     = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
)

// Indexer builds and maintains the persistent activity embedding index.
// It embeds every catalog activity label and stores the vectors together
// with a fingerprint; the index is rebuilt only when the catalog labels or
// the embedding model change.
type Indexer struct {
	repo           storage.ActivityRepository
	embedder       ai.Embedder
	cat            *catalog.Catalog
	modelID        string
	pool           *ants.Pool
	batchSize      int
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *slog.Logger

	// mu guards the build-once gate: concurrent callers must not both
	// regenerate the index.
	mu    sync.Mutex
	ready bool
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer) error

// WithPoolSize sets the worker pool size for concurrent batch embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) IndexerOption {
	return func(ix *Indexer) error {
		if size < 1 {
			size = 1
		}
		if ix.pool != nil {
			ix.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		ix.pool = pool
		return nil
	}
}

// WithBatchSize sets how many labels are embedded per collaborator call.
// Default is 100.
func WithBatchSize(size int) IndexerOption {
	return func(ix *Indexer) error {
		if size < 1 {
			size = 1
		}
		ix.batchSize = size
		return nil
	}
}

// WithRetry configures retry behavior for embedding calls.
func WithRetry(maxAttempts int, baseDelay time.Duration) IndexerOption {
	return func(ix *Indexer) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		ix.maxRetries = maxAttempts
		ix.retryBaseDelay = baseDelay
		return nil
	}
}

// WithIndexerLogger sets a custom logger.
// Default is slog.Default().
func WithIndexerLogger(logger *slog.Logger) IndexerOption {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// NewIndexer creates an indexer over the catalog's activity list.
func NewIndexer(repo storage.ActivityRepository, embedder ai.Embedder, cat *catalog.Catalog, modelID string, opts ...IndexerOption) (*Indexer, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if cat == nil {
		return nil, ErrCatalogRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	ix := &Indexer{
		repo:           repo,
		embedder:       embedder,
		cat:            cat,
		modelID:        modelID,
		pool:           pool,
		batchSize:      defaultBatchSize,
		maxRetries:     defaultMaxRetries,
		retryBaseDelay: defaultRetryBaseDelay,
		logger:         slog.Default().With("component", "activity-indexer"),
	}

	for _, opt := range opts {
		if optErr := opt(ix); optErr != nil {
			ix.Release()
			return nil, optErr
		}
	}

	return ix, nil
}

// EnsureIndex makes sure the persisted index covers the current catalog
// labels and embedding model, rebuilding it if the fingerprint differs.
// Safe for concurrent use; only one caller rebuilds, the rest wait.
func (ix *Indexer) EnsureIndex(ctx context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.ready {
		return nil
	}

	labels := ix.cat.Activities.Items
	if len(labels) == 0 {
		ix.logger.Warn("activity list is empty, semantic matching disabled")
		ix.ready = true
		return nil
	}

	fingerprint, err := ix.repo.Fingerprint(ctx)
	if err == nil && fingerprint.Matches(labels, ix.modelID) {
		ix.logger.Debug("activity index up to date", "labels", len(labels))
		ix.ready = true
		return nil
	}
	if err != nil && err != storage.ErrNotFound {
		return err
	}

	ix.logger.Info("rebuilding activity index", "labels", len(labels), "model", ix.modelID)
	if err := ix.rebuild(ctx, labels); err != nil {
		return err
	}

	ix.ready = true
	return nil
}

// rebuild clears the stored index and re-embeds every label in concurrent
// batches.
func (ix *Indexer) rebuild(ctx context.Context, labels []string) error {
	if err := ix.repo.Clear(ctx); err != nil {
		return err
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for start := 0; start < len(labels); start += ix.batchSize {
		end := start + ix.batchSize
		if end > len(labels) {
			end = len(labels)
		}
		batch := labels[start:end]

		wg.Add(1)
		submitErr := ix.pool.Submit(func() {
			defer wg.Done()
			if err := ix.embedBatch(ctx, batch); err != nil {
				fail(err)
			}
		})
		if submitErr != nil {
			wg.Done()
			fail(submitErr)
			break
		}
	}

	wg.Wait()
	if firstErr != nil {
		return firstErr
	}

	return ix.repo.SetFingerprint(ctx, &core.IndexFingerprint{
		LabelsHash:  core.HashLabels(labels),
		ModelID:     ix.modelID,
		GeneratedAt: time.Now().UTC(),
	})
}

// embedBatch embeds a batch of labels and persists the normalized vectors.
func (ix *Indexer) embedBatch(ctx context.Context, batch []string) error {
	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vectors, err = ix.embedder.EmbedTexts(ctx, batch)
		return err
	}, ix.maxRetries, ix.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("embedding batch of %d labels: %w", len(batch), err)
	}

	if len(vectors) != len(batch) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(vectors))
	}

	embeddings := make([]*core.ActivityEmbedding, len(batch))
	for i, label := range batch {
		embeddings[i] = &core.ActivityEmbedding{
			Label:  label,
			Codes:  ix.cat.CodesFor(label),
			Vector: NormalizeVector(vectors[i]),
		}
	}

	return ix.repo.PutEmbeddings(ctx, embeddings...)
}

// Release frees the worker pool. The indexer should not be used afterwards.
func (ix *Indexer) Release() {
	if ix.pool != nil {
		ix.pool.Release()
	}
}
