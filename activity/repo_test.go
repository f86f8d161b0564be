package activity

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/sirenic/firmatch/core"
	"github.com/sirenic/firmatch/storage"
)

// memRepo is a map-backed storage.ActivityRepository for tests.
type memRepo struct {
	mu          sync.Mutex
	embeddings  map[string]*core.ActivityEmbedding
	order       []string
	fingerprint *core.IndexFingerprint
}

var _ storage.ActivityRepository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{embeddings: map[string]*core.ActivityEmbedding{}}
}

func (r *memRepo) PutEmbeddings(ctx context.Context, embeddings ...*core.ActivityEmbedding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range embeddings {
		if e.UpdatedAt.IsZero() {
			e.UpdatedAt = time.Now().UTC()
		}
		if _, exists := r.embeddings[e.Label]; !exists {
			r.order = append(r.order, e.Label)
		}
		r.embeddings[e.Label] = e
	}
	return nil
}

func (r *memRepo) GetEmbedding(ctx context.Context, label string) (*core.ActivityEmbedding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.embeddings[label]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return e, nil
}

func (r *memRepo) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ActivityMatch, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var results []*core.ActivityMatch
	for _, label := range r.order {
		e := r.embeddings[label]
		var sum float32
		for i := 0; i < len(vector) && i < len(e.Vector); i++ {
			sum += vector[i] * e.Vector[i]
		}
		if sum >= minSimilarity {
			results = append(results, &core.ActivityMatch{Label: e.Label, Codes: e.Codes, Score: float64(sum)})
		}
	}
	slices.SortFunc(results, func(a, b *core.ActivityMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (r *memRepo) CountEmbeddings(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.embeddings), nil
}

func (r *memRepo) Fingerprint(ctx context.Context) (*core.IndexFingerprint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fingerprint == nil {
		return nil, storage.ErrNotFound
	}
	return r.fingerprint, nil
}

func (r *memRepo) SetFingerprint(ctx context.Context, fingerprint *core.IndexFingerprint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fingerprint = fingerprint
	return nil
}

func (r *memRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.embeddings = map[string]*core.ActivityEmbedding{}
	r.order = nil
	r.fingerprint = nil
	return nil
}

func (r *memRepo) Close() error { return nil }
