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


package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirenic/firmatch/core"
	"github.com/sirenic/firmatch/storage"
)

// ActivityRepository implements storage.ActivityRepository for BadgerDB.
type ActivityRepository struct {
	backend *Backend
}

var _ storage.ActivityRepository = (*ActivityRepository)(nil)

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(backend *Backend) (*ActivityRepository, error) {
	return &ActivityRepository{
		backend: backend,
	}, nil
}

// Close releases resources. ActivityRepository has no resources of its own;
// the backend is closed separately.
func (r *ActivityRepository) Close() error {
	return nil
}

// PutEmbeddings stores one or more activity embeddings, keyed by label.
func (r *ActivityRepository) PutEmbeddings(ctx context.Context, embeddings ...*core.ActivityEmbedding) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, embedding := range embeddings {
			if embedding.UpdatedAt.IsZero() {
				embedding.UpdatedAt = time.Now().UTC()
			}
			key := makeEmbeddingKey(embedding.Label)
			if err := tx.Set(key, storage.MarshalActivityEmbedding(embedding)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetEmbedding retrieves a single embedding by its activity label.
func (r *ActivityRepository) GetEmbedding(ctx context.Context, label string) (*core.ActivityEmbedding, error) {
	var result *core.ActivityEmbedding
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readEmbedding(tx, makeEmbeddingKey(label))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// FindSimilar scans every indexed embedding and ranks it against the query
// vector. The index holds one entry per catalog activity label (a few
// hundred), so a full scan stays cheap.
func (r *ActivityRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ActivityMatch, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.ActivityMatch

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(activityEmbeddingPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var embedding *core.ActivityEmbedding
			err := item.Value(func(val []byte) error {
				var err error
				embedding, err = storage.UnmarshalActivityEmbedding(val)
				return err
			})
			if err != nil {
				return err
			}
			if embedding == nil || len(embedding.Vector) == 0 {
				continue
			}

			// Cosine similarity reduces to a dot product on normalized vectors.
			similarity := dotProduct(vector, embedding.Vector)
			if similarity >= minSimilarity {
				results = append(results, &core.ActivityMatch{
					Label: embedding.Label,
					Codes: embedding.Codes,
					Score: float64(similarity),
				})
			}
		}

		return nil
	}, false)

	if err != nil {
		return nil, err
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

// CountEmbeddings returns the number of indexed activity labels.
func (r *ActivityRepository) CountEmbeddings(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(activityEmbeddingPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Fingerprint retrieves the stored index fingerprint.
func (r *ActivityRepository) Fingerprint(ctx context.Context) (*core.IndexFingerprint, error) {
	var result *core.IndexFingerprint
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(indexFingerprintKey))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalIndexFingerprint(val)
			return err
		})
	}, false)
	return result, err
}

// SetFingerprint stores the index fingerprint.
func (r *ActivityRepository) SetFingerprint(ctx context.Context, fingerprint *core.IndexFingerprint) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(indexFingerprintKey), storage.MarshalIndexFingerprint(fingerprint)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Clear removes every embedding and the fingerprint.
func (r *ActivityRepository) Clear(ctx context.Context) error {
	var keys [][]byte
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(activityEmbeddingPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		return nil
	}, false)
	if err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		if err := tx.Delete([]byte(indexFingerprintKey)); err != nil && err != badger.ErrKeyNotFound {
			return err
		}
		return tx.Commit()
	}, true)
}

// readEmbedding reads an embedding from the transaction.
// Returns nil without error when the key is absent.
func readEmbedding(tx *badger.Txn, key []byte) (*core.ActivityEmbedding, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var embedding *core.ActivityEmbedding
	err = item.Value(func(val []byte) error {
		var err error
		embedding, err = storage.UnmarshalActivityEmbedding(val)
		return err
	})
	return embedding, err
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
