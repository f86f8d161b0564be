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
	"strings"

	"github.com/sirenic/firmatch/ai"
	"github.com/sirenic/firmatch/core"
	"github.com/sirenic/firmatch/storage"
)

const (
	// DefaultThreshold is the minimum cosine similarity for an activity match.
	DefaultThreshold = 0.3

	// DefaultLimit is the default number of ranked matches to return.
	DefaultLimit = 5
)

// Matcher resolves free-text activity descriptions against the persisted
// embedding index.
type Matcher struct {
	repo     storage.ActivityRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithMatcherLogger sets a custom logger.
// Default is slog.Default().
func WithMatcherLogger(logger *slog.Logger) MatcherOption {
	return func(m *Matcher) {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
	}
}

// NewMatcher creates an activity matcher over a populated index.
func NewMatcher(repo storage.ActivityRepository, embedder ai.Embedder, opts ...MatcherOption) (*Matcher, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	m := &Matcher{
		repo:     repo,
		embedder: embedder,
		logger:   slog.Default().With("component", "activity-matcher"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// FindSimilar embeds the query and returns the top-k indexed activities with
// cosine similarity >= threshold, highest first. An empty result means no
// activity is similar enough; a failing embedding collaborator surfaces as
// ErrEmbeddingUnavailable instead.
func (m *Matcher) FindSimilar(ctx context.Context, query string, topK int, threshold float64) ([]*core.ActivityMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if topK <= 0 {
		topK = DefaultLimit
	}

	vector, err := m.embedder.EmbedText(ctx, query)
	if err != nil {
		m.logger.Error("query embedding failed", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty vector", ErrEmbeddingUnavailable)
	}

	matches, err := m.repo.FindSimilar(ctx, NormalizeVector(vector), float32(threshold), topK)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("activity search", "query", query, "matches", len(matches))
	return matches, nil
}

// CodesForQuery returns the union of activity codes over the ranked matches
// for a query, deduplicated, in match order. An unavailable embedding
// collaborator propagates as ErrEmbeddingUnavailable.
func (m *Matcher) CodesForQuery(ctx context.Context, query string, topK int, threshold float64) ([]string, error) {
	matches, err := m.FindSimilar(ctx, query, topK, threshold)
	if err != nil {
		return nil, err
	}

	var codes []string
	seen := map[string]bool{}
	for _, match := range matches {
		for _, code := range match.Codes {
			if !seen[code] {
				seen[code] = true
				codes = append(codes, code)
			}
		}
	}
	return codes, nil
}
