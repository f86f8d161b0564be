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


// Package sector resolves predicted sector labels to canonical catalog
// entries through a four-tier matching waterfall.
package sector

import (
	"log/slog"
	"strings"

	"github.com/sirenic/firmatch/catalog"
	"github.com/sirenic/firmatch/textmatch"
)

// DefaultThreshold is the minimum combined fuzzy score for a tier-4 match.
const DefaultThreshold = 0.6

// Matcher resolves sector predictions against the sector reference list.
type Matcher struct {
	list   *catalog.List
	lower  map[string]string
	logger *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
	}
}

// NewMatcher creates a sector matcher over the catalog's sector list.
func NewMatcher(cat *catalog.Catalog, opts ...Option) (*Matcher, error) {
	if cat == nil {
		return nil, ErrCatalogRequired
	}

	lower := make(map[string]string, len(cat.Sectors.Items))
	for _, item := range cat.Sectors.Items {
		key := strings.ToLower(item)
		if _, exists := lower[key]; !exists {
			lower[key] = item
		}
	}

	m := &Matcher{
		list:   cat.Sectors,
		lower:  lower,
		logger: slog.Default().With("component", "sector-matcher"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Match resolves a prediction to the closest sector label, or reports no
// match. A disabled (empty) sector list never matches. Strategies, each
// returning immediately on success:
//
//  1. Exact match, case-insensitive
//  2. Exact match after diacritic/case normalization
//  3. Containment: shortest catalog entry containing the prediction
//  4. Combined fuzzy score over word overlap and edit similarity
func (m *Matcher) Match(prediction string, threshold float64) (string, bool) {
	prediction = strings.TrimSpace(prediction)
	if prediction == "" || m.list.Empty() {
		return "", false
	}

	// Tier 1: case-insensitive exact.
	if label, ok := m.lower[strings.ToLower(prediction)]; ok {
		return label, true
	}

	// Tier 2: normalized exact.
	if label, ok := m.list.Lookup(prediction); ok {
		return label, true
	}

	normalized := textmatch.Normalize(prediction)

	// Tier 3: containment, most specific (shortest) containing entry wins.
	var containment string
	containmentLen := 0
	for _, label := range m.list.Items {
		refNorm := textmatch.Normalize(label)
		if strings.Contains(refNorm, normalized) || strings.Contains(normalized, refNorm) {
			if containment == "" || len(refNorm) < containmentLen {
				containment = label
				containmentLen = len(refNorm)
			}
		}
	}
	if containment != "" {
		return containment, true
	}

	// Tier 4: combined fuzzy score. Word overlap dominates; edit
	// similarity breaks near-ties; containment of the normalized
	// prediction earns a flat bonus.
	var best string
	bestScore := 0.0
	for _, label := range m.list.Items {
		refNorm := textmatch.Normalize(label)
		score := 0.7*textmatch.WordOverlapScore(normalized, refNorm) +
			0.3*textmatch.EditSimilarity(normalized, refNorm)
		if strings.Contains(refNorm, normalized) {
			score += 0.2
		}
		if score > bestScore {
			bestScore = score
			best = label
		}
	}

	if bestScore >= threshold {
		m.logger.Debug("fuzzy sector match", "prediction", prediction, "match", best, "score", bestScore)
		return best, true
	}

	return "", false
}

// MatchOrKeep resolves a prediction or returns it unchanged when no
// catalog entry scores above the threshold.
func (m *Matcher) MatchOrKeep(prediction string, threshold float64) string {
	if matched, ok := m.Match(prediction, threshold); ok {
		return matched
	}
	return prediction
}
