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


// Package location resolves free-text location values against the commune,
// department, and region reference lists, reassigning values that were
// extracted into the wrong category slot.
package location

import (
	"log/slog"
	"strings"

	"github.com/sirenic/firmatch/catalog"
	"github.com/sirenic/firmatch/core"
	"github.com/sirenic/firmatch/textmatch"
)

// DefaultThreshold is the minimum similarity score for a fuzzy location match.
const DefaultThreshold = 0.7

// Match is one resolved candidate from a cross-list search.
type Match struct {
	Value    string
	Category core.Category
	Score    float64
}

// Matcher resolves location values against the reference catalogs.
type Matcher struct {
	cat    *catalog.Catalog
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

// NewMatcher creates a location matcher over the catalog's location lists.
func NewMatcher(cat *catalog.Catalog, opts ...Option) (*Matcher, error) {
	if cat == nil {
		return nil, ErrCatalogRequired
	}

	m := &Matcher{
		cat:    cat,
		logger: slog.Default().With("component", "location-matcher"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// FindBestMatchAcrossAll searches every location list for the best match to
// a query. An exact normalized hit scores 1.0; other entries score by edit
// similarity and must reach the threshold. Ties go to the preferred
// category first, then to commune/department/region list order.
func (m *Matcher) FindBestMatchAcrossAll(query string, preferred core.Category, threshold float64) (Match, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Match{}, false
	}

	queryNorm := textmatch.Normalize(query)

	var candidates []Match
	for _, list := range m.cat.LocationLists() {
		for _, item := range list.Items {
			itemNorm := textmatch.Normalize(item)
			if itemNorm == queryNorm {
				candidates = append(candidates, Match{Value: item, Category: list.Category, Score: 1.0})
				continue
			}
			score := textmatch.EditSimilarity(queryNorm, itemNorm)
			if score >= threshold {
				candidates = append(candidates, Match{Value: item, Category: list.Category, Score: score})
			}
		}
	}

	if len(candidates) == 0 {
		return Match{}, false
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	if best.Category != preferred {
		// Preferred category breaks exact ties; first candidate in
		// list order wins otherwise.
		for _, c := range candidates {
			if c.Score == best.Score && c.Category == preferred {
				best = c
				break
			}
		}
	}

	return best, true
}

// slotValue reads one category slot from location criteria.
func slotValue(loc core.LocationCriteria, category core.Category) string {
	switch category {
	case core.CategoryCommune:
		return loc.Commune
	case core.CategoryDepartment:
		return loc.Department
	case core.CategoryRegion:
		return loc.Region
	}
	return ""
}

// Resolve matches every location value in the bundle against the reference
// lists and reassigns each to the category it actually belongs to. Values
// holding several comma-separated locations are resolved independently and
// the results rejoined. The returned corrections record every token's
// outcome, including failures.
func (m *Matcher) Resolve(bundle core.CriteriaBundle) (core.CriteriaBundle, []core.LocationCorrection) {
	if !bundle.Location.Present {
		return bundle, nil
	}

	loc := bundle.Location
	var corrections []core.LocationCorrection

	categories := []core.Category{core.CategoryCommune, core.CategoryDepartment, core.CategoryRegion}

	matched := map[core.Category][]string{}
	seen := map[core.Category]map[string]bool{}
	for _, category := range categories {
		seen[category] = map[string]bool{}
	}

	// A bare 2-3 digit administrative code names a department outright;
	// no fuzzy matching applies.
	if code := strings.TrimSpace(loc.PostalCode); code != "" && len(code) <= 3 {
		if name, ok := DepartmentForCode(code); ok && loc.Department == "" {
			loc.PostalCode = ""
			seen[core.CategoryDepartment][name] = true
			matched[core.CategoryDepartment] = append(matched[core.CategoryDepartment], name)
			corrections = append(corrections, core.LocationCorrection{
				OriginalValue:    code,
				MatchedValue:     name,
				OriginalCategory: core.CategoryDepartment,
				MatchedCategory:  core.CategoryDepartment,
				Score:            1.0,
			})
		}
	}

	for _, category := range categories {
		value := slotValue(loc, category)
		if strings.TrimSpace(value) == "" {
			continue
		}

		for _, token := range strings.Split(value, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}

			best, ok := m.FindBestMatchAcrossAll(token, category, DefaultThreshold)
			if !ok {
				m.logger.Warn("location value unmatched",
					"value", token, "category", category.String())
				corrections = append(corrections, core.LocationCorrection{
					OriginalValue:    token,
					MatchedValue:     "",
					OriginalCategory: category,
					MatchedCategory:  category,
					Score:            0.0,
				})
				continue
			}

			if !seen[best.Category][best.Value] {
				seen[best.Category][best.Value] = true
				matched[best.Category] = append(matched[best.Category], best.Value)
			}
			corrections = append(corrections, core.LocationCorrection{
				OriginalValue:    token,
				MatchedValue:     best.Value,
				OriginalCategory: category,
				MatchedCategory:  best.Category,
				Score:            best.Score,
			})
			if best.Category != category {
				m.logger.Info("location value reassigned",
					"value", token,
					"from", category.String(),
					"to", best.Category.String(),
					"match", best.Value,
					"score", best.Score)
			}
		}
	}

	loc.Commune = strings.Join(matched[core.CategoryCommune], ", ")
	loc.Department = strings.Join(matched[core.CategoryDepartment], ", ")
	loc.Region = strings.Join(matched[core.CategoryRegion], ", ")

	bundle.Location = loc
	return bundle, corrections
}
