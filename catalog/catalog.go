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


package catalog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirenic/firmatch/core"
	"github.com/sirenic/firmatch/textmatch"
)

// File names expected inside the catalog data directory.
const (
	CommunesFile    = "communes.txt"
	DepartmentsFile = "departements.txt"
	RegionsFile     = "regions.txt"
	SectorsFile     = "secteurs.txt"
	ActivitiesFile  = "activites.txt"
	CodesFile       = "codes.json"
)

// List is one immutable reference list with a normalized-string index.
// Items preserves file order; the index maps normalized forms back to the
// canonical casing.
type List struct {
	Category core.Category
	Items    []string
	index    map[string]string
}

// newList builds a List from canonical items.
func newList(category core.Category, items []string) *List {
	index := make(map[string]string, len(items))
	for _, item := range items {
		normalized := textmatch.Normalize(item)
		if _, exists := index[normalized]; !exists {
			index[normalized] = item
		}
	}
	return &List{Category: category, Items: items, index: index}
}

// Lookup returns the canonical item whose normalized form equals the
// normalized query, if any.
func (l *List) Lookup(query string) (string, bool) {
	item, ok := l.index[textmatch.Normalize(query)]
	return item, ok
}

// Empty reports whether the list holds no items, either because the source
// file was missing or contained no values.
func (l *List) Empty() bool {
	return len(l.Items) == 0
}

// Catalog holds the reference vocabularies, loaded once at startup and
// shared read-only across requests.
type Catalog struct {
	Communes    *List
	Departments *List
	Regions     *List
	Sectors     *List
	Activities  *List

	codes           map[string][]string
	codesNormalized map[string][]string
	logger          *slog.Logger
}

// Option configures a Catalog during Load.
type Option func(*Catalog)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// Load reads every reference list and the activity code mapping from dir.
// A missing file disables the corresponding list rather than failing the
// load: the dependent matcher degrades to "always no match".
func Load(dir string, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		logger: slog.Default().With("component", "catalog"),
	}
	for _, opt := range opts {
		opt(c)
	}

	var err error
	if c.Communes, err = c.loadList(dir, CommunesFile, core.CategoryCommune); err != nil {
		return nil, err
	}
	if c.Departments, err = c.loadList(dir, DepartmentsFile, core.CategoryDepartment); err != nil {
		return nil, err
	}
	if c.Regions, err = c.loadList(dir, RegionsFile, core.CategoryRegion); err != nil {
		return nil, err
	}
	if c.Sectors, err = c.loadList(dir, SectorsFile, core.CategorySector); err != nil {
		return nil, err
	}
	if c.Activities, err = c.loadList(dir, ActivitiesFile, core.CategoryActivity); err != nil {
		return nil, err
	}

	if err := c.loadCodes(filepath.Join(dir, CodesFile)); err != nil {
		return nil, err
	}

	return c, nil
}

// loadList reads one newline-delimited UTF-8 list. Blank lines are
// ignored. A missing file yields an empty list and a warning.
func (c *Catalog) loadList(dir, name string, category core.Category) (*List, error) {
	path := filepath.Join(dir, name)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			c.logger.Warn("reference list missing, matcher disabled",
				"file", name, "category", category.String())
			return newList(category, nil), nil
		}
		return nil, fmt.Errorf("opening reference list %s: %w", name, err)
	}
	defer file.Close()

	var items []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading reference list %s: %w", name, err)
	}

	c.logger.Info("loaded reference list",
		"category", category.String(), "items", len(items))
	return newList(category, items), nil
}

// loadCodes reads the activity label to code-list mapping. Keys beginning
// with "_" are treated as comments and skipped. A missing file leaves the
// mapping empty.
func (c *Catalog) loadCodes(path string) error {
	c.codes = map[string][]string{}
	c.codesNormalized = map[string][]string{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c.logger.Warn("activity code mapping missing", "file", filepath.Base(path))
			return nil
		}
		return fmt.Errorf("opening code mapping: %w", err)
	}

	raw := map[string][]string{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedCodeMapping, err)
	}

	for label, codes := range raw {
		if strings.HasPrefix(label, "_") {
			continue
		}
		c.codes[label] = codes
		normalized := textmatch.Normalize(label)
		if _, exists := c.codesNormalized[normalized]; !exists {
			c.codesNormalized[normalized] = codes
		}
	}

	c.logger.Info("loaded activity code mapping", "entries", len(c.codes))
	return nil
}

// CodesFor returns the activity codes mapped to a label, trying the exact
// label first and its normalized form second. Returns nil when unmapped.
func (c *Catalog) CodesFor(label string) []string {
	if codes, ok := c.codes[label]; ok {
		return codes
	}
	if codes, ok := c.codesNormalized[textmatch.Normalize(label)]; ok {
		return codes
	}
	return nil
}

// LocationLists returns the three location lists in resolution order:
// commune, department, region.
func (c *Catalog) LocationLists() []*List {
	return []*List{c.Communes, c.Departments, c.Regions}
}
