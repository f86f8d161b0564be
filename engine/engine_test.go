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


package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirenic/firmatch/activity"
	"github.com/sirenic/firmatch/ai/mock"
	"github.com/sirenic/firmatch/catalog"
	"github.com/sirenic/firmatch/companyapi"
	"github.com/sirenic/firmatch/core"
	"github.com/sirenic/firmatch/location"
	"github.com/sirenic/firmatch/refine"
	"github.com/sirenic/firmatch/sector"
	"github.com/sirenic/firmatch/size"
)

// codeFinderFunc adapts a function to ActivityCodeFinder.
type codeFinderFunc func(ctx context.Context, query string, topK int, threshold float64) ([]string, error)

func (f codeFinderFunc) CodesForQuery(ctx context.Context, query string, topK int, threshold float64) ([]string, error) {
	return f(ctx, query, topK, threshold)
}

// counterFunc adapts a function to CompanyCounter.
type counterFunc func(ctx context.Context, req *companyapi.CountRequest) (*companyapi.CountResult, error)

func (f counterFunc) CountCompanies(ctx context.Context, req *companyapi.CountRequest) (*companyapi.CountResult, error) {
	return f(ctx, req)
}

func fixedCount(count int) counterFunc {
	return func(ctx context.Context, req *companyapi.CountRequest) (*companyapi.CountResult, error) {
		return &companyapi.CountResult{Count: count}, nil
	}
}

func fixedCodes(codes ...string) codeFinderFunc {
	return func(ctx context.Context, query string, topK int, threshold float64) ([]string, error) {
		return codes, nil
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, extractor *mock.MockCriteriaExtractor, finder ActivityCodeFinder, counter CompanyCounter, opts ...Option) *Engine {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		catalog.CommunesFile:    "Paris\nLyon\nMarseille\n",
		catalog.DepartmentsFile: "Paris\nRhône\nBouches-du-Rhône\n",
		catalog.RegionsFile:     "Bretagne\nÎle-de-France\nAuvergne-Rhône-Alpes\n",
		catalog.SectorsFile:     "Restauration\nTransport\nCommerce de détail\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	cat, err := catalog.Load(dir, catalog.WithLogger(discardLogger()))
	require.NoError(t, err)

	locations, err := location.NewMatcher(cat, location.WithLogger(discardLogger()))
	require.NoError(t, err)
	sectors, err := sector.NewMatcher(cat, sector.WithLogger(discardLogger()))
	require.NoError(t, err)

	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	e, err := NewEngine(extractor, locations, sectors, finder, counter, opts...)
	require.NoError(t, err)
	return e
}

func TestNewEngineValidation(t *testing.T) {
	extractor := mock.NewMockCriteriaExtractor()
	e := newTestEngine(t, extractor, fixedCodes(), fixedCount(0))

	_, err := NewEngine(nil, e.locations, e.sectors, e.activities, e.counter)
	assert.ErrorIs(t, err, ErrExtractorRequired)

	_, err = NewEngine(extractor, nil, e.sectors, e.activities, e.counter)
	assert.ErrorIs(t, err, ErrLocationMatcherRequired)

	_, err = NewEngine(extractor, e.locations, nil, e.activities, e.counter)
	assert.ErrorIs(t, err, ErrSectorMatcherRequired)

	_, err = NewEngine(extractor, e.locations, e.sectors, nil, e.counter)
	assert.ErrorIs(t, err, ErrActivityFinderRequired)

	_, err = NewEngine(extractor, e.locations, e.sectors, e.activities, nil)
	assert.ErrorIs(t, err, ErrCounterRequired)
}

func TestNormalizeBundle(t *testing.T) {
	ctx := context.Background()

	t.Run("runs every matcher", func(t *testing.T) {
		var activityQuery string
		finder := codeFinderFunc(func(ctx context.Context, query string, topK int, threshold float64) ([]string, error) {
			activityQuery = query
			return []string{"5610A"}, nil
		})
		e := newTestEngine(t, mock.NewMockCriteriaExtractor(), finder, fixedCount(0))

		bundle := core.CriteriaBundle{
			Location: core.LocationCriteria{Present: true, Commune: "lyon", Region: "bretagne"},
			Activity: core.ActivityCriteria{Present: true, SectorLabel: "restauration"},
			Size:     core.SizeCriteria{Present: true, Expression: "PME"},
		}

		norm, err := e.NormalizeBundle(ctx, bundle)
		require.NoError(t, err)

		assert.Equal(t, "Lyon", norm.Bundle.Location.Commune)
		assert.Equal(t, "Bretagne", norm.Bundle.Location.Region)
		assert.Len(t, norm.Corrections, 2)

		assert.Equal(t, "Restauration", norm.Bundle.Activity.SectorLabel)
		assert.Equal(t, "Restauration", activityQuery, "codes are looked up with the canonical sector label")
		assert.Equal(t, []string{"5610A"}, norm.Codes)

		assert.Equal(t, "PME", norm.Bundle.Size.Acronym)
		assert.Len(t, norm.Bundle.Size.Brackets, 5)
		assert.Empty(t, norm.Bundle.Size.Expression)
	})

	t.Run("description used when no sector label", func(t *testing.T) {
		var activityQuery string
		finder := codeFinderFunc(func(ctx context.Context, query string, topK int, threshold float64) ([]string, error) {
			activityQuery = query
			return nil, nil
		})
		e := newTestEngine(t, mock.NewMockCriteriaExtractor(), finder, fixedCount(0))

		bundle := core.CriteriaBundle{
			Activity: core.ActivityCriteria{Present: true, Description: "fabrication de meubles"},
		}
		_, err := e.NormalizeBundle(ctx, bundle)
		require.NoError(t, err)
		assert.Equal(t, "fabrication de meubles", activityQuery)
	})

	t.Run("embedding unavailability degrades to no codes", func(t *testing.T) {
		finder := codeFinderFunc(func(ctx context.Context, query string, topK int, threshold float64) ([]string, error) {
			return nil, fmt.Errorf("%w: no credentials", activity.ErrEmbeddingUnavailable)
		})
		e := newTestEngine(t, mock.NewMockCriteriaExtractor(), finder, fixedCount(0))

		bundle := core.CriteriaBundle{
			Activity: core.ActivityCriteria{Present: true, Description: "boulangerie"},
		}
		norm, err := e.NormalizeBundle(ctx, bundle)
		require.NoError(t, err)
		assert.Empty(t, norm.Codes)
	})

	t.Run("other activity errors propagate", func(t *testing.T) {
		storageErr := errors.New("storage closed")
		finder := codeFinderFunc(func(ctx context.Context, query string, topK int, threshold float64) ([]string, error) {
			return nil, storageErr
		})
		e := newTestEngine(t, mock.NewMockCriteriaExtractor(), finder, fixedCount(0))

		bundle := core.CriteriaBundle{
			Activity: core.ActivityCriteria{Present: true, Description: "boulangerie"},
		}
		_, err := e.NormalizeBundle(ctx, bundle)
		assert.ErrorIs(t, err, storageErr)
	})

	t.Run("presence invariant enforced", func(t *testing.T) {
		e := newTestEngine(t, mock.NewMockCriteriaExtractor(), fixedCodes(), fixedCount(0))

		bundle := core.CriteriaBundle{
			Legal: core.LegalCriteria{Present: false, Headquarters: "oui"},
		}
		norm, err := e.NormalizeBundle(ctx, bundle)
		require.NoError(t, err)
		assert.Empty(t, norm.Bundle.Legal.Headquarters)
	})
}

func TestProcess(t *testing.T) {
	ctx := context.Background()
	messages := []core.Message{{Role: core.RoleUser, Content: "restaurants à Lyon"}}

	extractorReturning := func(bundle core.CriteriaBundle) *mock.MockCriteriaExtractor {
		extractor := mock.NewMockCriteriaExtractor()
		extractor.ExtractCriteriaFunc = func(ctx context.Context, messages []core.Message) (core.CriteriaBundle, error) {
			return bundle, nil
		}
		return extractor
	}

	richBundle := core.CriteriaBundle{
		Location: core.LocationCriteria{Present: true, Commune: "lyon"},
		Activity: core.ActivityCriteria{Present: true, SectorLabel: "Restauration"},
	}

	t.Run("delivers under threshold", func(t *testing.T) {
		e := newTestEngine(t, extractorReturning(richBundle), fixedCodes("5610A"), fixedCount(120))

		response, err := e.Process(ctx, messages, 1)
		require.NoError(t, err)
		assert.Equal(t, refine.ActionDeliver, response.Action)
		assert.Equal(t, 120, response.Count)
		assert.Contains(t, response.Message, "120 entreprises")
		assert.Equal(t, []string{"5610A"}, response.Codes)
		assert.Equal(t, "Lyon", response.Bundle.Location.Commune)
		assert.Contains(t, response.Summary, "Lyon")
	})

	t.Run("refines above threshold", func(t *testing.T) {
		e := newTestEngine(t, extractorReturning(richBundle), fixedCodes("5610A"), fixedCount(4200))

		response, err := e.Process(ctx, messages, 1)
		require.NoError(t, err)
		assert.Equal(t, refine.ActionRefine, response.Action)
		assert.Equal(t, refine.CriterionSize, response.Criterion, "location present, size is the first missing section")
		assert.Contains(t, response.Question, "4200")
		assert.Equal(t, 4200, response.Count)
	})

	t.Run("round exhaustion delivers", func(t *testing.T) {
		e := newTestEngine(t, extractorReturning(richBundle), fixedCodes("5610A"), fixedCount(4200))

		response, err := e.Process(ctx, messages, 3)
		require.NoError(t, err)
		assert.Equal(t, refine.ActionDeliver, response.Action)
		assert.Contains(t, response.Message, "volume important")
	})

	t.Run("empty extraction rejects", func(t *testing.T) {
		e := newTestEngine(t, mock.NewMockCriteriaExtractor(), fixedCodes(), fixedCount(0))

		response, err := e.Process(ctx, messages, 1)
		require.NoError(t, err)
		assert.Equal(t, refine.ActionReject, response.Action)
		assert.Contains(t, response.Message, "preciser votre recherche")
	})

	t.Run("extraction failure rejects", func(t *testing.T) {
		extractor := mock.NewMockCriteriaExtractor()
		extractor.ExtractCriteriaFunc = func(ctx context.Context, messages []core.Message) (core.CriteriaBundle, error) {
			return core.CriteriaBundle{}, errors.New("model unavailable")
		}
		e := newTestEngine(t, extractor, fixedCodes(), fixedCount(0))

		response, err := e.Process(ctx, messages, 1)
		require.NoError(t, err)
		assert.Equal(t, refine.ActionReject, response.Action)
	})

	t.Run("count API failure surfaces", func(t *testing.T) {
		apiErr := &companyapi.APIError{Kind: companyapi.KindUnauthorized, StatusCode: 401, Message: "bad key"}
		counter := counterFunc(func(ctx context.Context, req *companyapi.CountRequest) (*companyapi.CountResult, error) {
			return nil, apiErr
		})
		e := newTestEngine(t, extractorReturning(richBundle), fixedCodes(), counter)

		_, err := e.Process(ctx, messages, 1)
		var classified *companyapi.APIError
		require.ErrorAs(t, err, &classified)
		assert.Equal(t, companyapi.KindUnauthorized, classified.Kind)
	})

	t.Run("count request carries normalized criteria", func(t *testing.T) {
		var captured *companyapi.CountRequest
		counter := counterFunc(func(ctx context.Context, req *companyapi.CountRequest) (*companyapi.CountResult, error) {
			captured = req
			return &companyapi.CountResult{Count: 10}, nil
		})
		e := newTestEngine(t, extractorReturning(richBundle), fixedCodes("5610A", "5610B"), counter)

		_, err := e.Process(ctx, messages, 1)
		require.NoError(t, err)
		require.NotNil(t, captured)
		assert.Equal(t, []string{"Lyon"}, captured.Location.City)
		assert.Equal(t, []string{"5610A", "5610B"}, captured.Activity.Codes)
	})
}

// recordingMonitor captures hook invocations for ordering assertions.
type recordingMonitor struct {
	events []string
}

func (r *recordingMonitor) Start(_ []core.Message)                { r.events = append(r.events, "start") }
func (r *recordingMonitor) AfterExtraction(_ core.CriteriaBundle) { r.events = append(r.events, "extract") }
func (r *recordingMonitor) LocationResolved(_ []core.LocationCorrection) {
	r.events = append(r.events, "location")
}
func (r *recordingMonitor) SectorMatched(_, _ string) { r.events = append(r.events, "sector") }
func (r *recordingMonitor) SizeParsed(_ *size.Result) { r.events = append(r.events, "size") }
func (r *recordingMonitor) ActivityMatched(_ string, _ []string) {
	r.events = append(r.events, "activity")
}
func (r *recordingMonitor) AfterCount(_ int)     { r.events = append(r.events, "count") }
func (r *recordingMonitor) Finish(_ *Response)   { r.events = append(r.events, "finish") }

func TestProcessMonitorHooks(t *testing.T) {
	extractor := mock.NewMockCriteriaExtractor()
	extractor.ExtractCriteriaFunc = func(ctx context.Context, messages []core.Message) (core.CriteriaBundle, error) {
		return core.CriteriaBundle{
			Location: core.LocationCriteria{Present: true, Commune: "Lyon"},
			Activity: core.ActivityCriteria{Present: true, SectorLabel: "Restauration"},
			Size:     core.SizeCriteria{Present: true, Expression: "PME"},
		}, nil
	}

	monitor := &recordingMonitor{}
	e := newTestEngine(t, extractor, fixedCodes("5610A"), fixedCount(7), WithMonitor(monitor))

	_, err := e.Process(context.Background(), []core.Message{{Role: core.RoleUser, Content: "x"}}, 1)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"start", "extract", "location", "sector", "size", "activity", "count", "finish"},
		monitor.events)
}
