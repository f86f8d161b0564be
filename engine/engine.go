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
	"log/slog"

	"github.com/sirenic/firmatch/activity"
	"github.com/sirenic/firmatch/ai"
	"github.com/sirenic/firmatch/companyapi"
	"github.com/sirenic/firmatch/core"
	"github.com/sirenic/firmatch/location"
	"github.com/sirenic/firmatch/refine"
	"github.com/sirenic/firmatch/sector"
	"github.com/sirenic/firmatch/size"
)

const (
	// defaultActivityTopK bounds how many ranked activities contribute
	// codes to one query.
	defaultActivityTopK = 3

	rejectMessage = "Pouvez-vous preciser votre recherche ? (secteur d'activite, localisation, taille...)"
)

// ActivityCodeFinder resolves a free-text activity query to activity codes.
// *activity.Matcher satisfies it.
type ActivityCodeFinder interface {
	CodesForQuery(ctx context.Context, query string, topK int, threshold float64) ([]string, error)
}

// CompanyCounter obtains the number of companies matching a count request.
// *companyapi.Client satisfies it.
type CompanyCounter interface {
	CountCompanies(ctx context.Context, req *companyapi.CountRequest) (*companyapi.CountResult, error)
}

// NormalizedCriteria is the outcome of running every matcher over an
// extracted bundle.
type NormalizedCriteria struct {
	Bundle      core.CriteriaBundle
	Corrections []core.LocationCorrection
	Codes       []string
	SizeResult  *size.Result
}

// Response is the engine's answer for one search round.
type Response struct {
	Action      refine.Action
	Message     string
	Question    string
	Criterion   refine.Criterion
	Bundle      core.CriteriaBundle
	Corrections []core.LocationCorrection
	Codes       []string
	Count       int
	Summary     string
}

// Engine runs the extract, normalize, count, decide pipeline.
type Engine struct {
	extractor         ai.CriteriaExtractor
	locations         *location.Matcher
	sectors           *sector.Matcher
	activities        ActivityCodeFinder
	counter           CompanyCounter
	controller        *refine.Controller
	sectorThreshold   float64
	activityTopK      int
	activityThreshold float64
	monitor           Monitor
	logger            *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// WithMonitor sets the processing monitor.
// Default is a no-op monitor.
func WithMonitor(monitor Monitor) Option {
	return func(e *Engine) {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		e.monitor = monitor
	}
}

// WithController replaces the refinement controller.
func WithController(controller *refine.Controller) Option {
	return func(e *Engine) {
		if controller != nil {
			e.controller = controller
		}
	}
}

// WithSectorThreshold sets the fuzzy-match threshold for sector labels.
// Default is sector.DefaultThreshold.
func WithSectorThreshold(threshold float64) Option {
	return func(e *Engine) {
		if threshold > 0 {
			e.sectorThreshold = threshold
		}
	}
}

// WithActivitySearch tunes the semantic activity lookup.
// Defaults are top 3 matches at activity.DefaultThreshold.
func WithActivitySearch(topK int, threshold float64) Option {
	return func(e *Engine) {
		if topK > 0 {
			e.activityTopK = topK
		}
		if threshold > 0 {
			e.activityThreshold = threshold
		}
	}
}

// NewEngine creates the orchestration engine. All collaborators are
// required.
func NewEngine(
	extractor ai.CriteriaExtractor,
	locations *location.Matcher,
	sectors *sector.Matcher,
	activities ActivityCodeFinder,
	counter CompanyCounter,
	opts ...Option,
) (*Engine, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if locations == nil {
		return nil, ErrLocationMatcherRequired
	}
	if sectors == nil {
		return nil, ErrSectorMatcherRequired
	}
	if activities == nil {
		return nil, ErrActivityFinderRequired
	}
	if counter == nil {
		return nil, ErrCounterRequired
	}

	e := &Engine{
		extractor:         extractor,
		locations:         locations,
		sectors:           sectors,
		activities:        activities,
		counter:           counter,
		controller:        refine.NewController(),
		sectorThreshold:   sector.DefaultThreshold,
		activityTopK:      defaultActivityTopK,
		activityThreshold: activity.DefaultThreshold,
		monitor:           &noopMonitor{},
		logger:            slog.Default().With("component", "engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NormalizeBundle resolves every criteria section against the reference
// catalogs: locations to canonical places, the sector label to its
// canonical form, the size expression to brackets, and the activity
// description to activity codes. An unavailable embedding collaborator
// degrades to an empty code list; every other failure propagates.
func (e *Engine) NormalizeBundle(ctx context.Context, bundle core.CriteriaBundle) (*NormalizedCriteria, error) {
	bundle.Normalize()

	bundle, corrections := e.locations.Resolve(bundle)
	e.monitor.LocationResolved(corrections)

	if bundle.Activity.Present && bundle.Activity.SectorLabel != "" {
		original := bundle.Activity.SectorLabel
		bundle.Activity.SectorLabel = e.sectors.MatchOrKeep(original, e.sectorThreshold)
		e.monitor.SectorMatched(original, bundle.Activity.SectorLabel)
	}

	if result, ok := size.Apply(&bundle); ok {
		e.monitor.SizeParsed(result)
	}

	var codes []string
	if bundle.Activity.Present {
		query := bundle.Activity.SectorLabel
		if query == "" {
			query = bundle.Activity.Description
		}
		if query != "" {
			var err error
			codes, err = e.activities.CodesForQuery(ctx, query, e.activityTopK, e.activityThreshold)
			switch {
			case errors.Is(err, activity.ErrEmbeddingUnavailable):
				e.logger.Warn("activity matching unavailable, searching without codes", "err", err)
				codes = nil
			case err != nil:
				return nil, err
			}
			e.monitor.ActivityMatched(query, codes)
		}
	}

	bundle.Normalize()

	norm := &NormalizedCriteria{
		Bundle:      bundle,
		Corrections: corrections,
		Codes:       codes,
	}
	return norm, nil
}

// Process runs one full search round over the conversation. round counts
// the refinement iterations, starting at 1. A count API failure surfaces
// as an error; the refinement decision is never taken without a count.
func (e *Engine) Process(ctx context.Context, messages []core.Message, round int) (*Response, error) {
	e.monitor.Start(messages)

	bundle, err := e.extractor.ExtractCriteria(ctx, messages)
	if err != nil {
		e.logger.Warn("criteria extraction failed", "err", err)
		response := &Response{Action: refine.ActionReject, Message: rejectMessage}
		e.monitor.Finish(response)
		return response, nil
	}
	bundle.Normalize()
	e.monitor.AfterExtraction(bundle)

	if isEmptyBundle(bundle) {
		response := &Response{Action: refine.ActionReject, Message: rejectMessage}
		e.monitor.Finish(response)
		return response, nil
	}

	norm, err := e.NormalizeBundle(ctx, bundle)
	if err != nil {
		return nil, err
	}

	req := companyapi.BuildCountRequest(&norm.Bundle, norm.Codes)
	result, err := e.counter.CountCompanies(ctx, req)
	if err != nil {
		return nil, err
	}
	e.monitor.AfterCount(result.Count)
	e.logger.Info("company count", "count", result.Count, "round", round)

	outcome := e.controller.Decide(result.Count, &norm.Bundle, round)

	response := &Response{
		Action:      outcome.Action,
		Message:     outcome.Message,
		Question:    outcome.Question,
		Criterion:   outcome.Criterion,
		Bundle:      norm.Bundle,
		Corrections: norm.Corrections,
		Codes:       norm.Codes,
		Count:       result.Count,
		Summary:     companyapi.Summary(req),
	}
	e.monitor.Finish(response)
	return response, nil
}

// isEmptyBundle reports whether no criteria section is present at all.
func isEmptyBundle(bundle core.CriteriaBundle) bool {
	return !bundle.Location.Present &&
		!bundle.Activity.Present &&
		!bundle.Size.Present &&
		!bundle.Financial.Present &&
		!bundle.Legal.Present
}
