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


package refine

import (
	"fmt"
	"log/slog"

	"github.com/sirenic/firmatch/core"
)

const (
	// DefaultThreshold is the result count above which refinement kicks in.
	DefaultThreshold = 500

	// DefaultMaxRounds is the number of narrowing questions asked before
	// results are delivered regardless of volume.
	DefaultMaxRounds = 3
)

// Criterion names a criteria-bundle section the controller can ask about.
type Criterion string

const (
	CriterionLocation  Criterion = "location"
	CriterionSize      Criterion = "size"
	CriterionFinancial Criterion = "financial"
	CriterionLegal     Criterion = "legal"
	// CriterionGeneric is used when every section is present and specific
	// but the count is still above threshold.
	CriterionGeneric Criterion = "generic"
)

// Action is the controller's verdict for one search round.
type Action int

const (
	// ActionDeliver means the result set is small or refinement is
	// exhausted; present the results.
	ActionDeliver Action = iota + 1
	// ActionRefine means ask the narrowing question and run another round.
	ActionRefine
	// ActionReject means the request could not produce criteria at all.
	// The controller itself never emits it once a bundle exists; it is
	// part of the outcome vocabulary for the orchestration layer.
	ActionReject
)

// String returns the wire name of the action.
func (a Action) String() string {
	switch a {
	case ActionDeliver:
		return "deliver"
	case ActionRefine:
		return "refine"
	case ActionReject:
		return "reject"
	default:
		return "unknown"
	}
}

// Outcome is one refinement decision.
type Outcome struct {
	Action    Action
	Message   string
	Question  string
	Criterion Criterion
}

// Controller applies the deliver/refine policy.
type Controller struct {
	threshold int
	maxRounds int
	logger    *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithThreshold sets the result count above which refinement kicks in.
// Default is 500.
func WithThreshold(threshold int) Option {
	return func(c *Controller) {
		if threshold > 0 {
			c.threshold = threshold
		}
	}
}

// WithMaxRounds sets how many narrowing questions are asked before results
// are delivered regardless of volume.
// Default is 3.
func WithMaxRounds(rounds int) Option {
	return func(c *Controller) {
		if rounds > 0 {
			c.maxRounds = rounds
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewController creates a refinement controller.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		threshold: DefaultThreshold,
		maxRounds: DefaultMaxRounds,
		logger:    slog.Default().With("component", "refine"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Threshold returns the configured delivery threshold.
func (c *Controller) Threshold() int {
	return c.threshold
}

// ShouldDeliver reports whether results should be presented now instead of
// asking another narrowing question. True when the count is at or under the
// threshold, when the round budget is exhausted, or when no section is
// missing and none of the present sections can be made more specific.
func (c *Controller) ShouldDeliver(count int, bundle *core.CriteriaBundle, round int) bool {
	if count <= c.threshold {
		return true
	}
	if round >= c.maxRounds {
		return true
	}
	return len(missingCriteria(bundle)) == 0 && len(refinableCriteria(bundle)) == 0
}

// NextQuestion picks the narrowing question for the current round: the
// first missing section in priority order, else the first refinable one,
// else a generic request to narrow the search.
func (c *Controller) NextQuestion(count int, bundle *core.CriteriaBundle, round int) (string, Criterion) {
	if missing := missingCriteria(bundle); len(missing) > 0 {
		criterion := missing[0]
		return fmt.Sprintf(countQuestions[criterion], count), criterion
	}
	if refinable := refinableCriteria(bundle); len(refinable) > 0 {
		criterion := refinable[0]
		return followUpQuestions[criterion], criterion
	}
	return fmt.Sprintf(genericQuestion, count), CriterionGeneric
}

// Decide combines ShouldDeliver and NextQuestion into one outcome.
func (c *Controller) Decide(count int, bundle *core.CriteriaBundle, round int) Outcome {
	if c.ShouldDeliver(count, bundle, round) {
		forced := count > c.threshold
		c.logger.Debug("delivering results", "count", count, "round", round, "forced", forced)
		return Outcome{
			Action:  ActionDeliver,
			Message: c.DeliveryMessage(count, forced),
		}
	}

	question, criterion := c.NextQuestion(count, bundle, round)
	c.logger.Debug("refining", "count", count, "round", round, "criterion", string(criterion))
	return Outcome{
		Action:    ActionRefine,
		Question:  question,
		Criterion: criterion,
	}
}

// missingCriteria returns the absent sections in question priority order.
func missingCriteria(bundle *core.CriteriaBundle) []Criterion {
	var missing []Criterion
	if !bundle.Location.Present {
		missing = append(missing, CriterionLocation)
	}
	if !bundle.Size.Present {
		missing = append(missing, CriterionSize)
	}
	if !bundle.Financial.Present {
		missing = append(missing, CriterionFinancial)
	}
	if !bundle.Legal.Present {
		missing = append(missing, CriterionLegal)
	}
	return missing
}

// refinableCriteria returns the sections that are present but could be
// made more specific: a location pinned only to a region, or a size that
// resolved to a coarse acronym-derived bracket range.
func refinableCriteria(bundle *core.CriteriaBundle) []Criterion {
	var refinable []Criterion

	loc := bundle.Location
	if loc.Present && loc.Region != "" && loc.Commune == "" && loc.Department == "" {
		refinable = append(refinable, CriterionLocation)
	}

	if bundle.Size.Present && len(bundle.Size.Brackets) > 3 {
		refinable = append(refinable, CriterionSize)
	}

	return refinable
}
