// Copyright 2024 The University of Queensland
// Copyright 2025 Contriboss
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

package sortinghat

import (
	"fmt"
	"log/slog"
)

// Eligibility controls which (student, course) pairs become decision variables.
type Eligibility int

const (
	// EligibilityStrict makes only ranked courses eligible. A student can
	// never be placed in a course they did not list. This is the default.
	EligibilityStrict Eligibility = iota
	// EligibilityPermissive makes every course eligible; unranked
	// placements cost UnrankedPenalty.
	EligibilityPermissive
)

func (e Eligibility) String() string {
	switch e {
	case EligibilityStrict:
		return "strict"
	case EligibilityPermissive:
		return "permissive"
	default:
		return fmt.Sprintf("eligibility(%d)", int(e))
	}
}

// ParseEligibility converts "strict" or "permissive" to an Eligibility.
func ParseEligibility(s string) (Eligibility, error) {
	switch s {
	case "strict", "":
		return EligibilityStrict, nil
	case "permissive":
		return EligibilityPermissive, nil
	default:
		return 0, &OptionsError{Option: "eligibility", Detail: fmt.Sprintf("unknown mode %q", s)}
	}
}

// FallbackOrder states which fallback the objective prefers when a student
// cannot get a ranked course and both fallbacks are enabled.
type FallbackOrder int

const (
	// FallbackUnrankedCourse prefers a seat in an unranked course over
	// leaving the student unassigned.
	FallbackUnrankedCourse FallbackOrder = iota
	// FallbackUnassigned prefers leaving the student unassigned over a seat
	// in a course they did not rank.
	FallbackUnassigned
)

func (f FallbackOrder) String() string {
	switch f {
	case FallbackUnrankedCourse:
		return "unranked-course"
	case FallbackUnassigned:
		return "unassigned"
	default:
		return fmt.Sprintf("fallback(%d)", int(f))
	}
}

// ParseFallbackOrder converts "unranked-course" or "unassigned".
func ParseFallbackOrder(s string) (FallbackOrder, error) {
	switch s {
	case "unranked-course", "":
		return FallbackUnrankedCourse, nil
	case "unassigned":
		return FallbackUnassigned, nil
	default:
		return 0, &OptionsError{Option: "fallback", Detail: fmt.Sprintf("unknown order %q", s)}
	}
}

// RankCost maps a 1-based preference rank to a cost.
// It must be non-negative and strictly increasing over the ranks in use.
type RankCost func(rank int) int

// LinearRankCost charges rank-1, so a first choice is free.
func LinearRankCost(rank int) int {
	return rank - 1
}

// QuadraticRankCost charges (rank-1)^2, penalising deep choices harder.
func QuadraticRankCost(rank int) int {
	return (rank - 1) * (rank - 1)
}

// Default penalties. Both exceed the ranked cost of any preference list
// shorter than 1001 entries under LinearRankCost. Leaving a student
// unassigned is the last resort by default.
const (
	DefaultUnrankedPenalty   = 1000
	DefaultUnassignedPenalty = 2000
)

// ModelOptions configures how Build encodes a Problem.
type ModelOptions struct {
	// Eligibility selects strict or permissive variable generation.
	// Default: EligibilityStrict
	Eligibility Eligibility

	// AllowUnassigned adds an explicit unassigned indicator per student.
	// Default: false
	AllowUnassigned bool

	// UnrankedPenalty is the cost of placing a student in a course they
	// did not rank (permissive mode only).
	// Default: DefaultUnrankedPenalty
	UnrankedPenalty int

	// UnassignedPenalty is the cost of leaving a student unassigned
	// (AllowUnassigned only).
	// Default: DefaultUnassignedPenalty
	UnassignedPenalty int

	// RankCost maps ranks to costs.
	// Default: LinearRankCost
	RankCost RankCost

	// Logger receives debug messages while building.
	// When nil, no logging is performed.
	Logger *slog.Logger
}

// ModelOption is a functional option for configuring Build.
type ModelOption func(*ModelOptions)

func defaultModelOptions() ModelOptions {
	return ModelOptions{
		Eligibility:       EligibilityStrict,
		UnrankedPenalty:   DefaultUnrankedPenalty,
		UnassignedPenalty: DefaultUnassignedPenalty,
		RankCost:          LinearRankCost,
	}
}

// Fallback reports the fallback order implied by the two penalties.
func (o ModelOptions) Fallback() FallbackOrder {
	if o.UnassignedPenalty < o.UnrankedPenalty {
		return FallbackUnassigned
	}
	return FallbackUnrankedCourse
}

// WithEligibility selects strict or permissive eligibility.
//
// Example:
//
//	f, err := Build(problem, WithEligibility(EligibilityPermissive))
func WithEligibility(e Eligibility) ModelOption {
	return func(opts *ModelOptions) {
		opts.Eligibility = e
	}
}

// WithUnassigned enables or disables explicit unassigned placements.
// When enabled, a student that cannot be seated is reported as unassigned
// instead of making the whole problem infeasible.
func WithUnassigned(enabled bool) ModelOption {
	return func(opts *ModelOptions) {
		opts.AllowUnassigned = enabled
	}
}

// WithUnrankedPenalty sets the cost of an unranked placement.
func WithUnrankedPenalty(penalty int) ModelOption {
	return func(opts *ModelOptions) {
		opts.UnrankedPenalty = penalty
	}
}

// WithUnassignedPenalty sets the cost of leaving a student unassigned.
func WithUnassignedPenalty(penalty int) ModelOption {
	return func(opts *ModelOptions) {
		opts.UnassignedPenalty = penalty
	}
}

// WithFallbackOrder resets both penalties to the defaults, ordered so the
// preferred fallback is the cheaper one.
//
// Example:
//
//	// Rather leave a student out than force an unranked course on them
//	f, err := Build(problem,
//	    WithEligibility(EligibilityPermissive),
//	    WithUnassigned(true),
//	    WithFallbackOrder(FallbackUnassigned),
//	)
func WithFallbackOrder(order FallbackOrder) ModelOption {
	return func(opts *ModelOptions) {
		if order == FallbackUnassigned {
			opts.UnrankedPenalty = DefaultUnassignedPenalty
			opts.UnassignedPenalty = DefaultUnrankedPenalty
			return
		}
		opts.UnrankedPenalty = DefaultUnrankedPenalty
		opts.UnassignedPenalty = DefaultUnassignedPenalty
	}
}

// WithRankCost replaces the rank cost function. A nil function restores
// LinearRankCost.
func WithRankCost(cost RankCost) ModelOption {
	return func(opts *ModelOptions) {
		if cost == nil {
			cost = LinearRankCost
		}
		opts.RankCost = cost
	}
}

// WithModelLogger sets a structured logger for Build diagnostics.
func WithModelLogger(logger *slog.Logger) ModelOption {
	return func(opts *ModelOptions) {
		opts.Logger = logger
	}
}

// validate checks the options against the longest preference list and
// returns the maximum ranked cost.
func (o ModelOptions) validate(maxRank int) (int, error) {
	maxRanked := 0
	prev := -1
	for rank := 1; rank <= maxRank; rank++ {
		cost := o.RankCost(rank)
		if cost < 0 {
			return 0, &OptionsError{Option: "rank cost", Detail: fmt.Sprintf("rank %d costs %d, costs must be non-negative", rank, cost)}
		}
		if cost <= prev {
			return 0, &OptionsError{Option: "rank cost", Detail: fmt.Sprintf("rank %d costs %d, not more than rank %d", rank, cost, rank-1)}
		}
		prev = cost
		maxRanked = cost
	}

	if o.Eligibility == EligibilityPermissive && o.UnrankedPenalty <= maxRanked {
		return 0, &OptionsError{Option: "unranked penalty", Detail: fmt.Sprintf("%d does not exceed the maximum ranked cost %d", o.UnrankedPenalty, maxRanked)}
	}
	if o.AllowUnassigned && o.UnassignedPenalty <= maxRanked {
		return 0, &OptionsError{Option: "unassigned penalty", Detail: fmt.Sprintf("%d does not exceed the maximum ranked cost %d", o.UnassignedPenalty, maxRanked)}
	}
	if o.Eligibility == EligibilityPermissive && o.AllowUnassigned && o.UnrankedPenalty == o.UnassignedPenalty {
		return 0, &OptionsError{Option: "fallback order", Detail: fmt.Sprintf("unranked and unassigned penalties are both %d", o.UnrankedPenalty)}
	}
	return maxRanked, nil
}
