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
	"time"
)

// Status is the outcome class of a solve call.
type Status int

const (
	// StatusUnknown means the backend stopped without a conclusion for a
	// reason other than the budget, e.g. the caller cancelled the context.
	StatusUnknown Status = iota
	// StatusOptimal means Values is a proven minimum-cost solution.
	StatusOptimal
	// StatusFeasible means Values satisfies every constraint but optimality
	// was not proven within the budget.
	StatusFeasible
	// StatusInfeasible means no assignment satisfies the constraints.
	StatusInfeasible
	// StatusTimeout means the time or step budget ran out before any
	// conclusion. It never implies infeasibility.
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// HasSolution reports whether a result with this status carries values.
func (s Status) HasSolution() bool {
	return s == StatusOptimal || s == StatusFeasible
}

// SolveResult is the raw outcome of a backend.
// Objective and Values are meaningful only when Status.HasSolution().
type SolveResult struct {
	Status Status
	// Objective as reported by the backend
	Objective int
	// Values[i] is the value of Formulation.Variable(i)
	Values []bool

	Backend string
	Elapsed time.Duration
	// Steps counts backend iterations (augmentations, pivots or models)
	Steps int
	// Detail is a free-form note from the backend, e.g. why it stopped
	Detail string
}

// String returns a human-readable representation of the result.
func (r SolveResult) String() string {
	if r.Status.HasSolution() {
		return fmt.Sprintf("%s: %s, objective %d after %s", r.Backend, r.Status, r.Objective, r.Elapsed)
	}
	if r.Detail != "" {
		return fmt.Sprintf("%s: %s after %s (%s)", r.Backend, r.Status, r.Elapsed, r.Detail)
	}
	return fmt.Sprintf("%s: %s after %s", r.Backend, r.Status, r.Elapsed)
}
