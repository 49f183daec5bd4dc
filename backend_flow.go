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
	"context"
	"fmt"
)

// FlowBackend solves formulations as a minimum-cost flow with successive
// shortest paths. It is exact and runs in polynomial time, but it cannot
// express minimum enrollments.
//
// The zero value is ready to use and is the default backend.
type FlowBackend struct{}

// Name implements Backend.
func (FlowBackend) Name() string { return "flow" }

// Supports implements Backend.
func (b FlowBackend) Supports(f *Formulation) error {
	if f.HasMinEnrollment() {
		return &UnsupportedFormulationError{Backend: b.Name(), Feature: "minimum enrollment"}
	}
	return nil
}

// Solve implements Backend. Each augmenting path is one step.
func (b FlowBackend) Solve(ctx context.Context, f *Formulation, limits Limits) (SolveResult, error) {
	if err := b.Supports(f); err != nil {
		return SolveResult{}, err
	}

	net := newAssignmentNetwork(f, true, nil)
	demand := f.problem.NumStudents()
	placed, cost, steps, err := net.minCostFlow(ctx, net.source, net.sink, demand, limits.MaxSteps)

	res := SolveResult{Steps: steps}
	switch {
	case err != nil:
		res.Status = interruptedStatus(err)
		res.Detail = fmt.Sprintf("%v after placing %d of %d students", err, placed, demand)
	case placed < demand:
		res.Status = StatusInfeasible
		res.Detail = fmt.Sprintf("only %d of %d students can be placed", placed, demand)
	default:
		res.Status = StatusOptimal
		res.Objective = cost
		res.Values = net.values(f.NumVariables())
	}
	return res, nil
}

var _ Backend = FlowBackend{}
