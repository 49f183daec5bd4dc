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
	"slices"

	"github.com/crillab/gophersat/solver"
)

// PseudoBooleanBackend solves formulations as 0-1 optimisation problems
// with gophersat. It supports every feature of the model, including
// minimum enrollments, at the price of exponential worst-case time.
//
// gophersat improves the model one satisfiability call at a time and a
// single call cannot be interrupted. When the budget runs out, Solve
// returns the best model received so far as StatusFeasible and leaves the
// search to finish in the background, discarding its remaining models.
type PseudoBooleanBackend struct{}

// Name implements Backend.
func (PseudoBooleanBackend) Name() string { return "pb" }

// Supports implements Backend.
func (PseudoBooleanBackend) Supports(*Formulation) error { return nil }

// Solve implements Backend. Each improving model is one step.
func (b PseudoBooleanBackend) Solve(ctx context.Context, f *Formulation, limits Limits) (SolveResult, error) {
	s := solver.New(encodePseudoBoolean(f))

	// Unbuffered, so the search waits for each model to be taken.
	results := make(chan solver.Result)
	done := make(chan solver.Result, 1)
	go func() {
		done <- s.Optimal(results, nil)
	}()

	var (
		res  SolveResult
		best *solver.Result
	)
	for {
		select {
		case r, ok := <-results:
			if !ok {
				return b.finish(f, <-done, res), nil
			}
			if r.Status != solver.Sat {
				continue
			}
			res.Steps++
			best = &r
			if limits.MaxSteps > 0 && res.Steps >= limits.MaxSteps {
				return b.abandon(f, results, best, res, errStepLimit), nil
			}

		case <-ctx.Done():
			return b.abandon(f, results, best, res, ctx.Err()), nil
		}
	}
}

// finish reports a search that ran to completion.
func (b PseudoBooleanBackend) finish(f *Formulation, final solver.Result, res SolveResult) SolveResult {
	switch final.Status {
	case solver.Unsat:
		res.Status = StatusInfeasible
		res.Detail = "constraints are unsatisfiable"
	case solver.Sat:
		res.Steps = max(res.Steps, 1)
		res.Status = StatusOptimal
		res.Values = modelValues(f, final.Model)
		res.Objective = final.Weight
	default:
		res.Status = StatusUnknown
		res.Detail = "search ended without a model"
	}
	return res
}

// abandon reports the best model taken before cause stopped the call.
func (b PseudoBooleanBackend) abandon(f *Formulation, results <-chan solver.Result, best *solver.Result, res SolveResult, cause error) SolveResult {
	go func() {
		for range results {
		}
	}()

	if best == nil {
		res.Status = interruptedStatus(cause)
		res.Detail = fmt.Sprintf("%v before the first model", cause)
		return res
	}

	res.Values = modelValues(f, best.Model)
	res.Objective = best.Weight
	if best.Weight == 0 {
		// Costs are non-negative, so nothing beats zero.
		res.Status = StatusOptimal
		return res
	}
	res.Status = StatusFeasible
	res.Detail = fmt.Sprintf("%v after %d models, optimality not proven", cause, res.Steps)
	return res
}

// modelValues keeps the formulation's variables of a gophersat model and
// drops the course indicators that follow them.
func modelValues(f *Formulation, model []bool) []bool {
	values := make([]bool, f.NumVariables())
	copy(values, model)
	return values
}

// encodePseudoBoolean translates f into gophersat constraints. Variable i of
// the formulation is literal i+1; courses with a minimum enrollment get an
// extra "open" literal after the formulation's variables.
func encodePseudoBoolean(f *Formulation) *solver.Problem {
	var constrs []solver.PBConstr

	for s := range f.problem.Students() {
		lits := literals(f.StudentVariables(s.Name))
		constrs = append(constrs, solver.Eq(lits, ones(len(lits)), 1)...)
	}

	open := f.NumVariables()
	for c := range f.problem.Courses() {
		indices := f.CourseVariables(c.Name)
		if len(indices) == 0 {
			continue
		}
		lits := literals(indices)

		if c.MinEnrollment == 0 {
			if len(lits) > c.Capacity {
				constrs = append(constrs, solver.AtMost(lits, c.Capacity))
			}
			continue
		}

		// sum(x) <= capacity*open and sum(x) >= min*open, written with the
		// negated indicator so both stay plain linear constraints.
		open++
		lits = append(lits, -open)
		constrs = append(constrs,
			solver.LtEq(slices.Clone(lits), weights(len(indices), c.Capacity), c.Capacity),
			solver.GtEq(slices.Clone(lits), weights(len(indices), c.MinEnrollment), c.MinEnrollment),
		)
	}

	pb := solver.ParsePBConstrs(constrs)

	var (
		costLits    []solver.Lit
		costWeights []int
	)
	for _, v := range f.vars {
		if v.Cost > 0 {
			costLits = append(costLits, solver.IntToLit(int32(v.Index+1)))
			costWeights = append(costWeights, v.Cost)
		}
	}
	if len(costLits) > 0 {
		pb.SetCostFunc(costLits, costWeights)
	}
	return pb
}

func literals(indices []int) []int {
	lits := make([]int, len(indices))
	for i, idx := range indices {
		lits[i] = idx + 1
	}
	return lits
}

func ones(n int) []int {
	w := make([]int, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

// weights returns n ones followed by last.
func weights(n, last int) []int {
	return append(ones(n), last)
}

var _ Backend = PseudoBooleanBackend{}
