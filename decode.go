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
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Outcome is the decoded result of a solve call.
//
// Assignment is set for StatusOptimal and StatusFeasible, Diagnostics for
// StatusInfeasible. Neither is set for StatusTimeout and StatusUnknown.
type Outcome struct {
	Status      Status
	Assignment  *Assignment
	Diagnostics *DiagnosticReport
	// Objective is the verified total cost when Assignment is set
	Objective int
}

// Decode turns a SolveResult back into domain terms.
//
// A result carrying values is re-verified against the problem without
// trusting the formulation's bookkeeping: exactly one decision per student,
// capacities, minimum enrollments, eligibility and the reported objective.
// Any mismatch fails with *InconsistentSolutionError listing every
// violation found.
func Decode(res SolveResult, f *Formulation) (Outcome, error) {
	return DecodeContext(context.Background(), res, f)
}

// DecodeContext is Decode with a parent context for tracing.
func DecodeContext(ctx context.Context, res SolveResult, f *Formulation) (Outcome, error) {
	if f == nil {
		return Outcome{}, ErrNilFormulation
	}

	ctx, span := tracer.Start(ctx, "sortinghat.Decode",
		trace.WithAttributes(
			attribute.String("sortinghat.backend", res.Backend),
			attribute.String("sortinghat.status", res.Status.String()),
		),
	)
	defer span.End()

	switch res.Status {
	case StatusOptimal, StatusFeasible:
	case StatusInfeasible:
		recordDecodeMetrics(ctx, "diagnosed")
		report := Diagnose(f)
		report.Infeasible = true
		return Outcome{Status: res.Status, Diagnostics: report}, nil
	default:
		recordDecodeMetrics(ctx, "no_solution")
		return Outcome{Status: res.Status}, nil
	}

	assignment, violations := verify(res, f)
	if len(violations) > 0 {
		err := &InconsistentSolutionError{Backend: res.Backend, Violations: violations}
		span.RecordError(err)
		span.SetStatus(codes.Error, "inconsistent solution")
		recordDecodeMetrics(ctx, "inconsistent")
		return Outcome{}, err
	}

	recordDecodeMetrics(ctx, "assigned")
	total := assignment.TotalCost()
	span.SetAttributes(attribute.Int("sortinghat.objective", total))
	return Outcome{Status: res.Status, Assignment: assignment, Objective: total}, nil
}

func verify(res SolveResult, f *Formulation) (*Assignment, []Violation) {
	if len(res.Values) != f.NumVariables() {
		return nil, []Violation{{
			Kind: ViolationLength,
			Want: strconv.Itoa(f.NumVariables()),
			Got:  strconv.Itoa(len(res.Values)),
		}}
	}

	var violations []Violation
	opts := f.options
	p := f.problem
	placements := make([]Placement, 0, p.NumStudents())
	enrolled := make(map[Name]int, p.NumCourses())

	for s := range p.Students() {
		var chosen []Variable
		for _, i := range f.StudentVariables(s.Name) {
			if res.Values[i] {
				chosen = append(chosen, f.vars[i])
			}
		}
		if len(chosen) != 1 {
			violations = append(violations, Violation{
				Kind:    ViolationCoverage,
				Subject: s.Name,
				Want:    "1 decision",
				Got:     strconv.Itoa(len(chosen)),
			})
			continue
		}

		v := chosen[0]
		if v.Kind == VarUnassigned {
			if !opts.AllowUnassigned {
				violations = append(violations, Violation{Kind: ViolationIneligible, Subject: s.Name, Want: "a course", Got: "unassigned"})
				continue
			}
			placements = append(placements, Placement{Student: s.Name, Course: EmptyName(), Cost: opts.UnassignedPenalty, Unassigned: true})
			continue
		}

		course, ok := p.Course(v.Course)
		if !ok || course.Capacity == 0 {
			violations = append(violations, Violation{Kind: ViolationIneligible, Subject: s.Name, Want: "an open course", Got: v.Course.Value()})
			continue
		}
		rank, ranked := s.Rank(v.Course)
		cost := opts.UnrankedPenalty
		if ranked {
			cost = opts.RankCost(rank)
		} else if opts.Eligibility == EligibilityStrict {
			violations = append(violations, Violation{Kind: ViolationIneligible, Subject: s.Name, Want: "a ranked course", Got: v.Course.Value()})
			continue
		}
		enrolled[v.Course]++
		placements = append(placements, Placement{Student: s.Name, Course: v.Course, Rank: rank, Cost: cost})
	}

	for c := range p.Courses() {
		n := enrolled[c.Name]
		if n > c.Capacity {
			violations = append(violations, Violation{
				Kind:    ViolationCapacity,
				Subject: c.Name,
				Want:    "at most " + strconv.Itoa(c.Capacity),
				Got:     strconv.Itoa(n),
			})
		}
		if n > 0 && n < c.MinEnrollment {
			violations = append(violations, Violation{
				Kind:    ViolationMinEnrollment,
				Subject: c.Name,
				Want:    "0 or at least " + strconv.Itoa(c.MinEnrollment),
				Got:     strconv.Itoa(n),
			})
		}
	}

	if len(violations) > 0 {
		return nil, violations
	}

	assignment := newAssignment(placements)
	if total := assignment.TotalCost(); total != res.Objective {
		return nil, []Violation{{
			Kind: ViolationObjective,
			Want: strconv.Itoa(total),
			Got:  strconv.Itoa(res.Objective),
		}}
	}
	return assignment, nil
}
