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

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Build encodes p as a Formulation.
//
// Configuration errors fail with *OptionsError. A student with no eligible
// course fails with *DegenerateModelError unless unassigned placements are
// enabled. Both are reported before any solver budget is spent.
//
// Example:
//
//	f, err := Build(problem,
//	    WithEligibility(EligibilityPermissive),
//	    WithUnassigned(true),
//	)
func Build(p *Problem, opts ...ModelOption) (*Formulation, error) {
	return BuildContext(context.Background(), p, opts...)
}

// BuildContext is Build with a parent context for tracing.
func BuildContext(ctx context.Context, p *Problem, opts ...ModelOption) (*Formulation, error) {
	if p == nil {
		return nil, ErrNilProblem
	}

	_, span := tracer.Start(ctx, "sortinghat.Build",
		trace.WithAttributes(
			attribute.Int("sortinghat.students", p.NumStudents()),
			attribute.Int("sortinghat.courses", p.NumCourses()),
		),
	)
	defer span.End()

	options := defaultModelOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if options.RankCost == nil {
		options.RankCost = LinearRankCost
	}

	maxRanked, err := options.validate(p.maxPreferenceLength())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid options")
		return nil, err
	}

	f := &Formulation{
		problem:   p,
		options:   options,
		byStudent: make(map[Name][]int, p.NumStudents()),
		byCourse:  make(map[Name][]int, p.NumCourses()),
		maxRanked: maxRanked,
	}

	for s := range p.Students() {
		if err := f.addStudent(s); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "degenerate model")
			return nil, err
		}
	}

	span.SetAttributes(
		attribute.Int("sortinghat.variables", len(f.vars)),
		attribute.String("sortinghat.eligibility", options.Eligibility.String()),
	)
	f.debug("model built",
		"students", p.NumStudents(),
		"courses", p.NumCourses(),
		"variables", len(f.vars),
		"eligibility", options.Eligibility,
		"allow_unassigned", options.AllowUnassigned,
		"max_ranked_cost", maxRanked,
	)
	return f, nil
}

func (f *Formulation) addStudent(s Student) error {
	eligible := 0
	ranked := make(map[Name]bool, len(s.Preferences))

	for i, pref := range s.Preferences {
		ranked[pref] = true
		c, _ := f.problem.Course(pref)
		if c.Capacity == 0 {
			continue
		}
		f.addVariable(Variable{
			Student: s.Name,
			Course:  pref,
			Rank:    i + 1,
			Cost:    f.options.RankCost(i + 1),
			Kind:    VarAssign,
		})
		eligible++
	}

	if f.options.Eligibility == EligibilityPermissive {
		for c := range f.problem.Courses() {
			if ranked[c.Name] || c.Capacity == 0 {
				continue
			}
			f.addVariable(Variable{
				Student: s.Name,
				Course:  c.Name,
				Cost:    f.options.UnrankedPenalty,
				Kind:    VarAssign,
			})
			eligible++
		}
	}

	if f.options.AllowUnassigned {
		f.addVariable(Variable{
			Student: s.Name,
			Course:  EmptyName(),
			Cost:    f.options.UnassignedPenalty,
			Kind:    VarUnassigned,
		})
		return nil
	}

	if eligible == 0 {
		reason := ReasonNoSeats
		if f.options.Eligibility == EligibilityStrict && len(s.Preferences) == 0 {
			reason = ReasonNoRankedCourse
		}
		f.debug("student has no eligible course", "student", s.Name.Value(), "reason", reason)
		return &DegenerateModelError{Student: s.Name, Reason: reason}
	}
	return nil
}

func (f *Formulation) addVariable(v Variable) {
	v.Index = len(f.vars)
	f.vars = append(f.vars, v)
	f.byStudent[v.Student] = append(f.byStudent[v.Student], v.Index)
	if v.Kind == VarAssign {
		f.byCourse[v.Course] = append(f.byCourse[v.Course], v.Index)
	}
}

func (f *Formulation) debug(msg string, args ...any) {
	if logger := f.options.Logger; logger != nil {
		logger.Debug(msg, args...)
	}
}
