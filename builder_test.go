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
	"errors"
	"testing"
)

func TestBuildStrictVariables(t *testing.T) {
	f := mustBuild(t, mathArtProblem(t))

	if f.NumVariables() != 5 {
		t.Fatalf("expected 5 variables, got %d", f.NumVariables())
	}

	want := []struct {
		student, course string
		rank, cost      int
	}{
		{"A", "Math", 1, 0},
		{"A", "Art", 2, 1},
		{"B", "Art", 1, 0},
		{"C", "Math", 1, 0},
		{"C", "Art", 2, 1},
	}
	for i, w := range want {
		v := f.Variable(i)
		if v.Index != i || v.Student.Value() != w.student || v.Course.Value() != w.course ||
			v.Rank != w.rank || v.Cost != w.cost || v.Kind != VarAssign {
			t.Fatalf("variable %d: expected %+v, got %v", i, w, v)
		}
	}

	if got := f.CourseVariables(MakeName("Art")); len(got) != 3 {
		t.Fatalf("expected 3 Art variables, got %v", got)
	}
	if got := f.StudentVariables(MakeName("B")); len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected B to own variable 2, got %v", got)
	}
	if f.MaxRankedCost() != 1 {
		t.Fatalf("expected max ranked cost 1, got %d", f.MaxRankedCost())
	}
	if f.HasMinEnrollment() {
		t.Fatalf("expected no minimum enrollment")
	}
}

func TestBuildPermissiveAndUnassigned(t *testing.T) {
	f := mustBuild(t, mathArtProblem(t),
		WithEligibility(EligibilityPermissive),
		WithUnassigned(true),
	)

	// A: Math, Art, unassigned; B: Art, Math (unranked), unassigned; C: like A
	if f.NumVariables() != 9 {
		t.Fatalf("expected 9 variables, got %d", f.NumVariables())
	}

	b := f.StudentVariables(MakeName("B"))
	if len(b) != 3 {
		t.Fatalf("expected 3 variables for B, got %v", b)
	}
	unranked := f.Variable(b[1])
	if unranked.Course != MakeName("Math") || unranked.Rank != 0 || unranked.Cost != DefaultUnrankedPenalty {
		t.Fatalf("unexpected unranked variable: %v", unranked)
	}
	unassigned := f.Variable(b[2])
	if unassigned.Kind != VarUnassigned || unassigned.Course != EmptyName() || unassigned.Cost != DefaultUnassignedPenalty {
		t.Fatalf("unexpected unassigned variable: %v", unassigned)
	}
	if len(f.CourseVariables(EmptyName())) != 0 {
		t.Fatalf("unassigned indicators must not count as course variables")
	}
}

func TestBuildSkipsZeroCapacityCourses(t *testing.T) {
	p := mustProblem(t,
		[]Student{NewStudent("A", "Closed", "Open")},
		[]Course{NewCourse("Closed", 0), NewCourse("Open", 1)},
	)
	f := mustBuild(t, p, WithEligibility(EligibilityPermissive))

	if f.NumVariables() != 1 {
		t.Fatalf("expected 1 variable, got %d", f.NumVariables())
	}
	if v := f.Variable(0); v.Course != MakeName("Open") || v.Rank != 2 || v.Cost != 1 {
		t.Fatalf("unexpected variable: %v", v)
	}
}

func TestBuildDegenerate(t *testing.T) {
	tests := []struct {
		name     string
		students []Student
		courses  []Course
		opts     []ModelOption
		reason   DegenerateReason
	}{
		{
			name:     "no ranked course",
			students: []Student{NewStudent("A")},
			courses:  []Course{NewCourse("Math", 1)},
			reason:   ReasonNoRankedCourse,
		},
		{
			name:     "ranked courses are full",
			students: []Student{NewStudent("A", "Math")},
			courses:  []Course{NewCourse("Math", 0)},
			reason:   ReasonNoSeats,
		},
		{
			name:     "permissive without seats",
			students: []Student{NewStudent("A")},
			courses:  []Course{NewCourse("Math", 0)},
			opts:     []ModelOption{WithEligibility(EligibilityPermissive)},
			reason:   ReasonNoSeats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustProblem(t, tt.students, tt.courses)
			_, err := Build(p, tt.opts...)
			if !errors.Is(err, ErrDegenerateModel) {
				t.Fatalf("expected ErrDegenerateModel, got %v", err)
			}
			var dErr *DegenerateModelError
			if !errors.As(err, &dErr) {
				t.Fatalf("expected *DegenerateModelError, got %T", err)
			}
			if dErr.Student != MakeName("A") || dErr.Reason != tt.reason {
				t.Fatalf("unexpected error: %v", dErr)
			}

			// The same student is fine once unassigned placements are allowed.
			f, err := Build(p, append(tt.opts, WithUnassigned(true))...)
			if err != nil {
				t.Fatalf("expected build to succeed with unassigned, got %v", err)
			}
			if f.NumVariables() != 1 || f.Variable(0).Kind != VarUnassigned {
				t.Fatalf("expected a single unassigned indicator, got %v", f.Variables())
			}
		})
	}
}

func TestBuildOptionsErrors(t *testing.T) {
	p := mustProblem(t,
		[]Student{NewStudent("A", "Math", "Art", "Music")},
		[]Course{NewCourse("Math", 1), NewCourse("Art", 1), NewCourse("Music", 1)},
	)

	tests := []struct {
		name   string
		opts   []ModelOption
		option string
	}{
		{
			name:   "unranked penalty too small",
			opts:   []ModelOption{WithEligibility(EligibilityPermissive), WithUnrankedPenalty(2)},
			option: "unranked penalty",
		},
		{
			name:   "unassigned penalty too small",
			opts:   []ModelOption{WithUnassigned(true), WithUnassignedPenalty(1)},
			option: "unassigned penalty",
		},
		{
			name: "penalties tie",
			opts: []ModelOption{
				WithEligibility(EligibilityPermissive),
				WithUnassigned(true),
				WithUnrankedPenalty(50),
				WithUnassignedPenalty(50),
			},
			option: "fallback order",
		},
		{
			name:   "rank cost not increasing",
			opts:   []ModelOption{WithRankCost(func(int) int { return 0 })},
			option: "rank cost",
		},
		{
			name:   "negative rank cost",
			opts:   []ModelOption{WithRankCost(func(rank int) int { return rank - 2 })},
			option: "rank cost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(p, tt.opts...)
			var oErr *OptionsError
			if !errors.As(err, &oErr) {
				t.Fatalf("expected *OptionsError, got %v", err)
			}
			if oErr.Option != tt.option {
				t.Fatalf("expected option %q, got %q", tt.option, oErr.Option)
			}
		})
	}
}

func TestBuildUnusedPenaltiesAreNotChecked(t *testing.T) {
	// Penalties only matter for the features that use them.
	_, err := Build(mathArtProblem(t), WithUnrankedPenalty(0), WithUnassignedPenalty(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWithFallbackOrder(t *testing.T) {
	f := mustBuild(t, mathArtProblem(t),
		WithEligibility(EligibilityPermissive),
		WithUnassigned(true),
		WithFallbackOrder(FallbackUnassigned),
	)
	opts := f.Options()
	if opts.UnassignedPenalty >= opts.UnrankedPenalty {
		t.Fatalf("expected unassigned to be cheaper, got %d >= %d", opts.UnassignedPenalty, opts.UnrankedPenalty)
	}
	if opts.Fallback() != FallbackUnassigned {
		t.Fatalf("expected FallbackUnassigned, got %v", opts.Fallback())
	}

	f = mustBuild(t, mathArtProblem(t), WithFallbackOrder(FallbackUnrankedCourse))
	if f.Options().Fallback() != FallbackUnrankedCourse {
		t.Fatalf("expected FallbackUnrankedCourse, got %v", f.Options().Fallback())
	}
}

func TestQuadraticRankCost(t *testing.T) {
	p := mustProblem(t,
		[]Student{NewStudent("A", "Math", "Art", "Music")},
		[]Course{NewCourse("Math", 1), NewCourse("Art", 1), NewCourse("Music", 1)},
	)
	f := mustBuild(t, p, WithRankCost(QuadraticRankCost))

	for i, want := range []int{0, 1, 4} {
		if got := f.Variable(i).Cost; got != want {
			t.Fatalf("rank %d: expected cost %d, got %d", i+1, want, got)
		}
	}
	if f.MaxRankedCost() != 4 {
		t.Fatalf("expected max ranked cost 4, got %d", f.MaxRankedCost())
	}
}

func TestParseModelEnums(t *testing.T) {
	if e, err := ParseEligibility("permissive"); err != nil || e != EligibilityPermissive {
		t.Fatalf("ParseEligibility(permissive) = %v, %v", e, err)
	}
	if _, err := ParseEligibility("lenient"); err == nil {
		t.Fatalf("expected error for unknown eligibility")
	}
	if o, err := ParseFallbackOrder("unassigned"); err != nil || o != FallbackUnassigned {
		t.Fatalf("ParseFallbackOrder(unassigned) = %v, %v", o, err)
	}
	if _, err := ParseFallbackOrder("random"); err == nil {
		t.Fatalf("expected error for unknown fallback order")
	}
}

func TestBuildNilProblem(t *testing.T) {
	if _, err := Build(nil); !errors.Is(err, ErrNilProblem) {
		t.Fatalf("expected ErrNilProblem, got %v", err)
	}
}
