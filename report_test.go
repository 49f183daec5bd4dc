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
	"strings"
	"testing"
)

func TestDefaultReporter(t *testing.T) {
	report := Diagnose(mustBuild(t, crowdedProblem(t)))
	msg := (&DefaultReporter{}).Report(report)

	for _, want := range []string{
		"no assignment places all 4 students: at most 3 can be placed",
		"Because:\n  a can only be placed in Math (1 seat)\n  b can only be placed in Math (1 seat)",
		"and:\n  together they can only use 1 seat in Math",
		"2 students compete for 1 seat, so 1 cannot be placed.",
		"over-demanded first choices:\n  Math: 3 first choices for 1 seat",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in report:\n%s", want, msg)
		}
	}
}

func TestCollapsedReporter(t *testing.T) {
	report := Diagnose(mustBuild(t, crowdedProblem(t)))
	msg := (&CollapsedReporter{}).Report(report)

	want := "a can only be placed in Math (1 seat)\n" +
		"And because b can only be placed in Math (1 seat)\n" +
		"And because 1 seat in Math cannot hold 2 students, 1 of 4 students cannot be placed"
	if msg != want {
		t.Fatalf("unexpected report:\n%s", msg)
	}
}

func TestReportersWithoutBottleneck(t *testing.T) {
	report := Diagnose(mustBuild(t, mathArtProblem(t)))

	if msg := (&DefaultReporter{}).Report(report); !strings.HasPrefix(msg, "all 3 students can be placed in 3 seats") {
		t.Fatalf("unexpected default report: %s", msg)
	}
	if msg := (&CollapsedReporter{}).Report(report); msg != "all 3 students can be placed" {
		t.Fatalf("unexpected collapsed report: %s", msg)
	}
}

func TestReportersNilReport(t *testing.T) {
	for _, r := range []Reporter{&DefaultReporter{}, &CollapsedReporter{}} {
		if msg := r.Report(nil); msg != "no diagnostics available" {
			t.Fatalf("unexpected message for nil report: %s", msg)
		}
	}
}

func TestReportersForcedClosed(t *testing.T) {
	p := mustProblem(t,
		[]Student{NewStudent("a", "Seminar")},
		[]Course{{Name: MakeName("Seminar"), Capacity: 4, MinEnrollment: 2}},
	)
	report := Diagnose(mustBuild(t, p))

	want := "Seminar cannot reach its minimum of 2 students (1 eligible) and stays empty"
	for _, r := range []Reporter{&DefaultReporter{}, &CollapsedReporter{}} {
		if msg := r.Report(report); !strings.Contains(msg, want) {
			t.Fatalf("expected %q in report:\n%s", want, msg)
		}
	}
	if msg := (&DefaultReporter{}).Report(report); !strings.Contains(msg, "a has no course to be placed in") {
		t.Fatalf("expected unreachable student in report:\n%s", msg)
	}
}

func TestReportersConflictingMinimums(t *testing.T) {
	report := Diagnose(mustBuild(t, conflictingMinimumsProblem(t)))
	report.Infeasible = true

	msg := (&DefaultReporter{}).Report(report)
	for _, want := range []string{
		"no assignment places all 3 students and meets every minimum enrollment",
		"Because:\n  X must run for b and needs at least 2 of b, c\n  Y must run for a and needs at least 2 of a, c",
		"and:\n  X, Y must run and need at least 4 students together, but only 3 are eligible for them",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in report:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "can be placed") {
		t.Fatalf("infeasible report claims a placement:\n%s", msg)
	}

	want := "X must run for b and needs at least 2 of b, c\n" +
		"And because Y must run for a and needs at least 2 of a, c\n" +
		"And because X, Y must run and need at least 4 students together, but only 3 are eligible for them"
	if msg := (&CollapsedReporter{}).Report(report); msg != want {
		t.Fatalf("unexpected collapsed report:\n%s", msg)
	}
}

func TestReportersInfeasibleWithoutExplanation(t *testing.T) {
	report := Diagnose(mustBuild(t, mathArtProblem(t)))
	report.Infeasible = true

	for _, r := range []Reporter{&DefaultReporter{}, &CollapsedReporter{}} {
		msg := r.Report(report)
		if strings.Contains(msg, "can be placed") || !strings.Contains(msg, "no assignment satisfies every constraint") {
			t.Fatalf("unexpected report for an infeasible result:\n%s", msg)
		}
	}
}
