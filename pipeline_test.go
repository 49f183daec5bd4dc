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
	"errors"
	"testing"
)

func TestPipelineRun(t *testing.T) {
	pipeline := &Pipeline{}
	run, err := pipeline.Run(context.Background(), mathArtProblem(t))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if run.Result.Backend != "flow" || run.Outcome.Status != StatusOptimal {
		t.Fatalf("unexpected run: %v", run.Result)
	}
	if run.Outcome.Assignment.Len() != 3 {
		t.Fatalf("expected 3 placements, got %d", run.Outcome.Assignment.Len())
	}
}

func TestPipelineRunBuildError(t *testing.T) {
	p := mustProblem(t, []Student{NewStudent("A")}, []Course{NewCourse("Math", 1)})
	_, err := (&Pipeline{}).Run(context.Background(), p)
	if !errors.Is(err, ErrDegenerateModel) {
		t.Fatalf("expected ErrDegenerateModel, got %v", err)
	}
}

func TestPipelineRunAll(t *testing.T) {
	degenerate := mustProblem(t, []Student{NewStudent("A")}, []Course{NewCourse("Math", 1)})
	problems := []*Problem{mathArtProblem(t), crowdedProblem(t), degenerate, mathArtProblem(t)}

	pipeline := &Pipeline{
		Solver:      NewSolver(WithBackend(PseudoBooleanBackend{})),
		Parallelism: 2,
	}
	runs, err := pipeline.RunAll(context.Background(), problems)
	if err != nil {
		t.Fatalf("RunAll returned error: %v", err)
	}
	if len(runs) != len(problems) {
		t.Fatalf("expected %d runs, got %d", len(problems), len(runs))
	}

	if runs[0].Outcome.Status != StatusOptimal || runs[0].Outcome.Objective != 1 {
		t.Fatalf("run 0: unexpected outcome %+v", runs[0].Outcome)
	}
	if runs[1].Outcome.Status != StatusInfeasible || runs[1].Outcome.Diagnostics == nil {
		t.Fatalf("run 1: expected infeasible with diagnostics, got %+v", runs[1].Outcome)
	}
	if !errors.Is(runs[2].Err, ErrDegenerateModel) {
		t.Fatalf("run 2: expected ErrDegenerateModel, got %v", runs[2].Err)
	}
	if runs[3].Formulation.Problem() != problems[3] {
		t.Fatalf("run 3: results out of order")
	}
}

// lyingBackend claims a solution that ignores every constraint.
type lyingBackend struct{}

func (lyingBackend) Name() string                { return "lying" }
func (lyingBackend) Supports(*Formulation) error { return nil }
func (lyingBackend) Solve(_ context.Context, f *Formulation, _ Limits) (SolveResult, error) {
	return SolveResult{Status: StatusOptimal, Values: make([]bool, f.NumVariables())}, nil
}

func TestPipelineRunAllStopsOnInconsistentSolution(t *testing.T) {
	pipeline := &Pipeline{Solver: NewSolver(WithBackend(lyingBackend{}))}
	_, err := pipeline.RunAll(context.Background(), []*Problem{mathArtProblem(t), mathArtProblem(t)})
	if !errors.Is(err, ErrInconsistentSolution) {
		t.Fatalf("expected ErrInconsistentSolution, got %v", err)
	}
}
