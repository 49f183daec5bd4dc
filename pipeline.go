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
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pipeline runs build, solve and decode for one problem at a time, or for
// several independent problems concurrently.
//
// Example:
//
//	pipeline := &Pipeline{
//	    Model:  []ModelOption{WithUnassigned(true)},
//	    Solver: NewSolver(WithTimeLimit(10 * time.Second)),
//	}
//	run, err := pipeline.Run(ctx, problem)
type Pipeline struct {
	// Model options passed to Build
	Model []ModelOption
	// Solver to use. Default: NewSolver()
	Solver *Solver
	// Parallelism bounds RunAll. Default: GOMAXPROCS
	Parallelism int
}

// RunResult carries every stage of one pipeline run.
type RunResult struct {
	Formulation *Formulation
	Result      SolveResult
	Outcome     Outcome
	// Err is set by RunAll for instances that failed to build
	Err error
}

func (p *Pipeline) solver() *Solver {
	if p.Solver == nil {
		return NewSolver()
	}
	return p.Solver
}

// Run builds, solves and decodes problem. Build errors and decode
// inconsistencies are returned as errors; solve statuses are part of the
// result.
func (p *Pipeline) Run(ctx context.Context, problem *Problem) (*RunResult, error) {
	f, err := BuildContext(ctx, problem, p.Model...)
	if err != nil {
		return nil, err
	}

	res, err := p.solver().Solve(ctx, f)
	if err != nil {
		return nil, err
	}

	outcome, err := DecodeContext(ctx, res, f)
	if err != nil {
		return nil, err
	}
	return &RunResult{Formulation: f, Result: res, Outcome: outcome}, nil
}

// RunAll runs every problem concurrently and returns the results in input
// order.
//
// A problem that fails to build is recorded in its RunResult.Err and does
// not affect the others. An inconsistent solution stops every run and is
// returned as the error.
func (p *Pipeline) RunAll(ctx context.Context, problems []*Problem) ([]*RunResult, error) {
	results := make([]*RunResult, len(problems))

	limit := p.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, problem := range problems {
		g.Go(func() error {
			run, err := p.Run(gCtx, problem)
			if errors.Is(err, ErrInconsistentSolution) {
				return fmt.Errorf("problem %d: %w", i, err)
			}
			if err != nil {
				run = &RunResult{Err: err}
			}
			results[i] = run
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
