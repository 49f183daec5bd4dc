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
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Limits is the iteration budget handed to a backend. The wall-clock budget
// travels as the context deadline.
type Limits struct {
	// MaxSteps is 0 for unbounded
	MaxSteps int
}

// Backend is an optimisation engine for formulations.
//
// Solve must return a result for every outcome it can classify and reserve
// the error return for formulations it cannot represent. Running out of
// budget is reported as StatusTimeout, never as StatusInfeasible.
type Backend interface {
	// Name identifies the backend in results and telemetry.
	Name() string

	// Supports returns *UnsupportedFormulationError when the backend cannot
	// represent a feature of f.
	Supports(f *Formulation) error

	// Solve optimises f within ctx and limits.
	Solve(ctx context.Context, f *Formulation, limits Limits) (SolveResult, error)
}

// errStepLimit is returned internally by backends that ran out of steps.
var errStepLimit = errors.New("step limit reached")

// interruptedStatus maps the reason a backend stopped early to a status.
func interruptedStatus(err error) Status {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, errStepLimit) {
		return StatusTimeout
	}
	return StatusUnknown
}

// Solver runs a backend under an explicit budget.
//
// A Solver holds only immutable options and is safe for concurrent use.
// Every call is independent: nothing is cached or learned between calls and
// no call is retried.
//
// Basic usage:
//
//	f, err := Build(problem)
//	if err != nil {
//	    return err
//	}
//	result, err := NewSolver().Solve(ctx, f)
//
// With options:
//
//	solver := NewSolver(
//	    WithBackend(PseudoBooleanBackend{}),
//	    WithTimeLimit(10*time.Second),
//	)
type Solver struct {
	options SolverOptions
}

// NewSolver creates a solver with default options overridden by opts.
func NewSolver(opts ...SolverOption) *Solver {
	options := defaultSolverOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	return &Solver{options: options}
}

// With returns a copy of s with additional options applied.
func (s *Solver) With(opts ...SolverOption) *Solver {
	options := s.options
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	return &Solver{options: options}
}

// Options returns the options in effect.
func (s *Solver) Options() SolverOptions {
	return s.options
}

// Backend returns the configured backend.
func (s *Solver) Backend() Backend {
	return s.options.Backend
}

func (s *Solver) debug(msg string, args ...any) {
	if logger := s.options.Logger; logger != nil {
		logger.Debug(msg, args...)
	}
}

// Solve optimises f within the configured budget.
//
// The returned error is non-nil only for a nil formulation or one the
// backend cannot represent. Infeasible, timed-out and unknown outcomes are
// statuses of the result.
func (s *Solver) Solve(ctx context.Context, f *Formulation) (SolveResult, error) {
	if f == nil {
		return SolveResult{}, ErrNilFormulation
	}
	backend := s.options.Backend

	ctx, span := tracer.Start(ctx, "Solver.Solve",
		trace.WithAttributes(
			attribute.String("sortinghat.backend", backend.Name()),
			attribute.Int("sortinghat.variables", f.NumVariables()),
		),
	)
	defer span.End()

	if err := backend.Supports(f); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unsupported formulation")
		return SolveResult{}, err
	}

	start := time.Now()
	var (
		res SolveResult
		err error
	)
	if f.problem.NumStudents() == 0 {
		res = SolveResult{Status: StatusOptimal, Values: []bool{}, Detail: "empty problem"}
	} else {
		if s.options.TimeLimit > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.options.TimeLimit)
			defer cancel()
		}

		s.debug("solving", "backend", backend.Name(), "variables", f.NumVariables(),
			"time_limit", s.options.TimeLimit, "max_steps", s.options.MaxSteps)

		res, err = backend.Solve(ctx, f, Limits{MaxSteps: s.options.MaxSteps})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "backend error")
			return SolveResult{}, fmt.Errorf("%s backend: %w", backend.Name(), err)
		}
		if !res.Status.HasSolution() && res.Status != StatusInfeasible && ctx.Err() != nil {
			res.Status = interruptedStatus(ctx.Err())
		}
	}
	res.Backend = backend.Name()
	res.Elapsed = time.Since(start)

	recordSolveMetrics(ctx, res.Backend, res.Status, res.Elapsed)
	span.SetAttributes(
		attribute.String("sortinghat.status", res.Status.String()),
		attribute.Int("sortinghat.steps", res.Steps),
	)
	if res.Status.HasSolution() {
		span.SetAttributes(attribute.Int("sortinghat.objective", res.Objective))
	}
	s.debug("solve finished", "status", res.Status, "objective", res.Objective,
		"steps", res.Steps, "elapsed", res.Elapsed, "detail", res.Detail)
	return res, nil
}

// Backends lists the built-in backends, default first.
func Backends() []Backend {
	return []Backend{FlowBackend{}, PseudoBooleanBackend{}, LinearProgramBackend{}}
}

// ParseBackend returns the built-in backend with the given name.
func ParseBackend(name string) (Backend, error) {
	if name == "" {
		return FlowBackend{}, nil
	}
	for _, b := range Backends() {
		if b.Name() == name {
			return b, nil
		}
	}
	return nil, &OptionsError{Option: "backend", Detail: fmt.Sprintf("unknown backend %q", name)}
}
