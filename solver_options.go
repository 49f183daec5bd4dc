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
	"log/slog"
	"time"
)

// SolverOptions configures the behavior of the Solver.
//
// Options control:
//   - Which backend performs the optimisation
//   - The wall-clock and iteration budget of a single call
//   - Debug logging for solver diagnostics
type SolverOptions struct {
	// Backend performs the optimisation.
	// Default: FlowBackend
	Backend Backend

	// TimeLimit bounds the wall-clock time of one Solve call.
	// Set to 0 to rely on the caller's context alone.
	// Default: 30s
	TimeLimit time.Duration

	// MaxSteps limits the number of backend iterations.
	// Set to 0 to disable the limit (not recommended for untrusted inputs).
	// Default: 1000000
	MaxSteps int

	// Logger enables debug logging of solver operations.
	// When nil, no logging is performed.
	Logger *slog.Logger
}

// SolverOption is a functional option for configuring the solver.
type SolverOption func(*SolverOptions)

const (
	defaultMaxSteps  = 1000000
	defaultTimeLimit = 30 * time.Second
)

// defaultSolverOptions returns the default solver configuration.
func defaultSolverOptions() SolverOptions {
	return SolverOptions{
		Backend:   FlowBackend{},
		TimeLimit: defaultTimeLimit,
		MaxSteps:  defaultMaxSteps,
	}
}

// WithBackend selects the optimisation backend. A nil backend restores the
// default FlowBackend.
//
// Example:
//
//	solver := NewSolver(WithBackend(PseudoBooleanBackend{}))
func WithBackend(backend Backend) SolverOption {
	return func(opts *SolverOptions) {
		if backend == nil {
			backend = FlowBackend{}
		}
		opts.Backend = backend
	}
}

// WithTimeLimit sets the wall-clock budget of one Solve call.
// Use 0 to disable the limit and rely on the context deadline.
//
// Example:
//
//	solver := NewSolver(WithTimeLimit(5 * time.Second))
func WithTimeLimit(limit time.Duration) SolverOption {
	return func(opts *SolverOptions) {
		if limit < 0 {
			limit = 0
		}
		opts.TimeLimit = limit
	}
}

// WithMaxSteps sets the maximum number of backend iterations.
// Use 0 to disable the limit (allows unbounded execution).
//
// What counts as a step depends on the backend: an augmenting path for
// FlowBackend, an improving model for PseudoBooleanBackend.
//
// Example:
//
//	solver := NewSolver(WithMaxSteps(10000))
func WithMaxSteps(steps int) SolverOption {
	return func(opts *SolverOptions) {
		if steps <= 0 {
			opts.MaxSteps = 0
		} else {
			opts.MaxSteps = steps
		}
	}
}

// WithLogger sets a structured logger for solver diagnostics.
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	solver := NewSolver(WithLogger(logger))
func WithLogger(logger *slog.Logger) SolverOption {
	return func(opts *SolverOptions) {
		opts.Logger = logger
	}
}
