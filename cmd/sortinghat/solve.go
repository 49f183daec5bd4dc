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

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/contriboss/sortinghat-go"
	"github.com/contriboss/sortinghat-go/archive"
	"github.com/contriboss/sortinghat-go/source"
	"github.com/spf13/cobra"
)

func (a *app) solveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Find the assignment with the lowest total preference cost",
		Example: `  sortinghat solve --students students.csv --courses courses.csv --out assignment.csv
  sortinghat solve --problem term1.yaml --backend pb --allow-unassigned`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.solve(cmd)
		},
	}

	flags := cmd.Flags()
	addInputFlags(flags)
	addModelFlags(flags)
	flags.String("out", "", "write the assignment to a .csv or .xlsx file")
	flags.String("backend", "flow", "solver backend: flow, pb or lp")
	flags.Duration("timeout", 30*time.Second, "wall-clock budget for the solver (0 disables)")
	flags.Int("max-steps", 1000000, "step budget for the solver (0 disables)")
	flags.String("archive", "", "record the run in this SQLite database")
	flags.String("label", "", "label stored with the archived run")
	flags.String("metrics-file", "", "write Prometheus metrics to this textfile")
	flags.Bool("collapsed", false, "print a compact explanation when no assignment exists")
	return cmd
}

func (a *app) solve(cmd *cobra.Command) error {
	ctx := cmd.Context()

	problem, err := loadProblem(ctx, a.cfg)
	if err != nil {
		return err
	}
	format, err := outputFormat(a.cfg.Out)
	if err != nil {
		return err
	}

	modelOpts, err := a.cfg.ModelOptions()
	if err != nil {
		return err
	}
	solverOpts, err := a.cfg.SolverOptions()
	if err != nil {
		return err
	}
	pipeline := &sortinghat.Pipeline{
		Model:  append(modelOpts, sortinghat.WithModelLogger(a.logger)),
		Solver: sortinghat.NewSolver(append(solverOpts, sortinghat.WithLogger(a.logger))...),
	}

	a.logger.Info("solving", "students", problem.NumStudents(), "courses", problem.NumCourses(), "backend", a.cfg.Backend)
	run, err := pipeline.Run(ctx, problem)
	if err != nil {
		return err
	}
	a.logger.Info("solved", "status", run.Outcome.Status, "cost", run.Outcome.Objective, "elapsed", run.Result.Elapsed)

	if a.metrics != nil {
		a.metrics.observe(run.Outcome)
	}
	if a.cfg.Archive != "" {
		if err := a.record(cmd, run); err != nil {
			return err
		}
	}

	printRun(cmd.OutOrStdout(), run, a.reporter(), a.cfg.Out == "")

	switch {
	case run.Outcome.Assignment != nil:
		if a.cfg.Out != "" {
			return writeAssignment(a.cfg.Out, format, run.Outcome.Assignment)
		}
		return nil
	case run.Outcome.Status == sortinghat.StatusInfeasible:
		return &exitError{code: ExitInfeasible, msg: "no assignment places every student"}
	default:
		return &exitError{code: ExitNoSolution, msg: fmt.Sprintf("no assignment found: %s", run.Outcome.Status)}
	}
}

func (a *app) record(cmd *cobra.Command, run *sortinghat.RunResult) error {
	store, err := archive.Open(a.cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Record(cmd.Context(), a.cfg.Label, run)
	if err != nil {
		return err
	}
	a.logger.Info("run archived", "id", rec.ID, "archive", a.cfg.Archive)
	fmt.Fprintf(cmd.OutOrStdout(), "run: %s\n", rec.ID)
	return nil
}

func writeAssignment(path, format string, assignment *sortinghat.Assignment) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	if format == "xlsx" {
		return source.WriteAssignmentXLSX(f, assignment)
	}
	return source.WriteAssignmentCSV(f, assignment)
}
