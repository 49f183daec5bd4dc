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

	"github.com/contriboss/sortinghat-go"
	"github.com/spf13/cobra"
)

func (a *app) diagnoseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Show course demand and whether every student can be placed",
		Long: `diagnose builds the model without solving it, prints how many students
want each course, and explains which group of students cannot all be
placed when no assignment exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.diagnose(cmd)
		},
	}

	flags := cmd.Flags()
	addInputFlags(flags)
	addModelFlags(flags)
	flags.Bool("collapsed", false, "print a compact explanation")
	return cmd
}

func (a *app) diagnose(cmd *cobra.Command) error {
	problem, err := loadProblem(cmd.Context(), a.cfg)
	if err != nil {
		return err
	}
	opts, err := a.cfg.ModelOptions()
	if err != nil {
		return err
	}

	f, err := sortinghat.BuildContext(cmd.Context(), problem, append(opts, sortinghat.WithModelLogger(a.logger))...)
	if err != nil {
		return err
	}

	report := sortinghat.Diagnose(f)
	w := cmd.OutOrStdout()
	printDemand(w, report)
	fmt.Fprintln(w, a.reporter().Report(report))

	if report.Bottleneck != nil {
		return &exitError{code: ExitInfeasible, msg: fmt.Sprintf("%d of %d students cannot be placed", report.Shortfall, report.Students)}
	}
	return nil
}
