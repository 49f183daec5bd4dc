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
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/contriboss/sortinghat-go"
	"github.com/contriboss/sortinghat-go/archive"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func (a *app) reporter() sortinghat.Reporter {
	if a.cfg.Collapsed {
		return &sortinghat.CollapsedReporter{}
	}
	return &sortinghat.DefaultReporter{}
}

// printRun writes the outcome of a pipeline run.
func printRun(w io.Writer, run *sortinghat.RunResult, reporter sortinghat.Reporter, placements bool) {
	res := run.Result
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("status: %s (%s, %s)", run.Outcome.Status, res.Backend, res.Elapsed)))
	if res.Detail != "" {
		fmt.Fprintf(w, "detail: %s\n", res.Detail)
	}

	switch {
	case run.Outcome.Assignment != nil:
		printSummary(w, run.Outcome)
		if placements {
			for p := range run.Outcome.Assignment.All() {
				fmt.Fprintf(w, "  %s\n", p)
			}
		}
	case run.Outcome.Diagnostics != nil:
		fmt.Fprintln(w, reporter.Report(run.Outcome.Diagnostics))
	}
}

func printSummary(w io.Writer, outcome sortinghat.Outcome) {
	s := outcome.Assignment.Summary()
	fmt.Fprintf(w, "total cost: %d\n", outcome.Objective)
	fmt.Fprintf(w, "students: %d, first choice: %.1f%%, mean rank: %.2f, unranked: %d, unassigned: %d\n",
		s.Students, 100*s.FirstChoiceRate, s.MeanRank, s.Unranked, s.Unassigned)
	for _, rank := range s.Ranks() {
		fmt.Fprintf(w, "choice %d: %d\n", rank, s.RankHistogram[rank])
	}
}

// printDemand writes the per-course demand table of a diagnostic report.
func printDemand(w io.Writer, report *sortinghat.DiagnosticReport) {
	t := newTable("course", "seats", "minimum", "first choice", "ranked", "eligible")
	for _, d := range report.Courses {
		t.Row(d.Course.Value(),
			strconv.Itoa(d.Capacity),
			strconv.Itoa(d.MinEnrollment),
			strconv.Itoa(d.FirstChoice),
			strconv.Itoa(d.Ranked),
			strconv.Itoa(d.Eligible))
	}
	fmt.Fprintln(w, t.Render())
}

// printRuns writes archived runs, newest first.
func printRuns(w io.Writer, runs []archive.Run) {
	t := newTable("id", "created", "label", "backend", "status", "cost", "students", "unassigned")
	for _, r := range runs {
		t.Row(r.ID.String(),
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Label,
			r.Backend,
			r.Status,
			strconv.Itoa(r.Objective),
			strconv.Itoa(r.Students),
			strconv.Itoa(r.Unassigned))
	}
	fmt.Fprintln(w, t.Render())
}
