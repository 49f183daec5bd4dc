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
	"fmt"
	"strings"
)

// Reporter formats a DiagnosticReport into a message for administrators.
type Reporter interface {
	// Report generates a human-readable explanation of the report
	Report(report *DiagnosticReport) string
}

// DefaultReporter produces readable explanations with hierarchical structure
type DefaultReporter struct{}

// Report implements Reporter
func (r *DefaultReporter) Report(report *DiagnosticReport) string {
	if report == nil {
		return "no diagnostics available"
	}

	var lines []string
	switch {
	case report.Bottleneck != nil:
		lines = append(lines, fmt.Sprintf("no assignment places all %d students: at most %d can be placed",
			report.Students, report.Placeable))
		r.reportBottleneck(report.Bottleneck, &lines)
	case report.Infeasible:
		lines = append(lines, fmt.Sprintf("no assignment places all %d students and meets every minimum enrollment",
			report.Students))
		r.reportMinimums(report, &lines)
	default:
		lines = append(lines, fmt.Sprintf("all %d students can be placed in %s", report.Students, seats(report.Seats)))
	}

	for _, name := range report.ForcedClosed {
		lines = append(lines, forcedClosedLine(report, name))
	}

	if over := report.Overdemanded(); len(over) > 0 {
		lines = append(lines, "over-demanded first choices:")
		for _, d := range over {
			lines = append(lines, fmt.Sprintf("  %s: %d first choices for %s", d.Course.Value(), d.FirstChoice, seats(d.Capacity)))
		}
	}
	return strings.Join(lines, "\n")
}

func (r *DefaultReporter) reportBottleneck(b *Bottleneck, lines *[]string) {
	*lines = append(*lines, "Because:")
	for _, s := range b.Students {
		*lines = append(*lines, "  "+reachLine(s))
	}
	*lines = append(*lines, "and:")
	if len(b.Courses) == 0 {
		*lines = append(*lines, "  no open course is left for them")
	} else {
		*lines = append(*lines, fmt.Sprintf("  together they can only use %s in %s", seats(b.Seats), joinNames(b.Courses)))
	}
	*lines = append(*lines, fmt.Sprintf("%d students compete for %s, so %d cannot be placed.",
		len(b.Students), seats(b.Seats), b.Shortfall()))
}

func (r *DefaultReporter) reportMinimums(report *DiagnosticReport, lines *[]string) {
	if len(report.Minimums) > 0 {
		*lines = append(*lines, "Because:")
		for _, m := range report.Minimums {
			*lines = append(*lines, "  "+minimumLine(m))
		}
		*lines = append(*lines, "and:")
	}
	*lines = append(*lines, "  "+minimumConflictLine(report))
}

// CollapsedReporter produces a more compact format
type CollapsedReporter struct{}

// Report implements Reporter with a collapsed format
func (r *CollapsedReporter) Report(report *DiagnosticReport) string {
	if report == nil {
		return "no diagnostics available"
	}

	var lines []string
	for _, name := range report.ForcedClosed {
		lines = append(lines, forcedClosedLine(report, name))
	}
	if b := report.Bottleneck; b != nil {
		for _, s := range b.Students {
			lines = append(lines, reachLine(s))
		}
		if len(b.Courses) == 0 {
			lines = append(lines, fmt.Sprintf("no open course is left, %d of %d students cannot be placed",
				report.Shortfall, report.Students))
		} else {
			lines = append(lines, fmt.Sprintf("%s in %s cannot hold %d students, %d of %d students cannot be placed",
				seats(b.Seats), joinNames(b.Courses), len(b.Students), report.Shortfall, report.Students))
		}
	} else if report.Infeasible {
		for _, m := range report.Minimums {
			lines = append(lines, minimumLine(m))
		}
		lines = append(lines, minimumConflictLine(report))
	}

	if len(lines) == 0 {
		return fmt.Sprintf("all %d students can be placed", report.Students)
	}

	// Join with "And because" for readability
	result := lines[0]
	for i := 1; i < len(lines); i++ {
		result += "\nAnd because " + lines[i]
	}
	return result
}

func reachLine(s StudentReach) string {
	if len(s.Options) == 0 {
		return fmt.Sprintf("%s has no course to be placed in", s.Student.Value())
	}
	return fmt.Sprintf("%s can only be placed in %s (%s)", s.Student.Value(), joinNames(s.Options), seats(s.Seats))
}

func minimumLine(m MinimumDemand) string {
	if m.Required() {
		return fmt.Sprintf("%s must run for %s and needs at least %d of %s",
			m.Course.Value(), joinNames(m.Stranded), m.MinEnrollment, joinNames(m.Eligible))
	}
	return fmt.Sprintf("%s needs at least %d of %s if it runs", m.Course.Value(), m.MinEnrollment, joinNames(m.Eligible))
}

func minimumConflictLine(report *DiagnosticReport) string {
	if report.MinimumShortfall > 0 {
		required := report.RequiredMinimums()
		names := make([]Name, len(required))
		need := 0
		for i, m := range required {
			names[i] = m.Course
			need += m.MinEnrollment
		}
		return fmt.Sprintf("%s must run and need at least %d students together, but only %d are eligible for them",
			joinNames(names), need, need-report.MinimumShortfall)
	}
	if len(report.Minimums) > 0 {
		return "no choice of courses to run meets every minimum enrollment"
	}
	return "no assignment satisfies every constraint"
}

func forcedClosedLine(report *DiagnosticReport, name Name) string {
	for _, d := range report.Courses {
		if d.Course == name {
			return fmt.Sprintf("%s cannot reach its minimum of %d students (%d eligible) and stays empty",
				name.Value(), d.MinEnrollment, d.Eligible)
		}
	}
	return fmt.Sprintf("%s stays empty", name.Value())
}

func seats(n int) string {
	if n == 1 {
		return "1 seat"
	}
	return fmt.Sprintf("%d seats", n)
}

var (
	_ Reporter = (*DefaultReporter)(nil)
	_ Reporter = (*CollapsedReporter)(nil)
)
