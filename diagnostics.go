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

import "maps"

// CourseDemand compares how many students want a course with its seats.
type CourseDemand struct {
	Course        Name
	Capacity      int
	MinEnrollment int
	// Ranked counts students that listed the course at any rank
	Ranked int
	// FirstChoice counts students that listed the course first
	FirstChoice int
	// Eligible counts students with a placement variable for the course
	Eligible int
}

// Overdemanded reports whether more students want the course first than it
// has seats.
func (d CourseDemand) Overdemanded() bool {
	return d.FirstChoice > d.Capacity
}

// StudentReach lists the courses a student could be placed in.
type StudentReach struct {
	Student Name
	Options []Name
	// Seats is the total capacity of Options
	Seats int
}

// Bottleneck is a group of students that together can only reach a set of
// courses with fewer seats than students. At least Shortfall of them cannot
// be placed, whatever the other students get.
type Bottleneck struct {
	Students []StudentReach
	Courses  []Name
	Seats    int
}

// Shortfall is the number of students in the group that cannot be placed.
func (b *Bottleneck) Shortfall() int {
	return len(b.Students) - b.Seats
}

// MinimumDemand describes an open course with a minimum enrollment.
type MinimumDemand struct {
	Course        Name
	MinEnrollment int
	// Eligible lists the students with a placement variable for the course
	Eligible []Name
	// Stranded lists the students that cannot be placed while the course
	// stays empty
	Stranded []Name
}

// Required reports whether every full placement needs the course to run.
func (m MinimumDemand) Required() bool {
	return len(m.Stranded) > 0
}

// DiagnosticReport explains why no assignment places every student.
type DiagnosticReport struct {
	Students int
	// Seats is the capacity over all courses
	Seats int
	// Placeable is the largest number of students any assignment can place
	Placeable int
	// Shortfall is Students - Placeable
	Shortfall int
	Courses   []CourseDemand
	// Bottleneck is nil when every student can be placed
	Bottleneck *Bottleneck
	// ForcedClosed lists courses that cannot reach their minimum enrollment
	// and therefore stay empty
	ForcedClosed []Name
	// Minimums lists the open courses with a minimum enrollment when every
	// student has a seat, in course order
	Minimums []MinimumDemand
	// MinimumShortfall is how many eligible students the required courses
	// lack to reach their minimums together
	MinimumShortfall int
	// Infeasible is set when the report explains an infeasible solve result
	Infeasible bool
}

// RequiredMinimums returns the minimum-enrollment courses that must run.
func (r *DiagnosticReport) RequiredMinimums() []MinimumDemand {
	var out []MinimumDemand
	for _, m := range r.Minimums {
		if m.Required() {
			out = append(out, m)
		}
	}
	return out
}

// Overdemanded returns the courses wanted first by more students than seats.
func (r *DiagnosticReport) Overdemanded() []CourseDemand {
	var out []CourseDemand
	for _, d := range r.Courses {
		if d.Overdemanded() {
			out = append(out, d)
		}
	}
	return out
}

// Diagnose explains the capacity structure of f.
//
// It computes a maximum matching of students to their eligible courses,
// ignoring costs and unassigned indicators. When some students cannot be
// placed, the students reachable from the source in the residual network
// form a maximal Hall violator: their eligible courses offer exactly
// Shortfall fewer seats than there are students in the group.
//
// Courses whose eligible demand is below their minimum enrollment are
// treated as closed before matching. When every student has a seat, the
// remaining minimum-enrollment courses are listed with the students that
// depend on them, and MinimumShortfall is set when the courses that must
// run need more students than are eligible for them.
func Diagnose(f *Formulation) *DiagnosticReport {
	p := f.problem
	report := &DiagnosticReport{
		Students: p.NumStudents(),
		Seats:    p.TotalCapacity(),
	}

	firstChoice := make(map[Name]int, p.NumCourses())
	ranked := make(map[Name]int, p.NumCourses())
	for s := range p.Students() {
		for i, pref := range s.Preferences {
			if i == 0 {
				firstChoice[pref]++
			}
			ranked[pref]++
		}
	}

	closed := make(map[Name]bool)
	for c := range p.Courses() {
		eligible := len(f.CourseVariables(c.Name))
		report.Courses = append(report.Courses, CourseDemand{
			Course:        c.Name,
			Capacity:      c.Capacity,
			MinEnrollment: c.MinEnrollment,
			Ranked:        ranked[c.Name],
			FirstChoice:   firstChoice[c.Name],
			Eligible:      eligible,
		})
		if eligible > 0 && eligible < c.MinEnrollment {
			closed[c.Name] = true
			report.ForcedClosed = append(report.ForcedClosed, c.Name)
		}
	}

	net := newAssignmentNetwork(f, false, closed)
	report.Placeable = net.maxFlow(net.source, net.sink)
	report.Shortfall = report.Students - report.Placeable
	if report.Shortfall > 0 {
		report.Bottleneck = bottleneck(f, net, closed)
	} else if f.HasMinEnrollment() {
		report.Minimums, report.MinimumShortfall = minimumDemands(f, closed)
	}
	return report
}

func minimumDemands(f *Formulation, closed map[Name]bool) ([]MinimumDemand, int) {
	p := f.problem
	var demands []MinimumDemand
	for c := range p.Courses() {
		indices := f.CourseVariables(c.Name)
		if c.MinEnrollment == 0 || closed[c.Name] || len(indices) == 0 {
			continue
		}
		m := MinimumDemand{Course: c.Name, MinEnrollment: c.MinEnrollment}
		for _, i := range indices {
			m.Eligible = append(m.Eligible, f.vars[i].Student)
		}

		trial := maps.Clone(closed)
		trial[c.Name] = true
		net := newAssignmentNetwork(f, false, trial)
		if net.maxFlow(net.source, net.sink) < p.NumStudents() {
			reach := net.residualReach(net.source)
			for _, name := range net.students {
				if reach[net.studentNodes[name]] {
					m.Stranded = append(m.Stranded, name)
				}
			}
		}
		demands = append(demands, m)
	}

	need := 0
	eligible := make(map[Name]bool)
	for _, m := range demands {
		if !m.Required() {
			continue
		}
		need += m.MinEnrollment
		for _, s := range m.Eligible {
			eligible[s] = true
		}
	}
	return demands, max(need-len(eligible), 0)
}

func bottleneck(f *Formulation, net *assignmentNetwork, closed map[Name]bool) *Bottleneck {
	p := f.problem
	reach := net.residualReach(net.source)
	b := &Bottleneck{}

	for _, name := range net.courses {
		if reach[net.courseNodes[name]] {
			c, _ := p.Course(name)
			b.Courses = append(b.Courses, name)
			b.Seats += c.Capacity
		}
	}

	for _, name := range net.students {
		if !reach[net.studentNodes[name]] {
			continue
		}
		sr := StudentReach{Student: name}
		for _, i := range f.StudentVariables(name) {
			v := f.vars[i]
			if v.Kind != VarAssign || closed[v.Course] {
				continue
			}
			c, _ := p.Course(v.Course)
			sr.Options = append(sr.Options, v.Course)
			sr.Seats += c.Capacity
		}
		b.Students = append(b.Students, sr)
	}
	return b
}
