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

import "fmt"

// VarKind distinguishes placement variables from unassigned indicators.
type VarKind int

const (
	// VarAssign places Student in Course.
	VarAssign VarKind = iota
	// VarUnassigned leaves Student without a course.
	VarUnassigned
)

func (k VarKind) String() string {
	switch k {
	case VarAssign:
		return "assign"
	case VarUnassigned:
		return "unassigned"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Variable is one boolean decision of the formulation.
type Variable struct {
	// Index is the position in Formulation.Variables and in SolveResult.Values
	Index   int
	Student Name
	// Course is EmptyName for VarUnassigned
	Course Name
	// Rank is the 1-based preference rank, or 0 for unranked and unassigned
	Rank int
	Cost int
	Kind VarKind
}

// Ranked reports whether the variable places the student in a course they listed.
func (v Variable) Ranked() bool {
	return v.Kind == VarAssign && v.Rank > 0
}

// String returns a human-readable representation of the variable.
func (v Variable) String() string {
	switch {
	case v.Kind == VarUnassigned:
		return fmt.Sprintf("x%d: %s unassigned (cost %d)", v.Index, v.Student.Value(), v.Cost)
	case v.Rank == 0:
		return fmt.Sprintf("x%d: %s -> %s unranked (cost %d)", v.Index, v.Student.Value(), v.Course.Value(), v.Cost)
	default:
		return fmt.Sprintf("x%d: %s -> %s rank %d (cost %d)", v.Index, v.Student.Value(), v.Course.Value(), v.Rank, v.Cost)
	}
}

// Formulation is the 0-1 optimisation model built from a Problem:
//
//	minimize   sum(cost[i] * x[i])
//	subject to sum(x[i] for i of student s) = 1        for every student
//	           sum(x[i] for i of course c) <= capacity  for every course
//	           sum(x[i] for i of course c) in {0} or [min, capacity]
//	                                                    for courses with a minimum
//
// A Formulation is immutable once built and can be solved by several
// backends concurrently.
type Formulation struct {
	problem *Problem
	options ModelOptions

	vars      []Variable
	byStudent map[Name][]int
	byCourse  map[Name][]int
	maxRanked int
}

// Problem returns the problem the formulation was built from.
func (f *Formulation) Problem() *Problem {
	return f.problem
}

// Options returns the model options in effect.
func (f *Formulation) Options() ModelOptions {
	return f.options
}

// Variables returns every decision variable in index order.
// The slice is shared and must not be modified.
func (f *Formulation) Variables() []Variable {
	return f.vars
}

// Variable returns the variable at index i.
func (f *Formulation) Variable(i int) Variable {
	return f.vars[i]
}

// NumVariables returns the number of decision variables.
func (f *Formulation) NumVariables() int {
	return len(f.vars)
}

// StudentVariables returns the indices of the variables of one student,
// ranked placements first, then unranked, then the unassigned indicator.
func (f *Formulation) StudentVariables(student Name) []int {
	return f.byStudent[student]
}

// CourseVariables returns the indices of the placement variables of one course.
func (f *Formulation) CourseVariables(course Name) []int {
	return f.byCourse[course]
}

// MaxRankedCost is the largest cost a ranked placement can have.
func (f *Formulation) MaxRankedCost() int {
	return f.maxRanked
}

// HasMinEnrollment reports whether any course carries a minimum enrollment.
func (f *Formulation) HasMinEnrollment() bool {
	for c := range f.problem.Courses() {
		if c.MinEnrollment > 0 {
			return true
		}
	}
	return false
}

// Objective computes sum(cost[i]) over the true entries of values.
// Entries beyond the number of variables are ignored.
func (f *Formulation) Objective(values []bool) int {
	total := 0
	for i, v := range values {
		if v && i < len(f.vars) {
			total += f.vars[i].Cost
		}
	}
	return total
}

// String summarises the formulation size.
func (f *Formulation) String() string {
	return fmt.Sprintf("formulation(%d students, %d courses, %d variables, %s)",
		f.problem.NumStudents(), f.problem.NumCourses(), len(f.vars), f.options.Eligibility)
}
