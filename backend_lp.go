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
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	simplexTolerance  = 1e-9
	integralTolerance = 1e-6
)

// LinearProgramBackend solves the linear relaxation of a formulation with
// the simplex method. The coverage and capacity rows form a bipartite
// incidence matrix, which is totally unimodular, so the vertex the simplex
// method returns is already integral.
//
// The dense tableau grows with students times variables, which suits small
// and medium instances. Minimum enrollments break unimodularity and are not
// supported. The step limit is not observed.
type LinearProgramBackend struct{}

// Name implements Backend.
func (LinearProgramBackend) Name() string { return "lp" }

// Supports implements Backend.
func (b LinearProgramBackend) Supports(f *Formulation) error {
	if f.HasMinEnrollment() {
		return &UnsupportedFormulationError{Backend: b.Name(), Feature: "minimum enrollment"}
	}
	return nil
}

type simplexOutcome struct {
	objective float64
	x         []float64
	err       error
}

// Solve implements Backend.
func (b LinearProgramBackend) Solve(ctx context.Context, f *Formulation, _ Limits) (SolveResult, error) {
	if err := b.Supports(f); err != nil {
		return SolveResult{}, err
	}

	c, A, rhs := standardForm(f)
	done := make(chan simplexOutcome, 1)
	go func() {
		objective, x, err := lp.Simplex(c, A, rhs, simplexTolerance, nil)
		done <- simplexOutcome{objective: objective, x: x, err: err}
	}()

	var out simplexOutcome
	select {
	case out = <-done:
	case <-ctx.Done():
		return SolveResult{
			Status: interruptedStatus(ctx.Err()),
			Detail: fmt.Sprintf("simplex abandoned: %v", ctx.Err()),
		}, nil
	}

	res := SolveResult{Steps: 1}
	switch {
	case errors.Is(out.err, lp.ErrInfeasible):
		res.Status = StatusInfeasible
		res.Detail = "linear relaxation is infeasible"
		return res, nil
	case out.err != nil:
		res.Status = StatusUnknown
		res.Detail = out.err.Error()
		return res, nil
	}

	res.Values = make([]bool, f.NumVariables())
	for i := range res.Values {
		x := out.x[i]
		if math.Abs(x-math.Round(x)) > integralTolerance {
			return SolveResult{Status: StatusUnknown, Steps: 1, Detail: fmt.Sprintf("fractional vertex: x%d = %g", i, x)}, nil
		}
		res.Values[i] = x > 0.5
	}
	res.Status = StatusOptimal
	res.Objective = int(math.Round(out.objective))
	return res, nil
}

// standardForm writes f as minimize c'x subject to Ax = b, x >= 0.
// Columns are the formulation's variables followed by one slack per course
// with at least one variable; rows are one coverage row per student
// followed by one capacity row per such course.
func standardForm(f *Formulation) (c []float64, A *mat.Dense, b []float64) {
	p := f.problem

	var courses []Course
	for course := range p.Courses() {
		if len(f.CourseVariables(course.Name)) > 0 {
			courses = append(courses, course)
		}
	}

	n := f.NumVariables()
	rows := p.NumStudents() + len(courses)
	cols := n + len(courses)

	c = make([]float64, cols)
	for _, v := range f.vars {
		c[v.Index] = float64(v.Cost)
	}

	A = mat.NewDense(rows, cols, nil)
	b = make([]float64, rows)

	row := 0
	for s := range p.Students() {
		for _, i := range f.StudentVariables(s.Name) {
			A.Set(row, i, 1)
		}
		b[row] = 1
		row++
	}
	for k, course := range courses {
		for _, i := range f.CourseVariables(course.Name) {
			A.Set(row, i, 1)
		}
		A.Set(row, n+k, 1)
		b[row] = float64(course.Capacity)
		row++
	}
	return c, A, b
}

var _ Backend = LinearProgramBackend{}
