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
	"math/rand/v2"
	"testing"
)

func mustProblem(t testing.TB, students []Student, courses []Course) *Problem {
	t.Helper()
	p, err := NewProblem(students, courses)
	if err != nil {
		t.Fatalf("NewProblem returned error: %v", err)
	}
	return p
}

func mustBuild(t testing.TB, p *Problem, opts ...ModelOption) *Formulation {
	t.Helper()
	f, err := Build(p, opts...)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	return f
}

func mustSolve(t testing.TB, backend Backend, f *Formulation) SolveResult {
	t.Helper()
	res, err := NewSolver(WithBackend(backend)).Solve(context.Background(), f)
	if err != nil {
		t.Fatalf("%s: Solve returned error: %v", backend.Name(), err)
	}
	return res
}

func mustDecode(t testing.TB, res SolveResult, f *Formulation) Outcome {
	t.Helper()
	out, err := Decode(res, f)
	if err != nil {
		t.Fatalf("%s: Decode returned error: %v", res.Backend, err)
	}
	return out
}

// mathArtProblem: A [Math, Art], B [Art], C [Math, Art]; Math 1 seat, Art 2.
func mathArtProblem(t testing.TB) *Problem {
	return mustProblem(t,
		[]Student{
			NewStudent("A", "Math", "Art"),
			NewStudent("B", "Art"),
			NewStudent("C", "Math", "Art"),
		},
		[]Course{NewCourse("Math", 1), NewCourse("Art", 2)},
	)
}

// randomProblem draws students with 1..3 distinct preferences over courses
// with capacities 0..3.
func randomProblem(t testing.TB, rng *rand.Rand, numStudents, numCourses int) *Problem {
	t.Helper()
	courses := make([]Course, numCourses)
	names := make([]string, numCourses)
	for i := range courses {
		names[i] = string(rune('P' + i))
		courses[i] = NewCourse(names[i], rng.IntN(4))
	}
	students := make([]Student, numStudents)
	for i := range students {
		perm := rng.Perm(numCourses)
		k := 1 + rng.IntN(min(3, numCourses))
		prefs := make([]string, k)
		for j := range prefs {
			prefs[j] = names[perm[j]]
		}
		students[i] = NewStudent(string(rune('a'+i)), prefs...)
	}
	return mustProblem(t, students, courses)
}

// bruteForce enumerates one decision per student and returns the cheapest
// assignment that respects capacities and minimum enrollments.
func bruteForce(f *Formulation) (best int, feasible bool) {
	p := f.Problem()
	var students []Name
	for s := range p.Students() {
		students = append(students, s.Name)
	}
	load := make(map[Name]int)

	var walk func(i, cost int)
	walk = func(i, cost int) {
		if feasible && cost >= best {
			return
		}
		if i == len(students) {
			for c := range p.Courses() {
				n := load[c.Name]
				if n > 0 && n < c.MinEnrollment {
					return
				}
			}
			best, feasible = cost, true
			return
		}
		for _, idx := range f.StudentVariables(students[i]) {
			v := f.Variable(idx)
			if v.Kind == VarAssign {
				c, _ := p.Course(v.Course)
				if load[v.Course] >= c.Capacity {
					continue
				}
				load[v.Course]++
				walk(i+1, cost+v.Cost)
				load[v.Course]--
				continue
			}
			walk(i+1, cost+v.Cost)
		}
	}
	walk(0, 0)
	return best, feasible
}
