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

//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"

	"github.com/contriboss/sortinghat-go"
)

func main() {
	fmt.Println("=== Elective Assignment Demo ===")
	fmt.Println()

	ctx := context.Background()

	// Scenario 1: Everyone fits
	fmt.Println("Scenario 1: Everyone fits")
	fmt.Println("-------------------------")
	problem1 := mustProblem(
		[]sortinghat.Student{
			sortinghat.NewStudent("A", "Math", "Art"),
			sortinghat.NewStudent("B", "Art"),
			sortinghat.NewStudent("C", "Math", "Art"),
		},
		[]sortinghat.Course{
			sortinghat.NewCourse("Math", 1),
			sortinghat.NewCourse("Art", 2),
		},
	)
	run1, err := (&sortinghat.Pipeline{}).Run(ctx, problem1)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Status: %s, total cost %d\n", run1.Outcome.Status, run1.Outcome.Objective)
	for p := range run1.Outcome.Assignment.All() {
		fmt.Printf("  - %s\n", p)
	}
	fmt.Println()

	// Scenario 2: Too many students want Math
	fmt.Println("Scenario 2: Over-subscribed course")
	fmt.Println("----------------------------------")
	problem2 := mustProblem(
		[]sortinghat.Student{
			sortinghat.NewStudent("a", "Math"),
			sortinghat.NewStudent("b", "Math"),
			sortinghat.NewStudent("c", "Math", "Art"),
			sortinghat.NewStudent("d", "Art"),
		},
		[]sortinghat.Course{
			sortinghat.NewCourse("Math", 1),
			sortinghat.NewCourse("Art", 2),
		},
	)
	run2, err := (&sortinghat.Pipeline{}).Run(ctx, problem2)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Status: %s\n", run2.Outcome.Status)
	fmt.Printf("With DefaultReporter:\n%s\n\n", (&sortinghat.DefaultReporter{}).Report(run2.Outcome.Diagnostics))
	fmt.Printf("With CollapsedReporter:\n%s\n\n", (&sortinghat.CollapsedReporter{}).Report(run2.Outcome.Diagnostics))

	// Scenario 3: Same cohort, unassigned allowed
	fmt.Println("Scenario 3: Leaving a student unassigned")
	fmt.Println("----------------------------------------")
	pipeline := &sortinghat.Pipeline{Model: []sortinghat.ModelOption{sortinghat.WithUnassigned(true)}}
	run3, err := pipeline.Run(ctx, problem2)
	if err != nil {
		log.Fatal(err)
	}
	summary := run3.Outcome.Assignment.Summary()
	fmt.Printf("Status: %s, %d unassigned, first choice rate %.2f\n",
		run3.Outcome.Status, summary.Unassigned, summary.FirstChoiceRate)

	// Scenario 4: Minimum enrollment needs the pseudo-boolean backend
	fmt.Println()
	fmt.Println("Scenario 4: Minimum enrollment")
	fmt.Println("------------------------------")
	big := sortinghat.NewCourse("Big", 3)
	big.MinEnrollment = 2
	problem4 := mustProblem(
		[]sortinghat.Student{
			sortinghat.NewStudent("a", "Big", "Small"),
			sortinghat.NewStudent("b", "Small", "Big"),
		},
		[]sortinghat.Course{big, sortinghat.NewCourse("Small", 1)},
	)
	pipeline = &sortinghat.Pipeline{
		Solver: sortinghat.NewSolver(sortinghat.WithBackend(sortinghat.PseudoBooleanBackend{})),
	}
	run4, err := pipeline.Run(ctx, problem4)
	if err != nil {
		log.Fatal(err)
	}
	for p := range run4.Outcome.Assignment.All() {
		fmt.Printf("  - %s\n", p)
	}
}

func mustProblem(students []sortinghat.Student, courses []sortinghat.Course) *sortinghat.Problem {
	p, err := sortinghat.NewProblem(students, courses)
	if err != nil {
		log.Fatal(err)
	}
	return p
}
