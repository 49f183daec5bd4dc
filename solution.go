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
	"iter"
	"maps"
	"slices"
)

// Placement is the decision for one student.
type Placement struct {
	Student Name
	// Course is EmptyName when Unassigned
	Course Name
	// Rank is the 1-based preference rank, 0 for unranked or unassigned
	Rank       int
	Cost       int
	Unassigned bool
}

// Ranked reports whether the student got a course they listed.
func (p Placement) Ranked() bool {
	return !p.Unassigned && p.Rank > 0
}

// String returns a human-readable representation of the placement.
func (p Placement) String() string {
	switch {
	case p.Unassigned:
		return fmt.Sprintf("%s: unassigned", p.Student.Value())
	case p.Rank == 0:
		return fmt.Sprintf("%s: %s (unranked)", p.Student.Value(), p.Course.Value())
	default:
		return fmt.Sprintf("%s: %s (choice %d)", p.Student.Value(), p.Course.Value(), p.Rank)
	}
}

// Assignment maps every student to a course or to unassigned.
// Placements are kept in student declaration order.
//
// Example:
//
//	outcome, err := Decode(result, f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for p := range outcome.Assignment.All() {
//	    fmt.Println(p)
//	}
type Assignment struct {
	placements []Placement
	index      map[Name]int
}

func newAssignment(placements []Placement) *Assignment {
	a := &Assignment{
		placements: placements,
		index:      make(map[Name]int, len(placements)),
	}
	for i, p := range placements {
		a.index[p.Student] = i
	}
	return a
}

// Len returns the number of placements.
func (a *Assignment) Len() int {
	return len(a.placements)
}

// Lookup returns the placement of a student.
func (a *Assignment) Lookup(student Name) (Placement, bool) {
	i, ok := a.index[student]
	if !ok {
		return Placement{}, false
	}
	return a.placements[i], true
}

// All returns an iterator over all placements:
//
//	for p := range assignment.All() {
//	    fmt.Printf("%s -> %s\n", p.Student.Value(), p.Course.Value())
//	}
func (a *Assignment) All() iter.Seq[Placement] {
	return func(yield func(Placement) bool) {
		for _, p := range a.placements {
			if !yield(p) {
				return
			}
		}
	}
}

// Enrolled returns the students placed in course, in student order.
func (a *Assignment) Enrolled(course Name) []Name {
	var students []Name
	for _, p := range a.placements {
		if !p.Unassigned && p.Course == course {
			students = append(students, p.Student)
		}
	}
	return students
}

// TotalCost is the objective value of the assignment.
func (a *Assignment) TotalCost() int {
	total := 0
	for _, p := range a.placements {
		total += p.Cost
	}
	return total
}

// Summary aggregates how well an assignment honours the preferences.
type Summary struct {
	Students  int
	TotalCost int
	// RankHistogram counts ranked placements per rank
	RankHistogram map[int]int
	Unranked      int
	Unassigned    int
	// FirstChoiceRate is the share of all students placed in their first choice
	FirstChoiceRate float64
	// MeanRank averages the rank over ranked placements
	MeanRank float64
	// Enrollment counts placed students per course
	Enrollment map[Name]int
}

// Ranks returns the ranks present in the histogram in ascending order.
func (s Summary) Ranks() []int {
	return slices.Sorted(maps.Keys(s.RankHistogram))
}

// Summary computes the aggregate satisfaction of the assignment.
func (a *Assignment) Summary() Summary {
	s := Summary{
		Students:      len(a.placements),
		RankHistogram: make(map[int]int),
		Enrollment:    make(map[Name]int),
	}

	rankSum, ranked := 0, 0
	for _, p := range a.placements {
		s.TotalCost += p.Cost
		switch {
		case p.Unassigned:
			s.Unassigned++
			continue
		case p.Rank == 0:
			s.Unranked++
		default:
			s.RankHistogram[p.Rank]++
			rankSum += p.Rank
			ranked++
		}
		s.Enrollment[p.Course]++
	}

	if s.Students > 0 {
		s.FirstChoiceRate = float64(s.RankHistogram[1]) / float64(s.Students)
	}
	if ranked > 0 {
		s.MeanRank = float64(rankSum) / float64(ranked)
	}
	return s
}
