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
	"testing"
)

func TestNewProblemValid(t *testing.T) {
	p := mathArtProblem(t)

	if p.NumStudents() != 3 {
		t.Fatalf("expected 3 students, got %d", p.NumStudents())
	}
	if p.NumCourses() != 2 {
		t.Fatalf("expected 2 courses, got %d", p.NumCourses())
	}
	if p.TotalCapacity() != 3 {
		t.Fatalf("expected 3 seats, got %d", p.TotalCapacity())
	}

	a, ok := p.Student(MakeName("A"))
	if !ok {
		t.Fatalf("expected student A")
	}
	if rank, ok := a.Rank(MakeName("Art")); !ok || rank != 2 {
		t.Fatalf("expected Art at rank 2 for A, got %d (%v)", rank, ok)
	}
	if _, ok := a.Rank(MakeName("Music")); ok {
		t.Fatalf("expected Music to be unranked")
	}
	if _, ok := p.Course(MakeName("Music")); ok {
		t.Fatalf("expected Music to be unknown")
	}

	var order []string
	for s := range p.Students() {
		order = append(order, s.Name.Value())
	}
	if len(order) != 3 || order[0] != "A" || order[2] != "C" {
		t.Fatalf("unexpected student order: %v", order)
	}
}

func TestNewProblemCopiesInput(t *testing.T) {
	students := []Student{NewStudent("A", "Math")}
	p := mustProblem(t, students, []Course{NewCourse("Math", 1), NewCourse("Art", 1)})

	students[0].Preferences[0] = MakeName("Art")

	a, _ := p.Student(MakeName("A"))
	if a.Preferences[0] != MakeName("Math") {
		t.Fatalf("problem shares preference slices with the caller")
	}
}

func TestNewProblemMalformed(t *testing.T) {
	math := NewCourse("Math", 1)

	tests := []struct {
		name     string
		students []Student
		courses  []Course
		entity   string
		kind     IssueKind
		subject  string
	}{
		{
			name:    "empty course name",
			courses: []Course{NewCourse("", 1)},
			entity:  "course",
			kind:    IssueEmptyName,
		},
		{
			name:    "duplicate course",
			courses: []Course{math, NewCourse("Math", 2)},
			entity:  "course",
			kind:    IssueDuplicate,
			subject: "Math",
		},
		{
			name:    "negative capacity",
			courses: []Course{NewCourse("Math", -1)},
			entity:  "course",
			kind:    IssueNegativeCapacity,
			subject: "Math",
		},
		{
			name:    "negative minimum",
			courses: []Course{{Name: MakeName("Math"), Capacity: 2, MinEnrollment: -1}},
			entity:  "course",
			kind:    IssueNegativeMinimum,
			subject: "Math",
		},
		{
			name:    "minimum above capacity",
			courses: []Course{{Name: MakeName("Math"), Capacity: 2, MinEnrollment: 3}},
			entity:  "course",
			kind:    IssueMinimumAboveCapacity,
			subject: "Math",
		},
		{
			name:     "empty student name",
			students: []Student{NewStudent("", "Math")},
			courses:  []Course{math},
			entity:   "student",
			kind:     IssueEmptyName,
		},
		{
			name:     "duplicate student",
			students: []Student{NewStudent("A", "Math"), NewStudent("A")},
			courses:  []Course{math},
			entity:   "student",
			kind:     IssueDuplicate,
			subject:  "A",
		},
		{
			name:     "unknown course",
			students: []Student{NewStudent("A", "Math", "Music")},
			courses:  []Course{math},
			entity:   "student",
			kind:     IssueUnknownCourse,
			subject:  "A",
		},
		{
			name:     "repeated preference",
			students: []Student{NewStudent("A", "Math", "Math")},
			courses:  []Course{math},
			entity:   "student",
			kind:     IssueRepeatedPreference,
			subject:  "A",
		},
		{
			name:     "first offender wins",
			students: []Student{NewStudent("A", "Music"), NewStudent("B", "Drama")},
			courses:  []Course{math},
			entity:   "student",
			kind:     IssueUnknownCourse,
			subject:  "A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProblem(tt.students, tt.courses)
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !errors.Is(err, ErrMalformedInput) {
				t.Fatalf("expected ErrMalformedInput, got %v", err)
			}
			var mErr *MalformedInputError
			if !errors.As(err, &mErr) {
				t.Fatalf("expected *MalformedInputError, got %T", err)
			}
			if mErr.Entity != tt.entity || mErr.Kind != tt.kind || mErr.Name != tt.subject {
				t.Fatalf("unexpected error: %+v", mErr)
			}
		})
	}
}

func TestLoadProblemFromCombinedSource(t *testing.T) {
	first := &InMemorySource{}
	first.AddCourse(NewCourse("Math", 1))
	first.AddStudent(NewStudent("A", "Math"))

	second := &InMemorySource{}
	second.AddCourse(NewCourse("Art", 1))
	second.AddStudent(NewStudent("B", "Art", "Math"))

	p, err := LoadProblem(context.Background(), CombinedSource{first, second})
	if err != nil {
		t.Fatalf("LoadProblem returned error: %v", err)
	}
	if p.NumStudents() != 2 || p.NumCourses() != 2 {
		t.Fatalf("expected 2 students and 2 courses, got %d and %d", p.NumStudents(), p.NumCourses())
	}
}

type failingSource struct{ err error }

func (s failingSource) Courses(context.Context) ([]Course, error)   { return nil, s.err }
func (s failingSource) Students(context.Context) ([]Student, error) { return nil, s.err }

func TestLoadProblemPropagatesSourceError(t *testing.T) {
	want := errors.New("export unavailable")
	_, err := LoadProblem(context.Background(), failingSource{err: want})
	if !errors.Is(err, want) {
		t.Fatalf("expected source error, got %v", err)
	}
}
