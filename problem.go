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
	"iter"
	"slices"
)

// Problem is a validated, read-only set of students and courses.
//
// A Problem is constructed once with NewProblem and never mutated afterwards,
// so it can be shared between goroutines and between several formulations
// built with different options.
type Problem struct {
	students []Student
	courses  []Course

	studentIndex map[Name]int
	courseIndex  map[Name]int
}

// NewProblem validates the records and returns a Problem.
//
// It fails with *MalformedInputError when an identifier is empty or
// duplicated, a capacity or minimum enrollment is negative, a minimum
// enrollment exceeds the capacity, or a preference list references an
// undeclared course or repeats a course. The first offending entity in input
// order is reported.
func NewProblem(students []Student, courses []Course) (*Problem, error) {
	p := &Problem{
		students:     make([]Student, len(students)),
		courses:      slices.Clone(courses),
		studentIndex: make(map[Name]int, len(students)),
		courseIndex:  make(map[Name]int, len(courses)),
	}

	for i, c := range p.courses {
		name := c.Name.Value()
		switch {
		case name == "":
			return nil, &MalformedInputError{Entity: "course", Kind: IssueEmptyName}
		case c.Capacity < 0:
			return nil, &MalformedInputError{Entity: "course", Name: name, Kind: IssueNegativeCapacity}
		case c.MinEnrollment < 0:
			return nil, &MalformedInputError{Entity: "course", Name: name, Kind: IssueNegativeMinimum}
		case c.MinEnrollment > c.Capacity:
			return nil, &MalformedInputError{Entity: "course", Name: name, Kind: IssueMinimumAboveCapacity}
		}
		if _, dup := p.courseIndex[c.Name]; dup {
			return nil, &MalformedInputError{Entity: "course", Name: name, Kind: IssueDuplicate}
		}
		p.courseIndex[c.Name] = i
	}

	for i, s := range students {
		name := s.Name.Value()
		if name == "" {
			return nil, &MalformedInputError{Entity: "student", Kind: IssueEmptyName}
		}
		if _, dup := p.studentIndex[s.Name]; dup {
			return nil, &MalformedInputError{Entity: "student", Name: name, Kind: IssueDuplicate}
		}
		seen := make(map[Name]bool, len(s.Preferences))
		for _, pref := range s.Preferences {
			if _, ok := p.courseIndex[pref]; !ok {
				return nil, &MalformedInputError{Entity: "student", Name: name, Kind: IssueUnknownCourse, Detail: pref.Value()}
			}
			if seen[pref] {
				return nil, &MalformedInputError{Entity: "student", Name: name, Kind: IssueRepeatedPreference, Detail: pref.Value()}
			}
			seen[pref] = true
		}
		p.studentIndex[s.Name] = i
		p.students[i] = Student{Name: s.Name, Preferences: slices.Clone(s.Preferences)}
	}

	return p, nil
}

// LoadProblem reads every record from src and validates them.
func LoadProblem(ctx context.Context, src Source) (*Problem, error) {
	courses, err := src.Courses(ctx)
	if err != nil {
		return nil, err
	}
	students, err := src.Students(ctx)
	if err != nil {
		return nil, err
	}
	return NewProblem(students, courses)
}

// NumStudents returns the number of students.
func (p *Problem) NumStudents() int {
	return len(p.students)
}

// NumCourses returns the number of courses.
func (p *Problem) NumCourses() int {
	return len(p.courses)
}

// TotalCapacity returns the number of seats over all courses.
func (p *Problem) TotalCapacity() int {
	total := 0
	for _, c := range p.courses {
		total += c.Capacity
	}
	return total
}

// Students iterates over the students in declaration order.
// Preference slices are shared and must not be modified.
func (p *Problem) Students() iter.Seq[Student] {
	return func(yield func(Student) bool) {
		for _, s := range p.students {
			if !yield(s) {
				return
			}
		}
	}
}

// Courses iterates over the courses in declaration order.
func (p *Problem) Courses() iter.Seq[Course] {
	return func(yield func(Course) bool) {
		for _, c := range p.courses {
			if !yield(c) {
				return
			}
		}
	}
}

// Student looks up a student by name.
func (p *Problem) Student(name Name) (Student, bool) {
	i, ok := p.studentIndex[name]
	if !ok {
		return Student{}, false
	}
	return p.students[i], true
}

// Course looks up a course by name.
func (p *Problem) Course(name Name) (Course, bool) {
	i, ok := p.courseIndex[name]
	if !ok {
		return Course{}, false
	}
	return p.courses[i], true
}

// maxPreferenceLength returns the longest preference list (K_max).
func (p *Problem) maxPreferenceLength() int {
	longest := 0
	for _, s := range p.students {
		longest = max(longest, len(s.Preferences))
	}
	return longest
}
