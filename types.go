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
	"fmt"
)

// Student is a participant with an ordered list of preferred courses.
// Preferences[0] has rank 1 (most preferred). The list does not need to
// cover every offered course.
type Student struct {
	Name        Name
	Preferences []Name
}

// NewStudent creates a student from plain strings.
//
// Example:
//
//	alice := NewStudent("alice", "Math", "Art")
func NewStudent(name string, preferences ...string) Student {
	return Student{Name: MakeName(name), Preferences: MakeNames(preferences...)}
}

// Rank returns the 1-based preference rank of course, or false when the
// student did not list it.
func (s Student) Rank(course Name) (int, bool) {
	for i, pref := range s.Preferences {
		if pref == course {
			return i + 1, true
		}
	}
	return 0, false
}

// String returns a human-readable representation of the student.
func (s Student) String() string {
	return fmt.Sprintf("%s [%s]", s.Name.Value(), joinNames(s.Preferences))
}

// Course is an elective with a seat limit.
//
// MinEnrollment, when positive, requires the course to either run empty or
// with at least that many students. Zero disables the rule.
type Course struct {
	Name          Name
	Capacity      int
	MinEnrollment int
}

// NewCourse creates a course with the given capacity and no minimum enrollment.
func NewCourse(name string, capacity int) Course {
	return Course{Name: MakeName(name), Capacity: capacity}
}

// String returns a human-readable representation of the course.
func (c Course) String() string {
	if c.MinEnrollment > 0 {
		return fmt.Sprintf("%s (%d-%d seats)", c.Name.Value(), c.MinEnrollment, c.Capacity)
	}
	return fmt.Sprintf("%s (%d seats)", c.Name.Value(), c.Capacity)
}

// Source provides the raw records a Problem is built from.
// Implementations can read from memory, files, or remote stores.
type Source interface {
	// Courses returns every offered course in declaration order.
	Courses(ctx context.Context) ([]Course, error)

	// Students returns every student with their preference lists.
	Students(ctx context.Context) ([]Student, error)
}
