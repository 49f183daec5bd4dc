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
	"slices"
)

// InMemorySource holds course and student records in memory.
// It is the simplest Source and the one used throughout the tests.
//
// Example:
//
//	src := &InMemorySource{}
//	src.AddCourse(NewCourse("Math", 1))
//	src.AddStudent(NewStudent("alice", "Math"))
//	problem, err := LoadProblem(ctx, src)
type InMemorySource struct {
	CourseList  []Course
	StudentList []Student
}

// Courses returns a copy of the stored courses.
func (s *InMemorySource) Courses(context.Context) ([]Course, error) {
	return slices.Clone(s.CourseList), nil
}

// Students returns a copy of the stored students.
func (s *InMemorySource) Students(context.Context) ([]Student, error) {
	return slices.Clone(s.StudentList), nil
}

// AddCourse appends a course record.
func (s *InMemorySource) AddCourse(course Course) {
	s.CourseList = append(s.CourseList, course)
}

// AddStudent appends a student record.
func (s *InMemorySource) AddStudent(student Student) {
	s.StudentList = append(s.StudentList, student)
}

var (
	_ Source = &InMemorySource{}
)
