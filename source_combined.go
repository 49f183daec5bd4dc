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
)

// CombinedSource aggregates several sources into one.
// Records are concatenated in source order, so a course catalogue and a
// preference export kept in different places can feed a single Problem.
// Duplicates across sources are not merged; NewProblem reports them.
//
// Example:
//
//	catalogue := &InMemorySource{CourseList: courses}
//	survey := &InMemorySource{StudentList: students}
//	problem, err := LoadProblem(ctx, CombinedSource{catalogue, survey})
type CombinedSource []Source

// Courses queries every source in order and concatenates the results.
func (s CombinedSource) Courses(ctx context.Context) ([]Course, error) {
	var ret []Course
	for _, source := range s {
		courses, err := source.Courses(ctx)
		if err != nil {
			return nil, err
		}
		ret = append(ret, courses...)
	}
	return ret, nil
}

// Students queries every source in order and concatenates the results.
func (s CombinedSource) Students(ctx context.Context) ([]Student, error) {
	var ret []Student
	for _, source := range s {
		students, err := source.Students(ctx)
		if err != nil {
			return nil, err
		}
		ret = append(ret, students...)
	}
	return ret, nil
}

var (
	_ Source = CombinedSource{}
)
