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

package source

import (
	"bytes"
	"context"
	"testing"

	"github.com/contriboss/sortinghat-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// placedAssignment has one unique optimum: a Math, b Art (choice 2),
// c unassigned, d Drama.
func placedAssignment(t *testing.T) *sortinghat.Assignment {
	t.Helper()

	problem, err := sortinghat.NewProblem(
		[]sortinghat.Student{
			sortinghat.NewStudent("a", "Math"),
			sortinghat.NewStudent("b", "Math", "Art"),
			sortinghat.NewStudent("c"),
			sortinghat.NewStudent("d", "Drama"),
		},
		[]sortinghat.Course{
			sortinghat.NewCourse("Math", 1),
			sortinghat.NewCourse("Art", 1),
			sortinghat.NewCourse("Drama", 1),
		},
	)
	require.NoError(t, err)

	pipeline := &sortinghat.Pipeline{Model: []sortinghat.ModelOption{sortinghat.WithUnassigned(true)}}
	run, err := pipeline.Run(context.Background(), problem)
	require.NoError(t, err)
	require.Equal(t, sortinghat.StatusOptimal, run.Outcome.Status)
	return run.Outcome.Assignment
}

func TestWriteAssignmentCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAssignmentCSV(&buf, placedAssignment(t)))

	want := "student,course,rank\n" +
		"a,Math,1\n" +
		"b,Art,2\n" +
		"c,,\n" +
		"d,Drama,1\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteAssignmentXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAssignmentXLSX(&buf, placedAssignment(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetAssignment, SheetEnrollment}, f.GetSheetList())

	rows, err := f.GetRows(SheetAssignment)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"student", "course", "rank"}, rows[0])
	assert.Equal(t, []string{"b", "Art", "2"}, rows[2])
	assert.Equal(t, []string{"c"}, rows[3])

	rows, err = f.GetRows(SheetEnrollment)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"course", "students"},
		{"Art", "1"},
		{"Drama", "1"},
		{"Math", "1"},
	}, rows)
}
