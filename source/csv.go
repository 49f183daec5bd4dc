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
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/contriboss/sortinghat-go"
)

// Column names of the CSV formats.
const (
	ColumnName          = "name"
	ColumnPreferences   = "preferences"
	ColumnMinSize       = "min_size"
	ColumnMaxSize       = "max_size"
	PreferenceSeparator = "@!@"
)

// CSVSource reads records from a students file and a courses file.
//
// Example:
//
//	src := &source.CSVSource{StudentsPath: "students.csv", CoursesPath: "courses.csv"}
//	problem, err := sortinghat.LoadProblem(ctx, src)
type CSVSource struct {
	StudentsPath string
	CoursesPath  string
}

// Courses implements sortinghat.Source.
func (s *CSVSource) Courses(ctx context.Context) ([]sortinghat.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.CoursesPath)
	if err != nil {
		return nil, fmt.Errorf("open courses: %w", err)
	}
	defer f.Close()
	return ReadCoursesCSV(f, s.CoursesPath)
}

// Students implements sortinghat.Source.
func (s *CSVSource) Students(ctx context.Context) ([]sortinghat.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.StudentsPath)
	if err != nil {
		return nil, fmt.Errorf("open students: %w", err)
	}
	defer f.Close()
	return ReadStudentsCSV(f, s.StudentsPath)
}

// ReadStudentsCSV parses a students file. The name column is required, the
// preferences column may be empty for students without a ranking. Extra
// columns are ignored. path only labels errors.
func ReadStudentsCSV(r io.Reader, path string) ([]sortinghat.Student, error) {
	table, err := readTable(r, path, ColumnName, ColumnPreferences)
	if err != nil {
		return nil, err
	}

	students := make([]sortinghat.Student, 0, len(table.rows))
	for _, row := range table.rows {
		student := sortinghat.Student{Name: sortinghat.MakeName(strings.TrimSpace(row[table.columns[ColumnName]]))}
		if raw := strings.TrimSpace(row[table.columns[ColumnPreferences]]); raw != "" {
			for _, pref := range strings.Split(raw, PreferenceSeparator) {
				student.Preferences = append(student.Preferences, sortinghat.MakeName(strings.TrimSpace(pref)))
			}
		}
		students = append(students, student)
	}
	return students, nil
}

// ReadCoursesCSV parses a courses file with name, min_size and max_size
// columns. path only labels errors.
func ReadCoursesCSV(r io.Reader, path string) ([]sortinghat.Course, error) {
	table, err := readTable(r, path, ColumnName, ColumnMinSize, ColumnMaxSize)
	if err != nil {
		return nil, err
	}

	courses := make([]sortinghat.Course, 0, len(table.rows))
	for i, row := range table.rows {
		line := table.lines[i]
		minSize, err := table.integer(row, ColumnMinSize, line)
		if err != nil {
			return nil, err
		}
		maxSize, err := table.integer(row, ColumnMaxSize, line)
		if err != nil {
			return nil, err
		}
		courses = append(courses, sortinghat.Course{
			Name:          sortinghat.MakeName(strings.TrimSpace(row[table.columns[ColumnName]])),
			Capacity:      maxSize,
			MinEnrollment: minSize,
		})
	}
	return courses, nil
}

type csvTable struct {
	path    string
	columns map[string]int
	rows    [][]string
	// lines holds the line each row starts on
	lines []int
}

func readTable(r io.Reader, path string, required ...string) (*csvTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Path: path, Err: errors.New("empty file")}
	}
	if err != nil {
		return nil, &ParseError{Path: path, Line: 1, Err: err}
	}

	t := &csvTable{path: path, columns: make(map[string]int, len(header))}
	for i, col := range header {
		t.columns[strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))] = i
	}
	for _, col := range required {
		if _, ok := t.columns[col]; !ok {
			return nil, &ParseError{Path: path, Line: 1, Err: fmt.Errorf("%w %q", ErrMissingColumn, col)}
		}
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &ParseError{Path: path, Line: pe.Line, Err: pe.Err}
			}
			return nil, &ParseError{Path: path, Err: err}
		}
		line, _ := reader.FieldPos(0)
		t.rows = append(t.rows, row)
		t.lines = append(t.lines, line)
	}
}

func (t *csvTable) integer(row []string, column string, line int) (int, error) {
	raw := strings.TrimSpace(row[t.columns[column]])
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ParseError{Path: t.path, Line: line, Err: fmt.Errorf("%s: %q is not an integer", column, raw)}
	}
	return n, nil
}

var (
	_ sortinghat.Source = (*CSVSource)(nil)
)
