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
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/contriboss/sortinghat-go"
	"github.com/xuri/excelize/v2"
)

// Assignment output columns.
var assignmentHeader = []string{"student", "course", "rank"}

// Sheet names of the XLSX export.
const (
	SheetAssignment = "Assignment"
	SheetEnrollment = "Enrollment"
)

// WriteAssignmentCSV writes one row per student in input order. Unassigned
// students have an empty course, unranked placements an empty rank.
func WriteAssignmentCSV(w io.Writer, a *sortinghat.Assignment) error {
	out := csv.NewWriter(w)
	if err := out.Write(assignmentHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for p := range a.All() {
		if err := out.Write(assignmentRow(p)); err != nil {
			return fmt.Errorf("write %s: %w", p.Student.Value(), err)
		}
	}
	out.Flush()
	return out.Error()
}

// WriteAssignmentXLSX writes a workbook with the placements on one sheet and
// the per-course enrollment on another.
func WriteAssignmentXLSX(w io.Writer, a *sortinghat.Assignment) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetAssignment); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeRow(f, SheetAssignment, 1, assignmentHeader); err != nil {
		return err
	}
	row := 2
	for p := range a.All() {
		if err := writeRow(f, SheetAssignment, row, assignmentRow(p)); err != nil {
			return err
		}
		row++
	}

	if _, err := f.NewSheet(SheetEnrollment); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	if err := writeRow(f, SheetEnrollment, 1, []string{"course", "students"}); err != nil {
		return err
	}
	enrollment := a.Summary().Enrollment
	courses := slices.SortedFunc(maps.Keys(enrollment), func(x, y sortinghat.Name) int {
		return cmp.Compare(x.Value(), y.Value())
	})
	for i, course := range courses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetEnrollment, cell, course.Value()); err != nil {
			return err
		}
		cell, err = excelize.CoordinatesToCellName(2, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetEnrollment, cell, enrollment[course]); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	for i, v := range values {
		if v == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("%s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func assignmentRow(p sortinghat.Placement) []string {
	row := []string{p.Student.Value(), "", ""}
	if !p.Unassigned {
		row[1] = p.Course.Value()
	}
	if p.Ranked() {
		row[2] = strconv.Itoa(p.Rank)
	}
	return row
}
