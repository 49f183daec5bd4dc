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
	"errors"
	"fmt"
	"strings"
)

// Sentinel values for errors.Is checks against the typed errors below.
var (
	ErrMalformedInput       = errors.New("malformed input")
	ErrDegenerateModel      = errors.New("degenerate model")
	ErrInconsistentSolution = errors.New("inconsistent solution")
	ErrNilFormulation       = errors.New("formulation is nil")
	ErrNilProblem           = errors.New("problem is nil")
)

// IssueKind classifies a structural problem in the input records.
type IssueKind int

const (
	// IssueEmptyName means an identifier is the empty string
	IssueEmptyName IssueKind = iota
	// IssueDuplicate means an identifier is declared twice
	IssueDuplicate
	// IssueNegativeCapacity means a course capacity is below zero
	IssueNegativeCapacity
	// IssueNegativeMinimum means a minimum enrollment is below zero
	IssueNegativeMinimum
	// IssueMinimumAboveCapacity means a course can never reach its minimum
	IssueMinimumAboveCapacity
	// IssueUnknownCourse means a preference names an undeclared course
	IssueUnknownCourse
	// IssueRepeatedPreference means a preference list names a course twice
	IssueRepeatedPreference
)

func (k IssueKind) String() string {
	switch k {
	case IssueEmptyName:
		return "empty identifier"
	case IssueDuplicate:
		return "duplicate identifier"
	case IssueNegativeCapacity:
		return "negative capacity"
	case IssueNegativeMinimum:
		return "negative minimum enrollment"
	case IssueMinimumAboveCapacity:
		return "minimum enrollment exceeds capacity"
	case IssueUnknownCourse:
		return "unknown course"
	case IssueRepeatedPreference:
		return "repeated preference"
	default:
		return fmt.Sprintf("issue(%d)", int(k))
	}
}

// MalformedInputError reports a structural problem in the student or course
// records. It is a data problem, not something the optimizer can fix.
type MalformedInputError struct {
	// Entity is "student" or "course"
	Entity string
	// Name of the offending entity (may be empty for IssueEmptyName)
	Name string
	Kind IssueKind
	// Detail carries the referenced value, e.g. the unknown course name
	Detail string
}

// Error implements the error interface
func (e *MalformedInputError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("malformed %s %q: %s: %s", e.Entity, e.Name, e.Kind, e.Detail)
	}
	return fmt.Sprintf("malformed %s %q: %s", e.Entity, e.Name, e.Kind)
}

// Is reports whether target is ErrMalformedInput.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// DegenerateReason explains why a student cannot be placed by construction.
type DegenerateReason int

const (
	// ReasonNoRankedCourse means strict mode and an empty preference list
	ReasonNoRankedCourse DegenerateReason = iota
	// ReasonNoSeats means every otherwise eligible course has zero capacity
	ReasonNoSeats
)

func (r DegenerateReason) String() string {
	switch r {
	case ReasonNoRankedCourse:
		return "no ranked course is eligible"
	case ReasonNoSeats:
		return "every eligible course has zero capacity"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// DegenerateModelError is returned by Build when a student has no eligible
// assignment and unassigned placements are disabled.
type DegenerateModelError struct {
	Student Name
	Reason  DegenerateReason
}

// Error implements the error interface
func (e *DegenerateModelError) Error() string {
	return fmt.Sprintf("degenerate model: student %s cannot be placed: %s", e.Student.Value(), e.Reason)
}

// Is reports whether target is ErrDegenerateModel.
func (e *DegenerateModelError) Is(target error) bool {
	return target == ErrDegenerateModel
}

// OptionsError reports a model configuration that cannot produce a
// well-ordered objective.
type OptionsError struct {
	Option string
	Detail string
}

// Error implements the error interface
func (e *OptionsError) Error() string {
	return fmt.Sprintf("invalid option %s: %s", e.Option, e.Detail)
}

// UnsupportedFormulationError is returned when a backend cannot represent a
// feature present in the formulation.
type UnsupportedFormulationError struct {
	Backend string
	Feature string
}

// Error implements the error interface
func (e *UnsupportedFormulationError) Error() string {
	return fmt.Sprintf("backend %s does not support %s", e.Backend, e.Feature)
}

// ViolationKind classifies a broken constraint found while decoding.
type ViolationKind int

const (
	ViolationLength ViolationKind = iota
	ViolationCoverage
	ViolationCapacity
	ViolationMinEnrollment
	ViolationIneligible
	ViolationObjective
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationLength:
		return "variable count"
	case ViolationCoverage:
		return "coverage"
	case ViolationCapacity:
		return "capacity"
	case ViolationMinEnrollment:
		return "minimum enrollment"
	case ViolationIneligible:
		return "eligibility"
	case ViolationObjective:
		return "objective"
	default:
		return fmt.Sprintf("violation(%d)", int(k))
	}
}

// Violation is a single broken constraint.
type Violation struct {
	Kind ViolationKind
	// Subject is the student or course the constraint belongs to
	Subject Name
	Want    string
	Got     string
}

// String returns a human-readable representation of the violation.
func (v Violation) String() string {
	if v.Subject == EmptyName() {
		return fmt.Sprintf("%s: want %s, got %s", v.Kind, v.Want, v.Got)
	}
	return fmt.Sprintf("%s of %s: want %s, got %s", v.Kind, v.Subject.Value(), v.Want, v.Got)
}

// InconsistentSolutionError means the decoded assignment breaks a constraint
// that was handed to the solver. It signals a backend or encoding defect and
// must halt the pipeline.
type InconsistentSolutionError struct {
	Backend    string
	Violations []Violation
}

// Error implements the error interface
func (e *InconsistentSolutionError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("inconsistent solution from %s: %s", e.Backend, strings.Join(parts, "; "))
}

// Is reports whether target is ErrInconsistentSolution.
func (e *InconsistentSolutionError) Is(target error) bool {
	return target == ErrInconsistentSolution
}

var (
	_ error = (*MalformedInputError)(nil)
	_ error = (*DegenerateModelError)(nil)
	_ error = (*OptionsError)(nil)
	_ error = (*UnsupportedFormulationError)(nil)
	_ error = (*InconsistentSolutionError)(nil)
)
