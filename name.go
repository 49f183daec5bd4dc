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
	"strings"
	"unique"
)

// Name identifies a student or a course using value interning.
// The same identifier appears in every preference list that mentions a course,
// so interning keeps comparisons and map lookups cheap.
//
// Name uses Go's unique.Handle for string interning, enabling:
//   - Fast equality comparisons (pointer comparison instead of string comparison)
//   - Reduced memory usage when the same course appears in many preference lists
//   - Safe concurrent access (interning is thread-safe)
type Name = unique.Handle[string]

// MakeName creates an interned Name from a string.
// Equal strings will return the same Name value.
//
// Example:
//
//	math1 := MakeName("Math")
//	math2 := MakeName("Math")
//	// math1 == math2
func MakeName(s string) Name {
	return unique.Make(s)
}

// EmptyName returns the interned empty string.
// Unassigned placements carry it as their course.
func EmptyName() Name {
	return unique.Make("")
}

// MakeNames interns every string in ss, preserving order.
func MakeNames(ss ...string) []Name {
	names := make([]Name, len(ss))
	for i, s := range ss {
		names[i] = MakeName(s)
	}
	return names
}

func joinNames(names []Name) string {
	if len(names) == 0 {
		return ""
	}
	values := make([]string, len(names))
	for i, name := range names {
		values[i] = name.Value()
	}
	return strings.Join(values, ", ")
}
