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

// Package sortinghat assigns students to elective courses.
//
// Each student ranks some of the offered courses. A Problem holds the
// validated records, Build turns it into a 0-1 Formulation whose objective
// charges rank-1 per ranked placement, Solver hands the formulation to a
// Backend under a time and step budget, and Decode checks the reported
// values against every constraint before producing an Assignment.
//
// Three backends are provided:
//   - FlowBackend solves the model as a min-cost flow (default)
//   - PseudoBooleanBackend uses a pseudo-boolean optimizer and is the only
//     backend that supports minimum enrollment
//   - LinearProgramBackend solves the LP relaxation with the simplex method
//
// When no assignment exists, Diagnose explains why with a max-flow
// bottleneck, and a Reporter renders the explanation.
package sortinghat
