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

// Package source reads student and course records from files and writes
// finished assignments back out.
//
// Two input formats are supported. The CSV pair keeps the column layout
// schools already export: a students file with name and preferences columns,
// preferences joined by PreferenceSeparator, and a courses file with name,
// min_size and max_size columns. The YAML format holds both lists in a single
// document.
package source
