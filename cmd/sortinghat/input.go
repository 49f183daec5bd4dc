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

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/contriboss/sortinghat-go"
	"github.com/contriboss/sortinghat-go/source"
	"github.com/spf13/pflag"
)

func addInputFlags(flags *pflag.FlagSet) {
	flags.String("students", "", "students CSV (name, preferences joined by "+source.PreferenceSeparator+")")
	flags.String("courses", "", "courses CSV (name, min_size, max_size)")
	flags.StringSlice("problem", nil, "YAML problem documents, concatenated in order")
}

func addModelFlags(flags *pflag.FlagSet) {
	flags.String("mode", "strict", "eligibility: strict (ranked courses only) or permissive")
	flags.Bool("allow-unassigned", false, "allow leaving students without a course")
	flags.String("fallback", "", "preferred fallback when both are enabled: unranked-course or unassigned")
	flags.Int("unranked-penalty", 0, "cost of an unranked course (0 keeps the default)")
	flags.Int("unassigned-penalty", 0, "cost of leaving a student unassigned (0 keeps the default)")
	flags.String("rank-cost", "linear", "cost per preference rank: linear or quadratic")
}

// loadProblem reads the configured inputs.
func loadProblem(ctx context.Context, cfg Config) (*sortinghat.Problem, error) {
	if err := cfg.RequireInput(); err != nil {
		return nil, err
	}

	var src sortinghat.Source
	if len(cfg.Problem) > 0 {
		combined := make(sortinghat.CombinedSource, 0, len(cfg.Problem))
		for _, path := range cfg.Problem {
			s, err := source.OpenYAML(path)
			if err != nil {
				return nil, err
			}
			combined = append(combined, s)
		}
		src = combined
	} else {
		src = &source.CSVSource{StudentsPath: cfg.Students, CoursesPath: cfg.Courses}
	}

	problem, err := sortinghat.LoadProblem(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load problem: %w", err)
	}
	return problem, nil
}

// outputFormat picks the assignment writer from the file extension.
func outputFormat(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", "":
		return "csv", nil
	case ".xlsx":
		return "xlsx", nil
	default:
		return "", fmt.Errorf("unsupported output format %q", ext)
	}
}
