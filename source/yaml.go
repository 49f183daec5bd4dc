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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/contriboss/sortinghat-go"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Document is the YAML layout of a problem:
//
//	courses:
//	  - name: Math
//	    capacity: 20
//	    min_enrollment: 5
//	students:
//	  - name: alice
//	    preferences: [Math, Art]
type Document struct {
	Courses  []CourseRecord  `yaml:"courses" validate:"dive"`
	Students []StudentRecord `yaml:"students" validate:"dive"`
}

// CourseRecord is one entry of Document.Courses.
type CourseRecord struct {
	Name          string `yaml:"name" validate:"required"`
	Capacity      int    `yaml:"capacity"`
	MinEnrollment int    `yaml:"min_enrollment,omitempty"`
}

// StudentRecord is one entry of Document.Students.
type StudentRecord struct {
	Name        string   `yaml:"name" validate:"required"`
	Preferences []string `yaml:"preferences,omitempty" validate:"dive,required"`
}

// Validate checks the document shape. Capacities, duplicates and unknown
// courses are checked later by sortinghat.NewProblem.
func (d *Document) Validate() error {
	return validate.Struct(d)
}

// YAMLSource serves the records of a parsed Document.
type YAMLSource struct {
	doc Document
}

// OpenYAML reads and parses the document at path.
func OpenYAML(path string) (*YAMLSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read problem: %w", err)
	}
	src, err := ParseYAML(bytes.NewReader(data))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return src, nil
}

// ParseYAML decodes a single document from r. Unknown keys are rejected.
func ParseYAML(r io.Reader) (*YAMLSource, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return nil, &ParseError{Path: "yaml", Err: err}
	}
	if err := doc.Validate(); err != nil {
		return nil, &ParseError{Path: "yaml", Err: err}
	}
	return &YAMLSource{doc: doc}, nil
}

// NewYAMLSource serves an already built document.
func NewYAMLSource(doc Document) *YAMLSource {
	return &YAMLSource{doc: doc}
}

// Document returns the parsed document.
func (s *YAMLSource) Document() Document {
	return s.doc
}

// Courses implements sortinghat.Source.
func (s *YAMLSource) Courses(ctx context.Context) ([]sortinghat.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	courses := make([]sortinghat.Course, len(s.doc.Courses))
	for i, c := range s.doc.Courses {
		courses[i] = sortinghat.Course{
			Name:          sortinghat.MakeName(c.Name),
			Capacity:      c.Capacity,
			MinEnrollment: c.MinEnrollment,
		}
	}
	return courses, nil
}

// Students implements sortinghat.Source.
func (s *YAMLSource) Students(ctx context.Context) ([]sortinghat.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	students := make([]sortinghat.Student, len(s.doc.Students))
	for i, st := range s.doc.Students {
		students[i] = sortinghat.NewStudent(st.Name, st.Preferences...)
	}
	return students, nil
}

// WriteYAML encodes the problem records as a Document.
func WriteYAML(w io.Writer, problem *sortinghat.Problem) error {
	var doc Document
	for c := range problem.Courses() {
		doc.Courses = append(doc.Courses, CourseRecord{
			Name:          c.Name.Value(),
			Capacity:      c.Capacity,
			MinEnrollment: c.MinEnrollment,
		})
	}
	for s := range problem.Students() {
		record := StudentRecord{Name: s.Name.Value()}
		for _, pref := range s.Preferences {
			record.Preferences = append(record.Preferences, pref.Value())
		}
		doc.Students = append(doc.Students, record)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode problem: %w", err)
	}
	return enc.Close()
}

var (
	_ sortinghat.Source = (*YAMLSource)(nil)
)
