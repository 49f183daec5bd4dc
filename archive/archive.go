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

// Package archive keeps a history of solved assignments in SQLite so that
// earlier runs can be listed and compared.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/contriboss/sortinghat-go"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	label      TEXT NOT NULL,
	created_at TEXT NOT NULL,
	backend    TEXT NOT NULL,
	status     TEXT NOT NULL,
	objective  INTEGER NOT NULL,
	students   INTEGER NOT NULL,
	courses    INTEGER NOT NULL,
	unassigned INTEGER NOT NULL,
	elapsed_ns INTEGER NOT NULL,
	detail     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS placements (
	run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	student  TEXT NOT NULL,
	course   TEXT,
	rank     INTEGER NOT NULL,
	cost     INTEGER NOT NULL,
	PRIMARY KEY (run_id, position)
);
CREATE INDEX IF NOT EXISTS runs_created_at ON runs(created_at);
`

// createdLayout is fixed width so that created_at sorts as text.
const createdLayout = "2006-01-02T15:04:05.000000000Z"

// Run is the stored summary of one pipeline run.
type Run struct {
	ID         uuid.UUID
	Label      string
	CreatedAt  time.Time
	Backend    string
	Status     string
	Objective  int
	Students   int
	Courses    int
	Unassigned int
	Elapsed    time.Duration
	Detail     string
}

// String returns a one-line description of the run.
func (r Run) String() string {
	return fmt.Sprintf("%s %s %s/%s cost=%d students=%d unassigned=%d",
		r.ID, r.CreatedAt.Format(time.RFC3339), r.Backend, r.Status, r.Objective, r.Students, r.Unassigned)
}

// Archive is a SQLite-backed run history. It is safe for concurrent use.
type Archive struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the archive database at path.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	// :memory: databases exist per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return &Archive{db: db, now: time.Now}, nil
}

// Close releases the database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Record stores a run and its placements under a fresh ID.
func (a *Archive) Record(ctx context.Context, label string, run *sortinghat.RunResult) (Run, error) {
	if run == nil || run.Formulation == nil {
		return Run{}, errors.New("record: run has no formulation")
	}

	problem := run.Formulation.Problem()
	rec := Run{
		ID:        uuid.New(),
		Label:     label,
		CreatedAt: a.now().UTC(),
		Backend:   run.Result.Backend,
		Status:    run.Outcome.Status.String(),
		Objective: run.Outcome.Objective,
		Students:  problem.NumStudents(),
		Courses:   problem.NumCourses(),
		Elapsed:   run.Result.Elapsed,
		Detail:    run.Result.Detail,
	}
	if run.Outcome.Assignment != nil {
		rec.Unassigned = run.Outcome.Assignment.Summary().Unassigned
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, label, created_at, backend, status, objective, students, courses, unassigned, elapsed_ns, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.Label, rec.CreatedAt.Format(createdLayout), rec.Backend, rec.Status,
		rec.Objective, rec.Students, rec.Courses, rec.Unassigned, int64(rec.Elapsed), rec.Detail)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	if run.Outcome.Assignment != nil {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO placements (run_id, position, student, course, rank, cost) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return Run{}, fmt.Errorf("record placements: %w", err)
		}
		defer stmt.Close()

		position := 0
		for p := range run.Outcome.Assignment.All() {
			course := sql.NullString{String: p.Course.Value(), Valid: !p.Unassigned}
			if _, err := stmt.ExecContext(ctx, rec.ID.String(), position, p.Student.Value(), course, p.Rank, p.Cost); err != nil {
				return Run{}, fmt.Errorf("record placement of %s: %w", p.Student.Value(), err)
			}
			position++
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record: %w", err)
	}
	return rec, nil
}

// List returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (a *Archive) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, label, created_at, backend, status, objective, students, courses, unassigned, elapsed_ns, detail
		 FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get returns one run.
func (a *Archive) Get(ctx context.Context, id uuid.UUID) (Run, error) {
	row := a.db.QueryRowContext(ctx,
		`SELECT id, label, created_at, backend, status, objective, students, courses, unassigned, elapsed_ns, detail
		 FROM runs WHERE id = ?`, id.String())
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return r, err
}

// Placements returns the stored placements of a run in student input order.
func (a *Archive) Placements(ctx context.Context, id uuid.UUID) ([]sortinghat.Placement, error) {
	if _, err := a.Get(ctx, id); err != nil {
		return nil, err
	}

	rows, err := a.db.QueryContext(ctx,
		`SELECT student, course, rank, cost FROM placements WHERE run_id = ? ORDER BY position`, id.String())
	if err != nil {
		return nil, fmt.Errorf("list placements: %w", err)
	}
	defer rows.Close()

	var placements []sortinghat.Placement
	for rows.Next() {
		var (
			student string
			course  sql.NullString
			p       sortinghat.Placement
		)
		if err := rows.Scan(&student, &course, &p.Rank, &p.Cost); err != nil {
			return nil, fmt.Errorf("scan placement: %w", err)
		}
		p.Student = sortinghat.MakeName(student)
		if course.Valid {
			p.Course = sortinghat.MakeName(course.String)
		} else {
			p.Course = sortinghat.EmptyName()
			p.Unassigned = true
		}
		placements = append(placements, p)
	}
	return placements, rows.Err()
}

// Delete removes a run and its placements.
func (a *Archive) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		r         Run
		id        string
		createdAt string
		elapsed   int64
	)
	err := s.Scan(&id, &r.Label, &createdAt, &r.Backend, &r.Status, &r.Objective,
		&r.Students, &r.Courses, &r.Unassigned, &elapsed, &r.Detail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	if r.ID, err = uuid.Parse(id); err != nil {
		return Run{}, fmt.Errorf("run id %q: %w", id, err)
	}
	if r.CreatedAt, err = time.Parse(createdLayout, createdAt); err != nil {
		return Run{}, fmt.Errorf("run %s created_at: %w", id, err)
	}
	r.Elapsed = time.Duration(elapsed)
	return r, nil
}
