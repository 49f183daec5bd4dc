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

package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/contriboss/sortinghat-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

// run places a in Math, b in Art (choice 2) and leaves c unassigned.
func run(t *testing.T) *sortinghat.RunResult {
	t.Helper()
	problem, err := sortinghat.NewProblem(
		[]sortinghat.Student{
			sortinghat.NewStudent("a", "Math"),
			sortinghat.NewStudent("b", "Math", "Art"),
			sortinghat.NewStudent("c"),
		},
		[]sortinghat.Course{
			sortinghat.NewCourse("Math", 1),
			sortinghat.NewCourse("Art", 1),
		},
	)
	require.NoError(t, err)

	pipeline := &sortinghat.Pipeline{Model: []sortinghat.ModelOption{sortinghat.WithUnassigned(true)}}
	res, err := pipeline.Run(context.Background(), problem)
	require.NoError(t, err)
	return res
}

func TestRecordAndPlacements(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()

	rec, err := a.Record(ctx, "term 1", run(t))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, "flow", rec.Backend)
	assert.Equal(t, "optimal", rec.Status)
	assert.Equal(t, 3, rec.Students)
	assert.Equal(t, 2, rec.Courses)
	assert.Equal(t, 1, rec.Unassigned)
	assert.Equal(t, 1+sortinghat.DefaultUnassignedPenalty, rec.Objective)

	got, err := a.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Label, got.Label)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, rec.Elapsed, got.Elapsed)

	placements, err := a.Placements(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, placements, 3)
	assert.Equal(t, "a: Math (choice 1)", placements[0].String())
	assert.Equal(t, "b: Art (choice 2)", placements[1].String())
	assert.True(t, placements[2].Unassigned)
	assert.Equal(t, sortinghat.DefaultUnassignedPenalty, placements[2].Cost)
}

func TestRecordInfeasibleRun(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()

	problem, err := sortinghat.NewProblem(
		[]sortinghat.Student{sortinghat.NewStudent("a", "Math"), sortinghat.NewStudent("b", "Math")},
		[]sortinghat.Course{sortinghat.NewCourse("Math", 1)},
	)
	require.NoError(t, err)
	res, err := (&sortinghat.Pipeline{}).Run(ctx, problem)
	require.NoError(t, err)
	require.Equal(t, sortinghat.StatusInfeasible, res.Outcome.Status)

	rec, err := a.Record(ctx, "", res)
	require.NoError(t, err)
	assert.Equal(t, "infeasible", rec.Status)

	placements, err := a.Placements(ctx, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, placements)
}

func TestListNewestFirst(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()

	base := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i, label := range []string{"first", "second", "third"} {
		a.now = func() time.Time { return base.Add(time.Duration(i) * time.Second) }
		rec, err := a.Record(ctx, label, run(t))
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}

	runs, err := a.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
	assert.Equal(t, "third", runs[0].Label)

	all, err := a.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUnknownRun(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()
	id := uuid.New()

	_, err := a.Get(ctx, id)
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = a.Placements(ctx, id)
	assert.ErrorIs(t, err, ErrRunNotFound)

	assert.ErrorIs(t, a.Delete(ctx, id), ErrRunNotFound)
}

func TestDeleteCascades(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()

	rec, err := a.Record(ctx, "to delete", run(t))
	require.NoError(t, err)
	require.NoError(t, a.Delete(ctx, rec.ID))

	var n int
	require.NoError(t, a.db.QueryRow(`SELECT COUNT(*) FROM placements`).Scan(&n))
	assert.Zero(t, n)
}

func TestRecordRequiresFormulation(t *testing.T) {
	a := openArchive(t)

	_, err := a.Record(context.Background(), "", &sortinghat.RunResult{})
	assert.Error(t, err)
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	a, err := Open(path)
	require.NoError(t, err)
	rec, err := a.Record(ctx, "kept", run(t))
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := Open(path)
	require.NoError(t, err)
	defer b.Close()

	runs, err := b.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, rec.ID, runs[0].ID)
}
