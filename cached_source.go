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
	"context"
	"slices"
	"sync"
)

// CachedSource wraps a Source and memoises its results.
// Useful when the underlying source is slow (remote exports, large files) and
// the same records are solved several times with different options.
// Errors are not cached. CachedSource is safe for concurrent use.
type CachedSource struct {
	source Source

	mu sync.Mutex

	courses          []Course
	coursesCached    bool
	coursesCalls     int
	coursesCacheHits int

	students          []Student
	studentsCached    bool
	studentsCalls     int
	studentsCacheHits int
}

// NewCachedSource wraps source with a cache.
func NewCachedSource(source Source) *CachedSource {
	return &CachedSource{source: source}
}

// Courses returns the cached courses, loading them on first use.
func (c *CachedSource) Courses(ctx context.Context) ([]Course, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coursesCalls++

	if c.coursesCached {
		c.coursesCacheHits++
		return slices.Clone(c.courses), nil
	}

	courses, err := c.source.Courses(ctx)
	if err != nil {
		return nil, err
	}

	c.courses = courses
	c.coursesCached = true
	return slices.Clone(courses), nil
}

// Students returns the cached students, loading them on first use.
func (c *CachedSource) Students(ctx context.Context) ([]Student, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.studentsCalls++

	if c.studentsCached {
		c.studentsCacheHits++
		return slices.Clone(c.students), nil
	}

	students, err := c.source.Students(ctx)
	if err != nil {
		return nil, err
	}

	c.students = students
	c.studentsCached = true
	return slices.Clone(students), nil
}

// CacheStats reports how often the cache answered instead of the source.
type CacheStats struct {
	CoursesCalls     int
	CoursesCacheHits int
	CoursesHitRate   float64

	StudentsCalls     int
	StudentsCacheHits int
	StudentsHitRate   float64

	TotalCalls     int
	TotalCacheHits int
	OverallHitRate float64
}

// GetCacheStats returns a snapshot of the cache counters.
func (c *CachedSource) GetCacheStats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{
		CoursesCalls:      c.coursesCalls,
		CoursesCacheHits:  c.coursesCacheHits,
		StudentsCalls:     c.studentsCalls,
		StudentsCacheHits: c.studentsCacheHits,
		TotalCalls:        c.coursesCalls + c.studentsCalls,
		TotalCacheHits:    c.coursesCacheHits + c.studentsCacheHits,
	}

	if stats.CoursesCalls > 0 {
		stats.CoursesHitRate = float64(stats.CoursesCacheHits) / float64(stats.CoursesCalls)
	}

	if stats.StudentsCalls > 0 {
		stats.StudentsHitRate = float64(stats.StudentsCacheHits) / float64(stats.StudentsCalls)
	}

	if stats.TotalCalls > 0 {
		stats.OverallHitRate = float64(stats.TotalCacheHits) / float64(stats.TotalCalls)
	}

	return stats
}

// ClearCache drops cached records and resets the counters.
func (c *CachedSource) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.courses = nil
	c.coursesCached = false
	c.students = nil
	c.studentsCached = false
	c.coursesCalls = 0
	c.coursesCacheHits = 0
	c.studentsCalls = 0
	c.studentsCacheHits = 0
}

var (
	_ Source = (*CachedSource)(nil)
)
