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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Package-level tracer and meter. They follow the global providers, so an
// application that installs its own providers sees build, solve and decode
// spans without further wiring.
var (
	tracer = otel.Tracer("github.com/contriboss/sortinghat-go")
	meter  = otel.Meter("github.com/contriboss/sortinghat-go")
)

var (
	solveDuration metric.Float64Histogram
	solveTotal    metric.Int64Counter
	decodeTotal   metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics creates the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		solveDuration, err = meter.Float64Histogram(
			"sortinghat_solve_duration_seconds",
			metric.WithDescription("Duration of backend solve calls"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		solveTotal, err = meter.Int64Counter(
			"sortinghat_solve_total",
			metric.WithDescription("Total number of solve calls by backend and status"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		decodeTotal, err = meter.Int64Counter(
			"sortinghat_decode_total",
			metric.WithDescription("Total number of decoded results by outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordSolveMetrics(ctx context.Context, backend string, status Status, elapsed time.Duration) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("status", status.String()),
	)
	solveDuration.Record(ctx, elapsed.Seconds(), attrs)
	solveTotal.Add(ctx, 1, attrs)
}

func recordDecodeMetrics(ctx context.Context, outcome string) {
	if err := initMetrics(); err != nil {
		return
	}
	decodeTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
