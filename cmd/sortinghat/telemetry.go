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
	"io"
	"log/slog"
	"strings"

	"github.com/contriboss/sortinghat-go"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// newLogger builds the slog handler selected by --log-level and --log-format.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// setupTracing installs an SDK tracer provider that prints every span to w.
func setupTracing(w io.Writer) (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// runMetrics collects the library's OpenTelemetry instruments and the
// command's own assignment gauges into one Prometheus registry.
type runMetrics struct {
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider

	students *prometheus.GaugeVec
	status   *prometheus.GaugeVec
}

func newRunMetrics() (*runMetrics, error) {
	reg := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(mp)

	m := &runMetrics{
		registry: reg,
		provider: mp,
		students: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sortinghat_assignment_students",
			Help: "Students per placement outcome of the last run",
		}, []string{"placement"}),
		status: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sortinghat_run_status",
			Help: "1 for the status of the last run",
		}, []string{"status"}),
	}
	reg.MustRegister(m.students, m.status)
	return m, nil
}

// observe records the outcome of a run.
func (m *runMetrics) observe(outcome sortinghat.Outcome) {
	m.status.WithLabelValues(outcome.Status.String()).Set(1)
	if outcome.Assignment == nil {
		return
	}
	summary := outcome.Assignment.Summary()
	for _, rank := range summary.Ranks() {
		m.students.WithLabelValues(fmt.Sprintf("choice-%d", rank)).Set(float64(summary.RankHistogram[rank]))
	}
	m.students.WithLabelValues("unranked").Set(float64(summary.Unranked))
	m.students.WithLabelValues("unassigned").Set(float64(summary.Unassigned))
}

// write stores the registry in the node exporter textfile format.
func (m *runMetrics) write(ctx context.Context, path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return m.provider.Shutdown(ctx)
}
