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
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// The package tracer is bound to the first global provider, so every test
// shares one recorder.
var spanRecorder = sync.OnceValue(func() *tracetest.SpanRecorder {
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	return recorder
})

func lastSpan(recorder *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	spans := recorder.Ended()
	for i := len(spans) - 1; i >= 0; i-- {
		if spans[i].Name() == name {
			return spans[i]
		}
	}
	return nil
}

func spanAttribute(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestPipelineSpans(t *testing.T) {
	recorder := spanRecorder()

	run, err := (&Pipeline{}).Run(context.Background(), mathArtProblem(t))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	build := lastSpan(recorder, "sortinghat.Build")
	if build == nil {
		t.Fatalf("expected a sortinghat.Build span")
	}
	if v, ok := spanAttribute(build, "sortinghat.variables"); !ok || v.AsInt64() != int64(run.Formulation.NumVariables()) {
		t.Fatalf("unexpected variables attribute: %v", v)
	}

	solve := lastSpan(recorder, "Solver.Solve")
	if solve == nil {
		t.Fatalf("expected a Solver.Solve span")
	}
	if v, ok := spanAttribute(solve, "sortinghat.status"); !ok || v.AsString() != "optimal" {
		t.Fatalf("unexpected status attribute: %v", v)
	}
	if v, ok := spanAttribute(solve, "sortinghat.backend"); !ok || v.AsString() != "flow" {
		t.Fatalf("unexpected backend attribute: %v", v)
	}

	decode := lastSpan(recorder, "sortinghat.Decode")
	if decode == nil {
		t.Fatalf("expected a sortinghat.Decode span")
	}
	if v, ok := spanAttribute(decode, "sortinghat.backend"); !ok || v.AsString() != "flow" {
		t.Fatalf("unexpected decode backend attribute: %v", v)
	}
}

func TestBuildSpanRecordsDegenerateModel(t *testing.T) {
	recorder := spanRecorder()

	p := mustProblem(t, []Student{NewStudent("lonely")}, []Course{NewCourse("Math", 1)})
	if _, err := Build(p); err == nil {
		t.Fatalf("expected error")
	}

	build := lastSpan(recorder, "sortinghat.Build")
	if build == nil {
		t.Fatalf("expected a sortinghat.Build span")
	}
	if len(build.Events()) == 0 {
		t.Fatalf("expected the error to be recorded on the span")
	}
}
