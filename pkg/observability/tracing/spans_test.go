package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	previous := otel.GetTracerProvider()
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	return recorder
}

func attrMap(attrs []attribute.KeyValue) map[string]string {
	out := make(map[string]string, len(attrs))
	for _, kv := range attrs {
		out[string(kv.Key)] = kv.Value.Emit()
	}
	return out
}

func TestStartDatabaseSpan(t *testing.T) {
	recorder := setupTestTracer(t)

	_, span := StartDatabaseSpan(context.Background(), SpanOperationDBQuery,
		WithDBSystem("mongodb"),
		WithDBName("Aanand"),
		WithDBCollection("airbnbs"),
	)
	End(span, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	got := spans[0]
	if got.Name() != "DB db.query airbnbs" {
		t.Fatalf("unexpected span name %q", got.Name())
	}
	attrs := attrMap(got.Attributes())
	want := map[string]string{
		"db.operation":          "db.query",
		"db.system":             "mongodb",
		"db.name":               "Aanand",
		"db.mongodb.collection": "airbnbs",
	}
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attribute %s = %q, want %q", k, attrs[k], v)
		}
	}
	if got.Status().Code != codes.Ok {
		t.Fatalf("expected ok status, got %v", got.Status().Code)
	}
}

func TestEnd_RecordsError(t *testing.T) {
	recorder := setupTestTracer(t)

	_, span := StartDatabaseSpan(context.Background(), SpanOperationDBDelete)
	End(span, errors.New("connection reset"))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "DB db.delete" {
		t.Fatalf("unexpected span name %q", spans[0].Name())
	}
	if spans[0].Status().Code != codes.Error {
		t.Fatalf("expected error status, got %v", spans[0].Status().Code)
	}
	if len(spans[0].Events()) == 0 {
		t.Fatal("expected recorded error event")
	}
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), TracerConfig{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestNewTracerProvider_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  TracerConfig
	}{
		{"missing service name", TracerConfig{Enabled: true, Endpoint: "localhost:4317", SampleRate: 1}},
		{"missing endpoint", TracerConfig{Enabled: true, ServiceName: "airbnb-listings", SampleRate: 1}},
		{"sample rate out of range", TracerConfig{Enabled: true, ServiceName: "airbnb-listings", Endpoint: "localhost:4317", SampleRate: 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTracerProvider(context.Background(), tt.cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
