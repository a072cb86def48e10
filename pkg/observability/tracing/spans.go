package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanOperation represents a traced store operation.
type SpanOperation string

const (
	SpanOperationDBCount  SpanOperation = "db.count"
	SpanOperationDBQuery  SpanOperation = "db.query"
	SpanOperationDBInsert SpanOperation = "db.insert"
	SpanOperationDBUpdate SpanOperation = "db.update"
	SpanOperationDBDelete SpanOperation = "db.delete"
)

// StartDatabaseSpan creates a client span for a database operation.
func StartDatabaseSpan(ctx context.Context, operation SpanOperation, opts ...DatabaseSpanOption) (context.Context, trace.Span) {
	tracer := otel.Tracer("database")

	spanOpts := &databaseSpanOptions{
		attributes: []attribute.KeyValue{
			attribute.String("db.operation", string(operation)),
		},
	}
	for _, opt := range opts {
		opt(spanOpts)
	}

	spanName := fmt.Sprintf("DB %s", operation)
	if spanOpts.collection != "" {
		spanName = fmt.Sprintf("DB %s %s", operation, spanOpts.collection)
	}

	ctx, span := tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(spanOpts.attributes...)
	return ctx, span
}

// DatabaseSpanOption configures a database span.
type DatabaseSpanOption func(*databaseSpanOptions)

type databaseSpanOptions struct {
	collection string
	attributes []attribute.KeyValue
}

// WithDBCollection sets the collection name; it also becomes part of the span name.
func WithDBCollection(collection string) DatabaseSpanOption {
	return func(opts *databaseSpanOptions) {
		opts.collection = collection
		opts.attributes = append(opts.attributes, attribute.String("db.mongodb.collection", collection))
	}
}

// WithDBSystem sets the database system (e.g. "mongodb").
func WithDBSystem(system string) DatabaseSpanOption {
	return func(opts *databaseSpanOptions) {
		opts.attributes = append(opts.attributes, attribute.String("db.system", system))
	}
}

// WithDBName sets the database name.
func WithDBName(name string) DatabaseSpanOption {
	return func(opts *databaseSpanOptions) {
		opts.attributes = append(opts.attributes, attribute.String("db.name", name))
	}
}

// End records err (if any) on the span and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
