// Package tracing starts an OpenTelemetry server span for every HTTP request.
package tracing

import (
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/nimburion/airbnb-listings/pkg/middleware/requestid"
	"github.com/nimburion/airbnb-listings/pkg/server/router"
)

// Config holds configuration for the tracing middleware.
type Config struct {
	// TracerName identifies the tracer (e.g., "http-server")
	TracerName string

	// ExcludedPathPrefixes disables tracing for matching path prefixes.
	ExcludedPathPrefixes []string
}

// Tracing extracts the incoming trace context, starts a server span named after the
// route pattern and stores the span in the request context for store spans to join.
func Tracing(cfg Config) router.MiddlewareFunc {
	if cfg.TracerName == "" {
		cfg.TracerName = "http-server"
	}

	tracer := otel.Tracer(cfg.TracerName)

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			req := c.Request()
			if excluded(req.URL.Path, cfg.ExcludedPathPrefixes) {
				return next(c)
			}

			ctx := otel.GetTextMapPropagator().Extract(req.Context(), propagation.HeaderCarrier(req.Header))

			route, _ := c.Get(router.RouteKey).(string)
			if route == "" {
				route = req.URL.Path
			}
			ctx, span := tracer.Start(ctx, fmt.Sprintf("HTTP %s %s", req.Method, route), trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			span.SetAttributes(
				attribute.String("http.method", req.Method),
				attribute.String("http.route", route),
				attribute.String("http.target", req.URL.Path),
				attribute.String("http.user_agent", req.UserAgent()),
			)
			if requestID := requestid.GetRequestID(req.Context()); requestID != "" {
				span.SetAttributes(attribute.String("request.id", requestID))
			}

			c.SetRequest(req.WithContext(ctx))

			err := next(c)

			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}

			status := c.Response().Status()
			span.SetAttributes(attribute.Int("http.status_code", status))
			if status >= 500 {
				span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
			} else {
				span.SetStatus(codes.Ok, "")
			}
			return nil
		}
	}
}

func excluded(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
