// Package requestid tags every request with an identifier for log and trace correlation.
package requestid

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nimburion/airbnb-listings/pkg/observability/logger"
	"github.com/nimburion/airbnb-listings/pkg/server/router"
)

// RequestIDHeader is the HTTP header name for request ID.
const RequestIDHeader = "X-Request-ID"

// ContextKey is the router context key holding the request ID.
const ContextKey = "request_id"

// maxLength bounds client-supplied IDs before they reach logs.
const maxLength = 128

// RequestID reuses a well-formed X-Request-ID header or generates a UUID, then echoes it
// in the response and stores it in both the router and the request context.
func RequestID() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			requestID := strings.TrimSpace(c.Request().Header.Get(RequestIDHeader))
			if requestID == "" || len(requestID) > maxLength {
				requestID = uuid.NewString()
			}

			c.Set(ContextKey, requestID)
			c.Response().Header().Set(RequestIDHeader, requestID)

			ctx := logger.ContextWithRequestID(c.Request().Context(), requestID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetRequestID extracts the request ID from a context.
// Returns empty string if no request ID is found.
func GetRequestID(ctx context.Context) string {
	return logger.RequestIDFromContext(ctx)
}
