// Package recovery turns handler panics into logged 500 responses.
package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/nimburion/airbnb-listings/pkg/middleware/requestid"
	"github.com/nimburion/airbnb-listings/pkg/observability/logger"
	"github.com/nimburion/airbnb-listings/pkg/server/router"
)

// Recovery creates middleware that recovers from panics in HTTP handlers.
// The panic and its stack are logged; the client gets a plain 500 unless a response was already started.
func Recovery(log logger.Logger) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				requestID := requestid.GetRequestID(c.Request().Context())
				log.Error("panic recovered",
					"request_id", requestID,
					"panic", r,
					"stack", string(debug.Stack()),
				)

				if !c.Response().Written() {
					err = c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
				}
			}()

			return next(c)
		}
	}
}
