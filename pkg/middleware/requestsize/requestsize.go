// Package requestsize caps the size of submitted form bodies.
package requestsize

import (
	"errors"
	"net/http"

	"github.com/nimburion/airbnb-listings/pkg/server/router"
)

// Middleware enforces a maximum request body size in bytes.
// A non-positive maxBytes disables the middleware.
func Middleware(maxBytes int64) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if maxBytes <= 0 {
				return next(c)
			}

			req := c.Request()
			if req.Body == nil || req.Body == http.NoBody {
				return next(c)
			}

			if req.ContentLength > maxBytes {
				return payloadTooLarge(c)
			}

			req.Body = http.MaxBytesReader(c.Response(), req.Body, maxBytes)
			c.SetRequest(req)

			err := next(c)
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) && !c.Response().Written() {
				return payloadTooLarge(c)
			}
			return err
		}
	}
}

func payloadTooLarge(c router.Context) error {
	return c.String(http.StatusRequestEntityTooLarge, http.StatusText(http.StatusRequestEntityTooLarge))
}
