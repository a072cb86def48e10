// Package metrics records Prometheus HTTP metrics per registered route.
package metrics

import (
	"net/http"
	"time"

	"github.com/nimburion/airbnb-listings/pkg/observability/metrics"
	"github.com/nimburion/airbnb-listings/pkg/server/router"
)

// unmatchedRoute labels requests that carry no route pattern.
const unmatchedRoute = "unmatched"

// Metrics creates middleware that records request duration, request count and in-flight requests.
// Requests are labelled by route pattern rather than raw path, so /property/:id is one series.
func Metrics() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			metrics.IncrementInFlight()
			defer metrics.DecrementInFlight()

			start := time.Now()
			err := next(c)

			status := c.Response().Status()
			if err != nil && !c.Response().Written() {
				status = http.StatusInternalServerError
			}
			metrics.RecordHTTPMetrics(c.Request().Method, routeLabel(c), status, time.Since(start))
			return err
		}
	}
}

func routeLabel(c router.Context) string {
	if route, ok := c.Get(router.RouteKey).(string); ok && route != "" {
		return route
	}
	return unmatchedRoute
}
