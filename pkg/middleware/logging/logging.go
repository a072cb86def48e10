// Package logging writes one structured log entry per HTTP request.
package logging

import (
	"strings"
	"time"

	"github.com/nimburion/airbnb-listings/pkg/middleware/requestid"
	"github.com/nimburion/airbnb-listings/pkg/observability/logger"
	"github.com/nimburion/airbnb-listings/pkg/server/router"
)

// Log field name constants
const (
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldRoute      = "route"
	FieldStatus     = "status"
	FieldDurationMS = "duration_ms"
	FieldRemoteAddr = "remote_addr"
	FieldError      = "error"
)

// Config configures request logging middleware behavior.
type Config struct {
	Enabled bool
	// LogStart additionally logs "request started" before the handler runs.
	LogStart             bool
	ExcludedPathPrefixes []string
}

// DefaultConfig logs every request except static assets.
func DefaultConfig() Config {
	return Config{
		Enabled:              true,
		ExcludedPathPrefixes: []string{"/public/"},
	}
}

// Logging creates middleware with default configuration.
func Logging(log logger.Logger) router.MiddlewareFunc {
	return WithConfig(log, DefaultConfig())
}

// WithConfig creates request logging middleware with custom configuration.
func WithConfig(log logger.Logger, cfg Config) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			req := c.Request()
			if !cfg.Enabled || excluded(req.URL.Path, cfg.ExcludedPathPrefixes) {
				return next(c)
			}

			start := time.Now()
			requestID := requestid.GetRequestID(req.Context())
			if cfg.LogStart {
				log.Debug("request started",
					FieldRequestID, requestID,
					FieldMethod, req.Method,
					FieldPath, req.URL.Path,
				)
			}

			err := next(c)

			fields := []any{
				FieldRequestID, requestID,
				FieldMethod, req.Method,
				FieldPath, req.URL.Path,
				FieldRoute, route(c),
				FieldStatus, c.Response().Status(),
				FieldDurationMS, time.Since(start).Milliseconds(),
				FieldRemoteAddr, req.RemoteAddr,
			}
			if err != nil {
				log.Error("request failed", append(fields, FieldError, err)...)
				return err
			}
			log.Info("request completed", fields...)
			return nil
		}
	}
}

func route(c router.Context) string {
	if r, ok := c.Get(router.RouteKey).(string); ok {
		return r
	}
	return ""
}

func excluded(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
