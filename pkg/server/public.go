package server

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/nimburion/airbnb-listings/pkg/config"
	"github.com/nimburion/airbnb-listings/pkg/middleware/compression"
	"github.com/nimburion/airbnb-listings/pkg/middleware/logging"
	"github.com/nimburion/airbnb-listings/pkg/middleware/metrics"
	"github.com/nimburion/airbnb-listings/pkg/middleware/recovery"
	"github.com/nimburion/airbnb-listings/pkg/middleware/requestid"
	"github.com/nimburion/airbnb-listings/pkg/middleware/requestsize"
	"github.com/nimburion/airbnb-listings/pkg/middleware/static"
	"github.com/nimburion/airbnb-listings/pkg/middleware/tracing"
	"github.com/nimburion/airbnb-listings/pkg/observability/logger"
	"github.com/nimburion/airbnb-listings/pkg/server/router"
)

// AssetsPrefix is the URL prefix under which stylesheet and images are served.
const AssetsPrefix = "/public"

// PublicServer serves the listing pages.
type PublicServer struct {
	*Server
	router router.Router
}

// NewPublicServer applies the page middleware stack to r and wraps it with the static asset handler.
// Middleware only reaches routes registered afterwards, so register page routes on Router() once
// this returns.
//
// The stack, outermost first: request id, tracing, logging, recovery, metrics, request size, compression.
func NewPublicServer(cfg *config.Config, r router.Router, assets fs.FS, log logger.Logger) *PublicServer {
	type middlewareEntry struct {
		name string
		fn   router.MiddlewareFunc
	}
	namedMiddlewares := []middlewareEntry{
		{name: "request_id", fn: requestid.RequestID()},
	}
	if cfg.Observability.TracingEnabled {
		namedMiddlewares = append(namedMiddlewares, middlewareEntry{name: "tracing", fn: tracing.Tracing(tracing.Config{
			TracerName:           cfg.Service.Name,
			ExcludedPathPrefixes: []string{AssetsPrefix + "/"},
		})})
	}
	if cfg.Observability.RequestLogging.Enabled {
		namedMiddlewares = append(namedMiddlewares, middlewareEntry{name: "logging", fn: logging.WithConfig(log, logging.Config{
			Enabled:              true,
			LogStart:             cfg.Observability.RequestLogging.LogStart,
			ExcludedPathPrefixes: cfg.Observability.RequestLogging.ExcludedPathPrefixes,
		})})
	}
	namedMiddlewares = append(namedMiddlewares,
		middlewareEntry{name: "recovery", fn: recovery.Recovery(log)},
		middlewareEntry{name: "metrics", fn: metrics.Metrics()},
		middlewareEntry{name: "request_size", fn: requestsize.Middleware(cfg.HTTP.MaxRequestSize)},
	)
	if cfg.Compression.Enabled {
		compressionCfg := compression.DefaultConfig()
		compressionCfg.MinSize = cfg.Compression.MinSize
		namedMiddlewares = append(namedMiddlewares, middlewareEntry{name: "compression", fn: compression.Middleware(compressionCfg)})
	}

	middlewareFuncs := make([]router.MiddlewareFunc, 0, len(namedMiddlewares))
	middlewareNames := make([]string, 0, len(namedMiddlewares))
	for _, entry := range namedMiddlewares {
		middlewareFuncs = append(middlewareFuncs, entry.fn)
		middlewareNames = append(middlewareNames, entry.name)
	}
	log.Debug("active middleware stack", "middlewares", strings.Join(middlewareNames, ", "))
	r.Use(middlewareFuncs...)

	var handler http.Handler = r
	if assets != nil {
		handler = static.Handler(AssetsPrefix, static.FS(assets), r)
	}

	return &PublicServer{
		Server: NewServer(Config{
			Port:         cfg.HTTP.Port,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
		}, handler, log),
		router: r,
	}
}

// Router returns the router page routes are registered on.
func (s *PublicServer) Router() router.Router {
	return s.router
}

// Handler returns the full handler chain, static assets included.
func (s *PublicServer) Handler() http.Handler {
	return s.handler
}
