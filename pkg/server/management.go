package server

import (
	"net/http"
	"time"

	"github.com/nimburion/airbnb-listings/pkg/config"
	"github.com/nimburion/airbnb-listings/pkg/health"
	"github.com/nimburion/airbnb-listings/pkg/middleware/recovery"
	"github.com/nimburion/airbnb-listings/pkg/middleware/requestid"
	"github.com/nimburion/airbnb-listings/pkg/observability/logger"
	"github.com/nimburion/airbnb-listings/pkg/observability/metrics"
	"github.com/nimburion/airbnb-listings/pkg/server/router"
	"github.com/nimburion/airbnb-listings/pkg/version"
)

// ManagementServer serves health, readiness, metrics and version on a port separate from the pages.
//   - /health: liveness, always 200
//   - /ready: runs the health registry, 503 when any check is unhealthy
//   - /metrics: Prometheus exposition
//   - /version: build metadata
type ManagementServer struct {
	*Server
	healthRegistry  *health.Registry
	metricsRegistry *metrics.Registry
	versionInfo     version.Info
}

// NewManagementServer registers the management endpoints on r.
func NewManagementServer(
	cfg config.ManagementConfig,
	r router.Router,
	log logger.Logger,
	healthRegistry *health.Registry,
	metricsRegistry *metrics.Registry,
	info version.Info,
) *ManagementServer {
	// Probes are not request-logged.
	r.Use(
		requestid.RequestID(),
		recovery.Recovery(log),
	)

	s := &ManagementServer{
		Server: NewServer(Config{
			Port:         cfg.Port,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		}, r, log),
		healthRegistry:  healthRegistry,
		metricsRegistry: metricsRegistry,
		versionInfo:     info,
	}

	r.GET("/health", s.handleHealth)
	r.GET("/ready", s.handleReady)
	r.GET("/metrics", s.handleMetrics)
	r.GET("/version", s.handleVersion)

	return s
}

func (s *ManagementServer) handleHealth(c router.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": health.StatusHealthy,
	})
}

func (s *ManagementServer) handleReady(c router.Context) error {
	result := s.healthRegistry.Check(c.Request().Context())
	if !result.IsHealthy() {
		return c.JSON(http.StatusServiceUnavailable, result)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *ManagementServer) handleMetrics(c router.Context) error {
	s.metricsRegistry.Handler().ServeHTTP(c.Response(), c.Request())
	return nil
}

func (s *ManagementServer) handleVersion(c router.Context) error {
	return c.JSON(http.StatusOK, s.versionInfo)
}
