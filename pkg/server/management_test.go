package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nimburion/airbnb-listings/pkg/config"
	"github.com/nimburion/airbnb-listings/pkg/health"
	"github.com/nimburion/airbnb-listings/pkg/observability/metrics"
	"github.com/nimburion/airbnb-listings/pkg/server/router/factory"
	"github.com/nimburion/airbnb-listings/pkg/testutil"
	"github.com/nimburion/airbnb-listings/pkg/version"
)

type pingable struct{ err error }

func (p pingable) HealthCheck(context.Context) error { return p.err }

func newManagementServer(t *testing.T, dbErr error) *ManagementServer {
	t.Helper()
	r, err := factory.NewRouter("gin")
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	registry := health.NewRegistry()
	registry.Register(health.NewDatabaseChecker(pingable{err: dbErr}))

	return NewManagementServer(
		config.DefaultConfig().Management,
		r,
		&testutil.MockLogger{},
		registry,
		metrics.NewRegistry(),
		version.Info{Service: "airbnb-listings", Version: "v1.0.0"},
	)
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestManagementServer_HealthEndpoint(t *testing.T) {
	srv := newManagementServer(t, errors.New("down"))

	w := get(srv.handler, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("liveness must not depend on the database, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"healthy"`) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestManagementServer_ReadyEndpoint(t *testing.T) {
	tests := []struct {
		name   string
		dbErr  error
		status int
		want   health.Status
	}{
		{"healthy", nil, http.StatusOK, health.StatusHealthy},
		{"database down", errors.New("server selection timeout"), http.StatusServiceUnavailable, health.StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(newManagementServer(t, tt.dbErr).handler, "/ready")
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			var result health.AggregatedResult
			if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if result.Status != tt.want || len(result.Checks) != 1 || result.Checks[0].Name != "mongodb" {
				t.Fatalf("unexpected result %+v", result)
			}
		})
	}
}

func TestManagementServer_MetricsEndpoint(t *testing.T) {
	metrics.RecordHTTPMetrics(http.MethodGet, "/viewData", http.StatusOK, 0)

	w := get(newManagementServer(t, nil).handler, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Fatal("expected Go runtime metrics")
	}
	if !strings.Contains(w.Body.String(), `route="/viewData"`) {
		t.Fatal("expected HTTP metrics labelled by route")
	}
}

func TestManagementServer_VersionEndpoint(t *testing.T) {
	w := get(newManagementServer(t, nil).handler, "/version")
	var info version.Info
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Service != "airbnb-listings" || info.Version != "v1.0.0" {
		t.Fatalf("unexpected version info %+v", info)
	}
}
