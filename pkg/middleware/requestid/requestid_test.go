package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/nimburion/airbnb-listings/pkg/server/router"
	ginadapter "github.com/nimburion/airbnb-listings/pkg/server/router/gin"
)

func serve(t *testing.T, header string) (*httptest.ResponseRecorder, string, string) {
	t.Helper()
	var fromRequest, fromRouter string

	r := ginadapter.NewRouter()
	r.Use(RequestID())
	r.GET("/", func(c router.Context) error {
		fromRequest = GetRequestID(c.Request().Context())
		fromRouter, _ = c.Get(ContextKey).(string)
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(RequestIDHeader, header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec, fromRequest, fromRouter
}

func TestRequestID_GeneratesUUID(t *testing.T) {
	rec, fromRequest, fromRouter := serve(t, "")

	id := rec.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected UUID request id, got %q", id)
	}
	if fromRequest != id || fromRouter != id {
		t.Fatalf("context ids %q/%q do not match header %q", fromRequest, fromRouter, id)
	}
}

func TestRequestID_PreservesIncomingHeader(t *testing.T) {
	rec, fromRequest, _ := serve(t, "abc-123")

	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("header = %q, want abc-123", got)
	}
	if fromRequest != "abc-123" {
		t.Fatalf("context id = %q, want abc-123", fromRequest)
	}
}

func TestRequestID_ReplacesOversizedHeader(t *testing.T) {
	rec, _, _ := serve(t, strings.Repeat("x", maxLength+1))

	if _, err := uuid.Parse(rec.Header().Get(RequestIDHeader)); err != nil {
		t.Fatalf("oversized id should be replaced, got %q", rec.Header().Get(RequestIDHeader))
	}
}

func TestGetRequestID_Empty(t *testing.T) {
	if got := GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
}
