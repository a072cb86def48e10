// Package contract holds the conformance suite every router adapter must pass.
package contract

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/nimburion/airbnb-listings/pkg/server/router"
)

// TestRouterContract runs the shared router conformance suite.
func TestRouterContract(t *testing.T, createRouter func() router.Router) {
	t.Helper()

	t.Run("http_methods", func(t *testing.T) {
		r := createRouter()
		r.GET("/m", func(c router.Context) error { return c.String(http.StatusOK, "get") })
		r.POST("/m", func(c router.Context) error { return c.String(http.StatusOK, "post") })

		if res := performRequest(r, http.MethodGet, "/m", nil, ""); res.Body.String() != "get" {
			t.Fatalf("expected get, got %q", res.Body.String())
		}
		if res := performRequest(r, http.MethodPost, "/m", nil, ""); res.Body.String() != "post" {
			t.Fatalf("expected post, got %q", res.Body.String())
		}
		if res := performRequest(r, http.MethodGet, "/not-registered", nil, ""); res.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for unregistered route, got %d", res.Code)
		}
	})

	t.Run("middleware", func(t *testing.T) {
		r := createRouter()
		order := make([]string, 0, 3)

		r.Use(func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				order = append(order, "global")
				return next(c)
			}
		})
		r.GET("/m", func(c router.Context) error {
			order = append(order, "handler")
			return c.String(http.StatusOK, "ok")
		}, func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				order = append(order, "route")
				return next(c)
			}
		})

		if res := performRequest(r, http.MethodGet, "/m", nil, ""); res.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", res.Code)
		}
		expected := []string{"global", "route", "handler"}
		if strings.Join(order, ",") != strings.Join(expected, ",") {
			t.Fatalf("unexpected middleware order: %v", order)
		}

		r = createRouter()
		handlerCalled := false
		r.GET("/stop", func(c router.Context) error {
			handlerCalled = true
			return c.String(http.StatusOK, "never")
		}, func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				return errors.New("stop")
			}
		})

		res := performRequest(r, http.MethodGet, "/stop", nil, "")
		if handlerCalled {
			t.Fatal("handler should not be called when middleware returns error")
		}
		if res.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", res.Code)
		}
	})

	t.Run("path_params", func(t *testing.T) {
		r := createRouter()
		r.GET("/property/:id", func(c router.Context) error {
			return c.String(http.StatusOK, c.Param("id"))
		})
		r.POST("/delete-property/:id", func(c router.Context) error {
			return c.String(http.StatusOK, "deleted "+c.Param("id"))
		})

		if res := performRequest(r, http.MethodGet, "/property/1001", nil, ""); res.Body.String() != "1001" {
			t.Fatalf("expected param 1001, got %q", res.Body.String())
		}
		if res := performRequest(r, http.MethodPost, "/delete-property/x9", nil, ""); res.Body.String() != "deleted x9" {
			t.Fatalf("unexpected post param result: %q", res.Body.String())
		}
	})

	t.Run("query_params", func(t *testing.T) {
		r := createRouter()
		r.GET("/q", func(c router.Context) error { return c.String(http.StatusOK, c.Query("q")) })

		if res := performRequest(r, http.MethodGet, "/q?q=one", nil, ""); res.Body.String() != "one" {
			t.Fatalf("expected one, got %q", res.Body.String())
		}
		if res := performRequest(r, http.MethodGet, "/q?q=first&q=second", nil, ""); res.Body.String() != "first" {
			t.Fatalf("expected first, got %q", res.Body.String())
		}
		if res := performRequest(r, http.MethodGet, "/q", nil, ""); res.Body.String() != "" {
			t.Fatalf("expected empty query value, got %q", res.Body.String())
		}
	})

	t.Run("form_values", func(t *testing.T) {
		r := createRouter()
		r.POST("/form", func(c router.Context) error {
			return c.String(http.StatusOK, c.FormValue("name")+"|"+c.FormValue("missing"))
		})

		body := url.Values{"name": {"Seaside Villa"}}.Encode()
		res := performRequest(r, http.MethodPost, "/form?missing=query", strings.NewReader(body), "application/x-www-form-urlencoded")
		if res.Body.String() != "Seaside Villa|" {
			t.Fatalf("expected form value without query fallback, got %q", res.Body.String())
		}
	})

	t.Run("responses", func(t *testing.T) {
		r := createRouter()
		r.GET("/html", func(c router.Context) error {
			return c.HTML(http.StatusOK, []byte("<p>hi</p>"))
		})
		r.GET("/json", func(c router.Context) error {
			return c.JSON(http.StatusCreated, map[string]string{"x": "y"})
		})
		r.GET("/string", func(c router.Context) error {
			return c.String(http.StatusNotFound, "Property not found")
		})
		r.POST("/redirect", func(c router.Context) error {
			return c.Redirect(http.StatusSeeOther, "/viewData")
		})

		res := performRequest(r, http.MethodGet, "/html", nil, "")
		if res.Code != http.StatusOK || res.Body.String() != "<p>hi</p>" {
			t.Fatalf("unexpected html response %d %q", res.Code, res.Body.String())
		}
		if !strings.HasPrefix(res.Header().Get("Content-Type"), "text/html") {
			t.Fatalf("expected text/html content-type, got %q", res.Header().Get("Content-Type"))
		}

		res = performRequest(r, http.MethodGet, "/json", nil, "")
		if res.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", res.Code)
		}
		if !strings.Contains(res.Header().Get("Content-Type"), "application/json") {
			t.Fatalf("expected json content-type, got %q", res.Header().Get("Content-Type"))
		}

		res = performRequest(r, http.MethodGet, "/string", nil, "")
		if res.Code != http.StatusNotFound || res.Body.String() != "Property not found" {
			t.Fatalf("unexpected string response %d %q", res.Code, res.Body.String())
		}

		res = performRequest(r, http.MethodPost, "/redirect", nil, "")
		if res.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", res.Code)
		}
		if loc := res.Header().Get("Location"); loc != "/viewData" {
			t.Fatalf("expected Location /viewData, got %q", loc)
		}
	})

	t.Run("context_storage", func(t *testing.T) {
		r := createRouter()
		r.Use(func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				c.Set("from_mw", "yes")
				return next(c)
			}
		})
		r.GET("/ctx", func(c router.Context) error {
			if c.Get("missing") != nil {
				t.Fatal("expected nil for missing key")
			}
			if c.Get("from_mw") != "yes" {
				t.Fatal("expected value set by middleware")
			}
			return c.String(http.StatusOK, "ok")
		})
		if res := performRequest(r, http.MethodGet, "/ctx", nil, ""); res.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", res.Code)
		}
	})

	t.Run("error_handling", func(t *testing.T) {
		r := createRouter()
		r.GET("/err1", func(c router.Context) error { return errors.New("boom") })
		res := performRequest(r, http.MethodGet, "/err1", nil, "")
		if res.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", res.Code)
		}
		if strings.Contains(res.Body.String(), "boom") {
			t.Fatalf("error detail leaked into body: %q", res.Body.String())
		}

		r = createRouter()
		r.GET("/err2", func(c router.Context) error {
			if err := c.String(http.StatusBadRequest, "bad"); err != nil {
				return err
			}
			return errors.New("ignored")
		})
		res = performRequest(r, http.MethodGet, "/err2", nil, "")
		if res.Code != http.StatusBadRequest || res.Body.String() != "bad" {
			t.Fatalf("expected 400 bad, got %d %q", res.Code, res.Body.String())
		}
	})

	t.Run("response_writer", func(t *testing.T) {
		r := createRouter()
		r.GET("/rw", func(c router.Context) error {
			rw := c.Response()
			if rw.Written() {
				t.Fatal("Written must be false before writes")
			}
			rw.WriteHeader(http.StatusCreated)
			if rw.Status() != http.StatusCreated {
				t.Fatalf("expected status 201, got %d", rw.Status())
			}
			if !rw.Written() {
				t.Fatal("Written must be true after WriteHeader")
			}
			return nil
		})
		if res := performRequest(r, http.MethodGet, "/rw", nil, ""); res.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", res.Code)
		}
	})
}

func performRequest(r router.Router, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	var testBody io.Reader = http.NoBody
	if body != nil {
		testBody = body
	}
	req := httptest.NewRequest(method, path, testBody)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
