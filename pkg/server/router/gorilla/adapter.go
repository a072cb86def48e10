// Package gorilla provides a gorilla/mux based implementation of the router.Router interface.
package gorilla

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/nimburion/airbnb-listings/pkg/server/router"
)

// GorillaRouter implements router.Router using gorilla/mux.
type GorillaRouter struct {
	router     *mux.Router
	middleware []router.MiddlewareFunc
	mu         sync.RWMutex
}

// NewRouter creates a new GorillaRouter.
func NewRouter() *GorillaRouter {
	return &GorillaRouter{router: mux.NewRouter()}
}

func (r *GorillaRouter) GET(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodGet, path, handler, middleware)
}

func (r *GorillaRouter) POST(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodPost, path, handler, middleware)
}

// Use applies middleware to routes registered afterwards.
func (r *GorillaRouter) Use(middleware ...router.MiddlewareFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, middleware...)
}

// ServeHTTP implements http.Handler.
func (r *GorillaRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

func (r *GorillaRouter) handle(method, path string, h router.HandlerFunc, routeMiddleware []router.MiddlewareFunc) {
	r.mu.RLock()
	global := append([]router.MiddlewareFunc{}, r.middleware...)
	r.mu.RUnlock()

	handler := h
	for i := len(routeMiddleware) - 1; i >= 0; i-- {
		handler = routeMiddleware[i](handler)
	}
	for i := len(global) - 1; i >= 0; i-- {
		handler = global[i](handler)
	}

	r.router.HandleFunc(toMuxPath(path), func(w http.ResponseWriter, req *http.Request) {
		ctx := newContext(w, req)
		ctx.Set(router.RouteKey, path)
		if err := handler(ctx); err != nil && !ctx.Response().Written() {
			http.Error(ctx.Response(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}).Methods(method)
}

// toMuxPath rewrites ":id" segments into mux "{id}" variables.
func toMuxPath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if strings.HasPrefix(p, ":") {
			parts[i] = "{" + p[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}

type gorillaContext struct {
	request  *http.Request
	response router.ResponseWriter
	store    map[string]interface{}
	mu       sync.RWMutex
}

func newContext(w http.ResponseWriter, r *http.Request) *gorillaContext {
	return &gorillaContext{
		request:  r,
		response: &gorillaResponseWriter{ResponseWriter: w},
		store:    make(map[string]interface{}),
	}
}

func (c *gorillaContext) Request() *http.Request {
	return c.request
}

func (c *gorillaContext) SetRequest(r *http.Request) {
	c.request = r
}

func (c *gorillaContext) Response() router.ResponseWriter {
	return c.response
}

func (c *gorillaContext) SetResponse(w router.ResponseWriter) {
	c.response = w
}

func (c *gorillaContext) Param(name string) string {
	return mux.Vars(c.request)[name]
}

func (c *gorillaContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *gorillaContext) FormValue(name string) string {
	return c.request.PostFormValue(name)
}

func (c *gorillaContext) HTML(code int, body []byte) error {
	c.response.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := c.response.Write(body)
	return err
}

func (c *gorillaContext) Redirect(code int, location string) error {
	http.Redirect(c.response, c.request, location, code)
	return nil
}

func (c *gorillaContext) JSON(code int, v interface{}) error {
	c.response.Header().Set("Content-Type", "application/json")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *gorillaContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := io.WriteString(c.response, s)
	return err
}

func (c *gorillaContext) Get(key string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store[key]
}

func (c *gorillaContext) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = value
}

// gorillaResponseWriter wraps http.ResponseWriter and tracks status/written state.
type gorillaResponseWriter struct {
	http.ResponseWriter
	status  int
	written bool
	mu      sync.RWMutex
}

func (w *gorillaResponseWriter) WriteHeader(code int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.written {
		return
	}
	w.status = code
	w.written = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *gorillaResponseWriter) Write(b []byte) (int, error) {
	if !w.Written() {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *gorillaResponseWriter) Status() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *gorillaResponseWriter) Written() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.written
}

func (w *gorillaResponseWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
