// Package gin provides a gin-gonic based implementation of the router.Router interface.
package gin

import (
	"encoding/json"
	"net/http"
	"sync"

	ginpkg "github.com/gin-gonic/gin"
	"github.com/nimburion/airbnb-listings/pkg/server/router"
)

// GinRouter implements router.Router using gin-gonic/gin.
type GinRouter struct {
	engine     *ginpkg.Engine
	middleware []router.MiddlewareFunc
	mu         sync.RWMutex
}

// NewRouter creates a new GinRouter in release mode.
func NewRouter() *GinRouter {
	ginpkg.SetMode(ginpkg.ReleaseMode)
	engine := ginpkg.New()
	engine.RedirectTrailingSlash = false
	return &GinRouter{engine: engine}
}

// GET registers a handler for HTTP GET requests at the specified path.
func (r *GinRouter) GET(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodGet, path, handler, middleware)
}

// POST registers a handler for HTTP POST requests at the specified path.
func (r *GinRouter) POST(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodPost, path, handler, middleware)
}

// Use applies middleware to routes registered afterwards.
func (r *GinRouter) Use(middleware ...router.MiddlewareFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, middleware...)
}

// ServeHTTP implements http.Handler.
func (r *GinRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.engine.ServeHTTP(w, req)
}

func (r *GinRouter) handle(method, path string, h router.HandlerFunc, routeMiddleware []router.MiddlewareFunc) {
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

	r.engine.Handle(method, path, func(gc *ginpkg.Context) {
		ctx := newContext(gc)
		ctx.Set(router.RouteKey, path)
		if err := handler(ctx); err != nil && !ctx.Response().Written() {
			_ = ctx.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		}
	})
}

// ginContext adapts gin.Context to router.Context.
type ginContext struct {
	ctx      *ginpkg.Context
	response router.ResponseWriter
}

func newContext(c *ginpkg.Context) *ginContext {
	return &ginContext{ctx: c, response: &ginResponseWriter{ResponseWriter: c.Writer}}
}

func (c *ginContext) Request() *http.Request {
	return c.ctx.Request
}

func (c *ginContext) SetRequest(r *http.Request) {
	c.ctx.Request = r
}

func (c *ginContext) Response() router.ResponseWriter {
	return c.response
}

func (c *ginContext) SetResponse(w router.ResponseWriter) {
	c.response = w
}

func (c *ginContext) Param(name string) string {
	return c.ctx.Param(name)
}

func (c *ginContext) Query(name string) string {
	return c.ctx.Query(name)
}

// FormValue reads from the POST body only; gin's PostForm parses it lazily.
func (c *ginContext) FormValue(name string) string {
	return c.ctx.PostForm(name)
}

func (c *ginContext) HTML(code int, body []byte) error {
	c.response.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := c.response.Write(body)
	return err
}

func (c *ginContext) Redirect(code int, location string) error {
	http.Redirect(c.response, c.ctx.Request, location, code)
	return nil
}

func (c *ginContext) JSON(code int, v interface{}) error {
	c.response.Header().Set("Content-Type", "application/json")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *ginContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *ginContext) Get(key string) interface{} {
	v, ok := c.ctx.Get(key)
	if !ok {
		return nil
	}
	return v
}

func (c *ginContext) Set(key string, value interface{}) {
	c.ctx.Set(key, value)
}

// ginResponseWriter wraps gin.ResponseWriter to satisfy router.ResponseWriter.
type ginResponseWriter struct {
	ginpkg.ResponseWriter
	mu      sync.RWMutex
	status  int
	written bool
}

func (w *ginResponseWriter) Status() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *ginResponseWriter) Written() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.written
}

func (w *ginResponseWriter) WriteHeader(code int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.written {
		return
	}
	w.status = code
	w.written = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *ginResponseWriter) Write(b []byte) (int, error) {
	if !w.Written() {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *ginResponseWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
