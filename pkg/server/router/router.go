// Package router provides an abstraction layer for HTTP routing.
// Handlers are written once against Context and run on either the gin or the gorilla/mux adapter.
package router

import "net/http"

// Router registers page routes and serves them.
type Router interface {
	GET(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	POST(path string, handler HandlerFunc, middleware ...MiddlewareFunc)

	// Use applies middleware to routes registered after the call.
	Use(middleware ...MiddlewareFunc)

	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// RouteKey is the context key holding the registered route pattern (e.g. "/property/:id").
const RouteKey = "router.route"

// HandlerFunc is the function signature for route handlers.
type HandlerFunc func(Context) error

// MiddlewareFunc wraps a HandlerFunc and returns a new HandlerFunc.
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// Context provides access to request and response in a router-agnostic way.
type Context interface {
	Request() *http.Request
	SetRequest(r *http.Request)

	Response() ResponseWriter
	SetResponse(w ResponseWriter)

	// Param returns a path parameter (e.g. /property/:id).
	Param(name string) string

	// Query returns a query string parameter.
	Query(name string) string

	// FormValue returns a field of an urlencoded or multipart POST body.
	// Query string values are not consulted.
	FormValue(name string) string

	// HTML writes an already rendered document.
	HTML(code int, body []byte) error

	// Redirect replies with a redirect to location.
	Redirect(code int, location string) error

	JSON(code int, v interface{}) error
	String(code int, s string) error

	Get(key string) interface{}
	Set(key string, value interface{})
}

// ResponseWriter wraps http.ResponseWriter to track response status.
type ResponseWriter interface {
	http.ResponseWriter

	// Status returns the HTTP status code of the response
	Status() int

	// Written returns whether the response has been written
	Written() bool
}
