package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

var All = route("*", "*")

// Upload routes
var (
	Upload  = route("POST", "/")
	Replace = route("PUT", "/")
)

type Route struct {
	Method string
	Path   string
}

type Routes struct {
	disabled   []Route
	middleware map[Route][]func(http.Handler) http.Handler
}

type Option func(*Routes)

func Disable(routes ...Route) Option {
	return func(r *Routes) {
		r.disabled = append(r.disabled, routes...)
	}
}

func Middleware(route Route, middleware ...func(http.Handler) http.Handler) Option {
	return func(r *Routes) {
		r.middleware[route] = append(r.middleware[route], middleware...)
	}
}

func New(opts ...Option) Routes {
	r := Routes{middleware: make(map[Route][]func(http.Handler) http.Handler)}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r Routes) Disabled(route Route) bool {
	for _, d := range r.disabled {
		if route == d || d == All {
			return true
		}
	}
	return false
}

func (r Routes) Middleware(route Route) []func(http.Handler) http.Handler {
	return append(append([]func(http.Handler) http.Handler(nil), r.middleware[All]...), r.middleware[route]...)
}

func (r Routes) Install(router chi.Router, route Route, h http.Handler) {
	if !r.Disabled(route) {
		router.With(r.Middleware(route)...).Method(route.Method, route.Path, h)
	}
}

func route(method, path string) Route {
	return Route{Method: method, Path: path}
}
