package router

import (
	"net/http"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Route represents an HTTP route with its handler and metadata.
type Route struct {
	Method  string
	Pattern string
	Handler http.Handler
	Params  []string
	Regex   *regexp.Regexp
}

// Router matches requests against registered patterns and runs them through
// the global middleware chain.
type Router struct {
	mu         sync.RWMutex
	routes     map[string][]Route
	middleware []Middleware
	notFound   http.Handler
	notAllowed http.Handler
}

// New creates a new Router instance. Unmatched requests get JSON 404 and
// 405 responses.
func New() *Router {
	return &Router{
		routes: make(map[string][]Route),
		notFound: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			WriteError(w, http.StatusNotFound, "Not Found")
		}),
		notAllowed: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			WriteError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		}),
	}
}

// GET is a shortcut for adding a route with GET method.
func (r *Router) GET(pattern string, handler http.Handler) {
	r.AddRoute(http.MethodGet, pattern, handler)
}

// POST is a shortcut for adding a route with POST method.
func (r *Router) POST(pattern string, handler http.Handler) {
	r.AddRoute(http.MethodPost, pattern, handler)
}

// PUT is a shortcut for adding a route with PUT method.
func (r *Router) PUT(pattern string, handler http.Handler) {
	r.AddRoute(http.MethodPut, pattern, handler)
}

// DELETE is a shortcut for adding a route with DELETE method.
func (r *Router) DELETE(pattern string, handler http.Handler) {
	r.AddRoute(http.MethodDelete, pattern, handler)
}

// AddRoute adds a new route with the specified method and pattern.
func (r *Router) AddRoute(method, pattern string, handler http.Handler) {
	params, re := compilePattern(pattern)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[method] = append(r.routes[method], Route{
		Method:  method,
		Pattern: pattern,
		Handler: handler,
		Params:  params,
		Regex:   re,
	})
}

var paramSegment = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

// compilePattern turns "/items/:id" into a regex with a named group per
// parameter. A trailing "/*" captures the rest of the path as "wildcard".
func compilePattern(pattern string) ([]string, *regexp.Regexp) {
	var params []string
	for _, m := range paramSegment.FindAllStringSubmatch(pattern, -1) {
		params = append(params, m[1])
	}

	wildcard := strings.HasSuffix(pattern, "/*")
	if wildcard {
		pattern = strings.TrimSuffix(pattern, "/*")
	}

	expr := paramSegment.ReplaceAllString(regexp.QuoteMeta(pattern), `(?P<$1>[^/]+)`)
	if wildcard {
		expr += "(?P<wildcard>/.*)"
	}
	return params, regexp.MustCompile("^" + expr + "$")
}

// ServeHTTP implements http.Handler interface.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.RLock()
	middleware := r.middleware
	methodRoutes := r.routes[req.Method]
	notFound, notAllowed := r.notFound, r.notAllowed
	r.mu.RUnlock()

	handler, params := notFound, Params(nil)
	if route, p, ok := match(methodRoutes, req.URL.Path); ok {
		handler, params = route.Handler, p
	} else if allowed := r.allowed(req.URL.Path); len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		handler = notAllowed
	}

	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}
	if params != nil {
		req = req.WithContext(WithParams(req.Context(), params))
	}
	handler.ServeHTTP(w, req)
}

func match(routes []Route, path string) (Route, Params, bool) {
	for _, route := range routes {
		matches := route.Regex.FindStringSubmatch(path)
		if matches == nil {
			continue
		}
		params := make(Params)
		for i, name := range route.Regex.SubexpNames() {
			if name != "" {
				params[name] = matches[i]
			}
		}
		return route, params, true
	}
	return Route{}, nil, false
}

// allowed lists the methods that have a route matching path.
func (r *Router) allowed(path string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var methods []string
	for method, routes := range r.routes {
		if _, _, ok := match(routes, path); ok {
			methods = append(methods, method)
		}
	}
	sort.Strings(methods)
	return methods
}

// Use adds a middleware to the router's global middleware chain.
func (r *Router) Use(middlewares ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, middlewares...)
}

// SetNotFoundHandler sets the handler for routes that don't match.
func (r *Router) SetNotFoundHandler(handler http.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notFound = handler
}

// SetMethodNotAllowedHandler sets the handler for paths that match under
// another method.
func (r *Router) SetMethodNotAllowedHandler(handler http.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notAllowed = handler
}

// Routes returns a copy of all registered routes.
func (r *Router) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var routes []Route
	for _, methodRoutes := range r.routes {
		routes = append(routes, methodRoutes...)
	}
	return routes
}
