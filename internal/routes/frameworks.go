package routes

import (
	"net/http"
	"reflect"
	"regexp"
	"runtime"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/labstack/echo/v4"
)

// NamespaceFunc derives a route namespace from its method, path and name
type NamespaceFunc func(method, path, name string) string

// Option configures how a route source builds its table
type Option func(*options)

type options struct {
	namespace NamespaceFunc
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithNamespaceFunc overrides the default namespace derivation
func WithNamespaceFunc(fn NamespaceFunc) Option {
	return func(o *options) {
		o.namespace = fn
	}
}

// FromGin returns the routing table of a Gin engine
func FromGin(engine *gin.Engine, opts ...Option) *Table {
	b := newFrameworkBuilder(opts)
	for _, info := range engine.Routes() {
		b.add(info.Method, info.Path, info.Handler)
	}
	return b.table()
}

// FromEcho returns the routing table of an Echo instance
func FromEcho(e *echo.Echo, opts ...Option) *Table {
	b := newFrameworkBuilder(opts)
	for _, route := range e.Routes() {
		b.add(route.Method, route.Path, route.Name)
	}
	return b.table()
}

// FromFiber returns the routing table of a Fiber app, without Use middleware
func FromFiber(app *fiber.App, opts ...Option) *Table {
	b := newFrameworkBuilder(opts)
	for _, route := range app.GetRoutes(true) {
		b.add(route.Method, route.Path, route.Name)
	}
	return b.table()
}

var chiPattern = regexp.MustCompile(`\{([^}:]+):[^}]*\}`)

// FromChi returns the routing table of a chi router, including mounted
// sub-routers
func FromChi(router chi.Routes, opts ...Option) (*Table, error) {
	b := newFrameworkBuilder(opts)
	err := chi.Walk(router, func(method, route string, handler http.Handler, _ ...func(http.Handler) http.Handler) error {
		route = chiPattern.ReplaceAllString(route, "{$1}")
		if len(route) > 1 {
			route = strings.TrimSuffix(route, "/")
		}
		b.add(method, route, handlerName(handler))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b.table(), nil
}

// handlerName resolves the function name behind an http.Handler
func handlerName(handler http.Handler) string {
	if handler == nil {
		return ""
	}
	v := reflect.ValueOf(handler)
	if v.Kind() != reflect.Func {
		return v.Type().String()
	}
	if fn := runtime.FuncForPC(v.Pointer()); fn != nil {
		return fn.Name()
	}
	return ""
}

type frameworkBuilder struct {
	opts   *options
	routes []Route
	seen   map[string]bool
}

func newFrameworkBuilder(opts []Option) *frameworkBuilder {
	return &frameworkBuilder{
		opts: newOptions(opts),
		seen: make(map[string]bool),
	}
}

func (b *frameworkBuilder) add(method, path, name string) {
	method = strings.ToUpper(method)
	if !IsStandardMethod(method) {
		return
	}

	path = NormalizePath(path)
	key := method + " " + path
	if b.seen[key] {
		return
	}
	b.seen[key] = true

	namespace := handlerNamespace(name)
	if b.opts.namespace != nil {
		namespace = b.opts.namespace(method, path, name)
	}

	b.routes = append(b.routes, Route{
		Path:      path,
		Method:    method,
		Name:      name,
		Namespace: namespace,
	})
}

// table drops the HEAD routes frameworks add implicitly for every GET
func (b *frameworkBuilder) table() *Table {
	routes := b.routes[:0]
	for _, route := range b.routes {
		if route.Method == "HEAD" && b.seen["GET "+route.Path] {
			continue
		}
		routes = append(routes, route)
	}
	return NewTable(routes)
}

// handlerNamespace returns "admin" for names like "admin:list-users" or
// "github.com/acme/app/admin.(*Handler).List-fm".
func handlerNamespace(name string) string {
	if name == "" {
		return ""
	}
	if idx := strings.Index(name, ":"); idx > 0 && !strings.Contains(name[:idx], "/") {
		return name[:idx]
	}

	short := name[strings.LastIndex(name, "/")+1:]
	if idx := strings.Index(short, "."); idx > 0 {
		return short[:idx]
	}
	return ""
}
