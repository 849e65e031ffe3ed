// Package routes enumerates registered API routes and groups them into
// top-level resources.
package routes

import (
	"context"
	"regexp"
	"sort"
	"strings"
)

// Route describes a single registered endpoint
type Route struct {
	// Path uses {param} placeholders and always starts with "/"
	Path      string
	Method    string
	Name      string
	Namespace string
	Tags      []string
	// Operation is nil when the source only knows method and path
	Operation *Operation
	// Schemas are the component schemas the operation may reference
	Schemas map[string]*Schema
}

var methodOrder = map[string]int{
	"GET":     0,
	"POST":    1,
	"PUT":     2,
	"PATCH":   3,
	"DELETE":  4,
	"HEAD":    5,
	"OPTIONS": 6,
	"TRACE":   7,
}

// IsStandardMethod reports whether method is one of the documented HTTP methods
func IsStandardMethod(method string) bool {
	_, ok := methodOrder[method]
	return ok
}

// Table is an ordered set of routes
type Table struct {
	routes []Route
}

// NewTable creates a table sorted by path, then by HTTP method
func NewTable(routes []Route) *Table {
	sorted := make([]Route, len(routes))
	copy(sorted, routes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Path != sorted[j].Path {
			return sorted[i].Path < sorted[j].Path
		}
		return methodOrder[sorted[i].Method] < methodOrder[sorted[j].Method]
	})
	return &Table{routes: sorted}
}

// Routes returns a copy of all routes in the table
func (t *Table) Routes() []Route {
	result := make([]Route, len(t.routes))
	copy(result, t.routes)
	return result
}

// Len returns the number of routes
func (t *Table) Len() int {
	return len(t.routes)
}

// APIs returns the routes under filterPath whose namespace is not excluded.
// An empty filterPath matches every route.
func (t *Table) APIs(ctx context.Context, filterPath string, excludeNamespaces []string) ([]Route, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var matcher *regexp.Regexp
	if filterPath != "" {
		matcher = regexp.MustCompile("^/?" + regexp.QuoteMeta(filterPath) + "(/.*)?$")
	}

	excluded := make(map[string]bool, len(excludeNamespaces))
	for _, ns := range excludeNamespaces {
		excluded[ns] = true
	}

	result := []Route{}
	for _, route := range t.routes {
		if matcher != nil && !matcher.MatchString(route.Path) {
			continue
		}
		if isExcluded(route, excluded) {
			continue
		}
		result = append(result, route)
	}
	return result, nil
}

func isExcluded(route Route, excluded map[string]bool) bool {
	if len(excluded) == 0 {
		return false
	}
	if route.Namespace != "" && excluded[route.Namespace] {
		return true
	}
	for _, tag := range route.Tags {
		if excluded[tag] {
			return true
		}
	}
	return false
}

// TopLevelAPIs reduces routes to their resource group paths (without
// surrounding slashes), sorted by their last path segment.
//
// A parameterised path collapses into its base when the base is itself a
// route, so /users and /users/{id} form the single resource "users".
func (t *Table) TopLevelAPIs(routes []Route) []string {
	known := make(map[string]bool, len(routes))
	apiPaths := make([]string, 0, len(routes))
	for _, route := range routes {
		path := strings.Trim(route.Path, "/")
		apiPaths = append(apiPaths, path)
		known[path] = true
	}

	var roots []string
	seenRoot := make(map[string]bool)
	for _, path := range apiPaths {
		base := strings.SplitN(path, "/{", 2)[0]
		if strings.Contains(path, "{") && known[base] {
			continue
		}
		if base == "" || seenRoot[base] {
			continue
		}
		seenRoot[base] = true
		roots = append(roots, base)
	}

	basePath := commonDirPrefix(roots)
	var resources []string
	seen := make(map[string]bool)
	for _, root := range roots {
		resource := strings.Split(strings.TrimPrefix(root, basePath), "/")[0]
		top := basePath + resource
		if !seen[top] {
			seen[top] = true
			resources = append(resources, top)
		}
	}

	sort.SliceStable(resources, func(i, j int) bool {
		li, lj := lastSegment(resources[i]), lastSegment(resources[j])
		if li != lj {
			return li < lj
		}
		return resources[i] < resources[j]
	})
	return resources
}

// commonDirPrefix returns the longest common prefix of paths cut back to the
// last "/", so it always ends on a directory boundary.
func commonDirPrefix(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	prefix := paths[0]
	for _, path := range paths[1:] {
		n := 0
		for n < len(prefix) && n < len(path) && prefix[n] == path[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return prefix[:strings.LastIndex(prefix, "/")+1]
}

func lastSegment(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}

// NormalizePath converts router-specific parameter syntax into {param} form
// and guarantees a leading slash.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}

	segments := strings.Split(path, "/")
	for i, segment := range segments {
		switch {
		case strings.HasPrefix(segment, ":"):
			name := strings.TrimSuffix(strings.TrimPrefix(segment, ":"), "?")
			segments[i] = "{" + name + "}"
		case segment == "*" || segment == "+":
			segments[i] = "{wildcard}"
		case strings.HasPrefix(segment, "*"):
			segments[i] = "{" + strings.TrimPrefix(segment, "*") + "}"
		}
	}

	normalized := strings.Join(segments, "/")
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	return normalized
}

// PathParams returns the {param} names of a normalised path in order
func PathParams(path string) []string {
	var params []string
	for _, segment := range strings.Split(path, "/") {
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			params = append(params, strings.TrimSuffix(strings.TrimPrefix(segment, "{"), "}"))
		}
	}
	return params
}
