package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"gopkg.in/yaml.v3"
)

// OpenAPISpec is the subset of an OpenAPI 3.x document needed to describe routes
type OpenAPISpec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Paths      map[string]PathItem    `json:"paths"`
	Components *Components            `json:"components,omitempty"`
}

type Components struct {
	Schemas map[string]*Schema `json:"schemas,omitempty"`
}

type Schema struct {
	Type                 interface{}        `json:"type,omitempty"` // Can be string or array
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Description          string             `json:"description,omitempty"`
	Example              interface{}        `json:"example,omitempty"`
	Default              interface{}        `json:"default,omitempty"`
	Enum                 []interface{}      `json:"enum,omitempty"`
	AdditionalProperties interface{}        `json:"additionalProperties,omitempty"`
	Ref                  string             `json:"$ref,omitempty"`
	Format               string             `json:"format,omitempty"`
	AllOf                []*Schema          `json:"allOf,omitempty"`
	OneOf                []*Schema          `json:"oneOf,omitempty"`
	AnyOf                []*Schema          `json:"anyOf,omitempty"`
}

type PathItem struct {
	Get     *Operation `json:"get,omitempty"`
	Post    *Operation `json:"post,omitempty"`
	Put     *Operation `json:"put,omitempty"`
	Patch   *Operation `json:"patch,omitempty"`
	Delete  *Operation `json:"delete,omitempty"`
	Head    *Operation `json:"head,omitempty"`
	Options *Operation `json:"options,omitempty"`
	Trace   *Operation `json:"trace,omitempty"`
}

type Operation struct {
	OperationID string                    `json:"operationId,omitempty"`
	Summary     string                    `json:"summary,omitempty"`
	Description string                    `json:"description,omitempty"`
	Tags        []string                  `json:"tags,omitempty"`
	Deprecated  bool                      `json:"deprecated,omitempty"`
	Parameters  []Parameter               `json:"parameters,omitempty"`
	RequestBody *RequestBody              `json:"requestBody,omitempty"`
	Responses   map[string]ResponseObject `json:"responses,omitempty"`
}

type Parameter struct {
	Name        string  `json:"name"`
	In          string  `json:"in"`
	Required    bool    `json:"required"`
	Description string  `json:"description,omitempty"`
	Schema      *Schema `json:"schema,omitempty"`
}

type RequestBody struct {
	Description string                     `json:"description,omitempty"`
	Required    bool                       `json:"required"`
	Content     map[string]MediaTypeObject `json:"content"`
}

type ResponseObject struct {
	Description string                     `json:"description"`
	Content     map[string]MediaTypeObject `json:"content,omitempty"`
}

type MediaTypeObject struct {
	Schema *Schema `json:"schema,omitempty"`
}

// operations returns the operations of a path item in canonical method order
func (p PathItem) operations() []struct {
	method string
	op     *Operation
} {
	all := []struct {
		method string
		op     *Operation
	}{
		{"GET", p.Get},
		{"POST", p.Post},
		{"PUT", p.Put},
		{"PATCH", p.Patch},
		{"DELETE", p.Delete},
		{"HEAD", p.Head},
		{"OPTIONS", p.Options},
		{"TRACE", p.Trace},
	}

	result := all[:0]
	for _, entry := range all {
		if entry.op != nil {
			result = append(result, entry)
		}
	}
	return result
}

// LoadSpec reads an OpenAPI JSON or YAML file and returns its route table
func LoadSpec(path string, opts ...Option) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI spec %s: %w", path, err)
	}

	table, err := ParseSpec(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// ParseSpec builds a route table from OpenAPI JSON or YAML bytes
func ParseSpec(data []byte, opts ...Option) (*Table, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("failed to parse OpenAPI spec: empty document")
	}

	if data[0] != '{' {
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse OpenAPI spec: %w", err)
		}
		data = converted
	}

	var spec OpenAPISpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI spec: %w", err)
	}

	return spec.Table(opts...), nil
}

// FromHuma returns the live route table of a Huma API
func FromHuma(api huma.API, opts ...Option) (*Table, error) {
	if api == nil || api.OpenAPI() == nil {
		return nil, fmt.Errorf("huma API has no OpenAPI document")
	}

	data, err := api.OpenAPI().MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OpenAPI JSON: %w", err)
	}
	return ParseSpec(data, opts...)
}

// Table converts the spec's paths into a route table
func (s *OpenAPISpec) Table(opts ...Option) *Table {
	o := newOptions(opts)

	var schemas map[string]*Schema
	if s.Components != nil {
		schemas = s.Components.Schemas
	}

	paths := make([]string, 0, len(s.Paths))
	for path := range s.Paths {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var routes []Route
	for _, path := range paths {
		for _, entry := range s.Paths[path].operations() {
			route := Route{
				Path:      NormalizePath(path),
				Method:    entry.method,
				Name:      entry.op.OperationID,
				Tags:      entry.op.Tags,
				Operation: entry.op,
				Schemas:   schemas,
			}
			if len(route.Tags) > 0 {
				route.Namespace = route.Tags[0]
			}
			if o.namespace != nil {
				route.Namespace = o.namespace(route.Method, route.Path, route.Name)
			}
			routes = append(routes, route)
		}
	}

	return NewTable(routes)
}

// TypeString safely extracts type as string (handles OpenAPI 3.1 array format)
func TypeString(typeField interface{}) string {
	if typeField == nil {
		return ""
	}

	switch v := typeField.(type) {
	case string:
		return v
	case []interface{}:
		// OpenAPI 3.1 allows type to be an array like ["string", "null"]
		for _, item := range v {
			if str, ok := item.(string); ok && str != "null" {
				return str
			}
		}
	case []string:
		for _, str := range v {
			if str != "null" {
				return str
			}
		}
	}
	return ""
}

// RefName extracts the component name from a $ref like "#/components/schemas/User"
func RefName(ref string) string {
	if ref == "" {
		return ""
	}
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(normalizeYAML(doc))
}

// normalizeYAML turns yaml.v3 generic maps into JSON-compatible ones.
// Response codes written unquoted decode as int keys.
func normalizeYAML(v interface{}) interface{} {
	switch value := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(value))
		for k, item := range value {
			out[k] = normalizeYAML(item)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(value))
		for k, item := range value {
			out[fmt.Sprint(k)] = normalizeYAML(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(value))
		for i, item := range value {
			out[i] = normalizeYAML(item)
		}
		return out
	default:
		return value
	}
}
