// Package docgen converts route descriptors into Swagger 1.2 API and model objects.
package docgen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/barisgit/fluxdocs/internal/routes"
	"github.com/barisgit/fluxdocs/internal/swagger"
)

// Generator builds Swagger 1.2 structures from route descriptors
type Generator struct{}

// New creates a new documentation generator
func New() *Generator {
	return &Generator{}
}

// Generate returns one API per distinct path, in the order routes are given
func (g *Generator) Generate(apiRoutes []routes.Route) ([]swagger.API, error) {
	apis := []swagger.API{}
	index := make(map[string]int)

	for _, route := range apiRoutes {
		operation, err := g.operation(route)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", route.Method, route.Path, err)
		}

		i, exists := index[route.Path]
		if !exists {
			i = len(apis)
			index[route.Path] = i
			apis = append(apis, swagger.API{
				Path:       route.Path,
				Operations: []swagger.Operation{},
			})
		}

		if apis[i].Description == "" && route.Operation != nil {
			apis[i].Description = route.Operation.Summary
		}
		apis[i].Operations = append(apis[i].Operations, operation)
	}

	return apis, nil
}

// Models returns every component schema reachable from the routes' parameters,
// request bodies and responses
func (g *Generator) Models(apiRoutes []routes.Route) (map[string]swagger.Model, error) {
	models := make(map[string]swagger.Model)

	for _, route := range apiRoutes {
		if route.Operation == nil {
			continue
		}

		c := &collector{schemas: route.Schemas, found: make(map[string]*routes.Schema)}
		for _, schema := range operationSchemas(route.Operation) {
			if err := c.visit(schema); err != nil {
				return nil, fmt.Errorf("%s %s: %w", route.Method, route.Path, err)
			}
		}

		for name, schema := range c.found {
			if strings.Contains(name, "$") {
				continue
			}
			if _, done := models[name]; done {
				continue
			}
			model, err := convertModel(name, schema, route.Schemas)
			if err != nil {
				return nil, err
			}
			models[name] = model
		}
	}

	return models, nil
}

func (g *Generator) operation(route routes.Route) (swagger.Operation, error) {
	operation := swagger.Operation{
		Method:           route.Method,
		Nickname:         nickname(route.Method, route.Path),
		Type:             "void",
		Parameters:       []swagger.Parameter{},
		ResponseMessages: []swagger.ResponseMessage{},
	}

	op := route.Operation
	if op == nil {
		for _, name := range routes.PathParams(route.Path) {
			operation.Parameters = append(operation.Parameters, swagger.Parameter{
				ParamType: "path",
				Name:      name,
				Required:  true,
				Type:      "string",
			})
		}
		return operation, nil
	}

	operation.Summary = op.Summary
	operation.Notes = op.Description
	if op.OperationID != "" {
		operation.Nickname = op.OperationID
	}
	if op.Deprecated {
		operation.Deprecated = "true"
	}

	for _, param := range op.Parameters {
		// Swagger 1.2 has no cookie parameters
		if param.In == "cookie" {
			continue
		}
		parameter := swagger.Parameter{
			ParamType:   param.In,
			Name:        param.Name,
			Description: param.Description,
			Required:    param.Required || param.In == "path",
		}
		applySchemaType(&parameter, param.Schema)
		operation.Parameters = append(operation.Parameters, parameter)
	}

	if op.RequestBody != nil {
		bodyParams, err := requestBodyParameters(op.RequestBody, route.Schemas)
		if err != nil {
			return operation, err
		}
		operation.Parameters = append(operation.Parameters, bodyParams...)
	}

	codes := make([]string, 0, len(op.Responses))
	for code := range op.Responses {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	successSeen := false
	for _, code := range codes {
		response := op.Responses[code]
		schema := mediaSchema(response.Content)

		if strings.HasPrefix(code, "2") {
			if !successSeen && schema != nil {
				operation.Type, _, operation.Items = typeOf(schema)
			}
			successSeen = true
			continue
		}

		status, err := strconv.Atoi(code)
		if err != nil {
			continue
		}
		message := swagger.ResponseMessage{Code: status, Message: response.Description}
		if schema != nil && schema.Ref != "" {
			message.ResponseModel = routes.RefName(schema.Ref)
		}
		operation.ResponseMessages = append(operation.ResponseMessages, message)
	}

	return operation, nil
}

// requestBodyParameters maps a JSON body to a single body parameter and a form
// body to one form parameter per property
func requestBodyParameters(body *routes.RequestBody, schemas map[string]*routes.Schema) ([]swagger.Parameter, error) {
	if len(body.Content) == 0 {
		return nil, nil
	}

	for _, contentType := range []string{"multipart/form-data", "application/x-www-form-urlencoded"} {
		media, ok := body.Content[contentType]
		if !ok || media.Schema == nil {
			continue
		}

		schema, err := resolve(media.Schema, schemas)
		if err != nil {
			return nil, err
		}

		names := make([]string, 0, len(schema.Properties))
		for name := range schema.Properties {
			names = append(names, name)
		}
		sort.Strings(names)

		var params []swagger.Parameter
		for _, name := range names {
			prop := schema.Properties[name]
			param := swagger.Parameter{
				ParamType:   "form",
				Name:        name,
				Description: prop.Description,
				Required:    contains(schema.Required, name),
			}
			applySchemaType(&param, prop)
			if param.Format == "binary" {
				param.Type, param.Format = "File", ""
			}
			params = append(params, param)
		}
		return params, nil
	}

	schema := mediaSchema(body.Content)
	if schema == nil {
		return nil, nil
	}

	param := swagger.Parameter{
		ParamType:   "body",
		Name:        "body",
		Description: body.Description,
		Required:    body.Required,
	}
	param.Type, param.Format, param.Items = typeOf(schema)
	return []swagger.Parameter{param}, nil
}

// mediaSchema picks the JSON schema of a content map, falling back to the
// first content type in sorted order
func mediaSchema(content map[string]routes.MediaTypeObject) *routes.Schema {
	if media, ok := content["application/json"]; ok && media.Schema != nil {
		return media.Schema
	}

	types := make([]string, 0, len(content))
	for contentType := range content {
		types = append(types, contentType)
	}
	sort.Strings(types)

	for _, contentType := range types {
		if schema := content[contentType].Schema; schema != nil {
			return schema
		}
	}
	return nil
}

func applySchemaType(param *swagger.Parameter, schema *routes.Schema) {
	if schema == nil {
		param.Type = "string"
		return
	}

	param.Type, param.Format, param.Items = typeOf(schema)
	param.Enum = enumStrings(schema.Enum)
	if schema.Default != nil {
		param.DefaultValue = fmt.Sprint(schema.Default)
	}
	if param.Description == "" {
		param.Description = schema.Description
	}
}

// typeOf maps an OpenAPI schema onto a Swagger 1.2 type, format and item type
func typeOf(schema *routes.Schema) (string, string, *swagger.Items) {
	if schema == nil {
		return "void", "", nil
	}
	if schema.Ref != "" {
		return routes.RefName(schema.Ref), "", nil
	}

	switch typ := routes.TypeString(schema.Type); typ {
	case "array":
		items := &swagger.Items{Type: "string"}
		if schema.Items != nil {
			if schema.Items.Ref != "" {
				items = &swagger.Items{Ref: routes.RefName(schema.Items.Ref)}
			} else if itemType := routes.TypeString(schema.Items.Type); itemType != "" {
				items = &swagger.Items{Type: itemType, Format: schema.Items.Format}
			}
		}
		return "array", "", items
	case "":
		if len(schema.AllOf) == 1 && schema.AllOf[0].Ref != "" {
			return routes.RefName(schema.AllOf[0].Ref), "", nil
		}
		return "object", "", nil
	default:
		return typ, schema.Format, nil
	}
}

func convertModel(name string, schema *routes.Schema, schemas map[string]*routes.Schema) (swagger.Model, error) {
	model := swagger.Model{
		ID:          name,
		Description: schema.Description,
		Required:    []string{},
		Properties:  make(map[string]swagger.Property),
	}

	parts := []*routes.Schema{schema}
	for _, sub := range schema.AllOf {
		resolved, err := resolve(sub, schemas)
		if err != nil {
			return model, fmt.Errorf("model %s: %w", name, err)
		}
		parts = append(parts, resolved)
	}

	for _, part := range parts {
		for propName, prop := range part.Properties {
			// Huma adds a $schema link to every response body
			if propName == "$schema" || prop == nil {
				continue
			}
			model.Properties[propName] = convertProperty(prop)
		}
		for _, required := range part.Required {
			if required != "$schema" && !contains(model.Required, required) {
				model.Required = append(model.Required, required)
			}
		}
	}
	sort.Strings(model.Required)

	return model, nil
}

func convertProperty(schema *routes.Schema) swagger.Property {
	prop := swagger.Property{
		Description: schema.Description,
		Enum:        enumStrings(schema.Enum),
	}

	typ, format, items := typeOf(schema)
	if schema.Ref != "" || (len(schema.AllOf) == 1 && schema.AllOf[0].Ref != "") {
		prop.Ref = typ
		return prop
	}
	prop.Type, prop.Format, prop.Items = typ, format, items
	return prop
}

func resolve(schema *routes.Schema, schemas map[string]*routes.Schema) (*routes.Schema, error) {
	if schema.Ref == "" {
		return schema, nil
	}
	name := routes.RefName(schema.Ref)
	target, ok := schemas[name]
	if !ok || target == nil {
		return nil, fmt.Errorf("unknown schema reference %q", schema.Ref)
	}
	return target, nil
}

type collector struct {
	schemas map[string]*routes.Schema
	found   map[string]*routes.Schema
}

// visit records every named schema reachable from schema
func (c *collector) visit(schema *routes.Schema) error {
	if schema == nil {
		return nil
	}

	if schema.Ref != "" {
		name := routes.RefName(schema.Ref)
		if _, seen := c.found[name]; seen {
			return nil
		}
		target, err := resolve(schema, c.schemas)
		if err != nil {
			return err
		}
		c.found[name] = target
		return c.visit(target)
	}

	children := []*routes.Schema{schema.Items}
	for _, prop := range schema.Properties {
		children = append(children, prop)
	}
	children = append(children, schema.AllOf...)
	children = append(children, schema.OneOf...)
	children = append(children, schema.AnyOf...)
	if additional, ok := schema.AdditionalProperties.(map[string]interface{}); ok {
		if ref, ok := additional["$ref"].(string); ok {
			children = append(children, &routes.Schema{Ref: ref})
		}
	}

	for _, child := range children {
		if err := c.visit(child); err != nil {
			return err
		}
	}
	return nil
}

func operationSchemas(op *routes.Operation) []*routes.Schema {
	var schemas []*routes.Schema
	for _, param := range op.Parameters {
		schemas = append(schemas, param.Schema)
	}
	if op.RequestBody != nil {
		for _, media := range op.RequestBody.Content {
			schemas = append(schemas, media.Schema)
		}
	}
	for _, response := range op.Responses {
		for _, media := range response.Content {
			schemas = append(schemas, media.Schema)
		}
	}
	return schemas
}

// nickname builds an operation name like "getUsersId" from method and path
func nickname(method, path string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))

	for _, segment := range strings.Split(path, "/") {
		segment = strings.Trim(segment, "{}")
		upperNext := true
		for _, r := range segment {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				upperNext = true
				continue
			}
			if upperNext {
				r = unicode.ToUpper(r)
				upperNext = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

func enumStrings(values []interface{}) []string {
	if len(values) == 0 {
		return nil
	}
	result := make([]string, len(values))
	for i, value := range values {
		result[i] = fmt.Sprint(value)
	}
	return result
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
