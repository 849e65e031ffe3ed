// Package swagger holds the Swagger 1.2 documents written as offline docs.
package swagger

import (
	"bytes"
	"encoding/json"
)

// SwaggerVersion is the document version written into every file
const SwaggerVersion = "1.2"

// Info is the API metadata block of a resource listing.
// Every key is always emitted, empty when not configured.
type Info struct {
	Contact           string `json:"contact" yaml:"contact" env:"CONTACT"`
	Description       string `json:"description" yaml:"description" env:"DESCRIPTION"`
	License           string `json:"license" yaml:"license" env:"LICENSE"`
	LicenseURL        string `json:"licenseUrl" yaml:"licenseUrl" env:"LICENSE_URL"`
	TermsOfServiceURL string `json:"termsOfServiceUrl" yaml:"termsOfServiceUrl" env:"TERMS_OF_SERVICE_URL"`
	Title             string `json:"title" yaml:"title" env:"TITLE"`
}

// ResourceRef is a single entry of a resource listing
type ResourceRef struct {
	Path string `json:"path"`
}

// ResourceListing is the top-level index written as base.json
type ResourceListing struct {
	APIVersion     string        `json:"apiVersion"`
	SwaggerVersion string        `json:"swaggerVersion"`
	BasePath       string        `json:"basePath"`
	APIs           []ResourceRef `json:"apis"`
	Info           Info          `json:"info"`
}

// ResourceDocument describes all operations of one resource group
type ResourceDocument struct {
	APIVersion     string           `json:"apiVersion"`
	SwaggerVersion string           `json:"swaggerVersion"`
	BasePath       string           `json:"basePath"`
	ResourcePath   string           `json:"resourcePath"`
	APIs           []API            `json:"apis"`
	Models         map[string]Model `json:"models"`
}

// API groups the operations registered on one path
type API struct {
	Path        string      `json:"path"`
	Description string      `json:"description"`
	Operations  []Operation `json:"operations"`
}

// Operation is one HTTP method on an API path
type Operation struct {
	Method           string            `json:"method"`
	Summary          string            `json:"summary"`
	Nickname         string            `json:"nickname"`
	Notes            string            `json:"notes"`
	Type             string            `json:"type"`
	Items            *Items            `json:"items,omitempty"`
	Parameters       []Parameter       `json:"parameters"`
	ResponseMessages []ResponseMessage `json:"responseMessages"`
	Deprecated       string            `json:"deprecated,omitempty"`
}

// Parameter describes one operation input
type Parameter struct {
	ParamType     string   `json:"paramType"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Required      bool     `json:"required"`
	Type          string   `json:"type"`
	Format        string   `json:"format,omitempty"`
	Items         *Items   `json:"items,omitempty"`
	Enum          []string `json:"enum,omitempty"`
	AllowMultiple bool     `json:"allowMultiple"`
	DefaultValue  string   `json:"defaultValue,omitempty"`
}

// ResponseMessage documents a non-success status code
type ResponseMessage struct {
	Code          int    `json:"code"`
	Message       string `json:"message"`
	ResponseModel string `json:"responseModel,omitempty"`
}

// Model is a named data type referenced by operations
type Model struct {
	ID          string              `json:"id"`
	Description string              `json:"description,omitempty"`
	Required    []string            `json:"required"`
	Properties  map[string]Property `json:"properties"`
}

// Property is a single field of a model
type Property struct {
	Type        string   `json:"type,omitempty"`
	Format      string   `json:"format,omitempty"`
	Ref         string   `json:"$ref,omitempty"`
	Items       *Items   `json:"items,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Items describes the element type of an array
type Items struct {
	Type   string `json:"type,omitempty"`
	Format string `json:"format,omitempty"`
	Ref    string `json:"$ref,omitempty"`
}

// Marshal renders v as compact JSON without HTML escaping.
// Struct fields keep declaration order and map keys are sorted, so equal
// inputs always produce equal bytes.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
