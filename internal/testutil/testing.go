package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/barisgit/fluxdocs/storage"
)

// DocTestCase represents a test case for serving stored docs
type DocTestCase struct {
	Name                string
	Path                string
	ExpectedStatus      int
	ExpectedBodyContent string
	ExpectedContentType string
	ExpectCacheControl  bool
}

// SeedFiles are the stored files a nested and a flat run would leave behind
var SeedFiles = map[string]string{
	"docs/base.json":          `{"swaggerVersion":"1.2","apis":[{"path":"/docs/users.{format}"}]}`,
	"docs/users.json":         `{"resourcePath":"users"}`,
	"docs/orders/items.json":  `{"resourcePath":"orders/items"}`,
	"docs/invoices_open.json": `{"resourcePath":"invoices/open"}`,
}

// NewDocsStore returns a memory store holding SeedFiles
func NewDocsStore(t *testing.T) *storage.Memory {
	t.Helper()

	store := storage.NewMemory("/")
	for name, content := range SeedFiles {
		if _, err := store.Save(context.Background(), name, []byte(content)); err != nil {
			t.Fatalf("Failed to seed %s: %v", name, err)
		}
	}
	return store
}

// GetBasicDocServingTests returns common test cases for docs served under /docs/
func GetBasicDocServingTests() []DocTestCase {
	return []DocTestCase{
		{
			Name:                "serve resource listing",
			Path:                "/docs/base.json",
			ExpectedStatus:      200,
			ExpectedBodyContent: `"swaggerVersion":"1.2"`,
			ExpectedContentType: "application/json",
			ExpectCacheControl:  true,
		},
		{
			Name:                "serve prefix root as listing",
			Path:                "/docs/",
			ExpectedStatus:      200,
			ExpectedBodyContent: `"swaggerVersion":"1.2"`,
			ExpectedContentType: "application/json",
			ExpectCacheControl:  true,
		},
		{
			Name:                "serve format placeholder",
			Path:                "/docs/users.{format}",
			ExpectedStatus:      200,
			ExpectedBodyContent: `"resourcePath":"users"`,
			ExpectedContentType: "application/json",
			ExpectCacheControl:  true,
		},
		{
			Name:                "serve nested resource",
			Path:                "/docs/orders/items.json",
			ExpectedStatus:      200,
			ExpectedBodyContent: `"resourcePath":"orders/items"`,
			ExpectedContentType: "application/json",
			ExpectCacheControl:  true,
		},
		{
			Name:                "serve flat resource by path",
			Path:                "/docs/invoices/open",
			ExpectedStatus:      200,
			ExpectedBodyContent: `"resourcePath":"invoices/open"`,
			ExpectedContentType: "application/json",
			ExpectCacheControl:  true,
		},
	}
}

// GetNotFoundPaths returns request paths that must not resolve to a stored file
func GetNotFoundPaths() []string {
	return []string{
		"/docs/missing.json",
		"/docs/../secrets.json",
		"/other/base.json",
	}
}

// ValidateDocResponse validates common aspects of docs responses
func ValidateDocResponse(t *testing.T, testCase DocTestCase, statusCode int, contentType, cacheControl, body string) {
	t.Helper()

	if statusCode != testCase.ExpectedStatus {
		t.Errorf("Expected status %d, got %d", testCase.ExpectedStatus, statusCode)
	} else {
		t.Logf("✅ Status code: %d", statusCode)
	}

	if !strings.Contains(contentType, testCase.ExpectedContentType) {
		t.Errorf("Expected Content-Type to contain '%s', got '%s'", testCase.ExpectedContentType, contentType)
	} else {
		t.Logf("✅ Content-Type: %s", contentType)
	}

	if testCase.ExpectCacheControl {
		if cacheControl == "" {
			t.Errorf("Expected Cache-Control header to be set, got empty")
		} else {
			t.Logf("✅ Cache-Control: %s", cacheControl)
		}
	}

	if !strings.Contains(body, testCase.ExpectedBodyContent) {
		t.Errorf("Expected body to contain '%s', got '%s'", testCase.ExpectedBodyContent, body)
	} else {
		t.Logf("✅ Body contains expected content")
	}
}
