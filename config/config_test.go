package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/barisgit/fluxdocs/internal/swagger"
)

func TestValidationError(t *testing.T) {
	err := ValidationError{
		Field:   "test_field",
		Value:   "test_value",
		Message: "test message",
	}

	expectedError := "config validation error in field 'test_field': test message (value: test_value)"
	if err.Error() != expectedError {
		t.Errorf("Expected error message '%s', got '%s'", expectedError, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	emptyErrs := ValidationErrors{}
	if emptyErrs.Error() != "no validation errors" {
		t.Errorf("Expected 'no validation errors', got '%s'", emptyErrs.Error())
	}
	if emptyErrs.HasErrors() {
		t.Error("Expected HasErrors() to be false for empty errors")
	}

	errs := ValidationErrors{
		ValidationError{Field: "field1", Value: "value1", Message: "message1"},
		ValidationError{Field: "field2", Value: "value2", Message: "message2"},
	}

	if !errs.HasErrors() {
		t.Error("Expected HasErrors() to be true for non-empty errors")
	}

	errorMsg := errs.Error()
	if !strings.Contains(errorMsg, "field1") || !strings.Contains(errorMsg, "field2") {
		t.Errorf("Expected error message to contain both fields, got '%s'", errorMsg)
	}
}

func TestDefaultLoadOptions(t *testing.T) {
	options := DefaultLoadOptions()

	if options.Path != "docs.yaml" {
		t.Errorf("Expected default path 'docs.yaml', got '%s'", options.Path)
	}
	if options.AllowMissing {
		t.Error("Expected AllowMissing to be false by default")
	}
	if !options.ValidateStructure {
		t.Error("Expected ValidateStructure to be true by default")
	}
	if !options.ApplyDefaults {
		t.Error("Expected ApplyDefaults to be true by default")
	}
	if !options.LoadEnv {
		t.Error("Expected LoadEnv to be true by default")
	}
	if options.Quiet {
		t.Error("Expected Quiet to be false by default")
	}
}

func TestModeValid(t *testing.T) {
	if !ModeNested.Valid() || !ModeFlat.Valid() {
		t.Error("Expected nested and flat to be valid modes")
	}
	if Mode("").Valid() || Mode("tree").Valid() {
		t.Error("Expected empty and unknown modes to be invalid")
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	cm := NewConfigManager(ConfigLoadOptions{
		Path:         filepath.Join(t.TempDir(), "nonexistent.yaml"),
		AllowMissing: false,
	})

	_, err := cm.LoadSettings()
	if err == nil {
		t.Error("Expected error for missing file when AllowMissing is false")
	}

	cm2 := NewConfigManager(ConfigLoadOptions{
		Path:         filepath.Join(t.TempDir(), "nonexistent.yaml"),
		AllowMissing: true,
		Quiet:        true,
	})

	settings, err := cm2.LoadSettings()
	if err != nil {
		t.Errorf("Expected no error when AllowMissing is true, got %v", err)
	}
	if settings == nil || settings.EnableOfflineDocs {
		t.Errorf("Expected disabled default settings when file is missing, got %+v", settings)
	}
}

const validSettings = `
enable_offline_docs: true
default_docs_storage: filesystem
file_storage_kwargs:
  location: /var/www/static
  base_url: https://cdn.example.com/static/
exclude_namespaces:
  - admin
  - internal
api_version: "2.1"
offline_base_path: https://api.example.com:8443/v2
mode: nested
info:
  title: Shop API
  contact: api@example.com
`

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docs.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}
	return path
}

func TestLoadSettingsValidYAML(t *testing.T) {
	path := writeSettings(t, validSettings)

	cm := NewConfigManager(ConfigLoadOptions{
		Path:              path,
		ValidateStructure: true,
		ApplyDefaults:     true,
		Quiet:             true,
	})

	settings, err := cm.LoadSettings()
	if err != nil {
		t.Fatalf("Expected no error for valid config, got %v", err)
	}

	if !settings.EnableOfflineDocs {
		t.Error("Expected offline docs to be enabled")
	}
	if settings.DefaultDocsStorage != "filesystem" {
		t.Errorf("Expected storage 'filesystem', got '%s'", settings.DefaultDocsStorage)
	}
	if settings.FileStorageKwargs["location"] != "/var/www/static" {
		t.Errorf("Expected location kwarg, got %v", settings.FileStorageKwargs)
	}
	if !reflect.DeepEqual(settings.ExcludeNamespaces, []string{"admin", "internal"}) {
		t.Errorf("Expected excluded namespaces [admin internal], got %v", settings.ExcludeNamespaces)
	}
	if settings.Mode != ModeNested {
		t.Errorf("Expected mode nested, got '%s'", settings.Mode)
	}

	expectedInfo := swagger.Info{Title: "Shop API", Contact: "api@example.com"}
	if settings.Info != expectedInfo {
		t.Errorf("Expected info %+v, got %+v", expectedInfo, settings.Info)
	}
}

func TestLoadSettingsInvalidYAML(t *testing.T) {
	path := writeSettings(t, "enable_offline_docs: [invalid syntax\n")

	_, err := NewConfigManager(ConfigLoadOptions{Path: path, Quiet: true}).LoadSettings()
	if err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadSettingsEnvironmentOverrides(t *testing.T) {
	path := writeSettings(t, validSettings)

	t.Setenv("SWAGGER_ENABLE_OFFLINE_DOCS", "false")
	t.Setenv("SWAGGER_DEFAULT_DOCS_STORAGE", "memory")
	t.Setenv("SWAGGER_FILE_STORAGE_KWARGS", "base_url:/docs-cdn,region:eu")
	t.Setenv("SWAGGER_EXCLUDE_NAMESPACES", "ops")
	t.Setenv("SWAGGER_MODE", "flat")
	t.Setenv("SWAGGER_INFO_TITLE", "Overridden")

	cm := NewConfigManager(ConfigLoadOptions{
		Path:              path,
		ValidateStructure: true,
		LoadEnv:           true,
		Quiet:             true,
	})

	settings, err := cm.LoadSettings()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if settings.EnableOfflineDocs {
		t.Error("Expected environment to disable offline docs")
	}
	if settings.DefaultDocsStorage != "memory" {
		t.Errorf("Expected storage 'memory', got '%s'", settings.DefaultDocsStorage)
	}
	expectedKwargs := map[string]string{"base_url": "/docs-cdn", "region": "eu"}
	if !reflect.DeepEqual(settings.FileStorageKwargs, expectedKwargs) {
		t.Errorf("Expected kwargs %v, got %v", expectedKwargs, settings.FileStorageKwargs)
	}
	if !reflect.DeepEqual(settings.ExcludeNamespaces, []string{"ops"}) {
		t.Errorf("Expected excluded namespaces [ops], got %v", settings.ExcludeNamespaces)
	}
	if settings.Mode != ModeFlat {
		t.Errorf("Expected mode flat, got '%s'", settings.Mode)
	}
	if settings.Info.Title != "Overridden" || settings.Info.Contact != "api@example.com" {
		t.Errorf("Expected only the title to be overridden, got %+v", settings.Info)
	}
	if settings.APIVersion != "2.1" {
		t.Errorf("Expected untouched api_version '2.1', got '%s'", settings.APIVersion)
	}
}

func TestLoadSettingsDotEnv(t *testing.T) {
	path := writeSettings(t, "enable_offline_docs: true\nmode: nested\n")
	dotenv := filepath.Join(filepath.Dir(path), ".env")
	if err := os.WriteFile(dotenv, []byte("SWAGGER_API_VERSION=9.9\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	// godotenv only sets unset variables; t.Setenv restores the original on cleanup
	t.Setenv("SWAGGER_API_VERSION", "")
	os.Unsetenv("SWAGGER_API_VERSION")

	settings, err := NewConfigManager(ConfigLoadOptions{Path: path, LoadEnv: true, Quiet: true}).LoadSettings()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if settings.APIVersion != "9.9" {
		t.Errorf("Expected api_version from .env, got '%s'", settings.APIVersion)
	}
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name           string
		settings       Settings
		expectedFields []string
	}{
		{
			name:     "empty settings are structurally valid",
			settings: Settings{},
		},
		{
			name:     "valid settings",
			settings: Settings{OfflineBasePath: "http://localhost:8000", Mode: ModeFlat},
		},
		{
			name:           "relative base path",
			settings:       Settings{OfflineBasePath: "not a url"},
			expectedFields: []string{"offline_base_path"},
		},
		{
			name:           "unknown mode",
			settings:       Settings{Mode: "tree"},
			expectedFields: []string{"mode"},
		},
		{
			name:           "multiple errors",
			settings:       Settings{OfflineBasePath: "::", Mode: "tree"},
			expectedFields: []string{"offline_base_path", "mode"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateSettings(&tt.settings)

			var fields []string
			for _, err := range errs {
				fields = append(fields, err.Field)
			}
			if !reflect.DeepEqual(fields, tt.expectedFields) {
				t.Errorf("Expected error fields %v, got %v (%v)", tt.expectedFields, fields, errs)
			}
		})
	}
}

func TestValidateSettingsMessages(t *testing.T) {
	errs := ValidateSettings(&Settings{Mode: "tree"})
	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(errs))
	}
	if !strings.Contains(errs[0].Message, "valid options are: nested, flat") {
		t.Errorf("Expected valid options in message, got '%s'", errs[0].Message)
	}
}

func TestLoadSettingsValidationFailure(t *testing.T) {
	path := writeSettings(t, "mode: sideways\n")

	_, err := NewConfigManager(ConfigLoadOptions{Path: path, ValidateStructure: true, Quiet: true}).LoadSettings()
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(err.Error(), "configuration validation failed") || !strings.Contains(err.Error(), "1. ") {
		t.Errorf("Expected numbered validation failure, got '%s'", err.Error())
	}

	if err := ValidateConfigFile(path); err == nil {
		t.Error("Expected ValidateConfigFile to fail")
	}
}

func TestApplyDefaults(t *testing.T) {
	settings := &Settings{}
	applyDefaults(settings)

	if settings.FileStorageKwargs == nil {
		t.Error("Expected non-nil storage kwargs")
	}
	if settings.ExcludeNamespaces == nil {
		t.Error("Expected non-nil excluded namespaces")
	}
	if settings.Mode != "" {
		t.Errorf("Expected mode to stay unset, got '%s'", settings.Mode)
	}
}

func TestWriteSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.yaml")
	original := &Settings{
		EnableOfflineDocs:  true,
		DefaultDocsStorage: "memory",
		FileStorageKwargs:  map[string]string{"base_url": "/static/"},
		ExcludeNamespaces:  []string{"admin"},
		OfflineBasePath:    "http://localhost:8000",
		Mode:               ModeFlat,
		Info:               swagger.Info{Title: "Docs"},
	}

	if err := WriteSettings(path, original); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "# ") {
		t.Error("Expected header comment")
	}

	loaded, err := NewConfigManager(ConfigLoadOptions{Path: path, ValidateStructure: true, Quiet: true}).LoadSettings()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !reflect.DeepEqual(loaded, original) {
		t.Errorf("Expected %+v, got %+v", original, loaded)
	}
}

func TestGetConfigInfo(t *testing.T) {
	path := writeSettings(t, validSettings)

	info, err := GetConfigInfo(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !filepath.IsAbs(info.Path) {
		t.Errorf("Expected absolute path, got '%s'", info.Path)
	}
	if info.Storage != "filesystem" || info.StorageOptions != 2 {
		t.Errorf("Expected filesystem with 2 options, got %s/%d", info.Storage, info.StorageOptions)
	}
	if info.Mode != ModeNested || info.Title != "Shop API" {
		t.Errorf("Unexpected info %+v", info)
	}

	if _, err := GetConfigInfo(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestConfigInfoString(t *testing.T) {
	info := &ConfigInfo{
		Path:              "/test/docs.yaml",
		Enabled:           true,
		Storage:           "memory",
		Mode:              ModeFlat,
		ExcludeNamespaces: []string{"admin", "ops"},
	}

	result := info.String()

	expected := []string{
		"Configuration Summary",
		"Path: /test/docs.yaml",
		"Offline docs: true",
		"Storage: memory (0 options)",
		"Mode: flat",
		"Excluded namespaces: admin, ops",
	}
	for _, want := range expected {
		if !strings.Contains(result, want) {
			t.Errorf("Expected summary to contain '%s', got:\n%s", want, result)
		}
	}
	if strings.Contains(result, "Base path") {
		t.Error("Expected empty base path to be omitted")
	}

	empty := (&ConfigInfo{}).String()
	if !strings.Contains(empty, "Storage: (not set)") {
		t.Errorf("Expected unset storage marker, got:\n%s", empty)
	}
}
