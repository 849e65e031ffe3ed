package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	env "github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/barisgit/fluxdocs/internal/swagger"
)

// EnvPrefix prefixes every environment variable that overrides a setting
const EnvPrefix = "SWAGGER_"

// Mode selects how offline docs are laid out in storage
type Mode string

const (
	// ModeNested mirrors resource paths as directories and rewrites listing paths to storage URLs
	ModeNested Mode = "nested"
	// ModeFlat flattens resource paths into file names directly under docs/
	ModeFlat Mode = "flat"
)

// Modes lists the supported modes
var Modes = []Mode{ModeNested, ModeFlat}

// Valid reports whether m is a supported mode
func (m Mode) Valid() bool {
	for _, mode := range Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// Settings holds everything the offline docs builder reads
type Settings struct {
	EnableOfflineDocs  bool              `yaml:"enable_offline_docs" env:"ENABLE_OFFLINE_DOCS"`
	DefaultDocsStorage string            `yaml:"default_docs_storage" env:"DEFAULT_DOCS_STORAGE"`
	FileStorageKwargs  map[string]string `yaml:"file_storage_kwargs" env:"FILE_STORAGE_KWARGS"`
	ExcludeNamespaces  []string          `yaml:"exclude_namespaces" env:"EXCLUDE_NAMESPACES"`
	APIVersion         string            `yaml:"api_version" env:"API_VERSION"`
	OfflineBasePath    string            `yaml:"offline_base_path" env:"OFFLINE_BASE_PATH" validate:"omitempty,url"`
	Info               swagger.Info      `yaml:"info" envPrefix:"INFO_"`
	Mode               Mode              `yaml:"mode" env:"MODE" validate:"omitempty,oneof=nested flat"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error in field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "no validation errors"
	}

	var messages []string
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

func (errs ValidationErrors) HasErrors() bool {
	return len(errs) > 0
}

// ConfigLoadOptions provides options for loading configuration
type ConfigLoadOptions struct {
	Path              string
	AllowMissing      bool
	ValidateStructure bool
	ApplyDefaults     bool
	LoadEnv           bool
	Quiet             bool
}

// DefaultLoadOptions returns sensible defaults for config loading
func DefaultLoadOptions() ConfigLoadOptions {
	return ConfigLoadOptions{
		Path:              "docs.yaml",
		AllowMissing:      false,
		ValidateStructure: true,
		ApplyDefaults:     true,
		LoadEnv:           true,
		Quiet:             false,
	}
}

// ConfigManager handles configuration loading, validation, and management
type ConfigManager struct {
	options ConfigLoadOptions
}

// NewConfigManager creates a new configuration manager
func NewConfigManager(options ConfigLoadOptions) *ConfigManager {
	return &ConfigManager{
		options: options,
	}
}

// LoadSettings loads settings from the configured path
func (cm *ConfigManager) LoadSettings() (*Settings, error) {
	return cm.LoadSettingsFromPath(cm.options.Path)
}

// LoadSettingsFromPath loads settings from a YAML file, then overlays the environment
func (cm *ConfigManager) LoadSettingsFromPath(path string) (*Settings, error) {
	settings, err := cm.readFile(path)
	if err != nil {
		return nil, err
	}

	if cm.options.LoadEnv {
		if err := cm.loadEnv(path, settings); err != nil {
			return nil, err
		}
	}

	if cm.options.ApplyDefaults {
		applyDefaults(settings)
	}

	if cm.options.ValidateStructure {
		if errs := ValidateSettings(settings); errs.HasErrors() {
			return nil, fmt.Errorf("configuration validation failed:\n%s", formatValidationErrors(errs))
		}
	}

	return settings, nil
}

func (cm *ConfigManager) readFile(path string) (*Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if cm.options.AllowMissing {
			if !cm.options.Quiet {
				fmt.Printf("⚠️  Configuration file not found at %s, using defaults\n", path)
			}
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("configuration file not found: %s\n\nRun 'fluxdocs config init' to create one", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	settings := &Settings{}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %s: %w\n\nPlease check your YAML syntax", path, err)
	}
	return settings, nil
}

// loadEnv reads a .env file next to the config file, then applies SWAGGER_* overrides
func (cm *ConfigManager) loadEnv(path string, settings *Settings) error {
	dotenv := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", dotenv, err)
	}

	if err := env.ParseWithOptions(settings, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return nil
}

func applyDefaults(settings *Settings) {
	if settings.FileStorageKwargs == nil {
		settings.FileStorageKwargs = make(map[string]string)
	}
	if settings.ExcludeNamespaces == nil {
		settings.ExcludeNamespaces = []string{}
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateSettings checks the structure of the settings
func ValidateSettings(settings *Settings) ValidationErrors {
	var errs ValidationErrors

	err := validate.Struct(settings)
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return errs
	}

	for _, fe := range fieldErrors {
		field := strings.TrimPrefix(fe.Namespace(), "Settings.")
		errs = append(errs, ValidationError{
			Field:   field,
			Value:   fe.Value(),
			Message: validationMessage(fe),
		})
	}
	return errs
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "url":
		return "must be an absolute URL such as https://api.example.com"
	case "oneof":
		return fmt.Sprintf("unsupported value '%v', valid options are: %s", fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed '%s' validation", fe.Tag())
	}
}

// formatValidationErrors formats validation errors in a user-friendly way
func formatValidationErrors(errors ValidationErrors) string {
	var lines []string
	for i, err := range errors {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, err.Error()))
	}
	return strings.Join(lines, "\n")
}

// DefaultSettings returns settings with every optional key at its default.
// Offline docs stay disabled until enabled explicitly.
func DefaultSettings() *Settings {
	return &Settings{
		FileStorageKwargs: make(map[string]string),
		ExcludeNamespaces: []string{},
	}
}

// ValidateConfigFile validates a configuration file, environment included
func ValidateConfigFile(path string) error {
	cm := NewConfigManager(ConfigLoadOptions{
		Path:              path,
		AllowMissing:      false,
		ValidateStructure: true,
		ApplyDefaults:     false,
		LoadEnv:           true,
		Quiet:             true,
	})

	_, err := cm.LoadSettingsFromPath(path)
	return err
}

// WriteSettings writes settings as YAML to path
func WriteSettings(path string, settings *Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	header := "# Offline Swagger docs settings. Every key can be overridden with a " + EnvPrefix + "* variable.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// GetConfigInfo returns information about the current configuration
func GetConfigInfo(path string) (*ConfigInfo, error) {
	options := DefaultLoadOptions()
	options.Quiet = true
	settings, err := NewConfigManager(options).LoadSettingsFromPath(path)
	if err != nil {
		return nil, err
	}

	absPath, _ := filepath.Abs(path)

	return &ConfigInfo{
		Path:              absPath,
		Enabled:           settings.EnableOfflineDocs,
		Storage:           settings.DefaultDocsStorage,
		StorageOptions:    len(settings.FileStorageKwargs),
		Mode:              settings.Mode,
		APIVersion:        settings.APIVersion,
		BasePath:          settings.OfflineBasePath,
		ExcludeNamespaces: settings.ExcludeNamespaces,
		Title:             settings.Info.Title,
	}, nil
}

// ConfigInfo contains summary information about a configuration
type ConfigInfo struct {
	Path              string
	Enabled           bool
	Storage           string
	StorageOptions    int
	Mode              Mode
	APIVersion        string
	BasePath          string
	ExcludeNamespaces []string
	Title             string
}

// String returns a formatted string representation of config info
func (info *ConfigInfo) String() string {
	var lines []string
	lines = append(lines, "📋 Configuration Summary")
	lines = append(lines, fmt.Sprintf("   Path: %s", info.Path))
	lines = append(lines, fmt.Sprintf("   Offline docs: %t", info.Enabled))
	lines = append(lines, fmt.Sprintf("   Storage: %s (%d options)", orNone(info.Storage), info.StorageOptions))
	lines = append(lines, fmt.Sprintf("   Mode: %s", orNone(string(info.Mode))))
	if info.APIVersion != "" {
		lines = append(lines, fmt.Sprintf("   API version: %s", info.APIVersion))
	}
	if info.BasePath != "" {
		lines = append(lines, fmt.Sprintf("   Base path: %s", info.BasePath))
	}
	if len(info.ExcludeNamespaces) > 0 {
		lines = append(lines, fmt.Sprintf("   Excluded namespaces: %s", strings.Join(info.ExcludeNamespaces, ", ")))
	}
	if info.Title != "" {
		lines = append(lines, fmt.Sprintf("   Title: %s", info.Title))
	}

	return strings.Join(lines, "\n")
}

// LoadSettings loads settings using default options
func LoadSettings() (*Settings, error) {
	return NewConfigManager(DefaultLoadOptions()).LoadSettings()
}

// LoadSettingsQuiet loads settings without warnings or messages
func LoadSettingsQuiet(path string) (*Settings, error) {
	options := DefaultLoadOptions()
	options.Path = path
	options.Quiet = true
	return NewConfigManager(options).LoadSettings()
}

func orNone(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}
