// Package fluxdocs generates offline Swagger 1.2 docs for Go APIs.
// This allows users to import: github.com/barisgit/fluxdocs
package fluxdocs

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/spf13/cobra"

	"github.com/barisgit/fluxdocs/config"
	"github.com/barisgit/fluxdocs/dev"
	"github.com/barisgit/fluxdocs/internal/docgen"
	"github.com/barisgit/fluxdocs/internal/routes"
	"github.com/barisgit/fluxdocs/offline"
	"github.com/barisgit/fluxdocs/pkg/base"
)

// AddOfflineDocsCommand adds an offline docs generation command to any cobra CLI
// This is a convenience function that wraps the dev package
func AddOfflineDocsCommand(rootCmd *cobra.Command, apiProvider func() huma.API) {
	dev.AddOfflineDocsCommand(rootCmd, apiProvider)
}

// Route sources - re-export from routes package
var (
	FromHuma          = routes.FromHuma
	FromGin           = routes.FromGin
	FromEcho          = routes.FromEcho
	FromFiber         = routes.FromFiber
	FromChi           = routes.FromChi
	LoadSpec          = routes.LoadSpec
	ParseSpec         = routes.ParseSpec
	NewTable          = routes.NewTable
	WithNamespaceFunc = routes.WithNamespaceFunc
)

// Generation - re-export from offline package
var (
	Generate      = offline.Generate
	NewBuilder    = offline.New
	OpenBuilder   = offline.Open
	CheckSettings = offline.CheckSettings
	WithLogger    = offline.WithLogger
)

// Settings - re-export from config package
var (
	LoadSettings       = config.LoadSettings
	LoadSettingsQuiet  = config.LoadSettingsQuiet
	DefaultSettings    = config.DefaultSettings
	ValidateConfigFile = config.ValidateConfigFile
)

// Serving - re-export from base package
var ServeDoc = base.ServeDoc

// NewGenerator returns the Swagger 1.2 document generator
func NewGenerator() *docgen.Generator {
	return docgen.New()
}

const (
	ModeNested = config.ModeNested
	ModeFlat   = config.ModeFlat
)

// Re-export types
type Settings = config.Settings
type Mode = config.Mode
type Route = routes.Route
type Table = routes.Table
type Builder = offline.Builder
type Result = offline.Result
type Logger = offline.Logger
type DocsConfig = base.DocsConfig
type DocResponse = base.DocResponse

// Errors - re-export from offline package
type ConfigurationError = offline.ConfigurationError
type StorageError = offline.StorageError
type GenerationError = offline.GenerationError
