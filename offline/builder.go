// Package offline writes Swagger 1.2 documentation for a routing table to a
// storage backend, so the docs can be served without the live route table.
package offline

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/barisgit/fluxdocs/config"
	"github.com/barisgit/fluxdocs/internal/routes"
	"github.com/barisgit/fluxdocs/internal/swagger"
	"github.com/barisgit/fluxdocs/storage"
)

const (
	// DocsDir is the storage directory holding every generated file
	DocsDir = "docs"
	// ListingFile is the resource listing written inside DocsDir
	ListingFile = "base.json"
)

// Enumerator lists registered routes and reduces them to resource groups
type Enumerator interface {
	APIs(ctx context.Context, filterPath string, excludeNamespaces []string) ([]routes.Route, error)
	TopLevelAPIs(apiRoutes []routes.Route) []string
}

// DocGenerator turns routes into Swagger apis and models
type DocGenerator interface {
	Generate(apiRoutes []routes.Route) ([]swagger.API, error)
	Models(apiRoutes []routes.Route) (map[string]swagger.Model, error)
}

// Result describes a completed GenerateAll run
type Result struct {
	// Files holds the stored names in write order
	Files   []string
	Listing *swagger.ResourceListing
}

// Builder generates offline docs from its settings and collaborators
type Builder struct {
	settings   config.Settings
	enumerator Enumerator
	generator  DocGenerator
	store      storage.Storage
	ownsStore  bool
	logger     Logger
}

// Option configures a Builder
type Option func(*Builder)

// WithLogger sets the logger receiving progress messages
func WithLogger(logger Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates a builder writing to store
func New(settings config.Settings, enumerator Enumerator, generator DocGenerator, store storage.Storage, opts ...Option) *Builder {
	b := &Builder{
		settings:   settings,
		enumerator: enumerator,
		generator:  generator,
		store:      store,
		logger:     NewConsoleLogger(nil),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Open checks the settings, then creates the configured storage backend and a
// builder that owns it
func Open(ctx context.Context, settings config.Settings, enumerator Enumerator, generator DocGenerator, opts ...Option) (*Builder, error) {
	if err := CheckSettings(settings); err != nil {
		return nil, err
	}

	store, err := storage.New(ctx, settings.DefaultDocsStorage, settings.FileStorageKwargs)
	if err != nil {
		return nil, &StorageError{Op: "open", Name: settings.DefaultDocsStorage, Err: err}
	}

	b := New(settings, enumerator, generator, store, opts...)
	b.ownsStore = true
	return b, nil
}

// Close releases the storage backend when the builder created it
func (b *Builder) Close() error {
	if b.ownsStore && b.store != nil {
		return b.store.Close()
	}
	return nil
}

// Storage returns the backend the builder writes to
func (b *Builder) Storage() storage.Storage {
	return b.store
}

// CheckSettings reports the first setting that prevents offline generation
func CheckSettings(settings config.Settings) error {
	if !settings.EnableOfflineDocs {
		return &ConfigurationError{Setting: "ENABLE_OFFLINE_DOCS", Message: "must be set to generate offline docs"}
	}
	if settings.DefaultDocsStorage == "" {
		return &ConfigurationError{Setting: "DEFAULT_DOCS_STORAGE", Message: "must be set to generate offline docs"}
	}
	if !settings.Mode.Valid() {
		return &ConfigurationError{
			Setting: "mode",
			Message: fmt.Sprintf("must be one of %q or %q, got %q", config.ModeNested, config.ModeFlat, settings.Mode),
		}
	}
	return nil
}

// GenerateAll replaces the stored docs with a fresh resource listing and one
// document per resource group. Any failure aborts the run; files already
// written stay in place.
func (b *Builder) GenerateAll(ctx context.Context) (*Result, error) {
	if err := CheckSettings(b.settings); err != nil {
		return nil, err
	}
	if b.store == nil {
		return nil, &ConfigurationError{Setting: "DEFAULT_DOCS_STORAGE", Message: "has no storage backend"}
	}

	if err := b.clearPrevious(ctx); err != nil {
		return nil, err
	}

	listing, err := b.ResourceListing(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: []string{}, Listing: listing}
	if b.settings.Mode == config.ModeFlat {
		err = b.generateFlat(ctx, result)
	} else {
		err = b.generateNested(ctx, result)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (b *Builder) clearPrevious(ctx context.Context) error {
	if b.settings.Mode == config.ModeFlat {
		b.logger.Info("Dropping previous docs")
	}

	exists, err := b.store.Exists(ctx, DocsDir)
	if err != nil {
		return &StorageError{Op: "exists", Name: DocsDir, Err: err}
	}
	if !exists {
		return nil
	}

	if b.settings.Mode == config.ModeFlat {
		return b.DropFiles(ctx, DocsDir)
	}
	b.logger.Info("Deleting previous docs")
	return b.ClearDir(ctx, DocsDir)
}

// generateNested writes one file per resource below a mirrored directory tree,
// then the listing pointing at the stored URLs
func (b *Builder) generateNested(ctx context.Context, result *Result) error {
	b.logger.Info("Generating Docs")

	for i, ref := range result.Listing.APIs {
		path := strings.TrimLeft(ref.Path, "/")
		b.logger.Info(fmt.Sprintf("Processing path: %s", path))

		filename := filepath.Join(DocsDir, filepath.FromSlash(path)+".json")
		stored, err := b.writeDocument(ctx, path, filename)
		if err != nil {
			return err
		}
		result.Files = append(result.Files, stored)
		result.Listing.APIs[i].Path = formatURL(b.store.URL(stored))
	}

	b.logger.Info("Generating base.json")
	stored, err := b.save(ctx, DocsDir+"/"+ListingFile, result.Listing, "")
	if err != nil {
		return err
	}
	result.Files = append(result.Files, stored)
	return nil
}

// generateFlat writes the listing first, then one file per resource named
// after its path with "/" replaced by "_"
func (b *Builder) generateFlat(ctx context.Context, result *Result) error {
	b.logger.Info("Generating base.json")
	stored, err := b.save(ctx, DocsDir+"/"+ListingFile, result.Listing, "")
	if err != nil {
		return err
	}
	result.Files = append(result.Files, stored)

	for _, ref := range result.Listing.APIs {
		path := ref.Path
		if parsed, err := url.Parse(path); err == nil {
			path = parsed.Path
		}
		path = strings.TrimLeft(path, "/")
		b.logger.Info(fmt.Sprintf("Processing path: %s", path))

		filename := DocsDir + "/" + strings.ReplaceAll(path, "/", "_") + ".json"
		stored, err := b.writeDocument(ctx, path, filename)
		if err != nil {
			return err
		}
		result.Files = append(result.Files, stored)
	}
	return nil
}

func (b *Builder) writeDocument(ctx context.Context, path, filename string) (string, error) {
	doc, err := b.GenerateOne(ctx, path)
	if err != nil {
		return "", err
	}
	return b.save(ctx, filename, doc, path)
}

func (b *Builder) save(ctx context.Context, filename string, v interface{}, path string) (string, error) {
	data, err := swagger.Marshal(v)
	if err != nil {
		return "", &GenerationError{Path: path, Err: fmt.Errorf("failed to encode %s: %w", filename, err)}
	}

	stored, err := b.store.Save(ctx, filename, data)
	if err != nil {
		return "", &StorageError{Op: "save", Name: filename, Err: err}
	}
	return stored, nil
}

// GenerateOne builds the resource document for path. An empty path covers
// every route. Excluded namespaces only shape the listing; a document lists
// every route under its path.
func (b *Builder) GenerateOne(ctx context.Context, path string) (*swagger.ResourceDocument, error) {
	apiRoutes, err := b.enumerator.APIs(ctx, path, nil)
	if err != nil {
		return nil, &GenerationError{Path: path, Err: err}
	}

	apis, err := b.generator.Generate(apiRoutes)
	if err != nil {
		return nil, &GenerationError{Path: path, Err: err}
	}

	models, err := b.generator.Models(apiRoutes)
	if err != nil {
		return nil, &GenerationError{Path: path, Err: err}
	}

	basePath, err := hostBasePath(b.settings.OfflineBasePath)
	if err != nil {
		return nil, &GenerationError{Path: path, Err: err}
	}

	if apis == nil {
		apis = []swagger.API{}
	}
	if models == nil {
		models = map[string]swagger.Model{}
	}

	return &swagger.ResourceDocument{
		APIVersion:     b.settings.APIVersion,
		SwaggerVersion: swagger.SwaggerVersion,
		BasePath:       basePath,
		ResourcePath:   path,
		APIs:           apis,
		Models:         models,
	}, nil
}

// ResourceListing builds the top-level index of resource groups
func (b *Builder) ResourceListing(ctx context.Context) (*swagger.ResourceListing, error) {
	apiRoutes, err := b.enumerator.APIs(ctx, "", b.settings.ExcludeNamespaces)
	if err != nil {
		return nil, &GenerationError{Err: err}
	}

	refs := []swagger.ResourceRef{}
	for _, resource := range b.enumerator.TopLevelAPIs(apiRoutes) {
		refs = append(refs, swagger.ResourceRef{Path: "/" + resource})
	}

	return &swagger.ResourceListing{
		APIVersion:     b.settings.APIVersion,
		SwaggerVersion: swagger.SwaggerVersion,
		BasePath:       b.settings.OfflineBasePath,
		APIs:           refs,
		Info:           b.settings.Info,
	}, nil
}

// ClearDir deletes every file below path, depth first. Directories are left
// for the backend to prune.
func (b *Builder) ClearDir(ctx context.Context, path string) error {
	dirs, files, err := b.store.ListDir(ctx, path)
	if err != nil {
		return &StorageError{Op: "listdir", Name: path, Err: err}
	}

	for _, file := range files {
		filePath := filepath.Join(path, file)
		b.logger.Info(fmt.Sprintf("Deleting '%s'", filePath))
		if err := b.store.Delete(ctx, filePath); err != nil {
			return &StorageError{Op: "delete", Name: filePath, Err: err}
		}
	}

	for _, dir := range dirs {
		if err := b.ClearDir(ctx, filepath.Join(path, dir)); err != nil {
			return err
		}
	}
	return nil
}

// DropFiles deletes the files directly inside path, leaving sub-directories alone
func (b *Builder) DropFiles(ctx context.Context, path string) error {
	_, files, err := b.store.ListDir(ctx, path)
	if err != nil {
		return &StorageError{Op: "listdir", Name: path, Err: err}
	}

	for _, file := range files {
		b.logger.Info(fmt.Sprintf("Dropping %s", file))
		filePath := path + "/" + file
		if err := b.store.Delete(ctx, filePath); err != nil {
			return &StorageError{Op: "delete", Name: filePath, Err: err}
		}
	}
	return nil
}

// formatURL replaces a trailing ".json" with the Swagger "{format}" placeholder
func formatURL(u string) string {
	if strings.HasSuffix(u, ".json") {
		return strings.TrimSuffix(u, ".json") + ".{format}"
	}
	return u
}

// hostBasePath reduces offline_base_path to scheme://host[:port]
func hostBasePath(offlineBasePath string) (string, error) {
	if offlineBasePath == "" {
		return "", nil
	}

	parsed, err := url.Parse(offlineBasePath)
	if err != nil {
		return "", fmt.Errorf("invalid offline_base_path: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid offline_base_path %q: scheme and host are required", offlineBasePath)
	}

	return parsed.Scheme + "://" + parsed.Host, nil
}
