package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	chibase "github.com/go-chi/chi/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	chiadapter "github.com/barisgit/fluxdocs/adapters/chi"
	echoadapter "github.com/barisgit/fluxdocs/adapters/echo"
	fiberadapter "github.com/barisgit/fluxdocs/adapters/fiber"
	ginadapter "github.com/barisgit/fluxdocs/adapters/gin"
	"github.com/barisgit/fluxdocs/adapters/nethttp"
	"github.com/barisgit/fluxdocs/offline"
	"github.com/barisgit/fluxdocs/pkg/base"
	"github.com/barisgit/fluxdocs/storage"
)

// Routers lists the frameworks the docs can be served through
var Routers = []string{"nethttp", "chi", "gin", "echo", "fiber"}

func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve generated docs over HTTP",
		Long:  "Serve the stored Swagger 1.2 docs through one of the supported router adapters",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().StringP("config", "c", defaultConfigPath, "Settings file")
	cmd.Flags().String("router", "nethttp", "Router adapter ("+strings.Join(Routers, ", ")+")")
	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().String("prefix", base.DefaultPrefix, "URL prefix the docs are served under")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := handleWorkDir(); err != nil {
		return err
	}

	configPath, _ := cmd.Flags().GetString("config")
	router, _ := cmd.Flags().GetString("router")
	addr, _ := cmd.Flags().GetString("addr")
	prefix, _ := cmd.Flags().GetString("prefix")

	settings, err := loadSettings(configPath, false, false)
	if err != nil {
		return err
	}
	if settings.DefaultDocsStorage == "" {
		return &offline.ConfigurationError{Setting: "DEFAULT_DOCS_STORAGE", Message: "must be set to serve offline docs"}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(ctx, settings.DefaultDocsStorage, settings.FileStorageKwargs)
	if err != nil {
		return &offline.StorageError{Op: "open", Name: settings.DefaultDocsStorage, Err: err}
	}
	defer store.Close()

	server, err := newDocsServer(router, store, base.DocsConfig{Prefix: prefix})
	if err != nil {
		return err
	}

	logger := newLogger(cmd, false)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(addr)
	}()
	logger.Info(fmt.Sprintf("Serving docs with %s on %s%s", router, addr, prefix))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

type docsServer interface {
	Serve(addr string) error
	Shutdown(ctx context.Context) error
}

type httpDocsServer struct {
	handler http.Handler
	server  *http.Server
}

func (s *httpDocsServer) Serve(addr string) error {
	s.server = &http.Server{Addr: addr, Handler: s.handler, ReadHeaderTimeout: 10 * time.Second}
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *httpDocsServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

type fiberDocsServer struct {
	app *fiber.App
}

func (s *fiberDocsServer) Serve(addr string) error {
	return s.app.Listen(addr)
}

func (s *fiberDocsServer) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func newDocsServer(router string, store storage.Storage, docsConfig base.DocsConfig) (docsServer, error) {
	if router == "fiber" {
		return &fiberDocsServer{app: newFiberApp(store, docsConfig)}, nil
	}

	handler, err := newDocsHandler(router, store, docsConfig)
	if err != nil {
		return nil, err
	}
	return &httpDocsServer{handler: handler}, nil
}

// newDocsHandler builds an http.Handler for every router except fiber,
// which runs on fasthttp
func newDocsHandler(router string, store storage.Storage, docsConfig base.DocsConfig) (http.Handler, error) {
	pattern := mountPattern(docsConfig.Prefix)

	switch router {
	case "nethttp":
		mux := http.NewServeMux()
		mux.Handle(pattern+"/", nethttp.DocsHandler(store, docsConfig))
		return mux, nil

	case "chi":
		r := chibase.NewRouter()
		chiadapter.Mount(r, store, docsConfig)
		return r, nil

	case "gin":
		gin.SetMode(gin.ReleaseMode)
		engine := gin.New()
		engine.Use(gin.Recovery())
		engine.GET(pattern+"/*filepath", ginadapter.DocsHandler(store, docsConfig))
		return engine, nil

	case "echo":
		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		handler := echoadapter.DocsHandler(store, docsConfig)
		if pattern != "" {
			e.GET(pattern, handler)
		}
		e.GET(pattern+"/*", handler)
		return e, nil

	default:
		return nil, fmt.Errorf("unsupported router: %s (use one of %s)", router, strings.Join(Routers, ", "))
	}
}

func newFiberApp(store storage.Storage, docsConfig base.DocsConfig) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	pattern := mountPattern(docsConfig.Prefix)
	handler := fiberadapter.DocsHandler(store, docsConfig)
	if pattern != "" {
		app.Get(pattern, handler)
	}
	app.Get(pattern+"/*", handler)
	return app
}

// mountPattern returns prefix with a leading and no trailing slash, or ""
// for the root
func mountPattern(prefix string) string {
	if prefix == "" {
		prefix = base.DefaultPrefix
	}
	trimmed := strings.Trim(prefix, "/")
	if trimmed == "" {
		return ""
	}
	return "/" + trimmed
}
