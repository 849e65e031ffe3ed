package routes

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/labstack/echo/v4"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func routeKeys(table *Table) string {
	var keys []string
	for _, route := range table.Routes() {
		keys = append(keys, route.Method+" "+route.Path)
	}
	return strings.Join(keys, ",")
}

func TestFromGin(t *testing.T) {
	router := gin.New()
	router.GET("/users", func(c *gin.Context) {})
	router.POST("/users", func(c *gin.Context) {})
	router.GET("/users/:id", func(c *gin.Context) {})
	router.GET("/files/*filepath", func(c *gin.Context) {})

	table := FromGin(router)

	expected := "GET /files/{filepath},GET /users,POST /users,GET /users/{id}"
	if got := routeKeys(table); got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}

	for _, route := range table.Routes() {
		if route.Operation != nil {
			t.Errorf("Expected no operation metadata for gin route %s", route.Path)
		}
		if route.Namespace == "" {
			t.Errorf("Expected namespace derived from handler name for %s (handler %s)", route.Path, route.Name)
		}
	}
}

func TestFromEcho(t *testing.T) {
	e := echo.New()
	e.GET("/orders", func(c echo.Context) error { return nil }).Name = "orders:list"
	e.GET("/orders/:id", func(c echo.Context) error { return nil }).Name = "orders:detail"
	e.DELETE("/admin/cache", func(c echo.Context) error { return nil }).Name = "admin:flush"

	table := FromEcho(e)

	expected := "DELETE /admin/cache,GET /orders,GET /orders/{id}"
	if got := routeKeys(table); got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}

	routes := table.Routes()
	if routes[0].Namespace != "admin" || routes[1].Namespace != "orders" {
		t.Errorf("Expected namespaces from route names, got %q and %q", routes[0].Namespace, routes[1].Namespace)
	}
}

func TestFromFiber(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error { return c.Next() })
	app.Get("/products", func(c *fiber.Ctx) error { return nil }).Name("catalog:list")
	app.Get("/products/:sku", func(c *fiber.Ctx) error { return nil })
	app.Put("/products/:sku", func(c *fiber.Ctx) error { return nil })

	table := FromFiber(app)

	expected := "GET /products,GET /products/{sku},PUT /products/{sku}"
	if got := routeKeys(table); got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}
	if table.Routes()[0].Namespace != "catalog" {
		t.Errorf("Expected namespace 'catalog', got %q", table.Routes()[0].Namespace)
	}
}

func TestFromChi(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/users", func(w http.ResponseWriter, r *http.Request) {})
	router.Get("/users/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {})
	router.Route("/orders", func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {})
		r.Get("/{orderID}/items", func(w http.ResponseWriter, r *http.Request) {})
	})

	table, err := FromChi(router)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := "POST /orders,GET /orders/{orderID}/items,GET /users,GET /users/{id}"
	if got := routeKeys(table); got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}

	for _, route := range table.Routes() {
		if route.Namespace != "routes" {
			t.Errorf("Expected namespace routes for %s, got %q (handler %s)", route.Path, route.Namespace, route.Name)
		}
	}
}

func TestFrameworkBuilderSkipsImplicitHeadAndUnknownMethods(t *testing.T) {
	b := newFrameworkBuilder(nil)
	b.add(http.MethodGet, "/ping", "")
	b.add(http.MethodHead, "/ping", "")
	b.add(http.MethodHead, "/only-head", "")
	b.add("CONNECT", "/tunnel", "")
	b.add("echo_route_not_found", "/*", "")
	b.add(http.MethodGet, "/ping", "")

	expected := "HEAD /only-head,GET /ping"
	if got := routeKeys(b.table()); got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}
}

func TestFrameworkNamespaceOverride(t *testing.T) {
	router := gin.New()
	router.GET("/internal/metrics", func(c *gin.Context) {})

	table := FromGin(router, WithNamespaceFunc(func(method, path, name string) string {
		return "internal"
	}))
	if table.Routes()[0].Namespace != "internal" {
		t.Errorf("Expected overridden namespace, got %q", table.Routes()[0].Namespace)
	}
}
