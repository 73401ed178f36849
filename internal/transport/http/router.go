package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gallerix/artstore/internal/auth"
	"github.com/gallerix/artstore/internal/handlers"
	mwauth "github.com/gallerix/artstore/internal/middleware/auth"
	"github.com/gallerix/artstore/internal/middleware/csrf"
	"github.com/gallerix/artstore/internal/models"
)

// csrfSkipPaths are reachable before any cookie exists: health probes and
// the credential endpoints themselves. A first-contact login or signup POST
// must never be rejected by the CSRF layer.
var csrfSkipPaths = []string{
	"/health/live",
	"/health/ready",
	"/api/auth/signup",
	"/api/auth/login",
	"/api/auth/logout",
}

type Deps struct {
	Gate           *auth.Gate
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	SearchHandler  *handlers.SearchHandler
}

// Register wires every resource class to its required role: /api/user/* is
// user-only, /api/admin/* and the /admin pages are admin-only, auth and
// search stay public.
func Register(e *echo.Echo, d *Deps) {
	e.Use(csrf.Middleware(csrf.Config{SkipPaths: csrfSkipPaths}))

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", d.AuthHandler.Signup)
	authGroup.POST("/login", d.AuthHandler.Login)
	authGroup.POST("/logout", d.AuthHandler.Logout)

	api.GET("/products/search", d.SearchHandler.Search)

	user := api.Group("/user", mwauth.RequireRole(d.Gate, models.RoleUser))
	user.GET("/products", d.ProductHandler.GetProducts)
	user.GET("/products/:slug", d.ProductHandler.GetProduct)

	admin := api.Group("/admin", mwauth.RequireRole(d.Gate, models.RoleAdmin))
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PUT("/products/:slug", d.ProductHandler.UpdateProduct)
	admin.DELETE("/products/:slug", d.ProductHandler.DeleteProduct)

	// Management pages: same gate, redirect semantics instead of JSON.
	pages := e.Group("/admin", mwauth.AdminPageGate(d.Gate))
	pages.Static("/", "web/admin")
}
