package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gallerix/artstore/internal/auth"
	"github.com/gallerix/artstore/internal/logging"
	"github.com/gallerix/artstore/internal/models"
)

// CtxPrincipal is the echo context key holding the resolved *models.User
// after a guard lets the request through.
const CtxPrincipal = "principal"

const (
	loginPage   = "/login"
	catalogPage = "/all-products"
)

func readToken(c echo.Context) string {
	cookie, err := c.Cookie(auth.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// RequireRole guards an API group: 401 without a usable session, 403 when
// the principal's role is not the required one. On success the principal is
// stored in the request context for the handler.
func RequireRole(g *auth.Gate, required models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			decision, principal, err := g.Authorize(ctx, readToken(c), required)
			if err != nil {
				logging.FromContext(ctx).Error("gate lookup failed", "path", c.Path(), "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}

			switch decision {
			case auth.DecisionUnauthenticated:
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
			case auth.DecisionUnauthorized:
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}

			c.Set(CtxPrincipal, principal)
			return next(c)
		}
	}
}

// AdminPageGate is the edge interceptor for the /admin page prefix. Instead
// of JSON rejections it redirects: to the login page without a session, to
// the public catalog for any non-admin principal.
func AdminPageGate(g *auth.Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			decision, principal, err := g.Authorize(ctx, readToken(c), models.RoleAdmin)
			if err != nil {
				logging.FromContext(ctx).Error("gate lookup failed", "path", c.Path(), "error", err)
				return c.Redirect(http.StatusFound, loginPage)
			}

			switch decision {
			case auth.DecisionUnauthenticated:
				return c.Redirect(http.StatusFound, loginPage)
			case auth.DecisionUnauthorized:
				return c.Redirect(http.StatusFound, catalogPage)
			}

			c.Set(CtxPrincipal, principal)
			return next(c)
		}
	}
}

// Principal returns the user a guard placed in the context, or nil when the
// route is not guarded.
func Principal(c echo.Context) *models.User {
	user, _ := c.Get(CtxPrincipal).(*models.User)
	return user
}
