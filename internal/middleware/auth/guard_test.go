package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gallerix/artstore/internal/auth"
	"github.com/gallerix/artstore/internal/models"
	"github.com/gallerix/artstore/internal/repo"
)

var testSecret = []byte("guard-test-secret")

type guardEnv struct {
	T    *testing.T
	E    *echo.Echo
	Repo *repo.Repo
	Gate *auth.Gate
}

func newGuardEnv(t *testing.T) *guardEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}))

	store := repo.New(db)
	gate := &auth.Gate{Users: store, Secret: testSecret}

	e := echo.New()
	ok := func(c echo.Context) error {
		principal := Principal(c)
		require.NotNil(t, principal)
		return c.String(http.StatusOK, "ok")
	}

	userAPI := e.Group("/api/user", RequireRole(gate, models.RoleUser))
	userAPI.GET("/ping", ok)

	adminAPI := e.Group("/api/admin", RequireRole(gate, models.RoleAdmin))
	adminAPI.GET("/ping", ok)

	pages := e.Group("/admin", AdminPageGate(gate))
	pages.GET("/dashboard", ok)

	return &guardEnv{T: t, E: e, Repo: store, Gate: gate}
}

func (env *guardEnv) addUser(role models.Role) (uint, string) {
	env.T.Helper()

	user := &models.User{Name: "t", Email: string(role) + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(env.T, env.Repo.DB.Create(user).Error)

	token, _, err := auth.IssueSession(user.ID, testSecret)
	require.NoError(env.T, err)
	return user.ID, token
}

func (env *guardEnv) get(path, token string) *httptest.ResponseRecorder {
	env.T.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func TestGuardNoCookie(t *testing.T) {
	env := newGuardEnv(t)

	rec := env.get("/api/user/ping", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuardTamperedToken(t *testing.T) {
	env := newGuardEnv(t)
	_, token := env.addUser(models.RoleUser)

	rec := env.get("/api/user/ping", token+"x")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuardDeletedUser(t *testing.T) {
	env := newGuardEnv(t)
	id, token := env.addUser(models.RoleUser)
	require.NoError(t, env.Repo.DB.Delete(&models.User{}, id).Error)

	rec := env.get("/api/user/ping", token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuardRoleEnforcement(t *testing.T) {
	env := newGuardEnv(t)
	_, userToken := env.addUser(models.RoleUser)
	_, adminToken := env.addUser(models.RoleAdmin)

	// same user token: allowed on its own class, rejected on the other
	rec := env.get("/api/user/ping", userToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.get("/api/admin/ping", userToken)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.get("/api/admin/ping", adminToken)
	require.Equal(t, http.StatusOK, rec.Code)

	// exact match: admin tokens do not open user-only endpoints
	rec = env.get("/api/user/ping", adminToken)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPageGateRedirects(t *testing.T) {
	env := newGuardEnv(t)
	_, userToken := env.addUser(models.RoleUser)
	_, adminToken := env.addUser(models.RoleAdmin)

	rec := env.get("/admin/dashboard", "")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	rec = env.get("/admin/dashboard", "not-a-token")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	rec = env.get("/admin/dashboard", userToken)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/all-products", rec.Header().Get(echo.HeaderLocation))

	rec = env.get("/admin/dashboard", adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
}
