package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gallerix/artstore/internal/hash"
	"github.com/gallerix/artstore/internal/models"
	"github.com/gallerix/artstore/internal/repo"
)

var testSecret = []byte("handlers-test-secret")

type testEnv struct {
	T       *testing.T
	E       *echo.Echo
	Repo    *repo.Repo
	Auth    *AuthHandler
	Product *ProductHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}))

	store := repo.New(db)
	return &testEnv{
		T:       t,
		E:       echo.New(),
		Repo:    store,
		Auth:    &AuthHandler{Repo: store, JWTSecret: testSecret, Producer: nil},
		Product: &ProductHandler{Repo: store, Producer: nil},
	}
}

func (env *testEnv) doJSONRequest(method, target string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

func (env *testEnv) createUser(email, password string, role models.Role) *models.User {
	env.T.Helper()

	pwHash, err := hash.HashPassword(password)
	require.NoError(env.T, err)

	user := &models.User{Name: "test", Email: email, PasswordHash: pwHash, Role: role}
	require.NoError(env.T, env.Repo.DB.Create(user).Error)
	return user
}

func requireHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	require.Equal(t, code, he.Code)
	return he
}
