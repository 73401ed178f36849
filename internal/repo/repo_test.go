package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gallerix/artstore/internal/models"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}))
	return New(db)
}

func TestUserLookups(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	user := &models.User{Name: "ann", Email: "ann@example.com", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, r.CreateUser(ctx, user))
	require.NotZero(t, user.ID)

	byID, err := r.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	require.Equal(t, "ann@example.com", byID.Email)

	byEmail, err := r.FindUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	require.Equal(t, user.ID, byEmail.ID)

	// misses come back as (nil, nil), never as an error
	missing, err := r.FindUserByID(ctx, 9999)
	require.NoError(t, err)
	require.Nil(t, missing)

	missing, err = r.FindUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateUser(ctx, &models.User{
		Name: "ann", Email: "dup@example.com", PasswordHash: "x", Role: models.RoleUser,
	}))

	err := r.CreateUser(ctx, &models.User{
		Name: "bob", Email: "dup@example.com", PasswordHash: "x", Role: models.RoleUser,
	})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestProductBySlug(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	product := &models.Product{
		Slug:        "sunset-oil",
		Name:        "Sunset",
		Description: "oil on canvas",
		Price:       120,
		Category:    "painting",
	}
	require.NoError(t, r.CreateProduct(ctx, product))

	found, err := r.FindProductBySlug(ctx, "sunset-oil")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, "Sunset", found.Name)

	missing, err := r.FindProductBySlug(ctx, "no-such-slug")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUpdateProductBySlug(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateProduct(ctx, &models.Product{
		Slug: "s1", Name: "old", Description: "d", Price: 10, Category: "print",
	}))

	updated, err := r.UpdateProductBySlug(ctx, "s1", map[string]any{"name": "new", "price": 25.0})
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, "new", updated.Name)
	require.Equal(t, 25.0, updated.Price)
	require.Equal(t, "d", updated.Description)

	missing, err := r.UpdateProductBySlug(ctx, "nope", map[string]any{"name": "x"})
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestDeleteProductBySlug(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateProduct(ctx, &models.Product{
		Slug: "s1", Name: "n", Description: "d", Price: 10, Category: "print",
	}))

	deleted, err := r.DeleteProductBySlug(ctx, "s1")
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = r.DeleteProductBySlug(ctx, "s1")
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestListProducts(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	for _, slug := range []string{"a", "b", "c"} {
		require.NoError(t, r.CreateProduct(ctx, &models.Product{
			Slug: slug, Name: slug, Description: "d", Price: 1, Category: "print",
		}))
	}

	items, total, err := r.ListProducts(ctx, 0, 2)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, items, 2)
	require.Equal(t, "a", items[0].Slug)

	items, _, err = r.ListProducts(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "c", items[0].Slug)
}
