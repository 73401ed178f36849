package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gallerix/artstore/internal/events"
	"github.com/gallerix/artstore/internal/logging"
	mwauth "github.com/gallerix/artstore/internal/middleware/auth"
	"github.com/gallerix/artstore/internal/models"
	"github.com/gallerix/artstore/internal/repo"
	"github.com/gallerix/artstore/internal/util"
)

type ProductHandler struct {
	Repo     *repo.Repo
	Producer *events.Producer
}

type productRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category"`
	ImageURL    string   `json:"image_url"`
	Inventory   *uint    `json:"inventory"`
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ProductHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

// GetProduct serves one product by slug together with the admin who listed
// it.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.Repo.FindProductBySlug(ctx, c.Param("slug"))
	if err != nil {
		logging.FromContext(ctx).Error("product lookup failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if product == nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	creator, err := h.Repo.FindUserByID(ctx, product.CreatedBy)
	if err != nil {
		logging.FromContext(ctx).Error("creator lookup failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"product": product,
		"creator": creator,
	})
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	items, total, err := h.Repo.ListProducts(ctx, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("product list failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"meta": echo.Map{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Description == "" || req.Price == nil || req.Category == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "all fields are required")
	}

	product := models.Product{
		Slug:        uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	if req.Inventory != nil {
		product.Inventory = *req.Inventory
	}
	// The guard already resolved the admin; stamp ownership.
	if principal := mwauth.Principal(c); principal != nil {
		product.CreatedBy = principal.ID
	}

	if err := h.Repo.CreateProduct(ctx, &product); err != nil {
		logging.FromContext(ctx).Error("product create failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.publish(c, product.Slug, map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"slug":      product.Slug,
		"name":      product.Name,
	})

	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct applies only the fields present in the request body.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	fields := map[string]any{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Description != "" {
		fields["description"] = req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Category != "" {
		fields["category"] = req.Category
	}
	if req.ImageURL != "" {
		fields["image_url"] = req.ImageURL
	}
	if req.Inventory != nil {
		fields["inventory"] = *req.Inventory
	}

	product, err := h.Repo.UpdateProductBySlug(ctx, slug, fields)
	if err != nil {
		logging.FromContext(ctx).Error("product update failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if product == nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	h.publish(c, product.Slug, map[string]any{
		"type":      "product_updated",
		"productID": product.ID,
		"slug":      product.Slug,
		"name":      product.Name,
	})

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	deleted, err := h.Repo.DeleteProductBySlug(ctx, slug)
	if err != nil {
		logging.FromContext(ctx).Error("product delete failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	h.publish(c, slug, map[string]any{
		"type": "product_deleted",
		"slug": slug,
	})

	return c.NoContent(http.StatusNoContent)
}
