package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"comanda-system/internal/services/catalog"
)

type CatalogHandler struct {
	catalog *catalog.Service
}

func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalogService}
}

// -- Categories --

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var in catalog.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "name is required")
		return
	}
	category, err := h.catalog.CreateCategory(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, category)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, categories)
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	category, err := h.catalog.GetCategory(id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, category)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	var in catalog.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "name is required")
		return
	}
	category, err := h.catalog.UpdateCategory(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, category)
}

func (h *CatalogHandler) DisableCategory(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	result, err := h.catalog.DisableCategory(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, result)
}

// -- Products --

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var in catalog.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "name and category_id are required")
		return
	}
	product, err := h.catalog.CreateProduct(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, product)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var filter catalog.ProductFilter
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			badRequest(c, "invalid category_id")
			return
		}
		id := uint(parsed)
		filter.CategoryID = &id
	}
	filter.AvailableOnly = c.Query("available") == "true"

	products, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, products)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	product, err := h.catalog.GetProduct(id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, product)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	var in catalog.ProductUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	product, err := h.catalog.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, product)
}

func (h *CatalogHandler) DisableProduct(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	result, err := h.catalog.DisableProduct(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, result)
}
