package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/juicepos/internal/domain/models"
	"github.com/mamadbah2/juicepos/internal/service/pricing"
)

// CatalogService describes the product, inventory and recipe operations.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]models.ProductView, error)
	GetProduct(ctx context.Context, id string) (models.ProductView, error)
	UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) (models.Product, error)
	ListInventory(ctx context.Context) ([]models.InventoryItem, error)
	LowStock(ctx context.Context) ([]models.InventoryItem, error)
	UpdateItem(ctx context.Context, id string, upd models.InventoryUpdate) (models.InventoryItem, error)
	DeleteItem(ctx context.Context, id string) error
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, productID string) (models.Recipe, error)
	SaveRecipe(ctx context.Context, rec models.Recipe) error
	DeleteRecipe(ctx context.Context, productID string) error
}

// PricingService describes the dynamic pricing operations.
type PricingService interface {
	RecalcPrice(ctx context.Context, productID string) (pricing.PriceQuote, error)
	PreviewCost(ctx context.Context, productID string) (pricing.PriceQuote, error)
}

// CatalogHandler serves the products, inventory and recipes screens.
type CatalogHandler struct {
	catalog CatalogService
	pricing PricingService
	logger  *zap.Logger
}

// NewCatalogHandler constructs the HTTP handler adapter.
func NewCatalogHandler(catalog CatalogService, pricing PricingService, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{catalog: catalog, pricing: pricing, logger: logger}
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "failed listing products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	p, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "failed loading product", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var upd models.ProductUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, h.logger, "invalid product payload", err)
		return
	}
	p, err := h.catalog.UpdateProduct(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		writeError(c, h.logger, "failed updating product", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Reprice recalculates a product's price from its recipe cost.
func (h *CatalogHandler) Reprice(c *gin.Context) {
	quote, err := h.pricing.RecalcPrice(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "failed repricing product", err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// Cost previews the reprice without applying it.
func (h *CatalogHandler) Cost(c *gin.Context) {
	quote, err := h.pricing.PreviewCost(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "failed computing cost", err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *CatalogHandler) ListInventory(c *gin.Context) {
	items, err := h.catalog.ListInventory(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "failed listing inventory", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *CatalogHandler) LowStock(c *gin.Context) {
	items, err := h.catalog.LowStock(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "failed listing low stock", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	var upd models.InventoryUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, h.logger, "invalid inventory payload", err)
		return
	}
	it, err := h.catalog.UpdateItem(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		writeError(c, h.logger, "failed updating inventory item", err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	if err := h.catalog.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, "failed deleting inventory item", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.catalog.ListRecipes(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "failed listing recipes", err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *CatalogHandler) GetRecipe(c *gin.Context) {
	rec, err := h.catalog.GetRecipe(c.Request.Context(), c.Param("productId"))
	if err != nil {
		writeError(c, h.logger, "failed loading recipe", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// SaveRecipe replaces the recipe of the product named in the path.
func (h *CatalogHandler) SaveRecipe(c *gin.Context) {
	var rec models.Recipe
	if err := c.ShouldBindJSON(&rec); err != nil {
		badRequest(c, h.logger, "invalid recipe payload", err)
		return
	}
	rec.ProductID = c.Param("productId")

	if err := h.catalog.SaveRecipe(c.Request.Context(), rec); err != nil {
		writeError(c, h.logger, "failed saving recipe", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *CatalogHandler) DeleteRecipe(c *gin.Context) {
	if err := h.catalog.DeleteRecipe(c.Request.Context(), c.Param("productId")); err != nil {
		writeError(c, h.logger, "failed deleting recipe", err)
		return
	}
	c.Status(http.StatusNoContent)
}
