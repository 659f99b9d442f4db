package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greendrake/storefront/internal/services"
	"greendrake/storefront/internal/utils"
)

// RestCatalogHandler handles the public catalog endpoints.
type RestCatalogHandler struct {
	catalogService services.ICatalogService
}

// NewRestCatalogHandler creates a new RestCatalogHandler.
func NewRestCatalogHandler(catalogService services.ICatalogService) *RestCatalogHandler {
	return &RestCatalogHandler{catalogService: catalogService}
}

// ListCatalog handles GET /v1/catalog. Only active items are returned.
func (h *RestCatalogHandler) ListCatalog(c *gin.Context) {
	var category *string
	if v := c.Query("category"); v != "" {
		category = &v
	}

	items, err := h.catalogService.GetPublicCatalog(c.Request.Context(), category)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetCatalogItem handles GET /v1/catalog/:id.
func (h *RestCatalogHandler) GetCatalogItem(c *gin.Context) {
	id, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid catalog item ID"})
		return
	}

	item, err := h.catalogService.GetItemByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !item.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "catalog item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}
