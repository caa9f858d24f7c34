// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-bff/internal/domain/catalog"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
)

// CatalogHandler serves the catalog read-through
type CatalogHandler struct {
	catalog *catalog.Service
	remote  *api.Client
	logger  *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service, remote *api.Client, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalogService,
		remote:  remote,
		logger:  logger,
	}
}

// GetCategories lists the categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	categories, err := h.catalog.Categories(c.Request.Context(), remoteFor(h.remote, sess))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data":    categories,
	})
}

// GetProducts lists the products, optionally of one category
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	remote := remoteFor(h.remote, sess)

	var (
		products []api.Product
		err      error
	)
	if raw := c.Query("category_id"); raw != "" {
		categoryID, convErr := strconv.Atoi(raw)
		if convErr != nil || categoryID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid category_id",
			})
			return
		}
		products, err = h.catalog.ProductsByCategory(c.Request.Context(), remote, categoryID)
	} else {
		products, err = h.catalog.Products(c.Request.Context(), remote)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    products,
	})
}

// GetRewards lists the reward catalog
func (h *CatalogHandler) GetRewards(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	rewards, err := h.catalog.Rewards(c.Request.Context(), remoteFor(h.remote, sess))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Rewards retrieved successfully",
		"data":    rewards,
	})
}
