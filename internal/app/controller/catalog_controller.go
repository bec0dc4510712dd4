package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alienstore/storefront-gateway/internal/app/service"
	apperrors "github.com/alienstore/storefront-gateway/internal/errors"
	"github.com/alienstore/storefront-gateway/internal/middleware"
)

type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// GetProducts lists the upstream catalog
// GET /api/v1/catalog/products
func (ctrl *CatalogController) GetProducts(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	products, err := ctrl.catalogService.Products(c.Request.Context(), sess.Token)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetCategories lists product categories
// GET /api/v1/catalog/categories
func (ctrl *CatalogController) GetCategories(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	categories, err := ctrl.catalogService.Categories(c.Request.Context(), sess.Token)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// GetSubcategories lists product subcategories
// GET /api/v1/catalog/subcategories
func (ctrl *CatalogController) GetSubcategories(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	subcategories, err := ctrl.catalogService.Subcategories(c.Request.Context(), sess.Token)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subcategories": subcategories,
	})
}
