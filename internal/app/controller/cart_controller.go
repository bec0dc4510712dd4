package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alienstore/storefront-gateway/internal/app/service"
	apperrors "github.com/alienstore/storefront-gateway/internal/errors"
	"github.com/alienstore/storefront-gateway/internal/middleware"
)

type CartController struct {
	cartService      service.CartService
	selectionService service.SelectionService
}

func NewCartController(cartService service.CartService, selectionService service.SelectionService) *CartController {
	return &CartController{
		cartService:      cartService,
		selectionService: selectionService,
	}
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}

type ToggleSelectionRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// GetCart returns the user's merged cart view
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	merged, err := ctrl.cartService.GetMergedCart(c.Request.Context(), sess)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	log.Info("Cart fetched successfully", map[string]interface{}{
		"user_id":  sess.UserID,
		"count":    len(merged.Items),
		"degraded": merged.Degraded,
	})

	c.JSON(http.StatusOK, gin.H{
		"cart_items":   merged.Items,
		"count":        len(merged.Items),
		"selected":     merged.Selected,
		"all_selected": merged.AllSelected,
		"total":        merged.Total,
		"degraded":     merged.Degraded,
	})
}

// AddToCart adds a product to the cart
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": sess.UserID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	if err := ctrl.cartService.AddItem(c.Request.Context(), sess, req.ProductID, req.Quantity); err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Produk ditambahkan ke keranjang",
	})
}

// UpdateQuantity sets a product's merged quantity
// PUT /api/v1/cart/items/:productID
func (ctrl *CartController) UpdateQuantity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	productID, err := parseUintParam(c, "productID")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "ID produk tidak valid")
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid quantity update request", map[string]interface{}{
			"user_id": sess.UserID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	err = ctrl.cartService.UpdateQuantity(c.Request.Context(), sess, productID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Produk tidak ada di keranjang")
			return
		}
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Jumlah produk diperbarui",
	})
}

// RemoveItem removes a product from every cart record holding it
// DELETE /api/v1/cart/items/:productID
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	productID, err := parseUintParam(c, "productID")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "ID produk tidak valid")
		return
	}

	err = ctrl.cartService.RemoveItem(c.Request.Context(), sess, productID)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Produk tidak ada di keranjang")
			return
		}
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Produk dihapus dari keranjang",
	})
}

// DeleteCart removes a whole cart record
// DELETE /api/v1/cart/:cartID
func (ctrl *CartController) DeleteCart(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	cartID, err := parseUintParam(c, "cartID")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "ID keranjang tidak valid")
		return
	}

	if err := ctrl.cartService.DeleteCart(c.Request.Context(), sess, cartID); err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Keranjang dihapus",
	})
}

// ToggleSelection flips one product's checkout selection
// POST /api/v1/cart/selection/toggle
func (ctrl *CartController) ToggleSelection(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req ToggleSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	selected, err := ctrl.selectionService.Toggle(c.Request.Context(), sess, req.ProductID)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"selected": selected,
	})
}

// ToggleAllSelection selects the whole cart, or clears the selection when it
// already covers the whole cart
// POST /api/v1/cart/selection/toggle-all
func (ctrl *CartController) ToggleAllSelection(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	selected, err := ctrl.selectionService.ToggleAll(c.Request.Context(), sess)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"selected": selected,
	})
}

// ClearSelection drops the user's checkout selection
// DELETE /api/v1/cart/selection
func (ctrl *CartController) ClearSelection(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.selectionService.Clear(c.Request.Context(), sess); err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"selected": []uint{},
	})
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
