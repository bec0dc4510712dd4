package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alienstore/storefront-gateway/internal/app/service"
	apperrors "github.com/alienstore/storefront-gateway/internal/errors"
	"github.com/alienstore/storefront-gateway/internal/middleware"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

// Checkout places an order for the selected product
// POST /api/v1/checkout
func (ctrl *CheckoutController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	tx, err := ctrl.checkoutService.Checkout(c.Request.Context(), sess)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCheckoutNotAllowed):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzUserOnly, "Silakan login sebagai pembeli untuk melanjutkan pembayaran")
		case errors.Is(err, service.ErrNothingSelected):
			apperrors.BadRequest(c, apperrors.CheckoutNothingSelected, "Pilih produk terlebih dahulu")
		case errors.Is(err, service.ErrBulkCheckoutUnsupported):
			apperrors.BadRequest(c, apperrors.CheckoutBulkUnsupported, "Pembayaran semua produk sekaligus belum didukung. Silakan pilih satu produk")
		case errors.Is(err, service.ErrMultiSelection):
			apperrors.BadRequest(c, apperrors.CheckoutMultiSelection, "Silakan pilih satu produk untuk dibayar")
		default:
			respondUpstreamError(c, err)
		}
		return
	}

	log.Info("Checkout accepted", map[string]interface{}{
		"user_id":  sess.UserID,
		"order_id": tx.OrderID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"order_id":     tx.OrderID,
		"redirect_url": tx.RedirectURL,
	})
}
