package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alienstore/storefront-gateway/internal/app/service"
	apperrors "github.com/alienstore/storefront-gateway/internal/errors"
	"github.com/alienstore/storefront-gateway/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

// GetHistory lists the user's settled orders as recorded by this gateway
// GET /api/v1/orders
func (ctrl *OrderController) GetHistory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	records, err := ctrl.orderService.History(sess)
	if err != nil {
		log.Error("Failed to fetch order history", err, map[string]interface{}{
			"user_id": sess.UserID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": records,
		"count":  len(records),
	})
}

// GetOrder returns one of the user's recorded orders
// GET /api/v1/orders/:orderID
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	orderID := c.Param("orderID")
	record, err := ctrl.orderService.Lookup(sess, orderID)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}
	if record == nil {
		apperrors.NotFound(c, apperrors.PaymentOrderNotFound, "Pesanan tidak ditemukan")
		return
	}

	c.JSON(http.StatusOK, record)
}
