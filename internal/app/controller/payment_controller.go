package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/alienstore/storefront-gateway/internal/app/service"
	apperrors "github.com/alienstore/storefront-gateway/internal/errors"
	"github.com/alienstore/storefront-gateway/internal/middleware"
	ws "github.com/alienstore/storefront-gateway/internal/websocket"
)

type PaymentController struct {
	paymentAPI service.PaymentAPI
	watcher    *service.PaymentWatcher
	hub        *ws.Hub
	upgrader   gorillaws.Upgrader
}

func NewPaymentController(paymentAPI service.PaymentAPI, watcher *service.PaymentWatcher, hub *ws.Hub) *PaymentController {
	return &PaymentController{
		paymentAPI: paymentAPI,
		watcher:    watcher,
		hub:        hub,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The SPA and the gateway live on different origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// GetStatus proxies one payment status query
// GET /api/v1/payments/:orderID
func (ctrl *PaymentController) GetStatus(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	orderID := c.Param("orderID")
	if orderID == "" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "ID pesanan tidak valid")
		return
	}

	info, err := ctrl.paymentAPI.PaymentStatus(c.Request.Context(), sess.Token, orderID)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// Watch starts payment polling for an order
// POST /api/v1/payments/:orderID/watch
func (ctrl *PaymentController) Watch(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	orderID := c.Param("orderID")
	if orderID == "" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "ID pesanan tidak valid")
		return
	}

	ctrl.watcher.Watch(sess, service.WatchRequest{OrderID: orderID})

	log.Info("Payment watch requested", map[string]interface{}{
		"user_id":  sess.UserID,
		"order_id": orderID,
	})

	c.JSON(http.StatusAccepted, gin.H{
		"order_id": orderID,
		"state":    "polling",
	})
}

// CancelWatch stops the user's active payment watch
// DELETE /api/v1/payments/watch
func (ctrl *PaymentController) CancelWatch(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.watcher.Cancel(sess.UserID); err != nil {
		if errors.Is(err, service.ErrWatchNotFound) {
			apperrors.NotFound(c, apperrors.PaymentWatchNotFound, "Tidak ada pemantauan pembayaran yang aktif")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pemantauan pembayaran dihentikan",
	})
}

// ActiveWatch reports the user's running watch, if any
// GET /api/v1/payments/watch
func (ctrl *PaymentController) ActiveWatch(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	orderID, active := ctrl.watcher.Active(sess.UserID)
	if !active {
		apperrors.NotFound(c, apperrors.PaymentWatchNotFound, "Tidak ada pemantauan pembayaran yang aktif")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id": orderID,
		"state":    "polling",
	})
}

// ServeWS upgrades the connection and streams payment events to the user
// GET /api/v1/ws
func (ctrl *PaymentController) ServeWS(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket upgrade failed", err, map[string]interface{}{
			"user_id": sess.UserID,
		})
		return
	}

	client := &ws.Client{
		Hub:    ctrl.hub,
		Conn:   conn,
		UserID: sess.UserID,
		Send:   make(chan []byte, 16),
	}
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connected", map[string]interface{}{
		"user_id": sess.UserID,
	})
}
