package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alienstore/storefront-gateway/internal/app/model"
	"github.com/alienstore/storefront-gateway/internal/app/service"
	ws "github.com/alienstore/storefront-gateway/internal/websocket"
)

type nopOrderRecords struct{}

func (nopOrderRecords) Create(*model.OrderRecord) error { return nil }
func (nopOrderRecords) FindByUserID(uint) ([]model.OrderRecord, error) {
	return nil, nil
}
func (nopOrderRecords) FindByOrderID(string) (*model.OrderRecord, error) { return nil, nil }
func (nopOrderRecords) FindAll() ([]model.OrderRecord, error)            { return nil, nil }

func setupPaymentControllerTest(t *testing.T, upstream http.Handler) (*gin.Engine, *service.PaymentWatcher) {
	client := newUpstreamClient(t, upstream)
	hub := ws.NewHub()
	go hub.Run()

	watcher := service.NewPaymentWatcher(client, nopOrderRecords{}, hub, service.NewRealClock(), time.Second, time.Minute)
	t.Cleanup(watcher.Stop)
	ctrl := NewPaymentController(client, watcher, hub)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessionInjector(1, model.RoleUser))
	router.GET("/payments/watch", ctrl.ActiveWatch)
	router.GET("/payments/:orderID", ctrl.GetStatus)
	router.POST("/payments/:orderID/watch", ctrl.Watch)
	router.DELETE("/payments/watch", ctrl.CancelWatch)
	return router, watcher
}

func TestPaymentController_GetStatus(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment/success/ORDER-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"order_id":"ORDER-1","status":"settlement","midtrans_response":{"gross_amount":"250000.00","payment_type":"qris"}}`))
	})
	router, _ := setupPaymentControllerTest(t, upstream)

	req := httptest.NewRequest("GET", "/payments/ORDER-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"settlement"`)
	// String gross_amount from the gateway is normalized to a number.
	assert.Contains(t, w.Body.String(), `"gross_amount":250000`)
}

func TestPaymentController_WatchLifecycle(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"order_id":"ORDER-1","status":"pending"}`))
	})
	router, _ := setupPaymentControllerTest(t, upstream)

	// No watch yet.
	req := httptest.NewRequest("GET", "/payments/watch", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Start one.
	req = httptest.NewRequest("POST", "/payments/ORDER-1/watch", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "ORDER-1")

	req = httptest.NewRequest("GET", "/payments/watch", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ORDER-1")

	// Cancel it.
	req = httptest.NewRequest("DELETE", "/payments/watch", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("DELETE", "/payments/watch", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PAYMENT_WATCH_NOT_FOUND")
}
