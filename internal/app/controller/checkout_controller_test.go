package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alienstore/storefront-gateway/internal/app/model"
	"github.com/alienstore/storefront-gateway/internal/app/repository"
	"github.com/alienstore/storefront-gateway/internal/app/service"
)

type recordingWatchStarter struct {
	mu       sync.Mutex
	requests []service.WatchRequest
}

func (r *recordingWatchStarter) Watch(sess model.SessionContext, req service.WatchRequest) {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()
}

func setupCheckoutControllerTest(t *testing.T, upstream http.Handler, role model.UserRole, selected []uint) (*gin.Engine, *recordingWatchStarter) {
	client := newUpstreamClient(t, upstream)
	selections := repository.NewMemorySelectionRepository()
	if len(selected) > 0 {
		require.NoError(t, selections.Replace(context.Background(), 1, selected))
	}
	watcher := &recordingWatchStarter{}
	checkoutService := service.NewCheckoutService(client, selections, watcher)
	ctrl := NewCheckoutController(checkoutService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessionInjector(1, role))
	router.POST("/checkout", ctrl.Checkout)
	return router, watcher
}

func postCheckout(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/checkout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCheckoutController_Success(t *testing.T) {
	var checkoutBody map[string]interface{}
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet:
			w.Write([]byte(twoCartsJSON))
		case r.Method == http.MethodPost && r.URL.Path == "/transaksi":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&checkoutBody))
			w.Write([]byte(`{"order_id":"ORDER-1","redirect_url":"https://pay.example/ORDER-1"}`))
		default:
			t.Fatalf("unexpected upstream call %s %s", r.Method, r.URL.Path)
		}
	})
	router, watcher := setupCheckoutControllerTest(t, upstream, model.RoleUser, []uint{1})

	w := postCheckout(router)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "ORDER-1")
	assert.Contains(t, w.Body.String(), "redirect_url")

	// The merged quantity goes upstream.
	assert.Equal(t, float64(1), checkoutBody["product_id"])
	assert.Equal(t, float64(5), checkoutBody["qty"])

	require.Len(t, watcher.requests, 1)
	assert.Equal(t, "ORDER-1", watcher.requests[0].OrderID)
}

func TestCheckoutController_AdminRefused(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("no upstream call expected, got %s %s", r.Method, r.URL.Path)
	})
	router, _ := setupCheckoutControllerTest(t, upstream, model.RoleAdmin, []uint{1})

	w := postCheckout(router)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "AUTHZ_USER_ONLY")
	assert.Contains(t, w.Body.String(), "Silakan login sebagai pembeli")
}

func TestCheckoutController_NothingSelected(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(twoCartsJSON))
	})
	router, _ := setupCheckoutControllerTest(t, upstream, model.RoleUser, nil)

	w := postCheckout(router)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CHECKOUT_NOTHING_SELECTED")
}

func TestCheckoutController_SelectAllRefused(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("no mutation expected, got %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(twoCartsJSON))
	})
	router, watcher := setupCheckoutControllerTest(t, upstream, model.RoleUser, []uint{1, 2})

	w := postCheckout(router)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CHECKOUT_BULK_UNSUPPORTED")
	assert.Empty(t, watcher.requests)
}

func TestCheckoutController_UpstreamRefusalPassesThrough(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			w.Write([]byte(twoCartsJSON))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Stok produk tidak mencukupi"}`))
	})
	router, _ := setupCheckoutControllerTest(t, upstream, model.RoleUser, []uint{1})

	w := postCheckout(router)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Stok produk tidak mencukupi")
}
