package service

import (
	"context"

	"github.com/alienstore/storefront-gateway/internal/app/model"
	"github.com/alienstore/storefront-gateway/internal/app/repository"
	"github.com/alienstore/storefront-gateway/pkg/logger"
	"github.com/alienstore/storefront-gateway/pkg/storeapi"
)

// CheckoutAPI is the subset of the upstream client checkout uses.
type CheckoutAPI interface {
	ListCarts(ctx context.Context, token string) ([]storeapi.Cart, error)
	CreateTransaction(ctx context.Context, token string, req storeapi.CheckoutRequest) (*storeapi.Transaction, error)
}

// WatchStarter begins payment polling for a freshly created order.
type WatchStarter interface {
	Watch(sess model.SessionContext, req WatchRequest)
}

type CheckoutService interface {
	Checkout(ctx context.Context, sess model.SessionContext) (*storeapi.Transaction, error)
}

type checkoutService struct {
	api           CheckoutAPI
	selectionRepo repository.SelectionRepository
	watcher       WatchStarter
}

func NewCheckoutService(api CheckoutAPI, selectionRepo repository.SelectionRepository, watcher WatchStarter) CheckoutService {
	return &checkoutService{
		api:           api,
		selectionRepo: selectionRepo,
		watcher:       watcher,
	}
}

// Checkout places an order for the user's selected product. The upstream
// order endpoint accepts exactly one product per transaction, so a selection
// of two or more is refused up front instead of silently buying only part
// of it. On success the selection is cleared and a payment watch is started
// for the returned order id.
func (s *checkoutService) Checkout(ctx context.Context, sess model.SessionContext) (*storeapi.Transaction, error) {
	if !sess.CanCheckout() {
		logger.Warn("Checkout refused for role", map[string]interface{}{
			"user_id": sess.UserID,
			"role":    string(sess.Role),
		})
		return nil, ErrCheckoutNotAllowed
	}

	carts, err := s.api.ListCarts(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	items := FlattenCarts(carts)

	selected, err := s.selectionRepo.Members(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	selected = pruneSelection(selected, items)

	switch {
	case len(selected) == 0:
		return nil, ErrNothingSelected
	case len(selected) > 1 && allSelected(selected, items):
		return nil, ErrBulkCheckoutUnsupported
	case len(selected) > 1:
		return nil, ErrMultiSelection
	}

	item, ok := findItem(items, selected[0])
	if !ok {
		return nil, ErrNothingSelected
	}

	logger.Info("Creating checkout transaction", map[string]interface{}{
		"user_id":    sess.UserID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})

	tx, err := s.api.CreateTransaction(ctx, sess.Token, storeapi.CheckoutRequest{
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	})
	if err != nil {
		logger.Error("Checkout transaction failed", err, map[string]interface{}{
			"user_id":    sess.UserID,
			"product_id": item.ProductID,
		})
		return nil, err
	}

	if err := s.selectionRepo.Clear(ctx, sess.UserID); err != nil {
		logger.Error("Failed to clear selection after checkout", err, map[string]interface{}{
			"user_id": sess.UserID,
		})
	}

	req := WatchRequest{
		OrderID:   tx.OrderID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
	if item.Product != nil {
		req.ProductName = item.Product.Name
	}
	s.watcher.Watch(sess, req)

	logger.Info("Checkout transaction created", map[string]interface{}{
		"user_id":  sess.UserID,
		"order_id": tx.OrderID,
	})
	return tx, nil
}

func findItem(items []model.FlattenedItem, productID uint) (model.FlattenedItem, bool) {
	for _, item := range items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return model.FlattenedItem{}, false
}
