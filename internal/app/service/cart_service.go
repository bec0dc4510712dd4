package service

import (
	"context"
	"errors"

	"github.com/alienstore/storefront-gateway/internal/app/model"
	"github.com/alienstore/storefront-gateway/internal/app/repository"
	"github.com/alienstore/storefront-gateway/pkg/logger"
	"github.com/alienstore/storefront-gateway/pkg/storeapi"
)

// CartAPI is the subset of the upstream client the cart service uses.
type CartAPI interface {
	ListCarts(ctx context.Context, token string) ([]storeapi.Cart, error)
	AddCartItem(ctx context.Context, token string, productID uint, quantity int) error
	UpdateCartItem(ctx context.Context, token string, cartID, productID uint, quantity int) error
	RemoveCartItem(ctx context.Context, token string, cartID, productID uint) error
	DeleteCart(ctx context.Context, token string, cartID uint) error
}

type CartService interface {
	GetMergedCart(ctx context.Context, sess model.SessionContext) (*model.MergedCart, error)
	AddItem(ctx context.Context, sess model.SessionContext, productID uint, quantity int) error
	UpdateQuantity(ctx context.Context, sess model.SessionContext, productID uint, quantity int) error
	RemoveItem(ctx context.Context, sess model.SessionContext, productID uint) error
	DeleteCart(ctx context.Context, sess model.SessionContext, cartID uint) error
}

type cartService struct {
	api           CartAPI
	selectionRepo repository.SelectionRepository
}

func NewCartService(api CartAPI, selectionRepo repository.SelectionRepository) CartService {
	return &cartService{
		api:           api,
		selectionRepo: selectionRepo,
	}
}

// FlattenCarts merges the user's cart records into one entry per distinct
// product, in listing order. Quantities of duplicate products are summed;
// the owning cart id is the record the product was first seen in. Lines with
// non-positive quantity are treated as already removed. The input is never
// mutated, so flattening the same records twice yields identical output.
func FlattenCarts(carts []storeapi.Cart) []model.FlattenedItem {
	merged := make(map[uint]int) // product id -> index into items
	items := make([]model.FlattenedItem, 0)

	for _, cart := range carts {
		for _, item := range cart.Items {
			if item.Quantity <= 0 {
				continue
			}
			if idx, seen := merged[item.ProductID]; seen {
				items[idx].Quantity += item.Quantity
				continue
			}
			merged[item.ProductID] = len(items)
			items = append(items, model.FlattenedItem{
				ProductID:       item.ProductID,
				ProductDetailID: item.ProductDetailID,
				Quantity:        item.Quantity,
				CartID:          cart.ID,
				Product:         item.Product,
			})
		}
	}
	return items
}

// allSelected reports whether the selection covers exactly the flattened
// product set. Derived fresh on every call; never stored.
func allSelected(selected []uint, items []model.FlattenedItem) bool {
	if len(items) == 0 || len(selected) != len(items) {
		return false
	}
	set := make(map[uint]struct{}, len(selected))
	for _, id := range selected {
		set[id] = struct{}{}
	}
	for _, item := range items {
		if _, ok := set[item.ProductID]; !ok {
			return false
		}
	}
	return true
}

func (s *cartService) GetMergedCart(ctx context.Context, sess model.SessionContext) (*model.MergedCart, error) {
	logger.Debug("Fetching merged cart", map[string]interface{}{
		"user_id": sess.UserID,
	})

	carts, err := s.api.ListCarts(ctx, sess.Token)
	if err != nil {
		if errors.Is(err, storeapi.ErrUnauthorized) {
			return nil, err
		}
		// Degrade to an empty cart view rather than failing the page, but
		// mark the response so the SPA can tell "empty" from "unavailable".
		logger.Warn("Cart listing failed, serving degraded empty view", map[string]interface{}{
			"user_id": sess.UserID,
			"error":   err.Error(),
		})
		return &model.MergedCart{Items: []model.FlattenedItem{}, Selected: []uint{}, Degraded: true}, nil
	}

	items := FlattenCarts(carts)

	selected, err := s.selectionRepo.Members(ctx, sess.UserID)
	if err != nil {
		logger.Error("Failed to load selection, continuing with none", err, map[string]interface{}{
			"user_id": sess.UserID,
		})
		selected = nil
	}

	// The cart changed under the selection: drop ids that no longer exist so
	// the SPA never sees a stale selection.
	selected = pruneSelection(selected, items)
	if err := s.selectionRepo.Replace(ctx, sess.UserID, selected); err != nil {
		logger.Error("Failed to prune selection", err, map[string]interface{}{
			"user_id": sess.UserID,
		})
	}

	merged := &model.MergedCart{
		Items:       items,
		Selected:    selected,
		AllSelected: allSelected(selected, items),
		Total:       selectionTotal(selected, items),
	}

	logger.Info("Merged cart fetched successfully", map[string]interface{}{
		"user_id":  sess.UserID,
		"carts":    len(carts),
		"products": len(items),
		"selected": len(selected),
	})
	return merged, nil
}

func pruneSelection(selected []uint, items []model.FlattenedItem) []uint {
	present := make(map[uint]struct{}, len(items))
	for _, item := range items {
		present[item.ProductID] = struct{}{}
	}
	pruned := make([]uint, 0, len(selected))
	for _, id := range selected {
		if _, ok := present[id]; ok {
			pruned = append(pruned, id)
		}
	}
	return pruned
}

func selectionTotal(selected []uint, items []model.FlattenedItem) float64 {
	set := make(map[uint]struct{}, len(selected))
	for _, id := range selected {
		set[id] = struct{}{}
	}

	var total float64
	for _, item := range items {
		if _, ok := set[item.ProductID]; !ok {
			continue
		}
		if item.Product != nil {
			total += item.Product.Price * float64(item.Quantity)
		}
	}
	return total
}

func (s *cartService) AddItem(ctx context.Context, sess model.SessionContext, productID uint, quantity int) error {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    sess.UserID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if err := s.api.AddCartItem(ctx, sess.Token, productID, quantity); err != nil {
		logger.Error("Failed to add item to cart", err, map[string]interface{}{
			"user_id":    sess.UserID,
			"product_id": productID,
		})
		return err
	}
	return nil
}

// UpdateQuantity sets the flattened quantity of a product. The product may
// live in several cart records; the first-seen record receives the new
// quantity and every other record drops the product, so no record is left
// with a stale line. Quantity below 1 removes the product everywhere.
func (s *cartService) UpdateQuantity(ctx context.Context, sess model.SessionContext, productID uint, quantity int) error {
	logger.Info("Updating cart quantity", map[string]interface{}{
		"user_id":    sess.UserID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if quantity < 1 {
		return s.RemoveItem(ctx, sess, productID)
	}

	owners, err := s.owningCarts(ctx, sess, productID)
	if err != nil {
		return err
	}
	if len(owners) == 0 {
		return ErrCartItemNotFound
	}

	if err := s.api.UpdateCartItem(ctx, sess.Token, owners[0], productID, quantity); err != nil {
		logger.Error("Failed to update cart item", err, map[string]interface{}{
			"user_id":    sess.UserID,
			"cart_id":    owners[0],
			"product_id": productID,
		})
		return err
	}

	for _, cartID := range owners[1:] {
		if err := s.api.RemoveCartItem(ctx, sess.Token, cartID, productID); err != nil {
			logger.Error("Failed to drop duplicate cart line", err, map[string]interface{}{
				"user_id":    sess.UserID,
				"cart_id":    cartID,
				"product_id": productID,
			})
			return err
		}
	}
	return nil
}

func (s *cartService) RemoveItem(ctx context.Context, sess model.SessionContext, productID uint) error {
	logger.Info("Removing product from cart", map[string]interface{}{
		"user_id":    sess.UserID,
		"product_id": productID,
	})

	owners, err := s.owningCarts(ctx, sess, productID)
	if err != nil {
		return err
	}
	if len(owners) == 0 {
		return ErrCartItemNotFound
	}

	for _, cartID := range owners {
		if err := s.api.RemoveCartItem(ctx, sess.Token, cartID, productID); err != nil {
			logger.Error("Failed to remove cart item", err, map[string]interface{}{
				"user_id":    sess.UserID,
				"cart_id":    cartID,
				"product_id": productID,
			})
			return err
		}
	}
	return nil
}

func (s *cartService) DeleteCart(ctx context.Context, sess model.SessionContext, cartID uint) error {
	logger.Info("Deleting cart record", map[string]interface{}{
		"user_id": sess.UserID,
		"cart_id": cartID,
	})
	return s.api.DeleteCart(ctx, sess.Token, cartID)
}

// owningCarts lists every cart record currently containing the product, in
// listing order.
func (s *cartService) owningCarts(ctx context.Context, sess model.SessionContext, productID uint) ([]uint, error) {
	carts, err := s.api.ListCarts(ctx, sess.Token)
	if err != nil {
		return nil, err
	}

	var owners []uint
	for _, cart := range carts {
		for _, item := range cart.Items {
			if item.ProductID == productID && item.Quantity > 0 {
				owners = append(owners, cart.ID)
				break
			}
		}
	}
	return owners, nil
}
