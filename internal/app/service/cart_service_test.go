package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alienstore/storefront-gateway/internal/app/model"
	"github.com/alienstore/storefront-gateway/internal/app/repository"
	"github.com/alienstore/storefront-gateway/pkg/storeapi"
)

// fakeCartAPI is an in-memory stand-in for the upstream cart endpoints. It
// records mutating calls so tests can assert the exact fan-out.
type fakeCartAPI struct {
	carts   []storeapi.Cart
	listErr error

	updated []cartCall
	removed []cartCall
	deleted []uint
	added   []cartCall
}

type cartCall struct {
	CartID    uint
	ProductID uint
	Quantity  int
}

func (f *fakeCartAPI) ListCarts(ctx context.Context, token string) ([]storeapi.Cart, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.carts, nil
}

func (f *fakeCartAPI) AddCartItem(ctx context.Context, token string, productID uint, quantity int) error {
	f.added = append(f.added, cartCall{ProductID: productID, Quantity: quantity})
	return nil
}

func (f *fakeCartAPI) UpdateCartItem(ctx context.Context, token string, cartID, productID uint, quantity int) error {
	f.updated = append(f.updated, cartCall{CartID: cartID, ProductID: productID, Quantity: quantity})
	return nil
}

func (f *fakeCartAPI) RemoveCartItem(ctx context.Context, token string, cartID, productID uint) error {
	f.removed = append(f.removed, cartCall{CartID: cartID, ProductID: productID})
	return nil
}

func (f *fakeCartAPI) DeleteCart(ctx context.Context, token string, cartID uint) error {
	f.deleted = append(f.deleted, cartID)
	return nil
}

func testSession() model.SessionContext {
	return model.SessionContext{
		UserID: 1,
		Email:  "user@example.com",
		Role:   model.RoleUser,
		Token:  "test-token",
	}
}

func twoCartsSharingProduct() []storeapi.Cart {
	return []storeapi.Cart{
		{
			ID: 7,
			Items: []storeapi.CartItem{
				{ProductID: 1, Quantity: 2, Product: &storeapi.Product{ID: 1, Name: "Kaos Polos", Price: 50000}},
			},
		},
		{
			ID: 9,
			Items: []storeapi.CartItem{
				{ProductID: 1, Quantity: 3, Product: &storeapi.Product{ID: 1, Name: "Kaos Polos", Price: 50000}},
				{ProductID: 2, Quantity: 1, Product: &storeapi.Product{ID: 2, Name: "Topi", Price: 30000}},
			},
		},
	}
}

func TestFlattenCarts(t *testing.T) {
	t.Run("merges duplicate products across carts", func(t *testing.T) {
		items := FlattenCarts(twoCartsSharingProduct())

		require.Len(t, items, 2)
		assert.Equal(t, uint(1), items[0].ProductID)
		assert.Equal(t, 5, items[0].Quantity)
		assert.Equal(t, uint(7), items[0].CartID, "owning cart is the record the product was first seen in")
		assert.Equal(t, uint(2), items[1].ProductID)
		assert.Equal(t, 1, items[1].Quantity)
		assert.Equal(t, uint(9), items[1].CartID)
	})

	t.Run("is idempotent over the same records", func(t *testing.T) {
		carts := twoCartsSharingProduct()

		first := FlattenCarts(carts)
		second := FlattenCarts(carts)

		assert.Equal(t, first, second)
		// The source records are untouched.
		assert.Equal(t, 2, carts[0].Items[0].Quantity)
		assert.Equal(t, 3, carts[1].Items[0].Quantity)
	})

	t.Run("preserves total quantity per product", func(t *testing.T) {
		carts := twoCartsSharingProduct()
		want := make(map[uint]int)
		for _, cart := range carts {
			for _, item := range cart.Items {
				want[item.ProductID] += item.Quantity
			}
		}

		got := make(map[uint]int)
		for _, item := range FlattenCarts(carts) {
			got[item.ProductID] += item.Quantity
		}
		assert.Equal(t, want, got)
	})

	t.Run("skips non-positive quantities", func(t *testing.T) {
		items := FlattenCarts([]storeapi.Cart{
			{ID: 3, Items: []storeapi.CartItem{
				{ProductID: 1, Quantity: 0},
				{ProductID: 2, Quantity: -1},
				{ProductID: 3, Quantity: 1},
			}},
		})

		require.Len(t, items, 1)
		assert.Equal(t, uint(3), items[0].ProductID)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, FlattenCarts(nil))
		assert.Empty(t, FlattenCarts([]storeapi.Cart{{ID: 1}}))
	})
}

func TestCartService_GetMergedCart(t *testing.T) {
	ctx := context.Background()

	t.Run("returns merged view with selection totals", func(t *testing.T) {
		api := &fakeCartAPI{carts: twoCartsSharingProduct()}
		selections := repository.NewMemorySelectionRepository()
		_, err := selections.Toggle(ctx, 1, 1)
		require.NoError(t, err)

		svc := NewCartService(api, selections)
		merged, err := svc.GetMergedCart(ctx, testSession())

		require.NoError(t, err)
		require.Len(t, merged.Items, 2)
		assert.Equal(t, []uint{1}, merged.Selected)
		assert.False(t, merged.AllSelected)
		assert.False(t, merged.Degraded)
		// 5 units of product 1 at 50000 each.
		assert.Equal(t, float64(250000), merged.Total)
	})

	t.Run("all selected is derived, never stored", func(t *testing.T) {
		api := &fakeCartAPI{carts: twoCartsSharingProduct()}
		selections := repository.NewMemorySelectionRepository()
		require.NoError(t, selections.Replace(ctx, 1, []uint{1, 2}))

		svc := NewCartService(api, selections)
		merged, err := svc.GetMergedCart(ctx, testSession())

		require.NoError(t, err)
		assert.True(t, merged.AllSelected)

		// A new product appears upstream; the same selection no longer
		// covers the whole cart.
		api.carts = append(api.carts, storeapi.Cart{
			ID:    11,
			Items: []storeapi.CartItem{{ProductID: 5, Quantity: 1}},
		})
		merged, err = svc.GetMergedCart(ctx, testSession())
		require.NoError(t, err)
		assert.False(t, merged.AllSelected)
	})

	t.Run("prunes selection ids missing from the cart", func(t *testing.T) {
		api := &fakeCartAPI{carts: twoCartsSharingProduct()}
		selections := repository.NewMemorySelectionRepository()
		require.NoError(t, selections.Replace(ctx, 1, []uint{1, 99}))

		svc := NewCartService(api, selections)
		merged, err := svc.GetMergedCart(ctx, testSession())

		require.NoError(t, err)
		assert.Equal(t, []uint{1}, merged.Selected)

		members, err := selections.Members(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []uint{1}, members)
	})

	t.Run("degrades to empty view when upstream listing fails", func(t *testing.T) {
		api := &fakeCartAPI{listErr: storeapi.ErrNetworkError}
		svc := NewCartService(api, repository.NewMemorySelectionRepository())

		merged, err := svc.GetMergedCart(ctx, testSession())

		require.NoError(t, err)
		assert.Empty(t, merged.Items)
		assert.True(t, merged.Degraded)
	})

	t.Run("propagates unauthorized", func(t *testing.T) {
		api := &fakeCartAPI{listErr: storeapi.ErrUnauthorized}
		svc := NewCartService(api, repository.NewMemorySelectionRepository())

		_, err := svc.GetMergedCart(ctx, testSession())
		assert.ErrorIs(t, err, storeapi.ErrUnauthorized)
	})
}

func TestCartService_UpdateQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("updates first owning cart and drops duplicates", func(t *testing.T) {
		api := &fakeCartAPI{carts: twoCartsSharingProduct()}
		svc := NewCartService(api, repository.NewMemorySelectionRepository())

		err := svc.UpdateQuantity(ctx, testSession(), 1, 4)

		require.NoError(t, err)
		require.Len(t, api.updated, 1)
		assert.Equal(t, cartCall{CartID: 7, ProductID: 1, Quantity: 4}, api.updated[0])
		require.Len(t, api.removed, 1)
		assert.Equal(t, cartCall{CartID: 9, ProductID: 1}, api.removed[0])
	})

	t.Run("quantity below one removes the product everywhere", func(t *testing.T) {
		api := &fakeCartAPI{carts: twoCartsSharingProduct()}
		svc := NewCartService(api, repository.NewMemorySelectionRepository())

		err := svc.UpdateQuantity(ctx, testSession(), 1, 0)

		require.NoError(t, err)
		assert.Empty(t, api.updated)
		assert.Equal(t, []cartCall{
			{CartID: 7, ProductID: 1},
			{CartID: 9, ProductID: 1},
		}, api.removed)
	})

	t.Run("unknown product", func(t *testing.T) {
		api := &fakeCartAPI{carts: twoCartsSharingProduct()}
		svc := NewCartService(api, repository.NewMemorySelectionRepository())

		err := svc.UpdateQuantity(ctx, testSession(), 99, 2)
		assert.ErrorIs(t, err, ErrCartItemNotFound)
	})
}

func TestCartService_RemoveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("removes from every owning cart", func(t *testing.T) {
		api := &fakeCartAPI{carts: twoCartsSharingProduct()}
		svc := NewCartService(api, repository.NewMemorySelectionRepository())

		err := svc.RemoveItem(ctx, testSession(), 1)

		require.NoError(t, err)
		assert.Equal(t, []cartCall{
			{CartID: 7, ProductID: 1},
			{CartID: 9, ProductID: 1},
		}, api.removed)
	})

	t.Run("unknown product", func(t *testing.T) {
		api := &fakeCartAPI{carts: twoCartsSharingProduct()}
		svc := NewCartService(api, repository.NewMemorySelectionRepository())

		err := svc.RemoveItem(ctx, testSession(), 42)
		assert.ErrorIs(t, err, ErrCartItemNotFound)
	})
}

func TestSelectionService_ToggleAll(t *testing.T) {
	ctx := context.Background()

	t.Run("selects every current product when not all selected", func(t *testing.T) {
		api := &fakeCartAPI{carts: twoCartsSharingProduct()}
		selections := repository.NewMemorySelectionRepository()
		_, err := selections.Toggle(ctx, 1, 1)
		require.NoError(t, err)

		svc := NewSelectionService(api, selections)
		ids, err := svc.ToggleAll(ctx, testSession())

		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{1, 2}, ids)
	})

	t.Run("clears when the whole cart is already selected", func(t *testing.T) {
		api := &fakeCartAPI{carts: twoCartsSharingProduct()}
		selections := repository.NewMemorySelectionRepository()
		require.NoError(t, selections.Replace(ctx, 1, []uint{1, 2}))

		svc := NewSelectionService(api, selections)
		ids, err := svc.ToggleAll(ctx, testSession())

		require.NoError(t, err)
		assert.Empty(t, ids)

		members, err := selections.Members(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, members)
	})

	t.Run("recomputes against the cart as it is now", func(t *testing.T) {
		api := &fakeCartAPI{carts: twoCartsSharingProduct()}
		selections := repository.NewMemorySelectionRepository()

		svc := NewSelectionService(api, selections)
		_, err := svc.ToggleAll(ctx, testSession())
		require.NoError(t, err)

		// New product arrives; select-all again must cover it instead of
		// clearing, because the stored set no longer matches the cart.
		api.carts = append(api.carts, storeapi.Cart{
			ID:    11,
			Items: []storeapi.CartItem{{ProductID: 5, Quantity: 1}},
		})
		ids, err := svc.ToggleAll(ctx, testSession())
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{1, 2, 5}, ids)
	})
}
