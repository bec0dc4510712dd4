package model

import "github.com/alienstore/storefront-gateway/pkg/storeapi"

// FlattenedItem is one entry per distinct product across all of a user's
// cart records. Quantity is the sum across records; CartID is the record the
// product was first seen in and is where display-level metadata comes from.
// Mutations are fanned out to every record containing the product, so CartID
// is never a correctness concern, only a provenance hint.
type FlattenedItem struct {
	ProductID       uint              `json:"product_id"`
	ProductDetailID *uint             `json:"product_detail_id,omitempty"`
	Quantity        int               `json:"qty"`
	CartID          uint              `json:"cart_id"`
	Product         *storeapi.Product `json:"product,omitempty"`
}

// MergedCart is the cart view served to the SPA: the flattened items plus
// the caller's current checkout selection.
type MergedCart struct {
	Items       []FlattenedItem `json:"items"`
	Selected    []uint          `json:"selected"`
	AllSelected bool            `json:"all_selected"`
	Total       float64         `json:"total"`

	// Degraded is set when the upstream listing failed non-fatally and the
	// view fell back to empty, so the SPA can surface it instead of showing
	// a silently empty cart.
	Degraded bool `json:"degraded,omitempty"`
}
