package storeapi

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Product is the upstream product shape. The upstream API speaks Bahasa
// Indonesia on the wire (nama, harga, stok).
type Product struct {
	ID            uint    `json:"id"`
	Name          string  `json:"nama"`
	Brand         string  `json:"merk"`
	Price         float64 `json:"harga"`
	Stock         int     `json:"stok"`
	SubcategoryID uint    `json:"subcategory_id"`
	ImageURL      string  `json:"image_url"`
}

// CartItem is one line inside a server-side cart record. Quantity is >= 1
// while the line exists; the upstream treats quantity 0 as removal.
type CartItem struct {
	ProductID       uint     `json:"product_id"`
	ProductDetailID *uint    `json:"product_detail_id,omitempty"`
	Quantity        int      `json:"qty"`
	Product         *Product `json:"product,omitempty"`
}

// Cart is one server-side cart record. Created and destroyed entirely by the
// upstream; the gateway only reads and re-submits.
type Cart struct {
	ID    uint       `json:"id"`
	Items []CartItem `json:"items"`
}

// Category / Subcategory are upstream catalog shapes.
type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Subcategory struct {
	ID         uint   `json:"id"`
	CategoryID uint   `json:"category_id"`
	Name       string `json:"name"`
}

// CheckoutRequest is the payload for POST /transaksi.
type CheckoutRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"qty"`
}

// Transaction is the upstream's answer to a checkout: an order awaiting
// payment-gateway confirmation plus the gateway redirect URL.
type Transaction struct {
	OrderID     string `json:"order_id"`
	RedirectURL string `json:"redirect_url"`
	Message     string `json:"message,omitempty"`
}

// Payment status vocabulary as reported by the payment gateway.
const (
	StatusPending    = "pending"
	StatusSettlement = "settlement"
	StatusCapture    = "capture"
	StatusDeny       = "deny"
	StatusCancel     = "cancel"
	StatusExpire     = "expire"
)

// GatewayMeta is the payment-gateway metadata echoed by the upstream.
type GatewayMeta struct {
	GrossAmount    float64 `json:"gross_amount"`
	PaymentType    string  `json:"payment_type"`
	TransactionID  string  `json:"transaction_id"`
	TransactionAt  string  `json:"transaction_time"`
	SettlementAt   string  `json:"settlement_time"`
	Currency       string  `json:"currency"`
	Issuer         string  `json:"issuer"`
	Acquirer       string  `json:"acquirer"`
}

// UnmarshalJSON tolerates gross_amount arriving as either a JSON number or a
// decimal string, which the payment gateway does depending on channel.
func (g *GatewayMeta) UnmarshalJSON(data []byte) error {
	type Alias GatewayMeta
	aux := &struct {
		GrossAmount json.RawMessage `json:"gross_amount"`
		*Alias
	}{
		Alias: (*Alias)(g),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if len(aux.GrossAmount) > 0 {
		var n float64
		if err := json.Unmarshal(aux.GrossAmount, &n); err == nil {
			g.GrossAmount = n
		} else {
			var s string
			if err := json.Unmarshal(aux.GrossAmount, &s); err != nil {
				return err
			}
			parsed, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("invalid gross_amount %q: %w", s, err)
			}
			g.GrossAmount = parsed
		}
	}
	return nil
}

// PaymentStatusInfo is the response of GET /payment/success/:orderID.
type PaymentStatusInfo struct {
	OrderID string       `json:"order_id"`
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	Meta    *GatewayMeta `json:"midtrans_response,omitempty"`
}

// IsTerminal reports whether the status ends the watch loop.
func IsTerminal(status string) bool {
	switch status {
	case StatusSettlement, StatusCapture, StatusDeny, StatusCancel, StatusExpire:
		return true
	}
	return false
}

// IsSuccess reports whether the status means the payment went through.
func IsSuccess(status string) bool {
	return status == StatusSettlement || status == StatusCapture
}

// AdminOrder is one row of the upstream admin order listing.
type AdminOrder struct {
	ID          uint    `json:"id"`
	OrderID     string  `json:"order_id"`
	ProductID   uint    `json:"product_id"`
	Quantity    int     `json:"qty"`
	GrossAmount float64 `json:"gross_amount"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}
