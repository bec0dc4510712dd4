package model

import "time"

// OrderRecord is a denormalized snapshot written after a successful payment,
// used to render the "my orders" list without hitting the upstream. It is
// not authoritative: the upstream owns order state, and this snapshot may
// drift from it.
type OrderRecord struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	OrderID     string    `gorm:"uniqueIndex;size:64;not null" json:"order_id"`
	ProductID   uint      `json:"product_id"`
	ProductName string    `gorm:"size:255" json:"product_name"`
	Quantity    int       `json:"qty"`
	GrossAmount float64   `json:"gross_amount"`
	Status      string    `gorm:"size:32" json:"status"`
	PaymentType string    `gorm:"size:64" json:"payment_type"`
	Currency    string    `gorm:"size:8" json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
