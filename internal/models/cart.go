package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is created lazily, one per user.
type Cart struct {
	ID        int64     `json:"cart_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CartLine is one chosen SKU in a cart. At most one line exists per
// (cart, product, variant); repeated adds increment the quantity.
type CartLine struct {
	ID          int64           `json:"cart_item_id"`
	CartID      int64           `json:"cart_id"`
	ProductID   int64           `json:"product_id"`
	VariantID   *int64          `json:"variant_id,omitempty"`
	Quantity    int             `json:"quantity"`
	AddedAt     time.Time       `json:"added_at"`
	ProductName string          `json:"name,omitempty"`
	VariantName string          `json:"variant_name,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Stock       int             `json:"stock_quantity"`
}

// CartView is the shaped cart response with computed totals.
type CartView struct {
	CartID      int64           `json:"cart_id"`
	Items       []CartLine      `json:"items"`
	TotalItems  int             `json:"total_items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// CheckoutLine is the cart state captured at checkout time: the quantity
// and the unit price the order will freeze.
type CheckoutLine struct {
	ProductID   int64
	VariantID   *int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

func (l CheckoutLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type AddToCartRequest struct {
	ProductID int64  `json:"product_id" binding:"required"`
	VariantID *int64 `json:"variant_id"`
	Quantity  int    `json:"quantity" binding:"omitempty,gt=0"`
}

type UpdateCartLineRequest struct {
	Quantity *int `json:"quantity" binding:"required,gte=0"`
}
