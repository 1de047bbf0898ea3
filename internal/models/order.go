package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// statusRank orders the forward chain. Cancelled sits outside the chain.
var statusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusPaid:       1,
	OrderStatusProcessing: 2,
	OrderStatusShipped:    3,
	OrderStatusDelivered:  4,
}

func (s OrderStatus) Valid() bool {
	if s == OrderStatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// Terminal statuses never change again.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransition reports whether an order may move from s to next.
// Forward moves along the chain are allowed (skipping steps is fine),
// backward moves are not, and terminal states are immutable. Cancellation
// is reachable from any non-terminal state.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() || s.Terminal() || s == next {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return statusRank[next] > statusRank[s]
}

type Order struct {
	ID          int64           `json:"order_id"`
	UserID      int64           `json:"user_id"`
	AddressID   int64           `json:"address_id"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Items       []OrderItem     `json:"items,omitempty"`
	Address     *Address        `json:"address,omitempty"`
	Payment     *Payment        `json:"payment,omitempty"`
}

// OrderItem is immutable once created; PriceAtPurchase freezes the unit
// price resolved at checkout and is never recalculated.
type OrderItem struct {
	ID              int64           `json:"order_item_id"`
	OrderID         int64           `json:"order_id"`
	ProductID       int64           `json:"product_id"`
	VariantID       *int64          `json:"variant_id,omitempty"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	ProductName     string          `json:"name,omitempty"`
}

type PlaceOrderRequest struct {
	AddressID       int64  `json:"address_id" binding:"required"`
	PaymentMethodID *int64 `json:"payment_method_id"`
}

// PlaceOrderResult is the success payload of a checkout.
type PlaceOrderResult struct {
	Order      *Order `json:"order"`
	ItemsCount int    `json:"items_count"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
