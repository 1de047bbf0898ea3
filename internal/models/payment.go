package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// Payment is attached 1:1 to an order; its amount mirrors the order total.
type Payment struct {
	ID              int64           `json:"payment_id"`
	OrderID         int64           `json:"order_id"`
	PaymentMethodID *int64          `json:"payment_method_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Status          PaymentStatus   `json:"status"`
	Reference       string          `json:"reference,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

var paymentMethodTypes = map[string]bool{
	"credit_card":      true,
	"debit_card":       true,
	"paypal":           true,
	"bank_transfer":    true,
	"cash_on_delivery": true,
}

func ValidPaymentMethodType(t string) bool { return paymentMethodTypes[t] }

type PaymentMethod struct {
	ID            int64     `json:"payment_method_id"`
	UserID        int64     `json:"user_id"`
	Type          string    `json:"type"`
	Provider      string    `json:"provider"`
	AccountNumber string    `json:"-"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreatePaymentMethodRequest struct {
	Type          string `json:"type" binding:"required"`
	Provider      string `json:"provider" binding:"required"`
	AccountNumber string `json:"account_number"`
	IsDefault     bool   `json:"is_default"`
}

type UpdatePaymentMethodRequest struct {
	Type          *string `json:"type"`
	Provider      *string `json:"provider"`
	AccountNumber *string `json:"account_number"`
	IsDefault     *bool   `json:"is_default"`
}

type ProcessPaymentRequest struct {
	OrderID         int64  `json:"order_id" binding:"required"`
	PaymentMethodID *int64 `json:"payment_method_id"`
}

type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
