package models

import "fmt"

// Machine-readable error kinds surfaced in API responses.
const (
	KindValidation        = "validation"
	KindUnauthorized      = "unauthorized"
	KindForbidden         = "forbidden"
	KindNotFound          = "not_found"
	KindConflict          = "conflict"
	KindEmptyCart         = "empty_cart"
	KindInsufficientStock = "insufficient_stock"
	KindInvalidStatus     = "invalid_status"
	KindInternal          = "internal"
)

// Error is a domain error with a stable kind for clients to branch on.
type Error struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

var (
	ErrUnauthorized          = &Error{Kind: KindUnauthorized, Message: "authentication required"}
	ErrForbidden             = &Error{Kind: KindForbidden, Message: "access denied"}
	ErrEmptyCart             = &Error{Kind: KindEmptyCart, Message: "cart is empty"}
	ErrCartItemNotFound      = &Error{Kind: KindNotFound, Message: "cart item not found"}
	ErrProductNotFound       = &Error{Kind: KindNotFound, Message: "product not found"}
	ErrVariantNotFound       = &Error{Kind: KindNotFound, Message: "variant not found"}
	ErrCategoryNotFound      = &Error{Kind: KindNotFound, Message: "category not found"}
	ErrAddressNotFound       = &Error{Kind: KindNotFound, Message: "address not found"}
	ErrPaymentMethodNotFound = &Error{Kind: KindNotFound, Message: "payment method not found"}
	ErrOrderNotFound         = &Error{Kind: KindNotFound, Message: "order not found"}
	ErrPaymentNotFound       = &Error{Kind: KindNotFound, Message: "payment not found"}
	ErrReviewNotFound        = &Error{Kind: KindNotFound, Message: "review not found"}
	ErrUserNotFound          = &Error{Kind: KindNotFound, Message: "user not found"}
	ErrReviewExists          = &Error{Kind: KindConflict, Message: "product already reviewed"}
	ErrInvalidQuantity       = &Error{Kind: KindValidation, Message: "quantity must be greater than zero"}
)

// InsufficientStockError names the offending product so the client can
// point at the cart line that blocked checkout.
func InsufficientStockError(productName string) *Error {
	return &Error{
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("insufficient stock for product %s", productName),
	}
}

// InvalidStatusError covers both unknown status values and illegal
// transitions.
func InvalidStatusError(msg string) *Error {
	return &Error{Kind: KindInvalidStatus, Message: msg}
}

// ValidationError reports a rejected request field.
func ValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}
