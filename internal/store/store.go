// Package store defines the storage interface the services run against.
// Two implementations exist: postgres (production) and memory (development
// and tests). Compound operations run through RunTx so that either every
// statement commits or none does.
package store

import (
	"context"

	"storefront/internal/models"
)

type ProductFilter struct {
	Search     string
	CategoryID *int64
	Page       int
	Limit      int
}

type OrderFilter struct {
	UserID *int64
	Status models.OrderStatus
	Page   int
	Limit  int
}

type ReviewFilter struct {
	ProductID *int64
	UserID    *int64
	Rating    *int
	Page      int
	Limit     int
}

type PaymentFilter struct {
	UserID *int64
	Status models.PaymentStatus
	Page   int
	Limit  int
}

type UserStore interface {
	UserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	Users(ctx context.Context, page, limit int) ([]models.User, int, error)
}

type CategoryStore interface {
	Categories(ctx context.Context) ([]models.Category, error)
	CategoryByID(ctx context.Context, id int64) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
}

type ProductStore interface {
	Products(ctx context.Context, f ProductFilter) ([]models.Product, int, error)
	// ProductByID returns the product with its variants attached.
	ProductByID(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	VariantByID(ctx context.Context, id int64) (*models.Variant, error)
	CreateVariant(ctx context.Context, v *models.Variant) error
	UpdateVariant(ctx context.Context, v *models.Variant) error
	DeleteVariant(ctx context.Context, id int64) error
}

// InventoryStore is the per-SKU stock ledger. Callers are responsible for
// checking availability before applying a negative delta, and for doing
// both inside the same transaction.
type InventoryStore interface {
	// AvailableStock returns variant stock when variantID is set, product
	// stock otherwise. Inside a transaction the read locks the row.
	AvailableStock(ctx context.Context, productID int64, variantID *int64) (int, error)
	// ApplyStockDelta adds delta (negative on purchase, positive on
	// cancellation) to the correct row. No sign enforcement here.
	ApplyStockDelta(ctx context.Context, productID int64, variantID *int64, delta int) error
}

type CartStore interface {
	// CartByUser returns the user's cart, creating it lazily.
	CartByUser(ctx context.Context, userID int64) (*models.Cart, error)
	// CartLines returns the cart's lines with product/variant data joined
	// and unit prices resolved.
	CartLines(ctx context.Context, cartID int64) ([]models.CartLine, error)
	// CartLineForUser fetches one line, enforcing cart ownership.
	CartLineForUser(ctx context.Context, lineID, userID int64) (*models.CartLine, error)
	// FindCartLine locates the line for a (cart, product, variant) triple.
	FindCartLine(ctx context.Context, cartID, productID int64, variantID *int64) (*models.CartLine, error)
	CreateCartLine(ctx context.Context, l *models.CartLine) error
	UpdateCartLineQuantity(ctx context.Context, lineID int64, quantity int) error
	DeleteCartLine(ctx context.Context, lineID int64) error
	ClearCart(ctx context.Context, cartID int64) error
}

type AddressStore interface {
	Addresses(ctx context.Context, userID int64) ([]models.Address, error)
	AddressByID(ctx context.Context, id int64) (*models.Address, error)
	CreateAddress(ctx context.Context, a *models.Address) error
	UpdateAddress(ctx context.Context, a *models.Address) error
	DeleteAddress(ctx context.Context, id int64) error
	// ClearDefaultAddresses unsets is_default on all of the user's rows.
	ClearDefaultAddresses(ctx context.Context, userID int64) error
	CountAddresses(ctx context.Context, userID int64) (int, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	CreateOrderItems(ctx context.Context, orderID int64, items []models.OrderItem) error
	OrderByID(ctx context.Context, id int64) (*models.Order, error)
	OrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	Orders(ctx context.Context, f OrderFilter) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error
	// DeleteOrder removes the order and its items.
	DeleteOrder(ctx context.Context, id int64) error
}

type PaymentStore interface {
	PaymentMethods(ctx context.Context, userID int64) ([]models.PaymentMethod, error)
	PaymentMethodByID(ctx context.Context, id int64) (*models.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, m *models.PaymentMethod) error
	UpdatePaymentMethod(ctx context.Context, m *models.PaymentMethod) error
	DeletePaymentMethod(ctx context.Context, id int64) error
	ClearDefaultPaymentMethods(ctx context.Context, userID int64) error
	CountPaymentMethods(ctx context.Context, userID int64) (int, error)

	CreatePayment(ctx context.Context, p *models.Payment) error
	PaymentByID(ctx context.Context, id int64) (*models.Payment, error)
	PaymentByOrder(ctx context.Context, orderID int64) (*models.Payment, error)
	Payments(ctx context.Context, f PaymentFilter) ([]models.Payment, int, error)
	UpdatePayment(ctx context.Context, p *models.Payment) error
}

type ReviewStore interface {
	Reviews(ctx context.Context, f ReviewFilter) ([]models.Review, int, error)
	ReviewByID(ctx context.Context, id int64) (*models.Review, error)
	FindReview(ctx context.Context, userID, productID int64) (*models.Review, error)
	CreateReview(ctx context.Context, r *models.Review) error
	UpdateReview(ctx context.Context, r *models.Review) error
	DeleteReview(ctx context.Context, id int64) error
	ReviewSummary(ctx context.Context, productID int64) (*models.ReviewSummary, error)
	// HasDeliveredPurchase reports whether the user has a delivered order
	// containing the product (verified-purchase check).
	HasDeliveredPurchase(ctx context.Context, userID, productID int64) (bool, error)
}

// Store is the full storage surface.
type Store interface {
	UserStore
	CategoryStore
	ProductStore
	InventoryStore
	CartStore
	AddressStore
	OrderStore
	PaymentStore
	ReviewStore

	// RunTx runs fn against a transactional view of the store. A nil
	// return commits; any error rolls every statement back.
	RunTx(ctx context.Context, fn func(tx Store) error) error
	Close() error
}
