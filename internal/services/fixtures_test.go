package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/store/memory"
)

// testEnv wires every service against a fresh in-memory store with one
// customer and one admin seeded.
type testEnv struct {
	st        *memory.Store
	carts     *CartService
	orders    *OrderService
	products  *ProductService
	addresses *AddressService
	payments  *PaymentService
	reviews   *ReviewService

	user  models.User
	admin models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := memory.New()
	return &testEnv{
		st:        st,
		carts:     NewCartService(st),
		orders:    NewOrderService(st),
		products:  NewProductService(st),
		addresses: NewAddressService(st),
		payments:  NewPaymentService(st),
		reviews:   NewReviewService(st),
		user:      st.SeedUser(models.User{Username: "alice", Email: "alice@example.com", Role: models.RoleCustomer}),
		admin:     st.SeedUser(models.User{Username: "root", Email: "root@example.com", Role: models.RoleAdmin}),
	}
}

func (e *testEnv) actor() models.Actor {
	return models.Actor{UserID: e.user.ID, Role: e.user.Role}
}

func (e *testEnv) adminActor() models.Actor {
	return models.Actor{UserID: e.admin.ID, Role: e.admin.Role}
}

func (e *testEnv) seedProduct(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, BasePrice: mustDecimal(t, price), Stock: stock}
	require.NoError(t, e.st.CreateProduct(context.Background(), p))
	return p
}

func (e *testEnv) seedVariant(t *testing.T, productID int64, name, modifier string, stock int) *models.Variant {
	t.Helper()
	v := &models.Variant{ProductID: productID, Name: name, SKU: name, PriceModifier: mustDecimal(t, modifier), Stock: stock}
	require.NoError(t, e.st.CreateVariant(context.Background(), v))
	return v
}

func (e *testEnv) seedAddress(t *testing.T, userID int64) *models.Address {
	t.Helper()
	a := &models.Address{UserID: userID, Street: "1 Main St", City: "Springfield", Country: "US", IsDefault: true}
	require.NoError(t, e.st.CreateAddress(context.Background(), a))
	return a
}

func (e *testEnv) addToCart(t *testing.T, productID int64, variantID *int64, quantity int) {
	t.Helper()
	_, err := e.carts.AddItem(context.Background(), e.user.ID, models.AddToCartRequest{
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
	})
	require.NoError(t, err)
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func errKind(err error) string {
	if de, ok := err.(*models.Error); ok {
		return de.Kind
	}
	return ""
}
