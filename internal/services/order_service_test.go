package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/store"
)

func TestPlaceOrderFreezesVariantPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Ceramic Mug", "10.00", 20)
	variant := env.seedVariant(t, product.ID, "Large", "2.00", 10)
	address := env.seedAddress(t, env.user.ID)

	env.addToCart(t, product.ID, &variant.ID, 3)

	result, err := env.orders.PlaceOrder(ctx, env.user.ID, models.PlaceOrderRequest{AddressID: address.ID})
	require.NoError(t, err)
	require.Equal(t, 1, result.ItemsCount)

	assert.Equal(t, models.OrderStatusPending, result.Order.Status)
	assert.True(t, result.Order.TotalAmount.Equal(mustDecimal(t, "36.00")),
		"expected 36.00, got %s", result.Order.TotalAmount)
	require.Len(t, result.Order.Items, 1)
	assert.True(t, result.Order.Items[0].PriceAtPurchase.Equal(mustDecimal(t, "12.00")))

	// Stock came off the variant, not the product.
	updated, err := env.st.VariantByID(ctx, variant.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Stock)
	p, err := env.st.ProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, p.Stock)

	// The cart is empty afterwards.
	cart, err := env.carts.GetCart(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestPlaceOrderPriceUnaffectedByLaterChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Woven Basket", "25.00", 5)
	address := env.seedAddress(t, env.user.ID)
	env.addToCart(t, product.ID, nil, 1)

	result, err := env.orders.PlaceOrder(ctx, env.user.ID, models.PlaceOrderRequest{AddressID: address.ID})
	require.NoError(t, err)

	product.BasePrice = mustDecimal(t, "99.00")
	require.NoError(t, env.st.UpdateProduct(ctx, product))

	items, err := env.orders.Items(ctx, env.actor(), result.Order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].PriceAtPurchase.Equal(mustDecimal(t, "25.00")))
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	plenty := env.seedProduct(t, "Candle", "5.00", 50)
	scarce := env.seedProduct(t, "Vase", "30.00", 2)
	address := env.seedAddress(t, env.user.ID)

	env.addToCart(t, plenty.ID, nil, 4)
	env.addToCart(t, scarce.ID, nil, 2)

	// Stock drops underneath the cart between add and checkout.
	require.NoError(t, env.st.ApplyStockDelta(ctx, scarce.ID, nil, -1))

	_, err := env.orders.PlaceOrder(ctx, env.user.ID, models.PlaceOrderRequest{AddressID: address.ID})
	require.Error(t, err)
	assert.Equal(t, models.KindInsufficientStock, errKind(err))

	// Nothing moved: no stock was taken and the cart is intact.
	p, err := env.st.ProductByID(ctx, plenty.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, p.Stock)

	cart, err := env.carts.GetCart(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)

	orders, total, err := env.orders.List(ctx, env.actor(), store.OrderFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, orders)
}

func TestPlaceOrderVariantStockIsAuthoritative(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Product-level stock is exhausted but the chosen variant has units.
	product := env.seedProduct(t, "Scarf", "15.00", 0)
	variant := env.seedVariant(t, product.ID, "Red", "0.00", 5)
	address := env.seedAddress(t, env.user.ID)

	env.addToCart(t, product.ID, &variant.ID, 5)

	result, err := env.orders.PlaceOrder(ctx, env.user.ID, models.PlaceOrderRequest{AddressID: address.ID})
	require.NoError(t, err)
	assert.True(t, result.Order.TotalAmount.Equal(mustDecimal(t, "75.00")))

	updated, err := env.st.VariantByID(ctx, variant.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	address := env.seedAddress(t, env.user.ID)

	_, err := env.orders.PlaceOrder(context.Background(), env.user.ID, models.PlaceOrderRequest{AddressID: address.ID})
	assert.ErrorIs(t, err, models.ErrEmptyCart)
}

func TestPlaceOrderRejectsForeignAddress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	other := env.st.SeedUser(models.User{Username: "bob", Email: "bob@example.com", Role: models.RoleCustomer})
	foreign := env.seedAddress(t, other.ID)

	product := env.seedProduct(t, "Bowl", "8.00", 10)
	env.addToCart(t, product.ID, nil, 1)

	_, err := env.orders.PlaceOrder(ctx, env.user.ID, models.PlaceOrderRequest{AddressID: foreign.ID})
	assert.ErrorIs(t, err, models.ErrAddressNotFound)
}

func TestPlaceOrderWithPaymentMethodCreatesPendingPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Teapot", "40.00", 10)
	address := env.seedAddress(t, env.user.ID)
	method, err := env.payments.CreateMethod(ctx, env.user.ID, models.CreatePaymentMethodRequest{
		Type: "credit_card", Provider: "visa",
	})
	require.NoError(t, err)

	env.addToCart(t, product.ID, nil, 2)

	result, err := env.orders.PlaceOrder(ctx, env.user.ID, models.PlaceOrderRequest{
		AddressID:       address.ID,
		PaymentMethodID: &method.ID,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Order.Payment)
	assert.Equal(t, models.PaymentStatusPending, result.Order.Payment.Status)
	assert.True(t, result.Order.Payment.Amount.Equal(result.Order.TotalAmount))
}

func TestCancelRestoresStockAndRefunds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Lamp", "60.00", 6)
	address := env.seedAddress(t, env.user.ID)
	method, err := env.payments.CreateMethod(ctx, env.user.ID, models.CreatePaymentMethodRequest{
		Type: "paypal", Provider: "paypal",
	})
	require.NoError(t, err)

	env.addToCart(t, product.ID, nil, 4)
	result, err := env.orders.PlaceOrder(ctx, env.user.ID, models.PlaceOrderRequest{
		AddressID:       address.ID,
		PaymentMethodID: &method.ID,
	})
	require.NoError(t, err)

	p, _ := env.st.ProductByID(ctx, product.ID)
	require.Equal(t, 2, p.Stock)

	cancelled, err := env.orders.Cancel(ctx, env.actor(), result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)

	p, _ = env.st.ProductByID(ctx, product.ID)
	assert.Equal(t, 6, p.Stock)

	payment, err := env.st.PaymentByOrder(ctx, result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, payment.Status)
}

func TestCancelTwiceRestoresStockOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Rug", "120.00", 3)
	address := env.seedAddress(t, env.user.ID)
	env.addToCart(t, product.ID, nil, 2)

	result, err := env.orders.PlaceOrder(ctx, env.user.ID, models.PlaceOrderRequest{AddressID: address.ID})
	require.NoError(t, err)

	_, err = env.orders.Cancel(ctx, env.actor(), result.Order.ID)
	require.NoError(t, err)

	_, err = env.orders.Cancel(ctx, env.actor(), result.Order.ID)
	require.Error(t, err)
	assert.Equal(t, models.KindInvalidStatus, errKind(err))

	p, _ := env.st.ProductByID(ctx, product.ID)
	assert.Equal(t, 3, p.Stock)
}

func TestCancelDeliveredRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Clock", "45.00", 5)
	address := env.seedAddress(t, env.user.ID)
	env.addToCart(t, product.ID, nil, 1)

	result, err := env.orders.PlaceOrder(ctx, env.user.ID, models.PlaceOrderRequest{AddressID: address.ID})
	require.NoError(t, err)

	_, err = env.orders.SetStatus(ctx, env.adminActor(), result.Order.ID, "delivered")
	require.NoError(t, err)

	_, err = env.orders.Cancel(ctx, env.adminActor(), result.Order.ID)
	require.Error(t, err)
	assert.Equal(t, models.KindInvalidStatus, errKind(err))
}

func TestCancelPaidOrderOwnerForbiddenAdminAllowed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Mirror", "80.00", 4)
	address := env.seedAddress(t, env.user.ID)
	env.addToCart(t, product.ID, nil, 1)

	result, err := env.orders.PlaceOrder(ctx, env.user.ID, models.PlaceOrderRequest{AddressID: address.ID})
	require.NoError(t, err)

	_, err = env.payments.Process(ctx, env.user.ID, models.ProcessPaymentRequest{OrderID: result.Order.ID})
	require.NoError(t, err)

	_, err = env.orders.Cancel(ctx, env.actor(), result.Order.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	cancelled, err := env.orders.Cancel(ctx, env.adminActor(), result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)

	// The completed payment was refunded on the way out.
	payment, err := env.st.PaymentByOrder(ctx, result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, payment.Status)
}

func TestSetStatusRejectsBackwardMove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Chair", "55.00", 5)
	address := env.seedAddress(t, env.user.ID)
	env.addToCart(t, product.ID, nil, 1)

	result, err := env.orders.PlaceOrder(ctx, env.user.ID, models.PlaceOrderRequest{AddressID: address.ID})
	require.NoError(t, err)

	_, err = env.orders.SetStatus(ctx, env.adminActor(), result.Order.ID, "shipped")
	require.NoError(t, err)

	_, err = env.orders.SetStatus(ctx, env.adminActor(), result.Order.ID, "paid")
	require.Error(t, err)
	assert.Equal(t, models.KindInvalidStatus, errKind(err))

	_, err = env.orders.SetStatus(ctx, env.adminActor(), result.Order.ID, "boxed")
	require.Error(t, err)
	assert.Equal(t, models.KindInvalidStatus, errKind(err))

	_, err = env.orders.SetStatus(ctx, env.actor(), result.Order.ID, "delivered")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestListScopesToOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bob := env.st.SeedUser(models.User{Username: "bob", Email: "bob@example.com", Role: models.RoleCustomer})
	product := env.seedProduct(t, "Plate", "12.00", 20)
	address := env.seedAddress(t, env.user.ID)

	env.addToCart(t, product.ID, nil, 1)
	_, err := env.orders.PlaceOrder(ctx, env.user.ID, models.PlaceOrderRequest{AddressID: address.ID})
	require.NoError(t, err)

	bobActor := models.Actor{UserID: bob.ID, Role: bob.Role}
	orders, total, err := env.orders.List(ctx, bobActor, store.OrderFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, orders)

	_, total, err = env.orders.List(ctx, env.adminActor(), store.OrderFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestGetOrderAccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Tray", "18.00", 9)
	address := env.seedAddress(t, env.user.ID)
	env.addToCart(t, product.ID, nil, 2)

	result, err := env.orders.PlaceOrder(ctx, env.user.ID, models.PlaceOrderRequest{AddressID: address.ID})
	require.NoError(t, err)

	order, err := env.orders.Get(ctx, env.actor(), result.Order.ID)
	require.NoError(t, err)
	require.NotNil(t, order.Address)
	assert.Equal(t, address.ID, order.Address.ID)
	assert.Len(t, order.Items, 1)

	bob := env.st.SeedUser(models.User{Username: "bob", Email: "bob@example.com", Role: models.RoleCustomer})
	_, err = env.orders.Get(ctx, models.Actor{UserID: bob.ID, Role: bob.Role}, result.Order.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestDeleteOrderRequiresCancelled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Stool", "22.00", 8)
	address := env.seedAddress(t, env.user.ID)
	env.addToCart(t, product.ID, nil, 1)

	result, err := env.orders.PlaceOrder(ctx, env.user.ID, models.PlaceOrderRequest{AddressID: address.ID})
	require.NoError(t, err)

	err = env.orders.Delete(ctx, env.actor(), result.Order.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	err = env.orders.Delete(ctx, env.adminActor(), result.Order.ID)
	require.Error(t, err)
	assert.Equal(t, models.KindValidation, errKind(err))

	_, err = env.orders.Cancel(ctx, env.adminActor(), result.Order.ID)
	require.NoError(t, err)

	require.NoError(t, env.orders.Delete(ctx, env.adminActor(), result.Order.ID))
	_, err = env.st.OrderByID(ctx, result.Order.ID)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}
