package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

func TestAddItemUpsertsExistingLine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Mug", "10.00", 10)

	first, err := env.carts.AddItem(ctx, env.user.ID, models.AddToCartRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	second, err := env.carts.AddItem(ctx, env.user.ID, models.AddToCartRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	cart, err := env.carts.GetCart(ctx, env.user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.TotalItems)
	assert.True(t, cart.TotalAmount.Equal(mustDecimal(t, "50.00")))
}

func TestAddItemSeparateLinesPerVariant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Shirt", "20.00", 10)
	red := env.seedVariant(t, product.ID, "Red", "0.00", 5)
	blue := env.seedVariant(t, product.ID, "Blue", "1.50", 5)

	_, err := env.carts.AddItem(ctx, env.user.ID, models.AddToCartRequest{ProductID: product.ID, VariantID: &red.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = env.carts.AddItem(ctx, env.user.ID, models.AddToCartRequest{ProductID: product.ID, VariantID: &blue.ID, Quantity: 1})
	require.NoError(t, err)

	cart, err := env.carts.GetCart(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.True(t, cart.TotalAmount.Equal(mustDecimal(t, "41.50")))
}

func TestAddItemStockChecked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Bowl", "8.00", 3)

	_, err := env.carts.AddItem(ctx, env.user.ID, models.AddToCartRequest{ProductID: product.ID, Quantity: 4})
	require.Error(t, err)
	assert.Equal(t, models.KindInsufficientStock, errKind(err))

	// Incrementing past stock is rejected too.
	_, err = env.carts.AddItem(ctx, env.user.ID, models.AddToCartRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = env.carts.AddItem(ctx, env.user.ID, models.AddToCartRequest{ProductID: product.ID, Quantity: 2})
	require.Error(t, err)
	assert.Equal(t, models.KindInsufficientStock, errKind(err))
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Pen", "2.00", 10)

	line, err := env.carts.AddItem(context.Background(), env.user.ID, models.AddToCartRequest{ProductID: product.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)
}

func TestUpdateLineZeroRemoves(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Notebook", "6.00", 10)
	line, err := env.carts.AddItem(ctx, env.user.ID, models.AddToCartRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	updated, err := env.carts.UpdateLine(ctx, env.user.ID, line.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, updated)

	cart, err := env.carts.GetCart(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestUpdateLineStockChecked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Glass", "4.00", 5)
	line, err := env.carts.AddItem(ctx, env.user.ID, models.AddToCartRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = env.carts.UpdateLine(ctx, env.user.ID, line.ID, 6)
	require.Error(t, err)
	assert.Equal(t, models.KindInsufficientStock, errKind(err))

	updated, err := env.carts.UpdateLine(ctx, env.user.ID, line.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)
}

func TestCartLinesAreOwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Fork", "3.00", 10)
	line, err := env.carts.AddItem(ctx, env.user.ID, models.AddToCartRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	bob := env.st.SeedUser(models.User{Username: "bob", Email: "bob@example.com", Role: models.RoleCustomer})
	_, err = env.carts.UpdateLine(ctx, bob.ID, line.ID, 2)
	assert.ErrorIs(t, err, models.ErrCartItemNotFound)
	err = env.carts.RemoveLine(ctx, bob.ID, line.ID)
	assert.ErrorIs(t, err, models.ErrCartItemNotFound)
}

func TestClearCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Spoon", "2.50", 10)
	_, err := env.carts.AddItem(ctx, env.user.ID, models.AddToCartRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	require.NoError(t, env.carts.Clear(ctx, env.user.ID))

	cart, err := env.carts.GetCart(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalItems)
}
