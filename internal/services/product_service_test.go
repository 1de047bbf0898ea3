package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/store"
)

func TestCreateProductRequiresExistingCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	missing := int64(9999)
	_, err := env.products.Create(ctx, models.CreateProductRequest{
		Name: "Mug", BasePrice: mustDecimal(t, "10.00"), CategoryID: &missing,
	})
	assert.ErrorIs(t, err, models.ErrCategoryNotFound)

	categories := NewCategoryService(env.st)
	category, err := categories.Create(ctx, models.CreateCategoryRequest{Name: "Ceramics"})
	require.NoError(t, err)

	product, err := env.products.Create(ctx, models.CreateProductRequest{
		Name: "Mug", BasePrice: mustDecimal(t, "10.00"), CategoryID: &category.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, product.CategoryID)
	assert.Equal(t, category.ID, *product.CategoryID)
}

func TestUpdateProductMergesFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Mug", "10.00", 5)

	price := mustDecimal(t, "12.50")
	updated, err := env.products.Update(ctx, product.ID, models.UpdateProductRequest{BasePrice: &price})
	require.NoError(t, err)

	assert.True(t, updated.BasePrice.Equal(price))
	assert.Equal(t, "Mug", updated.Name)
	assert.Equal(t, 5, updated.Stock)
}

func TestListProductsFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	categories := NewCategoryService(env.st)
	pottery, err := categories.Create(ctx, models.CreateCategoryRequest{Name: "Pottery"})
	require.NoError(t, err)

	_, err = env.products.Create(ctx, models.CreateProductRequest{
		Name: "Glazed Bowl", BasePrice: mustDecimal(t, "18.00"), CategoryID: &pottery.ID,
	})
	require.NoError(t, err)
	env.seedProduct(t, "Wool Scarf", "25.00", 10)

	byCategory, total, err := env.products.List(ctx, store.ProductFilter{CategoryID: &pottery.ID, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Glazed Bowl", byCategory[0].Name)

	bySearch, total, err := env.products.List(ctx, store.ProductFilter{Search: "scarf", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Wool Scarf", bySearch[0].Name)
}

func TestVariantLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Shirt", "20.00", 0)

	variant, err := env.products.CreateVariant(ctx, product.ID, models.CreateVariantRequest{
		Name: "Small", SKU: "SHIRT-S", PriceModifier: mustDecimal(t, "-2.00"), Stock: 4,
	})
	require.NoError(t, err)
	assert.True(t, variant.UnitPrice(product.BasePrice).Equal(mustDecimal(t, "18.00")))

	stock := 7
	updated, err := env.products.UpdateVariant(ctx, variant.ID, models.UpdateVariantRequest{Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Stock)

	require.NoError(t, env.products.DeleteVariant(ctx, variant.ID))
	_, err = env.st.VariantByID(ctx, variant.ID)
	assert.ErrorIs(t, err, models.ErrVariantNotFound)
}

func TestCreateVariantRequiresProduct(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.products.CreateVariant(context.Background(), 9999, models.CreateVariantRequest{
		Name: "Small", SKU: "X-S",
	})
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}
