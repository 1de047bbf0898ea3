package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/store"
)

func TestRunTxRollsBackOnError(t *testing.T) {
	st := New()
	ctx := context.Background()

	product := &models.Product{Name: "Mug", BasePrice: decimal.NewFromInt(10), Stock: 5}
	require.NoError(t, st.CreateProduct(ctx, product))

	boom := errors.New("boom")
	err := st.RunTx(ctx, func(tx store.Store) error {
		if err := tx.ApplyStockDelta(ctx, product.ID, nil, -3); err != nil {
			return err
		}
		created := &models.Product{Name: "Vase", BasePrice: decimal.NewFromInt(30), Stock: 1}
		if err := tx.CreateProduct(ctx, created); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Both writes were rolled back.
	p, err := st.ProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)

	_, total, err := st.Products(ctx, store.ProductFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestRunTxCommits(t *testing.T) {
	st := New()
	ctx := context.Background()

	product := &models.Product{Name: "Mug", BasePrice: decimal.NewFromInt(10), Stock: 5}
	require.NoError(t, st.CreateProduct(ctx, product))

	err := st.RunTx(ctx, func(tx store.Store) error {
		return tx.ApplyStockDelta(ctx, product.ID, nil, -2)
	})
	require.NoError(t, err)

	p, err := st.ProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)
}

func TestApplyStockDeltaNeverNegative(t *testing.T) {
	st := New()
	ctx := context.Background()

	product := &models.Product{Name: "Mug", BasePrice: decimal.NewFromInt(10), Stock: 2}
	require.NoError(t, st.CreateProduct(ctx, product))

	err := st.ApplyStockDelta(ctx, product.ID, nil, -3)
	require.Error(t, err)

	p, err := st.ProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)
}

func TestCartCreatedLazilyOncePerUser(t *testing.T) {
	st := New()
	ctx := context.Background()

	u := st.SeedUser(models.User{Username: "alice", Email: "alice@example.com", Role: models.RoleCustomer})

	first, err := st.CartByUser(ctx, u.ID)
	require.NoError(t, err)
	second, err := st.CartByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
