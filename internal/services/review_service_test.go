package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/store"
)

func TestCreateReviewOncePerProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Mug", "10.00", 10)

	review, err := env.reviews.Create(ctx, env.user.ID, models.CreateReviewRequest{
		ProductID: product.ID, Rating: 4, Comment: "solid",
	})
	require.NoError(t, err)
	assert.False(t, review.VerifiedPurchase)

	_, err = env.reviews.Create(ctx, env.user.ID, models.CreateReviewRequest{
		ProductID: product.ID, Rating: 5,
	})
	assert.ErrorIs(t, err, models.ErrReviewExists)
}

func TestReviewVerifiedPurchaseFromDeliveredOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Teapot", "40.00", 10)
	address := env.seedAddress(t, env.user.ID)
	env.addToCart(t, product.ID, nil, 1)

	result, err := env.orders.PlaceOrder(ctx, env.user.ID, models.PlaceOrderRequest{AddressID: address.ID})
	require.NoError(t, err)
	_, err = env.orders.SetStatus(ctx, env.adminActor(), result.Order.ID, "delivered")
	require.NoError(t, err)

	review, err := env.reviews.Create(ctx, env.user.ID, models.CreateReviewRequest{
		ProductID: product.ID, Rating: 5, Comment: "arrived fast",
	})
	require.NoError(t, err)
	assert.True(t, review.VerifiedPurchase)
}

func TestReviewRequiresExistingProduct(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.reviews.Create(context.Background(), env.user.ID, models.CreateReviewRequest{
		ProductID: 9999, Rating: 3,
	})
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestReviewUpdateAndDeleteOwnerOrAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Bowl", "8.00", 10)
	review, err := env.reviews.Create(ctx, env.user.ID, models.CreateReviewRequest{
		ProductID: product.ID, Rating: 2, Comment: "chipped",
	})
	require.NoError(t, err)

	bob := env.st.SeedUser(models.User{Username: "bob", Email: "bob@example.com", Role: models.RoleCustomer})
	rating := 1
	_, err = env.reviews.Update(ctx, models.Actor{UserID: bob.ID, Role: bob.Role}, review.ID, models.UpdateReviewRequest{Rating: &rating})
	assert.ErrorIs(t, err, models.ErrForbidden)

	rating = 4
	updated, err := env.reviews.Update(ctx, env.actor(), review.ID, models.UpdateReviewRequest{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)

	require.NoError(t, env.reviews.Delete(ctx, env.adminActor(), review.ID))
	_, err = env.reviews.Get(ctx, review.ID)
	assert.ErrorIs(t, err, models.ErrReviewNotFound)
}

func TestReviewSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Lamp", "60.00", 10)

	raters := []struct {
		rating int
	}{{5}, {5}, {3}}
	for i, r := range raters {
		u := env.st.SeedUser(models.User{Username: "rater", Email: "rater@example.com", Role: models.RoleCustomer})
		_, err := env.reviews.Create(ctx, u.ID, models.CreateReviewRequest{ProductID: product.ID, Rating: r.rating})
		require.NoError(t, err, "review %d", i)
	}

	summary, err := env.reviews.Summary(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalReviews)
	assert.InDelta(t, 4.33, summary.AverageRating, 0.01)
	assert.Equal(t, 2, summary.Distribution[5])
	assert.Equal(t, 1, summary.Distribution[3])
}

func TestListReviewsByProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mug := env.seedProduct(t, "Mug", "10.00", 10)
	vase := env.seedProduct(t, "Vase", "30.00", 10)

	_, err := env.reviews.Create(ctx, env.user.ID, models.CreateReviewRequest{ProductID: mug.ID, Rating: 5})
	require.NoError(t, err)
	_, err = env.reviews.Create(ctx, env.user.ID, models.CreateReviewRequest{ProductID: vase.ID, Rating: 2})
	require.NoError(t, err)

	reviews, total, err := env.reviews.List(ctx, store.ReviewFilter{ProductID: &mug.ID, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)
}
