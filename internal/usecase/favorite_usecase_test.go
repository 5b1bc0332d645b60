package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fyndit/internal/domain/entity"
)

func newFavoriteFixture(t *testing.T) (*FavoriteUseCase, *fakeFavoriteRepo, *fakeProductRepo, *fakeUserRepo) {
	t.Helper()

	favRepo := newFakeFavoriteRepo()
	productRepo := newFakeProductRepo()
	userRepo := newFakeUserRepo()

	require.NoError(t, userRepo.Create(context.Background(), &entity.User{
		ID:       "buyer",
		Email:    "buyer@example.com",
		Username: "buyer",
	}))

	return NewFavoriteUseCase(favRepo, productRepo, userRepo), favRepo, productRepo, userRepo
}

func TestToggleFavorite(t *testing.T) {
	uc, _, productRepo, userRepo := newFavoriteFixture(t)
	ctx := context.Background()

	require.NoError(t, productRepo.Create(ctx, &entity.Product{
		ID:       "prod1",
		Title:    "Bike",
		SellerID: "seller",
	}))

	// First toggle adds.
	isFav, err := uc.Toggle(ctx, "buyer", "prod1")
	require.NoError(t, err)
	assert.True(t, isFav)

	got, err := uc.IsFavorite(ctx, "buyer", "prod1")
	require.NoError(t, err)
	assert.True(t, got)

	// The counter and the user's id list follow the relation.
	product, err := productRepo.GetByID(ctx, "prod1")
	require.NoError(t, err)
	assert.Equal(t, 1, product.Favorites)

	user, err := userRepo.GetByID(ctx, "buyer")
	require.NoError(t, err)
	assert.Contains(t, user.FavoriteProducts, "prod1")

	// Second toggle removes; state returns to the original.
	isFav, err = uc.Toggle(ctx, "buyer", "prod1")
	require.NoError(t, err)
	assert.False(t, isFav)

	got, err = uc.IsFavorite(ctx, "buyer", "prod1")
	require.NoError(t, err)
	assert.False(t, got)

	product, err = productRepo.GetByID(ctx, "prod1")
	require.NoError(t, err)
	assert.Equal(t, 0, product.Favorites)

	user, err = userRepo.GetByID(ctx, "buyer")
	require.NoError(t, err)
	assert.NotContains(t, user.FavoriteProducts, "prod1")
}

func TestToggleFavoriteMissingProduct(t *testing.T) {
	uc, _, _, _ := newFavoriteFixture(t)

	_, err := uc.Toggle(context.Background(), "buyer", "nope")
	assert.Error(t, err)
}

func TestListFavoritesSkipsInactive(t *testing.T) {
	uc, favRepo, productRepo, _ := newFavoriteFixture(t)
	ctx := context.Background()

	require.NoError(t, productRepo.Create(ctx, &entity.Product{ID: "active", SellerID: "s"}))
	require.NoError(t, productRepo.Create(ctx, &entity.Product{
		ID:       "paused",
		SellerID: "s",
		Status:   entity.ProductStatusPaused,
	}))

	require.NoError(t, favRepo.Add(ctx, "buyer", "active"))
	require.NoError(t, favRepo.Add(ctx, "buyer", "paused"))
	require.NoError(t, favRepo.Add(ctx, "buyer", "vanished"))

	products, err := uc.ListFavorites(ctx, "buyer")
	require.NoError(t, err)

	// Inactive and missing products are filtered out of the hydrated list.
	require.Len(t, products, 1)
	assert.Equal(t, "active", products[0].ID)

	// The raw id list still carries everything.
	ids, err := uc.ListFavoriteIDs(ctx, "buyer")
	require.NoError(t, err)
	assert.Len(t, ids, 3)
}
