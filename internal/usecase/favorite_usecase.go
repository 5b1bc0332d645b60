package usecase

import (
	"context"

	"fyndit/internal/domain/entity"
	"fyndit/internal/domain/repository"
	"fyndit/pkg/errors"
	"fyndit/pkg/logger"
)

type FavoriteUseCase struct {
	favoriteRepo repository.FavoriteRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
}

func NewFavoriteUseCase(
	favoriteRepo repository.FavoriteRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) *FavoriteUseCase {
	return &FavoriteUseCase{
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
	}
}

// Toggle flips the favorite relation and returns the resulting state. The
// relation write must succeed; the product counter and the user's
// denormalized id list are separate best-effort writes that may drift.
func (uc *FavoriteUseCase) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}
	if product.Status != entity.ProductStatusActive {
		return false, errors.NotFound("Product", nil)
	}

	_, err = uc.favoriteRepo.Get(ctx, userID, productID)
	switch {
	case err == nil:
		if err := uc.favoriteRepo.Remove(ctx, userID, productID); err != nil {
			return true, err
		}
		uc.afterToggle(ctx, userID, productID, false)
		return false, nil

	case errors.Is(err, "NOT_FOUND"):
		if err := uc.favoriteRepo.Add(ctx, userID, productID); err != nil {
			return false, err
		}
		uc.afterToggle(ctx, userID, productID, true)
		return true, nil

	default:
		return false, err
	}
}

func (uc *FavoriteUseCase) afterToggle(ctx context.Context, userID, productID string, added bool) {
	delta := -1
	if added {
		delta = 1
	}
	if err := uc.productRepo.IncrementFavorites(ctx, productID, delta); err != nil {
		logger.Warn("Failed to adjust favorite counter for product %s: %v", productID, err)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Warn("Failed to load user %s for favorite list sync: %v", userID, err)
		return
	}

	ids := make([]string, 0, len(user.FavoriteProducts)+1)
	for _, id := range user.FavoriteProducts {
		if id != productID {
			ids = append(ids, id)
		}
	}
	if added {
		ids = append(ids, productID)
	}
	user.FavoriteProducts = ids

	if err := uc.userRepo.Update(ctx, user); err != nil {
		logger.Warn("Failed to sync favorite list for user %s: %v", userID, err)
	}
}

func (uc *FavoriteUseCase) IsFavorite(ctx context.Context, userID, productID string) (bool, error) {
	_, err := uc.favoriteRepo.Get(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListFavorites hydrates the user's favorite relations into products,
// dropping any product that no longer exists or is no longer active. One
// fetch per relation; favorites lists are small.
func (uc *FavoriteUseCase) ListFavorites(ctx context.Context, userID string) ([]*entity.Product, error) {
	favorites, err := uc.favoriteRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	products := make([]*entity.Product, 0, len(favorites))
	for _, fav := range favorites {
		product, err := uc.productRepo.GetByID(ctx, fav.ProductID)
		if err != nil {
			if errors.Is(err, "NOT_FOUND") {
				continue
			}
			return nil, err
		}
		if product.Status != entity.ProductStatusActive {
			continue
		}
		products = append(products, product)
	}

	return products, nil
}

// ListFavoriteIDs returns just the favorited product ids, newest first.
func (uc *FavoriteUseCase) ListFavoriteIDs(ctx context.Context, userID string) ([]string, error) {
	favorites, err := uc.favoriteRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(favorites))
	for _, fav := range favorites {
		ids = append(ids, fav.ProductID)
	}
	return ids, nil
}
