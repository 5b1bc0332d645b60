package repository

import (
	"context"

	"fyndit/internal/domain/entity"
)

type FavoriteRepository interface {
	Get(ctx context.Context, userID, productID string) (*entity.Favorite, error)
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
	ListByUserID(ctx context.Context, userID string) ([]*entity.Favorite, error)
}
