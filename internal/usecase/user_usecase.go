package usecase

import (
	"context"

	"fyndit/internal/domain/entity"
	"fyndit/internal/domain/repository"
	"fyndit/pkg/errors"
)

type UserUseCase struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
}

func NewUserUseCase(userRepo repository.UserRepository, productRepo repository.ProductRepository) *UserUseCase {
	return &UserUseCase{
		userRepo:    userRepo,
		productRepo: productRepo,
	}
}

type UpdateProfileInput struct {
	Username    string
	DisplayName string
	Bio         string
	PhotoURL    string
	PhoneNumber string
	Location    *entity.UserLocation
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}
	return user, nil
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}

	if input.Username != "" && input.Username != user.Username {
		username, err := ValidateUsername(input.Username)
		if err != nil {
			return nil, err
		}
		if existing, err := uc.userRepo.GetByUsername(ctx, username); err == nil && existing != nil && existing.ID != userID {
			return nil, errors.Conflict("Username already taken")
		}
		user.Username = username
	}

	if input.DisplayName != "" {
		user.DisplayName = input.DisplayName
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.PhotoURL != "" {
		user.PhotoURL = input.PhotoURL
	}
	if input.PhoneNumber != "" {
		user.PhoneNumber = input.PhoneNumber
	}
	if input.Location != nil {
		user.Location = input.Location
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Internal("Failed to update profile", err)
	}

	return user, nil
}

// SellerProfile is the public view of a user together with their active
// listings.
type SellerProfile struct {
	User     *entity.User      `json:"user"`
	Products []*entity.Product `json:"products"`
}

func (uc *UserUseCase) GetSellerProfile(ctx context.Context, sellerID string) (*SellerProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		return nil, errors.NotFound("Seller", err)
	}

	// Public view: strip fields the seller did not publish.
	public := *user
	public.Email = ""
	public.PhoneNumber = ""
	public.FavoriteProducts = nil

	products, err := uc.productRepo.ListBySellerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	active := make([]*entity.Product, 0, len(products))
	for _, p := range products {
		if p.Status == entity.ProductStatusActive {
			active = append(active, p)
		}
	}

	return &SellerProfile{
		User:     &public,
		Products: active,
	}, nil
}
