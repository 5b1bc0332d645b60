package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fyndit/internal/domain/entity"
	"fyndit/internal/domain/repository"
	"fyndit/internal/infrastructure/cache"
	"fyndit/pkg/errors"
	"fyndit/pkg/logger"
)

const productCacheTTL = 5 * time.Minute

// FileStorage is the slice of the storage client the product flows need.
type FileStorage interface {
	DeleteFile(ctx context.Context, fileURL string) error
}

type ProductUseCase struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	storage     FileStorage
	cache       *cache.Cache
}

func NewProductUseCase(
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	storage FileStorage,
	cache *cache.Cache,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		userRepo:    userRepo,
		storage:     storage,
		cache:       cache,
	}
}

type ProductImageInput struct {
	URL   string `json:"url" validate:"required,url"`
	Order int    `json:"order"`
	Alt   string `json:"alt,omitempty"`
}

type CreateProductInput struct {
	Title       string                 `json:"title" validate:"required,min=3,max=120"`
	Description string                 `json:"description" validate:"required,max=5000"`
	Price       float64                `json:"price" validate:"required,gt=0"`
	Currency    string                 `json:"currency"`
	Category    string                 `json:"category" validate:"required"`
	Subcategory string                 `json:"subcategory,omitempty"`
	Condition   string                 `json:"condition" validate:"required"`
	Images      []ProductImageInput    `json:"images" validate:"required,min=1,dive"`
	Location    entity.ProductLocation `json:"location"`
	Tags        []string               `json:"tags,omitempty"`
}

func productCacheKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

func (uc *ProductUseCase) CreateProduct(ctx context.Context, sellerID string, input CreateProductInput) (*entity.Product, error) {
	if _, err := uc.userRepo.GetByID(ctx, sellerID); err != nil {
		return nil, errors.BadRequest("Invalid seller", err)
	}

	if !entity.ValidCategory(input.Category) {
		return nil, errors.BadRequest("Invalid category", nil)
	}
	if !entity.ValidCondition(input.Condition) {
		return nil, errors.BadRequest("Invalid condition", nil)
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	images := make([]entity.ProductImage, len(input.Images))
	for i, img := range input.Images {
		images[i] = entity.ProductImage{
			ID:    uuid.New().String(),
			URL:   img.URL,
			Order: img.Order,
			Alt:   img.Alt,
		}
	}

	product := &entity.Product{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Currency:    currency,
		Category:    input.Category,
		Subcategory: input.Subcategory,
		Condition:   input.Condition,
		Status:      entity.ProductStatusActive,
		SaleStatus:  entity.SaleStatusForSale,
		Images:      images,
		Location:    input.Location,
		SellerID:    sellerID,
		Tags:        input.Tags,
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// GetProduct returns the product when it is visible to viewerID. Inactive
// listings are only visible to their seller. A view by anyone other than
// the seller bumps the advisory view counter in the background.
func (uc *ProductUseCase) GetProduct(ctx context.Context, id, viewerID string) (*entity.Product, error) {
	product, err := uc.getCached(ctx, id)
	if err != nil {
		return nil, err
	}

	if product.Status != entity.ProductStatusActive && product.SellerID != viewerID {
		return nil, errors.NotFound("Product", nil)
	}

	if viewerID != product.SellerID {
		go func(productID string) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := uc.productRepo.IncrementViews(ctx, productID); err != nil {
				logger.Warn("Failed to increment views for product %s: %v", productID, err)
			}
		}(id)
	}

	return product, nil
}

func (uc *ProductUseCase) getCached(ctx context.Context, id string) (*entity.Product, error) {
	key := productCacheKey(id)

	if uc.cache != nil {
		var cached entity.Product
		if uc.cache.GetJSON(ctx, key, &cached) {
			return &cached, nil
		}
	}

	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.SetJSON(ctx, key, product, productCacheTTL)
	}

	return product, nil
}

func (uc *ProductUseCase) UpdateProduct(ctx context.Context, id, sellerID string, input CreateProductInput) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if product.SellerID != sellerID {
		return nil, errors.Forbidden("You don't have permission to update this product", nil)
	}

	if !entity.ValidCategory(input.Category) {
		return nil, errors.BadRequest("Invalid category", nil)
	}
	if !entity.ValidCondition(input.Condition) {
		return nil, errors.BadRequest("Invalid condition", nil)
	}

	// Keep IDs stable for images the seller did not replace.
	existingByURL := make(map[string]string, len(product.Images))
	for _, img := range product.Images {
		existingByURL[img.URL] = img.ID
	}

	images := make([]entity.ProductImage, len(input.Images))
	for i, img := range input.Images {
		imageID, ok := existingByURL[img.URL]
		if !ok {
			imageID = uuid.New().String()
		}
		images[i] = entity.ProductImage{
			ID:    imageID,
			URL:   img.URL,
			Order: img.Order,
			Alt:   img.Alt,
		}
	}

	product.Title = input.Title
	product.Description = input.Description
	product.Price = input.Price
	if input.Currency != "" {
		product.Currency = input.Currency
	}
	product.Category = input.Category
	product.Subcategory = input.Subcategory
	product.Condition = input.Condition
	product.Images = images
	product.Location = input.Location
	product.Tags = input.Tags

	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	uc.invalidate(ctx, id)

	return product, nil
}

// UpdateSaleStatus moves a listing between for-sale, reserved, and sold.
func (uc *ProductUseCase) UpdateSaleStatus(ctx context.Context, id, sellerID, saleStatus string) (*entity.Product, error) {
	if !entity.ValidSaleStatus(saleStatus) {
		return nil, errors.BadRequest("Invalid sale status", nil)
	}

	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if product.SellerID != sellerID {
		return nil, errors.Forbidden("You don't have permission to update this product", nil)
	}

	product.SaleStatus = saleStatus
	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	uc.invalidate(ctx, id)

	return product, nil
}

// DeleteProduct soft-deletes the listing and then cleans up its stored
// images. Image cleanup is best effort; orphaned objects only cost storage.
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, id, sellerID string) error {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if product.SellerID != sellerID {
		return errors.Forbidden("You don't have permission to delete this product", nil)
	}

	product.Status = entity.ProductStatusDeleted
	if err := uc.productRepo.Update(ctx, product); err != nil {
		return err
	}

	uc.invalidate(ctx, id)

	if uc.storage != nil {
		for _, img := range product.Images {
			if err := uc.storage.DeleteFile(ctx, img.URL); err != nil {
				logger.Warn("Failed to delete image %s for product %s: %v", img.URL, id, err)
			}
		}
	}

	return nil
}

// ListMyProducts returns the seller's own listings, all statuses except
// deleted.
func (uc *ProductUseCase) ListMyProducts(ctx context.Context, sellerID string) ([]*entity.Product, error) {
	products, err := uc.productRepo.ListBySellerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	visible := make([]*entity.Product, 0, len(products))
	for _, p := range products {
		if p.Status != entity.ProductStatusDeleted {
			visible = append(visible, p)
		}
	}

	return visible, nil
}

func (uc *ProductUseCase) invalidate(ctx context.Context, id string) {
	if uc.cache != nil {
		uc.cache.Delete(ctx, productCacheKey(id))
	}
}
