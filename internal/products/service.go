package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ojvaldez/storefront-admin-backend/pkg/db/models"
	pkgerrors "github.com/ojvaldez/storefront-admin-backend/pkg/errors"
	"github.com/ojvaldez/storefront-admin-backend/pkg/pagination"
)

type productRepository interface {
	WithTx(tx *gorm.DB) productRepository
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	ReplaceImages(ctx context.Context, productID uuid.UUID, images []models.ProductImage) error
	Delete(ctx context.Context, productID uuid.UUID) error
	List(ctx context.Context, storeID uuid.UUID, input ListInput) ([]models.Product, error)
}

type storeGuard interface {
	EnsureOwnership(ctx context.Context, userID, storeID uuid.UUID) (*models.Store, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes product operations.
type Service interface {
	Create(ctx context.Context, userID, storeID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, userID, storeID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, userID, storeID, productID uuid.UUID) (*ProductDTO, error)
	Get(ctx context.Context, userID, storeID, productID uuid.UUID) (*ProductDTO, error)
	List(ctx context.Context, userID, storeID uuid.UUID, input ListInput) (*ProductPage, error)
}

type service struct {
	repo   productRepository
	stores storeGuard
	tx     txRunner
}

// NewService builds a product service with the provided collaborators.
func NewService(repo productRepository, stores storeGuard, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store guard required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, stores: stores, tx: tx}, nil
}

func validateProduct(name string, price decimal.Decimal, categoryID, sizeID, colorID uuid.UUID, imageURLs []string) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if categoryID == uuid.Nil || sizeID == uuid.Nil || colorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "categoryId, sizeId and colorId are required")
	}
	if len(imageURLs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one image is required")
	}
	for _, url := range imageURLs {
		if strings.TrimSpace(url) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "image urls must not be empty")
		}
	}
	return nil
}

func imagesFromURLs(urls []string) []models.ProductImage {
	images := make([]models.ProductImage, 0, len(urls))
	for i, url := range urls {
		images = append(images, models.ProductImage{URL: url, Position: i})
	}
	return images
}

func (s *service) Create(ctx context.Context, userID, storeID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if err := validateProduct(input.Name, input.Price, input.CategoryID, input.SizeID, input.ColorID, input.ImageURLs); err != nil {
		return nil, err
	}
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	product := &models.Product{
		StoreID:    storeID,
		CategoryID: input.CategoryID,
		SizeID:     input.SizeID,
		ColorID:    input.ColorID,
		Name:       strings.TrimSpace(input.Name),
		Price:      input.Price,
		IsFeatured: input.IsFeatured,
		IsArchived: input.IsArchived,
		Images:     imagesFromURLs(input.ImageURLs),
	}

	if _, err := s.repo.Create(ctx, product); err != nil {
		if pkgerrors.IsForeignKeyViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "referenced category, size or color does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return FromModel(product), nil
}

// Update fully replaces the product's attributes and its image set inside
// one transaction.
func (s *service) Update(ctx context.Context, userID, storeID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if err := validateProduct(input.Name, input.Price, input.CategoryID, input.SizeID, input.ColorID, input.ImageURLs); err != nil {
		return nil, err
	}
	if input.IsFeatured == nil || input.IsArchived == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "isFeatured and isArchived are required")
	}
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	product, err := s.findProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product.Name = strings.TrimSpace(input.Name)
		product.Price = input.Price
		product.CategoryID = input.CategoryID
		product.SizeID = input.SizeID
		product.ColorID = input.ColorID
		product.IsFeatured = *input.IsFeatured
		product.IsArchived = *input.IsArchived
		product.Images = nil
		if err := repo.Update(ctx, product); err != nil {
			if pkgerrors.IsForeignKeyViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "referenced category, size or color does not exist")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
		}
		if err := repo.ReplaceImages(ctx, productID, imagesFromURLs(input.ImageURLs)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace images")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, storeID, productID)
}

// Delete removes the product and returns its prior attributes.
func (s *service) Delete(ctx context.Context, userID, storeID, productID uuid.UUID) (*ProductDTO, error) {
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	product, err := s.findProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return FromModel(product), nil
}

func (s *service) Get(ctx context.Context, userID, storeID, productID uuid.UUID) (*ProductDTO, error) {
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	product, err := s.findProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

// List returns one cursor page of products, newest first.
func (s *service) List(ctx context.Context, userID, storeID uuid.UUID, input ListInput) (*ProductPage, error) {
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	if _, err := pagination.ParseCursor(input.Pagination.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, storeID, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	page := &ProductPage{Items: make([]ProductDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		page.Items = append(page.Items, *FromModel(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}

func (s *service) findProduct(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, storeID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
