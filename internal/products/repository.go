package products

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ojvaldez/storefront-admin-backend/pkg/db/models"
	"github.com/ojvaldez/storefront-admin-backend/pkg/pagination"
)

// Repository handles product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to product operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) productRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new product row together with its images.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product == nil {
		return nil, fmt.Errorf("product is required")
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	for i := range product.Images {
		if product.Images[i].ID == uuid.Nil {
			product.Images[i].ID = uuid.New()
		}
		product.Images[i].ProductID = product.ID
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads a product scoped to one store, with its relations preloaded.
func (r *Repository) FindByID(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Category").
		Preload("Size").
		Preload("Color").
		First(&product, "id = ? AND store_id = ?", productID, storeID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Update saves the product attributes without touching associations.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	if product == nil {
		return fmt.Errorf("product is required")
	}
	return r.db.WithContext(ctx).Omit("Images", "Category", "Size", "Color").Save(product).Error
}

// ReplaceImages swaps the product's image set for the provided one.
func (r *Repository) ReplaceImages(ctx context.Context, productID uuid.UUID, images []models.ProductImage) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		if images[i].ID == uuid.Nil {
			images[i].ID = uuid.New()
		}
		images[i].ProductID = productID
	}
	return tx.Create(&images).Error
}

// Delete removes the product row. Images cascade at the database level, but
// the rows are removed explicitly as well so sqlite-backed tests agree.
func (r *Repository) Delete(ctx context.Context, productID uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Product{}, "id = ?", productID).Error
}

// List returns one page of the store's products, newest first, applying the
// provided filters and cursor.
func (r *Repository) List(ctx context.Context, storeID uuid.UUID, input ListInput) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Category").
		Preload("Size").
		Preload("Color").
		Where("store_id = ?", storeID)

	f := input.Filters
	if f.CategoryID != nil {
		query = query.Where("category_id = ?", *f.CategoryID)
	}
	if f.SizeID != nil {
		query = query.Where("size_id = ?", *f.SizeID)
	}
	if f.ColorID != nil {
		query = query.Where("color_id = ?", *f.ColorID)
	}
	if f.DiscountID != nil {
		query = query.Where("discount_id = ?", *f.DiscountID)
	}
	if f.IsFeatured != nil {
		query = query.Where("is_featured = ?", *f.IsFeatured)
	}
	if f.IsArchived != nil {
		query = query.Where("is_archived = ?", *f.IsArchived)
	}

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Product
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(input.Pagination.Limit)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
