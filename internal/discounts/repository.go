package discounts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ojvaldez/storefront-admin-backend/pkg/db/models"
)

// Repository handles discount persistence and the product back-references
// that tie a discount to its product set.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to discount operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) discountRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new discount row.
func (r *Repository) Create(ctx context.Context, discount *models.Discount) (*models.Discount, error) {
	if discount == nil {
		return nil, fmt.Errorf("discount is required")
	}
	if discount.ID == uuid.Nil {
		discount.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(discount).Error; err != nil {
		return nil, err
	}
	return discount, nil
}

// FindByID loads a discount scoped to one store.
func (r *Repository) FindByID(ctx context.Context, storeID, discountID uuid.UUID) (*models.Discount, error) {
	var discount models.Discount
	if err := r.db.WithContext(ctx).
		First(&discount, "id = ? AND store_id = ?", discountID, storeID).Error; err != nil {
		return nil, err
	}
	return &discount, nil
}

// ListByStore returns all discounts for the store, newest first.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Discount, error) {
	var discounts []models.Discount
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&discounts).Error; err != nil {
		return nil, err
	}
	return discounts, nil
}

// Update saves the provided discount.
func (r *Repository) Update(ctx context.Context, discount *models.Discount) error {
	if discount == nil {
		return fmt.Errorf("discount is required")
	}
	return r.db.WithContext(ctx).Save(discount).Error
}

// Delete removes the discount row.
func (r *Repository) Delete(ctx context.Context, discountID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Discount{}, "id = ?", discountID).Error
}

// ClearProducts detaches every product currently pointing at the discount.
func (r *Repository) ClearProducts(ctx context.Context, discountID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("discount_id = ?", discountID).
		Update("discount_id", nil).Error
}

// AssignProducts points the given products at the discount. Callers are
// responsible for validating that the ids belong to the discount's store.
func (r *Repository) AssignProducts(ctx context.Context, discountID uuid.UUID, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id IN ?", productIDs).
		Update("discount_id", discountID).Error
}

// DetachProducts clears the back-reference on the given products, but only
// where they actually point at this discount.
func (r *Repository) DetachProducts(ctx context.Context, discountID uuid.UUID, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("discount_id = ? AND id IN ?", discountID, productIDs).
		Update("discount_id", nil).Error
}

// FindProductIDsInStore returns the subset of candidate ids that exist as
// products of the given store.
func (r *Repository) FindProductIDsInStore(ctx context.Context, storeID uuid.UUID, candidates []uuid.UUID) ([]uuid.UUID, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("store_id = ? AND id IN ?", storeID, candidates).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListProducts returns the products currently attached to the discount.
func (r *Repository) ListProducts(ctx context.Context, discountID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("discount_id = ?", discountID).
		Order("created_at ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListProductIDs returns the ids of products currently attached to the discount.
func (r *Repository) ListProductIDs(ctx context.Context, discountID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("discount_id = ?", discountID).
		Order("created_at ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// CountProductsByDiscount returns live attachment counts per discount for one store.
func (r *Repository) CountProductsByDiscount(ctx context.Context, storeID uuid.UUID) (map[uuid.UUID]int64, error) {
	type row struct {
		DiscountID uuid.UUID
		Count      int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("discount_id, COUNT(*) AS count").
		Where("store_id = ? AND discount_id IS NOT NULL", storeID).
		Group("discount_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.DiscountID] = r.Count
	}
	return counts, nil
}
