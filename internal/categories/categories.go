package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ojvaldez/storefront-admin-backend/pkg/db/models"
	pkgerrors "github.com/ojvaldez/storefront-admin-backend/pkg/errors"
)

// CategoryDTO exposes a category in API responses, with the billboard label
// flattened in for list views.
type CategoryDTO struct {
	ID             uuid.UUID `json:"id"`
	StoreID        uuid.UUID `json:"storeId"`
	BillboardID    uuid.UUID `json:"billboardId"`
	Name           string    `json:"name"`
	BillboardLabel *string   `json:"billboardLabel,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CategoryInput carries the mutable category fields.
type CategoryInput struct {
	Name        string
	BillboardID uuid.UUID
}

// FromModel maps the persisted category into a DTO.
func FromModel(m *models.Category) *CategoryDTO {
	if m == nil {
		return nil
	}
	dto := &CategoryDTO{
		ID:          m.ID,
		StoreID:     m.StoreID,
		BillboardID: m.BillboardID,
		Name:        m.Name,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Billboard != nil {
		label := m.Billboard.Label
		dto.BillboardLabel = &label
	}
	return dto
}

// Repository handles category persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *Repository) FindByID(ctx context.Context, storeID, categoryID uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).
		Preload("Billboard").
		First(&category, "id = ? AND store_id = ?", categoryID, storeID).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Preload("Billboard").
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *Repository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Omit("Billboard").Save(category).Error
}

func (r *Repository) Delete(ctx context.Context, categoryID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", categoryID).Error
}

// BillboardExists reports whether the billboard lives in the given store.
func (r *Repository) BillboardExists(ctx context.Context, storeID, billboardID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Billboard{}).
		Where("id = ? AND store_id = ?", billboardID, storeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountProducts returns how many products reference the category.
func (r *Repository) CountProducts(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type categoryRepository interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	FindByID(ctx context.Context, storeID, categoryID uuid.UUID) (*models.Category, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, categoryID uuid.UUID) error
	BillboardExists(ctx context.Context, storeID, billboardID uuid.UUID) (bool, error)
	CountProducts(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

type storeGuard interface {
	EnsureOwnership(ctx context.Context, userID, storeID uuid.UUID) (*models.Store, error)
}

// Service exposes category operations.
type Service interface {
	Create(ctx context.Context, userID, storeID uuid.UUID, input CategoryInput) (*CategoryDTO, error)
	Update(ctx context.Context, userID, storeID, categoryID uuid.UUID, input CategoryInput) (*CategoryDTO, error)
	Delete(ctx context.Context, userID, storeID, categoryID uuid.UUID) (*CategoryDTO, error)
	Get(ctx context.Context, userID, storeID, categoryID uuid.UUID) (*CategoryDTO, error)
	List(ctx context.Context, userID, storeID uuid.UUID) ([]CategoryDTO, error)
}

type service struct {
	repo   categoryRepository
	stores storeGuard
}

func NewService(repo categoryRepository, stores storeGuard) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store guard required")
	}
	return &service{repo: repo, stores: stores}, nil
}

func validateInput(input CategoryInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.BillboardID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "billboardId is required")
	}
	return nil
}

// ensureBillboard rejects billboards from other stores up front instead of
// surfacing a raw foreign key failure.
func (s *service) ensureBillboard(ctx context.Context, storeID, billboardID uuid.UUID) error {
	ok, err := s.repo.BillboardExists(ctx, storeID, billboardID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check billboard")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "billboard not found in store")
	}
	return nil
}

func (s *service) Create(ctx context.Context, userID, storeID uuid.UUID, input CategoryInput) (*CategoryDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}
	if err := s.ensureBillboard(ctx, storeID, input.BillboardID); err != nil {
		return nil, err
	}

	category, err := s.repo.Create(ctx, &models.Category{
		StoreID:     storeID,
		BillboardID: input.BillboardID,
		Name:        strings.TrimSpace(input.Name),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return FromModel(category), nil
}

func (s *service) Update(ctx context.Context, userID, storeID, categoryID uuid.UUID, input CategoryInput) (*CategoryDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	category, err := s.find(ctx, storeID, categoryID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureBillboard(ctx, storeID, input.BillboardID); err != nil {
		return nil, err
	}

	category.Name = strings.TrimSpace(input.Name)
	category.BillboardID = input.BillboardID
	category.Billboard = nil
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return s.Get(ctx, userID, storeID, categoryID)
}

func (s *service) Delete(ctx context.Context, userID, storeID, categoryID uuid.UUID) (*CategoryDTO, error) {
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	category, err := s.find(ctx, storeID, categoryID)
	if err != nil {
		return nil, err
	}

	refs, err := s.repo.CountProducts(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count referencing products")
	}
	if refs > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			"category is used by products; reassign or delete them first").
			WithDetails(map[string]any{"productCount": refs})
	}

	if err := s.repo.Delete(ctx, categoryID); err != nil {
		if pkgerrors.IsForeignKeyViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err,
				"category is used by products; reassign or delete them first")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return FromModel(category), nil
}

func (s *service) Get(ctx context.Context, userID, storeID, categoryID uuid.UUID) (*CategoryDTO, error) {
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}
	category, err := s.find(ctx, storeID, categoryID)
	if err != nil {
		return nil, err
	}
	return FromModel(category), nil
}

func (s *service) List(ctx context.Context, userID, storeID uuid.UUID) ([]CategoryDTO, error) {
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}
	categories, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		out = append(out, *FromModel(&categories[i]))
	}
	return out, nil
}

func (s *service) find(ctx context.Context, storeID, categoryID uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, storeID, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}
