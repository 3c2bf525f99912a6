package sizes

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

// SizeDTO exposes a size in API responses.
type SizeDTO struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"storeId"`
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SizeInput carries the mutable size fields.
type SizeInput struct {
	Name  string
	Value string
}

func FromModel(m *models.Size) *SizeDTO {
	if m == nil {
		return nil
	}
	return &SizeDTO{
		ID:        m.ID,
		StoreID:   m.StoreID,
		Name:      m.Name,
		Value:     m.Value,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Repository handles size persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, size *models.Size) (*models.Size, error) {
	if size.ID == uuid.Nil {
		size.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(size).Error; err != nil {
		return nil, err
	}
	return size, nil
}

func (r *Repository) FindByID(ctx context.Context, storeID, sizeID uuid.UUID) (*models.Size, error) {
	var size models.Size
	if err := r.db.WithContext(ctx).
		First(&size, "id = ? AND store_id = ?", sizeID, storeID).Error; err != nil {
		return nil, err
	}
	return &size, nil
}

func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Size, error) {
	var sizes []models.Size
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&sizes).Error; err != nil {
		return nil, err
	}
	return sizes, nil
}

func (r *Repository) Update(ctx context.Context, size *models.Size) error {
	return r.db.WithContext(ctx).Save(size).Error
}

func (r *Repository) Delete(ctx context.Context, sizeID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Size{}, "id = ?", sizeID).Error
}

// CountProducts returns how many products reference the size.
func (r *Repository) CountProducts(ctx context.Context, sizeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("size_id = ?", sizeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type sizeRepository interface {
	Create(ctx context.Context, size *models.Size) (*models.Size, error)
	FindByID(ctx context.Context, storeID, sizeID uuid.UUID) (*models.Size, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Size, error)
	Update(ctx context.Context, size *models.Size) error
	Delete(ctx context.Context, sizeID uuid.UUID) error
	CountProducts(ctx context.Context, sizeID uuid.UUID) (int64, error)
}

type storeGuard interface {
	EnsureOwnership(ctx context.Context, userID, storeID uuid.UUID) (*models.Store, error)
}

// Service exposes size operations.
type Service interface {
	Create(ctx context.Context, userID, storeID uuid.UUID, input SizeInput) (*SizeDTO, error)
	Update(ctx context.Context, userID, storeID, sizeID uuid.UUID, input SizeInput) (*SizeDTO, error)
	Delete(ctx context.Context, userID, storeID, sizeID uuid.UUID) (*SizeDTO, error)
	Get(ctx context.Context, userID, storeID, sizeID uuid.UUID) (*SizeDTO, error)
	List(ctx context.Context, userID, storeID uuid.UUID) ([]SizeDTO, error)
}

type service struct {
	repo   sizeRepository
	stores storeGuard
}

func NewService(repo sizeRepository, stores storeGuard) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("size repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store guard required")
	}
	return &service{repo: repo, stores: stores}, nil
}

func validateInput(input SizeInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Value) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "value is required")
	}
	return nil
}

func (s *service) Create(ctx context.Context, userID, storeID uuid.UUID, input SizeInput) (*SizeDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	size, err := s.repo.Create(ctx, &models.Size{
		StoreID: storeID,
		Name:    strings.TrimSpace(input.Name),
		Value:   strings.TrimSpace(input.Value),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create size")
	}
	return FromModel(size), nil
}

func (s *service) Update(ctx context.Context, userID, storeID, sizeID uuid.UUID, input SizeInput) (*SizeDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	size, err := s.find(ctx, storeID, sizeID)
	if err != nil {
		return nil, err
	}

	size.Name = strings.TrimSpace(input.Name)
	size.Value = strings.TrimSpace(input.Value)
	if err := s.repo.Update(ctx, size); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update size")
	}
	return FromModel(size), nil
}

func (s *service) Delete(ctx context.Context, userID, storeID, sizeID uuid.UUID) (*SizeDTO, error) {
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	size, err := s.find(ctx, storeID, sizeID)
	if err != nil {
		return nil, err
	}

	refs, err := s.repo.CountProducts(ctx, sizeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count referencing products")
	}
	if refs > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			"size is used by products; reassign or delete them first").
			WithDetails(map[string]any{"productCount": refs})
	}

	if err := s.repo.Delete(ctx, sizeID); err != nil {
		if pkgerrors.IsForeignKeyViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err,
				"size is used by products; reassign or delete them first")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete size")
	}
	return FromModel(size), nil
}

func (s *service) Get(ctx context.Context, userID, storeID, sizeID uuid.UUID) (*SizeDTO, error) {
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}
	size, err := s.find(ctx, storeID, sizeID)
	if err != nil {
		return nil, err
	}
	return FromModel(size), nil
}

func (s *service) List(ctx context.Context, userID, storeID uuid.UUID) ([]SizeDTO, error) {
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}
	sizes, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sizes")
	}
	out := make([]SizeDTO, 0, len(sizes))
	for i := range sizes {
		out = append(out, *FromModel(&sizes[i]))
	}
	return out, nil
}

func (s *service) find(ctx context.Context, storeID, sizeID uuid.UUID) (*models.Size, error) {
	size, err := s.repo.FindByID(ctx, storeID, sizeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "size not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load size")
	}
	return size, nil
}
