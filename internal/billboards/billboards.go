package billboards

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

// BillboardDTO exposes a billboard in API responses.
type BillboardDTO struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"storeId"`
	Label     string    `json:"label"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BillboardInput carries the mutable billboard fields.
type BillboardInput struct {
	Label    string
	ImageURL string
}

// FromModel maps the persisted billboard into a DTO.
func FromModel(m *models.Billboard) *BillboardDTO {
	if m == nil {
		return nil
	}
	return &BillboardDTO{
		ID:        m.ID,
		StoreID:   m.StoreID,
		Label:     m.Label,
		ImageURL:  m.ImageURL,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Repository handles billboard persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to billboard operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new billboard row.
func (r *Repository) Create(ctx context.Context, billboard *models.Billboard) (*models.Billboard, error) {
	if billboard.ID == uuid.Nil {
		billboard.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(billboard).Error; err != nil {
		return nil, err
	}
	return billboard, nil
}

// FindByID loads a billboard scoped to one store.
func (r *Repository) FindByID(ctx context.Context, storeID, billboardID uuid.UUID) (*models.Billboard, error) {
	var billboard models.Billboard
	if err := r.db.WithContext(ctx).
		First(&billboard, "id = ? AND store_id = ?", billboardID, storeID).Error; err != nil {
		return nil, err
	}
	return &billboard, nil
}

// ListByStore returns the store's billboards, newest first.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Billboard, error) {
	var billboards []models.Billboard
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&billboards).Error; err != nil {
		return nil, err
	}
	return billboards, nil
}

// Update saves the provided billboard.
func (r *Repository) Update(ctx context.Context, billboard *models.Billboard) error {
	return r.db.WithContext(ctx).Save(billboard).Error
}

// Delete removes the billboard row. Referencing categories block the delete
// at the database level.
func (r *Repository) Delete(ctx context.Context, billboardID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Billboard{}, "id = ?", billboardID).Error
}

// CountCategories returns how many categories reference the billboard.
func (r *Repository) CountCategories(ctx context.Context, billboardID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("billboard_id = ?", billboardID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type billboardRepository interface {
	Create(ctx context.Context, billboard *models.Billboard) (*models.Billboard, error)
	FindByID(ctx context.Context, storeID, billboardID uuid.UUID) (*models.Billboard, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Billboard, error)
	Update(ctx context.Context, billboard *models.Billboard) error
	Delete(ctx context.Context, billboardID uuid.UUID) error
	CountCategories(ctx context.Context, billboardID uuid.UUID) (int64, error)
}

type storeGuard interface {
	EnsureOwnership(ctx context.Context, userID, storeID uuid.UUID) (*models.Store, error)
}

// Service exposes billboard operations.
type Service interface {
	Create(ctx context.Context, userID, storeID uuid.UUID, input BillboardInput) (*BillboardDTO, error)
	Update(ctx context.Context, userID, storeID, billboardID uuid.UUID, input BillboardInput) (*BillboardDTO, error)
	Delete(ctx context.Context, userID, storeID, billboardID uuid.UUID) (*BillboardDTO, error)
	Get(ctx context.Context, userID, storeID, billboardID uuid.UUID) (*BillboardDTO, error)
	List(ctx context.Context, userID, storeID uuid.UUID) ([]BillboardDTO, error)
}

type service struct {
	repo   billboardRepository
	stores storeGuard
}

// NewService builds a billboard service.
func NewService(repo billboardRepository, stores storeGuard) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("billboard repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store guard required")
	}
	return &service{repo: repo, stores: stores}, nil
}

func validateInput(input BillboardInput) error {
	if strings.TrimSpace(input.Label) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "label is required")
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "imageUrl is required")
	}
	return nil
}

func (s *service) Create(ctx context.Context, userID, storeID uuid.UUID, input BillboardInput) (*BillboardDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	billboard, err := s.repo.Create(ctx, &models.Billboard{
		StoreID:  storeID,
		Label:    strings.TrimSpace(input.Label),
		ImageURL: strings.TrimSpace(input.ImageURL),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create billboard")
	}
	return FromModel(billboard), nil
}

func (s *service) Update(ctx context.Context, userID, storeID, billboardID uuid.UUID, input BillboardInput) (*BillboardDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	billboard, err := s.find(ctx, storeID, billboardID)
	if err != nil {
		return nil, err
	}

	billboard.Label = strings.TrimSpace(input.Label)
	billboard.ImageURL = strings.TrimSpace(input.ImageURL)
	if err := s.repo.Update(ctx, billboard); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update billboard")
	}
	return FromModel(billboard), nil
}

// Delete refuses to remove a billboard that categories still point at, with
// a message naming the fix.
func (s *service) Delete(ctx context.Context, userID, storeID, billboardID uuid.UUID) (*BillboardDTO, error) {
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	billboard, err := s.find(ctx, storeID, billboardID)
	if err != nil {
		return nil, err
	}

	refs, err := s.repo.CountCategories(ctx, billboardID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count referencing categories")
	}
	if refs > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			"billboard is used by categories; remove or repoint them first").
			WithDetails(map[string]any{"categoryCount": refs})
	}

	if err := s.repo.Delete(ctx, billboardID); err != nil {
		if pkgerrors.IsForeignKeyViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err,
				"billboard is used by categories; remove or repoint them first")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete billboard")
	}
	return FromModel(billboard), nil
}

func (s *service) Get(ctx context.Context, userID, storeID, billboardID uuid.UUID) (*BillboardDTO, error) {
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}
	billboard, err := s.find(ctx, storeID, billboardID)
	if err != nil {
		return nil, err
	}
	return FromModel(billboard), nil
}

func (s *service) List(ctx context.Context, userID, storeID uuid.UUID) ([]BillboardDTO, error) {
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}
	billboards, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list billboards")
	}
	out := make([]BillboardDTO, 0, len(billboards))
	for i := range billboards {
		out = append(out, *FromModel(&billboards[i]))
	}
	return out, nil
}

func (s *service) find(ctx context.Context, storeID, billboardID uuid.UUID) (*models.Billboard, error) {
	billboard, err := s.repo.FindByID(ctx, storeID, billboardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "billboard not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load billboard")
	}
	return billboard, nil
}
