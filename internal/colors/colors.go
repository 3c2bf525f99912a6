package colors

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ojvaldez/storefront-admin-backend/pkg/db/models"
	pkgerrors "github.com/ojvaldez/storefront-admin-backend/pkg/errors"
)

// hexValue matches the canonical stored form, lowercase #rrggbb. Input is
// lowercased before the check so "#FF8800" is accepted and normalized.
var hexValue = regexp.MustCompile(`^#[0-9a-f]{6}$`)

// ColorDTO exposes a color in API responses.
type ColorDTO struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"storeId"`
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ColorInput carries the mutable color fields.
type ColorInput struct {
	Name  string
	Value string
}

func FromModel(m *models.Color) *ColorDTO {
	if m == nil {
		return nil
	}
	return &ColorDTO{
		ID:        m.ID,
		StoreID:   m.StoreID,
		Name:      m.Name,
		Value:     m.Value,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Repository handles color persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, color *models.Color) (*models.Color, error) {
	if color.ID == uuid.Nil {
		color.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(color).Error; err != nil {
		return nil, err
	}
	return color, nil
}

func (r *Repository) FindByID(ctx context.Context, storeID, colorID uuid.UUID) (*models.Color, error) {
	var color models.Color
	if err := r.db.WithContext(ctx).
		First(&color, "id = ? AND store_id = ?", colorID, storeID).Error; err != nil {
		return nil, err
	}
	return &color, nil
}

func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Color, error) {
	var colors []models.Color
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&colors).Error; err != nil {
		return nil, err
	}
	return colors, nil
}

func (r *Repository) Update(ctx context.Context, color *models.Color) error {
	return r.db.WithContext(ctx).Save(color).Error
}

func (r *Repository) Delete(ctx context.Context, colorID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Color{}, "id = ?", colorID).Error
}

// CountProducts returns how many products reference the color.
func (r *Repository) CountProducts(ctx context.Context, colorID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("color_id = ?", colorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type colorRepository interface {
	Create(ctx context.Context, color *models.Color) (*models.Color, error)
	FindByID(ctx context.Context, storeID, colorID uuid.UUID) (*models.Color, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Color, error)
	Update(ctx context.Context, color *models.Color) error
	Delete(ctx context.Context, colorID uuid.UUID) error
	CountProducts(ctx context.Context, colorID uuid.UUID) (int64, error)
}

type storeGuard interface {
	EnsureOwnership(ctx context.Context, userID, storeID uuid.UUID) (*models.Store, error)
}

// Service exposes color operations.
type Service interface {
	Create(ctx context.Context, userID, storeID uuid.UUID, input ColorInput) (*ColorDTO, error)
	Update(ctx context.Context, userID, storeID, colorID uuid.UUID, input ColorInput) (*ColorDTO, error)
	Delete(ctx context.Context, userID, storeID, colorID uuid.UUID) (*ColorDTO, error)
	Get(ctx context.Context, userID, storeID, colorID uuid.UUID) (*ColorDTO, error)
	List(ctx context.Context, userID, storeID uuid.UUID) ([]ColorDTO, error)
}

type service struct {
	repo   colorRepository
	stores storeGuard
}

func NewService(repo colorRepository, stores storeGuard) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("color repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store guard required")
	}
	return &service{repo: repo, stores: stores}, nil
}

// normalizeValue returns the canonical lowercase hex value, or an error when
// the input is not a #rrggbb color.
func normalizeValue(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if !hexValue.MatchString(v) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "value must be a hex color like #1e90ff")
	}
	return v, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	return nil
}

func (s *service) Create(ctx context.Context, userID, storeID uuid.UUID, input ColorInput) (*ColorDTO, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	value, err := normalizeValue(input.Value)
	if err != nil {
		return nil, err
	}
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	color, err := s.repo.Create(ctx, &models.Color{
		StoreID: storeID,
		Name:    strings.TrimSpace(input.Name),
		Value:   value,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create color")
	}
	return FromModel(color), nil
}

func (s *service) Update(ctx context.Context, userID, storeID, colorID uuid.UUID, input ColorInput) (*ColorDTO, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	value, err := normalizeValue(input.Value)
	if err != nil {
		return nil, err
	}
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	color, err := s.find(ctx, storeID, colorID)
	if err != nil {
		return nil, err
	}

	color.Name = strings.TrimSpace(input.Name)
	color.Value = value
	if err := s.repo.Update(ctx, color); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update color")
	}
	return FromModel(color), nil
}

func (s *service) Delete(ctx context.Context, userID, storeID, colorID uuid.UUID) (*ColorDTO, error) {
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	color, err := s.find(ctx, storeID, colorID)
	if err != nil {
		return nil, err
	}

	refs, err := s.repo.CountProducts(ctx, colorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count referencing products")
	}
	if refs > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			"color is used by products; reassign or delete them first").
			WithDetails(map[string]any{"productCount": refs})
	}

	if err := s.repo.Delete(ctx, colorID); err != nil {
		if pkgerrors.IsForeignKeyViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err,
				"color is used by products; reassign or delete them first")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete color")
	}
	return FromModel(color), nil
}

func (s *service) Get(ctx context.Context, userID, storeID, colorID uuid.UUID) (*ColorDTO, error) {
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}
	color, err := s.find(ctx, storeID, colorID)
	if err != nil {
		return nil, err
	}
	return FromModel(color), nil
}

func (s *service) List(ctx context.Context, userID, storeID uuid.UUID) ([]ColorDTO, error) {
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}
	colors, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list colors")
	}
	out := make([]ColorDTO, 0, len(colors))
	for i := range colors {
		out = append(out, *FromModel(&colors[i]))
	}
	return out, nil
}

func (s *service) find(ctx context.Context, storeID, colorID uuid.UUID) (*models.Color, error) {
	color, err := s.repo.FindByID(ctx, storeID, colorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "color not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load color")
	}
	return color, nil
}
