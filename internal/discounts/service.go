package discounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ojvaldez/storefront-admin-backend/pkg/db/models"
	pkgerrors "github.com/ojvaldez/storefront-admin-backend/pkg/errors"
)

type discountRepository interface {
	WithTx(tx *gorm.DB) discountRepository
	Create(ctx context.Context, discount *models.Discount) (*models.Discount, error)
	FindByID(ctx context.Context, storeID, discountID uuid.UUID) (*models.Discount, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Discount, error)
	Update(ctx context.Context, discount *models.Discount) error
	Delete(ctx context.Context, discountID uuid.UUID) error
	ClearProducts(ctx context.Context, discountID uuid.UUID) error
	AssignProducts(ctx context.Context, discountID uuid.UUID, productIDs []uuid.UUID) error
	DetachProducts(ctx context.Context, discountID uuid.UUID, productIDs []uuid.UUID) error
	FindProductIDsInStore(ctx context.Context, storeID uuid.UUID, candidates []uuid.UUID) ([]uuid.UUID, error)
	ListProducts(ctx context.Context, discountID uuid.UUID) ([]models.Product, error)
	ListProductIDs(ctx context.Context, discountID uuid.UUID) ([]uuid.UUID, error)
	CountProductsByDiscount(ctx context.Context, storeID uuid.UUID) (map[uuid.UUID]int64, error)
}

type storeGuard interface {
	EnsureOwnership(ctx context.Context, userID, storeID uuid.UUID) (*models.Store, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes discount record and association operations.
type Service interface {
	Create(ctx context.Context, userID, storeID uuid.UUID, input CreateDiscountInput) (*DiscountDTO, error)
	Update(ctx context.Context, userID, storeID, discountID uuid.UUID, input UpdateDiscountInput) (*DiscountDTO, error)
	Delete(ctx context.Context, userID, storeID, discountID uuid.UUID) (*DiscountDTO, error)
	Get(ctx context.Context, userID, storeID, discountID uuid.UUID) (*DiscountDTO, error)
	List(ctx context.Context, userID, storeID uuid.UUID) ([]DiscountDTO, error)
	Attach(ctx context.Context, userID, storeID, discountID uuid.UUID, productIDs []uuid.UUID) error
	Detach(ctx context.Context, userID, storeID, discountID uuid.UUID, productIDs []uuid.UUID) error
}

type service struct {
	repo   discountRepository
	stores storeGuard
	tx     txRunner
}

// NewService builds a discount service with the provided collaborators.
func NewService(repo discountRepository, stores storeGuard, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("discount repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store guard required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, stores: stores, tx: tx}, nil
}

func validateAttributes(name string, percentage float64) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if percentage < 0 || percentage > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "percentage must be between 0 and 100").
			WithDetails(map[string]any{"percentage": percentage})
	}
	return nil
}

func (s *service) Create(ctx context.Context, userID, storeID uuid.UUID, input CreateDiscountInput) (*DiscountDTO, error) {
	if err := validateAttributes(input.Name, input.Percentage); err != nil {
		return nil, err
	}
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	productIDs := dedupeIDs(input.ProductIDs)

	discount := &models.Discount{
		StoreID:     storeID,
		Name:        strings.TrimSpace(input.Name),
		Percentage:  input.Percentage,
		Description: input.Description,
		IsActive:    isActive,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, discount); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create discount")
		}
		if len(productIDs) == 0 {
			return nil
		}
		if err := s.checkProductsInStore(ctx, repo, storeID, productIDs); err != nil {
			return err
		}
		if err := repo.AssignProducts(ctx, discount.ID, productIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach products")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return FromModel(discount, int64(len(productIDs))), nil
}

// Update fully replaces the discount's attributes and its association set.
// The clear-then-set sequence runs inside one transaction so a failing
// product assignment rolls back the attribute update as well.
func (s *service) Update(ctx context.Context, userID, storeID, discountID uuid.UUID, input UpdateDiscountInput) (*DiscountDTO, error) {
	if err := validateAttributes(input.Name, input.Percentage); err != nil {
		return nil, err
	}
	if input.IsActive == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "isActive is required")
	}
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	discount, err := s.findDiscount(ctx, s.repo, storeID, discountID)
	if err != nil {
		return nil, err
	}

	productIDs := dedupeIDs(input.ProductIDs)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.ClearProducts(ctx, discountID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear product associations")
		}

		discount.Name = strings.TrimSpace(input.Name)
		discount.Percentage = input.Percentage
		discount.Description = input.Description
		discount.IsActive = *input.IsActive
		if err := repo.Update(ctx, discount); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update discount")
		}

		if len(productIDs) == 0 {
			return nil
		}
		if err := s.checkProductsInStore(ctx, repo, storeID, productIDs); err != nil {
			return err
		}
		if err := repo.AssignProducts(ctx, discountID, productIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach products")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return FromModel(discount, int64(len(productIDs))), nil
}

// Delete clears every product back-reference and removes the discount row in
// one transaction, returning the deleted entity's prior attributes.
func (s *service) Delete(ctx context.Context, userID, storeID, discountID uuid.UUID) (*DiscountDTO, error) {
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	discount, err := s.findDiscount(ctx, s.repo, storeID, discountID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.ClearProducts(ctx, discountID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear product associations")
		}
		if err := repo.Delete(ctx, discountID); err != nil {
			if pkgerrors.IsForeignKeyViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err,
					"discount is still referenced by products; detach them before deleting")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete discount")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return FromModel(discount, 0), nil
}

func (s *service) Get(ctx context.Context, userID, storeID, discountID uuid.UUID) (*DiscountDTO, error) {
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	discount, err := s.findDiscount(ctx, s.repo, storeID, discountID)
	if err != nil {
		return nil, err
	}

	products, err := s.repo.ListProducts(ctx, discountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load associated products")
	}

	dto := FromModel(discount, int64(len(products)))
	dto.Products = productDTOs(products)
	return dto, nil
}

// List returns the store's discounts newest first. Product counts are
// computed from the live association set at query time.
func (s *service) List(ctx context.Context, userID, storeID uuid.UUID) ([]DiscountDTO, error) {
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return nil, err
	}

	discounts, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list discounts")
	}

	counts, err := s.repo.CountProductsByDiscount(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count associated products")
	}

	out := make([]DiscountDTO, 0, len(discounts))
	for i := range discounts {
		out = append(out, *FromModel(&discounts[i], counts[discounts[i].ID]))
	}
	return out, nil
}

func (s *service) findDiscount(ctx context.Context, repo discountRepository, storeID, discountID uuid.UUID) (*models.Discount, error) {
	discount, err := repo.FindByID(ctx, storeID, discountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load discount")
	}
	return discount, nil
}

// dedupeIDs drops repeated ids, keeping first-seen order, so the reported
// product count always matches the real association set.
func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
