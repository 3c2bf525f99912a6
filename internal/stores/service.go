package stores

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

type storeRepository interface {
	Create(ctx context.Context, store *models.Store) (*models.Store, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Store, error)
	Update(ctx context.Context, store *models.Store) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes store operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateStoreInput) (*StoreDTO, error)
	Get(ctx context.Context, userID, storeID uuid.UUID) (*StoreDTO, error)
	ListOwned(ctx context.Context, userID uuid.UUID) ([]StoreDTO, error)
	Update(ctx context.Context, userID, storeID uuid.UUID, input UpdateStoreInput) (*StoreDTO, error)
	Delete(ctx context.Context, userID, storeID uuid.UUID) (*StoreDTO, error)
	EnsureOwnership(ctx context.Context, userID, storeID uuid.UUID) (*models.Store, error)
}

type service struct {
	repo storeRepository
}

// NewService builds a store service with the provided repository.
func NewService(repo storeRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo}, nil
}

// CreateStoreInput captures creation-time store data.
type CreateStoreInput struct {
	Name string
}

// UpdateStoreInput captures the allowed store fields for mutation.
type UpdateStoreInput struct {
	Name string
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateStoreInput) (*StoreDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	store, err := s.repo.Create(ctx, &models.Store{Name: name, OwnerID: userID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}
	return FromModel(store), nil
}

func (s *service) Get(ctx context.Context, userID, storeID uuid.UUID) (*StoreDTO, error) {
	store, err := s.EnsureOwnership(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	return FromModel(store), nil
}

func (s *service) ListOwned(ctx context.Context, userID uuid.UUID) ([]StoreDTO, error) {
	stores, err := s.repo.FindByOwner(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	return FromModels(stores), nil
}

func (s *service) Update(ctx context.Context, userID, storeID uuid.UUID, input UpdateStoreInput) (*StoreDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	store, err := s.EnsureOwnership(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}

	store.Name = name
	if err := s.repo.Update(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}
	return FromModel(store), nil
}

func (s *service) Delete(ctx context.Context, userID, storeID uuid.UUID) (*StoreDTO, error) {
	store, err := s.EnsureOwnership(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, storeID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete store")
	}
	return FromModel(store), nil
}

// EnsureOwnership loads the store and verifies the caller owns it. A missing
// store and a store owned by someone else surface as distinct errors.
func (s *service) EnsureOwnership(ctx context.Context, userID, storeID uuid.UUID) (*models.Store, error) {
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if store.OwnerID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store belongs to another user")
	}
	return store, nil
}
