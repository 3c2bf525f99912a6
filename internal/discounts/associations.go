package discounts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	pkgerrors "github.com/ojvaldez/storefront-admin-backend/pkg/errors"
)

// Attach points every listed product at the discount. The operation is
// all-or-nothing: when any id fails its precondition, no write happens and
// the error reports every offending id.
func (s *service) Attach(ctx context.Context, userID, storeID, discountID uuid.UUID, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "productIds must not be empty")
	}
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return err
	}
	if _, err := s.findDiscount(ctx, s.repo, storeID, discountID); err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := s.checkProductsInStore(ctx, repo, storeID, productIDs); err != nil {
			return err
		}
		if err := repo.AssignProducts(ctx, discountID, productIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach products")
		}
		return nil
	})
}

// Detach clears the back-reference on the listed products. Products not
// currently carrying this discount are skipped silently.
func (s *service) Detach(ctx context.Context, userID, storeID, discountID uuid.UUID, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "productIds must not be empty")
	}
	if _, err := s.stores.EnsureOwnership(ctx, userID, storeID); err != nil {
		return err
	}
	if _, err := s.findDiscount(ctx, s.repo, storeID, discountID); err != nil {
		return err
	}

	if err := s.repo.DetachProducts(ctx, discountID, productIDs); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "detach products")
	}
	return nil
}

// checkProductsInStore verifies that every candidate id names a product of
// the given store. Violations are collected across the whole batch so the
// caller sees every bad id at once instead of the first one only.
func (s *service) checkProductsInStore(ctx context.Context, repo discountRepository, storeID uuid.UUID, candidates []uuid.UUID) error {
	found, err := repo.FindProductIDsInStore(ctx, storeID, candidates)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify products")
	}

	known := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}

	var violations error
	var missing []string
	for _, id := range candidates {
		if _, ok := known[id]; !ok {
			violations = multierr.Append(violations, fmt.Errorf("product %s not found in store", id))
			missing = append(missing, id.String())
		}
	}
	if violations != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, violations, "one or more products not found in store").
			WithDetails(map[string]any{"missingProductIds": missing})
	}
	return nil
}
