package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ojvaldez/storefront-admin-backend/api/responses"
	"github.com/ojvaldez/storefront-admin-backend/api/validators"
	"github.com/ojvaldez/storefront-admin-backend/internal/discounts"
	pkgerrors "github.com/ojvaldez/storefront-admin-backend/pkg/errors"
	"github.com/ojvaldez/storefront-admin-backend/pkg/logger"
)

type discountCreateRequest struct {
	Name        string      `json:"name" validate:"required,min=1,max=120"`
	Percentage  float64     `json:"percentage" validate:"gte=0,lte=100"`
	Description *string     `json:"description,omitempty"`
	IsActive    *bool       `json:"isActive,omitempty"`
	ProductIDs  []uuid.UUID `json:"productIds,omitempty"`
}

func (req discountCreateRequest) toInput() discounts.CreateDiscountInput {
	return discounts.CreateDiscountInput{
		Name:        req.Name,
		Percentage:  req.Percentage,
		Description: req.Description,
		IsActive:    req.IsActive,
		ProductIDs:  req.ProductIDs,
	}
}

// discountUpdateRequest replaces every mutable field, so isActive must be
// sent explicitly rather than defaulted.
type discountUpdateRequest struct {
	Name        string      `json:"name" validate:"required,min=1,max=120"`
	Percentage  float64     `json:"percentage" validate:"gte=0,lte=100"`
	Description *string     `json:"description,omitempty"`
	IsActive    *bool       `json:"isActive" validate:"required"`
	ProductIDs  []uuid.UUID `json:"productIds"`
}

func (req discountUpdateRequest) toInput() discounts.UpdateDiscountInput {
	return discounts.UpdateDiscountInput{
		Name:        req.Name,
		Percentage:  req.Percentage,
		Description: req.Description,
		IsActive:    req.IsActive,
		ProductIDs:  req.ProductIDs,
	}
}

type discountProductsRequest struct {
	ProductIDs []uuid.UUID `json:"productIds" validate:"required,min=1"`
}

// DiscountCreate adds a discount to the store, optionally attaching products
// in the same transaction.
func DiscountCreate(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		userID, storeID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload discountCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discount, err := svc.Create(r.Context(), userID, storeID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, discount)
	}
}

// DiscountList returns the store's discounts, newest first, with live
// product counts.
func DiscountList(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		userID, storeID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), userID, storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// DiscountGet returns one discount with its associated products embedded.
func DiscountGet(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		userID, storeID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discountID, err := pathUUID(r, "discountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discount, err := svc.Get(r.Context(), userID, storeID, discountID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, discount)
	}
}

// DiscountUpdate replaces the discount's attributes and association set.
func DiscountUpdate(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		userID, storeID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discountID, err := pathUUID(r, "discountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload discountUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discount, err := svc.Update(r.Context(), userID, storeID, discountID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, discount)
	}
}

// DiscountDelete removes the discount, detaching its products first, and
// returns the deleted record.
func DiscountDelete(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		userID, storeID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discountID, err := pathUUID(r, "discountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discount, err := svc.Delete(r.Context(), userID, storeID, discountID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, discount)
	}
}

// DiscountAttachProducts assigns the listed products to the discount.
// Either every product attaches or none do.
func DiscountAttachProducts(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		userID, storeID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discountID, err := pathUUID(r, "discountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload discountProductsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Attach(r.Context(), userID, storeID, discountID, payload.ProductIDs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discount, err := svc.Get(r.Context(), userID, storeID, discountID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, discount)
	}
}

// DiscountDetachProducts removes the listed products from the discount.
// Products not currently attached are skipped.
func DiscountDetachProducts(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		userID, storeID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discountID, err := pathUUID(r, "discountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload discountProductsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Detach(r.Context(), userID, storeID, discountID, payload.ProductIDs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discount, err := svc.Get(r.Context(), userID, storeID, discountID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, discount)
	}
}
