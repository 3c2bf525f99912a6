package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ojvaldez/storefront-admin-backend/api/responses"
	"github.com/ojvaldez/storefront-admin-backend/api/validators"
	"github.com/ojvaldez/storefront-admin-backend/internal/products"
	pkgerrors "github.com/ojvaldez/storefront-admin-backend/pkg/errors"
	"github.com/ojvaldez/storefront-admin-backend/pkg/logger"
	"github.com/ojvaldez/storefront-admin-backend/pkg/pagination"
)

type productCreateRequest struct {
	Name       string          `json:"name" validate:"required,min=1,max=160"`
	Price      decimal.Decimal `json:"price"`
	CategoryID uuid.UUID       `json:"categoryId" validate:"required"`
	SizeID     uuid.UUID       `json:"sizeId" validate:"required"`
	ColorID    uuid.UUID       `json:"colorId" validate:"required"`
	ImageURLs  []string        `json:"imageUrls" validate:"required,min=1,dive,url"`
	IsFeatured bool            `json:"isFeatured"`
	IsArchived bool            `json:"isArchived"`
}

func (req productCreateRequest) toInput() products.CreateProductInput {
	return products.CreateProductInput{
		Name:       req.Name,
		Price:      req.Price,
		CategoryID: req.CategoryID,
		SizeID:     req.SizeID,
		ColorID:    req.ColorID,
		ImageURLs:  req.ImageURLs,
		IsFeatured: req.IsFeatured,
		IsArchived: req.IsArchived,
	}
}

// productUpdateRequest replaces every mutable field, so the boolean flags
// must be sent explicitly.
type productUpdateRequest struct {
	Name       string          `json:"name" validate:"required,min=1,max=160"`
	Price      decimal.Decimal `json:"price"`
	CategoryID uuid.UUID       `json:"categoryId" validate:"required"`
	SizeID     uuid.UUID       `json:"sizeId" validate:"required"`
	ColorID    uuid.UUID       `json:"colorId" validate:"required"`
	ImageURLs  []string        `json:"imageUrls" validate:"required,min=1,dive,url"`
	IsFeatured *bool           `json:"isFeatured" validate:"required"`
	IsArchived *bool           `json:"isArchived" validate:"required"`
}

func (req productUpdateRequest) toInput() products.UpdateProductInput {
	return products.UpdateProductInput{
		Name:       req.Name,
		Price:      req.Price,
		CategoryID: req.CategoryID,
		SizeID:     req.SizeID,
		ColorID:    req.ColorID,
		ImageURLs:  req.ImageURLs,
		IsFeatured: req.IsFeatured,
		IsArchived: req.IsArchived,
	}
}

// ProductCreate adds a product with its ordered image set.
func ProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		userID, storeID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), userID, storeID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductList returns a filtered, cursor-paginated product page.
func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		userID, storeID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		isFeatured, _ := validators.ParseQueryBool(r, "isFeatured")
		isArchived, _ := validators.ParseQueryBool(r, "isArchived")
		limit, _ := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		input := products.ListInput{
			Filters: products.ListFilters{
				IsFeatured: isFeatured,
				IsArchived: isArchived,
			},
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: r.URL.Query().Get("cursor"),
			},
		}
		if id, _ := validators.ParseQueryUUID(r, "categoryId"); id != uuid.Nil {
			input.Filters.CategoryID = &id
		}
		if id, _ := validators.ParseQueryUUID(r, "sizeId"); id != uuid.Nil {
			input.Filters.SizeID = &id
		}
		if id, _ := validators.ParseQueryUUID(r, "colorId"); id != uuid.Nil {
			input.Filters.ColorID = &id
		}
		if id, _ := validators.ParseQueryUUID(r, "discountId"); id != uuid.Nil {
			input.Filters.DiscountID = &id
		}

		page, err := svc.List(r.Context(), userID, storeID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// ProductGet returns one product with images and attribute names embedded.
func ProductGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		userID, storeID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), userID, storeID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductUpdate replaces the product's attributes and image set.
func ProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		userID, storeID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), userID, storeID, productID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductDelete removes the product and returns the deleted record.
func ProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		userID, storeID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Delete(r.Context(), userID, storeID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}
