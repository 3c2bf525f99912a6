package controllers

import (
	"net/http"

	"github.com/ojvaldez/storefront-admin-backend/api/responses"
	"github.com/ojvaldez/storefront-admin-backend/api/validators"
	"github.com/ojvaldez/storefront-admin-backend/internal/billboards"
	pkgerrors "github.com/ojvaldez/storefront-admin-backend/pkg/errors"
	"github.com/ojvaldez/storefront-admin-backend/pkg/logger"
)

type billboardRequest struct {
	Label    string `json:"label" validate:"required,min=1,max=160"`
	ImageURL string `json:"imageUrl" validate:"required,url"`
}

func (req billboardRequest) toInput() billboards.BillboardInput {
	return billboards.BillboardInput{Label: req.Label, ImageURL: req.ImageURL}
}

func BillboardCreate(svc billboards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billboard service unavailable"))
			return
		}

		userID, storeID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload billboardRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		billboard, err := svc.Create(r.Context(), userID, storeID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, billboard)
	}
}

func BillboardList(svc billboards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billboard service unavailable"))
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

func BillboardGet(svc billboards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billboard service unavailable"))
			return
		}

		userID, storeID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		billboardID, err := pathUUID(r, "billboardId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		billboard, err := svc.Get(r.Context(), userID, storeID, billboardID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, billboard)
	}
}

func BillboardUpdate(svc billboards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billboard service unavailable"))
			return
		}

		userID, storeID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		billboardID, err := pathUUID(r, "billboardId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload billboardRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		billboard, err := svc.Update(r.Context(), userID, storeID, billboardID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, billboard)
	}
}

func BillboardDelete(svc billboards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billboard service unavailable"))
			return
		}

		userID, storeID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		billboardID, err := pathUUID(r, "billboardId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		billboard, err := svc.Delete(r.Context(), userID, storeID, billboardID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, billboard)
	}
}
