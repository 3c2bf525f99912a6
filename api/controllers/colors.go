package controllers

import (
	"net/http"

	"github.com/ojvaldez/storefront-admin-backend/api/responses"
	"github.com/ojvaldez/storefront-admin-backend/api/validators"
	"github.com/ojvaldez/storefront-admin-backend/internal/colors"
	pkgerrors "github.com/ojvaldez/storefront-admin-backend/pkg/errors"
	"github.com/ojvaldez/storefront-admin-backend/pkg/logger"
)

type colorRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=120"`
	Value string `json:"value" validate:"required,hexcolor"`
}

func (req colorRequest) toInput() colors.ColorInput {
	return colors.ColorInput{Name: req.Name, Value: req.Value}
}

func ColorCreate(svc colors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "color service unavailable"))
			return
		}

		userID, storeID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload colorRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		color, err := svc.Create(r.Context(), userID, storeID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, color)
	}
}

func ColorList(svc colors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "color service unavailable"))
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

func ColorGet(svc colors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "color service unavailable"))
			return
		}

		userID, storeID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		colorID, err := pathUUID(r, "colorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		color, err := svc.Get(r.Context(), userID, storeID, colorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, color)
	}
}

func ColorUpdate(svc colors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "color service unavailable"))
			return
		}

		userID, storeID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		colorID, err := pathUUID(r, "colorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload colorRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		color, err := svc.Update(r.Context(), userID, storeID, colorID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, color)
	}
}

func ColorDelete(svc colors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "color service unavailable"))
			return
		}

		userID, storeID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		colorID, err := pathUUID(r, "colorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		color, err := svc.Delete(r.Context(), userID, storeID, colorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, color)
	}
}
