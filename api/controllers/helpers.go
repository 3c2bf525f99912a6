package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ojvaldez/storefront-admin-backend/api/middleware"
	pkgerrors "github.com/ojvaldez/storefront-admin-backend/pkg/errors"
)

// userIDFrom extracts the authenticated user from the request context.
func userIDFrom(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

// requestScope extracts the authenticated user and the store path scope.
func requestScope(r *http.Request) (userID, storeID uuid.UUID, err error) {
	userID, err = userIDFrom(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	raw := middleware.StoreIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	storeID, err = uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id")
	}
	return userID, storeID, nil
}

// pathUUID parses a UUID route parameter, naming the parameter in the error.
func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, param))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, param+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, param+" must be a UUID")
	}
	return id, nil
}
