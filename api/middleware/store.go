package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ojvaldez/storefront-admin-backend/api/responses"
	pkgerrors "github.com/ojvaldez/storefront-admin-backend/pkg/errors"
	"github.com/ojvaldez/storefront-admin-backend/pkg/logger"
)

// StoreContext resolves the {storeId} route parameter and seeds the request context.
// Ownership is checked by the services, not here.
func StoreContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := chi.URLParam(r, "storeId")
			storeID, err := uuid.Parse(raw)
			if err != nil || storeID == uuid.Nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "storeId must be a UUID"))
				return
			}

			ctx := WithStoreID(r.Context(), storeID.String())
			if logg != nil {
				ctx = logg.WithStoreID(ctx, storeID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
