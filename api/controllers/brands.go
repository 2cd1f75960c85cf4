package controllers

import (
	"net/http"

	"github.com/exactmatch/storefront/api/responses"
	"github.com/exactmatch/storefront/pkg/logger"
)

// Brands lists every battery brand.
func Brands(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := svc.ListBrands(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
