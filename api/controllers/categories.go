package controllers

import (
	"net/http"

	"github.com/exactmatch/storefront/api/responses"
	"github.com/exactmatch/storefront/pkg/logger"
)

// Categories lists catalog categories, optionally narrowed by the upstream's
// type parameter (vehicle_type, battery_type, use_case, brand_series). The
// value passes through untouched; the catalog owns validation.
func Categories(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := svc.ListCategories(r.Context(), r.URL.Query().Get("type"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
