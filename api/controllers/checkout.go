package controllers

import (
	"net/http"

	"github.com/exactmatch/storefront/api/responses"
	"github.com/exactmatch/storefront/api/validators"
	checkoutsvc "github.com/exactmatch/storefront/internal/checkout"
	"github.com/exactmatch/storefront/pkg/logger"
)

// Checkout runs the simulated payment flow and returns the archived order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form checkoutsvc.Form
		if err := validators.DecodeJSONBody(r, &form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Submit(r.Context(), form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
