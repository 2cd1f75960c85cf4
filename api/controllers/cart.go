package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/exactmatch/storefront/api/responses"
	"github.com/exactmatch/storefront/api/validators"
	"github.com/exactmatch/storefront/internal/cart"
	"github.com/exactmatch/storefront/internal/catalog"
	pkgerrors "github.com/exactmatch/storefront/pkg/errors"
	"github.com/exactmatch/storefront/pkg/logger"
)

// CartStore is the slice of the cart the gateway exposes.
type CartStore interface {
	Items() []cart.Item
	Count() int
	Total() decimal.Decimal
	Add(ctx context.Context, battery catalog.Battery, quantity int)
	Remove(ctx context.Context, id int)
	SetQuantity(ctx context.Context, id, quantity int)
	Clear(ctx context.Context)
}

type cartView struct {
	Items []cart.Item     `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

func viewOf(store CartStore) cartView {
	return cartView{
		Items: store.Items(),
		Count: store.Count(),
		Total: store.Total(),
	}
}

// CartFetch returns the full cart with its derived count and total.
func CartFetch(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, viewOf(store))
	}
}

type addCartItemRequest struct {
	Battery  catalog.Battery `json:"battery"`
	Quantity int             `json:"quantity" validate:"omitempty,min=1"`
}

// CartAddItem merges a battery into the cart. Re-adding an id only raises
// its quantity; the line keeps the fields snapshotted on first add.
func CartAddItem(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Battery.ID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "battery id is required"))
			return
		}

		store.Add(r.Context(), payload.Battery, payload.Quantity)
		responses.WriteSuccessStatus(w, http.StatusCreated, viewOf(store))
	}
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CartUpdateItem sets a line's quantity outright. Zero or negative removes
// the line; unknown ids leave the cart untouched.
func CartUpdateItem(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id must be numeric"))
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.SetQuantity(r.Context(), id, *payload.Quantity)
		responses.WriteSuccess(w, viewOf(store))
	}
}

// CartRemoveItem drops a line. Unknown ids are a no-op.
func CartRemoveItem(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id must be numeric"))
			return
		}

		store.Remove(r.Context(), id)
		responses.WriteSuccess(w, viewOf(store))
	}
}

// CartClear empties the cart.
func CartClear(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.Clear(r.Context())
		responses.WriteSuccess(w, viewOf(store))
	}
}
