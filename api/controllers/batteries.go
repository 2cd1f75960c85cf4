package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/exactmatch/storefront/api/responses"
	"github.com/exactmatch/storefront/api/validators"
	"github.com/exactmatch/storefront/internal/catalog"
	pkgerrors "github.com/exactmatch/storefront/pkg/errors"
	"github.com/exactmatch/storefront/pkg/logger"
)

// CatalogService is the slice of the catalog client the gateway serves.
type CatalogService interface {
	ListBatteries(ctx context.Context, filters catalog.Filters) (catalog.Page[catalog.Battery], error)
	FeaturedBatteries(ctx context.Context) (catalog.Page[catalog.Battery], error)
	PopularBatteries(ctx context.Context) (catalog.Page[catalog.Battery], error)
	SearchBatteries(ctx context.Context, term string) (catalog.Page[catalog.Battery], error)
	GetBattery(ctx context.Context, id int) (*catalog.Battery, error)
	ListCategories(ctx context.Context, categoryType string) (catalog.Page[catalog.Category], error)
	ListBrands(ctx context.Context) (catalog.Page[catalog.Brand], error)
}

// BatteryShelf is a resource over one logical battery listing.
type BatteryShelf = catalog.Resource[catalog.Page[catalog.Battery]]

// BrowseBatteries serves the filterable battery listing through its fetch
// lifecycle: the response carries data, loading and error exactly as the
// resource saw them, so clients get stale data plus the error when the
// upstream is down.
func BrowseBatteries(shelf *BatteryShelf, svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := filtersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fetch := func(ctx context.Context) (catalog.Page[catalog.Battery], error) {
			return svc.ListBatteries(ctx, filters)
		}
		serveShelf(w, r, shelf, catalog.Key(filters), fetch, logg)
	}
}

// FeaturedBatteries serves the featured shelf.
func FeaturedBatteries(shelf *BatteryShelf, svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveShelf(w, r, shelf, "featured", svc.FeaturedBatteries, logg)
	}
}

// PopularBatteries serves the popular shelf.
func PopularBatteries(shelf *BatteryShelf, svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveShelf(w, r, shelf, "popular", svc.PopularBatteries, logg)
	}
}

// serveShelf registers the query on the shelf, retries an earlier failure
// (each incoming request counts as an explicit re-trigger), and responds with
// the settled lifecycle state.
func serveShelf(
	w http.ResponseWriter,
	r *http.Request,
	shelf *BatteryShelf,
	key string,
	fetch func(context.Context) (catalog.Page[catalog.Battery], error),
	logg *logger.Logger,
) {
	ctx := r.Context()
	shelf.SetQuery(ctx, key, fetch)
	if snap := shelf.Snapshot(); !snap.Loading && snap.Err != "" {
		shelf.Refetch(ctx, fetch)
	}

	state, err := shelf.Await(ctx)
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog fetch interrupted"))
		return
	}
	responses.WriteSuccess(w, state)
}

// SearchBatteries runs a free-text search straight through to the upstream.
func SearchBatteries(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := svc.SearchBatteries(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// BatteryDetail fetches one battery by id.
func BatteryDetail(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "batteryId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "battery id must be numeric"))
			return
		}

		battery, err := svc.GetBattery(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, battery)
	}
}

// filtersFromQuery maps the gateway's query parameters onto catalog filters.
// Range and search values pass through untouched; only the id lists are
// parsed.
func filtersFromQuery(r *http.Request) (catalog.Filters, error) {
	q := r.URL.Query()

	categories, err := validators.ParseQueryIntList(r, "categories")
	if err != nil {
		return catalog.Filters{}, err
	}
	brands, err := validators.ParseQueryIntList(r, "brands")
	if err != nil {
		return catalog.Filters{}, err
	}

	filters := catalog.Filters{
		Search:        q.Get("search"),
		VehicleSearch: q.Get("vehicle_search"),
		Categories:    categories,
		Brands:        brands,
		MinPrice:      q.Get("min_price"),
		MaxPrice:      q.Get("max_price"),
		MinAmpHours:   q.Get("min_amp_hours"),
		MaxAmpHours:   q.Get("max_amp_hours"),
		MinCCA:        q.Get("min_cca"),
		MaxCCA:        q.Get("max_cca"),
		Condition:     q.Get("condition"),
		Voltage:       q.Get("voltage"),
		InStock:       q.Get("in_stock") == "true",
		Ordering:      q.Get("ordering"),
	}
	if filters.Ordering == "" {
		filters.Ordering = catalog.DefaultOrdering
	}
	return filters, nil
}
