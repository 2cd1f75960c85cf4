package catalog

import (
	"net/url"
	"strconv"
)

// Ordering tokens understood by the catalog API. A leading '-' sorts descending.
const (
	OrderNewest       = "-created_at"
	OrderOldest       = "created_at"
	OrderPriceAsc     = "price"
	OrderPriceDesc    = "-price"
	OrderNameAsc      = "name"
	OrderNameDesc     = "-name"
	OrderAmpHoursAsc  = "amp_hours"
	OrderAmpHoursDesc = "-amp_hours"
	OrderCCAAsc       = "cold_cranking_amps"
	OrderCCADesc      = "-cold_cranking_amps"
)

// DefaultOrdering is applied when the UI has not picked a sort.
const DefaultOrdering = OrderNewest

// Filters holds the browse filter state as the UI edits it. Zero values mean
// "unset": empty strings, empty slices and false booleans never reach the API.
// Numeric range fields stay strings on purpose; the server owns validation and
// this layer only decides presence.
type Filters struct {
	Search        string
	VehicleSearch string
	Categories    []int
	Brands        []int
	MinPrice      string
	MaxPrice      string
	MinAmpHours   string
	MaxAmpHours   string
	MinCCA        string
	MaxCCA        string
	Condition     string
	Voltage       string
	InStock       bool
	Ordering      string
}

// BuildQuery normalizes the filter state into catalog request parameters.
// It is pure and total: unset fields are dropped, set fields pass through
// verbatim, collections keep their order as repeated keys.
func BuildQuery(f Filters) url.Values {
	params := url.Values{}

	setString(params, "search", f.Search)
	setString(params, "vehicle_search", f.VehicleSearch)
	for _, id := range f.Categories {
		params.Add("categories", strconv.Itoa(id))
	}
	for _, id := range f.Brands {
		params.Add("brands", strconv.Itoa(id))
	}
	setString(params, "min_price", f.MinPrice)
	setString(params, "max_price", f.MaxPrice)
	setString(params, "min_amp_hours", f.MinAmpHours)
	setString(params, "max_amp_hours", f.MaxAmpHours)
	setString(params, "min_cca", f.MinCCA)
	setString(params, "max_cca", f.MaxCCA)
	setString(params, "condition", f.Condition)
	setString(params, "voltage", f.Voltage)
	if f.InStock {
		params.Set("in_stock", "true")
	}
	setString(params, "ordering", f.Ordering)

	return params
}

// Key returns the canonical encoding of the normalized query. Two filter
// states with the same key are the same logical query and must not trigger
// a second fetch.
func Key(f Filters) string {
	return BuildQuery(f).Encode()
}

func setString(params url.Values, key, value string) {
	if value == "" {
		return
	}
	params.Set(key, value)
}
