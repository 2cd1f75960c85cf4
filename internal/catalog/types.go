package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Brand accepts both shapes the catalog API emits: a full brand object on
// detail payloads and a bare name string on some list payloads.
type Brand struct {
	ID      int    `json:"id,omitempty"`
	Name    string `json:"name"`
	Logo    string `json:"logo,omitempty"`
	Website string `json:"website,omitempty"`
}

func (b *Brand) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return err
		}
		*b = Brand{Name: name}
		return nil
	}

	type alias Brand
	var decoded alias
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return err
	}
	*b = Brand(decoded)
	return nil
}

// Category is a catalog grouping (vehicle type, battery type, use case or
// brand series).
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Category type filter values accepted by GET /categories/.
const (
	CategoryTypeVehicle     = "vehicle_type"
	CategoryTypeBattery     = "battery_type"
	CategoryTypeUseCase     = "use_case"
	CategoryTypeBrandSeries = "brand_series"
)

// Battery mirrors the catalog list serializer. Decimal fields tolerate both
// quoted and bare JSON numbers.
type Battery struct {
	ID                 int             `json:"id"`
	Name               string          `json:"name"`
	Brand              Brand           `json:"brand"`
	Category           *Category       `json:"category,omitempty"`
	ModelNumber        string          `json:"model_number,omitempty"`
	Voltage            string          `json:"voltage"`
	AmpHours           decimal.Decimal `json:"amp_hours"`
	ColdCrankingAmps   decimal.Decimal `json:"cold_cranking_amps"`
	Condition          string          `json:"condition"`
	Price              decimal.Decimal `json:"price"`
	OriginalPrice      decimal.Decimal `json:"original_price,omitempty"`
	ShortDescription   string          `json:"short_description,omitempty"`
	IsFeatured         bool            `json:"is_featured"`
	IsPopular          bool            `json:"is_popular"`
	IsInStock          bool            `json:"is_in_stock"`
	StockQuantity      int             `json:"stock_quantity"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage,omitempty"`
	Slug               string          `json:"slug"`
	PrimaryImage       string          `json:"primary_image,omitempty"`
	AverageRating      float64         `json:"average_rating,omitempty"`
	ReviewCount        int             `json:"review_count,omitempty"`
	CreatedAt          string          `json:"created_at,omitempty"`
}

// Specs composes the display descriptor captured on cart lines.
func (b Battery) Specs() string {
	return fmt.Sprintf("%s • %sAh • %sA CCA", b.Voltage, b.AmpHours.String(), b.ColdCrankingAmps.String())
}
