package checkout

import "strings"

// Form carries everything the checkout page can submit. Which fields are
// mandatory is configuration, not code: the legacy storefront validated
// first/last/address fields its form never rendered, so the required set
// stays swappable between both variants.
type Form struct {
	Name       string `json:"name"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	MpesaPhone string `json:"mpesa_phone"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	County     string `json:"county"`
}

// Field names accepted in the required-field configuration.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldMpesaPhone = "mpesa_phone"
	FieldFirstName  = "first_name"
	FieldLastName   = "last_name"
	FieldAddress    = "address"
	FieldCity       = "city"
	FieldCounty     = "county"
)

func (f Form) value(field string) (string, bool) {
	switch field {
	case FieldName:
		return f.Name, true
	case FieldEmail:
		return f.Email, true
	case FieldPhone:
		return f.Phone, true
	case FieldMpesaPhone:
		return f.MpesaPhone, true
	case FieldFirstName:
		return f.FirstName, true
	case FieldLastName:
		return f.LastName, true
	case FieldAddress:
		return f.Address, true
	case FieldCity:
		return f.City, true
	case FieldCounty:
		return f.County, true
	default:
		return "", false
	}
}

func (f Form) missing(required []string) []string {
	var missing []string
	for _, field := range required {
		value, known := f.value(strings.TrimSpace(field))
		if !known {
			continue
		}
		if strings.TrimSpace(value) == "" {
			missing = append(missing, strings.TrimSpace(field))
		}
	}
	return missing
}
