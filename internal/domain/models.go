package domain

import "time"

// ImportRequest is the payload for the listing import API
type ImportRequest struct {
	URL string `json:"url"`
}

// Location is a best-effort place name pair. Empty strings mean unknown.
type Location struct {
	City     string `json:"city"`
	Province string `json:"province"`
}

// Listing holds the data extracted from an external listing page.
// Every field has a defined "unknown" sentinel (empty string, zero, empty
// slice) so the struct is always fully formed and serializable, even when
// every extraction strategy came up empty. Zero counts mean "not determined",
// not a genuine zero.
type Listing struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Guests      int      `json:"guests"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	Amenities   []string `json:"amenities"`
	Location    Location `json:"location"`
	Images      []string `json:"images"`
}

// NewListing returns a Listing with all fields at their sentinel values.
func NewListing() *Listing {
	return &Listing{
		Amenities: []string{},
		Images:    []string{},
	}
}

// UnitType is a bookable room category within an accommodation.
type UnitType struct {
	ID    string  `json:"id,omitempty"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// AccommodationImage is a gallery entry. Position preserves gallery order.
type AccommodationImage struct {
	ID       string `json:"id,omitempty"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// Accommodation is the persisted property record the admin dashboard and
// public storefront read. Imported listings become drafts of this record
// after the operator reviews them.
type Accommodation struct {
	ID            string  `json:"id,omitempty"`
	Name          string  `json:"name"`
	ResortTitle   string  `json:"resort_title,omitempty"`
	Description   string  `json:"description,omitempty"`
	NightlyPrice  float64 `json:"nightly_price"`
	NumberOfUnits int     `json:"number_of_units"`
	Guests        int     `json:"guests"`
	Bedrooms      int     `json:"bedrooms"`
	Bathrooms     int     `json:"bathrooms"`

	StreetAddress    string `json:"street_address"`
	Barangay         string `json:"barangay"`
	MunicipalityCity string `json:"municipality_city"`
	Province         string `json:"province"`
	Region           string `json:"region"`
	ZipCode          string `json:"zip_code"`

	ContactName   string `json:"contact_name"`
	ContactEmail  string `json:"contact_email"`
	ContactNumber string `json:"contact_number"`

	Status       string `json:"status"` // "pending", "published", "archived"
	Featured     bool   `json:"featured"`
	ImportedFrom string `json:"imported_from,omitempty"` // source URL when created from an import

	Amenities []string             `json:"amenities"`
	UnitTypes []UnitType           `json:"unit_types"`
	Images    []AccommodationImage `json:"images"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}
