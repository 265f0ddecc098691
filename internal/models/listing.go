package models

import "time"

type Listing struct {
	ID           int64     `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	Description  string    `json:"description" yaml:"description"`
	Address      string    `json:"address" yaml:"address"`
	City         string    `json:"city" yaml:"city"`
	State        string    `json:"state" yaml:"state"`
	Country      string    `json:"country" yaml:"country"`
	PostalCode   string    `json:"postal_code" yaml:"postal_code"`
	PriceCents   int64     `json:"price_cents" yaml:"price_cents"`
	PropertyType string    `json:"property_type" yaml:"property_type"` // AP, HS, ST, CO, TH, OT
	Bedrooms     int64     `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms    float64   `json:"bathrooms" yaml:"bathrooms"`
	SquareFeet   int64     `json:"square_feet" yaml:"square_feet"`
	OwnerID      int64     `json:"owner_id" yaml:"owner_id"`
	IsActive     bool      `json:"is_active" yaml:"is_active"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
}

type Amenity struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// PropertyTypes maps the stored two-letter codes to display names.
var PropertyTypes = map[string]string{
	"AP": "Apartment",
	"HS": "House",
	"ST": "Studio",
	"CO": "Condo",
	"TH": "Townhouse",
	"OT": "Other",
}

func ValidPropertyType(code string) bool {
	_, ok := PropertyTypes[code]
	return ok
}
