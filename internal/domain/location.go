package domain

import "github.com/google/uuid"

// LocationAccess classifies who may use a charging site.
type LocationAccess string

const (
	AccessPublic     LocationAccess = "PUBLIC"
	AccessPrivate    LocationAccess = "PRIVATE"
	AccessRestricted LocationAccess = "RESTRICTED"
)

// Location is a charging site. HereID is the stable external identifier
// and the upsert key for feed ingestion.
type Location struct {
	Audit

	HereID     string  `json:"here_id" db:"here_id"`
	ExternalID *string `json:"external_id,omitempty" db:"external_id"`

	Name        string  `json:"location_name" db:"location_name"`
	Street      string  `json:"street" db:"street"`
	HouseNumber *string `json:"house_number,omitempty" db:"house_number"`
	District    *string `json:"district,omitempty" db:"district"`
	City        string  `json:"city" db:"city"`
	State       *string `json:"state,omitempty" db:"state"`
	County      *string `json:"county,omitempty" db:"county"`
	Country     string  `json:"country" db:"country"`
	PostalCode  *string `json:"postal_code,omitempty" db:"postal_code"`

	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`

	PhoneNumber  *string `json:"phone_number,omitempty" db:"phone_number"`
	WebsiteURL   *string `json:"website_url,omitempty" db:"website_url"`
	Description  *string `json:"description,omitempty" db:"description"`
	ImageURL     *string `json:"image_url,omitempty" db:"image_url"`
	Pricing      *string `json:"pricing,omitempty" db:"pricing"`
	ParkingLevel *string `json:"parking_level,omitempty" db:"parking_level"`

	TotalChargingPorts *int           `json:"total_charging_ports,omitempty" db:"total_charging_ports"`
	Access             LocationAccess `json:"access,omitempty" db:"access"`
	PaymentMethods     []string       `json:"payment_methods,omitempty" db:"payment_methods"`

	// Hydrated relations. Which of these are loaded depends on the read
	// path; repositories document their hydration plan per method.
	WorkingDays []WorkingDay `json:"working_days,omitempty" db:"-"`
	Amenities   []Amenity    `json:"amenities,omitempty" db:"-"`
	Chargers    []EVCharger  `json:"ev_chargers,omitempty" db:"-"`
}

// WorkingDay is one weekday's opening window. At most one row per weekday
// per location; Day uses ISO numbering 1 (Monday) through 7 (Sunday).
// Times are "HH:mm" strings, closing never wraps past midnight.
type WorkingDay struct {
	Audit

	LocationID uuid.UUID `json:"location_id" db:"location_id"`
	Day        int       `json:"day" db:"day"`
	OpenTime   string    `json:"open_time" db:"open_time"`
	CloseTime  string    `json:"close_time" db:"close_time"`
}

// Amenity is a lookup entity ("restroom", "cafe", ...) linked to locations
// through LocationAmenity join rows.
type Amenity struct {
	Audit

	AmenityType string  `json:"amenities_types" db:"amenities_types"`
	ImageURL    *string `json:"image_url,omitempty" db:"image_url"`
}

// LocationAmenity links a location to an amenity. Owned by the location:
// deleted together with it.
type LocationAmenity struct {
	Audit

	LocationID uuid.UUID `json:"location_id" db:"location_id"`
	AmenityID  uuid.UUID `json:"amenities_id" db:"amenities_id"`
}
