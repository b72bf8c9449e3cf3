package dto

// CreateLocationRequest - payload for registering a charging location
type CreateLocationRequest struct {
	HereID             string   `json:"here_id" validate:"required"`
	ExternalID         *string  `json:"external_id,omitempty"`
	Name               string   `json:"location_name" validate:"required,min=1"`
	Street             string   `json:"street" validate:"required"`
	HouseNumber        *string  `json:"house_number,omitempty"`
	District           *string  `json:"district,omitempty"`
	City               string   `json:"city" validate:"required"`
	State              *string  `json:"state,omitempty"`
	County             *string  `json:"county,omitempty"`
	Country            string   `json:"country" validate:"required"`
	PostalCode         *string  `json:"postal_code,omitempty"`
	Latitude           float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude          float64  `json:"longitude" validate:"min=-180,max=180"`
	PhoneNumber        *string  `json:"phone_number,omitempty"`
	WebsiteURL         *string  `json:"website_url,omitempty"`
	Description        *string  `json:"description,omitempty"`
	ImageURL           *string  `json:"image_url,omitempty"`
	Pricing            *string  `json:"pricing,omitempty"`
	ParkingLevel       *string  `json:"parking_level,omitempty"`
	TotalChargingPorts *int     `json:"total_charging_ports,omitempty"`
	Access             string   `json:"access" validate:"omitempty,oneof=PUBLIC PRIVATE RESTRICTED"`
	PaymentMethods     []string `json:"payment_methods,omitempty"`

	WorkingDays []WorkingDayRequest `json:"working_days" validate:"omitempty,max=7,dive"`
	Amenities   []AmenityRequest    `json:"amenities" validate:"omitempty,dive"`
}

// WorkingDayRequest - one weekday schedule entry, ISO day 1..7
type WorkingDayRequest struct {
	Day       int    `json:"day" validate:"required,min=1,max=7"`
	OpenTime  string `json:"open_time" validate:"required,datetime=15:04"`
	CloseTime string `json:"close_time" validate:"required,datetime=15:04"`
}

// AmenityRequest - amenity attached to a location, created on first use
type AmenityRequest struct {
	Type     string  `json:"type" validate:"required"`
	ImageURL *string `json:"image_url,omitempty"`
}

// UpdateLocationRequest - full replacement of a location's mutable fields
type UpdateLocationRequest struct {
	ExternalID         *string  `json:"external_id,omitempty"`
	Name               string   `json:"location_name" validate:"required,min=1"`
	Street             string   `json:"street" validate:"required"`
	HouseNumber        *string  `json:"house_number,omitempty"`
	District           *string  `json:"district,omitempty"`
	City               string   `json:"city" validate:"required"`
	State              *string  `json:"state,omitempty"`
	County             *string  `json:"county,omitempty"`
	Country            string   `json:"country" validate:"required"`
	PostalCode         *string  `json:"postal_code,omitempty"`
	Latitude           float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude          float64  `json:"longitude" validate:"min=-180,max=180"`
	PhoneNumber        *string  `json:"phone_number,omitempty"`
	WebsiteURL         *string  `json:"website_url,omitempty"`
	Description        *string  `json:"description,omitempty"`
	ImageURL           *string  `json:"image_url,omitempty"`
	Pricing            *string  `json:"pricing,omitempty"`
	ParkingLevel       *string  `json:"parking_level,omitempty"`
	TotalChargingPorts *int     `json:"total_charging_ports,omitempty"`
	Access             string   `json:"access" validate:"omitempty,oneof=PUBLIC PRIVATE RESTRICTED"`
	PaymentMethods     []string `json:"payment_methods,omitempty"`

	WorkingDays []WorkingDayRequest `json:"working_days" validate:"omitempty,max=7,dive"`
	Amenities   []AmenityRequest    `json:"amenities" validate:"omitempty,dive"`
}

// ListLocationsRequest - relational listing with filters and pagination
type ListLocationsRequest struct {
	City     string `json:"city" query:"city"`
	Country  string `json:"country" query:"country"`
	Text     string `json:"text" query:"text"`
	Page     int    `json:"page" query:"page" validate:"omitempty,min=1"`
	PageSize int    `json:"page_size" query:"page_size" validate:"omitempty,min=1,max=100"`
}

// CreateChargerRequest - payload for registering a charger at a location
type CreateChargerRequest struct {
	LocationID    string  `json:"location_id" validate:"required,uuid"`
	HereID        string  `json:"here_id" validate:"required"`
	StationName   *string `json:"station_name,omitempty"`
	CpoID         *string `json:"cpo_id,omitempty"`
	CpoEvseEmi3ID *string `json:"cpo_evse_emi3_id,omitempty"`
	Availability  string  `json:"availability" validate:"omitempty,oneof=AVAILABLE UNAVAILABLE OCCUPIED RESERVED OUT_OF_SERVICE OTHER"`

	Ports []PortRequest `json:"ports" validate:"required,min=1,dive"`
}

// PortRequest - one physical connector on a charger. Plug-type and
// power-output lookups are resolved (or created) from these values.
type PortRequest struct {
	HereID        string  `json:"here_id" validate:"required"`
	PlugType      string  `json:"plug_type" validate:"required"`
	PowerModel    string  `json:"power_model" validate:"required,oneof=AC DC"`
	SupplierName  *string `json:"supplier_name,omitempty"`
	FixedPlug     *bool   `json:"fixed_plug,omitempty"`
	PowerOutputKw float64 `json:"power_output_kw" validate:"required,min=0"`
	Voltage       int     `json:"voltage" validate:"omitempty,min=0"`
	Amperage      int     `json:"amperage" validate:"omitempty,min=0"`
	ChargingSpeed *string `json:"charging_speed,omitempty"`
}

// UpdateChargerRequest - replacement of a charger's fields and port set
type UpdateChargerRequest struct {
	StationName   *string `json:"station_name,omitempty"`
	CpoID         *string `json:"cpo_id,omitempty"`
	CpoEvseEmi3ID *string `json:"cpo_evse_emi3_id,omitempty"`
	Availability  string  `json:"availability" validate:"omitempty,oneof=AVAILABLE UNAVAILABLE OCCUPIED RESERVED OUT_OF_SERVICE OTHER"`

	Ports []PortRequest `json:"ports" validate:"required,min=1,dive"`
}

// SearchLocationsRequest - combined text/facet search input
type SearchLocationsRequest struct {
	Query           *string  `json:"query" query:"query"`
	Fuzzy           bool     `json:"fuzzy" query:"fuzzy"`
	StationCount    *int     `json:"station_count" query:"station_count" validate:"omitempty,min=1"`
	PowerOutputGte  *float64 `json:"power_output_gte" query:"power_output_gte" validate:"omitempty,min=0"`
	PowerOutputLte  *float64 `json:"power_output_lte" query:"power_output_lte" validate:"omitempty,min=0"`
	ChargerTypes    []string `json:"charger_types" query:"charger_types"`
	Amenities       []string `json:"amenities" query:"amenities"`
	Lat             *float64 `json:"lat" query:"lat" validate:"omitempty,min=-90,max=90"`
	Lon             *float64 `json:"lon" query:"lon" validate:"omitempty,min=-180,max=180"`
	RadiusKm        *float64 `json:"radius_km" query:"radius_km" validate:"omitempty,min=0.1,max=100"`
}

// NearbyLocationsRequest - pure radius search around a point
type NearbyLocationsRequest struct {
	Lat      float64 `json:"lat" validate:"min=-90,max=90"`
	Lon      float64 `json:"lon" validate:"min=-180,max=180"`
	RadiusKm float64 `json:"radius_km" validate:"required,min=0.1,max=100"`
}

// RoutePoint - one vertex of a route polyline
type RoutePoint struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

// AlongRouteRequest - locations inside a buffered corridor around a route
type AlongRouteRequest struct {
	Route []RoutePoint `json:"route" validate:"required,min=2,max=500,dive"`
}
