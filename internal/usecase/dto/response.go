package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/charging-catalog/internal/domain"
)

// LocationResponse - relational view of a location with its relations
type LocationResponse struct {
	ID                 uuid.UUID `json:"id"`
	Version            int       `json:"version"`
	HereID             string    `json:"here_id"`
	ExternalID         *string   `json:"external_id,omitempty"`
	Name               string    `json:"location_name"`
	Street             string    `json:"street"`
	HouseNumber        *string   `json:"house_number,omitempty"`
	District           *string   `json:"district,omitempty"`
	City               string    `json:"city"`
	State              *string   `json:"state,omitempty"`
	County             *string   `json:"county,omitempty"`
	Country            string    `json:"country"`
	PostalCode         *string   `json:"postal_code,omitempty"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	PhoneNumber        *string   `json:"phone_number,omitempty"`
	WebsiteURL         *string   `json:"website_url,omitempty"`
	Description        *string   `json:"description,omitempty"`
	ImageURL           *string   `json:"image_url,omitempty"`
	Pricing            *string   `json:"pricing,omitempty"`
	ParkingLevel       *string   `json:"parking_level,omitempty"`
	TotalChargingPorts *int      `json:"total_charging_ports,omitempty"`
	Access             string    `json:"access"`
	PaymentMethods     []string  `json:"payment_methods,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	WorkingDays []WorkingDayResponse `json:"working_days"`
	Amenities   []string             `json:"amenities"`
	Chargers    []ChargerResponse    `json:"chargers,omitempty"`
}

type WorkingDayResponse struct {
	Day       int    `json:"day"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

// ChargerResponse - relational view of a charger with its ports
type ChargerResponse struct {
	ID            uuid.UUID      `json:"id"`
	Version       int            `json:"version"`
	LocationID    uuid.UUID      `json:"location_id"`
	HereID        string         `json:"here_id"`
	StationName   *string        `json:"station_name,omitempty"`
	CpoID         *string        `json:"cpo_id,omitempty"`
	CpoEvseEmi3ID *string        `json:"cpo_evse_emi3_id,omitempty"`
	Availability  string         `json:"availability"`
	Ports         []PortResponse `json:"ports"`
}

type PortResponse struct {
	ID            uuid.UUID `json:"id"`
	HereID        string    `json:"here_id"`
	PlugType      string    `json:"plug_type"`
	PowerModel    string    `json:"power_model"`
	PowerOutputKw float64   `json:"power_output_kw"`
	Voltage       int       `json:"voltage"`
	Amperage      int       `json:"amperage"`
}

// ListLocationsResponse - paginated relational listing
type ListLocationsResponse struct {
	Locations []LocationResponse `json:"locations"`
	Total     int                `json:"total"`
	Page      int                `json:"page"`
	PageSize  int                `json:"page_size"`
}

// SearchResponse - index-backed search results with computed status
type SearchResponse struct {
	Results []*domain.LocationDocument `json:"results"`
	Total   int                        `json:"total"`
}

// SearchFiltersResponse - facet values available for filter UIs
type SearchFiltersResponse struct {
	ChargerTypes []string `json:"charger_types"`
	Amenities    []string `json:"amenities"`
}

// ResyncResponse - outcome of a full index rebuild
type ResyncResponse struct {
	IndexedLocations int `json:"indexed_locations"`
}

// ConvertLocation maps a hydrated entity into the response shape.
func ConvertLocation(loc *domain.Location) LocationResponse {
	resp := LocationResponse{
		ID:                 loc.ID,
		Version:            loc.Version,
		HereID:             loc.HereID,
		ExternalID:         loc.ExternalID,
		Name:               loc.Name,
		Street:             loc.Street,
		HouseNumber:        loc.HouseNumber,
		District:           loc.District,
		City:               loc.City,
		State:              loc.State,
		County:             loc.County,
		Country:            loc.Country,
		PostalCode:         loc.PostalCode,
		Latitude:           loc.Latitude,
		Longitude:          loc.Longitude,
		PhoneNumber:        loc.PhoneNumber,
		WebsiteURL:         loc.WebsiteURL,
		Description:        loc.Description,
		ImageURL:           loc.ImageURL,
		Pricing:            loc.Pricing,
		ParkingLevel:       loc.ParkingLevel,
		TotalChargingPorts: loc.TotalChargingPorts,
		Access:             string(loc.Access),
		PaymentMethods:     loc.PaymentMethods,
		CreatedAt:          loc.CreatedAt,
		UpdatedAt:          loc.UpdatedAt,
		WorkingDays:        make([]WorkingDayResponse, 0, len(loc.WorkingDays)),
		Amenities:          make([]string, 0, len(loc.Amenities)),
	}

	for _, wd := range loc.WorkingDays {
		resp.WorkingDays = append(resp.WorkingDays, WorkingDayResponse{
			Day:       wd.Day,
			OpenTime:  wd.OpenTime,
			CloseTime: wd.CloseTime,
		})
	}
	for _, a := range loc.Amenities {
		resp.Amenities = append(resp.Amenities, a.AmenityType)
	}
	for i := range loc.Chargers {
		resp.Chargers = append(resp.Chargers, ConvertCharger(&loc.Chargers[i]))
	}

	return resp
}

// ConvertCharger maps a charger with hydrated port lookups.
func ConvertCharger(charger *domain.EVCharger) ChargerResponse {
	resp := ChargerResponse{
		ID:            charger.ID,
		Version:       charger.Version,
		LocationID:    charger.LocationID,
		HereID:        charger.HereID,
		StationName:   charger.StationName,
		CpoID:         charger.CpoID,
		CpoEvseEmi3ID: charger.CpoEvseEmi3ID,
		Availability:  string(charger.Availability),
		Ports:         make([]PortResponse, 0, len(charger.Ports)),
	}

	for _, port := range charger.Ports {
		portResp := PortResponse{
			ID:     port.ID,
			HereID: port.HereID,
		}
		if port.PlugType != nil {
			portResp.PlugType = port.PlugType.PlugType
			portResp.PowerModel = string(port.PlugType.PowerModel)
		}
		if port.PowerOutput != nil {
			portResp.PowerOutputKw = port.PowerOutput.OutputValue
			portResp.Voltage = port.PowerOutput.Voltage
			portResp.Amperage = port.PowerOutput.Amperage
		}
		resp.Ports = append(resp.Ports, portResp)
	}

	return resp
}
