package domain

import (
	"fmt"
	"strconv"
)

// LocationDocument is the denormalized projection of a Location stored in
// the search index. It is never the source of truth: it is always
// reconstructible from the relational entities, and may be briefly stale
// between a relational write and its index propagation.
//
// Field names are part of the index contract and must not change.
type LocationDocument struct {
	ID           string  `json:"id"`
	Name         string  `json:"location_name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Street       string  `json:"street"`
	District     *string `json:"district"`
	City         string  `json:"city"`
	Country      string  `json:"country"`
	PostalCode   *string `json:"postal_code"`
	GeoPoint     string  `json:"location"`
	Pricing      *string `json:"pricing"`
	PhoneNumber  *string `json:"phone_number"`
	ParkingLevel *string `json:"parking_level"`
	Description  *string `json:"description"`
	IsDeleted    bool    `json:"is_deleted"`

	StationCount int            `json:"station_count"`
	ChargerTypes []ChargerType  `json:"charger_types"`
	Amenities    []string       `json:"amenities"`
	WorkingDays  []WorkingHours `json:"working_days"`

	// Status is computed per query from WorkingDays and the current time.
	// It is attached to search results and never written to the index.
	Status Status `json:"status,omitempty"`
}

// ChargerType is one nested {type, power_output} entry derived from a
// charger port.
type ChargerType struct {
	Type        string  `json:"type"`
	PowerOutput float64 `json:"power_output"`
}

// WorkingHours is the nested working_days entry, times as "HH:mm".
type WorkingHours struct {
	Day       int    `json:"day"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

// FormatGeoPoint joins latitude and longitude into the "lat, lon" string
// the index's geo_point field expects.
func FormatGeoPoint(lat, lon float64) string {
	return fmt.Sprintf("%s, %s",
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64),
	)
}

// PortChargerTypes derives the {type, power_output} pairs for every
// hydrated port of a charger. The type label is the plug type joined with
// its power model, matching what historical documents in the index hold.
func PortChargerTypes(ports []EVChargerPort) []ChargerType {
	pairs := make([]ChargerType, 0, len(ports))
	for _, port := range ports {
		if port.PlugType == nil || port.PowerOutput == nil {
			continue
		}
		pairs = append(pairs, ChargerType{
			Type:        fmt.Sprintf("%s - %s", port.PlugType.PlugType, port.PlugType.PowerModel),
			PowerOutput: port.PowerOutput.OutputValue,
		})
	}
	return pairs
}

// BuildLocationDocument maps a fully hydrated location (working days,
// amenities, chargers with ports and their lookups) to its index document.
// StationCount counts chargers, not ports; ChargerTypes aggregates the
// pairs of every port across all chargers.
func BuildLocationDocument(loc *Location) *LocationDocument {
	doc := &LocationDocument{
		ID:           loc.ID.String(),
		Name:         loc.Name,
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
		Street:       loc.Street,
		District:     loc.District,
		City:         loc.City,
		Country:      loc.Country,
		PostalCode:   loc.PostalCode,
		GeoPoint:     FormatGeoPoint(loc.Latitude, loc.Longitude),
		Pricing:      loc.Pricing,
		PhoneNumber:  loc.PhoneNumber,
		ParkingLevel: loc.ParkingLevel,
		Description:  loc.Description,
		IsDeleted:    loc.IsDeleted,
		ChargerTypes: []ChargerType{},
		Amenities:    []string{},
		WorkingDays:  []WorkingHours{},
	}

	for _, wd := range loc.WorkingDays {
		doc.WorkingDays = append(doc.WorkingDays, WorkingHours{
			Day:       wd.Day,
			OpenTime:  wd.OpenTime,
			CloseTime: wd.CloseTime,
		})
	}

	for _, amenity := range loc.Amenities {
		doc.Amenities = append(doc.Amenities, amenity.AmenityType)
	}

	for _, charger := range loc.Chargers {
		doc.ChargerTypes = append(doc.ChargerTypes, PortChargerTypes(charger.Ports)...)
		doc.StationCount++
	}

	return doc
}
