package domain

import (
	"time"

	"github.com/google/uuid"
)

// Availability mirrors the states the upstream feed reports for an EVSE.
type Availability string

const (
	AvailabilityAvailable    Availability = "AVAILABLE"
	AvailabilityUnavailable  Availability = "UNAVAILABLE"
	AvailabilityOccupied     Availability = "OCCUPIED"
	AvailabilityReserved     Availability = "RESERVED"
	AvailabilityOutOfService Availability = "OUT_OF_SERVICE"
	AvailabilityOther        Availability = "OTHER"
)

// EVCharger is a physical charging station at a location. HereID is the
// natural key for ingestion: re-submitting a charger with a known HereID
// resolves to the existing row instead of inserting a duplicate.
type EVCharger struct {
	Audit

	LocationID uuid.UUID `json:"location_id" db:"location_id"`
	HereID     string    `json:"here_id" db:"here_id"`

	StationName   *string      `json:"station_name,omitempty" db:"station_name"`
	CpoID         *string      `json:"cpo_id,omitempty" db:"cpo_id"`
	CpoEvseEmi3ID *string      `json:"cpo_evse_emi3_id,omitempty" db:"cpo_evse_emi3_id"`
	Availability  Availability `json:"availability" db:"availability"`

	LastUpdated         *time.Time `json:"last_updated,omitempty" db:"last_updated"`
	InstallationDate    *time.Time `json:"installation_date,omitempty" db:"installation_date"`
	LastMaintenanceDate *time.Time `json:"last_maintenance_date,omitempty" db:"last_maintenance_date"`

	Ports []EVChargerPort `json:"ev_charger_ports,omitempty" db:"-"`
}

// EVChargerPort is one plug on a charger: a plug-type plus power-output
// combination, keyed by its own external id.
type EVChargerPort struct {
	Audit

	HereID        string    `json:"here_id" db:"here_id"`
	EVChargerID   uuid.UUID `json:"ev_charger_id" db:"ev_charger_id"`
	PlugTypeID    uuid.UUID `json:"power_plug_type_id" db:"power_plug_type_id"`
	PowerOutputID uuid.UUID `json:"power_output_id" db:"power_output_id"`

	PlugType    *PowerPlugType `json:"power_plug_type,omitempty" db:"-"`
	PowerOutput *PowerOutput   `json:"power_output,omitempty" db:"-"`
}

// PowerModel distinguishes AC and DC charging hardware.
type PowerModel string

const (
	PowerModelAC PowerModel = "AC"
	PowerModelDC PowerModel = "DC"
)

// PowerOutput is a lookup entity deduplicated on
// (output_value, voltage, amperage).
type PowerOutput struct {
	Audit

	OutputValue   float64 `json:"output_value" db:"output_value"`
	Voltage       int     `json:"voltage" db:"voltage"`
	Amperage      int     `json:"amperage" db:"amperage"`
	ChargingSpeed *string `json:"charging_speed,omitempty" db:"charging_speed"`
	Description   *string `json:"description,omitempty" db:"description"`
}

// PowerPlugType is a lookup entity deduplicated on (power_model, plug_type).
type PowerPlugType struct {
	Audit

	SupplierName   *string    `json:"supplier_name,omitempty" db:"supplier_name"`
	PowerModel     PowerModel `json:"power_model" db:"power_model"`
	PlugType       string     `json:"plug_type" db:"plug_type"`
	PlugTypeID     string     `json:"plug_type_id" db:"plug_type_id"`
	FixedPlug      *bool      `json:"fixed_plug,omitempty" db:"fixed_plug"`
	PlugImageURL   *string    `json:"plug_image_url,omitempty" db:"plug_image_url"`
	AdditionalNote *string    `json:"additional_note,omitempty" db:"additional_note"`
	Region         *string    `json:"power_plug_region,omitempty" db:"power_plug_region"`
}
