package domain_test

import (
	"testing"

	"github.com/charging-catalog/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func port(plugType string, model domain.PowerModel, kw float64) domain.EVChargerPort {
	return domain.EVChargerPort{
		PlugType: &domain.PowerPlugType{
			PlugType:   plugType,
			PowerModel: model,
		},
		PowerOutput: &domain.PowerOutput{
			OutputValue: kw,
		},
	}
}

func TestFormatGeoPoint(t *testing.T) {
	assert.Equal(t, "34.0522, -118.2437", domain.FormatGeoPoint(34.0522, -118.2437))
	assert.Equal(t, "0, 0", domain.FormatGeoPoint(0, 0))
	assert.Equal(t, "-90, 180", domain.FormatGeoPoint(-90, 180))
}

func TestPortChargerTypes(t *testing.T) {
	t.Run("joins plug type and power model", func(t *testing.T) {
		pairs := domain.PortChargerTypes([]domain.EVChargerPort{
			port("CCS", domain.PowerModelDC, 150),
			port("Type 2", domain.PowerModelAC, 22),
		})

		assert.Equal(t, []domain.ChargerType{
			{Type: "CCS - DC", PowerOutput: 150},
			{Type: "Type 2 - AC", PowerOutput: 22},
		}, pairs)
	})

	t.Run("skips ports without hydrated lookups", func(t *testing.T) {
		pairs := domain.PortChargerTypes([]domain.EVChargerPort{
			{PlugType: &domain.PowerPlugType{PlugType: "CCS", PowerModel: domain.PowerModelDC}},
			{PowerOutput: &domain.PowerOutput{OutputValue: 50}},
			port("CHAdeMO", domain.PowerModelDC, 50),
		})

		assert.Equal(t, []domain.ChargerType{
			{Type: "CHAdeMO - DC", PowerOutput: 50},
		}, pairs)
	})

	t.Run("duplicate pairs are kept", func(t *testing.T) {
		pairs := domain.PortChargerTypes([]domain.EVChargerPort{
			port("CCS", domain.PowerModelDC, 150),
			port("CCS", domain.PowerModelDC, 150),
		})

		assert.Len(t, pairs, 2)
	})
}

func TestBuildLocationDocument(t *testing.T) {
	district := "Downtown"
	loc := &domain.Location{
		Name:      "Central Charging Hub",
		Street:    "S Grand Ave",
		District:  &district,
		City:      "Los Angeles",
		Country:   "United States",
		Latitude:  34.0522,
		Longitude: -118.2437,
		WorkingDays: []domain.WorkingDay{
			{Day: 1, OpenTime: "08:00", CloseTime: "20:00"},
			{Day: 6, OpenTime: "10:00", CloseTime: "16:00"},
		},
		Amenities: []domain.Amenity{
			{AmenityType: "restroom"},
			{AmenityType: "cafe"},
		},
		Chargers: []domain.EVCharger{
			{Ports: []domain.EVChargerPort{
				port("CCS", domain.PowerModelDC, 150),
				port("CHAdeMO", domain.PowerModelDC, 50),
			}},
			{Ports: []domain.EVChargerPort{
				port("Type 2", domain.PowerModelAC, 22),
			}},
		},
	}
	loc.ID = uuid.New()

	doc := domain.BuildLocationDocument(loc)

	assert.Equal(t, loc.ID.String(), doc.ID)
	assert.Equal(t, "Central Charging Hub", doc.Name)
	assert.Equal(t, "34.0522, -118.2437", doc.GeoPoint)

	// One per charger, not one per port.
	assert.Equal(t, 2, doc.StationCount)

	assert.Equal(t, []domain.ChargerType{
		{Type: "CCS - DC", PowerOutput: 150},
		{Type: "CHAdeMO - DC", PowerOutput: 50},
		{Type: "Type 2 - AC", PowerOutput: 22},
	}, doc.ChargerTypes)

	assert.Equal(t, []string{"restroom", "cafe"}, doc.Amenities)

	require.Len(t, doc.WorkingDays, 2)
	assert.Equal(t, domain.WorkingHours{Day: 1, OpenTime: "08:00", CloseTime: "20:00"}, doc.WorkingDays[0])

	assert.Empty(t, doc.Status)
	assert.False(t, doc.IsDeleted)
}

func TestBuildLocationDocument_Empty(t *testing.T) {
	loc := &domain.Location{Name: "Bare Site"}
	loc.ID = uuid.New()

	doc := domain.BuildLocationDocument(loc)

	assert.Zero(t, doc.StationCount)
	assert.NotNil(t, doc.ChargerTypes)
	assert.NotNil(t, doc.Amenities)
	assert.NotNil(t, doc.WorkingDays)
	assert.Empty(t, doc.ChargerTypes)
}
