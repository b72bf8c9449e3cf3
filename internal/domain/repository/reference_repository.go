package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/charging-catalog/internal/domain"
)

// ReferenceRepository stores the plug-type and power-output lookup tables.
// Creates deduplicate by natural key instead of inserting duplicates.
type ReferenceRepository interface {
	// GetOrCreatePowerOutput matches on (output_value, voltage, amperage)
	// and returns the existing row when found.
	GetOrCreatePowerOutput(ctx context.Context, out *domain.PowerOutput) (*domain.PowerOutput, error)

	// GetOrCreatePlugType matches on (power_model, plug_type).
	GetOrCreatePlugType(ctx context.Context, plug *domain.PowerPlugType) (*domain.PowerPlugType, error)

	GetPowerOutput(ctx context.Context, id uuid.UUID) (*domain.PowerOutput, error)
	GetPlugType(ctx context.Context, id uuid.UUID) (*domain.PowerPlugType, error)

	// ListPlugTypeLabels returns the distinct plug-type labels known to
	// the catalog, for facet filter UIs.
	ListPlugTypeLabels(ctx context.Context) ([]string, error)
}

// AmenityRepository stores the amenity lookup table.
type AmenityRepository interface {
	// GetOrCreate matches on the amenity type label.
	GetOrCreate(ctx context.Context, amenity *domain.Amenity) (*domain.Amenity, error)

	// List returns every live amenity, for facet filter UIs.
	List(ctx context.Context) ([]domain.Amenity, error)
}
