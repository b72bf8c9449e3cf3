package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/charging-catalog/internal/domain"
)

// LocationFilter narrows List results. Zero values mean "no filter".
type LocationFilter struct {
	City    string
	Country string
	Text    string // matched against name and street
}

// Pagination is offset/limit paging shared by list reads.
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// LocationRepository is the relational store adapter for locations and the
// rows they own (working days, amenity links).
type LocationRepository interface {
	// Create inserts the location with its working days and amenity links
	// in one transaction. Duplicate HereID yields ErrDuplicateLocation.
	Create(ctx context.Context, loc *domain.Location, amenityIDs []uuid.UUID) (*domain.Location, error)

	// GetByID hydrates the full graph: working days, amenities, chargers
	// with ports and their plug-type/power-output lookups. Soft-deleted
	// locations read as not found.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error)

	// GetByHereID is the ingestion lookup; nil, nil on miss.
	GetByHereID(ctx context.Context, hereID string) (*domain.Location, error)

	// List hydrates amenities only (the listing response shape needs no
	// chargers). Soft-deleted rows are excluded.
	List(ctx context.Context, filter LocationFilter, page Pagination) ([]*domain.Location, int, error)

	// ListAllDetailed reads every non-deleted location fully hydrated and
	// unpaginated. Resync's read path.
	ListAllDetailed(ctx context.Context) ([]*domain.Location, error)

	// Update rewrites the mutable columns, bumps the version and
	// reconciles working days (upsert per weekday, soft-delete absent
	// ones) and amenity links. Returns the rehydrated location.
	Update(ctx context.Context, id uuid.UUID, loc *domain.Location, amenityIDs []uuid.UUID) (*domain.Location, error)

	// SoftDelete marks the location deleted and cascades to its chargers
	// and search-history rows in the same transaction.
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
