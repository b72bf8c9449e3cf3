package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit carries the bookkeeping every catalog entity shares: identity,
// optimistic version counter and the soft-delete pair. Repositories bump
// Version on every update; soft-deleted rows keep their data but are
// excluded from reads.
type Audit struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Version   int        `json:"version" db:"version"`
	IsDeleted bool       `json:"is_deleted" db:"is_deleted"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

type Point struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}
