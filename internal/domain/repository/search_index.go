package repository

import (
	"context"

	"github.com/charging-catalog/internal/domain"
)

// FacetSearchQuery is the combined text/facet search input. Nil pointers
// mean the clause is omitted.
type FacetSearchQuery struct {
	// Free text matched against name/street/district/city/country. When
	// set, results are ranked and capped at 10; when empty, up to 500
	// documents come back unranked (or geo-sorted when Lat/Lon are set).
	Text *string
	// Fuzzy enables AUTO fuzziness on the multi-field match.
	Fuzzy bool

	StationCountGte *int
	PowerOutputGte  *float64
	PowerOutputLte  *float64
	ChargerTypes    []string
	Amenities       []string

	// Center point, used for the radius filter and distance sorting.
	Lat      *float64
	Lon      *float64
	RadiusKm *float64
}

// SearchIndex is the search-engine adapter: document lifecycle, scripted
// in-place mutations and the three query shapes. Implementations own the
// index mapping and the query DSL.
type SearchIndex interface {
	// EnsureIndex creates the index with its mapping when missing.
	EnsureIndex(ctx context.Context) error

	BulkInsert(ctx context.Context, docs []*domain.LocationDocument) error
	Upsert(ctx context.Context, docID string, doc *domain.LocationDocument) error
	Get(ctx context.Context, docID string) (*domain.LocationDocument, error)

	// PartialUpdate merges the given fields into the document.
	PartialUpdate(ctx context.Context, docID string, fields map[string]interface{}) error

	Delete(ctx context.Context, docID string) error

	// Wipe drops the whole index; resync's first step.
	Wipe(ctx context.Context) error

	// AddChargerTypes appends pairs to charger_types and increments
	// station_count by stationDelta, atomically on the engine side.
	AddChargerTypes(ctx context.Context, docID string, pairs []domain.ChargerType, stationDelta int) error

	// ReplaceChargerTypes removes the old pairs then appends the new
	// ones; station_count is left untouched.
	ReplaceChargerTypes(ctx context.Context, docID string, old, new []domain.ChargerType) error

	// RemoveChargerTypes removes pairs and decrements station_count by
	// stationDelta.
	RemoveChargerTypes(ctx context.Context, docID string, pairs []domain.ChargerType, stationDelta int) error

	// FacetSearch runs the text/facet query. A noisy free-text input
	// (too many special characters or an overlong token) short-circuits
	// to an empty result.
	FacetSearch(ctx context.Context, query FacetSearchQuery) ([]*domain.LocationDocument, error)

	// RadiusSearch is a pure geo-distance filter around a center point.
	RadiusSearch(ctx context.Context, lat, lon, radiusKm float64) ([]*domain.LocationDocument, error)

	// PolygonSearch filters documents inside the closed ring of points.
	PolygonSearch(ctx context.Context, polygon []domain.Point) ([]*domain.LocationDocument, error)
}
