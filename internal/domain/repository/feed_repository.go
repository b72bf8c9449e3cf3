package repository

import (
	"context"

	"github.com/charging-catalog/internal/domain"
)

// ChargePointFeed is the upstream EV charge-point data source. Ingestion
// polls it on a fixed interval; idempotency comes from the catalog's
// upsert-by-natural-key behavior, not from the feed.
type ChargePointFeed interface {
	// Browse returns the charge points around a center within radiusKm.
	Browse(ctx context.Context, lat, lon, radiusKm float64) (*domain.FeedPage, error)
}
