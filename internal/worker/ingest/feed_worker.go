package ingest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/charging-catalog/internal/config"
	"github.com/charging-catalog/internal/domain"
	"github.com/charging-catalog/internal/domain/repository"
	"github.com/charging-catalog/internal/infrastructure/here"
	"github.com/charging-catalog/internal/worker"
)

// Ingestor is the slice of the ingest use case the worker drives.
type Ingestor interface {
	IngestItem(ctx context.Context, item *domain.FeedItem) (int, error)
}

// FeedIngestWorker sweeps a grid of browse circles over the configured
// coverage area and upserts every charge point it finds. One sweep runs
// at startup, then one per poll interval.
type FeedIngestWorker struct {
	*worker.BaseWorker
	feed         repository.ChargePointFeed
	ingestUC     Ingestor
	hereCfg      *config.HereConfig
	pollInterval time.Duration
}

func NewFeedIngestWorker(
	feed repository.ChargePointFeed,
	ingestUC Ingestor,
	hereCfg *config.HereConfig,
	pollInterval time.Duration,
	logger *zap.Logger,
) *FeedIngestWorker {
	return &FeedIngestWorker{
		BaseWorker:   worker.NewBaseWorker("feed-ingest", logger),
		feed:         feed,
		ingestUC:     ingestUC,
		hereCfg:      hereCfg,
		pollInterval: pollInterval,
	}
}

// Start runs the sweep loop until Stop or context cancellation.
func (w *FeedIngestWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting FeedIngestWorker",
		zap.Duration("poll_interval", w.pollInterval),
		zap.Float64("cell_radius_km", w.hereCfg.CellRadiusKm),
		zap.Float64("grid_step_km", w.hereCfg.GridStepKm))

	w.sweep(ctx)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep browses every grid cell and ingests the deduplicated items.
// Adjacent circles overlap, so an item can show up in several cells;
// the first occurrence wins.
func (w *FeedIngestWorker) sweep(ctx context.Context) {
	logger := w.Logger()
	started := time.Now()

	grid := here.GenerateGrid(
		w.hereCfg.CenterLat,
		w.hereCfg.CenterLon,
		w.hereCfg.LatRange,
		w.hereCfg.LonRange,
		w.hereCfg.GridStepKm,
	)

	seen := make(map[string]struct{})
	var items []domain.FeedItem

	for _, cell := range grid {
		select {
		case <-w.StopChan():
			return
		case <-ctx.Done():
			return
		default:
		}

		page, err := w.feed.Browse(ctx, cell.Lat, cell.Lon, w.hereCfg.CellRadiusKm)
		if err != nil {
			logger.Error("Failed to browse feed cell",
				zap.Float64("lat", cell.Lat),
				zap.Float64("lon", cell.Lon),
				zap.Error(err))
			continue
		}

		for _, item := range page.Items {
			if _, ok := seen[item.ID]; ok {
				continue
			}
			seen[item.ID] = struct{}{}
			items = append(items, item)
		}
	}

	ingested := 0
	chargers := 0
	for i := range items {
		n, err := w.ingestUC.IngestItem(ctx, &items[i])
		if err != nil {
			logger.Error("Failed to ingest feed item",
				zap.String("here_id", items[i].ID),
				zap.Error(err))
			continue
		}
		ingested++
		chargers += n
	}

	logger.Info("Feed sweep complete",
		zap.Int("cells", len(grid)),
		zap.Int("unique_items", len(items)),
		zap.Int("ingested", ingested),
		zap.Int("chargers", chargers),
		zap.Duration("took", time.Since(started)))
}
