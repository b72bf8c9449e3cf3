package ingest_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/charging-catalog/internal/config"
	"github.com/charging-catalog/internal/domain"
	"github.com/charging-catalog/internal/worker/ingest"
)

// MockChargePointFeed is a mock of ChargePointFeed
type MockChargePointFeed struct {
	mock.Mock
}

func (m *MockChargePointFeed) Browse(ctx context.Context, lat, lon, radiusKm float64) (*domain.FeedPage, error) {
	args := m.Called(ctx, lat, lon, radiusKm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeedPage), args.Error(1)
}

// MockIngestor is a mock of the ingest use case slice the worker needs
type MockIngestor struct {
	mock.Mock
}

func (m *MockIngestor) IngestItem(ctx context.Context, item *domain.FeedItem) (int, error) {
	args := m.Called(ctx, item)
	return args.Int(0), args.Error(1)
}

// singleCellConfig keeps the grid at exactly one browse circle.
func singleCellConfig() *config.HereConfig {
	return &config.HereConfig{
		CenterLat:    34.0522,
		CenterLon:    -118.2437,
		LatRange:     0.01,
		LonRange:     0.01,
		CellRadiusKm: 10,
		GridStepKm:   100,
	}
}

func runOneSweep(t *testing.T, w *ingest.FeedIngestWorker, done <-chan struct{}) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	finished := make(chan error, 1)
	go func() { finished <- w.Start(ctx) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not complete in time")
	}

	require.NoError(t, w.Stop())
	select {
	case err := <-finished:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop in time")
	}
}

func TestFeedIngestWorker_Sweep(t *testing.T) {
	logger := zap.NewNop()

	t.Run("deduplicates items across the sweep", func(t *testing.T) {
		feed := &MockChargePointFeed{}
		ingestor := &MockIngestor{}

		page := &domain.FeedPage{Items: []domain.FeedItem{
			{ID: "here:pds:place:a", Title: "Hub A"},
			{ID: "here:pds:place:a", Title: "Hub A again"},
			{ID: "here:pds:place:b", Title: "Hub B"},
		}}
		feed.On("Browse", mock.Anything, mock.Anything, mock.Anything, 10.0).Return(page, nil)

		done := make(chan struct{})
		ingestor.On("IngestItem", mock.Anything, mock.MatchedBy(func(item *domain.FeedItem) bool {
			return item.ID == "here:pds:place:a"
		})).Return(1, nil).Once()
		ingestor.On("IngestItem", mock.Anything, mock.MatchedBy(func(item *domain.FeedItem) bool {
			return item.ID == "here:pds:place:b"
		})).Return(2, nil).Once().Run(func(mock.Arguments) { close(done) })

		w := ingest.NewFeedIngestWorker(feed, ingestor, singleCellConfig(), time.Hour, logger)
		runOneSweep(t, w, done)

		ingestor.AssertExpectations(t)
		feed.AssertNumberOfCalls(t, "Browse", 1)
	})

	t.Run("browse failure skips the cell without crashing", func(t *testing.T) {
		feed := &MockChargePointFeed{}
		ingestor := &MockIngestor{}

		done := make(chan struct{})
		feed.On("Browse", mock.Anything, mock.Anything, mock.Anything, 10.0).
			Return(nil, assert.AnError).
			Run(func(mock.Arguments) { close(done) })

		w := ingest.NewFeedIngestWorker(feed, ingestor, singleCellConfig(), time.Hour, logger)
		runOneSweep(t, w, done)

		ingestor.AssertNotCalled(t, "IngestItem", mock.Anything, mock.Anything)
	})

	t.Run("ingest failure does not stop the sweep", func(t *testing.T) {
		feed := &MockChargePointFeed{}
		ingestor := &MockIngestor{}

		page := &domain.FeedPage{Items: []domain.FeedItem{
			{ID: "here:pds:place:a"},
			{ID: "here:pds:place:b"},
		}}
		feed.On("Browse", mock.Anything, mock.Anything, mock.Anything, 10.0).Return(page, nil)

		done := make(chan struct{})
		ingestor.On("IngestItem", mock.Anything, mock.MatchedBy(func(item *domain.FeedItem) bool {
			return item.ID == "here:pds:place:a"
		})).Return(0, assert.AnError).Once()
		ingestor.On("IngestItem", mock.Anything, mock.MatchedBy(func(item *domain.FeedItem) bool {
			return item.ID == "here:pds:place:b"
		})).Return(1, nil).Once().Run(func(mock.Arguments) { close(done) })

		w := ingest.NewFeedIngestWorker(feed, ingestor, singleCellConfig(), time.Hour, logger)
		runOneSweep(t, w, done)

		ingestor.AssertExpectations(t)
	})
}
