package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/charging-catalog/internal/domain"
	"github.com/charging-catalog/internal/pkg/errors"
	"github.com/charging-catalog/internal/usecase"
	"github.com/charging-catalog/internal/usecase/dto"
)

func newLocationUseCase() (*usecase.LocationUseCase, *MockLocationRepository, *MockAmenityRepository, *MockSearchIndex, *MockCacheRepository) {
	locationRepo := &MockLocationRepository{}
	amenityRepo := &MockAmenityRepository{}
	searchIndex := &MockSearchIndex{}
	cacheRepo := &MockCacheRepository{}
	uc := usecase.NewLocationUseCase(locationRepo, amenityRepo, searchIndex, cacheRepo, zap.NewNop())
	return uc, locationRepo, amenityRepo, searchIndex, cacheRepo
}

func sampleStoredLocation() *domain.Location {
	loc := &domain.Location{
		HereID:    "here:pds:place:840",
		Name:      "Downtown Garage",
		Street:    "Main St",
		City:      "Los Angeles",
		Country:   "USA",
		Latitude:  34.0522,
		Longitude: -118.2437,
		Access:    domain.AccessPublic,
		WorkingDays: []domain.WorkingDay{
			{Day: 1, OpenTime: "08:00", CloseTime: "20:00"},
		},
		Amenities: []domain.Amenity{{AmenityType: "WiFi"}},
	}
	loc.ID = uuid.New()
	loc.Version = 1
	return loc
}

func TestLocationUseCase_Create(t *testing.T) {
	ctx := context.Background()

	validReq := dto.CreateLocationRequest{
		HereID:    "here:pds:place:840",
		Name:      "Downtown Garage",
		Street:    "Main St",
		City:      "Los Angeles",
		Country:   "USA",
		Latitude:  34.0522,
		Longitude: -118.2437,
		WorkingDays: []dto.WorkingDayRequest{
			{Day: 1, OpenTime: "08:00", CloseTime: "20:00"},
		},
	}

	t.Run("indexes new location with zero chargers", func(t *testing.T) {
		uc, locationRepo, _, searchIndex, cacheRepo := newLocationUseCase()
		stored := sampleStoredLocation()

		locationRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(stored, nil)
		searchIndex.On("Upsert", ctx, stored.ID.String(), mock.MatchedBy(func(doc *domain.LocationDocument) bool {
			return doc.StationCount == 0 && len(doc.ChargerTypes) == 0
		})).Return(nil)
		cacheRepo.On("InvalidateSearch", ctx).Return(nil)

		resp, err := uc.Create(ctx, validReq)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, resp.ID)
		assert.Equal(t, "Downtown Garage", resp.Name)

		locationRepo.AssertExpectations(t)
		searchIndex.AssertExpectations(t)
	})

	t.Run("rejects out of range coordinates", func(t *testing.T) {
		uc, locationRepo, _, _, _ := newLocationUseCase()

		req := validReq
		req.Latitude = 91

		_, err := uc.Create(ctx, req)
		assert.Equal(t, errors.ErrInvalidCoordinates, err)
		locationRepo.AssertNotCalled(t, "Create")
	})

	t.Run("rejects duplicate weekday in schedule", func(t *testing.T) {
		uc, _, _, _, _ := newLocationUseCase()

		req := validReq
		req.WorkingDays = []dto.WorkingDayRequest{
			{Day: 1, OpenTime: "08:00", CloseTime: "12:00"},
			{Day: 1, OpenTime: "13:00", CloseTime: "20:00"},
		}

		_, err := uc.Create(ctx, req)
		require.Error(t, err)
		appErr, ok := err.(*errors.AppError)
		require.True(t, ok)
		assert.Equal(t, errors.ErrInvalidSchedule.Code, appErr.Code)
	})

	t.Run("rejects close before open", func(t *testing.T) {
		uc, _, _, _, _ := newLocationUseCase()

		req := validReq
		req.WorkingDays = []dto.WorkingDayRequest{
			{Day: 2, OpenTime: "20:00", CloseTime: "08:00"},
		}

		_, err := uc.Create(ctx, req)
		require.Error(t, err)
		appErr, ok := err.(*errors.AppError)
		require.True(t, ok)
		assert.Equal(t, errors.ErrInvalidSchedule.Code, appErr.Code)
	})

	t.Run("index failure surfaces without undoing the write", func(t *testing.T) {
		uc, locationRepo, _, searchIndex, _ := newLocationUseCase()
		stored := sampleStoredLocation()

		locationRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(stored, nil)
		searchIndex.On("Upsert", ctx, stored.ID.String(), mock.Anything).Return(errors.ErrIndexSyncFailed)

		_, err := uc.Create(ctx, validReq)
		assert.Equal(t, errors.ErrIndexSyncFailed, err)
		// The relational write happened; no compensating delete is issued.
		locationRepo.AssertCalled(t, "Create", ctx, mock.Anything, mock.Anything)
		locationRepo.AssertNotCalled(t, "SoftDelete", ctx, mock.Anything)
	})

	t.Run("resolves amenities before creating", func(t *testing.T) {
		uc, locationRepo, amenityRepo, searchIndex, cacheRepo := newLocationUseCase()
		stored := sampleStoredLocation()
		amenity := &domain.Amenity{AmenityType: "WiFi"}
		amenity.ID = uuid.New()

		req := validReq
		req.Amenities = []dto.AmenityRequest{{Type: "WiFi"}, {Type: "WiFi"}}

		amenityRepo.On("GetOrCreate", ctx, mock.Anything).Return(amenity, nil)
		locationRepo.On("Create", ctx, mock.Anything, []uuid.UUID{amenity.ID}).Return(stored, nil)
		searchIndex.On("Upsert", ctx, stored.ID.String(), mock.Anything).Return(nil)
		cacheRepo.On("InvalidateSearch", ctx).Return(nil)

		_, err := uc.Create(ctx, req)
		require.NoError(t, err)
		// Repeated amenity types collapse to one linked id.
		locationRepo.AssertCalled(t, "Create", ctx, mock.Anything, []uuid.UUID{amenity.ID})
	})
}

func TestLocationUseCase_Update(t *testing.T) {
	ctx := context.Background()

	req := dto.UpdateLocationRequest{
		Name:      "Renamed Garage",
		Street:    "Main St",
		City:      "Los Angeles",
		Country:   "USA",
		Latitude:  34.0522,
		Longitude: -118.2437,
		WorkingDays: []dto.WorkingDayRequest{
			{Day: 1, OpenTime: "09:00", CloseTime: "18:00"},
		},
	}

	t.Run("partial update leaves charger fields alone", func(t *testing.T) {
		uc, locationRepo, _, searchIndex, cacheRepo := newLocationUseCase()
		stored := sampleStoredLocation()
		stored.Name = "Renamed Garage"

		locationRepo.On("Update", ctx, stored.ID, mock.Anything, mock.Anything).Return(stored, nil)
		searchIndex.On("PartialUpdate", ctx, stored.ID.String(), mock.MatchedBy(func(fields map[string]interface{}) bool {
			_, hasCount := fields["station_count"]
			_, hasTypes := fields["charger_types"]
			return !hasCount && !hasTypes && fields["location_name"] == "Renamed Garage"
		})).Return(nil)
		cacheRepo.On("InvalidateSearch", ctx).Return(nil)

		resp, err := uc.Update(ctx, stored.ID, req)
		require.NoError(t, err)
		assert.Equal(t, "Renamed Garage", resp.Name)
		searchIndex.AssertExpectations(t)
	})

	t.Run("not found propagates", func(t *testing.T) {
		uc, locationRepo, _, _, _ := newLocationUseCase()
		id := uuid.New()

		locationRepo.On("Update", ctx, id, mock.Anything, mock.Anything).Return(nil, errors.ErrLocationNotFound)

		_, err := uc.Update(ctx, id, req)
		assert.Equal(t, errors.ErrLocationNotFound, err)
	})
}

func TestLocationUseCase_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades then removes the document", func(t *testing.T) {
		uc, locationRepo, _, searchIndex, cacheRepo := newLocationUseCase()
		id := uuid.New()

		locationRepo.On("SoftDelete", ctx, id).Return(nil)
		searchIndex.On("Delete", ctx, id.String()).Return(nil)
		cacheRepo.On("InvalidateSearch", ctx).Return(nil)

		err := uc.Delete(ctx, id)
		require.NoError(t, err)
		searchIndex.AssertExpectations(t)
	})

	t.Run("missing index document is not an error", func(t *testing.T) {
		uc, locationRepo, _, searchIndex, cacheRepo := newLocationUseCase()
		id := uuid.New()

		locationRepo.On("SoftDelete", ctx, id).Return(nil)
		searchIndex.On("Delete", ctx, id.String()).Return(errors.ErrDocumentNotFound)
		cacheRepo.On("InvalidateSearch", ctx).Return(nil)

		err := uc.Delete(ctx, id)
		assert.NoError(t, err)
	})

	t.Run("index failure surfaces as sync error", func(t *testing.T) {
		uc, locationRepo, _, searchIndex, _ := newLocationUseCase()
		id := uuid.New()

		locationRepo.On("SoftDelete", ctx, id).Return(nil)
		searchIndex.On("Delete", ctx, id.String()).Return(errors.ErrSearchError)

		err := uc.Delete(ctx, id)
		assert.Equal(t, errors.ErrIndexSyncFailed, err)
	})
}

func TestLocationUseCase_Resync(t *testing.T) {
	ctx := context.Background()

	t.Run("wipes then rebuilds every live location", func(t *testing.T) {
		uc, locationRepo, _, searchIndex, cacheRepo := newLocationUseCase()

		first := sampleStoredLocation()
		second := sampleStoredLocation()
		second.Chargers = []domain.EVCharger{
			{Ports: []domain.EVChargerPort{{
				PlugType:    &domain.PowerPlugType{PlugType: "CCS", PowerModel: domain.PowerModelDC},
				PowerOutput: &domain.PowerOutput{OutputValue: 150},
			}}},
		}

		searchIndex.On("Wipe", ctx).Return(nil)
		searchIndex.On("EnsureIndex", ctx).Return(nil)
		locationRepo.On("ListAllDetailed", ctx).Return([]*domain.Location{first, second}, nil)
		searchIndex.On("BulkInsert", ctx, mock.MatchedBy(func(docs []*domain.LocationDocument) bool {
			return len(docs) == 2 && docs[0].StationCount == 0 && docs[1].StationCount == 1
		})).Return(nil)
		cacheRepo.On("InvalidateSearch", ctx).Return(nil)

		resp, err := uc.Resync(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, resp.IndexedLocations)
		searchIndex.AssertExpectations(t)
	})

	t.Run("empty catalog still recreates the index", func(t *testing.T) {
		uc, locationRepo, _, searchIndex, cacheRepo := newLocationUseCase()

		searchIndex.On("Wipe", ctx).Return(nil)
		searchIndex.On("EnsureIndex", ctx).Return(nil)
		locationRepo.On("ListAllDetailed", ctx).Return([]*domain.Location{}, nil)
		searchIndex.On("BulkInsert", ctx, mock.MatchedBy(func(docs []*domain.LocationDocument) bool {
			return len(docs) == 0
		})).Return(nil)
		cacheRepo.On("InvalidateSearch", ctx).Return(nil)

		resp, err := uc.Resync(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, resp.IndexedLocations)
		searchIndex.AssertCalled(t, "EnsureIndex", ctx)
	})

	t.Run("wipe failure aborts before reading", func(t *testing.T) {
		uc, locationRepo, _, searchIndex, _ := newLocationUseCase()

		searchIndex.On("Wipe", ctx).Return(errors.ErrIndexSyncFailed)

		_, err := uc.Resync(ctx)
		assert.Equal(t, errors.ErrIndexSyncFailed, err)
		locationRepo.AssertNotCalled(t, "ListAllDetailed", ctx)
		searchIndex.AssertNotCalled(t, "EnsureIndex", ctx)
	})
}
