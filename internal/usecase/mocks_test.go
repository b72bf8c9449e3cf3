package usecase_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/charging-catalog/internal/domain"
	"github.com/charging-catalog/internal/domain/repository"
)

// MockLocationRepository is a mock of LocationRepository
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) Create(ctx context.Context, loc *domain.Location, amenityIDs []uuid.UUID) (*domain.Location, error) {
	args := m.Called(ctx, loc, amenityIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockLocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockLocationRepository) GetByHereID(ctx context.Context, hereID string) (*domain.Location, error) {
	args := m.Called(ctx, hereID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockLocationRepository) List(ctx context.Context, filter repository.LocationFilter, page repository.Pagination) ([]*domain.Location, int, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Location), args.Int(1), args.Error(2)
}

func (m *MockLocationRepository) ListAllDetailed(ctx context.Context) ([]*domain.Location, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Location), args.Error(1)
}

func (m *MockLocationRepository) Update(ctx context.Context, id uuid.UUID, loc *domain.Location, amenityIDs []uuid.UUID) (*domain.Location, error) {
	args := m.Called(ctx, id, loc, amenityIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockLocationRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockChargerRepository is a mock of ChargerRepository
type MockChargerRepository struct {
	mock.Mock
}

func (m *MockChargerRepository) Upsert(ctx context.Context, charger *domain.EVCharger) (*repository.UpsertResult, error) {
	args := m.Called(ctx, charger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.UpsertResult), args.Error(1)
}

func (m *MockChargerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.EVCharger, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EVCharger), args.Error(1)
}

func (m *MockChargerRepository) Update(ctx context.Context, id uuid.UUID, charger *domain.EVCharger) (*domain.EVCharger, []domain.EVChargerPort, error) {
	args := m.Called(ctx, id, charger)
	var updated *domain.EVCharger
	if args.Get(0) != nil {
		updated = args.Get(0).(*domain.EVCharger)
	}
	var ports []domain.EVChargerPort
	if args.Get(1) != nil {
		ports = args.Get(1).([]domain.EVChargerPort)
	}
	return updated, ports, args.Error(2)
}

func (m *MockChargerRepository) SoftDelete(ctx context.Context, id uuid.UUID) (*domain.EVCharger, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EVCharger), args.Error(1)
}

// MockReferenceRepository is a mock of ReferenceRepository
type MockReferenceRepository struct {
	mock.Mock
}

func (m *MockReferenceRepository) GetOrCreatePowerOutput(ctx context.Context, out *domain.PowerOutput) (*domain.PowerOutput, error) {
	args := m.Called(ctx, out)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PowerOutput), args.Error(1)
}

func (m *MockReferenceRepository) GetOrCreatePlugType(ctx context.Context, plug *domain.PowerPlugType) (*domain.PowerPlugType, error) {
	args := m.Called(ctx, plug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PowerPlugType), args.Error(1)
}

func (m *MockReferenceRepository) GetPowerOutput(ctx context.Context, id uuid.UUID) (*domain.PowerOutput, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PowerOutput), args.Error(1)
}

func (m *MockReferenceRepository) GetPlugType(ctx context.Context, id uuid.UUID) (*domain.PowerPlugType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PowerPlugType), args.Error(1)
}

func (m *MockReferenceRepository) ListPlugTypeLabels(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockAmenityRepository is a mock of AmenityRepository
type MockAmenityRepository struct {
	mock.Mock
}

func (m *MockAmenityRepository) GetOrCreate(ctx context.Context, amenity *domain.Amenity) (*domain.Amenity, error) {
	args := m.Called(ctx, amenity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Amenity), args.Error(1)
}

func (m *MockAmenityRepository) List(ctx context.Context) ([]domain.Amenity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Amenity), args.Error(1)
}

// MockSearchIndex is a mock of SearchIndex
type MockSearchIndex struct {
	mock.Mock
}

func (m *MockSearchIndex) EnsureIndex(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSearchIndex) BulkInsert(ctx context.Context, docs []*domain.LocationDocument) error {
	args := m.Called(ctx, docs)
	return args.Error(0)
}

func (m *MockSearchIndex) Upsert(ctx context.Context, docID string, doc *domain.LocationDocument) error {
	args := m.Called(ctx, docID, doc)
	return args.Error(0)
}

func (m *MockSearchIndex) Get(ctx context.Context, docID string) (*domain.LocationDocument, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LocationDocument), args.Error(1)
}

func (m *MockSearchIndex) PartialUpdate(ctx context.Context, docID string, fields map[string]interface{}) error {
	args := m.Called(ctx, docID, fields)
	return args.Error(0)
}

func (m *MockSearchIndex) Delete(ctx context.Context, docID string) error {
	args := m.Called(ctx, docID)
	return args.Error(0)
}

func (m *MockSearchIndex) Wipe(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSearchIndex) AddChargerTypes(ctx context.Context, docID string, pairs []domain.ChargerType, stationDelta int) error {
	args := m.Called(ctx, docID, pairs, stationDelta)
	return args.Error(0)
}

func (m *MockSearchIndex) ReplaceChargerTypes(ctx context.Context, docID string, old, new []domain.ChargerType) error {
	args := m.Called(ctx, docID, old, new)
	return args.Error(0)
}

func (m *MockSearchIndex) RemoveChargerTypes(ctx context.Context, docID string, pairs []domain.ChargerType, stationDelta int) error {
	args := m.Called(ctx, docID, pairs, stationDelta)
	return args.Error(0)
}

func (m *MockSearchIndex) FacetSearch(ctx context.Context, query repository.FacetSearchQuery) ([]*domain.LocationDocument, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LocationDocument), args.Error(1)
}

func (m *MockSearchIndex) RadiusSearch(ctx context.Context, lat, lon, radiusKm float64) ([]*domain.LocationDocument, error) {
	args := m.Called(ctx, lat, lon, radiusKm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LocationDocument), args.Error(1)
}

func (m *MockSearchIndex) PolygonSearch(ctx context.Context, polygon []domain.Point) ([]*domain.LocationDocument, error) {
	args := m.Called(ctx, polygon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LocationDocument), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) InvalidateSearch(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
