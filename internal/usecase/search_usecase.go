package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/charging-catalog/internal/domain"
	"github.com/charging-catalog/internal/domain/repository"
	"github.com/charging-catalog/internal/pkg/errors"
	"github.com/charging-catalog/internal/pkg/metrics"
	"github.com/charging-catalog/internal/pkg/utils"
	"github.com/charging-catalog/internal/usecase/dto"
)

// Cached facet responses live under the search: namespace so write paths
// can invalidate them wholesale.
const facetCachePrefix = "search:facet:"

// SearchUseCase serves all read queries from the index alone; the
// relational store is never consulted on the search path. Every hit gets
// its open/closed status computed for the moment of the query.
type SearchUseCase struct {
	searchIndex repository.SearchIndex
	refRepo     repository.ReferenceRepository
	amenityRepo repository.AmenityRepository
	cacheRepo   repository.CacheRepository
	logger      *zap.Logger
	cacheTTL    time.Duration
}

func NewSearchUseCase(
	searchIndex repository.SearchIndex,
	refRepo repository.ReferenceRepository,
	amenityRepo repository.AmenityRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *SearchUseCase {
	return &SearchUseCase{
		searchIndex: searchIndex,
		refRepo:     refRepo,
		amenityRepo: amenityRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
		cacheTTL:    cacheTTL,
	}
}

// Search runs the combined text/facet query, serving repeats from cache.
func (uc *SearchUseCase) Search(ctx context.Context, req dto.SearchLocationsRequest) (*dto.SearchResponse, error) {
	timer := prometheus.NewTimer(metrics.SearchDuration.WithLabelValues("facet"))
	defer timer.ObserveDuration()

	if (req.RadiusKm != nil) && (req.Lat == nil || req.Lon == nil) {
		return nil, errors.ErrInvalidRequest
	}
	if req.RadiusKm != nil && !utils.ValidateRadius(*req.RadiusKm) {
		return nil, errors.ErrInvalidRadius
	}
	if req.Lat != nil && req.Lon != nil && !utils.ValidateCoordinates(*req.Lat, *req.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}

	key, err := facetCacheKey(req)
	if err == nil {
		if cached, cacheErr := uc.cacheRepo.Get(ctx, key); cacheErr == nil && cached != nil {
			var resp dto.SearchResponse
			if json.Unmarshal(cached, &resp) == nil {
				uc.attachStatus(resp.Results)
				return &resp, nil
			}
		}
	}

	docs, err := uc.searchIndex.FacetSearch(ctx, repository.FacetSearchQuery{
		Text:            req.Query,
		Fuzzy:           req.Fuzzy,
		StationCountGte: req.StationCount,
		PowerOutputGte:  req.PowerOutputGte,
		PowerOutputLte:  req.PowerOutputLte,
		ChargerTypes:    req.ChargerTypes,
		Amenities:       req.Amenities,
		Lat:             req.Lat,
		Lon:             req.Lon,
		RadiusKm:        req.RadiusKm,
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.SearchResponse{Results: docs, Total: len(docs)}

	// Cache before status attach: status depends on the query time and
	// must be recomputed per read.
	if key != "" {
		if body, marshalErr := json.Marshal(resp); marshalErr == nil {
			if cacheErr := uc.cacheRepo.Set(ctx, key, body, uc.cacheTTL); cacheErr != nil {
				uc.logger.Warn("Failed to cache search response", zap.Error(cacheErr))
			}
		}
	}

	uc.attachStatus(resp.Results)
	return resp, nil
}

// Nearby is the pure radius query around a point.
func (uc *SearchUseCase) Nearby(ctx context.Context, req dto.NearbyLocationsRequest) (*dto.SearchResponse, error) {
	timer := prometheus.NewTimer(metrics.SearchDuration.WithLabelValues("radius"))
	defer timer.ObserveDuration()

	if !utils.ValidateCoordinates(req.Lat, req.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}
	if !utils.ValidateRadius(req.RadiusKm) {
		return nil, errors.ErrInvalidRadius
	}

	docs, err := uc.searchIndex.RadiusSearch(ctx, req.Lat, req.Lon, req.RadiusKm)
	if err != nil {
		return nil, err
	}

	uc.attachStatus(docs)
	return &dto.SearchResponse{Results: docs, Total: len(docs)}, nil
}

// AlongRoute buffers the route polyline into a closed corridor polygon
// and returns the locations inside it.
func (uc *SearchUseCase) AlongRoute(ctx context.Context, req dto.AlongRouteRequest) (*dto.SearchResponse, error) {
	timer := prometheus.NewTimer(metrics.SearchDuration.WithLabelValues("polygon"))
	defer timer.ObserveDuration()

	route := make([]domain.Point, 0, len(req.Route))
	for _, p := range req.Route {
		if !utils.ValidateCoordinates(p.Lat, p.Lon) {
			return nil, errors.ErrInvalidCoordinates
		}
		route = append(route, domain.Point{Lat: p.Lat, Lon: p.Lon})
	}

	polygon := utils.BufferRoute(route, utils.RouteBufferDegrees)
	if len(polygon) < 4 {
		return nil, errors.ErrInvalidRequest
	}

	docs, err := uc.searchIndex.PolygonSearch(ctx, polygon)
	if err != nil {
		return nil, err
	}

	uc.attachStatus(docs)
	return &dto.SearchResponse{Results: docs, Total: len(docs)}, nil
}

// Filters returns the facet values currently known to the catalog, read
// from the lookup tables so filter UIs offer only selectable options.
func (uc *SearchUseCase) Filters(ctx context.Context) (*dto.SearchFiltersResponse, error) {
	chargerTypes, err := uc.refRepo.ListPlugTypeLabels(ctx)
	if err != nil {
		return nil, err
	}

	amenities, err := uc.amenityRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.SearchFiltersResponse{
		ChargerTypes: make([]string, 0, len(chargerTypes)),
		Amenities:    make([]string, 0, len(amenities)),
	}
	resp.ChargerTypes = append(resp.ChargerTypes, chargerTypes...)
	for _, a := range amenities {
		resp.Amenities = append(resp.Amenities, a.AmenityType)
	}
	return resp, nil
}

func (uc *SearchUseCase) attachStatus(docs []*domain.LocationDocument) {
	now := time.Now()
	for _, doc := range docs {
		doc.Status = domain.ResolveStatusAt(doc.WorkingDays, now)
	}
}

// facetCacheKey hashes the normalized request so equivalent queries share
// one cache entry.
func facetCacheKey(req dto.SearchLocationsRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(body)
	return facetCachePrefix + hex.EncodeToString(sum[:]), nil
}
