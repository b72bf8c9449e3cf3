package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/charging-catalog/internal/domain"
	"github.com/charging-catalog/internal/domain/repository"
	"github.com/charging-catalog/internal/pkg/errors"
	"github.com/charging-catalog/internal/pkg/metrics"
	"github.com/charging-catalog/internal/pkg/utils"
	"github.com/charging-catalog/internal/usecase/dto"
)

// LocationUseCase orchestrates the dual-store writes: PostgreSQL first,
// then the search index. Index failures after a committed relational
// write surface as ErrIndexSyncFailed and never roll the write back; a
// full resync repairs any divergence.
type LocationUseCase struct {
	locationRepo repository.LocationRepository
	amenityRepo  repository.AmenityRepository
	searchIndex  repository.SearchIndex
	cacheRepo    repository.CacheRepository
	logger       *zap.Logger
}

func NewLocationUseCase(
	locationRepo repository.LocationRepository,
	amenityRepo repository.AmenityRepository,
	searchIndex repository.SearchIndex,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
) *LocationUseCase {
	return &LocationUseCase{
		locationRepo: locationRepo,
		amenityRepo:  amenityRepo,
		searchIndex:  searchIndex,
		cacheRepo:    cacheRepo,
		logger:       logger,
	}
}

func (uc *LocationUseCase) Create(ctx context.Context, req dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if !utils.ValidateCoordinates(req.Latitude, req.Longitude) {
		return nil, errors.ErrInvalidCoordinates
	}
	if err := validateWorkingDays(req.WorkingDays); err != nil {
		return nil, err
	}

	amenityIDs, err := uc.resolveAmenities(ctx, req.Amenities)
	if err != nil {
		return nil, err
	}

	loc := locationFromCreate(req)

	created, err := uc.locationRepo.Create(ctx, loc, amenityIDs)
	if err != nil {
		return nil, err
	}

	// New locations index immediately with zero chargers, so search can
	// see them before the first charger registers.
	doc := domain.BuildLocationDocument(created)
	if err := uc.searchIndex.Upsert(ctx, doc.ID, doc); err != nil {
		metrics.IndexSyncTotal.WithLabelValues("upsert", "failure").Inc()
		uc.logger.Error("Location created but index sync failed",
			zap.String("location_id", created.ID.String()),
			zap.Error(err),
		)
		return nil, errors.ErrIndexSyncFailed
	}
	metrics.IndexSyncTotal.WithLabelValues("upsert", "success").Inc()

	uc.invalidateSearchCache(ctx)

	resp := dto.ConvertLocation(created)
	return &resp, nil
}

func (uc *LocationUseCase) GetByID(ctx context.Context, id uuid.UUID) (*dto.LocationResponse, error) {
	loc, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ConvertLocation(loc)
	return &resp, nil
}

func (uc *LocationUseCase) List(ctx context.Context, req dto.ListLocationsRequest) (*dto.ListLocationsResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	locations, total, err := uc.locationRepo.List(ctx,
		repository.LocationFilter{City: req.City, Country: req.Country, Text: req.Text},
		repository.Pagination{Page: req.Page, PageSize: req.PageSize},
	)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListLocationsResponse{
		Locations: make([]dto.LocationResponse, 0, len(locations)),
		Total:     total,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	for _, loc := range locations {
		resp.Locations = append(resp.Locations, dto.ConvertLocation(loc))
	}
	return resp, nil
}

func (uc *LocationUseCase) Update(ctx context.Context, id uuid.UUID, req dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	if !utils.ValidateCoordinates(req.Latitude, req.Longitude) {
		return nil, errors.ErrInvalidCoordinates
	}
	if err := validateWorkingDays(req.WorkingDays); err != nil {
		return nil, err
	}

	amenityIDs, err := uc.resolveAmenities(ctx, req.Amenities)
	if err != nil {
		return nil, err
	}

	loc := locationFromUpdate(req)

	updated, err := uc.locationRepo.Update(ctx, id, loc, amenityIDs)
	if err != nil {
		return nil, err
	}

	// Partial document update: address and descriptive fields plus the
	// recomputed schedules and amenities. charger_types and
	// station_count belong to the charger write path and stay untouched.
	doc := domain.BuildLocationDocument(updated)
	fields := map[string]interface{}{
		"location_name": doc.Name,
		"street":        doc.Street,
		"district":      doc.District,
		"city":          doc.City,
		"country":       doc.Country,
		"postal_code":   doc.PostalCode,
		"latitude":      doc.Latitude,
		"longitude":     doc.Longitude,
		"location":      doc.GeoPoint,
		"pricing":       doc.Pricing,
		"phone_number":  doc.PhoneNumber,
		"parking_level": doc.ParkingLevel,
		"description":   doc.Description,
		"working_days":  doc.WorkingDays,
		"amenities":     doc.Amenities,
	}
	if err := uc.searchIndex.PartialUpdate(ctx, doc.ID, fields); err != nil {
		metrics.IndexSyncTotal.WithLabelValues("update", "failure").Inc()
		uc.logger.Error("Location updated but index sync failed",
			zap.String("location_id", id.String()),
			zap.Error(err),
		)
		return nil, errors.ErrIndexSyncFailed
	}
	metrics.IndexSyncTotal.WithLabelValues("update", "success").Inc()

	uc.invalidateSearchCache(ctx)

	resp := dto.ConvertLocation(updated)
	return &resp, nil
}

func (uc *LocationUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	if err := uc.locationRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	if err := uc.searchIndex.Delete(ctx, id.String()); err != nil {
		if err == errors.ErrDocumentNotFound {
			// Already absent from the index; nothing left to unwind.
			uc.logger.Warn("Deleted location had no index document", zap.String("location_id", id.String()))
		} else {
			metrics.IndexSyncTotal.WithLabelValues("delete", "failure").Inc()
			uc.logger.Error("Location deleted but index sync failed",
				zap.String("location_id", id.String()),
				zap.Error(err),
			)
			return errors.ErrIndexSyncFailed
		}
	} else {
		metrics.IndexSyncTotal.WithLabelValues("delete", "success").Inc()
	}

	uc.invalidateSearchCache(ctx)
	return nil
}

// Resync rebuilds the whole index from the relational store: wipe, read
// every live location fully hydrated, bulk insert fresh documents. The
// repair path for any accumulated index drift.
func (uc *LocationUseCase) Resync(ctx context.Context) (*dto.ResyncResponse, error) {
	if err := uc.searchIndex.Wipe(ctx); err != nil {
		return nil, err
	}
	// Recreate the index right away: bulk insert skips empty batches, so
	// an empty catalog would otherwise leave nothing behind the wipe.
	if err := uc.searchIndex.EnsureIndex(ctx); err != nil {
		return nil, err
	}

	locations, err := uc.locationRepo.ListAllDetailed(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]*domain.LocationDocument, 0, len(locations))
	for _, loc := range locations {
		docs = append(docs, domain.BuildLocationDocument(loc))
	}

	if err := uc.searchIndex.BulkInsert(ctx, docs); err != nil {
		metrics.IndexSyncTotal.WithLabelValues("resync", "failure").Inc()
		return nil, err
	}
	metrics.IndexSyncTotal.WithLabelValues("resync", "success").Inc()

	uc.invalidateSearchCache(ctx)

	uc.logger.Info("Index resync completed", zap.Int("locations", len(docs)))
	return &dto.ResyncResponse{IndexedLocations: len(docs)}, nil
}

func (uc *LocationUseCase) resolveAmenities(ctx context.Context, amenities []dto.AmenityRequest) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(amenities))
	seen := make(map[uuid.UUID]bool, len(amenities))

	for _, req := range amenities {
		amenity, err := uc.amenityRepo.GetOrCreate(ctx, &domain.Amenity{
			AmenityType: req.Type,
			ImageURL:    req.ImageURL,
		})
		if err != nil {
			return nil, err
		}
		if !seen[amenity.ID] {
			seen[amenity.ID] = true
			ids = append(ids, amenity.ID)
		}
	}
	return ids, nil
}

// Cache invalidation is best-effort: a stale entry expires on its own TTL.
func (uc *LocationUseCase) invalidateSearchCache(ctx context.Context) {
	if err := uc.cacheRepo.InvalidateSearch(ctx); err != nil {
		uc.logger.Warn("Failed to invalidate search cache", zap.Error(err))
	}
}

// validateWorkingDays rejects duplicate weekdays and spans that end
// before they start; overnight schedules are not represented.
func validateWorkingDays(days []dto.WorkingDayRequest) error {
	seen := make(map[int]bool, len(days))
	for _, day := range days {
		if seen[day.Day] {
			return errors.ErrInvalidSchedule.WithDetails(map[string]interface{}{"day": day.Day})
		}
		seen[day.Day] = true

		openAt, err := time.Parse("15:04", day.OpenTime)
		if err != nil {
			return errors.ErrInvalidSchedule
		}
		closeAt, err := time.Parse("15:04", day.CloseTime)
		if err != nil {
			return errors.ErrInvalidSchedule
		}
		if closeAt.Before(openAt) {
			return errors.ErrInvalidSchedule.WithDetails(map[string]interface{}{"day": day.Day})
		}
	}
	return nil
}

func locationFromCreate(req dto.CreateLocationRequest) *domain.Location {
	access := domain.AccessPublic
	if req.Access != "" {
		access = domain.LocationAccess(req.Access)
	}

	loc := &domain.Location{
		HereID:             req.HereID,
		ExternalID:         req.ExternalID,
		Name:               req.Name,
		Street:             req.Street,
		HouseNumber:        req.HouseNumber,
		District:           req.District,
		City:               req.City,
		State:              req.State,
		County:             req.County,
		Country:            req.Country,
		PostalCode:         req.PostalCode,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		PhoneNumber:        req.PhoneNumber,
		WebsiteURL:         req.WebsiteURL,
		Description:        req.Description,
		ImageURL:           req.ImageURL,
		Pricing:            req.Pricing,
		ParkingLevel:       req.ParkingLevel,
		TotalChargingPorts: req.TotalChargingPorts,
		Access:             access,
		PaymentMethods:     req.PaymentMethods,
	}
	for _, wd := range req.WorkingDays {
		loc.WorkingDays = append(loc.WorkingDays, domain.WorkingDay{
			Day:       wd.Day,
			OpenTime:  wd.OpenTime,
			CloseTime: wd.CloseTime,
		})
	}
	return loc
}

func locationFromUpdate(req dto.UpdateLocationRequest) *domain.Location {
	return locationFromCreate(dto.CreateLocationRequest{
		ExternalID:         req.ExternalID,
		Name:               req.Name,
		Street:             req.Street,
		HouseNumber:        req.HouseNumber,
		District:           req.District,
		City:               req.City,
		State:              req.State,
		County:             req.County,
		Country:            req.Country,
		PostalCode:         req.PostalCode,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		PhoneNumber:        req.PhoneNumber,
		WebsiteURL:         req.WebsiteURL,
		Description:        req.Description,
		ImageURL:           req.ImageURL,
		Pricing:            req.Pricing,
		ParkingLevel:       req.ParkingLevel,
		TotalChargingPorts: req.TotalChargingPorts,
		Access:             req.Access,
		PaymentMethods:     req.PaymentMethods,
		WorkingDays:        req.WorkingDays,
	})
}
