package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/charging-catalog/internal/domain"
	"github.com/charging-catalog/internal/domain/repository"
	"github.com/charging-catalog/internal/pkg/errors"
	"github.com/charging-catalog/internal/pkg/metrics"
	"github.com/charging-catalog/internal/usecase/dto"
)

// ChargerUseCase keeps the index counters in step with charger writes.
// The convention: station_count moves by one per charger on create and
// on delete, never per port; charger_types carries one {type,
// power_output} pair per port.
type ChargerUseCase struct {
	chargerRepo   repository.ChargerRepository
	locationRepo  repository.LocationRepository
	referenceRepo repository.ReferenceRepository
	searchIndex   repository.SearchIndex
	cacheRepo     repository.CacheRepository
	logger        *zap.Logger
}

func NewChargerUseCase(
	chargerRepo repository.ChargerRepository,
	locationRepo repository.LocationRepository,
	referenceRepo repository.ReferenceRepository,
	searchIndex repository.SearchIndex,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
) *ChargerUseCase {
	return &ChargerUseCase{
		chargerRepo:   chargerRepo,
		locationRepo:  locationRepo,
		referenceRepo: referenceRepo,
		searchIndex:   searchIndex,
		cacheRepo:     cacheRepo,
		logger:        logger,
	}
}

// Create registers a charger at a location. A HereID that already exists
// resolves to the stored charger without touching the index counters, so
// replayed feed batches cannot inflate station_count.
func (uc *ChargerUseCase) Create(ctx context.Context, req dto.CreateChargerRequest) (*dto.ChargerResponse, error) {
	locationID, err := uuid.Parse(req.LocationID)
	if err != nil {
		return nil, errors.ErrInvalidRequest
	}
	if _, err := uc.locationRepo.GetByID(ctx, locationID); err != nil {
		return nil, err
	}

	charger := &domain.EVCharger{
		LocationID:    locationID,
		HereID:        req.HereID,
		StationName:   req.StationName,
		CpoID:         req.CpoID,
		CpoEvseEmi3ID: req.CpoEvseEmi3ID,
		Availability:  availabilityOrDefault(req.Availability),
	}
	if charger.Ports, err = uc.resolvePorts(ctx, req.Ports); err != nil {
		return nil, err
	}

	result, err := uc.chargerRepo.Upsert(ctx, charger)
	if err != nil {
		return nil, err
	}

	if result.Created {
		pairs := domain.PortChargerTypes(result.Charger.Ports)
		if err := uc.searchIndex.AddChargerTypes(ctx, locationID.String(), pairs, 1); err != nil {
			metrics.IndexSyncTotal.WithLabelValues("charger_add", "failure").Inc()
			uc.logger.Error("Charger created but index sync failed",
				zap.String("charger_id", result.Charger.ID.String()),
				zap.String("location_id", locationID.String()),
				zap.Error(err),
			)
			return nil, errors.ErrIndexSyncFailed
		}
		metrics.IndexSyncTotal.WithLabelValues("charger_add", "success").Inc()
		uc.invalidateSearchCache(ctx)
	}

	resp := dto.ConvertCharger(result.Charger)
	return &resp, nil
}

func (uc *ChargerUseCase) GetByID(ctx context.Context, id uuid.UUID) (*dto.ChargerResponse, error) {
	charger, err := uc.chargerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ConvertCharger(charger)
	return &resp, nil
}

// Update reconciles the port set and swaps the old charger_types pairs
// for the new ones. station_count stays put: the charger still exists.
func (uc *ChargerUseCase) Update(ctx context.Context, id uuid.UUID, req dto.UpdateChargerRequest) (*dto.ChargerResponse, error) {
	charger := &domain.EVCharger{
		StationName:   req.StationName,
		CpoID:         req.CpoID,
		CpoEvseEmi3ID: req.CpoEvseEmi3ID,
		Availability:  availabilityOrDefault(req.Availability),
	}

	ports, err := uc.resolvePorts(ctx, req.Ports)
	if err != nil {
		return nil, err
	}
	charger.Ports = ports

	updated, previousPorts, err := uc.chargerRepo.Update(ctx, id, charger)
	if err != nil {
		return nil, err
	}

	oldPairs := domain.PortChargerTypes(previousPorts)
	newPairs := domain.PortChargerTypes(updated.Ports)
	if err := uc.searchIndex.ReplaceChargerTypes(ctx, updated.LocationID.String(), oldPairs, newPairs); err != nil {
		metrics.IndexSyncTotal.WithLabelValues("charger_replace", "failure").Inc()
		uc.logger.Error("Charger updated but index sync failed",
			zap.String("charger_id", id.String()),
			zap.Error(err),
		)
		return nil, errors.ErrIndexSyncFailed
	}
	metrics.IndexSyncTotal.WithLabelValues("charger_replace", "success").Inc()

	uc.invalidateSearchCache(ctx)

	resp := dto.ConvertCharger(updated)
	return &resp, nil
}

// Delete soft-deletes the charger and unwinds its index contribution:
// its pairs leave charger_types and station_count drops by one.
func (uc *ChargerUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	charger, err := uc.chargerRepo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}

	pairs := domain.PortChargerTypes(charger.Ports)
	if err := uc.searchIndex.RemoveChargerTypes(ctx, charger.LocationID.String(), pairs, 1); err != nil {
		metrics.IndexSyncTotal.WithLabelValues("charger_remove", "failure").Inc()
		uc.logger.Error("Charger deleted but index sync failed",
			zap.String("charger_id", id.String()),
			zap.Error(err),
		)
		return errors.ErrIndexSyncFailed
	}
	metrics.IndexSyncTotal.WithLabelValues("charger_remove", "success").Inc()

	uc.invalidateSearchCache(ctx)
	return nil
}

// resolvePorts maps port requests to entities, resolving each plug-type
// and power-output against the lookup tables by natural key.
func (uc *ChargerUseCase) resolvePorts(ctx context.Context, reqs []dto.PortRequest) ([]domain.EVChargerPort, error) {
	ports := make([]domain.EVChargerPort, 0, len(reqs))

	for _, req := range reqs {
		plug, err := uc.referenceRepo.GetOrCreatePlugType(ctx, &domain.PowerPlugType{
			SupplierName: req.SupplierName,
			PowerModel:   domain.PowerModel(req.PowerModel),
			PlugType:     req.PlugType,
			FixedPlug:    req.FixedPlug,
		})
		if err != nil {
			return nil, err
		}

		out, err := uc.referenceRepo.GetOrCreatePowerOutput(ctx, &domain.PowerOutput{
			OutputValue:   req.PowerOutputKw,
			Voltage:       req.Voltage,
			Amperage:      req.Amperage,
			ChargingSpeed: req.ChargingSpeed,
		})
		if err != nil {
			return nil, err
		}

		ports = append(ports, domain.EVChargerPort{
			HereID:        req.HereID,
			PlugTypeID:    plug.ID,
			PowerOutputID: out.ID,
			PlugType:      plug,
			PowerOutput:   out,
		})
	}
	return ports, nil
}

func (uc *ChargerUseCase) invalidateSearchCache(ctx context.Context) {
	if err := uc.cacheRepo.InvalidateSearch(ctx); err != nil {
		uc.logger.Warn("Failed to invalidate search cache", zap.Error(err))
	}
}

func availabilityOrDefault(value string) domain.Availability {
	if value == "" {
		return domain.AvailabilityOther
	}
	return domain.Availability(value)
}
