package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/charging-catalog/internal/domain"
	"github.com/charging-catalog/internal/domain/repository"
	"github.com/charging-catalog/internal/pkg/metrics"
	"github.com/charging-catalog/internal/usecase/dto"
)

// IngestUseCase turns upstream feed items into catalog writes. A feed
// item maps to one location plus one charger per EVSE; re-ingesting the
// same item is a no-op because locations are keyed by HereID and
// chargers upsert by their own here_id.
type IngestUseCase struct {
	locationRepo repository.LocationRepository
	locationUC   *LocationUseCase
	chargerUC    *ChargerUseCase
	logger       *zap.Logger
}

func NewIngestUseCase(
	locationRepo repository.LocationRepository,
	locationUC *LocationUseCase,
	chargerUC *ChargerUseCase,
	logger *zap.Logger,
) *IngestUseCase {
	return &IngestUseCase{
		locationRepo: locationRepo,
		locationUC:   locationUC,
		chargerUC:    chargerUC,
		logger:       logger,
	}
}

// IngestItem upserts one feed item. It returns how many chargers were
// written for the item.
func (uc *IngestUseCase) IngestItem(ctx context.Context, item *domain.FeedItem) (int, error) {
	locationID, err := uc.ensureLocation(ctx, item)
	if err != nil {
		return 0, err
	}

	chargers := 0
	for _, req := range chargerRequests(item, locationID) {
		if _, err := uc.chargerUC.Create(ctx, req); err != nil {
			uc.logger.Warn("Failed to upsert charger from feed",
				zap.String("location_here_id", item.ID),
				zap.String("charger_here_id", req.HereID),
				zap.Error(err))
			continue
		}
		chargers++
	}

	metrics.FeedItemsIngested.Inc()
	return chargers, nil
}

// ensureLocation returns the catalog id for the item's location,
// creating it on first sight.
func (uc *IngestUseCase) ensureLocation(ctx context.Context, item *domain.FeedItem) (string, error) {
	existing, err := uc.locationRepo.GetByHereID(ctx, item.ID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID.String(), nil
	}

	created, err := uc.locationUC.Create(ctx, locationRequest(item))
	if err != nil {
		return "", err
	}

	uc.logger.Info("Created location from feed",
		zap.String("here_id", item.ID),
		zap.String("location_id", created.ID.String()))
	return created.ID.String(), nil
}

func locationRequest(item *domain.FeedItem) dto.CreateLocationRequest {
	req := dto.CreateLocationRequest{
		HereID:    item.ID,
		Name:      item.Title,
		Street:    item.Address.Street,
		City:      item.Address.City,
		Country:   item.Address.CountryName,
		Latitude:  item.Position.Lat,
		Longitude: item.Position.Lng,
	}
	if item.Address.HouseNumber != "" {
		req.HouseNumber = &item.Address.HouseNumber
	}
	if item.Address.District != "" {
		req.District = &item.Address.District
	}
	if item.Address.State != "" {
		req.State = &item.Address.State
	}
	if item.Address.County != "" {
		req.County = &item.Address.County
	}
	if item.Address.PostalCode != "" {
		req.PostalCode = &item.Address.PostalCode
	}
	return req
}

// chargerRequests flattens the item's EVSE list into charger create
// requests. Connector details live in evStation.connectors and are
// joined to each EVSE connector by type id.
func chargerRequests(item *domain.FeedItem, locationID string) []dto.CreateChargerRequest {
	var reqs []dto.CreateChargerRequest
	details := item.Extended.EvStation.Connectors

	for si, station := range item.Extended.EvAvailability.Stations {
		for ei, evse := range station.Evses {
			req := dto.CreateChargerRequest{
				LocationID:   locationID,
				HereID:       evseHereID(item.ID, si, ei, evse),
				Availability: availabilityFromState(evse.State),
			}
			if evse.CpoID != "" {
				cpoID := evse.CpoID
				req.CpoID = &cpoID
			}
			if evse.CpoEvseEmi3ID != "" {
				emi3 := evse.CpoEvseEmi3ID
				req.CpoEvseEmi3ID = &emi3
			}

			for _, conn := range evse.Connectors {
				detail, ok := connectorDetail(details, conn.TypeID)
				if !ok {
					continue
				}
				req.Ports = append(req.Ports, portRequest(conn.TypeID, detail))
			}
			if len(req.Ports) == 0 {
				continue
			}
			reqs = append(reqs, req)
		}
	}
	return reqs
}

// evseHereID prefers the operator's EMI3 id and falls back to a
// position-derived key so every EVSE still gets a stable natural key.
func evseHereID(itemID string, stationIdx, evseIdx int, evse domain.FeedEvse) string {
	if evse.CpoEvseEmi3ID != "" {
		return evse.CpoEvseEmi3ID
	}
	if evse.CpoID != "" {
		return fmt.Sprintf("%s:%s", itemID, evse.CpoID)
	}
	return fmt.Sprintf("%s:%d:%d", itemID, stationIdx, evseIdx)
}

func connectorDetail(details []domain.FeedConnector, typeID string) (domain.FeedConnector, bool) {
	for _, d := range details {
		if d.ConnectorType.ID == typeID {
			return d, true
		}
	}
	return domain.FeedConnector{}, false
}

func portRequest(typeID string, detail domain.FeedConnector) dto.PortRequest {
	port := dto.PortRequest{
		HereID:        typeID,
		PlugType:      detail.ConnectorType.Name,
		PowerModel:    powerModelFromVolts(detail.ChargingPoint.VoltsRange),
		PowerOutputKw: detail.MaxPowerLevel,
		Voltage:       parseVoltage(detail.ChargingPoint.VoltsRange),
		Amperage:      parseAmperage(detail.ChargingPoint.AmpsRange),
	}
	if detail.SupplierName != "" {
		supplier := detail.SupplierName
		port.SupplierName = &supplier
	}
	fixed := detail.FixedCable
	port.FixedPlug = &fixed
	return port
}

func powerModelFromVolts(voltsRange string) string {
	if strings.Contains(voltsRange, "DC") {
		return "DC"
	}
	return "AC"
}

// parseVoltage reads the lower bound of ranges like "480V DC" or
// "220-240V AC". Zero means the feed gave nothing usable.
func parseVoltage(voltsRange string) int {
	raw := strings.Split(voltsRange, "-")[0]
	raw = strings.NewReplacer("V", "", "AC", "", "DC", "", " ", "").Replace(raw)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}

func parseAmperage(ampsRange string) int {
	raw := strings.NewReplacer("A", "", " ", "").Replace(ampsRange)
	a, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return a
}

func availabilityFromState(state string) string {
	switch domain.Availability(state) {
	case domain.AvailabilityAvailable, domain.AvailabilityUnavailable,
		domain.AvailabilityOccupied, domain.AvailabilityReserved,
		domain.AvailabilityOutOfService:
		return state
	default:
		return string(domain.AvailabilityOther)
	}
}
