package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/charging-catalog/internal/domain"
	"github.com/charging-catalog/internal/domain/repository"
	"github.com/charging-catalog/internal/pkg/errors"
)

const uniqueViolation = "23505"

const locationColumns = `
	id, version, is_deleted, created_at, updated_at, deleted_at,
	here_id, external_id, location_name, street, house_number, district,
	city, state, county, country, postal_code, latitude, longitude,
	phone_number, website_url, description, image_url, pricing,
	parking_level, total_charging_ports, access, payment_methods`

type locationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewLocationRepository(db *DB) repository.LocationRepository {
	return &locationRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *locationRepository) Create(
	ctx context.Context,
	loc *domain.Location,
	amenityIDs []uuid.UUID,
) (*domain.Location, error) {
	if loc.ID == uuid.Nil {
		loc.ID = uuid.New()
	}

	payments, err := json.Marshal(loc.PaymentMethods)
	if err != nil {
		return nil, errors.ErrInvalidRequest
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.ErrDatabaseError
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO locations (
			id, version, is_deleted, created_at, updated_at,
			here_id, external_id, location_name, street, house_number, district,
			city, state, county, country, postal_code, latitude, longitude,
			phone_number, website_url, description, image_url, pricing,
			parking_level, total_charging_ports, access, payment_methods
		) VALUES (
			$1, 1, FALSE, NOW(), NOW(),
			$2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19,
			$20, $21, $22, $23
		)`,
		loc.ID,
		loc.HereID, loc.ExternalID, loc.Name, loc.Street, loc.HouseNumber, loc.District,
		loc.City, loc.State, loc.County, loc.Country, loc.PostalCode, loc.Latitude, loc.Longitude,
		loc.PhoneNumber, loc.WebsiteURL, loc.Description, loc.ImageURL, loc.Pricing,
		loc.ParkingLevel, loc.TotalChargingPorts, loc.Access, payments,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, errors.ErrDuplicateLocation
		}
		r.logger.Error("Failed to insert location", zap.String("here_id", loc.HereID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	for _, wd := range loc.WorkingDays {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO working_days (id, version, is_deleted, created_at, updated_at, location_id, day, open_time, close_time)
			VALUES ($1, 1, FALSE, NOW(), NOW(), $2, $3, $4, $5)`,
			uuid.New(), loc.ID, wd.Day, wd.OpenTime, wd.CloseTime,
		); err != nil {
			var pgErr *pgconn.PgError
			if stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return nil, errors.ErrInvalidSchedule
			}
			r.logger.Error("Failed to insert working day", zap.Error(err))
			return nil, errors.ErrDatabaseError
		}
	}

	for _, amenityID := range amenityIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO location_amenities (id, version, is_deleted, created_at, updated_at, location_id, amenities_id)
			VALUES ($1, 1, FALSE, NOW(), NOW(), $2, $3)`,
			uuid.New(), loc.ID, amenityID,
		); err != nil {
			r.logger.Error("Failed to link amenity", zap.Error(err))
			return nil, errors.ErrDatabaseError
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.ErrDatabaseError
	}

	return r.GetByID(ctx, loc.ID)
}

func (r *locationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	query := fmt.Sprintf(`SELECT %s FROM locations WHERE id = $1 AND NOT is_deleted`, locationColumns)

	loc, err := r.scanLocation(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.ErrLocationNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get location by ID", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	if err := r.hydrate(ctx, []*domain.Location{loc}, true); err != nil {
		return nil, err
	}
	return loc, nil
}

func (r *locationRepository) GetByHereID(ctx context.Context, hereID string) (*domain.Location, error) {
	query := fmt.Sprintf(`SELECT %s FROM locations WHERE here_id = $1 AND NOT is_deleted`, locationColumns)

	loc, err := r.scanLocation(r.db.QueryRowContext(ctx, query, hereID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get location by here_id", zap.String("here_id", hereID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return loc, nil
}

func (r *locationRepository) List(
	ctx context.Context,
	filter repository.LocationFilter,
	page repository.Pagination,
) ([]*domain.Location, int, error) {
	where := ` WHERE NOT is_deleted`
	args := []interface{}{}
	argIdx := 1

	if filter.City != "" {
		where += fmt.Sprintf(" AND city ILIKE $%d", argIdx)
		args = append(args, filter.City)
		argIdx++
	}
	if filter.Country != "" {
		where += fmt.Sprintf(" AND country = $%d", argIdx)
		args = append(args, filter.Country)
		argIdx++
	}
	if filter.Text != "" {
		where += fmt.Sprintf(" AND (location_name ILIKE $%d OR street ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Text+"%")
		argIdx++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM locations`+where, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count locations", zap.Error(err))
		return nil, 0, errors.ErrDatabaseError
	}

	query := fmt.Sprintf(`SELECT %s FROM locations%s ORDER BY updated_at DESC LIMIT $%d OFFSET $%d`,
		locationColumns, where, argIdx, argIdx+1)
	args = append(args, page.PageSize, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list locations", zap.Error(err))
		return nil, 0, errors.ErrDatabaseError
	}
	defer rows.Close()

	var locations []*domain.Location
	for rows.Next() {
		loc, err := r.scanLocation(rows)
		if err != nil {
			r.logger.Error("Failed to scan location", zap.Error(err))
			continue
		}
		locations = append(locations, loc)
	}

	if err := r.hydrate(ctx, locations, false); err != nil {
		return nil, 0, err
	}
	return locations, total, nil
}

func (r *locationRepository) ListAllDetailed(ctx context.Context) ([]*domain.Location, error) {
	query := fmt.Sprintf(`SELECT %s FROM locations WHERE NOT is_deleted ORDER BY updated_at DESC`, locationColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to read locations for resync", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	var locations []*domain.Location
	for rows.Next() {
		loc, err := r.scanLocation(rows)
		if err != nil {
			r.logger.Error("Failed to scan location", zap.Error(err))
			continue
		}
		locations = append(locations, loc)
	}

	if err := r.hydrate(ctx, locations, true); err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *locationRepository) Update(
	ctx context.Context,
	id uuid.UUID,
	loc *domain.Location,
	amenityIDs []uuid.UUID,
) (*domain.Location, error) {
	payments, err := json.Marshal(loc.PaymentMethods)
	if err != nil {
		return nil, errors.ErrInvalidRequest
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.ErrDatabaseError
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE locations SET
			external_id = $1, location_name = $2, street = $3, house_number = $4,
			district = $5, city = $6, state = $7, county = $8, country = $9,
			postal_code = $10, latitude = $11, longitude = $12, phone_number = $13,
			website_url = $14, description = $15, image_url = $16, pricing = $17,
			parking_level = $18, total_charging_ports = $19, access = $20,
			payment_methods = $21,
			version = version + 1, updated_at = NOW()
		WHERE id = $22 AND NOT is_deleted`,
		loc.ExternalID, loc.Name, loc.Street, loc.HouseNumber,
		loc.District, loc.City, loc.State, loc.County, loc.Country,
		loc.PostalCode, loc.Latitude, loc.Longitude, loc.PhoneNumber,
		loc.WebsiteURL, loc.Description, loc.ImageURL, loc.Pricing,
		loc.ParkingLevel, loc.TotalChargingPorts, loc.Access,
		payments, id,
	)
	if err != nil {
		r.logger.Error("Failed to update location", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, errors.ErrLocationNotFound
	}

	if err := r.reconcileWorkingDays(ctx, tx, id, loc.WorkingDays); err != nil {
		return nil, err
	}
	if err := r.reconcileAmenities(ctx, tx, id, amenityIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.ErrDatabaseError
	}

	return r.GetByID(ctx, id)
}

// reconcileWorkingDays upserts one row per submitted weekday and
// soft-deletes the weekdays missing from the submission, so a location
// never accumulates more than one row per day.
func (r *locationRepository) reconcileWorkingDays(
	ctx context.Context,
	tx *sqlx.Tx,
	locationID uuid.UUID,
	days []domain.WorkingDay,
) error {
	remaining := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 7: true}

	for _, day := range days {
		delete(remaining, day.Day)

		res, err := tx.ExecContext(ctx, `
			UPDATE working_days SET
				open_time = $1, close_time = $2, is_deleted = FALSE, deleted_at = NULL,
				version = version + 1, updated_at = NOW()
			WHERE location_id = $3 AND day = $4`,
			day.OpenTime, day.CloseTime, locationID, day.Day,
		)
		if err != nil {
			r.logger.Error("Failed to update working day", zap.Error(err))
			return errors.ErrDatabaseError
		}
		if n, _ := res.RowsAffected(); n == 0 {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO working_days (id, version, is_deleted, created_at, updated_at, location_id, day, open_time, close_time)
				VALUES ($1, 1, FALSE, NOW(), NOW(), $2, $3, $4, $5)`,
				uuid.New(), locationID, day.Day, day.OpenTime, day.CloseTime,
			); err != nil {
				r.logger.Error("Failed to insert working day", zap.Error(err))
				return errors.ErrDatabaseError
			}
		}
	}

	removed := make([]int64, 0, len(remaining))
	for day := range remaining {
		removed = append(removed, int64(day))
	}
	if len(removed) > 0 {
		if _, err := tx.ExecContext(ctx, `
			UPDATE working_days SET is_deleted = TRUE, deleted_at = NOW(), version = version + 1
			WHERE location_id = $1 AND day = ANY($2) AND NOT is_deleted`,
			locationID, pq.Array(removed),
		); err != nil {
			r.logger.Error("Failed to remove working days", zap.Error(err))
			return errors.ErrDatabaseError
		}
	}

	return nil
}

func (r *locationRepository) reconcileAmenities(
	ctx context.Context,
	tx *sqlx.Tx,
	locationID uuid.UUID,
	amenityIDs []uuid.UUID,
) error {
	keep := make([]string, 0, len(amenityIDs))
	for _, id := range amenityIDs {
		keep = append(keep, id.String())
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM location_amenities
		WHERE location_id = $1 AND NOT (amenities_id = ANY($2))`,
		locationID, pq.Array(keep),
	); err != nil {
		r.logger.Error("Failed to unlink amenities", zap.Error(err))
		return errors.ErrDatabaseError
	}

	for _, amenityID := range amenityIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO location_amenities (id, version, is_deleted, created_at, updated_at, location_id, amenities_id)
			SELECT $1, 1, FALSE, NOW(), NOW(), $2, $3
			WHERE NOT EXISTS (
				SELECT 1 FROM location_amenities WHERE location_id = $2 AND amenities_id = $3
			)`,
			uuid.New(), locationID, amenityID,
		); err != nil {
			r.logger.Error("Failed to link amenity", zap.Error(err))
			return errors.ErrDatabaseError
		}
	}

	return nil
}

func (r *locationRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.ErrDatabaseError
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE locations SET is_deleted = TRUE, deleted_at = NOW(), version = version + 1
		WHERE id = $1 AND NOT is_deleted`, id)
	if err != nil {
		r.logger.Error("Failed to soft delete location", zap.String("id", id.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.ErrLocationNotFound
	}

	// Cascade to owned rows inside the same transaction.
	if _, err := tx.ExecContext(ctx, `
		UPDATE ev_chargers SET is_deleted = TRUE, deleted_at = NOW(), version = version + 1
		WHERE location_id = $1 AND NOT is_deleted`, id); err != nil {
		r.logger.Error("Failed to cascade soft delete to chargers", zap.Error(err))
		return errors.ErrDatabaseError
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE location_search_history SET is_deleted = TRUE, deleted_at = NOW(), version = version + 1
		WHERE location_id = $1 AND NOT is_deleted`, id); err != nil {
		r.logger.Error("Failed to cascade soft delete to search history", zap.Error(err))
		return errors.ErrDatabaseError
	}

	if err := tx.Commit(); err != nil {
		return errors.ErrDatabaseError
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *locationRepository) scanLocation(row rowScanner) (*domain.Location, error) {
	var loc domain.Location
	var payments []byte

	err := row.Scan(
		&loc.ID, &loc.Version, &loc.IsDeleted, &loc.CreatedAt, &loc.UpdatedAt, &loc.DeletedAt,
		&loc.HereID, &loc.ExternalID, &loc.Name, &loc.Street, &loc.HouseNumber, &loc.District,
		&loc.City, &loc.State, &loc.County, &loc.Country, &loc.PostalCode, &loc.Latitude, &loc.Longitude,
		&loc.PhoneNumber, &loc.WebsiteURL, &loc.Description, &loc.ImageURL, &loc.Pricing,
		&loc.ParkingLevel, &loc.TotalChargingPorts, &loc.Access, &payments,
	)
	if err != nil {
		return nil, err
	}

	if len(payments) > 0 {
		if err := json.Unmarshal(payments, &loc.PaymentMethods); err != nil {
			r.logger.Warn("Failed to unmarshal payment methods", zap.String("id", loc.ID.String()), zap.Error(err))
		}
	}
	return &loc, nil
}

// hydrate loads the owned relations for a batch of locations. detailed
// additionally loads chargers with ports and their lookups; the listing
// path skips them since its response shape never shows chargers.
func (r *locationRepository) hydrate(ctx context.Context, locations []*domain.Location, detailed bool) error {
	if len(locations) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Location, len(locations))
	ids := make([]string, 0, len(locations))
	for _, loc := range locations {
		byID[loc.ID] = loc
		ids = append(ids, loc.ID.String())
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, version, is_deleted, created_at, updated_at, deleted_at, location_id, day, open_time, close_time
		FROM working_days
		WHERE location_id = ANY($1) AND NOT is_deleted
		ORDER BY day`, pq.Array(ids))
	if err != nil {
		r.logger.Error("Failed to load working days", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer rows.Close()
	for rows.Next() {
		var wd domain.WorkingDay
		if err := rows.Scan(
			&wd.ID, &wd.Version, &wd.IsDeleted, &wd.CreatedAt, &wd.UpdatedAt, &wd.DeletedAt,
			&wd.LocationID, &wd.Day, &wd.OpenTime, &wd.CloseTime,
		); err != nil {
			r.logger.Error("Failed to scan working day", zap.Error(err))
			continue
		}
		if loc, ok := byID[wd.LocationID]; ok {
			loc.WorkingDays = append(loc.WorkingDays, wd)
		}
	}

	amenityRows, err := r.db.QueryContext(ctx, `
		SELECT la.location_id,
			a.id, a.version, a.is_deleted, a.created_at, a.updated_at, a.deleted_at,
			a.amenities_types, a.image_url
		FROM location_amenities la
		JOIN amenities a ON a.id = la.amenities_id AND NOT a.is_deleted
		WHERE la.location_id = ANY($1) AND NOT la.is_deleted`, pq.Array(ids))
	if err != nil {
		r.logger.Error("Failed to load amenities", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer amenityRows.Close()
	for amenityRows.Next() {
		var locationID uuid.UUID
		var a domain.Amenity
		if err := amenityRows.Scan(
			&locationID,
			&a.ID, &a.Version, &a.IsDeleted, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt,
			&a.AmenityType, &a.ImageURL,
		); err != nil {
			r.logger.Error("Failed to scan amenity", zap.Error(err))
			continue
		}
		if loc, ok := byID[locationID]; ok {
			loc.Amenities = append(loc.Amenities, a)
		}
	}

	if !detailed {
		return nil
	}
	return r.hydrateChargers(ctx, byID, ids)
}

func (r *locationRepository) hydrateChargers(
	ctx context.Context,
	byID map[uuid.UUID]*domain.Location,
	ids []string,
) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, version, is_deleted, created_at, updated_at, deleted_at,
			location_id, here_id, station_name, cpo_id, cpo_evse_emi3_id, availability,
			last_updated, installation_date, last_maintenance_date
		FROM ev_chargers
		WHERE location_id = ANY($1) AND NOT is_deleted`, pq.Array(ids))
	if err != nil {
		r.logger.Error("Failed to load chargers", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer rows.Close()

	chargerByID := make(map[uuid.UUID]*domain.EVCharger)
	chargerIDs := make([]string, 0)
	order := make([]uuid.UUID, 0)
	for rows.Next() {
		var c domain.EVCharger
		if err := rows.Scan(
			&c.ID, &c.Version, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
			&c.LocationID, &c.HereID, &c.StationName, &c.CpoID, &c.CpoEvseEmi3ID, &c.Availability,
			&c.LastUpdated, &c.InstallationDate, &c.LastMaintenanceDate,
		); err != nil {
			r.logger.Error("Failed to scan charger", zap.Error(err))
			continue
		}
		chargerByID[c.ID] = &c
		chargerIDs = append(chargerIDs, c.ID.String())
		order = append(order, c.ID)
	}

	if len(chargerIDs) > 0 {
		ports, err := loadPorts(ctx, r.db, r.logger, chargerIDs)
		if err != nil {
			return err
		}
		for _, port := range ports {
			if c, ok := chargerByID[port.EVChargerID]; ok {
				c.Ports = append(c.Ports, port)
			}
		}
	}

	for _, chargerID := range order {
		c := chargerByID[chargerID]
		if loc, ok := byID[c.LocationID]; ok {
			loc.Chargers = append(loc.Chargers, *c)
		}
	}
	return nil
}

// loadPorts reads non-deleted ports for the given chargers with their
// plug-type and power-output lookups joined in. Shared with the charger
// repository.
func loadPorts(ctx context.Context, db *sqlx.DB, logger *zap.Logger, chargerIDs []string) ([]domain.EVChargerPort, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT p.id, p.version, p.is_deleted, p.created_at, p.updated_at, p.deleted_at,
			p.here_id, p.ev_charger_id, p.power_plug_type_id, p.power_output_id,
			pt.id, pt.supplier_name, pt.power_model, pt.plug_type, pt.plug_type_id,
			pt.fixed_plug, pt.plug_image_url, pt.additional_note, pt.power_plug_region,
			po.id, po.output_value, po.voltage, po.amperage, po.charging_speed, po.description
		FROM ev_charger_ports p
		JOIN power_plug_types pt ON pt.id = p.power_plug_type_id AND NOT pt.is_deleted
		JOIN power_outputs po ON po.id = p.power_output_id AND NOT po.is_deleted
		WHERE p.ev_charger_id = ANY($1) AND NOT p.is_deleted`, pq.Array(chargerIDs))
	if err != nil {
		logger.Error("Failed to load charger ports", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	var ports []domain.EVChargerPort
	for rows.Next() {
		var port domain.EVChargerPort
		var plug domain.PowerPlugType
		var out domain.PowerOutput
		if err := rows.Scan(
			&port.ID, &port.Version, &port.IsDeleted, &port.CreatedAt, &port.UpdatedAt, &port.DeletedAt,
			&port.HereID, &port.EVChargerID, &port.PlugTypeID, &port.PowerOutputID,
			&plug.ID, &plug.SupplierName, &plug.PowerModel, &plug.PlugType, &plug.PlugTypeID,
			&plug.FixedPlug, &plug.PlugImageURL, &plug.AdditionalNote, &plug.Region,
			&out.ID, &out.OutputValue, &out.Voltage, &out.Amperage, &out.ChargingSpeed, &out.Description,
		); err != nil {
			logger.Error("Failed to scan charger port", zap.Error(err))
			continue
		}
		port.PlugType = &plug
		port.PowerOutput = &out
		ports = append(ports, port)
	}
	return ports, nil
}
