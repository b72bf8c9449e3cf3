package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/charging-catalog/internal/domain"
	"github.com/charging-catalog/internal/domain/repository"
	"github.com/charging-catalog/internal/pkg/errors"
)

type chargerRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewChargerRepository(db *DB) repository.ChargerRepository {
	return &chargerRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// Upsert inserts the charger with its ports, keyed by here_id. When a
// live charger with the same here_id already exists the stored row is
// returned untouched, so feed replays never double-count stations.
func (r *chargerRepository) Upsert(ctx context.Context, charger *domain.EVCharger) (*repository.UpsertResult, error) {
	existing, err := r.getByHereID(ctx, charger.HereID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &repository.UpsertResult{Charger: existing, Created: false}, nil
	}

	if charger.ID == uuid.Nil {
		charger.ID = uuid.New()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.ErrDatabaseError
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ev_chargers (
			id, version, is_deleted, created_at, updated_at,
			location_id, here_id, station_name, cpo_id, cpo_evse_emi3_id,
			availability, last_updated, installation_date, last_maintenance_date
		) VALUES (
			$1, 1, FALSE, NOW(), NOW(),
			$2, $3, $4, $5, $6,
			$7, $8, $9, $10
		)`,
		charger.ID,
		charger.LocationID, charger.HereID, charger.StationName, charger.CpoID, charger.CpoEvseEmi3ID,
		charger.Availability, charger.LastUpdated, charger.InstallationDate, charger.LastMaintenanceDate,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// Lost the race to a concurrent insert of the same here_id.
			existing, lookupErr := r.getByHereID(ctx, charger.HereID)
			if lookupErr != nil || existing == nil {
				return nil, errors.ErrDatabaseError
			}
			return &repository.UpsertResult{Charger: existing, Created: false}, nil
		}
		r.logger.Error("Failed to insert charger", zap.String("here_id", charger.HereID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	for i := range charger.Ports {
		port := &charger.Ports[i]
		if port.ID == uuid.Nil {
			port.ID = uuid.New()
		}
		port.EVChargerID = charger.ID
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO ev_charger_ports (
				id, version, is_deleted, created_at, updated_at,
				here_id, ev_charger_id, power_plug_type_id, power_output_id
			) VALUES ($1, 1, FALSE, NOW(), NOW(), $2, $3, $4, $5)`,
			port.ID, port.HereID, charger.ID, port.PlugTypeID, port.PowerOutputID,
		); err != nil {
			r.logger.Error("Failed to insert charger port", zap.Error(err))
			return nil, errors.ErrDatabaseError
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.ErrDatabaseError
	}

	created, err := r.GetByID(ctx, charger.ID)
	if err != nil {
		return nil, err
	}
	return &repository.UpsertResult{Charger: created, Created: true}, nil
}

func (r *chargerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.EVCharger, error) {
	charger, err := r.scanOne(ctx, `
		SELECT id, version, is_deleted, created_at, updated_at, deleted_at,
			location_id, here_id, station_name, cpo_id, cpo_evse_emi3_id, availability,
			last_updated, installation_date, last_maintenance_date
		FROM ev_chargers WHERE id = $1 AND NOT is_deleted`, id)
	if err != nil {
		return nil, err
	}
	if charger == nil {
		return nil, errors.ErrChargerNotFound
	}
	if err := r.hydratePorts(ctx, charger); err != nil {
		return nil, err
	}
	return charger, nil
}

// Update rewrites the charger row, bumps the version and reconciles the
// port set against the submitted one by here_id. The ports that were
// live before the call are returned so the caller can unwind the index.
func (r *chargerRepository) Update(
	ctx context.Context,
	id uuid.UUID,
	charger *domain.EVCharger,
) (*domain.EVCharger, []domain.EVChargerPort, error) {
	before, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	previousPorts := before.Ports

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, errors.ErrDatabaseError
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE ev_chargers SET
			station_name = $1, cpo_id = $2, cpo_evse_emi3_id = $3, availability = $4,
			last_updated = $5, installation_date = $6, last_maintenance_date = $7,
			version = version + 1, updated_at = NOW()
		WHERE id = $8 AND NOT is_deleted`,
		charger.StationName, charger.CpoID, charger.CpoEvseEmi3ID, charger.Availability,
		charger.LastUpdated, charger.InstallationDate, charger.LastMaintenanceDate, id,
	)
	if err != nil {
		r.logger.Error("Failed to update charger", zap.String("id", id.String()), zap.Error(err))
		return nil, nil, errors.ErrDatabaseError
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil, errors.ErrChargerNotFound
	}

	submitted := make(map[string]bool, len(charger.Ports))
	for i := range charger.Ports {
		port := &charger.Ports[i]
		submitted[port.HereID] = true

		res, err := tx.ExecContext(ctx, `
			UPDATE ev_charger_ports SET
				power_plug_type_id = $1, power_output_id = $2,
				is_deleted = FALSE, deleted_at = NULL,
				version = version + 1, updated_at = NOW()
			WHERE ev_charger_id = $3 AND here_id = $4`,
			port.PlugTypeID, port.PowerOutputID, id, port.HereID,
		)
		if err != nil {
			r.logger.Error("Failed to update charger port", zap.Error(err))
			return nil, nil, errors.ErrDatabaseError
		}
		if n, _ := res.RowsAffected(); n == 0 {
			if port.ID == uuid.Nil {
				port.ID = uuid.New()
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO ev_charger_ports (
					id, version, is_deleted, created_at, updated_at,
					here_id, ev_charger_id, power_plug_type_id, power_output_id
				) VALUES ($1, 1, FALSE, NOW(), NOW(), $2, $3, $4, $5)`,
				port.ID, port.HereID, id, port.PlugTypeID, port.PowerOutputID,
			); err != nil {
				r.logger.Error("Failed to insert charger port", zap.Error(err))
				return nil, nil, errors.ErrDatabaseError
			}
		}
	}

	for _, port := range previousPorts {
		if submitted[port.HereID] {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE ev_charger_ports SET is_deleted = TRUE, deleted_at = NOW(), version = version + 1
			WHERE id = $1 AND NOT is_deleted`, port.ID,
		); err != nil {
			r.logger.Error("Failed to remove charger port", zap.Error(err))
			return nil, nil, errors.ErrDatabaseError
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, errors.ErrDatabaseError
	}

	updated, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return updated, previousPorts, nil
}

// SoftDelete marks the charger and its ports deleted and returns the
// charger as it was, ports included, so the caller can decrement the
// index counters.
func (r *chargerRepository) SoftDelete(ctx context.Context, id uuid.UUID) (*domain.EVCharger, error) {
	charger, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.ErrDatabaseError
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE ev_chargers SET is_deleted = TRUE, deleted_at = NOW(), version = version + 1
		WHERE id = $1 AND NOT is_deleted`, id)
	if err != nil {
		r.logger.Error("Failed to soft delete charger", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, errors.ErrChargerNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE ev_charger_ports SET is_deleted = TRUE, deleted_at = NOW(), version = version + 1
		WHERE ev_charger_id = $1 AND NOT is_deleted`, id); err != nil {
		r.logger.Error("Failed to cascade soft delete to ports", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.ErrDatabaseError
	}
	return charger, nil
}

func (r *chargerRepository) getByHereID(ctx context.Context, hereID string) (*domain.EVCharger, error) {
	charger, err := r.scanOne(ctx, `
		SELECT id, version, is_deleted, created_at, updated_at, deleted_at,
			location_id, here_id, station_name, cpo_id, cpo_evse_emi3_id, availability,
			last_updated, installation_date, last_maintenance_date
		FROM ev_chargers WHERE here_id = $1 AND NOT is_deleted`, hereID)
	if err != nil || charger == nil {
		return charger, err
	}
	if err := r.hydratePorts(ctx, charger); err != nil {
		return nil, err
	}
	return charger, nil
}

func (r *chargerRepository) scanOne(ctx context.Context, query string, arg interface{}) (*domain.EVCharger, error) {
	var c domain.EVCharger
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&c.ID, &c.Version, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
		&c.LocationID, &c.HereID, &c.StationName, &c.CpoID, &c.CpoEvseEmi3ID, &c.Availability,
		&c.LastUpdated, &c.InstallationDate, &c.LastMaintenanceDate,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get charger", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return &c, nil
}

func (r *chargerRepository) hydratePorts(ctx context.Context, charger *domain.EVCharger) error {
	ports, err := loadPorts(ctx, r.db, r.logger, []string{charger.ID.String()})
	if err != nil {
		return err
	}
	charger.Ports = ports
	return nil
}
