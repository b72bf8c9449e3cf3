package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/charging-catalog/internal/domain"
	"github.com/charging-catalog/internal/domain/repository"
	"github.com/charging-catalog/internal/pkg/errors"
)

type referenceRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewReferenceRepository(db *DB) repository.ReferenceRepository {
	return &referenceRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// GetOrCreatePowerOutput dedupes on (output_value, voltage, amperage) so
// feed ingestion reuses lookup rows instead of growing them per station.
func (r *referenceRepository) GetOrCreatePowerOutput(ctx context.Context, out *domain.PowerOutput) (*domain.PowerOutput, error) {
	existing := &domain.PowerOutput{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, version, is_deleted, created_at, updated_at, deleted_at,
			output_value, voltage, amperage, charging_speed, description
		FROM power_outputs
		WHERE output_value = $1 AND voltage = $2 AND amperage = $3 AND NOT is_deleted`,
		out.OutputValue, out.Voltage, out.Amperage,
	).Scan(
		&existing.ID, &existing.Version, &existing.IsDeleted, &existing.CreatedAt, &existing.UpdatedAt, &existing.DeletedAt,
		&existing.OutputValue, &existing.Voltage, &existing.Amperage, &existing.ChargingSpeed, &existing.Description,
	)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		r.logger.Error("Failed to look up power output", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	if out.ID == uuid.Nil {
		out.ID = uuid.New()
	}
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO power_outputs (id, version, is_deleted, created_at, updated_at,
			output_value, voltage, amperage, charging_speed, description)
		VALUES ($1, 1, FALSE, NOW(), NOW(), $2, $3, $4, $5, $6)`,
		out.ID, out.OutputValue, out.Voltage, out.Amperage, out.ChargingSpeed, out.Description,
	); err != nil {
		r.logger.Error("Failed to insert power output", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return r.GetPowerOutput(ctx, out.ID)
}

// GetOrCreatePlugType dedupes on (power_model, plug_type).
func (r *referenceRepository) GetOrCreatePlugType(ctx context.Context, plug *domain.PowerPlugType) (*domain.PowerPlugType, error) {
	existing := &domain.PowerPlugType{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, version, is_deleted, created_at, updated_at, deleted_at,
			supplier_name, power_model, plug_type, plug_type_id,
			fixed_plug, plug_image_url, additional_note, power_plug_region
		FROM power_plug_types
		WHERE power_model = $1 AND plug_type = $2 AND NOT is_deleted`,
		plug.PowerModel, plug.PlugType,
	).Scan(
		&existing.ID, &existing.Version, &existing.IsDeleted, &existing.CreatedAt, &existing.UpdatedAt, &existing.DeletedAt,
		&existing.SupplierName, &existing.PowerModel, &existing.PlugType, &existing.PlugTypeID,
		&existing.FixedPlug, &existing.PlugImageURL, &existing.AdditionalNote, &existing.Region,
	)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		r.logger.Error("Failed to look up plug type", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	if plug.ID == uuid.Nil {
		plug.ID = uuid.New()
	}
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO power_plug_types (id, version, is_deleted, created_at, updated_at,
			supplier_name, power_model, plug_type, plug_type_id,
			fixed_plug, plug_image_url, additional_note, power_plug_region)
		VALUES ($1, 1, FALSE, NOW(), NOW(), $2, $3, $4, $5, $6, $7, $8, $9)`,
		plug.ID, plug.SupplierName, plug.PowerModel, plug.PlugType, plug.PlugTypeID,
		plug.FixedPlug, plug.PlugImageURL, plug.AdditionalNote, plug.Region,
	); err != nil {
		r.logger.Error("Failed to insert plug type", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return r.GetPlugType(ctx, plug.ID)
}

func (r *referenceRepository) GetPowerOutput(ctx context.Context, id uuid.UUID) (*domain.PowerOutput, error) {
	out := &domain.PowerOutput{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, version, is_deleted, created_at, updated_at, deleted_at,
			output_value, voltage, amperage, charging_speed, description
		FROM power_outputs WHERE id = $1 AND NOT is_deleted`, id,
	).Scan(
		&out.ID, &out.Version, &out.IsDeleted, &out.CreatedAt, &out.UpdatedAt, &out.DeletedAt,
		&out.OutputValue, &out.Voltage, &out.Amperage, &out.ChargingSpeed, &out.Description,
	)
	if err == sql.ErrNoRows {
		return nil, errors.ErrDocumentNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get power output", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return out, nil
}

func (r *referenceRepository) GetPlugType(ctx context.Context, id uuid.UUID) (*domain.PowerPlugType, error) {
	plug := &domain.PowerPlugType{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, version, is_deleted, created_at, updated_at, deleted_at,
			supplier_name, power_model, plug_type, plug_type_id,
			fixed_plug, plug_image_url, additional_note, power_plug_region
		FROM power_plug_types WHERE id = $1 AND NOT is_deleted`, id,
	).Scan(
		&plug.ID, &plug.Version, &plug.IsDeleted, &plug.CreatedAt, &plug.UpdatedAt, &plug.DeletedAt,
		&plug.SupplierName, &plug.PowerModel, &plug.PlugType, &plug.PlugTypeID,
		&plug.FixedPlug, &plug.PlugImageURL, &plug.AdditionalNote, &plug.Region,
	)
	if err == sql.ErrNoRows {
		return nil, errors.ErrDocumentNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get plug type", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return plug, nil
}

// ListPlugTypeLabels returns every distinct "<plug_type> - <power_model>"
// label known to the catalog, for the charger-type filter UI.
func (r *referenceRepository) ListPlugTypeLabels(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT plug_type || ' - ' || power_model
		FROM power_plug_types WHERE NOT is_deleted
		ORDER BY 1`)
	if err != nil {
		r.logger.Error("Failed to list plug type labels", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			continue
		}
		labels = append(labels, label)
	}
	return labels, nil
}
