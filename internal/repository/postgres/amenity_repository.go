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

type amenityRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAmenityRepository(db *DB) repository.AmenityRepository {
	return &amenityRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *amenityRepository) GetOrCreate(ctx context.Context, amenity *domain.Amenity) (*domain.Amenity, error) {
	existing := &domain.Amenity{}
	err := r.scanRow(
		r.db.QueryRowContext(ctx, `
			SELECT id, version, is_deleted, created_at, updated_at, deleted_at, amenities_types, image_url
			FROM amenities WHERE amenities_types = $1 AND NOT is_deleted`, amenity.AmenityType),
		existing,
	)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		r.logger.Error("Failed to look up amenity", zap.String("type", amenity.AmenityType), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	id := uuid.New()
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO amenities (id, version, is_deleted, created_at, updated_at, amenities_types, image_url)
		VALUES ($1, 1, FALSE, NOW(), NOW(), $2, $3)`,
		id, amenity.AmenityType, amenity.ImageURL,
	); err != nil {
		r.logger.Error("Failed to insert amenity", zap.String("type", amenity.AmenityType), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	created := &domain.Amenity{}
	if err := r.scanRow(
		r.db.QueryRowContext(ctx, `
			SELECT id, version, is_deleted, created_at, updated_at, deleted_at, amenities_types, image_url
			FROM amenities WHERE id = $1`, id),
		created,
	); err != nil {
		return nil, errors.ErrDatabaseError
	}
	return created, nil
}

func (r *amenityRepository) List(ctx context.Context) ([]domain.Amenity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, version, is_deleted, created_at, updated_at, deleted_at, amenities_types, image_url
		FROM amenities WHERE NOT is_deleted ORDER BY amenities_types`)
	if err != nil {
		r.logger.Error("Failed to list amenities", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *amenityRepository) collect(rows *sql.Rows) ([]domain.Amenity, error) {
	var amenities []domain.Amenity
	for rows.Next() {
		var a domain.Amenity
		if err := r.scanRow(rows, &a); err != nil {
			r.logger.Error("Failed to scan amenity", zap.Error(err))
			continue
		}
		amenities = append(amenities, a)
	}
	return amenities, nil
}

func (r *amenityRepository) scanRow(row rowScanner, a *domain.Amenity) error {
	return row.Scan(
		&a.ID, &a.Version, &a.IsDeleted, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt,
		&a.AmenityType, &a.ImageURL,
	)
}
