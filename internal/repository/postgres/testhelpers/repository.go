package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/charging-catalog/internal/domain/repository"
	"github.com/charging-catalog/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewLocationRepositoryForTest creates a location repository with test database and logger
func NewLocationRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.LocationRepository {
	return postgres.NewLocationRepository(NewDBForTest(db, logger))
}

// NewChargerRepositoryForTest creates a charger repository with test database and logger
func NewChargerRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.ChargerRepository {
	return postgres.NewChargerRepository(NewDBForTest(db, logger))
}

// NewReferenceRepositoryForTest creates a reference repository with test database and logger
func NewReferenceRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.ReferenceRepository {
	return postgres.NewReferenceRepository(NewDBForTest(db, logger))
}

// NewAmenityRepositoryForTest creates an amenity repository with test database and logger
func NewAmenityRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.AmenityRepository {
	return postgres.NewAmenityRepository(NewDBForTest(db, logger))
}
