package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/charging-catalog/internal/domain"
)

// UpsertResult reports how a create-by-natural-key resolved.
type UpsertResult struct {
	Charger *domain.EVCharger
	// Created is false when the HereID already existed and the call
	// turned into an update of that row.
	Created bool
}

// ChargerRepository is the relational store adapter for EV chargers and
// their ports.
type ChargerRepository interface {
	// Upsert creates the charger with its ports, or, when a non-deleted
	// charger with the same HereID exists, returns that row untouched so
	// repeated ingestion stays idempotent. Callers that need the stored
	// row refreshed follow up with Update. The returned charger has ports
	// hydrated with plug-type and power-output lookups.
	Upsert(ctx context.Context, charger *domain.EVCharger) (*UpsertResult, error)

	// GetByID hydrates ports with their lookups; soft-deleted chargers
	// read as not found.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EVCharger, error)

	// Update rewrites the charger columns (version bump) and reconciles
	// ports by HereID: ports absent from the submission are deleted,
	// present ones updated in place, none inserted. Returns the updated
	// charger and the port set as it was before the update.
	Update(ctx context.Context, id uuid.UUID, charger *domain.EVCharger) (updated *domain.EVCharger, previousPorts []domain.EVChargerPort, err error)

	// SoftDelete marks the charger deleted and returns it with the ports
	// it held, so the caller can unwind the index contribution.
	SoftDelete(ctx context.Context, id uuid.UUID) (*domain.EVCharger, error)
}
