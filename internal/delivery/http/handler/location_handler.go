package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/charging-catalog/internal/pkg/errors"
	"github.com/charging-catalog/internal/pkg/utils"
	"github.com/charging-catalog/internal/pkg/validator"
	"github.com/charging-catalog/internal/usecase"
	"github.com/charging-catalog/internal/usecase/dto"
)

// LocationHandler exposes location CRUD and the index resync endpoint.
type LocationHandler struct {
	locationUC *usecase.LocationUseCase
	logger     *zap.Logger
}

func NewLocationHandler(locationUC *usecase.LocationUseCase, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{
		locationUC: locationUC,
		logger:     logger,
	}
}

// Create godoc
// @Summary Register a charging location
// @Description Creates a location with its weekly schedule and amenities, then indexes it for search with zero chargers.
// @Tags Locations
// @Accept json
// @Produce json
// @Param request body dto.CreateLocationRequest true "Location payload"
// @Success 200 {object} utils.SuccessResponse{data=dto.LocationResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/locations [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.locationUC.Create(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// GetByID godoc
// @Summary Get a location
// @Description Returns the location with working days, amenities and chargers.
// @Tags Locations
// @Produce json
// @Param id path string true "Location ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.LocationResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/locations/{id} [get]
func (h *LocationHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	result, err := h.locationUC.GetByID(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// List godoc
// @Summary List locations
// @Description Paginated relational listing with optional city, country and text filters.
// @Tags Locations
// @Produce json
// @Param city query string false "Filter by city"
// @Param country query string false "Filter by country"
// @Param text query string false "Substring match on name and street"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} utils.SuccessResponse{data=dto.ListLocationsResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	req := dto.ListLocationsRequest{
		City:     c.Query("city"),
		Country:  c.Query("country"),
		Text:     c.Query("text"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.locationUC.List(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
		Page:  result.Page,
		Limit: result.PageSize,
	})
}

// Update godoc
// @Summary Update a location
// @Description Replaces the mutable fields, reconciles the schedule and amenities, and patches the search document.
// @Tags Locations
// @Accept json
// @Produce json
// @Param id path string true "Location ID"
// @Param request body dto.UpdateLocationRequest true "Location payload"
// @Success 200 {object} utils.SuccessResponse{data=dto.LocationResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/locations/{id} [put]
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	var req dto.UpdateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.locationUC.Update(c.Context(), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// Delete godoc
// @Summary Delete a location
// @Description Soft-deletes the location, cascades to its chargers and removes the search document.
// @Tags Locations
// @Produce json
// @Param id path string true "Location ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/locations/{id} [delete]
func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := h.locationUC.Delete(c.Context(), id); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{"deleted": true}, nil)
}

// Resync godoc
// @Summary Rebuild the search index
// @Description Wipes the index and rebuilds every document from the relational store. The repair path for index drift.
// @Tags Locations
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.ResyncResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/locations/resync [post]
func (h *LocationHandler) Resync(c *fiber.Ctx) error {
	result, err := h.locationUC.Resync(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}
