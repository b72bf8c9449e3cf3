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

// ChargerHandler exposes charger CRUD.
type ChargerHandler struct {
	chargerUC *usecase.ChargerUseCase
	logger    *zap.Logger
}

func NewChargerHandler(chargerUC *usecase.ChargerUseCase, logger *zap.Logger) *ChargerHandler {
	return &ChargerHandler{
		chargerUC: chargerUC,
		logger:    logger,
	}
}

// Create godoc
// @Summary Register a charger
// @Description Creates a charger with its ports at a location. Re-submitting a known here_id returns the stored charger without double-counting.
// @Tags Chargers
// @Accept json
// @Produce json
// @Param request body dto.CreateChargerRequest true "Charger payload"
// @Success 200 {object} utils.SuccessResponse{data=dto.ChargerResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/chargers [post]
func (h *ChargerHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateChargerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.chargerUC.Create(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// GetByID godoc
// @Summary Get a charger
// @Tags Chargers
// @Produce json
// @Param id path string true "Charger ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.ChargerResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/chargers/{id} [get]
func (h *ChargerHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	result, err := h.chargerUC.GetByID(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// Update godoc
// @Summary Update a charger
// @Description Replaces the charger fields and reconciles the port set; the indexed charger pairs are swapped accordingly.
// @Tags Chargers
// @Accept json
// @Produce json
// @Param id path string true "Charger ID"
// @Param request body dto.UpdateChargerRequest true "Charger payload"
// @Success 200 {object} utils.SuccessResponse{data=dto.ChargerResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/chargers/{id} [put]
func (h *ChargerHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	var req dto.UpdateChargerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.chargerUC.Update(c.Context(), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// Delete godoc
// @Summary Delete a charger
// @Description Soft-deletes the charger and unwinds its contribution to the location's search document.
// @Tags Chargers
// @Produce json
// @Param id path string true "Charger ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/chargers/{id} [delete]
func (h *ChargerHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := h.chargerUC.Delete(c.Context(), id); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{"deleted": true}, nil)
}
