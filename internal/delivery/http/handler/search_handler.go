package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/charging-catalog/internal/pkg/errors"
	"github.com/charging-catalog/internal/pkg/utils"
	"github.com/charging-catalog/internal/pkg/validator"
	"github.com/charging-catalog/internal/usecase"
	"github.com/charging-catalog/internal/usecase/dto"
)

// SearchHandler exposes the index-backed queries: facet/text search,
// radius search and route-corridor search.
type SearchHandler struct {
	searchUC *usecase.SearchUseCase
	logger   *zap.Logger
}

func NewSearchHandler(searchUC *usecase.SearchUseCase, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		searchUC: searchUC,
		logger:   logger,
	}
}

// Search godoc
// @Summary Search charging locations
// @Description Combined free-text and facet search. Text results are ranked and capped at 10; facet-only queries return up to 500. Every hit carries its open/closed status for the moment of the query.
// @Tags Search
// @Produce json
// @Param query query string false "Free text matched against name, street, district, city, country"
// @Param fuzzy query bool false "Enable AUTO fuzziness on the text match"
// @Param station_count query int false "Minimum station count"
// @Param power_output_gte query number false "Minimum port power output (kW)"
// @Param power_output_lte query number false "Maximum port power output (kW)"
// @Param charger_types query []string false "Charger type labels, e.g. 'CCS - DC'"
// @Param amenities query []string false "Amenity labels (any-of)"
// @Param lat query number false "Center latitude for radius filter and distance sorting"
// @Param lon query number false "Center longitude"
// @Param radius_km query number false "Radius in km (requires lat and lon)"
// @Success 200 {object} utils.SuccessResponse{data=dto.SearchResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/search [get]
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchLocationsRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.searchUC.Search(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
	})
}

// Filters godoc
// @Summary Available search filter values
// @Description Returns the charger type labels and amenity labels currently present in the catalog, for building facet filter UIs.
// @Tags Search
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.SearchFiltersResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/search/filters [get]
func (h *SearchHandler) Filters(c *fiber.Ctx) error {
	result, err := h.searchUC.Filters(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// Nearby godoc
// @Summary Locations within a radius
// @Description Pure geo-distance search around a point.
// @Tags Search
// @Accept json
// @Produce json
// @Param request body dto.NearbyLocationsRequest true "Center and radius"
// @Success 200 {object} utils.SuccessResponse{data=dto.SearchResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/search/nearby [post]
func (h *SearchHandler) Nearby(c *fiber.Ctx) error {
	var req dto.NearbyLocationsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.searchUC.Nearby(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
	})
}

// AlongRoute godoc
// @Summary Locations along a route
// @Description Buffers the submitted polyline into a corridor polygon and returns the locations inside it.
// @Tags Search
// @Accept json
// @Produce json
// @Param request body dto.AlongRouteRequest true "Ordered route vertices"
// @Success 200 {object} utils.SuccessResponse{data=dto.SearchResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/search/along-route [post]
func (h *SearchHandler) AlongRoute(c *fiber.Ctx) error {
	var req dto.AlongRouteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.searchUC.AlongRoute(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
	})
}
