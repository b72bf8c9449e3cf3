package here

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"

	"github.com/charging-catalog/internal/config"
	"github.com/charging-catalog/internal/domain"
	"github.com/charging-catalog/internal/domain/repository"
	"go.uber.org/zap"
)

const (
	evStationCategory = "700-7600-0322"
	browseLimit       = 100
	showFields        = "ev"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// NewClient creates a client for the HERE browse API.
func NewClient(cfg *config.HereConfig, logger *zap.Logger) repository.ChargePointFeed {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// Browse returns the EV charge points around a center within radiusKm.
func (c *client) Browse(ctx context.Context, lat, lon, radiusKm float64) (*domain.FeedPage, error) {
	params := url.Values{}
	params.Set("at", fmt.Sprintf("%f,%f", lat, lon))
	params.Set("in", fmt.Sprintf("circle:%f,%f;r=%d", lat, lon, int(radiusKm*1000)))
	params.Set("categories", evStationCategory)
	params.Set("limit", fmt.Sprintf("%d", browseLimit))
	params.Set("show", showFields)

	browseURL := fmt.Sprintf("%s/browse?%s", c.baseURL, params.Encode())

	c.logger.Debug("Calling HERE browse API",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.Float64("radius_km", radiusKm))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, browseURL, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("HERE API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("here API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var page domain.FeedPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("HERE browse API call successful",
		zap.Int("items", len(page.Items)))

	return &page, nil
}

// GenerateGrid spreads circle centers over a lat/lon window so that
// browse queries with the cell radius cover the whole area. Steps are
// converted from kilometers to degrees, with longitude corrected by
// the cosine of the center latitude.
func GenerateGrid(centerLat, centerLon, latRange, lonRange, stepKm float64) []domain.Point {
	latStep := stepKm / 111.0
	lonStep := stepKm / (111.0 * math.Cos(centerLat*math.Pi/180.0))

	latPoints := int(latRange/latStep) + 1
	lonPoints := int(lonRange/lonStep) + 1

	originLat := centerLat - latRange/2
	originLon := centerLon - lonRange/2

	grid := make([]domain.Point, 0, latPoints*lonPoints)
	for i := 0; i < latPoints; i++ {
		for j := 0; j < lonPoints; j++ {
			grid = append(grid, domain.Point{
				Lat: originLat + float64(i)*latStep,
				Lon: originLon + float64(j)*lonStep,
			})
		}
	}
	return grid
}
