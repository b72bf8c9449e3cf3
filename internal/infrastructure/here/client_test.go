package here

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charging-catalog/internal/config"
	"github.com/charging-catalog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_Browse(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("successful request", func(t *testing.T) {
		mockResp := domain.FeedPage{
			Items: []domain.FeedItem{
				{
					ID:    "here:pds:place:840dr5ru-1",
					Title: "Downtown Supercharger",
					Address: domain.FeedAddress{
						Street:      "S Grand Ave",
						City:        "Los Angeles",
						CountryName: "United States",
						PostalCode:  "90015",
					},
					Position: domain.FeedPosition{Lat: 34.0407, Lng: -118.2468},
				},
			},
		}

		var gotPath string
		var gotQuery map[string][]string
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.Query()
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(mockResp)
		}))
		defer server.Close()

		cfg := &config.HereConfig{
			BaseURL:        server.URL,
			APIKey:         "test_key",
			RequestTimeout: 30 * time.Second,
		}

		feed := NewClient(cfg, logger)

		page, err := feed.Browse(context.Background(), 34.0522, -118.2437, 10)
		require.NoError(t, err)
		require.NotNil(t, page)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "here:pds:place:840dr5ru-1", page.Items[0].ID)
		assert.Equal(t, "Downtown Supercharger", page.Items[0].Title)

		assert.Equal(t, "/browse", gotPath)
		assert.Equal(t, "Bearer test_key", gotAuth)
		assert.Equal(t, []string{"34.052200,-118.243700"}, gotQuery["at"])
		assert.Equal(t, []string{"circle:34.052200,-118.243700;r=10000"}, gotQuery["in"])
		assert.Equal(t, []string{"700-7600-0322"}, gotQuery["categories"])
		assert.Equal(t, []string{"100"}, gotQuery["limit"])
		assert.Equal(t, []string{"ev"}, gotQuery["show"])
	})

	t.Run("non-200 response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Unauthorized"}`))
		}))
		defer server.Close()

		cfg := &config.HereConfig{
			BaseURL:        server.URL,
			APIKey:         "bad_key",
			RequestTimeout: 30 * time.Second,
		}

		feed := NewClient(cfg, logger)

		page, err := feed.Browse(context.Background(), 34.0522, -118.2437, 10)
		assert.Error(t, err)
		assert.Nil(t, page)
		assert.Contains(t, err.Error(), "status 401")
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		cfg := &config.HereConfig{
			BaseURL:        server.URL,
			APIKey:         "test_key",
			RequestTimeout: 30 * time.Second,
		}

		feed := NewClient(cfg, logger)

		page, err := feed.Browse(context.Background(), 34.0522, -118.2437, 10)
		assert.Error(t, err)
		assert.Nil(t, page)
		assert.Contains(t, err.Error(), "failed to decode response")
	})
}

func TestGenerateGrid(t *testing.T) {
	t.Run("covers the window", func(t *testing.T) {
		grid := GenerateGrid(34.0522, -118.2437, 0.4, 0.7, 8)

		require.NotEmpty(t, grid)

		// 8km steps over a 0.4 x 0.7 degree window around Los Angeles
		// give a 6 x 9 grid.
		assert.Len(t, grid, 54)

		first := grid[0]
		assert.InDelta(t, 34.0522-0.2, first.Lat, 1e-9)
		assert.InDelta(t, -118.2437-0.35, first.Lon, 1e-9)

		last := grid[len(grid)-1]
		assert.Greater(t, last.Lat, first.Lat)
		assert.Greater(t, last.Lon, first.Lon)
		assert.LessOrEqual(t, last.Lat, 34.0522+0.2+8.0/111.0)
	})

	t.Run("single cell when step exceeds range", func(t *testing.T) {
		grid := GenerateGrid(50.0, 10.0, 0.01, 0.01, 100)

		require.Len(t, grid, 1)
		assert.InDelta(t, 49.995, grid[0].Lat, 1e-9)
		assert.InDelta(t, 9.995, grid[0].Lon, 1e-9)
	})
}
