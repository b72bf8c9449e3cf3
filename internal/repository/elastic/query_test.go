package elastic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charging-catalog/internal/domain"
	"github.com/charging-catalog/internal/domain/repository"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestIsNoisyText(t *testing.T) {
	t.Run("clean text passes", func(t *testing.T) {
		assert.False(t, isNoisyText("downtown"))
		assert.False(t, isNoisyText("Main St"))
		assert.False(t, isNoisyText("st. paul's"))
	})

	t.Run("more than two special characters rejected", func(t *testing.T) {
		assert.False(t, isNoisyText("a.b.c"))
		assert.True(t, isNoisyText("a.b.c!"))
		assert.True(t, isNoisyText("???!"))
	})

	t.Run("word longer than nine characters rejected", func(t *testing.T) {
		assert.False(t, isNoisyText("ninechars"))
		assert.True(t, isNoisyText("tencharsss"))
		assert.True(t, isNoisyText("short verylongtoken"))
	})

	t.Run("empty text passes", func(t *testing.T) {
		assert.False(t, isNoisyText(""))
	})
}

func TestBuildFacetQuery_TextBranch(t *testing.T) {
	query := buildFacetQuery(repository.FacetSearchQuery{
		Text:  strPtr("tesla"),
		Fuzzy: true,
	})

	assert.Equal(t, textSearchSize, query["size"])

	boolQuery := query["query"].(map[string]interface{})["bool"].(map[string]interface{})
	should := boolQuery["should"].([]interface{})
	require.Len(t, should, 3)
	assert.Equal(t, 1, boolQuery["minimum_should_match"])

	nameWildcard := should[0].(map[string]interface{})["wildcard"].(map[string]interface{})["location_name"].(map[string]interface{})
	assert.Equal(t, "tesla*", nameWildcard["value"])
	assert.Equal(t, 2.0, nameWildcard["boost"])

	streetWildcard := should[1].(map[string]interface{})["wildcard"].(map[string]interface{})["street"].(map[string]interface{})
	assert.Equal(t, "tesla*", streetWildcard["value"])
	assert.Equal(t, 1.0, streetWildcard["boost"])

	match := should[2].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "AUTO", match["fuzziness"])
	assert.Equal(t, []string{"location_name", "street", "district", "city", "country"}, match["fields"])
}

func TestBuildFacetQuery_NoText(t *testing.T) {
	query := buildFacetQuery(repository.FacetSearchQuery{})

	assert.Equal(t, facetOnlySize, query["size"])
	assert.NotContains(t, query, "sort")

	boolQuery := query["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.NotContains(t, boolQuery, "should")
	require.Contains(t, boolQuery, "filter")
	assert.Contains(t, boolQuery["filter"].(map[string]interface{}), "match_all")
}

func TestBuildFacetQuery_NoFuzzinessByDefault(t *testing.T) {
	query := buildFacetQuery(repository.FacetSearchQuery{Text: strPtr("tesla")})

	boolQuery := query["query"].(map[string]interface{})["bool"].(map[string]interface{})
	should := boolQuery["should"].([]interface{})
	match := should[2].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.NotContains(t, match, "fuzziness")
}

func TestBuildFacetQuery_Filters(t *testing.T) {
	query := buildFacetQuery(repository.FacetSearchQuery{
		StationCountGte: intPtr(2),
		PowerOutputGte:  floatPtr(50),
		PowerOutputLte:  floatPtr(150),
		ChargerTypes:    []string{"CCS - DC", "Type 2 - AC"},
		Amenities:       []string{"WiFi", "Restroom"},
		Lat:             floatPtr(34.05),
		Lon:             floatPtr(-118.24),
		RadiusKm:        floatPtr(5),
	})

	boolQuery := query["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 5)

	// Charger-type filter is a nested should of phrase matches.
	nested := must[0].(map[string]interface{})["nested"].(map[string]interface{})
	assert.Equal(t, "charger_types", nested["path"])
	nestedBool := nested["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.Len(t, nestedBool["should"].([]interface{}), 2)
	assert.Equal(t, 1, nestedBool["minimum_should_match"])

	// Geo filter renders the distance as "<km>km".
	var geo map[string]interface{}
	for _, clause := range must {
		if g, ok := clause.(map[string]interface{})["geo_distance"]; ok {
			geo = g.(map[string]interface{})
		}
	}
	require.NotNil(t, geo)
	assert.Equal(t, "5km", geo["distance"])

	// A center point always adds distance sorting.
	sort := query["sort"].([]interface{})
	require.Len(t, sort, 1)
	geoSort := sort[0].(map[string]interface{})["_geo_distance"].(map[string]interface{})
	assert.Equal(t, "asc", geoSort["order"])
}

func TestBuildFacetQuery_OpenEndedPowerRange(t *testing.T) {
	query := buildFacetQuery(repository.FacetSearchQuery{PowerOutputGte: floatPtr(50)})

	boolQuery := query["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)

	nested := must[0].(map[string]interface{})["nested"].(map[string]interface{})
	rangeBody := nested["query"].(map[string]interface{})["bool"].(map[string]interface{})["must"].([]interface{})[0].(map[string]interface{})["range"].(map[string]interface{})["charger_types.power_output"].(map[string]interface{})
	assert.Equal(t, 50.0, rangeBody["gte"])
	assert.NotContains(t, rangeBody, "lte")
}

func TestBuildRadiusQuery(t *testing.T) {
	query := buildRadiusQuery(34.05, -118.24, 2.5)

	geo := query["query"].(map[string]interface{})["geo_distance"].(map[string]interface{})
	assert.Equal(t, "2.5km", geo["distance"])
	assert.Equal(t, map[string]interface{}{"lat": 34.05, "lon": -118.24}, geo["location"])
}

func TestBuildPolygonQuery(t *testing.T) {
	polygon := []domain.Point{
		{Lat: 34.0, Lon: -118.0},
		{Lat: 34.1, Lon: -118.0},
		{Lat: 34.1, Lon: -118.1},
		{Lat: 34.0, Lon: -118.0},
	}

	query := buildPolygonQuery(polygon)

	filter := query["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].(map[string]interface{})
	points := filter["geo_polygon"].(map[string]interface{})["location"].(map[string]interface{})["points"].([]interface{})
	require.Len(t, points, 4)
	assert.Equal(t, map[string]interface{}{"lat": 34.0, "lon": -118.0}, points[0])
	assert.Equal(t, points[0], points[3])
}
