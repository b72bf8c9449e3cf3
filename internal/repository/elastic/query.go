package elastic

import (
	"fmt"
	"regexp"

	"github.com/charging-catalog/internal/domain"
	"github.com/charging-catalog/internal/domain/repository"
)

const (
	maxSpecialChars = 2
	maxWordLength   = 9

	textSearchSize = 10
	facetOnlySize  = 500
)

var (
	specialCharPattern = regexp.MustCompile(`[^\w\s]`)
	wordPattern        = regexp.MustCompile(`\b\w+\b`)
)

// isNoisyText screens free text before it reaches the engine: more than
// two special characters, or any token longer than nine characters,
// yields an empty result without a query. Wildcard clauses over such
// input are expensive and never match anything useful.
func isNoisyText(text string) bool {
	if len(specialCharPattern.FindAllString(text, -1)) > maxSpecialChars {
		return true
	}
	for _, word := range wordPattern.FindAllString(text, -1) {
		if len(word) > maxWordLength {
			return true
		}
	}
	return false
}

// buildFacetQuery assembles the combined text/facet query body. Facet
// clauses go into bool.must; free text, when present, becomes a should
// group of two boosted wildcard prefixes plus a multi-field match, with
// at least one required to hit.
func buildFacetQuery(q repository.FacetSearchQuery) map[string]interface{} {
	must := []interface{}{}

	if len(q.ChargerTypes) > 0 {
		should := make([]interface{}, 0, len(q.ChargerTypes))
		for _, chargerType := range q.ChargerTypes {
			should = append(should, map[string]interface{}{
				"match_phrase": map[string]interface{}{"charger_types.type": chargerType},
			})
		}
		must = append(must, map[string]interface{}{
			"nested": map[string]interface{}{
				"path": "charger_types",
				"query": map[string]interface{}{
					"bool": map[string]interface{}{
						"should":               should,
						"minimum_should_match": 1,
					},
				},
			},
		})
	}

	if q.PowerOutputGte != nil || q.PowerOutputLte != nil {
		rangeBody := map[string]interface{}{}
		if q.PowerOutputGte != nil {
			rangeBody["gte"] = *q.PowerOutputGte
		}
		if q.PowerOutputLte != nil {
			rangeBody["lte"] = *q.PowerOutputLte
		}
		must = append(must, map[string]interface{}{
			"nested": map[string]interface{}{
				"path": "charger_types",
				"query": map[string]interface{}{
					"bool": map[string]interface{}{
						"must": []interface{}{
							map[string]interface{}{
								"range": map[string]interface{}{"charger_types.power_output": rangeBody},
							},
						},
					},
				},
			},
		})
	}

	if q.StationCountGte != nil {
		must = append(must, map[string]interface{}{
			"range": map[string]interface{}{
				"station_count": map[string]interface{}{"gte": *q.StationCountGte},
			},
		})
	}

	if q.RadiusKm != nil && q.Lat != nil && q.Lon != nil {
		must = append(must, map[string]interface{}{
			"geo_distance": map[string]interface{}{
				"distance": fmt.Sprintf("%gkm", *q.RadiusKm),
				"location": map[string]interface{}{"lat": *q.Lat, "lon": *q.Lon},
			},
		})
	}

	if len(q.Amenities) > 0 {
		must = append(must, map[string]interface{}{
			"terms": map[string]interface{}{"amenities": q.Amenities},
		})
	}

	boolQuery := map[string]interface{}{"must": must}

	if q.Text != nil {
		match := map[string]interface{}{
			"query":  *q.Text,
			"fields": []string{"location_name", "street", "district", "city", "country"},
		}
		if q.Fuzzy {
			match["fuzziness"] = "AUTO"
		}
		boolQuery["should"] = []interface{}{
			map[string]interface{}{
				"wildcard": map[string]interface{}{
					"location_name": map[string]interface{}{"value": *q.Text + "*", "boost": 2.0},
				},
			},
			map[string]interface{}{
				"wildcard": map[string]interface{}{
					"street": map[string]interface{}{"value": *q.Text + "*", "boost": 1.0},
				},
			},
			map[string]interface{}{"multi_match": match},
		}
		boolQuery["minimum_should_match"] = 1
	} else {
		boolQuery["filter"] = map[string]interface{}{"match_all": map[string]interface{}{}}
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"size":  facetOnlySize,
	}
	if q.Text != nil {
		body["size"] = textSearchSize
	}

	if q.Lat != nil && q.Lon != nil {
		body["sort"] = []interface{}{
			map[string]interface{}{
				"_geo_distance": map[string]interface{}{
					"location": map[string]interface{}{"lat": *q.Lat, "lon": *q.Lon},
					"order":    "asc",
				},
			},
		}
	}

	return body
}

func buildRadiusQuery(lat, lon, radiusKm float64) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"geo_distance": map[string]interface{}{
				"distance": fmt.Sprintf("%gkm", radiusKm),
				"location": map[string]interface{}{"lat": lat, "lon": lon},
			},
		},
	}
}

func buildPolygonQuery(polygon []domain.Point) map[string]interface{} {
	points := make([]interface{}, 0, len(polygon))
	for _, p := range polygon {
		points = append(points, map[string]interface{}{"lat": p.Lat, "lon": p.Lon})
	}
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": map[string]interface{}{
					"geo_polygon": map[string]interface{}{
						"location": map[string]interface{}{"points": points},
					},
				},
			},
		},
	}
}
