//go:build ignore

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
)

// Manual smoke tool: creates one location with a charger against a
// running API instance, then runs a facet search for it.
//
//	go run scripts/seed_location.go -base http://localhost:8080

func main() {
	base := flag.String("base", "http://localhost:8080", "API base URL")
	flag.Parse()

	location := map[string]interface{}{
		"here_id":       "here:pds:place:seed-1",
		"location_name": "Seed Charging Hub",
		"street":        "S Grand Ave",
		"city":          "Los Angeles",
		"country":       "United States",
		"latitude":      34.0407,
		"longitude":     -118.2468,
		"access":        "PUBLIC",
		"working_days": []map[string]interface{}{
			{"day": 1, "open_time": "08:00", "close_time": "20:00"},
			{"day": 2, "open_time": "08:00", "close_time": "20:00"},
		},
		"amenities": []map[string]interface{}{
			{"type": "restroom"},
		},
	}

	created := post(*base+"/api/v1/locations", location)
	locationID, _ := created["data"].(map[string]interface{})["id"].(string)
	log.Printf("location created: %s", locationID)

	charger := map[string]interface{}{
		"location_id":  locationID,
		"here_id":      "here:evse:seed-1",
		"availability": "AVAILABLE",
		"ports": []map[string]interface{}{
			{
				"here_id":         "here:port:seed-1",
				"plug_type":       "CCS",
				"power_model":     "DC",
				"power_output_kw": 150,
				"voltage":         480,
				"amperage":        375,
			},
		},
	}

	post(*base+"/api/v1/chargers", charger)
	log.Println("charger created")

	resp, err := http.Get(*base + "/api/v1/search?query=Seed")
	if err != nil {
		log.Fatalf("search failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("search response: %s\n", body)
}

func post(url string, payload map[string]interface{}) map[string]interface{} {
	raw, _ := json.Marshal(payload)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		log.Fatalf("POST %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		log.Fatalf("POST %s returned %d: %s", url, resp.StatusCode, body)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		log.Fatalf("POST %s returned unparseable body: %s", url, body)
	}
	return decoded
}
