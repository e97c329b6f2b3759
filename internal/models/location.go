package models

import "time"

// Location is a tracked place identified by the weather provider's location id.
type Location struct {
	LocationID string    `json:"location_id"`
	Name       string    `json:"name"`
	Country    string    `json:"country"`
	Province   string    `json:"province"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// DefaultCountry is applied when a location is registered without a country.
const DefaultCountry = "China"

// DefaultLocations is the canonical bootstrap set. The registry seeds it on
// startup and the orchestrator falls back to it when nothing is registered.
var DefaultLocations = []Location{
	{LocationID: "101010100", Name: "Beijing", Country: DefaultCountry, Province: "Beijing", Latitude: float64Ptr(39.9042), Longitude: float64Ptr(116.4074)},
	{LocationID: "101020100", Name: "Shanghai", Country: DefaultCountry, Province: "Shanghai", Latitude: float64Ptr(31.2304), Longitude: float64Ptr(121.4737)},
	{LocationID: "101280601", Name: "Shenzhen", Country: DefaultCountry, Province: "Guangdong", Latitude: float64Ptr(22.5431), Longitude: float64Ptr(114.0579)},
}

// DefaultLocationIDs returns the ids of DefaultLocations in order.
func DefaultLocationIDs() []string {
	ids := make([]string, 0, len(DefaultLocations))
	for _, loc := range DefaultLocations {
		ids = append(ids, loc.LocationID)
	}
	return ids
}

func float64Ptr(v float64) *float64 {
	return &v
}
