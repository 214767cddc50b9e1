package models

// Coordinates is a lat/lon pair as supplied by the places provider.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// VenueRecord is one cinema candidate from the places search, normalized for
// the front-end. Records are built fresh per response and never merged.
type VenueRecord struct {
	Title          string       `json:"title"`
	Address        string       `json:"address"`
	Rating         *float64     `json:"rating"`
	Reviews        *int         `json:"reviews"`
	PlaceID        *string      `json:"place_id"`
	Link           *string      `json:"link"`
	GPSCoordinates *Coordinates `json:"gps_coordinates"`
	Category       *string      `json:"category"`
	Type           *string      `json:"type"`
}
