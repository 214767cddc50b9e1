// Package geocode resolves free-text place names into coordinates and a city
// name via the OpenStreetMap Nominatim API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guenthersilvia37/nachts-im-kino-api/models"
)

const (
	nominatimBaseURL = "https://nominatim.openstreetmap.org/search"
	userAgent        = "nachts-im-kino/1.0"
	defaultTimeout   = 15 * time.Second
)

// Location is a resolved place: the city name Nominatim considers best plus
// coordinates when the response carried parseable ones.
type Location struct {
	City   string
	Coords *models.Coordinates
}

type nominatimAddress struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	County       string `json:"county"`
}

type nominatimItem struct {
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
}

type Client struct {
	httpc   *http.Client
	baseURL string
}

func NewClient(httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{httpc: httpc, baseURL: nominatimBaseURL}
}

// Resolve geocodes q. Returns (nil, nil) when the place is unknown; only
// transport or decode failures error.
func (c *Client) Resolve(ctx context.Context, q string) (*Location, error) {
	params := url.Values{
		"format":         {"json"},
		"limit":          {"1"},
		"addressdetails": {"1"},
		"q":              {q},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode: nominatim returned status %d", resp.StatusCode)
	}

	var items []nominatimItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("geocode: decoding response: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	item := items[0]
	loc := &Location{City: pickCity(item, q)}
	if lat, err := strconv.ParseFloat(item.Lat, 64); err == nil {
		if lon, err := strconv.ParseFloat(item.Lon, 64); err == nil {
			loc.Coords = &models.Coordinates{Latitude: lat, Longitude: lon}
		}
	}
	return loc, nil
}

// pickCity walks the address fields from most to least specific, falling back
// to the first display-name segment and finally the query itself.
func pickCity(item nominatimItem, fallback string) string {
	a := item.Address
	for _, candidate := range []string{a.City, a.Town, a.Village, a.Municipality, a.County} {
		if candidate != "" {
			return candidate
		}
	}
	if item.DisplayName != "" {
		return strings.TrimSpace(strings.SplitN(item.DisplayName, ",", 2)[0])
	}
	return fallback
}
