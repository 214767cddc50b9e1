// Package serpapi wraps the two SerpApi engines the service needs: a Google
// Maps venue search and a Google web search whose result carries the
// showtimes block. Responses are normalized lightly; provider failures keep
// their status and raw payload so handlers can pass them through.
package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/guenthersilvia37/nachts-im-kino-api/models"
)

const (
	searchURL      = "https://serpapi.com/search.json"
	defaultTimeout = 30 * time.Second
)

// ErrNotConfigured signals a missing SerpApi key.
var ErrNotConfigured = errors.New("serpapi: api key not configured")

// ProviderError carries an upstream failure with its HTTP status and raw
// body. A declared error field inside an otherwise-200 response counts as a
// failure too.
type ProviderError struct {
	Status  int
	Payload json.RawMessage
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("serpapi: provider returned status %d", e.Status)
}

type Client struct {
	apiKey string
	httpc  *http.Client
}

func NewClient(apiKey string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{apiKey: strings.TrimSpace(apiKey), httpc: httpc}
}

// IsConfigured reports whether an API key is present.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

func (c *Client) do(ctx context.Context, params url.Values) (json.RawMessage, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Status: resp.StatusCode, Payload: body}
	}

	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &probe); err == nil && probe.Error != "" {
		return nil, &ProviderError{Status: http.StatusInternalServerError, Payload: body}
	}
	return body, nil
}

// Place is a raw venue candidate from the maps engine.
type Place struct {
	Title          string              `json:"title"`
	Name           string              `json:"name"`
	Address        string              `json:"address"`
	FullAddress    string              `json:"full_address"`
	Rating         *float64            `json:"rating"`
	Reviews        *int                `json:"reviews"`
	PlaceID        string              `json:"place_id"`
	DataID         string              `json:"data_id"`
	Link           string              `json:"link"`
	Website        string              `json:"website"`
	GPSCoordinates *models.Coordinates `json:"gps_coordinates"`
	Category       string              `json:"category"`
	Type           string              `json:"type"`
}

// DisplayTitle returns the first non-empty of title/name, defaulting to
// "Kino" so downstream filtering always has something to match on.
func (p Place) DisplayTitle() string {
	if t := strings.TrimSpace(p.Title); t != "" {
		return t
	}
	if n := strings.TrimSpace(p.Name); n != "" {
		return n
	}
	return "Kino"
}

// Record normalizes the place into the venue record returned to clients.
func (p Place) Record() models.VenueRecord {
	rec := models.VenueRecord{
		Title:          p.DisplayTitle(),
		Address:        p.Address,
		Rating:         p.Rating,
		Reviews:        p.Reviews,
		GPSCoordinates: p.GPSCoordinates,
	}
	if rec.Address == "" {
		rec.Address = p.FullAddress
	}
	if id := firstNonEmpty(p.PlaceID, p.DataID); id != "" {
		rec.PlaceID = &id
	}
	if link := firstNonEmpty(p.Link, p.Website); link != "" {
		rec.Link = &link
	}
	if p.Category != "" {
		category := p.Category
		rec.Category = &category
	}
	if p.Type != "" {
		venueType := p.Type
		rec.Type = &venueType
	}
	return rec
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// SearchVenues queries the Google Maps engine for cinemas near a city.
// Coordinates take precedence over the textual location when available.
func (c *Client) SearchVenues(ctx context.Context, city string, coords *models.Coordinates) ([]Place, error) {
	params := url.Values{
		"engine": {"google_maps"},
		"q":      {"Kino in " + city},
		"hl":     {"de"},
		"gl":     {"de"},
	}
	if coords != nil {
		params.Set("ll", fmt.Sprintf("@%v,%v,12z", coords.Latitude, coords.Longitude))
	} else {
		params.Set("location", city+", Germany")
	}

	body, err := c.do(ctx, params)
	if err != nil {
		return nil, err
	}

	var out struct {
		LocalResults []Place         `json:"local_results"`
		Places       []Place         `json:"places"`
		PlaceResults json.RawMessage `json:"place_results"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("serpapi: decoding maps response: %w", err)
	}
	if len(out.LocalResults) > 0 {
		return out.LocalResults, nil
	}
	// place_results is a single object when the query resolved to one venue.
	if len(out.PlaceResults) > 0 {
		var single Place
		if err := json.Unmarshal(out.PlaceResults, &single); err == nil && single.DisplayTitle() != "Kino" {
			return []Place{single}, nil
		}
	}
	return out.Places, nil
}

// VenueShowtimes queries the Google engine for a venue's programme and
// returns the raw showtimes block, nil when the result page carried none.
func (c *Client) VenueShowtimes(ctx context.Context, venue, city string) (json.RawMessage, error) {
	params := url.Values{
		"engine":        {"google"},
		"q":             {venue + " Spielzeiten " + city},
		"location":      {city + ", Germany"},
		"hl":            {"de"},
		"gl":            {"de"},
		"google_domain": {"google.de"},
	}
	body, err := c.do(ctx, params)
	if err != nil {
		return nil, err
	}

	var out struct {
		Showtimes json.RawMessage `json:"showtimes"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("serpapi: decoding search response: %w", err)
	}
	return out.Showtimes, nil
}
