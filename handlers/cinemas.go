package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/guenthersilvia37/nachts-im-kino-api/cache"
	"github.com/guenthersilvia37/nachts-im-kino-api/models"
	"github.com/guenthersilvia37/nachts-im-kino-api/services/filter"
	"github.com/guenthersilvia37/nachts-im-kino-api/services/geocode"
	"github.com/guenthersilvia37/nachts-im-kino-api/services/serpapi"
)

// geocodeResolver turns a free-text place query into a city and coordinates.
type geocodeResolver interface {
	Resolve(ctx context.Context, q string) (*geocode.Location, error)
}

var _ geocodeResolver = (*geocode.Client)(nil)

// venueSearcher looks up cinema candidates near a city.
type venueSearcher interface {
	SearchVenues(ctx context.Context, city string, coords *models.Coordinates) ([]serpapi.Place, error)
}

var _ venueSearcher = (*serpapi.Client)(nil)

type CinemasResponse struct {
	OK           bool                 `json:"ok"`
	ResolvedCity string               `json:"resolved_city"`
	CoordsUsed   *models.Coordinates  `json:"coords_used"`
	Cinemas      []models.VenueRecord `json:"cinemas"`
}

type CinemasHandler struct {
	Geocoder geocodeResolver
	Venues   venueSearcher

	responseCache *cache.Cache[CinemasResponse]
}

func NewCinemasHandler(geocoder geocodeResolver, venues venueSearcher, cacheTTL time.Duration) *CinemasHandler {
	return &CinemasHandler{
		Geocoder:      geocoder,
		Venues:        venues,
		responseCache: cache.New[CinemasResponse](cacheTTL),
	}
}

// Search handles GET /api/cinemas?q=<place>.
func (h *CinemasHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "q fehlt")
		return
	}

	key := "cinemas::" + strings.ToLower(q)
	if resp, ok := h.responseCache.Get(key); ok {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	loc, err := h.Geocoder.Resolve(r.Context(), q)
	if err != nil {
		log.Printf("[cinemas] geocode %q: %v", q, err)
		writeUpstreamError(w, err)
		return
	}
	if loc == nil {
		writeError(w, http.StatusNotFound, "Ort nicht gefunden")
		return
	}

	places, err := h.Venues.SearchVenues(r.Context(), loc.City, loc.Coords)
	if err != nil {
		log.Printf("[cinemas] venue search for %q: %v", loc.City, err)
		writeUpstreamError(w, err)
		return
	}

	cinemas := make([]models.VenueRecord, 0, len(places))
	for _, p := range places {
		title := p.DisplayTitle()
		if filter.IsBlocked(title) {
			continue
		}
		if !filter.IsCinema(title, p.Category, p.Type) {
			continue
		}
		cinemas = append(cinemas, p.Record())
	}

	resp := CinemasResponse{
		OK:           true,
		ResolvedCity: loc.City,
		CoordsUsed:   loc.Coords,
		Cinemas:      cinemas,
	}
	h.responseCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}
