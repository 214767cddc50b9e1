package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/guenthersilvia37/nachts-im-kino-api/models"
	"github.com/guenthersilvia37/nachts-im-kino-api/services/geocode"
	"github.com/guenthersilvia37/nachts-im-kino-api/services/serpapi"
)

type fakeGeocoder struct {
	loc   *geocode.Location
	err   error
	calls int
}

func (f *fakeGeocoder) Resolve(ctx context.Context, q string) (*geocode.Location, error) {
	f.calls++
	return f.loc, f.err
}

type fakeVenueSearcher struct {
	places []serpapi.Place
	err    error
	calls  int
}

func (f *fakeVenueSearcher) SearchVenues(ctx context.Context, city string, coords *models.Coordinates) ([]serpapi.Place, error) {
	f.calls++
	return f.places, f.err
}

func TestCinemasSearchMissingQuery(t *testing.T) {
	h := NewCinemasHandler(&fakeGeocoder{}, &fakeVenueSearcher{}, time.Minute)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/cinemas", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "q fehlt" {
		t.Errorf("error = %v, want %q", resp.Error, "q fehlt")
	}
}

func TestCinemasSearchUnknownPlace(t *testing.T) {
	h := NewCinemasHandler(&fakeGeocoder{loc: nil}, &fakeVenueSearcher{}, time.Minute)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/cinemas?q=Nirgendwo", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "Ort nicht gefunden" {
		t.Errorf("error = %v, want %q", resp.Error, "Ort nicht gefunden")
	}
}

func TestCinemasSearchFiltersVenues(t *testing.T) {
	geocoder := &fakeGeocoder{loc: &geocode.Location{
		City:   "Köln",
		Coords: &models.Coordinates{Latitude: 50.93, Longitude: 6.95},
	}}
	venues := &fakeVenueSearcher{places: []serpapi.Place{
		{Title: "Cinedom Köln", Category: "Movie theater"},
		{Title: "Sportsbar am Ring", Category: "Bar"},
		{Title: "Erotik Kino Nacht", Category: "Movie theater"},
		{Title: "Odeon Lichtspiele"},
	}}
	h := NewCinemasHandler(geocoder, venues, time.Minute)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/cinemas?q=K%C3%B6ln", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp CinemasResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.OK {
		t.Error("ok = false")
	}
	if resp.ResolvedCity != "Köln" {
		t.Errorf("resolved_city = %q, want %q", resp.ResolvedCity, "Köln")
	}
	if resp.CoordsUsed == nil || resp.CoordsUsed.Latitude != 50.93 || resp.CoordsUsed.Longitude != 6.95 {
		t.Errorf("coords_used = %+v, want the geocoded pair", resp.CoordsUsed)
	}
	if len(resp.Cinemas) != 2 {
		t.Fatalf("cinemas = %d, want 2", len(resp.Cinemas))
	}
	if resp.Cinemas[0].Title != "Cinedom Köln" || resp.Cinemas[1].Title != "Odeon Lichtspiele" {
		t.Errorf("cinemas = %q, %q", resp.Cinemas[0].Title, resp.Cinemas[1].Title)
	}
}

func TestCinemasSearchCachesResponse(t *testing.T) {
	geocoder := &fakeGeocoder{loc: &geocode.Location{City: "Bonn"}}
	venues := &fakeVenueSearcher{places: []serpapi.Place{{Title: "Kino Bonn"}}}
	h := NewCinemasHandler(geocoder, venues, time.Minute)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/cinemas?q=Bonn", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
		var resp CinemasResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.CoordsUsed != nil {
			t.Errorf("coords_used = %+v, want null without a geocoded pair", resp.CoordsUsed)
		}
	}

	if geocoder.calls != 1 {
		t.Errorf("geocoder calls = %d, want 1", geocoder.calls)
	}
	if venues.calls != 1 {
		t.Errorf("venue search calls = %d, want 1", venues.calls)
	}
}

func TestCinemasSearchProviderError(t *testing.T) {
	geocoder := &fakeGeocoder{loc: &geocode.Location{City: "Bonn"}}
	venues := &fakeVenueSearcher{err: &serpapi.ProviderError{
		Status:  http.StatusTooManyRequests,
		Payload: json.RawMessage(`{"error":"rate limited"}`),
	}}
	h := NewCinemasHandler(geocoder, venues, time.Minute)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/cinemas?q=Bonn", nil))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "SerpApi Fehler" {
		t.Errorf("error = %v, want %q", resp.Error, "SerpApi Fehler")
	}
	if resp.Details == nil {
		t.Error("details missing, want provider payload")
	}
}

func TestCinemasSearchMissingKey(t *testing.T) {
	geocoder := &fakeGeocoder{loc: &geocode.Location{City: "Bonn"}}
	venues := &fakeVenueSearcher{err: serpapi.ErrNotConfigured}
	h := NewCinemasHandler(geocoder, venues, time.Minute)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/cinemas?q=Bonn", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "SERPAPI_KEY fehlt" {
		t.Errorf("error = %v, want %q", resp.Error, "SERPAPI_KEY fehlt")
	}
}

func TestCinemasSearchGeocodeFailure(t *testing.T) {
	geocoder := &fakeGeocoder{err: errors.New("nominatim timeout")}
	h := NewCinemasHandler(geocoder, &fakeVenueSearcher{}, time.Minute)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/cinemas?q=Bonn", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "Serverfehler" {
		t.Errorf("error = %v, want %q", resp.Error, "Serverfehler")
	}
}
