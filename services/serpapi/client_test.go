package serpapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/guenthersilvia37/nachts-im-kino-api/models"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func stubClient(t *testing.T, status int, body string, onRequest func(*http.Request)) *Client {
	t.Helper()
	httpc := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if onRequest != nil {
				onRequest(req)
			}
			return &http.Response{
				StatusCode: status,
				Body:       io.NopCloser(bytes.NewBufferString(body)),
				Header:     make(http.Header),
			}, nil
		}),
	}
	return NewClient("test-key", httpc)
}

func TestSearchVenues(t *testing.T) {
	var gotLL string
	c := stubClient(t, http.StatusOK, `{"local_results": [
		{"title": "Cinedom", "address": "Im Mediapark 1", "rating": 4.6, "place_id": "abc", "category": "Kino"},
		{"name": "Filmpalast", "website": "https://filmpalast.example"}
	]}`, func(req *http.Request) {
		gotLL = req.URL.Query().Get("ll")
	})

	places, err := c.SearchVenues(context.Background(), "Köln", nil)
	if err != nil {
		t.Fatalf("SearchVenues failed: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("expected 2 places, got %d", len(places))
	}
	if gotLL != "" {
		t.Errorf("expected location param without coords, got ll=%q", gotLL)
	}

	rec := places[0].Record()
	if rec.Title != "Cinedom" || rec.PlaceID == nil || *rec.PlaceID != "abc" {
		t.Errorf("unexpected record: %+v", rec)
	}
	rec = places[1].Record()
	if rec.Title != "Filmpalast" || rec.Link == nil || *rec.Link != "https://filmpalast.example" {
		t.Errorf("expected name/website fallbacks, got %+v", rec)
	}
}

func TestSearchVenues_CoordsUseLL(t *testing.T) {
	var gotLL, gotLocation string
	c := stubClient(t, http.StatusOK, `{"local_results": []}`, func(req *http.Request) {
		gotLL = req.URL.Query().Get("ll")
		gotLocation = req.URL.Query().Get("location")
	})

	coords := &models.Coordinates{Latitude: 50.93, Longitude: 6.95}
	_, err := c.SearchVenues(context.Background(), "Köln", coords)
	if err != nil {
		t.Fatalf("SearchVenues failed: %v", err)
	}
	if gotLL != "@50.93,6.95,12z" {
		t.Errorf("expected ll param built from coords, got %q", gotLL)
	}
	if gotLocation != "" {
		t.Errorf("expected no textual location with coords, got %q", gotLocation)
	}
}

func TestVenueShowtimes(t *testing.T) {
	c := stubClient(t, http.StatusOK, `{"showtimes": [{"date": "04.02.", "movies": []}]}`, nil)
	raw, err := c.VenueShowtimes(context.Background(), "Cinedom", "Köln")
	if err != nil {
		t.Fatalf("VenueShowtimes failed: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("expected raw showtimes block")
	}

	c = stubClient(t, http.StatusOK, `{"organic_results": []}`, nil)
	raw, err = c.VenueShowtimes(context.Background(), "Cinedom", "Köln")
	if err != nil {
		t.Fatalf("VenueShowtimes failed: %v", err)
	}
	if len(raw) != 0 {
		t.Fatalf("expected nil block when result has no showtimes, got %s", raw)
	}
}

func TestProviderError_StatusAndPayload(t *testing.T) {
	c := stubClient(t, http.StatusTooManyRequests, `{"error": "rate limited"}`, nil)
	_, err := c.VenueShowtimes(context.Background(), "Cinedom", "Köln")

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.Status != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", perr.Status)
	}
	if !bytes.Contains(perr.Payload, []byte("rate limited")) {
		t.Errorf("expected raw payload preserved, got %s", perr.Payload)
	}
}

func TestProviderError_DeclaredErrorField(t *testing.T) {
	// SerpApi reports some failures inside a 200 response.
	c := stubClient(t, http.StatusOK, `{"error": "Your searches ran out."}`, nil)
	_, err := c.SearchVenues(context.Background(), "Köln", nil)

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.Status != http.StatusInternalServerError {
		t.Errorf("expected status 500 for declared error, got %d", perr.Status)
	}
}

func TestNotConfigured(t *testing.T) {
	c := NewClient("", nil)
	if _, err := c.VenueShowtimes(context.Background(), "Cinedom", "Köln"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
