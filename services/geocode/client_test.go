package geocode

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func stubClient(status int, body string) *Client {
	httpc := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: status,
				Body:       io.NopCloser(bytes.NewBufferString(body)),
				Header:     make(http.Header),
			}, nil
		}),
	}
	return NewClient(httpc)
}

func TestResolve(t *testing.T) {
	c := stubClient(http.StatusOK, `[{
		"lat": "50.93", "lon": "6.95",
		"display_name": "Köln, Nordrhein-Westfalen, Deutschland",
		"address": {"city": "Köln"}
	}]`)

	loc, err := c.Resolve(context.Background(), "köln ehrenfeld")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if loc == nil || loc.City != "Köln" {
		t.Fatalf("unexpected location: %+v", loc)
	}
	if loc.Coords == nil || loc.Coords.Latitude != 50.93 || loc.Coords.Longitude != 6.95 {
		t.Fatalf("unexpected coords: %+v", loc.Coords)
	}
}

func TestResolve_CityFallbacks(t *testing.T) {
	// No city field: town wins, then display name, then the query.
	c := stubClient(http.StatusOK, `[{"lat": "51.2", "lon": "6.4", "address": {"town": "Winterberg"}}]`)
	loc, err := c.Resolve(context.Background(), "winterberg")
	if err != nil || loc.City != "Winterberg" {
		t.Fatalf("expected town fallback, got %+v err=%v", loc, err)
	}

	c = stubClient(http.StatusOK, `[{"lat": "x", "lon": "y", "display_name": "Hürth, Rhein-Erft-Kreis"}]`)
	loc, err = c.Resolve(context.Background(), "hürth")
	if err != nil || loc.City != "Hürth" {
		t.Fatalf("expected display-name fallback, got %+v err=%v", loc, err)
	}
	if loc.Coords != nil {
		t.Fatal("expected no coords for unparseable lat/lon")
	}
}

func TestResolve_NotFound(t *testing.T) {
	c := stubClient(http.StatusOK, `[]`)
	loc, err := c.Resolve(context.Background(), "nirgendwo-dorf-xyz")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if loc != nil {
		t.Fatalf("expected nil location for unknown place, got %+v", loc)
	}
}

func TestResolve_UpstreamError(t *testing.T) {
	c := stubClient(http.StatusServiceUnavailable, ``)
	if _, err := c.Resolve(context.Background(), "köln"); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}
