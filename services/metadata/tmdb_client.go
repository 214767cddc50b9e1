package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/guenthersilvia37/nachts-im-kino-api/models"
)

// Minimal TMDB v3 client (movie search, details and credits — the endpoints
// enrichment needs).

const (
	tmdbBaseURL        = "https://api.themoviedb.org/3"
	tmdbPosterBaseURL  = "https://image.tmdb.org/t/p/w342"
	tmdbMaxCastNames   = 6
	tmdbDefaultTimeout = 15 * time.Second
)

type tmdbClient struct {
	apiKey   string
	language string
	httpc    *http.Client
}

func newTMDBClient(apiKey, language string, httpc *http.Client) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: tmdbDefaultTimeout}
	}
	if strings.TrimSpace(language) == "" {
		language = "de-DE"
	}
	return &tmdbClient{apiKey: strings.TrimSpace(apiKey), language: language, httpc: httpc}
}

func (c *tmdbClient) isConfigured() bool {
	return c.apiKey != ""
}

func (c *tmdbClient) fetch(ctx context.Context, path string, params url.Values, v any) error {
	q := url.Values{}
	for k, vals := range params {
		for _, val := range vals {
			q.Add(k, val)
		}
	}
	q.Set("api_key", c.apiKey)
	q.Set("language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tmdbBaseURL+"/"+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb: %s returned status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

type tmdbMatch struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path"`
}

// searchBestMatch tries progressively cleaner query variants and returns the
// first hit: the raw title, the cleaned title, and the part before a colon.
func (c *tmdbClient) searchBestMatch(ctx context.Context, rawTitle string) (*tmdbMatch, error) {
	raw := strings.TrimSpace(rawTitle)
	cleaned := CleanTitle(raw)

	var variants []string
	if raw != "" {
		variants = append(variants, raw)
	}
	if cleaned != "" && cleaned != raw {
		variants = append(variants, cleaned)
	}
	if idx := strings.Index(cleaned, ":"); idx > 0 {
		variants = append(variants, strings.TrimSpace(cleaned[:idx]))
	}

	var lastErr error
	for _, q := range variants {
		var out struct {
			Results []tmdbMatch `json:"results"`
		}
		if err := c.fetch(ctx, "search/movie", url.Values{"query": {q}}, &out); err != nil {
			lastErr = err
			continue
		}
		if len(out.Results) > 0 && out.Results[0].ID > 0 {
			return &out.Results[0], nil
		}
	}
	return nil, lastErr
}

type tmdbDetails struct {
	Title    string `json:"title"`
	Overview string `json:"overview"`
	Runtime  int    `json:"runtime"`
	Genres   []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

type tmdbCredits struct {
	Cast []struct {
		Name string `json:"name"`
	} `json:"cast"`
}

// movieByTitle resolves a display title into an enrichment payload. A title
// with no match returns (nil, nil); only transport-level failures error.
func (c *tmdbClient) movieByTitle(ctx context.Context, title string) (*models.MovieDetails, error) {
	match, err := c.searchBestMatch(ctx, title)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, nil
	}

	// Details and credits are independent; fetch both at once. Either call
	// failing degrades that part of the payload instead of dropping the match.
	var (
		wg      sync.WaitGroup
		details tmdbDetails
		credits tmdbCredits
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = c.fetch(ctx, fmt.Sprintf("movie/%d", match.ID), nil, &details)
	}()
	go func() {
		defer wg.Done()
		_ = c.fetch(ctx, fmt.Sprintf("movie/%d/credits", match.ID), nil, &credits)
	}()
	wg.Wait()

	out := &models.MovieDetails{
		Title:  strings.TrimSpace(title),
		Genres: []string{},
		Cast:   []string{},
	}
	if details.Title != "" {
		out.Title = details.Title
	} else if match.Title != "" {
		out.Title = match.Title
	}
	if match.PosterPath != "" {
		poster := tmdbPosterBaseURL + match.PosterPath
		out.Poster = &poster
	}
	if details.Overview != "" {
		overview := details.Overview
		out.Description = &overview
	}
	if details.Runtime > 0 {
		runtime := fmt.Sprintf("%d Min", details.Runtime)
		out.Runtime = &runtime
	}
	for _, g := range details.Genres {
		if g.Name != "" {
			out.Genres = append(out.Genres, g.Name)
		}
	}
	for _, member := range credits.Cast {
		if len(out.Cast) >= tmdbMaxCastNames {
			break
		}
		if member.Name != "" {
			out.Cast = append(out.Cast, member.Name)
		}
	}
	return out, nil
}
