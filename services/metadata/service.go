// Package metadata enriches movie titles with poster, synopsis, runtime,
// genre and cast data from TMDB, memoizing successful lookups in a TTL cache.
package metadata

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/guenthersilvia37/nachts-im-kino-api/cache"
	"github.com/guenthersilvia37/nachts-im-kino-api/models"
	"github.com/guenthersilvia37/nachts-im-kino-api/services/filter"
)

// ErrNotConfigured signals that no TMDB API key is set. Callers degrade to
// unenriched responses instead of failing.
var ErrNotConfigured = errors.New("metadata: tmdb api key not configured")

type Service struct {
	tmdb      *tmdbClient
	cache     *cache.Cache[*models.MovieDetails]
	maxEnrich int
}

// NewService creates the enrichment service. ttl bounds how long successful
// lookups are memoized; maxEnrich caps distinct titles looked up per calendar.
func NewService(apiKey, language string, httpc *http.Client, ttl time.Duration, maxEnrich int) *Service {
	if maxEnrich <= 0 {
		maxEnrich = 12
	}
	return &Service{
		tmdb:      newTMDBClient(apiKey, language, httpc),
		cache:     cache.New[*models.MovieDetails](ttl),
		maxEnrich: maxEnrich,
	}
}

// IsConfigured reports whether a TMDB key is present.
func (s *Service) IsConfigured() bool {
	return s.tmdb.isConfigured()
}

// Lookup resolves a title to its metadata, consulting the cache first. A
// "no match" result returns (nil, nil) and is deliberately not cached, so a
// transient upstream miss can be retried on the next request.
func (s *Service) Lookup(ctx context.Context, title string) (*models.MovieDetails, error) {
	if !s.tmdb.isConfigured() {
		return nil, ErrNotConfigured
	}

	key := cacheKey(title)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	details, err := s.tmdb.movieByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if details != nil {
		s.cache.Set(key, details)
	}
	return details, nil
}

// EnrichDays back-fills poster and info on the reconciled calendar. Up to
// maxEnrich distinct non-blocked titles are collected in display order and
// looked up concurrently; lookup failures leave the affected screenings with
// their original (possibly all-null) info.
func (s *Service) EnrichDays(ctx context.Context, days []models.CalendarDay) {
	if !s.tmdb.isConfigured() {
		return
	}

	titles := collectTitles(days, s.maxEnrich)
	if len(titles) == 0 {
		return
	}

	var mu sync.Mutex
	found := make(map[string]*models.MovieDetails, len(titles))

	p := pool.New()
	for _, title := range titles {
		p.Go(func() {
			details, err := s.Lookup(ctx, title)
			if err != nil {
				log.Printf("[metadata] lookup failed for %q: %v", title, err)
				return
			}
			if details == nil {
				return
			}
			mu.Lock()
			found[title] = details
			mu.Unlock()
		})
	}
	p.Wait()

	for di := range days {
		for mi := range days[di].Movies {
			m := &days[di].Movies[mi]
			details := found[strings.TrimSpace(m.Title)]
			if details == nil {
				continue
			}
			if m.Poster == nil && details.Poster != nil {
				m.Poster = details.Poster
			}
			// Fresh info beats the placeholder bundle the normalizer attached.
			m.Info = details.Info()
		}
	}
}

// collectTitles gathers distinct, non-blocked titles in display order, capped
// to bound upstream call volume.
func collectTitles(days []models.CalendarDay, limit int) []string {
	seen := make(map[string]struct{}, limit)
	titles := make([]string, 0, limit)
	for _, d := range days {
		for _, m := range d.Movies {
			t := strings.TrimSpace(m.Title)
			if t == "" || filter.IsBlocked(t) {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			titles = append(titles, t)
			if len(titles) >= limit {
				return titles
			}
		}
	}
	return titles
}
