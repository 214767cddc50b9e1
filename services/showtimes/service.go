package showtimes

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/guenthersilvia37/nachts-im-kino-api/cache"
	"github.com/guenthersilvia37/nachts-im-kino-api/models"
)

// SearchSource returns the raw showtimes block for a venue query, in whatever
// shape the provider emits it. A provider failure surfaces as an error; an
// empty or missing block is not an error.
type SearchSource interface {
	VenueShowtimes(ctx context.Context, venue, city string) (json.RawMessage, error)
}

// ScrapeSource is a best-effort fallback that reads a venue's own website.
// Fetch must never panic past its boundary; total failure is an empty slice.
type ScrapeSource interface {
	MatchesVenue(name string) bool
	Fetch(ctx context.Context, anchor time.Time) []models.CalendarDay
}

// Enricher back-fills poster and descriptive info on the reconciled calendar.
type Enricher interface {
	EnrichDays(ctx context.Context, days []models.CalendarDay)
}

// Result is the pipeline output for one venue query.
type Result struct {
	Days            []models.CalendarDay `json:"days"`
	RealDaysFound   int                  `json:"real_days_found"`
	RawHadShowtimes bool                 `json:"raw_has_showtimes"`
}

// Service runs the showtime pipeline: search → normalize → fallback scrape →
// merge → seven-day alignment → enrichment. Results are memoized briefly so
// repeated identical queries skip the upstream calls.
type Service struct {
	search      SearchSource
	scrapers    []ScrapeSource
	enricher    Enricher
	queryCache  *cache.Cache[Result]
	minRealDays int
	now         func() time.Time
}

// NewService creates the pipeline service. minRealDays is the fallback
// threshold: scrape sources run only when the primary source yielded fewer
// real days than this.
func NewService(search SearchSource, enricher Enricher, queryTTL time.Duration, minRealDays int, scrapers ...ScrapeSource) *Service {
	return &Service{
		search:      search,
		scrapers:    scrapers,
		enricher:    enricher,
		queryCache:  cache.New[Result](queryTTL),
		minRealDays: minRealDays,
		now:         time.Now,
	}
}

// Get resolves the 7-day calendar for a venue. The returned Result always
// holds exactly 7 days; absence of data shows up as RealDaysFound == 0, not
// as an error. Only provider failures from the primary source error out.
func (s *Service) Get(ctx context.Context, name, city string) (Result, error) {
	key := queryKey(name, city)
	if cached, ok := s.queryCache.Get(key); ok {
		return cached, nil
	}

	raw, err := s.search.VenueShowtimes(ctx, name, city)
	if err != nil {
		return Result{}, err
	}

	anchor := s.now()
	days := Normalize(raw, anchor)
	realDays := CountRealDays(days)

	if realDays < s.minRealDays {
		for _, sc := range s.scrapers {
			if !sc.MatchesVenue(name) {
				continue
			}
			scraped := sc.Fetch(ctx, anchor)
			if len(scraped) == 0 {
				continue
			}
			log.Printf("[showtimes] fallback scrape for %q merged %d day(s)", name, len(scraped))
			days = Merge(days, scraped)
			realDays = CountRealDays(days)
		}
	}

	days = EnsureSevenDays(days, anchor)

	if s.enricher != nil {
		s.enricher.EnrichDays(ctx, days)
	}

	res := Result{
		Days:            days,
		RealDaysFound:   realDays,
		RawHadShowtimes: hasRawItems(raw),
	}
	s.queryCache.Set(key, res)
	return res, nil
}

func queryKey(name, city string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "::" + strings.ToLower(strings.TrimSpace(city))
}

func hasRawItems(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		return len(items) > 0
	}
	var wrapper struct {
		Showtimes []json.RawMessage `json:"showtimes"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil {
		return len(wrapper.Showtimes) > 0
	}
	return false
}
