// Package scrape holds best-effort fallback sources that read a cinema's own
// website when the primary showtimes source comes up short. Sources honor a
// strict contract: they return canonical calendar days or nothing, and never
// panic past their boundary.
package scrape

import (
	"context"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/guenthersilvia37/nachts-im-kino-api/models"
)

const (
	cinedomProgramURL = "https://cinedom.de/programmuebersicht/"
	scrapeUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	maxScrapedDays    = 7
	maxScrapedTimes   = 25
)

// Accepts 19:30, 19.30, 9:05 and 09:05; normalized to HH:MM.
var clockRE = regexp.MustCompile(`\b([01]?\d|2[0-3])[:.][0-5]\d\b`)

var scrapeDateLayouts = []string{"2006-01-02", time.RFC3339, "02.01.2006"}

// CinedomSource scrapes the Cinedom programme overview page. The page does
// not attribute times to movies in static HTML, so all extracted times land
// under one generic entry per day; better than an empty calendar.
type CinedomSource struct {
	url     string
	timeout time.Duration
}

// NewCinedomSource builds the source. An empty url selects the production
// programme page.
func NewCinedomSource(url string) *CinedomSource {
	if url == "" {
		url = cinedomProgramURL
	}
	return &CinedomSource{url: url, timeout: 30 * time.Second}
}

// MatchesVenue reports whether this source covers the queried venue.
func (s *CinedomSource) MatchesVenue(name string) bool {
	return strings.Contains(strings.ToLower(name), "cinedom")
}

// Fetch scrapes the programme page. Any failure, including a panic inside
// the HTML walk, yields an empty slice; the caller pads the calendar anyway.
func (s *CinedomSource) Fetch(ctx context.Context, anchor time.Time) (days []models.CalendarDay) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[scrape] cinedom: recovered from panic: %v", r)
			days = nil
		}
	}()

	var (
		keys []models.DayKey
		body string
	)

	c := colly.NewCollector(colly.UserAgent(scrapeUserAgent), colly.StdlibContext(ctx))
	c.SetRequestTimeout(s.timeout)

	c.OnHTML("[data-date]", func(e *colly.HTMLElement) {
		if len(keys) >= maxScrapedDays {
			return
		}
		key := parseScrapedDate(e.Attr("data-date"), anchor)
		if key.IsZero() {
			return
		}
		for _, k := range keys {
			if k == key {
				return
			}
		}
		keys = append(keys, key)
	})
	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})

	if err := c.Visit(s.url); err != nil {
		log.Printf("[scrape] cinedom: fetch failed: %v", err)
		return nil
	}

	times := ExtractTimes(body)
	if len(keys) == 0 || len(times) == 0 {
		return nil
	}

	days = make([]models.CalendarDay, 0, len(keys))
	for _, key := range keys {
		day := models.EmptyDay(key)
		day.Movies = []models.MovieScreening{{
			Title:  "Film",
			Times:  times,
			Poster: nil,
			Info:   models.EmptyMovieInfo(),
		}}
		days = append(days, day)
	}
	return days
}

func parseScrapedDate(raw string, anchor time.Time) models.DayKey {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.DayKey{}
	}
	for _, layout := range scrapeDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return models.DayKeyFor(t)
		}
	}
	// ISO-like prefixes ("2024-02-04T00:00:00+01:00" variants already covered,
	// but some pages append free text).
	if len(raw) >= 10 {
		if t, err := time.Parse("2006-01-02", raw[:10]); err == nil {
			return models.DayKeyFor(t)
		}
	}
	return models.DayKey{}
}

// ExtractTimes pulls clock times out of arbitrary page text, normalizes them
// to HH:MM, deduplicates, sorts and caps the list.
func ExtractTimes(text string) []string {
	found := clockRE.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(found))
	out := make([]string, 0, len(found))
	for _, raw := range found {
		normalized := strings.Replace(raw, ".", ":", 1)
		if len(normalized) == 4 {
			normalized = "0" + normalized
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	sort.Strings(out)
	if len(out) > maxScrapedTimes {
		out = out[:maxScrapedTimes]
	}
	return out
}
