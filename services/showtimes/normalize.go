package showtimes

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/guenthersilvia37/nachts-im-kino-api/models"
	"github.com/guenthersilvia37/nachts-im-kino-api/services/filter"
)

// Upstream showtime payloads arrive in one of three shapes. Detection is
// explicit: each shape gets its own extraction routine instead of probing
// fields speculatively mid-extraction.
type sourceShape int

const (
	shapeEmpty sourceShape = iota
	// Array of day records, each holding a movie list under movies/films/showtimes.
	shapeDayGrouped
	// Flat movie list with no date context; treated as a single "today" bucket.
	shapeFlatMovies
)

// rawTime tolerates both the string form ("19:30") and the object forms
// ({"time": ...}, {"start_time": ...}, {"starts_at": ...}) sources emit.
type rawTime string

func (t *rawTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = rawTime(s)
		return nil
	}
	var obj struct {
		Time      string `json:"time"`
		StartTime string `json:"start_time"`
		StartsAt  string `json:"starts_at"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		// Unknown element shape: treat as no time rather than failing the payload.
		*t = ""
		return nil
	}
	switch {
	case obj.Time != "":
		*t = rawTime(obj.Time)
	case obj.StartTime != "":
		*t = rawTime(obj.StartTime)
	default:
		*t = rawTime(obj.StartsAt)
	}
	return nil
}

// timeList tolerates a scalar where an array is expected ("time": "19:30"
// next to "time": ["19:30", "20:15"]).
type timeList []rawTime

func (l *timeList) UnmarshalJSON(b []byte) error {
	var many []rawTime
	if err := json.Unmarshal(b, &many); err == nil {
		*l = many
		return nil
	}
	var one rawTime
	if err := json.Unmarshal(b, &one); err != nil {
		*l = nil
		return nil
	}
	*l = timeList{one}
	return nil
}

type rawShowing struct {
	Time timeList `json:"time"`
	Type string   `json:"type"`
}

type rawMovie struct {
	Name      string       `json:"name"`
	Title     string       `json:"title"`
	Showing   []rawShowing `json:"showing"`
	Showtimes timeList     `json:"showtimes"`
	Times     timeList     `json:"times"`
}

type rawDay struct {
	Day      string `json:"day"`
	Date     string `json:"date"`
	Datetime string `json:"datetime"`

	Movies    []rawMovie `json:"movies"`
	Films     []rawMovie `json:"films"`
	Showtimes []rawMovie `json:"showtimes"`

	// Flat-shape fields; populated when the source skips day grouping and the
	// array elements are movies themselves.
	Name    string       `json:"name"`
	Title   string       `json:"title"`
	Showing []rawShowing `json:"showing"`
}

// Normalize converts one source's raw showtime payload into canonical days.
// anchor is the request's "today": it supplies the date context for flat
// sources and resolves the year of day/month-only labels. The result may
// contain fewer than 7 days and is not aligned to the calendar window; that
// is the reconciler's job.
func Normalize(raw json.RawMessage, anchor time.Time) []models.CalendarDay {
	entries := decodeEntries(raw)
	switch detectShape(entries) {
	case shapeFlatMovies:
		return normalizeFlat(entries, anchor)
	case shapeDayGrouped:
		return normalizeDayGrouped(entries, anchor)
	default:
		return []models.CalendarDay{}
	}
}

// decodeEntries accepts either a bare array or a {"showtimes": [...]} wrapper.
func decodeEntries(raw json.RawMessage) []rawDay {
	if len(raw) == 0 {
		return nil
	}
	var entries []rawDay
	if err := json.Unmarshal(raw, &entries); err == nil {
		return entries
	}
	var wrapper struct {
		Showtimes []rawDay `json:"showtimes"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil {
		return wrapper.Showtimes
	}
	return nil
}

func detectShape(entries []rawDay) sourceShape {
	if len(entries) == 0 {
		return shapeEmpty
	}
	first := entries[0]
	if first.Name != "" || len(first.Showing) > 0 {
		return shapeFlatMovies
	}
	return shapeDayGrouped
}

func normalizeFlat(entries []rawDay, anchor time.Time) []models.CalendarDay {
	key := models.DayKeyFor(anchor)
	day := models.EmptyDay(key)
	for _, e := range entries {
		m := rawMovie{Name: e.Name, Title: e.Title, Showing: e.Showing}
		if screening, ok := extractMovie(m); ok {
			day.Movies = append(day.Movies, screening)
		}
	}
	return []models.CalendarDay{day}
}

func normalizeDayGrouped(entries []rawDay, anchor time.Time) []models.CalendarDay {
	out := make([]models.CalendarDay, 0, len(entries))
	for _, e := range entries {
		key := parseDayKey(e.Date, e.Datetime, anchor)

		day := models.CalendarDay{Key: key, Movies: []models.MovieScreening{}}
		if !key.IsZero() {
			day.Day = key.DayLabel()
			day.Date = key.DateLabel()
		} else {
			day.Date = strings.TrimSpace(e.Date)
		}
		if d := strings.TrimSpace(e.Day); d != "" {
			day.Day = d
		}

		movies := e.Movies
		if len(movies) == 0 {
			movies = e.Films
		}
		if len(movies) == 0 {
			movies = e.Showtimes
		}
		for _, m := range movies {
			if screening, ok := extractMovie(m); ok {
				day.Movies = append(day.Movies, screening)
			}
		}
		out = append(out, day)
	}
	return out
}

// extractMovie builds a screening from a raw movie record. The first
// non-empty of name/title wins; times come from whichever nested field the
// source populated. A movie with no usable times is dropped, and so is any
// movie whose title matches the denylist: those must never reach the
// calendar output.
func extractMovie(m rawMovie) (models.MovieScreening, bool) {
	title := strings.TrimSpace(m.Name)
	if title == "" {
		title = strings.TrimSpace(m.Title)
	}
	if title == "" {
		title = "Film"
	}
	if filter.IsBlocked(title) {
		return models.MovieScreening{}, false
	}

	var raw timeList
	for _, s := range m.Showing {
		raw = append(raw, s.Time...)
	}
	if len(raw) == 0 {
		raw = m.Showtimes
	}
	if len(raw) == 0 {
		raw = m.Times
	}

	times := cleanTimes(raw)
	if len(times) == 0 {
		return models.MovieScreening{}, false
	}

	return models.MovieScreening{
		Title:  title,
		Times:  times,
		Poster: nil,
		Info:   models.EmptyMovieInfo(),
	}, true
}

// cleanTimes trims, drops empties, deduplicates and sorts ascending.
func cleanTimes(raw timeList) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		s := strings.TrimSpace(string(t))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02.01.2006",
	"Jan 2, 2006",
}

// Layouts without a year; the year is resolved against the anchor.
var yearlessLayouts = []string{
	"02.01.",
	"02.01",
	"Jan 2",
}

// parseDayKey turns a source-supplied date or datetime string into a
// structural day key. Yearless labels ("04.02.", "Feb 4") take the anchor's
// year, bumped forward when that would land far in the past (a January label
// seen in late December means next year). Returns the zero key when nothing
// parses; such days merge by display label only.
func parseDayKey(date, datetime string, anchor time.Time) models.DayKey {
	for _, s := range []string{strings.TrimSpace(datetime), strings.TrimSpace(date)} {
		if s == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return models.DayKeyFor(t)
			}
		}
		for _, layout := range yearlessLayouts {
			t, err := time.Parse(layout, s)
			if err != nil {
				continue
			}
			t = time.Date(anchor.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			if anchor.Sub(t) > 180*24*time.Hour {
				t = t.AddDate(1, 0, 0)
			}
			return models.DayKeyFor(t)
		}
	}
	if strings.TrimSpace(date) == "" && strings.TrimSpace(datetime) == "" {
		return models.DayKeyFor(anchor)
	}
	return models.DayKey{}
}
