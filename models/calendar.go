package models

import (
	"fmt"
	"time"
)

// Short German weekday labels, indexed by time.Weekday (Sunday first).
var shortWeekdaysDE = [7]string{"So.", "Mo.", "Di.", "Mi.", "Do.", "Fr.", "Sa."}

// DayKey identifies one calendar day structurally (year/month/day). It is the
// merge key of the showtime pipeline; the display labels on CalendarDay are
// derived from it. A zero DayKey means the source supplied only a display
// label that could not be parsed into a real date.
type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

// DayKeyFor returns the DayKey for the calendar day containing t.
func DayKeyFor(t time.Time) DayKey {
	y, m, d := t.Date()
	return DayKey{Year: y, Month: m, Day: d}
}

func (k DayKey) IsZero() bool {
	return k == DayKey{}
}

// Time returns midnight of the day in the given location.
func (k DayKey) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the key n calendar days after k.
func (k DayKey) AddDays(n int) DayKey {
	return DayKeyFor(k.Time(time.UTC).AddDate(0, 0, n))
}

// DayLabel returns the short German weekday label, e.g. "Mo.".
func (k DayKey) DayLabel() string {
	return shortWeekdaysDE[k.Time(time.UTC).Weekday()]
}

// DateLabel returns the German day/month display label, e.g. "04.02.".
func (k DayKey) DateLabel() string {
	return fmt.Sprintf("%02d.%02d.", k.Day, int(k.Month))
}

// MovieInfo is the descriptive bundle attached to a screening. Fields are
// always present in JSON; unknown values are null / empty lists so the
// front-end never needs existence checks.
type MovieInfo struct {
	Description *string  `json:"description"`
	Runtime     *string  `json:"runtime"`
	Genres      []string `json:"genres"`
	Cast        []string `json:"cast"`
}

// EmptyMovieInfo returns a placeholder info bundle with all fields unknown.
func EmptyMovieInfo() *MovieInfo {
	return &MovieInfo{Genres: []string{}, Cast: []string{}}
}

// MovieScreening is one movie within a calendar day. Title is the merge key
// within a day (case-insensitive, trimmed); Times behaves as a set.
type MovieScreening struct {
	Title  string     `json:"title"`
	Times  []string   `json:"times"`
	Poster *string    `json:"poster"`
	Info   *MovieInfo `json:"info"`
}

// CalendarDay is one slot of the 7-day calendar returned to clients.
type CalendarDay struct {
	Key    DayKey           `json:"-"`
	Day    string           `json:"day"`
	Date   string           `json:"date"`
	Movies []MovieScreening `json:"movies"`
}

// EmptyDay returns a placeholder day for the given key with no screenings.
func EmptyDay(key DayKey) CalendarDay {
	return CalendarDay{
		Key:    key,
		Day:    key.DayLabel(),
		Date:   key.DateLabel(),
		Movies: []MovieScreening{},
	}
}
