package showtimes

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/guenthersilvia37/nachts-im-kino-api/models"
)

// dayIdentity is the merge key for a calendar day: the structural date when
// the source supplied one, otherwise the trimmed display label.
func dayIdentity(d models.CalendarDay) string {
	if !d.Key.IsZero() {
		return fmt.Sprintf("%04d-%02d-%02d", d.Key.Year, int(d.Key.Month), d.Key.Day)
	}
	return strings.TrimSpace(d.Date)
}

func movieIdentity(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Merge combines two day lists. Days merge by identity; within a matching
// day, movies merge by case-insensitive title: time sets are unioned, and
// poster/info keep the first non-nil value. Scalar fields set by the base are
// never clobbered, so higher-priority sources go first.
func Merge(base, extra []models.CalendarDay) []models.CalendarDay {
	out := make([]models.CalendarDay, 0, len(base)+len(extra))
	index := make(map[string]int, len(base))

	for _, d := range base {
		id := dayIdentity(d)
		if id == "" {
			continue
		}
		index[id] = len(out)
		out = append(out, cloneDay(d))
	}

	for _, d := range extra {
		id := dayIdentity(d)
		if id == "" {
			continue
		}
		pos, ok := index[id]
		if !ok {
			index[id] = len(out)
			out = append(out, cloneDay(d))
			continue
		}
		out[pos].Movies = mergeMovies(out[pos].Movies, d.Movies)
	}

	return out
}

func cloneDay(d models.CalendarDay) models.CalendarDay {
	c := d
	c.Movies = make([]models.MovieScreening, len(d.Movies))
	copy(c.Movies, d.Movies)
	return c
}

func mergeMovies(existing, extra []models.MovieScreening) []models.MovieScreening {
	index := make(map[string]int, len(existing))
	for i, m := range existing {
		index[movieIdentity(m.Title)] = i
	}

	for _, m := range extra {
		id := movieIdentity(m.Title)
		if id == "" {
			continue
		}
		pos, ok := index[id]
		if !ok {
			index[id] = len(existing)
			existing = append(existing, m)
			continue
		}
		cur := &existing[pos]
		cur.Times = unionTimes(cur.Times, m.Times)
		if cur.Poster == nil {
			cur.Poster = m.Poster
		}
		if cur.Info == nil {
			cur.Info = m.Info
		}
	}

	return existing
}

func unionTimes(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, t := range a {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, t := range b {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// EnsureSevenDays aligns the input to the canonical window: exactly 7
// consecutive days starting at anchor. Matching input days keep their own
// display labels (they may carry correct localized formatting from the
// source); slots with no data become empty-movie placeholders. Duplicate day
// identities keep the first-seen entry: input arrives pre-merged, so earlier
// means higher-priority source.
func EnsureSevenDays(days []models.CalendarDay, anchor time.Time) []models.CalendarDay {
	byKey := make(map[models.DayKey]models.CalendarDay, len(days))
	byLabel := make(map[string]models.CalendarDay, len(days))
	for _, d := range days {
		if !d.Key.IsZero() {
			if _, exists := byKey[d.Key]; !exists {
				byKey[d.Key] = d
			}
			continue
		}
		if label := strings.TrimSpace(d.Date); label != "" {
			if _, exists := byLabel[label]; !exists {
				byLabel[label] = d
			}
		}
	}

	start := models.DayKeyFor(anchor)
	out := make([]models.CalendarDay, 0, 7)
	for i := 0; i < 7; i++ {
		want := start.AddDays(i)
		found, ok := byKey[want]
		if !ok {
			found, ok = byLabel[want.DateLabel()]
		}
		if !ok {
			out = append(out, models.EmptyDay(want))
			continue
		}

		slot := models.EmptyDay(want)
		if d := strings.TrimSpace(found.Day); d != "" {
			slot.Day = d
		}
		if d := strings.TrimSpace(found.Date); d != "" {
			slot.Date = d
		}
		if found.Movies != nil {
			slot.Movies = found.Movies
		}
		out = append(out, slot)
	}
	return out
}

// CountRealDays counts days carrying at least one movie with at least one
// showtime. Callers use it to decide whether a fallback source is worth
// invoking.
func CountRealDays(days []models.CalendarDay) int {
	n := 0
	for _, d := range days {
		for _, m := range d.Movies {
			if len(m.Times) > 0 {
				n++
				break
			}
		}
	}
	return n
}
