package metadata

import (
	"regexp"
	"strings"
)

// Cinema programmes decorate titles with edition tags and suffixes that ruin
// search hit rates ("Dune: Part Two (OV) – 3D IMAX"). CleanTitle strips them
// before lookup and cache keying.
var (
	suffixRE     = regexp.MustCompile(`\s*[–-]\s*.*$`)
	parensRE     = regexp.MustCompile(`\(.*?\)`)
	editionTagRE = regexp.MustCompile(`(?i)\b(ov|omu|3d|imax|dolby|atmos|df|d-?box)\b`)
	spacesRE     = regexp.MustCompile(`\s{2,}`)
)

// CleanTitle strips release-edition noise from a display title.
func CleanTitle(title string) string {
	t := suffixRE.ReplaceAllString(title, "")
	t = parensRE.ReplaceAllString(t, "")
	t = editionTagRE.ReplaceAllString(t, "")
	t = spacesRE.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// cacheKey normalizes a title into the metadata cache key.
func cacheKey(title string) string {
	return strings.ToLower("tmdb::" + CleanTitle(title))
}
