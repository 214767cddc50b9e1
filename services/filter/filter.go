// Package filter classifies free-text venue and movie titles: a denylist for
// adult-content/noise strings and a heuristic "is this place a cinema" check.
// The word lists are plain data tables so they can be tested and extended
// without touching the classification logic.
package filter

import "strings"

// Denylist applied to venue and movie titles alike. Matching is a plain
// lower-cased substring check, no scoring.
var blockedWords = []string{
	"erotik",
	"sex",
	"sexy",
	"adult",
	"porno",
	"porn",
	"blue movie",
	"fkk",
	"bordell",
	"strip",
	"peepshow",
	"escort",
	"privatclub",
	"sauna club",
	"sauna",
	"massage",
	"erdbeermund",
	"kino hole",
	"hole kino",
	"sexkino",
	"adult kino",
}

// Generic cinema vocabulary found in German venue names.
var cinemaWords = []string{
	"kino",
	"kinos",
	"cinema",
	"cine",
	"movie theater",
	"movie theatre",
	"filmtheater",
	"lichtspiele",
	"filmhaus",
	"programmkino",
	"arthouse",
	"filmkunst",
	"kinocenter",
}

// Known German cinema chains.
var cinemaBrands = []string{
	"cinedom",
	"cinemaxx",
	"uci",
	"cineplex",
	"cinestar",
	"kinopolis",
	"filmpalast",
	"metropolis",
}

// Words that flag nightlife venues masquerading under cinema-adjacent names.
var badVenueWords = []string{"club", "bar", "lounge", "massage", "sauna", "bordell"}

// Tokens in the provider-supplied category/type fields that indicate a cinema.
var cinemaCategoryTokens = []string{"movie", "cinema", "theater"}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// IsBlocked reports whether the text contains any denylisted substring.
func IsBlocked(text string) bool {
	return containsAny(strings.ToLower(text), blockedWords)
}

// IsCinemaCategory reports whether the provider category/type metadata marks
// the venue as a cinema. Category metadata is inconsistently populated
// upstream, so this is a secondary confirming signal only.
func IsCinemaCategory(category, venueType string) bool {
	return containsAny(strings.ToLower(venueType), cinemaCategoryTokens) ||
		containsAny(strings.ToLower(category), cinemaCategoryTokens)
}

// IsCinema classifies a candidate venue by title and provider metadata.
// Blocked titles are rejected outright. Text heuristics (brand names, cinema
// vocabulary) are the primary signal; the bad-venue guard suppresses
// nightlife venues that share generic terms but show no cinema signal.
func IsCinema(title, category, venueType string) bool {
	lower := strings.ToLower(title)
	if IsBlocked(lower) {
		return false
	}

	byCategory := IsCinemaCategory(category, venueType)
	byText := containsAny(lower, cinemaBrands) || containsAny(lower, cinemaWords)

	if containsAny(lower, badVenueWords) && !byCategory && !byText {
		return false
	}

	return byCategory || byText
}
