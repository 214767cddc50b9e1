package metadata

import "testing"

func TestCleanTitle(t *testing.T) {
	cases := map[string]string{
		"Oppenheimer (OV)":               "Oppenheimer",
		"Dune: Part Two – Der Wüstenplanet": "Dune: Part Two",
		"Avatar 3D IMAX":                 "Avatar",
		"Barbie (2023)":                  "Barbie",
		"Wicked  OmU":                    "Wicked",
		"Gladiator II Dolby Atmos":       "Gladiator II",
		"Konklave OmU 3D":                "Konklave",
		"Plain Title":                    "Plain Title",
		"":                               "",
	}
	for input, want := range cases {
		if got := CleanTitle(input); got != want {
			t.Errorf("CleanTitle(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCacheKey(t *testing.T) {
	// Edition tags and casing collapse to the same key.
	a := cacheKey("Oppenheimer (OV)")
	b := cacheKey("oppenheimer")
	if a != b {
		t.Fatalf("expected identical cache keys, got %q and %q", a, b)
	}
	if a != "tmdb::oppenheimer" {
		t.Fatalf("unexpected cache key %q", a)
	}
}
