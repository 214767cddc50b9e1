package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/guenthersilvia37/nachts-im-kino-api/models"
	"github.com/guenthersilvia37/nachts-im-kino-api/services/filter"
	"github.com/guenthersilvia37/nachts-im-kino-api/services/metadata"
)

// movieLookup resolves a film title to its metadata.
type movieLookup interface {
	Lookup(ctx context.Context, title string) (*models.MovieDetails, error)
	IsConfigured() bool
}

var _ movieLookup = (*metadata.Service)(nil)

type MovieResponse struct {
	OK     bool                 `json:"ok"`
	Movie  *models.MovieDetails `json:"movie"`
	Reason *string              `json:"reason"`
}

type PosterResponse struct {
	OK     bool    `json:"ok"`
	Poster *string `json:"poster"`
}

type MovieHandler struct {
	Metadata movieLookup
}

func NewMovieHandler(m movieLookup) *MovieHandler {
	return &MovieHandler{Metadata: m}
}

// Details handles GET /api/movie?title=<title>.
func (h *MovieHandler) Details(w http.ResponseWriter, r *http.Request) {
	title, movie, reason, ok := h.resolve(w, r)
	if !ok {
		return
	}
	if movie == nil && reason == nil {
		log.Printf("[movie] no match for %q", title)
		reason = strPtr("not_found")
	}
	writeJSON(w, http.StatusOK, MovieResponse{OK: true, Movie: movie, Reason: reason})
}

// Poster handles GET /api/poster?title=<title>, a trimmed variant of
// Details for list views that only need artwork.
func (h *MovieHandler) Poster(w http.ResponseWriter, r *http.Request) {
	_, movie, _, ok := h.resolve(w, r)
	if !ok {
		return
	}
	resp := PosterResponse{OK: true}
	if movie != nil {
		resp.Poster = movie.Poster
	}
	writeJSON(w, http.StatusOK, resp)
}

// resolve validates the title parameter and performs the lookup. The bool
// result reports whether a response can still be written; on false an error
// has already been sent.
func (h *MovieHandler) resolve(w http.ResponseWriter, r *http.Request) (string, *models.MovieDetails, *string, bool) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		writeError(w, http.StatusBadRequest, "title fehlt")
		return "", nil, nil, false
	}
	if filter.IsBlocked(title) {
		return title, nil, strPtr("blocked"), true
	}
	if !h.Metadata.IsConfigured() {
		return title, nil, strPtr("tmdb_key_missing"), true
	}

	movie, err := h.Metadata.Lookup(r.Context(), title)
	if err != nil {
		log.Printf("[movie] lookup %q: %v", title, err)
		writeUpstreamError(w, err)
		return title, nil, nil, false
	}
	return title, movie, nil, true
}

func strPtr(s string) *string { return &s }
