package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/guenthersilvia37/nachts-im-kino-api/services/filter"
	"github.com/guenthersilvia37/nachts-im-kino-api/services/showtimes"
)

// programSource produces the reconciled 7-day program for a cinema.
type programSource interface {
	Get(ctx context.Context, name, city string) (showtimes.Result, error)
}

var _ programSource = (*showtimes.Service)(nil)

type ShowtimesResponse struct {
	OK     bool   `json:"ok"`
	Cinema string `json:"cinema"`
	City   string `json:"city"`
	showtimes.Result
}

type ShowtimesHandler struct {
	Program programSource
}

func NewShowtimesHandler(program programSource) *ShowtimesHandler {
	return &ShowtimesHandler{Program: program}
}

// ProgramFor handles GET /api/showtimes?name=<cinema>&city=<city>.
func (h *ShowtimesHandler) ProgramFor(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name fehlt")
		return
	}
	if city == "" {
		writeError(w, http.StatusBadRequest, "city fehlt")
		return
	}
	if filter.IsBlocked(name) {
		writeError(w, http.StatusBadRequest, "Dieses Kino ist blockiert.")
		return
	}

	result, err := h.Program.Get(r.Context(), name, city)
	if err != nil {
		log.Printf("[showtimes] %q in %q: %v", name, city, err)
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ShowtimesResponse{
		OK:     true,
		Cinema: name,
		City:   city,
		Result: result,
	})
}
