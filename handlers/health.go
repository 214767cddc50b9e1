package handlers

import "net/http"

// configuredChecker reports whether an upstream credential is present.
type configuredChecker interface {
	IsConfigured() bool
}

type HealthResponse struct {
	OK   bool `json:"ok"`
	Serp bool `json:"serp"`
	TMDB bool `json:"tmdb"`
}

type HealthHandler struct {
	Serp configuredChecker
	TMDB configuredChecker
}

func NewHealthHandler(serp, tmdb configuredChecker) *HealthHandler {
	return &HealthHandler{Serp: serp, TMDB: tmdb}
}

// Status handles GET /api/health. It never fails; the per-provider flags
// tell the front-end which features to expect.
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		OK:   true,
		Serp: h.Serp.IsConfigured(),
		TMDB: h.TMDB.IsConfigured(),
	})
}
