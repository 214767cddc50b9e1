package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/guenthersilvia37/nachts-im-kino-api/services/serpapi"
)

type errorResponse struct {
	OK      bool `json:"ok"`
	Error   any  `json:"error"`
	Details any  `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[http] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{OK: false, Error: msg})
}

// writeUpstreamError maps provider failures onto the API's error envelope.
// SerpApi errors pass their status and payload through so the front-end can
// distinguish quota exhaustion from bad queries.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var perr *serpapi.ProviderError
	switch {
	case errors.As(err, &perr):
		details := any(nil)
		if len(perr.Payload) > 0 {
			details = json.RawMessage(perr.Payload)
		}
		writeJSON(w, perr.Status, errorResponse{OK: false, Error: "SerpApi Fehler", Details: details})
	case errors.Is(err, serpapi.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, "SERPAPI_KEY fehlt")
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{OK: false, Error: "Serverfehler", Details: err.Error()})
	}
}
