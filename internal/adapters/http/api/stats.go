// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	service "github.com/campuslabs/clubpulse/internal/app"
)

// StatsHandler handles stats requests.
type StatsHandler struct {
	deps Dependencies
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps Dependencies) *StatsHandler {
	return &StatsHandler{deps: deps}
}

// HandleStats handles GET /stats requests. Before the first run it
// returns an empty summary rather than an error.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats, err := h.deps.Stats(r.Context())
	if err != nil {
		if isNoResults(err) {
			writeJSON(w, http.StatusOK, service.Stats{})
			return
		}
		writeError(w, http.StatusInternalServerError, "stats_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
