package httpapi

import (
	"net/http"

	"github.com/ent0n29/memoir/internal/observability"
)

// handlePerfSources serves per-source latency percentiles and outcome counts
// over the rolling window.
func (s *Server) handlePerfSources(w http.ResponseWriter, _ *http.Request) {
	snap := s.metrics.LatencySnapshot()
	if snap.Stages == nil {
		snap.Stages = []observability.LatencyStats{}
	}
	respondJSON(w, http.StatusOK, snap)
}
