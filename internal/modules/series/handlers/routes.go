package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all series routes. Registered flat because the
// snapshots module mounts its own subrouter under /kpi/snapshots.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/kpi/series", h.HandleGetSeries)
	r.Get("/kpi/metrics", h.HandleListMetrics)
}
