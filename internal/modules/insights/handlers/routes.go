package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all insight routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/insights", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/generate", h.HandleGenerate)
	})
}
