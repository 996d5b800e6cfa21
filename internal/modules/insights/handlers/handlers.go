// Package handlers provides HTTP handlers for stored and on-demand insights.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/valyxo/valyxo/internal/modules/insights"
)

// Handler handles insight HTTP requests
type Handler struct {
	service *insights.Service
	log     zerolog.Logger
}

// NewHandler creates a new insight handler
func NewHandler(service *insights.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "insights").Logger(),
	}
}

// insightRow is the wire shape the dashboard consumes.
type insightRow struct {
	ID        string `json:"id"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

// HandleList handles GET /api/insights?companyId=...&limit=...
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("companyId")
	if companyID == "" {
		h.writeError(w, http.StatusBadRequest, "companyId is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	rows, err := h.service.ListByCompany(companyID, limit)
	if err != nil {
		h.log.Error().Err(err).Str("company_id", companyID).Msg("Failed to list insights")
		h.writeError(w, http.StatusInternalServerError, "failed to list insights")
		return
	}

	out := make([]insightRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, insightRow{
			ID:        row.ID,
			Body:      row.Body,
			CreatedAt: row.CreatedAt.Format(time.RFC3339),
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":       true,
		"insights": out,
	})
}

// generateRequest identifies the company to regenerate insights for.
type generateRequest struct {
	CompanyID string `json:"company_id"`
}

// HandleGenerate handles POST /api/insights/generate
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.CompanyID == "" {
		h.writeError(w, http.StatusBadRequest, "company_id is required")
		return
	}

	stored, err := h.service.GenerateForCompany(r.Context(), req.CompanyID)
	if err != nil {
		h.log.Error().Err(err).Str("company_id", req.CompanyID).Msg("Failed to generate insights")
		h.writeError(w, http.StatusBadGateway, "failed to generate insights")
		return
	}

	out := make([]insightRow, 0, len(stored))
	for _, row := range stored {
		out = append(out, insightRow{
			ID:        row.ID,
			Body:      row.Body,
			CreatedAt: row.CreatedAt.Format(time.RFC3339),
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":       true,
		"insights": out,
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"ok":    false,
		"error": message,
	})
}
