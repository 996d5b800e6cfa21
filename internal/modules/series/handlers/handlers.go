// Package handlers provides HTTP handlers for chart series requests.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/valyxo/valyxo/internal/modules/series"
)

// defaultMonthsAhead is the forecast horizon when the caller doesn't ask
// for one explicitly.
const defaultMonthsAhead = 3

// maxMonthsAhead bounds the horizon; projecting a startup's MRR two years
// out is noise, not signal.
const maxMonthsAhead = 24

// Handler handles series HTTP requests
type Handler struct {
	service *series.Service
	log     zerolog.Logger
}

// NewHandler creates a new series handler
func NewHandler(service *series.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "series").Logger(),
	}
}

// HandleGetSeries handles GET /api/kpi/series?companyId=...&metric=...&monthsAhead=...
func (h *Handler) HandleGetSeries(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("companyId")
	metric := r.URL.Query().Get("metric")
	if companyID == "" || metric == "" {
		h.writeError(w, http.StatusBadRequest, "companyId and metric are required")
		return
	}

	monthsAhead := defaultMonthsAhead
	if raw := r.URL.Query().Get("monthsAhead"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.writeError(w, http.StatusBadRequest, "monthsAhead must be a non-negative integer")
			return
		}
		monthsAhead = parsed
	}
	if monthsAhead > maxMonthsAhead {
		monthsAhead = maxMonthsAhead
	}

	points, err := h.service.BuildChart(companyID, metric, monthsAhead)
	if err != nil {
		h.log.Error().Err(err).
			Str("company_id", companyID).
			Str("metric", metric).
			Msg("Failed to build chart series")
		h.writeError(w, http.StatusInternalServerError, "failed to build series")
		return
	}

	if points == nil {
		points = []series.ChartDataPoint{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":     true,
		"metric": metric,
		"points": points,
	})
}

// HandleListMetrics handles GET /api/kpi/metrics
func (h *Handler) HandleListMetrics(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"metrics": series.Definitions(),
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
