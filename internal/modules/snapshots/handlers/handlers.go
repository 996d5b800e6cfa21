// Package handlers provides HTTP handlers for KPI snapshot rows.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/valyxo/valyxo/internal/modules/snapshots"
)

// Handler handles snapshot HTTP requests
type Handler struct {
	repo *snapshots.Repository
	log  zerolog.Logger
}

// NewHandler creates a new snapshot handler
func NewHandler(repo *snapshots.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "snapshots").Logger(),
	}
}

// snapshotRow is the wire shape the dashboard consumes.
type snapshotRow struct {
	PeriodDate string              `json:"period_date"`
	KPIs       map[string]*float64 `json:"kpis"`
}

// HandleList handles GET /api/kpi/snapshots?companyId=...
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("companyId")
	if companyID == "" {
		h.writeError(w, http.StatusBadRequest, "companyId is required")
		return
	}

	rows, err := h.repo.ListByCompany(companyID)
	if err != nil {
		h.log.Error().Err(err).Str("company_id", companyID).Msg("Failed to list snapshots")
		h.writeError(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}

	out := make([]snapshotRow, 0, len(rows))
	for _, s := range rows {
		out = append(out, snapshotRow{
			PeriodDate: s.PeriodDate.Format(snapshots.PeriodLayout),
			KPIs:       s.KPIs,
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":   true,
		"rows": out,
	})
}

// upsertRequest is the manual-entry write shape.
type upsertRequest struct {
	CompanyID  string              `json:"company_id"`
	PeriodDate string              `json:"period_date"`
	KPIs       map[string]*float64 `json:"kpis"`
}

// HandleUpsert handles POST /api/kpi/snapshots
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.CompanyID == "" {
		h.writeError(w, http.StatusBadRequest, "company_id is required")
		return
	}

	period, err := time.Parse(snapshots.PeriodLayout, req.PeriodDate)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "period_date must be YYYY-MM-DD")
		return
	}

	if req.KPIs == nil {
		req.KPIs = map[string]*float64{}
	}

	err = h.repo.Upsert(snapshots.Snapshot{
		CompanyID:  req.CompanyID,
		PeriodDate: period,
		KPIs:       req.KPIs,
	})
	if err != nil {
		h.log.Error().Err(err).Str("company_id", req.CompanyID).Msg("Failed to upsert snapshot")
		h.writeError(w, http.StatusInternalServerError, "failed to store snapshot")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// HandleDelete handles DELETE /api/kpi/snapshots?companyId=...&periodDate=...
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("companyId")
	periodDate := r.URL.Query().Get("periodDate")
	if companyID == "" || periodDate == "" {
		h.writeError(w, http.StatusBadRequest, "companyId and periodDate are required")
		return
	}

	period, err := time.Parse(snapshots.PeriodLayout, periodDate)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "periodDate must be YYYY-MM-DD")
		return
	}

	if err := h.repo.Delete(companyID, period); err != nil {
		h.log.Error().Err(err).Str("company_id", companyID).Msg("Failed to delete snapshot")
		h.writeError(w, http.StatusInternalServerError, "failed to delete snapshot")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
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
