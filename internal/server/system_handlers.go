package server

import (
	"encoding/json"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/valyxo/valyxo/internal/database"
	"github.com/valyxo/valyxo/internal/scheduler"
)

// SystemHandlers handles system-wide monitoring and operations endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	dbPath      string
	startupTime time.Time
	db          *database.DB

	// Jobs (set after job registration in main.go)
	refreshJob      scheduler.Job
	insightsJob     scheduler.Job
	cacheCleanupJob scheduler.Job
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, dbPath string, db *database.DB) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		dbPath:      dbPath,
		startupTime: time.Now(),
		db:          db,
	}
}

// SetJobs registers job references for manual triggering
// Called after jobs are registered in main.go
func (h *SystemHandlers) SetJobs(refresh, insights, cacheCleanup scheduler.Job) {
	h.refreshJob = refresh
	h.insightsJob = insights
	h.cacheCleanupJob = cacheCleanup
}

// SystemStatusResponse is the /api/system/status payload.
type SystemStatusResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	CPUPercent    float64 `json:"cpu_percent"`
	RAMPercent    float64 `json:"ram_percent"`
	Goroutines    int     `json:"goroutines"`
	CompanyCount  int     `json:"company_count"`
	SnapshotCount int     `json:"snapshot_count"`
	InsightCount  int     `json:"insight_count"`
}

// HandleSystemStatus returns system status and resource usage
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPercent, ramPercent := h.getSystemStats()

	response := SystemStatusResponse{
		Status:        "healthy",
		UptimeSeconds: time.Since(h.startupTime).Seconds(),
		CPUPercent:    cpuPercent,
		RAMPercent:    ramPercent,
		Goroutines:    runtime.NumGoroutine(),
	}

	if err := h.db.QueryRow("SELECT COUNT(DISTINCT company_id) FROM kpi_snapshots").Scan(&response.CompanyCount); err != nil {
		h.log.Warn().Err(err).Msg("Failed to count companies")
	}
	if err := h.db.QueryRow("SELECT COUNT(*) FROM kpi_snapshots").Scan(&response.SnapshotCount); err != nil {
		h.log.Warn().Err(err).Msg("Failed to count snapshots")
	}
	if err := h.db.QueryRow("SELECT COUNT(*) FROM insights").Scan(&response.InsightCount); err != nil {
		h.log.Warn().Err(err).Msg("Failed to count insights")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// DatabaseStatsResponse is the /api/system/database/stats payload.
type DatabaseStatsResponse struct {
	Path        string  `json:"path"`
	SizeMB      float64 `json:"size_mb"`
	LastChecked string  `json:"last_checked"`
}

// HandleDatabaseStats returns database file statistics
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting database stats")

	response := DatabaseStatsResponse{
		Path:        h.dbPath,
		LastChecked: time.Now().Format(time.RFC3339),
	}

	if info, err := os.Stat(h.dbPath); err == nil {
		response.SizeMB = float64(info.Size()) / 1024 / 1024
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// getSystemStats calculates CPU and RAM usage percentages
// Uses a shorter interval (100ms) for faster response while still providing accurate readings
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

// HandleTriggerRefresh triggers the snapshot refresh job immediately
// POST /api/agent/refresh
func (h *SystemHandlers) HandleTriggerRefresh(w http.ResponseWriter, r *http.Request) {
	h.triggerJob(w, h.refreshJob, "refresh job not registered")
}

// HandleTriggerInsights triggers the insight generation job immediately
// POST /api/agent/insights
func (h *SystemHandlers) HandleTriggerInsights(w http.ResponseWriter, r *http.Request) {
	h.triggerJob(w, h.insightsJob, "insights job not registered")
}

// HandleTriggerCacheCleanup triggers the cache cleanup job immediately
// POST /api/agent/cache-cleanup
func (h *SystemHandlers) HandleTriggerCacheCleanup(w http.ResponseWriter, r *http.Request) {
	h.triggerJob(w, h.cacheCleanupJob, "cache cleanup job not registered")
}

// triggerJob runs a registered job synchronously and reports the outcome.
func (h *SystemHandlers) triggerJob(w http.ResponseWriter, job scheduler.Job, missingMsg string) {
	w.Header().Set("Content-Type", "application/json")

	if job == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": missingMsg})
		return
	}

	h.log.Info().Str("job", job.Name()).Msg("Manually triggering job")

	if err := job.Run(); err != nil {
		h.log.Error().Err(err).Str("job", job.Name()).Msg("Manually triggered job failed")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": err.Error()})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "job": job.Name()})
}
