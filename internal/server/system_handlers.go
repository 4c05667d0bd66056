package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/prudentia/risk-engine/internal/database"
)

// SystemHandlers handles system-wide monitoring endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	dataDir     string
	startupTime time.Time
	scenariosDB *database.DB
	runsDB      *database.DB
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, dataDir string, scenariosDB, runsDB *database.DB) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		dataDir:     dataDir,
		startupTime: time.Now(),
		scenariosDB: scenariosDB,
		runsDB:      runsDB,
	}
}

// databaseHealth is the reported state of one database.
type databaseHealth struct {
	Name    string  `json:"name"`
	Healthy bool    `json:"healthy"`
	Error   string  `json:"error,omitempty"`
	SizeMB  float64 `json:"size_mb"`
}

// HandleSystemHealth handles GET /api/system/health. It reports process
// stats and runs a full integrity check on both databases, so it is the
// endpoint a monitor should poll (slowly).
func (h *SystemHandlers) HandleSystemHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cpuPercent, memPercent := h.getSystemStats()

	databases := make([]databaseHealth, 0, 2)
	healthy := true
	for _, db := range []*database.DB{h.scenariosDB, h.runsDB} {
		if db == nil {
			continue
		}
		entry := databaseHealth{Name: db.Name(), Healthy: true, SizeMB: h.fileSizeMB(db.Path())}
		if err := db.HealthCheck(ctx); err != nil {
			entry.Healthy = false
			entry.Error = err.Error()
			healthy = false
			h.log.Error().Err(err).Str("database", db.Name()).Msg("Database health check failed")
		}
		databases = append(databases, entry)
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !healthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	response := map[string]interface{}{
		"status":         status,
		"uptime_seconds": int64(time.Since(h.startupTime).Seconds()),
		"cpu_percent":    cpuPercent,
		"memory_percent": memPercent,
		"databases":      databases,
		"data_dir":       h.dataDir,
		"timestamp":      time.Now().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// getSystemStats calculates CPU and RAM usage percentages. The CPU sample
// uses a 100ms interval to keep the endpoint responsive.
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

// fileSizeMB returns the on-disk size of a database (including its WAL).
func (h *SystemHandlers) fileSizeMB(path string) float64 {
	var totalSize int64
	for _, p := range []string{path, path + "-wal"} {
		if info, err := os.Stat(filepath.Clean(p)); err == nil {
			totalSize += info.Size()
		}
	}
	return float64(totalSize) / 1024 / 1024
}
