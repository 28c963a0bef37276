package handlers

import (
	"net/http"
	"time"

	"github.com/white/session-tracker/pkg/mongodb"
)

type HealthResponse struct {
	Status  string                 `json:"status"`
	Service string                 `json:"service"`
	Version string                 `json:"version"`
	Checks  map[string]HealthCheck `json:"checks,omitempty"`
}

type HealthCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthHandler reports service and dependency health.
type HealthHandler struct {
	db      *mongodb.Client
	version string
}

func NewHealthHandler(db *mongodb.Client, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// GetOverallHealth handles GET /health
func (h *HealthHandler) GetOverallHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Service: "session-tracker-api",
		Version: h.version,
		Checks:  make(map[string]HealthCheck),
	}

	allHealthy := true

	start := time.Now()
	if err := h.db.Ping(); err != nil {
		allHealthy = false
		response.Checks["mongodb"] = HealthCheck{
			Status: "unhealthy",
			Error:  err.Error(),
		}
	} else {
		response.Checks["mongodb"] = HealthCheck{
			Status:  "healthy",
			Latency: time.Since(start).String(),
		}
	}

	if allHealthy {
		response.Status = "healthy"
		respondWithJSON(w, http.StatusOK, response)
	} else {
		response.Status = "unhealthy"
		respondWithJSON(w, http.StatusServiceUnavailable, response)
	}
}
