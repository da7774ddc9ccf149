package api

import (
	"net/http"
	"time"

	"github.com/lmendes/studytrack/internal/logger"
)

// handleHealth reports process liveness plus the state of the two backing
// stores. The server stays 200 in local mode; cloud shows "local" then.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	status := http.StatusOK
	overall := "ok"
	dbStatus := "ok"
	if err := s.DB.PingContext(ctx); err != nil {
		log.Warn("health check failed - database: %v", err)
		dbStatus = "error"
		overall = "degraded"
		status = http.StatusServiceUnavailable
	}

	cloudStatus := "local"
	if s.Mirror != nil {
		cloudStatus = "ok"
		if err := s.Mirror.Ping(ctx); err != nil {
			log.Warn("health check failed - cloud: %v", err)
			cloudStatus = "error"
		}
	}

	respondJSON(w, status, map[string]any{
		"status":         overall,
		"db":             dbStatus,
		"cloud":          cloudStatus,
		"policy":         s.PolicyName,
		"uptime_seconds": int(time.Since(s.startedAt).Seconds()),
	})
}
