package handler

import (
	"log/slog"
	"net/http"
	"time"
)

// HealthHandler serves the liveness probe the dashboard's deploy checks poll.
// It reports nothing about upstream reachability; a healthy process with a
// broken upstream still answers ok and lets the soft-fail payloads tell the
// rest of the story.
type HealthHandler struct {
	logger *slog.Logger
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(logger *slog.Logger) *HealthHandler {
	return &HealthHandler{logger: logger}
}

// HealthCheck reports process liveness.
// GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"service":   "polyboard",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
