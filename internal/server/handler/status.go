package handler

import (
	"net/http"
)

// StatusHandler serves the backend status (configured category, upstream
// hosts) so the dashboard can show which data source it is rendering.
type StatusHandler struct {
	Category  string
	GammaHost string
	DataHost  string
}

// NewStatusHandler creates a StatusHandler with the given settings.
func NewStatusHandler(category, gammaHost, dataHost string) *StatusHandler {
	return &StatusHandler{Category: category, GammaHost: gammaHost, DataHost: dataHost}
}

// GetStatus responds with the current backend configuration.
// GET /api/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"category":   h.Category,
		"gamma_host": h.GammaHost,
		"data_host":  h.DataHost,
	})
}
