package handlers

import (
	"net/http"

	"github.com/steven6143/stock-profit-calculator/internal/api/response"
	"github.com/steven6143/stock-profit-calculator/internal/service"
)

// SystemHandler handles health and version requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{systemService: systemService}
}

// Health reports service and database liveness.
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	if err := h.systemService.Health(); err != nil {
		response.Error(w, http.StatusServiceUnavailable, "Database unreachable", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Version returns build metadata.
func (h *SystemHandler) Version(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, h.systemService.Version())
}
