package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CheckHealth godoc
// @Summary Report readiness of the service and its dependencies
// @Tags system
// @Produce json
// @Success 200 {object} tutor.HealthStatus
// @Failure 503 {object} tutor.HealthStatus
// @Router /health [get]
func (h *Handler) CheckHealth(c *gin.Context) {
	status, err := h.sysService.CheckHealth(c.Request.Context())
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	sendJSON(c, code, status)
}
