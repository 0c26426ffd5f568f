package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aquadesk/aquadesk/internal/server/http/dto"
)

// OpsHandler manages operational endpoints.
type OpsHandler struct {
	facade OpsFacade
}

// NewOpsHandler constructs OpsHandler.
func NewOpsHandler(facade OpsFacade) *OpsHandler {
	return &OpsHandler{facade: facade}
}

// Sweep handles POST /api/sweep. The sweep itself is idempotent, so
// repeated calls are harmless; an in-flight sweep makes this a no-op.
func (h *OpsHandler) Sweep(c *gin.Context) {
	h.facade.TriggerSweepNow()
	c.Status(http.StatusAccepted)
}

// Health handles GET /api/health.
func (h *OpsHandler) Health(c *gin.Context) {
	if err := h.facade.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
