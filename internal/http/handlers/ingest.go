package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Trigger ingestion
// @Description Fetches all configured feeds and upserts incidents
// @Tags ingest
// @Produce json
// @Success 200 {object} ingest.Summary
// @Success 207 {object} ingest.Summary
// @Router /api/ingest [post]
func (h *Handler) Ingest(c *gin.Context) {
	summary := h.Pipeline.Run(c.Request.Context())

	status := http.StatusOK
	if summary.Partial() {
		status = http.StatusMultiStatus
	}
	c.JSON(status, summary)
}

// @Summary Run notification pass
// @Tags alerts
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/notify [post]
func (h *Handler) Notify(c *gin.Context) {
	notified, err := h.Alerts.Run(c.Request.Context())
	if err != nil {
		h.Logger.Error().Err(err).Msg("notification pass failed")
		writeError(c, http.StatusInternalServerError, "ALERT_ERROR", "Notification pass failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"notified": notified})
}
