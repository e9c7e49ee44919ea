package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Pending in-app alerts
// @Description Drains the caller's in-app alert queue
// @Tags alerts
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/alerts [get]
func (h *Handler) AlertsPending(c *gin.Context) {
	company, ok := h.companyForUser(c)
	if !ok {
		return
	}

	alerts, err := h.InApp.Drain(c.Request.Context(), company.ID, 50)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "QUEUE_ERROR", "Failed to read alerts", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
