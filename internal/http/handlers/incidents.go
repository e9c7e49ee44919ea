package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/towradar/backend/internal/db"
	"github.com/towradar/backend/internal/http/middleware"
	"github.com/towradar/backend/internal/service"
)

const (
	defaultWindowMinutes = 60
	maxWindowMinutes     = 24 * 60
)

// @Summary Relevant incidents
// @Description Distance-annotated incidents inside the caller's service radius
// @Tags incidents
// @Produce json
// @Param minutes query int false "Time window in minutes (1-1440)"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /api/incidents [get]
func (h *Handler) IncidentsList(c *gin.Context) {
	minutes, ok := parseMinutes(c)
	if !ok {
		return
	}

	userID := c.GetString(middleware.UserIDKey)
	company, err := h.Reader.GetCompanyByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "No company profile found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Error loading company profile", err.Error())
		return
	}

	cutoff := time.Now().Add(-time.Duration(minutes) * time.Minute)
	incidents, err := h.Reader.ListIncidentsSince(c.Request.Context(), cutoff)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Error loading incidents", err.Error())
		return
	}

	filtered := service.FilterRelevant(company, incidents)
	c.JSON(http.StatusOK, gin.H{"incidents": filtered, "minutes": minutes})
}

func parseMinutes(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("minutes", strconv.Itoa(defaultWindowMinutes))
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes < 1 || minutes > maxWindowMinutes {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "minutes must be between 1 and 1440", nil)
		return 0, false
	}
	return minutes, true
}
