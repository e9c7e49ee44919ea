package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/towradar/backend/internal/db"
	"github.com/towradar/backend/internal/http/middleware"
	"github.com/towradar/backend/internal/models"
	"github.com/towradar/backend/internal/service"
)

type claimRequest struct {
	TruckID  *string `json:"truck_id"`
	DriverID *string `json:"driver_id"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=en_route on_scene completed"`
}

// @Summary Claim an incident
// @Tags claims
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Success 201 {object} models.Claim
// @Failure 409 {object} map[string]any
// @Router /api/incidents/{id}/claim [post]
func (h *Handler) ClaimIncident(c *gin.Context) {
	incidentID := c.Param("id")

	// Both fields are optional; a bodyless POST means "pick for me".
	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}

	company, ok := h.companyForUser(c)
	if !ok {
		return
	}

	claim, err := h.Claims.Claim(c.Request.Context(), company.ID, incidentID, req.TruckID, req.DriverID)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrAlreadyClaimed):
			writeError(c, http.StatusConflict, "ALREADY_CLAIMED", "Incident already claimed", nil)
		case errors.Is(err, db.ErrTruckUnavailable):
			writeError(c, http.StatusUnprocessableEntity, "TRUCK_UNAVAILABLE", "Truck is no longer available", nil)
		case errors.Is(err, service.ErrNoTruck):
			writeError(c, http.StatusUnprocessableEntity, "NO_TRUCK", "No available trucks. Contact your dispatcher.", nil)
		case errors.Is(err, service.ErrDriverBusy):
			writeError(c, http.StatusUnprocessableEntity, "DRIVER_BUSY", "Driver is at the active job limit", nil)
		default:
			writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to claim incident", err.Error())
		}
		return
	}
	c.JSON(http.StatusCreated, claim)
}

// @Summary Advance claim status
// @Tags claims
// @Accept json
// @Produce json
// @Param id path string true "Claim ID"
// @Success 200 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /api/claims/{id}/status [post]
func (h *Handler) AdvanceClaim(c *gin.Context) {
	claimID := c.Param("id")

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	company, ok := h.companyForUser(c)
	if !ok {
		return
	}

	if err := h.Claims.Advance(c.Request.Context(), company.ID, claimID, models.ClaimStatus(req.Status)); err != nil {
		if errors.Is(err, db.ErrInvalidTransition) {
			writeError(c, http.StatusConflict, "INVALID_TRANSITION", "Claim is not in the expected state", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to update claim", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (h *Handler) ClaimsList(c *gin.Context) {
	company, ok := h.companyForUser(c)
	if !ok {
		return
	}

	activeOnly := c.Query("active") == "true"
	claims, err := h.Reader.ListClaimsByCompany(c.Request.Context(), company.ID, activeOnly)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list claims", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"claims": claims})
}

func (h *Handler) TrucksList(c *gin.Context) {
	company, ok := h.companyForUser(c)
	if !ok {
		return
	}

	trucks, err := h.Reader.ListTrucks(c.Request.Context(), company.ID)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list trucks", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"trucks": trucks})
}

func (h *Handler) companyForUser(c *gin.Context) (models.Company, bool) {
	userID := c.GetString(middleware.UserIDKey)
	company, err := h.Reader.GetCompanyByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "No company profile found", nil)
		} else {
			writeError(c, http.StatusInternalServerError, "DB_ERROR", "Error loading company profile", err.Error())
		}
		return models.Company{}, false
	}
	return company, true
}
