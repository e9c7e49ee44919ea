package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/towradar/backend/internal/db"
	"github.com/towradar/backend/internal/ingest"
	"github.com/towradar/backend/internal/models"
	"github.com/towradar/backend/internal/notify"
	"github.com/towradar/backend/internal/service"
)

// Reader is the query surface the read handlers need; *db.Store
// satisfies it.
type Reader interface {
	GetCompanyByUser(ctx context.Context, userID string) (models.Company, error)
	ListIncidentsSince(ctx context.Context, cutoff time.Time) ([]models.Incident, error)
	ListClaimsByCompany(ctx context.Context, companyID string, activeOnly bool) ([]models.Claim, error)
	ListTrucks(ctx context.Context, companyID string) ([]models.Truck, error)
}

type PipelineRunner interface {
	Run(ctx context.Context) ingest.Summary
}

type AlertRunner interface {
	Run(ctx context.Context) (int, error)
}

type Handler struct {
	Store     *db.Store
	Reader    Reader
	Pipeline  PipelineRunner
	Alerts    AlertRunner
	Claims    *service.Claims
	InApp     *notify.InAppChannel
	Validator *validator.Validate
	Logger    zerolog.Logger
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
