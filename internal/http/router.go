package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/towradar/backend/internal/auth"
	"github.com/towradar/backend/internal/config"
	"github.com/towradar/backend/internal/db"
	"github.com/towradar/backend/internal/http/handlers"
	"github.com/towradar/backend/internal/http/middleware"
	"github.com/towradar/backend/internal/ingest"
	"github.com/towradar/backend/internal/notify"
	"github.com/towradar/backend/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/towradar/backend/docs"
)

func Router(cfg config.Config, store *db.Store, pipeline *ingest.Pipeline, alerts *service.AlertEngine,
	claims *service.Claims, inApp *notify.InAppChannel, logger zerolog.Logger) *gin.Engine {

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:     store,
		Reader:    store,
		Pipeline:  pipeline,
		Alerts:    alerts,
		Claims:    claims,
		InApp:     inApp,
		Validator: validator.New(),
		Logger:    logger,
	}

	r.GET("/healthz", h.Healthz)

	verifier := auth.JWTVerifier{Secret: []byte(cfg.JWTSecret)}

	api := r.Group("/api")
	api.Use(middleware.BearerAuth(verifier))
	{
		api.GET("/incidents", h.IncidentsList)
		api.GET("/alerts", h.AlertsPending)
		api.GET("/claims", h.ClaimsList)
		api.GET("/trucks", h.TrucksList)
		api.POST("/incidents/:id/claim", h.ClaimIncident)
		api.POST("/claims/:id/status", h.AdvanceClaim)
	}

	cron := r.Group("/api")
	cron.Use(middleware.CronKey(cfg.CronSecret))
	{
		cron.POST("/ingest", h.Ingest)
		cron.POST("/notify", h.Notify)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
