package handlers

import (
	"context"
	"net/http"

	"pet_feeder/internal/logger"
	"pet_feeder/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	metrics  http.Handler
	checks   map[string]HealthCheck
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log, checks: map[string]HealthCheck{}}
}

// WithMetrics serves h at /metrics.
func (h *Handler) WithMetrics(metrics http.Handler) *Handler {
	h.metrics = metrics
	return h
}

// WithHealthCheck adds a named dependency to /health.
func (h *Handler) WithHealthCheck(name string, check HealthCheck) *Handler {
	h.checks[name] = check
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}

	h.registerAPIRoutes(router)

	// State stream over WebSocket on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerFeederRoutes(api)
		h.registerScheduleRoutes(api)
		h.registerAuditRoutes(api)
	}
}

func (h *Handler) registerFeederRoutes(api *gin.RouterGroup) {
	feeder := api.Group("/feeder")
	{
		feeder.GET("/state", h.getState)
		// Body example: {"angle":90}; empty body uses the default angle
		feeder.POST("/dispense", h.dispense)
		feeder.POST("/close", h.closeFeeder)
		feeder.POST("/tare", h.tare)
	}
}

func (h *Handler) registerScheduleRoutes(api *gin.RouterGroup) {
	schedules := api.Group("/schedules")
	{
		schedules.GET("", h.listSchedules)
		schedules.POST("", h.createSchedule)
		schedules.GET("/:id", h.getSchedule)
		schedules.PUT("/:id", h.updateSchedule)
		schedules.PATCH("/:id/enabled", h.setScheduleEnabled)
		schedules.DELETE("/:id", h.deleteSchedule)
	}
}

func (h *Handler) registerAuditRoutes(api *gin.RouterGroup) {
	api.GET("/audit", h.listAudit)
}
