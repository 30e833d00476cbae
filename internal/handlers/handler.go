package handlers

import (
	"garage_monitor/internal/logger"
	"garage_monitor/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	apiKey   string
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler. An empty apiKey leaves /api/v1 open.
func NewHandler(services *service.Service, apiKey string, log *logger.Logger) *Handler {
	return &Handler{services: services, apiKey: apiKey, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAPIRoutes(router)

	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.apiKeyMiddleware)
	{
		h.registerDoorRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerDoorRoutes(api *gin.RouterGroup) {
	door := api.Group("/door")
	{
		door.GET("/state", h.getDoorState)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
		logs.GET("/:id/notifications", h.getNotifications)
	}
}
