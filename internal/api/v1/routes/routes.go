package routes

import (
	"github.com/gin-gonic/gin"

	"voice-analysis-toolkit/internal/api/v1/handlers"
	"voice-analysis-toolkit/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	SessionService  services.SessionService
	UploadService   services.UploadService
	ProviderService services.ProviderService
	HistoryService  services.HistoryService
}

// RegisterRoutes registers all v1 API routes. The group must already carry
// the session middleware.
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	sessionHandler := handlers.NewSessionHandler(container.SessionService, container.UploadService)
	router.POST("/audio", sessionHandler.Upload)
	router.GET("/transcript", sessionHandler.Transcript)
	router.POST("/summary", sessionHandler.Summary)
	router.POST("/sentiment", sessionHandler.Sentiment)
	router.POST("/questions", sessionHandler.Question)
	router.GET("/history", sessionHandler.ChatHistory)
	router.DELETE("/session", sessionHandler.Reset)

	providerHandler := handlers.NewProviderHandler(container.ProviderService)
	providers := router.Group("/providers")
	{
		providers.GET("", providerHandler.List)
		providers.GET("/:id/status", providerHandler.GetStatus)
	}

	if container.HistoryService != nil {
		historyHandler := handlers.NewHistoryHandler(container.HistoryService)
		records := router.Group("/records")
		{
			records.GET("", historyHandler.List)
			records.GET("/export", historyHandler.Export)
		}
	}
}
