package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hotelsync/pkg/logger"
	"hotelsync/pkg/metrics"
)

// SetupRoutes собирает роутер сервиса
func SetupRoutes(integrationHandler *IntegrationHandler, healthHandler *HealthHandler) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware("review-sync-service"))

	router.Use(cors.Default())

	router.GET("/health", healthHandler.Liveness)
	router.GET("/health/liveness", healthHandler.Liveness)
	router.GET("/health/readiness", healthHandler.Readiness)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	integrations := router.Group("/integrations")
	{
		integrations.POST("/", integrationHandler.SetupIntegration)
		integrations.GET("/", integrationHandler.ListIntegrations)
		integrations.GET("/:id", integrationHandler.GetIntegration)
		integrations.PATCH("/:id", integrationHandler.UpdateIntegration)
		integrations.DELETE("/:id", integrationHandler.DeleteIntegration)
		integrations.POST("/:id/sync", integrationHandler.SyncNow)
	}

	router.GET("/hotels/:id/reviews", integrationHandler.ListReviews)

	return router
}
