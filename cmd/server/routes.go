package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/handlers"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/logger"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/middleware"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/session"
)

// routeHandlers groups the HTTP handlers mounted by newRouter.
type routeHandlers struct {
	health   *handlers.HealthHandler
	auth     *handlers.AuthHandler
	property *handlers.PropertyHandler
	analyzer *handlers.AnalyzerHandler
	advisor  *handlers.AdvisorHandler
	upload   *handlers.UploadHandler
}

// newRouter builds the gin engine with the global middleware chain and every API route.
func newRouter(log *logger.Logger, sessions session.Store, origins []string, h routeHandlers) *gin.Engine {
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> Metrics -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(origins))

	router.GET("/health", h.health.Health)
	router.GET("/health/ready", h.health.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.GET("/info", h.health.Info)
	v1.POST("/auth/signin", h.auth.SignIn)

	// Everything below requires a session
	authed := v1.Group("", middleware.Auth(sessions))
	{
		authed.POST("/auth/signout", h.auth.SignOut)
		authed.GET("/auth/me", h.auth.Me)
		authed.POST("/users", middleware.RequireAdmin(), h.auth.CreateUser)

		authed.POST("/analyzer/evaluate", h.analyzer.Evaluate)
		authed.POST("/uploads/images", h.upload.Images)

		properties := authed.Group("/properties")
		{
			properties.GET("", h.property.List)
			properties.POST("", h.property.Create)
			properties.GET("/:id", h.property.Get)
			properties.PUT("/:id", h.property.Update)
			properties.DELETE("/:id", h.property.Delete)
			properties.PATCH("/:id/status", middleware.RequireAdmin(), h.property.SetStatus)
			properties.POST("/:id/images", h.property.UploadImages)
			properties.GET("/:id/analysis", h.analyzer.PropertyAnalysis)
			properties.POST("/:id/analysis", h.analyzer.PropertyAnalysisWithOverrides)
			properties.POST("/:id/ask", h.property.Ask)
			properties.POST("/:id/advisor-requests", h.advisor.Create)
		}

		advisorRequests := authed.Group("/advisor-requests")
		{
			advisorRequests.GET("", h.advisor.List)
			advisorRequests.PUT("/:id", middleware.RequireAdmin(), h.advisor.Respond)
		}
	}

	return router
}
