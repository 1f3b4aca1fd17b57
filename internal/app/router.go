package app

import (
	"sphereview_backend/docs"
	"sphereview_backend/internal/config"
	"sphereview_backend/internal/middleware"
	"sphereview_backend/pkg/monitoring"
	"sphereview_backend/pkg/security"
	"sphereview_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	if cfg.Server.Mode == "debug" {
		router.Use(gin.Logger())
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
	router.Use(security.Secure())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
}

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	limiter := security.RateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window(), middleware.RateLimitKey)

	// 1. 公共路由，登录后附带个人进度
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		catalog := public.Group("")
		catalog.Use(middleware.TryAuthMiddleware(cfg), limiter)
		{
			catalog.GET("/spheres", c.catalog.ListSpheres)
			catalog.GET("/spheres/:slug", c.catalog.GetSphere)
			catalog.GET("/devotions/:id", c.catalog.GetDevotion)
		}
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), limiter)
	{
		authGroup.POST("/progress", c.progress.RecordProgress)
		authGroup.GET("/responses", c.progress.GetResponses)
		authGroup.POST("/responses", c.progress.SaveResponse)

		authGroup.GET("/dashboard", c.dashboard.GetDashboard)

		stats := authGroup.Group("/progress")
		{
			stats.GET("/overall", c.stats.GetOverall)
			stats.GET("/spheres/:slug", c.stats.GetSphere)
			stats.GET("/streak", c.stats.GetStreak)
			stats.GET("/weekly", c.stats.GetWeekly)
			stats.GET("/next", c.stats.GetNext)
			stats.GET("/badges", c.stats.GetBadges)
		}
	}
}
