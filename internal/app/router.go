package app

import (
	"hanzi_learn_backend/docs"
	"hanzi_learn_backend/internal/config"
	"hanzi_learn_backend/internal/middleware"
	"hanzi_learn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.POST("/logout", c.auth.Logout)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		// 生字本
		authGroup.GET("/characters", c.character.List)
		authGroup.POST("/characters", c.character.BulkAdd)
		authGroup.POST("/characters/import", c.character.ImportCSV)
		authGroup.DELETE("/characters/:id", c.character.Delete)
		authGroup.DELETE("/characters", c.character.DeleteAll)

		// 进度
		authGroup.GET("/progress", c.progress.Get)
		authGroup.POST("/progress", c.progress.Merge)
		authGroup.DELETE("/progress", c.progress.Clear)

		// 测验会话
		authGroup.POST("/quiz/session", c.quiz.StartSession)
		authGroup.GET("/quiz/session/:sid", c.quiz.GetSession)
		authGroup.POST("/quiz/session/:sid/type", c.quiz.SelectType)
		authGroup.POST("/quiz/session/:sid/count", c.quiz.SelectCount)
		authGroup.POST("/quiz/session/:sid/answer", c.quiz.Answer)
		authGroup.DELETE("/quiz/session/:sid", c.quiz.Abandon)

		// 测验历史
		authGroup.GET("/quiz/history", c.quiz.GetHistory)
		authGroup.DELETE("/quiz/history", c.quiz.ClearHistory)

		// 仪表盘
		authGroup.GET("/dashboard", c.dashboard.GetDashboard)
	}
}
