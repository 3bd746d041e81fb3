package app

import (
	"dsa_tutor_web/internal/middleware"
	"dsa_tutor_web/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 无会话的接口
	router.GET("/api/health", c.health.HealthCheck)

	// 2. 页面，Post/Redirect/Get
	pages := router.Group("/")
	pages.Use(middleware.SessionMiddleware(a.Sessions, a.CurrentConfig))
	{
		a.registerQuizRoutes(pages, c)
		a.registerChatRoutes(pages, c)

		pages.GET("/code", c.codeEval.Index)
		pages.POST("/code/eval", c.codeEval.Evaluate)

		pages.GET("/history", c.history.Index)
		pages.GET("/history/export", c.history.Export)

		pages.GET("/analytics", c.analytics.Index)
	}

	// 3. 页面数据的 JSON 形式
	api := router.Group("/api")
	api.Use(middleware.SessionMiddleware(a.Sessions, a.CurrentConfig))
	{
		api.GET("/analytics", c.analytics.GetCharts)
		api.GET("/chat/keywords", c.chat.Keywords)
	}
}

func (a *App) registerQuizRoutes(r *gin.RouterGroup, c *controllers) {
	r.GET("/", c.quiz.Index)

	quiz := r.Group("/quiz")
	{
		quiz.POST("/start", c.quiz.Start)
		quiz.POST("/answer", c.quiz.Answer)
		quiz.POST("/submit", c.quiz.Submit)
	}
}

func (a *App) registerChatRoutes(r *gin.RouterGroup, c *controllers) {
	r.GET("/chat", c.chat.Index)

	chat := r.Group("/chat")
	{
		chat.POST("/send", c.chat.Send)
		chat.POST("/clear", c.chat.Clear)
	}
}
