package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"learning_pathway_backend/docs"
	"learning_pathway_backend/internal/config"
	"learning_pathway_backend/internal/middleware"
	"learning_pathway_backend/internal/model"
	"learning_pathway_backend/pkg/monitoring"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Check)

	// 公共路由(无需登录)
	public := router.Group("/api/v1")
	{
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api/v1")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		// 用户
		authGroup.GET("/users/me", c.user.GetProfile)
		authGroup.PUT("/users/me", c.user.UpdateProfile)
		authGroup.DELETE("/users/me", c.user.DeleteAccount)
		authGroup.PUT("/users/me/password", c.user.ChangePassword)
		authGroup.POST("/users/me/avatar", c.user.UploadAvatar)

		// 学习计划
		authGroup.POST("/plans", c.studyPlan.Create)
		authGroup.GET("/plans", c.studyPlan.List)
		authGroup.GET("/plans/:id", c.studyPlan.Get)
		authGroup.PUT("/plans/:id", c.studyPlan.Update)
		authGroup.DELETE("/plans/:id", c.studyPlan.Delete)
		authGroup.POST("/plans/:id/resources/refresh", c.studyPlan.RefreshResources)
		authGroup.GET("/plans/:id/progress", c.progress.GetPlanProgress)
		authGroup.GET("/plans/:id/quiz-stats", c.quiz.PlanStats)

		// 资源
		authGroup.GET("/resources", c.resource.Search)
		authGroup.GET("/resources/recommend", c.resource.Recommend)
		authGroup.GET("/resources/:id", c.resource.Get)

		// 进度与会话
		authGroup.GET("/progress", c.progress.List)
		authGroup.PUT("/plan-resources/:id/completion", c.progress.ToggleResourceCompletion)
		authGroup.PUT("/plan-resources/:id/progress", c.progress.UpdateResourceProgress)
		authGroup.POST("/sessions", c.progress.StartSession)
		authGroup.GET("/sessions", c.progress.RecentSessions)
		authGroup.PUT("/sessions/:id/end", c.progress.EndSession)
		authGroup.GET("/achievements", c.progress.ListAchievements)

		// 测验
		authGroup.POST("/quizzes/generate", c.quiz.Generate)
		authGroup.GET("/quizzes", c.quiz.List)
		authGroup.GET("/quizzes/:id", c.quiz.Get)
		authGroup.PUT("/quizzes/:id/publish", c.quiz.Publish)
		authGroup.DELETE("/quizzes/:id", c.quiz.Delete)
		authGroup.POST("/quizzes/:id/questions", c.quiz.AddQuestion)
		authGroup.PUT("/questions/:id", c.quiz.UpdateQuestion)
		authGroup.DELETE("/questions/:id", c.quiz.DeleteQuestion)
		authGroup.POST("/quizzes/:id/attempts", c.quiz.StartAttempt)
		authGroup.GET("/quizzes/:id/attempts", c.quiz.ListAttempts)
		authGroup.GET("/attempts/:id", c.quiz.ReviewAttempt)
		authGroup.POST("/attempts/:id/submit", c.quiz.SubmitAttempt)

		// 仪表盘
		authGroup.GET("/dashboard", c.dashboard.Get)
	}

	// 管理端路由
	adminGroup := authGroup.Group("/admin")
	adminGroup.Use(middleware.RoleMiddleware(model.Admin))
	{
		adminGroup.GET("/users", c.user.ListUsers)
	}
}
