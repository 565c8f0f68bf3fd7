package app

import (
	"quizarena_backend/docs"
	"quizarena_backend/internal/config"
	"quizarena_backend/internal/middleware"
	"quizarena_backend/internal/model"
	"quizarena_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c, cfg)
	a.registerAccountRoutes(router, c, cfg)
	a.registerAdminRoutes(router, c, cfg)
}

// Public routes: anyone can browse active quizzes, play and consult rankings.
func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.POST("/auth/forgot-password", c.auth.ForgotPassword)
		public.POST("/auth/reset-password", c.auth.ResetPassword)

		public.GET("/quizzes", c.play.ListActiveQuizzes)
		public.GET("/quizzes/:quizId", c.play.GetQuizForPlay)
		public.POST("/quizzes/:quizId/questions/:questionId/validate", c.play.ValidateAnswer)
		public.GET("/quizzes/:quizId/ranking", c.play.GetRanking)

		// A token is optional here; when present, the submission is linked
		// to the account and feeds gamification.
		public.POST("/quizzes/:quizId/submissions",
			middleware.TryAuthMiddleware(cfg), c.play.CreateSubmission)

		public.GET("/gamification/leaderboard", c.gamification.GetLeaderboard)
	}
}

// Account routes: any authenticated user.
func (a *App) registerAccountRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	account := router.Group("/api")
	account.Use(middleware.AuthMiddleware(cfg))
	{
		account.GET("/auth/me", c.auth.GetProfile)
		account.PUT("/auth/me", c.auth.UpdateProfile)
		account.PUT("/auth/me/password", c.auth.ChangePassword)
		account.GET("/gamification/profile", c.gamification.GetMyGamification)
	}
}

// Admin routes: quiz management, accounts and the dashboard.
func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.POST("/quizzes", c.quiz.CreateQuiz)
		admin.GET("/quizzes", c.quiz.ListQuizzes)
		admin.GET("/quizzes/:quizId", c.quiz.GetQuiz)
		admin.PUT("/quizzes/:quizId", c.quiz.UpdateQuiz)
		admin.DELETE("/quizzes/:quizId", c.quiz.DeleteQuiz)
		admin.PUT("/quizzes/:quizId/media/:slot", c.quiz.UploadQuizMedia)
		admin.POST("/quizzes/:quizId/questions", c.quiz.AddQuestion)
		admin.DELETE("/quizzes/:quizId/questions/:questionId", c.quiz.DeleteQuestion)
		admin.DELETE("/quizzes/:quizId/ranking", c.quiz.ClearRanking)

		admin.GET("/users", c.user.ListUsers)
		admin.POST("/users", c.user.CreateUser)

		admin.GET("/dashboard", c.dashboard.GetSummary)
	}
}
