package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/CristianCureu/fitness-app-api/internal/handlers"
	"github.com/CristianCureu/fitness-app-api/internal/middleware"
	"github.com/CristianCureu/fitness-app-api/internal/types"
)

type RouterConfig struct {
	AllowedOrigins        []string
	AuthMiddleware        *middleware.AuthMiddleware
	AuthHandler           *handlers.AuthHandler
	UserHandler           *handlers.UserHandler
	ClientHandler         *handlers.ClientHandler
	ProgramHandler        *handlers.ProgramHandler
	CheckinHandler        *handlers.CheckinHandler
	ScheduleHandler       *handlers.ScheduleHandler
	RecommendationHandler *handlers.RecommendationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("fitness-app-api"))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthHandler.Refresh)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	protected.POST("/logout", cfg.AuthHandler.Logout)
	protected.GET("/user", cfg.UserHandler.GetMe)

	// Trainer surface
	trainer := protected.Group("/")
	trainer.Use(cfg.AuthMiddleware.RequireRole(types.RoleTrainer))
	{
		trainer.POST("/clients", cfg.ClientHandler.Create)
		trainer.GET("/clients", cfg.ClientHandler.List)
		trainer.GET("/clients/:id", cfg.ClientHandler.Get)
		trainer.PATCH("/clients/:id", cfg.ClientHandler.Update)
		trainer.DELETE("/clients/:id", cfg.ClientHandler.Delete)
		trainer.POST("/clients/:id/program", cfg.ClientHandler.AssignProgram)
		trainer.GET("/clients/:id/program", cfg.ClientHandler.GetClientProgram)
		trainer.DELETE("/clients/:id/program", cfg.ClientHandler.RemoveProgram)
		trainer.PATCH("/clients/:id/training-days", cfg.ClientHandler.UpdateTrainingDays)
		trainer.GET("/clients/:id/checkins", cfg.CheckinHandler.ListForClient)
		trainer.GET("/clients/:id/recommendations", cfg.RecommendationHandler.Generate)
		trainer.GET("/clients/:id/recommendations/log", cfg.RecommendationHandler.ListLog)

		trainer.POST("/programs", cfg.ProgramHandler.Create)
		trainer.GET("/programs", cfg.ProgramHandler.List)
		trainer.GET("/programs/:id", cfg.ProgramHandler.Get)
		trainer.PATCH("/programs/:id", cfg.ProgramHandler.Update)
		trainer.DELETE("/programs/:id", cfg.ProgramHandler.Delete)
		trainer.POST("/programs/:id/clone", cfg.ProgramHandler.Clone)

		trainer.POST("/sessions", cfg.ScheduleHandler.Create)
		trainer.DELETE("/sessions/:id", cfg.ScheduleHandler.Remove)
	}

	// Client surface
	client := protected.Group("/me")
	client.Use(cfg.AuthMiddleware.RequireRole(types.RoleClient))
	{
		client.GET("/profile", cfg.ClientHandler.GetMyProfile)
		client.POST("/checkins", cfg.CheckinHandler.Create)
		client.GET("/checkins", cfg.CheckinHandler.ListMine)
		client.POST("/sessions", cfg.ScheduleHandler.CreateForClient)
		client.GET("/sessions/suggestion", cfg.ScheduleHandler.GetSuggestion)
	}

	// Shared schedule views; scope resolved from the caller's role.
	protected.GET("/sessions", cfg.ScheduleHandler.List)
	protected.PATCH("/sessions/:id/status", cfg.ScheduleHandler.UpdateStatus)
	protected.POST("/sessions/:id/complete", cfg.ScheduleHandler.Complete)
	protected.GET("/sessions/calendar", cfg.ScheduleHandler.GetWeekCalendar)
	protected.GET("/sessions/upcoming", cfg.ScheduleHandler.GetUpcoming)
	protected.GET("/sessions/history", cfg.ScheduleHandler.GetHistory)

	return router
}

// ParseOrigins splits a comma-separated origin list from the environment.
func ParseOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			origins = append(origins, part)
		}
	}
	return origins
}
