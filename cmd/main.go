package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/CristianCureu/fitness-app-api/internal/clients/redis"
	"github.com/CristianCureu/fitness-app-api/internal/db"
	"github.com/CristianCureu/fitness-app-api/internal/handlers"
	"github.com/CristianCureu/fitness-app-api/internal/logger"
	"github.com/CristianCureu/fitness-app-api/internal/middleware"
	"github.com/CristianCureu/fitness-app-api/internal/observability"
	"github.com/CristianCureu/fitness-app-api/internal/repos"
	"github.com/CristianCureu/fitness-app-api/internal/server"
	"github.com/CristianCureu/fitness-app-api/internal/services"
	"github.com/CristianCureu/fitness-app-api/internal/utils"
)

func main() {
	ctx := context.Background()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 86400, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 2592000, log)
	goalLocale := utils.GetEnv("GOAL_LOCALE", "ro", log)
	redisAddr := utils.GetEnv("REDIS_ADDR", "", log)
	redisPassword := utils.GetEnv("REDIS_PASSWORD", "", log)
	recRateLimit := utils.GetEnvAsInt("RECOMMENDATION_RATE_LIMIT", 30, log)

	// Tracing
	otelShutdown := observability.InitTracing(ctx, log, observability.Config{
		ServiceName: "fitness-app-api",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if otelShutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Redis (optional, rate limiting only)
	redisClient, err := redis.NewClient(ctx, redisAddr, redisPassword, 0, log)
	if err != nil {
		log.Warn("Redis init failed, rate limiting disabled", "error", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	recLimiter := redis.NewRateLimiter(redisClient, recRateLimit, time.Minute)

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	clientProfileRepo := repos.NewClientProfileRepo(thePG, log)
	workoutProgramRepo := repos.NewWorkoutProgramRepo(thePG, log)
	clientProgramRepo := repos.NewClientProgramRepo(thePG, log)
	scheduledSessionRepo := repos.NewScheduledSessionRepo(thePG, log)
	dailyCheckinRepo := repos.NewDailyCheckinRepo(thePG, log)
	recommendationLogRepo := repos.NewRecommendationLogRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	goalClassifier, err := services.NewGoalClassifier(goalLocale)
	if err != nil {
		log.Error("Could not init GoalClassifier", "error", err)
		os.Exit(1)
	}
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(thePG, log, userRepo)
	statsService := services.NewStatsService(thePG, log, scheduledSessionRepo, dailyCheckinRepo, clientProgramRepo)
	recommendationService := services.NewRecommendationService(
		thePG,
		log,
		clientProfileRepo,
		workoutProgramRepo,
		clientProgramRepo,
		recommendationLogRepo,
		statsService,
		goalClassifier,
		services.DefaultScoringWeights,
	)
	scheduleService := services.NewScheduleService(thePG, log, scheduledSessionRepo, clientProfileRepo, clientProgramRepo)
	clientService := services.NewClientService(
		thePG,
		log,
		userRepo,
		clientProfileRepo,
		workoutProgramRepo,
		clientProgramRepo,
		scheduledSessionRepo,
		scheduleService,
		recommendationService,
	)
	programService := services.NewProgramService(thePG, log, workoutProgramRepo)
	checkinService := services.NewCheckinService(thePG, log, dailyCheckinRepo, clientProfileRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	clientHandler := handlers.NewClientHandler(clientService)
	programHandler := handlers.NewProgramHandler(programService)
	checkinHandler := handlers.NewCheckinHandler(checkinService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService, recLimiter)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AllowedOrigins:        server.ParseOrigins(utils.GetEnv("CORS_ORIGINS", "", log)),
		AuthMiddleware:        authMiddleware,
		AuthHandler:           authHandler,
		UserHandler:           userHandler,
		ClientHandler:         clientHandler,
		ProgramHandler:        programHandler,
		CheckinHandler:        checkinHandler,
		ScheduleHandler:       scheduleHandler,
		RecommendationHandler: recommendationHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
