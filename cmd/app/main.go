package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"drawit_backend/internal/ai"
	"drawit_backend/internal/api"
	"drawit_backend/internal/quota"
	"drawit_backend/internal/repository"
	"drawit_backend/internal/service"
	"drawit_backend/pkg/auth"
	"drawit_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel, cfg.DevMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	store, err := quota.NewSQLiteStore(cfg.QuotaStorePath)
	if err != nil {
		zapLogger.Fatal("Failed to initialize quota store", zap.Error(err))
	}
	defer store.Close()

	limiter := quota.NewRateLimiter(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go limiter.WatchDayRollover(ctx)

	aiClient := ai.NewClient(cfg.AI)
	generator := ai.NewGenerator(aiClient)

	challengeService := service.NewChallengeService(repo, generator)
	chatService := service.NewChatService(repo, aiClient, aiClient, limiter)
	drawingService := service.NewDrawingService(repo)
	badgeService := service.NewBadgeService(repo)
	profileService := service.NewProfileService(repo)

	tokenAuth := auth.NewTokenAuth(cfg.Auth.JWTSecret, cfg.Auth.DebugMode)

	router := gin.New()
	router.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	config.AllowHeaders = []string{"*"}
	config.AllowCredentials = true
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	a := router.Group("/api/v1")
	api.NewChallengeRoutes(a, challengeService, limiter, store, tokenAuth)
	api.NewAIRoutes(a, aiClient, tokenAuth)
	api.NewChatRoutes(a, chatService, tokenAuth)
	api.NewDrawingRoutes(a, drawingService, profileService, badgeService, tokenAuth)
	api.NewBadgeRoutes(a, badgeService, tokenAuth)
	api.NewProfileRoutes(a, profileService, tokenAuth)
	api.NewLimitRoutes(a, limiter, tokenAuth)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
