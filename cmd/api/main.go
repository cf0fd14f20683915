package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"libgen-llm/internal/config"
	"libgen-llm/internal/db"
	apihttp "libgen-llm/internal/http"
	"libgen-llm/internal/llm"
	"libgen-llm/internal/repository"
	"libgen-llm/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	var libraryRepo repository.LibraryRepository
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		libraryRepo = repository.NewPgLibraryRepository(pool)
	} else {
		logger.Warn("database not configured, generated libraries will not be persisted")
	}

	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMMaxTokens, logger)
	librarySvc := service.NewLibraryService(
		llmClient,
		libraryRepo,
		service.LibraryPromptBuilder{},
		service.LibraryValidator{},
		cfg.GenMaxAttempts,
		logger,
	)

	var limiter service.GenerateRateLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			limiter = service.NewRedisGenerateRateLimiter(redisClient, time.Minute, 5)
		}
		cancel()
	}

	tokenSvc := service.NewTokenService(cfg.JWTSecret, 24*time.Hour)
	if !tokenSvc.Enabled() {
		logger.Warn("jwt secret not configured, mutating routes are unauthenticated")
	}

	libraryHandler := apihttp.NewLibraryHandler(logger, librarySvc, libraryRepo)
	router := apihttp.NewRouter(logger, libraryHandler, tokenSvc, limiter)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
