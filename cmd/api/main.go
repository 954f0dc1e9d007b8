package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"omni-relay/internal/calendar"
	"omni-relay/internal/config"
	"omni-relay/internal/db"
	"omni-relay/internal/extract"
	apihttp "omni-relay/internal/http"
	"omni-relay/internal/llm"
	"omni-relay/internal/repository"
	"omni-relay/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
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

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	transcriptRepo := repository.NewPgTranscriptRepository(pool)
	llmClient := llm.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	calendarClient := calendar.NewRestClient(cfg.CalendarBaseURL)
	promptBuilder := service.NewPromptBuilder(cfg.EventTimezone, cfg.EventUTCOffset)

	relaySvc := service.NewRelayService(llmClient, promptBuilder, logger)
	eventSvc := service.NewEventService(llmClient, calendarClient, promptBuilder, cfg.EventTimezone, logger)
	transcriptSvc := service.NewTranscriptService(transcriptRepo, logger)

	var limiter service.RateLimiter
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
			limiter = service.NewRedisRateLimiter(redisClient, time.Minute, cfg.RateLimitPerMin)
		}
		cancel()
	}

	relayHandler := apihttp.NewRelayHandler(logger, relaySvc, extract.PlainText{})
	transcriptHandler := apihttp.NewTranscriptHandler(logger, transcriptSvc)
	eventHandler := apihttp.NewEventHandler(logger, eventSvc)
	router := apihttp.NewRouter(logger, relayHandler, transcriptHandler, eventHandler, limiter)

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
