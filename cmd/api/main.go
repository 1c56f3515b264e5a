package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/lumenjournal/lumen-progress-engine/internal/adapters/cache"
	"github.com/lumenjournal/lumen-progress-engine/internal/adapters/generation"
	adapterHTTP "github.com/lumenjournal/lumen-progress-engine/internal/adapters/handler/http"
	"github.com/lumenjournal/lumen-progress-engine/internal/adapters/logger"
	"github.com/lumenjournal/lumen-progress-engine/internal/adapters/repository"
	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
	"github.com/lumenjournal/lumen-progress-engine/internal/core/services"
	"github.com/lumenjournal/lumen-progress-engine/internal/core/workers"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	startTime := time.Now()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	zlog, err := logger.New(logger.Config{
		Level:      envOr("LOG_LEVEL", "info"),
		Path:       os.Getenv("LOG_FILE"),
		MaxSizeMB:  envIntOr("LOG_MAX_SIZE_MB", 100),
		MaxBackups: envIntOr("LOG_MAX_BACKUPS", 3),
		MaxAgeDays: envIntOr("LOG_MAX_AGE_DAYS", 7),
	})
	if err != nil {
		log.Fatalf("Critical: failed to build logger: %v", err)
	}
	defer zlog.Sync()

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		envOr("DB_HOST", "localhost"),
		envOr("DB_PORT", "5432"),
		os.Getenv("DB_NAME"),
	)

	zlog.Info("connecting to database")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	zlog.Info("database connected")

	redisClient, err := cache.NewRedisClient(
		envOr("REDIS_HOST", "localhost"),
		envOr("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		envIntOr("REDIS_DB", 0),
	)
	if err != nil {
		// Redis backs the balance cache and rate limiter only. Both degrade
		// gracefully without it.
		zlog.Warn("redis unavailable, running without cache", zap.Error(err))
		redisClient = nil
	}

	userRepo := repository.NewPostgresUserRepository(db)
	reflectionRepo := repository.NewPostgresReflectionRepository(db)
	challengeRepo := repository.NewPostgresChallengeRepository(db)
	progressRepo := repository.NewPostgresProgressRepository(db)
	streakRepo := repository.NewPostgresStreakRepository(db)
	milestoneRepo := repository.NewPostgresMilestoneRepository(db)

	generator := generation.NewHTTPGenerator(
		envOr("GENERATION_URL", "http://localhost:9090"),
		os.Getenv("GENERATION_API_KEY"),
		time.Duration(envIntOr("GENERATION_TIMEOUT_S", 30))*time.Second,
	)

	danger := domain.DefaultDangerConfig()
	if h := envIntOr("STREAK_WARNING_HOURS", 0); h > 0 {
		danger.WarningWithin = time.Duration(h) * time.Hour
	}
	if h := envIntOr("STREAK_DANGER_HOURS", 0); h > 0 {
		danger.DangerWithin = time.Duration(h) * time.Hour
	}

	tokenService := services.NewTokenService(
		os.Getenv("JWT_SECRET"),
		envOr("JWT_ISSUER", "lumen-progress-engine"),
		time.Duration(envIntOr("JWT_TTL_HOURS", 72))*time.Hour,
		userRepo,
	)
	authService := services.NewAuthService(userRepo)
	balanceService := services.NewBalanceService(challengeRepo, redisClient, zlog)
	streakService := services.NewStreakService(userRepo, reflectionRepo, streakRepo, milestoneRepo, danger, zlog)
	challengeService := services.NewChallengeService(challengeRepo, balanceService, zlog)
	progressService := services.NewProgressService(progressRepo, userRepo)
	promptService := services.NewPromptService()

	streakWorker := workers.NewStreakWorker(streakService, zlog)
	cleanupWorker := workers.NewCleanupWorker(
		challengeService,
		time.Duration(envIntOr("CLEANUP_INTERVAL_MIN", 15))*time.Minute,
		zlog,
	)

	reflectionService := services.NewReflectionService(reflectionRepo, challengeRepo, generator, streakWorker, zlog)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	streakWorker.Start(workerCtx)
	cleanupWorker.Start(workerCtx)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:       adapterHTTP.NewAuthHandler(authService, tokenService, zlog),
		ReflectionHandler: adapterHTTP.NewReflectionHandler(reflectionService, zlog),
		ChallengeHandler:  adapterHTTP.NewChallengeHandler(challengeService, balanceService, zlog),
		ProgressHandler:   adapterHTTP.NewProgressHandler(progressService, zlog),
		StreakHandler:     adapterHTTP.NewStreakHandler(streakService, zlog),
		PromptHandler:     adapterHTTP.NewPromptHandler(promptService, zlog),
		TokenService:      tokenService,
		DB:                db,
		Redis:             redisClient,
		Logger:            zlog,
		StartTime:         startTime,
	})

	serverPort := envOr("PORT", "8080")

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		zlog.Info("lumen progress engine listening", zap.String("port", serverPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("stop signal received, shutting down")

	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("forced shutdown", zap.Error(err))
	}

	zlog.Info("server stopped gracefully")
}
