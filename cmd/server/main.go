package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coalition/internal/cache"
	"coalition/internal/config"
	"coalition/internal/repository"
	"coalition/internal/service"
	"coalition/internal/transport/rest"
	"coalition/internal/transport/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to ping MongoDB")
	}
	log.Info().Msg("connected to MongoDB")

	db := mongoClient.Database(cfg.Mongo.Database)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping Redis")
	}
	log.Info().Msg("connected to Redis")

	// WebSocket hub
	wsHub := ws.NewHub()

	// Repositories
	questionRepo := repository.NewQuestionRepo(db)
	backgroundRepo := repository.NewBackgroundRepo(db)
	scenarioRepo := repository.NewScenarioRepo(db)
	resultRepo := repository.NewResultRepo(db)

	// Caches
	sessionCache := cache.NewSessionCache(rdb, cfg.Interview.SessionTTL())
	leaderboard := cache.NewLeaderboardCache(rdb)

	// Services
	authSvc := service.NewAuthService(cfg.Auth)
	contentSvc := service.NewContentService(questionRepo, backgroundRepo, scenarioRepo)
	interviewSvc := service.NewInterviewService(
		questionRepo, backgroundRepo, scenarioRepo, resultRepo,
		sessionCache, leaderboard, cfg.Interview.FollowUpChance,
	)
	summarySvc := service.NewSummaryService(resultRepo, scenarioRepo, leaderboard)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	interviewSvc.SetBroadcaster(wsHub)

	container := &rest.Container{
		AuthService:      authSvc,
		ContentService:   contentSvc,
		InterviewService: interviewSvc,
		SummaryService:   summarySvc,
		WSHub:            wsHub,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
