package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"crew_loyalty/internal/api"
	"crew_loyalty/internal/catalog"
	"crew_loyalty/internal/repository"
	"crew_loyalty/internal/service"
	"crew_loyalty/internal/telemetry"
	"crew_loyalty/pkg/logger"
	"crew_loyalty/pkg/strava"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	if err := catalog.Validate(); err != nil {
		zapLogger.Fatal("Invalid loyalty catalog", zap.Error(err))
	}

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	snapshots, err := repository.NewSnapshotStore(cfg.Redis, cfg.SnapshotTTL)
	if err != nil {
		zapLogger.Fatal("Failed to initialize snapshot store", zap.Error(err))
	}
	defer snapshots.Close()

	hub := api.NewNotifyHub()
	emitters := telemetry.Multi{telemetry.NewZapEmitter(zapLogger), hub}
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := telemetry.NewKafkaEmitter(cfg.Kafka, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to initialize kafka emitter", zap.Error(err))
		}
		defer kafka.Close()
		emitters = append(emitters, kafka)
	}

	points := service.NewPointsService(repo, emitters)
	challenges := service.NewChallengeService(repo, repo, emitters, zapLogger)
	clubs := service.NewClubService(repo, repo, emitters, zapLogger)
	feed := strava.NewFeed()
	activity := service.NewActivityService(feed, points, challenges, emitters, zapLogger)
	session := service.NewSessionService(repo, repo, repo, snapshots)

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
	api.NewLoyaltyRoutes(a, points)
	api.NewChallengeRoutes(a, challenges, points)
	api.NewClubRoutes(a, clubs)
	api.NewStravaRoutes(a, activity)
	api.NewSessionRoutes(a, session)
	api.NewNotifyRoutes(a, hub)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
