package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/almasbek/fightcard/config"
	"github.com/almasbek/fightcard/db"
	"github.com/almasbek/fightcard/handlers"
	"github.com/almasbek/fightcard/live"
	"github.com/almasbek/fightcard/repositories"
	api "github.com/almasbek/fightcard/routes"
	"github.com/almasbek/fightcard/services"
	"github.com/almasbek/fightcard/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.R2.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured, fighter photo uploads disabled")
	}

	wsHub := live.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	fighterRepo := repositories.NewPostgresFighterRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	fightRepo := repositories.NewPostgresFightRepository(dbConn)
	predictionRepo := repositories.NewPostgresPredictionRepository(dbConn)
	scorecardRepo := repositories.NewPostgresScorecardRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo, cfg.TelegramBotToken, cfg.JWTSecretKey, cfg.AdminUsername, cfg.AdminPasswordHash)
	fighterService := services.NewFighterService(fighterRepo, uploader, logger)
	eventService := services.NewEventService(eventRepo, fightRepo, fighterRepo, resultRepo)
	predictionService := services.NewPredictionService(predictionRepo, fightRepo)
	scorecardService := services.NewScorecardService(scorecardRepo, fightRepo)
	fightService := services.NewFightService(fightRepo, eventRepo, fighterRepo, resultRepo, predictionService, scorecardService)
	userService := services.NewUserService(userRepo, predictionRepo, scorecardRepo)
	resolutionService := services.NewResolutionService(predictionRepo, scorecardRepo, resultRepo)
	resultService := services.NewResultService(dbConn, fightRepo, eventRepo, resultRepo, resolutionService, wsHub, logger)
	logger.Info("services initialized")

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, predictionService, scorecardService)
	fighterHandler := handlers.NewFighterHandler(fighterService)
	eventHandler := handlers.NewEventHandler(eventService, fightService)
	fightHandler := handlers.NewFightHandler(fightService)
	predictionHandler := handlers.NewPredictionHandler(predictionService)
	scorecardHandler := handlers.NewScorecardHandler(scorecardService)
	resultHandler := handlers.NewResultHandler(resultService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		userHandler,
		fighterHandler,
		eventHandler,
		fightHandler,
		predictionHandler,
		scorecardHandler,
		resultHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
