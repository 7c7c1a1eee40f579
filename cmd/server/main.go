package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/nano-feed/backend/internal/handlers"
	"github.com/anonto42/nano-feed/backend/internal/repositories"
	"github.com/anonto42/nano-feed/backend/internal/router"
	"github.com/anonto42/nano-feed/backend/internal/services"
	"github.com/anonto42/nano-feed/backend/pkg/config"
	"github.com/anonto42/nano-feed/backend/pkg/firebase"
	"github.com/anonto42/nano-feed/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	db, err := config.OpenDatabase(cfg.Database, logg)
	if err != nil {
		logg.Fatal("failed to initialize database", zap.Error(err))
	}
	defer config.CloseDatabase(db, logg)

	if err := repositories.Migrate(db); err != nil {
		logg.Fatal("failed to migrate schema", zap.Error(err))
	}

	ctx := context.Background()
	var firebaseAuth handlers.TokenVerifier
	if cfg.FirebaseCredentialsPath != "" {
		client, err := firebase.NewAuthClient(ctx, cfg.FirebaseCredentialsPath, logg.Named("firebase"))
		if err != nil {
			logg.Fatal("failed to initialize firebase", zap.Error(err))
		}
		firebaseAuth = client
	}

	svc := services.New(db, services.Options{
		Logger: logg,
		Ranking: &services.Ranking{
			LikeWeight:    cfg.Ranking.LikeWeight,
			CommentWeight: cfg.Ranking.CommentWeight,
		},
		MaxPageSize: cfg.Feed.MaxPageSize,
	})

	e := echo.New()
	e.HideBanner = true
	router.SetupMiddleware(e, logg)
	router.SetupRoutes(e, router.Dependencies{
		DB:              db,
		Services:        svc,
		JWTSecret:       cfg.JWTSecret,
		FirebaseAuth:    firebaseAuth,
		DefaultPageSize: cfg.Feed.DefaultPageSize,
		Logger:          logg,
	})

	go func() {
		logg.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logg.Error("graceful shutdown failed", zap.Error(err))
	}
}
