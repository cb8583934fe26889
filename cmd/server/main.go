package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/warbler-app/backend/internal/middleware"
	"github.com/warbler-app/backend/internal/models"
	"github.com/warbler-app/backend/internal/repositories"
	"github.com/warbler-app/backend/internal/router"
	"github.com/warbler-app/backend/pkg/config"
	"github.com/warbler-app/backend/pkg/firebase"
	"github.com/warbler-app/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	models.PasswordCost = cfg.BcryptCost

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	if err := repositories.AutoMigrate(db.SQL); err != nil {
		logrus.Fatalf("Failed to migrate schema: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := router.Deps{
		DB:        db.SQL,
		Sessions:  middleware.NewSessionStore(cfg.SessionSecret, cfg.IsProduction()),
		JWTSecret: cfg.JWTSecret,
		Registry:  prometheus.NewRegistry(),
	}
	deps.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if db.Mongo != nil {
		deps.Activities = repositories.NewMongoActivityRepository(db.Mongo.Database(cfg.MongoDatabase))
	}

	// Initialize Firebase
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	switch {
	case err == nil:
		deps.Firebase = firebaseApp.AuthClient
	case errors.Is(err, firebase.ErrNotConfigured):
		logrus.Info("Firebase not configured, federated sign-in disabled")
	default:
		logrus.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Setup global middleware
	config.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, deps)

	go func() {
		logrus.WithField("port", cfg.Port).Info("Starting Warbler")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Graceful shutdown failed")
	}
}
