// Package main provides the entry point for the dashboard API server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Xavi146570/football-value-detector/internal/api"
	"github.com/Xavi146570/football-value-detector/internal/config"
	"github.com/Xavi146570/football-value-detector/internal/database"
	"github.com/Xavi146570/football-value-detector/internal/logger"
	"github.com/Xavi146570/football-value-detector/internal/metrics"
	"github.com/Xavi146570/football-value-detector/internal/repository"
)

func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("FOOTY_VALUE_CONFIG")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"port":        cfg.API.Port,
	}).Info("Dashboard API starting")

	metrics.InitRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	handler := api.NewHandler(repos, appLog)

	var hub *api.Hub
	if cfg.Redis.Enabled {
		hub = api.NewHub(appLog)
		go hub.Run(ctx)

		consumer := api.NewStreamConsumer(&cfg.Redis, hub, appLog)
		go consumer.Start(ctx)

		appLog.WithField("channel", cfg.Redis.Channel).Info("Live opportunity stream enabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.API.Port),
		Handler:      api.NewRouter(&cfg.API, handler, hub),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLog.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Fatal("HTTP server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig.String()).Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("HTTP server shutdown failed")
	}
	cancel()

	appLog.Info("Dashboard API shut down")
}
