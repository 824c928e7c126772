// Package server boots the HTTP API and the background reminder worker.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"parking-rsvp-api/core/cache"
	"parking-rsvp-api/core/config"
	"parking-rsvp-api/core/constants"
	"parking-rsvp-api/core/database"
	"parking-rsvp-api/core/logger"
	"parking-rsvp-api/core/storage"
	"parking-rsvp-api/core/utils"
	"parking-rsvp-api/modules/auth"
	"parking-rsvp-api/modules/event"
	eventService "parking-rsvp-api/modules/event/service"
	"parking-rsvp-api/modules/notification"
	notifService "parking-rsvp-api/modules/notification/service"
	"parking-rsvp-api/modules/rsvp"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Run starts the API and blocks until SIGINT/SIGTERM, then shuts both the
// HTTP server and the worker down gracefully.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Server.Env)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	cacheClient, err := cache.Init(cfg.Redis)
	if err != nil {
		// Without redis there is no link cache and no reminder queue; in
		// development the API should still come up.
		if cfg.Server.Env != constants.EnvDevelopment {
			return fmt.Errorf("init cache: %w", err)
		}
		logger.Warn("Server:Run:CacheUnavailable", "error", err)
		cacheClient = nil
	}

	uploader := buildUploader(cfg)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: utils.GenerateID,
	}))

	// Modules. Auth comes first so the others can share its middleware.
	_, mw := auth.Init(e)
	e.Use(mw.RequestLogger())

	_, linkSvc := rsvp.Init(e, &db, cacheClient, mw)

	var (
		notifSvc    *notifService.NotificationService
		worker      *notifService.ReminderWorker
		asynqServer *asynq.Server
		reminders   eventService.ReminderEnqueuer
	)
	if cacheClient != nil {
		var redisOpt asynq.RedisClientOpt
		notifSvc, worker, redisOpt = notification.Init(cfg.Redis, linkSvc)
		asynqServer = asynq.NewServer(redisOpt, asynq.Config{Concurrency: 4})
		reminders = notifSvc
	}

	event.Init(e, &db, mw, reminders, uploader)

	if asynqServer != nil {
		go func() {
			if err := asynqServer.Run(worker.Mux()); err != nil {
				logger.Error("Server:Worker:Error", "error", err)
			}
		}()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		logger.Info("Server listening", "addr", addr, "env", cfg.Server.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start:Error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if asynqServer != nil {
		asynqServer.Shutdown()
	}
	if notifSvc != nil {
		if err := notifSvc.Close(); err != nil {
			logger.Warn("Server:Shutdown:CloseQueue:Error", "error", err)
		}
	}
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func buildUploader(cfg *config.Config) storage.Uploader {
	if cfg.AWS.AccessKeyID == "" || cfg.AWS.SecretAccessKey == "" || cfg.AWS.Bucket == "" {
		logger.Warn("Server:Run:ExportStorageUnconfigured")
		return nil
	}
	return storage.NewS3(cfg.AWS)
}
