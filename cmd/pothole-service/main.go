package main

import (
	"fmt"
	"os"

	"pothole-service/internal/auth"
	"pothole-service/internal/config"
	"pothole-service/internal/db"
	httphandler "pothole-service/internal/http"
	"pothole-service/internal/http/middleware"
	"pothole-service/internal/logger"
	"pothole-service/internal/notify"
	"pothole-service/internal/repository"
	"pothole-service/internal/service"
	"pothole-service/internal/workorder"
	"pothole-service/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	reportRepo := repository.NewReportRepository(database)
	notificationRepo := repository.NewNotificationRepository(database)

	registry := notify.NewRegistry()
	if err := registry.Register(notify.NewLogProvider(log)); err != nil {
		log.Fatal().Err(err).Msg("failed to register log provider")
	}
	if cfg.Notify.TwilioAccountSID != "" {
		if err := registry.Register(notify.NewTwilioProvider(cfg.Notify.TwilioAccountSID, cfg.Notify.TwilioAuthToken, cfg.Notify.TwilioFrom)); err != nil {
			log.Fatal().Err(err).Msg("failed to register twilio provider")
		}
	}
	if cfg.Notify.TelegramToken != "" {
		telegram, err := notify.NewTelegramProvider(cfg.Notify.TelegramToken)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to telegram")
		}
		if err := registry.Register(telegram); err != nil {
			log.Fatal().Err(err).Msg("failed to register telegram provider")
		}
	}

	dispatcher := notify.NewDispatcher(notify.Config{
		Channel:     cfg.Notify.Channel,
		Recipient:   cfg.Notify.Recipient,
		QueueSize:   cfg.Notify.QueueSize,
		Workers:     cfg.Notify.Workers,
		MaxAttempts: cfg.Notify.MaxAttempts,
		BaseDelay:   cfg.Notify.BaseDelay,
		DedupWindow: cfg.Notify.DedupWindow,
	}, registry, notificationRepo, log)
	dispatcher.Start()
	defer dispatcher.Stop()

	hub := ws.NewHub(log)
	go hub.Run()

	workorders := workorder.NewGenerator(cfg.Workorder.PublicBaseURL)

	reportService := service.NewReportService(reportRepo, notificationRepo, dispatcher, hub, workorders, log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(reportService, log)
	router := httphandler.NewRouter(handler, middleware.Auth(tokenParser), hub, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting pothole service")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
