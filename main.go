package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/LFCunha10/lisbonlovesme-sub000/config"
	"github.com/LFCunha10/lisbonlovesme-sub000/database"
	"github.com/LFCunha10/lisbonlovesme-sub000/handler"
	"github.com/LFCunha10/lisbonlovesme-sub000/helper"
	"github.com/LFCunha10/lisbonlovesme-sub000/logger"
	"github.com/LFCunha10/lisbonlovesme-sub000/mailer"
	"github.com/LFCunha10/lisbonlovesme-sub000/notify"
	"github.com/LFCunha10/lisbonlovesme-sub000/outbox"
	"github.com/LFCunha10/lisbonlovesme-sub000/payment"
	"github.com/LFCunha10/lisbonlovesme-sub000/router"
	"github.com/LFCunha10/lisbonlovesme-sub000/service"
	"github.com/LFCunha10/lisbonlovesme-sub000/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if err := logger.Init(cfg.App.IsDevelopment()); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	helper.SetJWTSecret(cfg.App.JWTSecret)
	if err := database.ConnectDB(ctx, cfg); err != nil {
		logger.Log.Fatal("database setup failed", zap.Error(err))
	}

	files, err := storage.FromConfig(cfg)
	if err != nil {
		logger.Log.Fatal("storage setup failed", zap.Error(err))
	}

	hub := notify.NewHub()
	var publisher notify.Publisher = hub
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		bridge := notify.NewRedisBridge(client, hub)
		go bridge.Run(ctx)
		publisher = bridge
	}
	var pusher notify.Pusher
	if cfg.Push.Enabled {
		pusher = notify.NewExpoPusher(database.DB, cfg.Push.URL)
	}
	fanout := notify.NewFanout(database.DB, publisher, pusher)

	worker := outbox.NewWorker(database.DB, outbox.Options{
		MaxAttempts: cfg.Outbox.MaxAttempts,
		BatchSize:   cfg.Outbox.BatchSize,
		RatePerSec:  cfg.Outbox.RatePerSec,
	})
	service.RegisterDeliveries(worker, mailer.FromConfig(cfg), fanout)
	go worker.Run(ctx)

	if err := helper.StartOutboxScheduler(ctx, worker, cfg.Outbox.Interval); err != nil {
		logger.Log.Fatal("outbox scheduler failed", zap.Error(err))
	}
	if err := helper.StartHousekeeping(database.DB, worker); err != nil {
		logger.Log.Fatal("housekeeping scheduler failed", zap.Error(err))
	}
	defer helper.StopSchedulers()

	secure := !cfg.App.IsDevelopment()
	handler.Init(handler.Deps{
		Bookings: service.NewBookingService(database.DB, service.BookingPolicy{
			RejectInvalidDiscount: cfg.App.RejectInvalidDiscount,
		}, payment.FromKey(cfg.Stripe.SecretKey, cfg.Stripe.Currency), worker.Kick),
		Settings:      service.NewSettingsStore(database.DB),
		Fanout:        fanout,
		Hub:           hub,
		Files:         files,
		PublicURL:     cfg.App.PublicURL,
		SecureCookies: secure,
	})

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024,
	})
	uploadDir := ""
	if _, ok := files.(*storage.LocalStore); ok {
		uploadDir = cfg.Upload.Dir
	}
	router.SetupRoutes(app, router.Options{
		AllowOrigin:   cfg.Server.AllowOrigin,
		UploadDir:     uploadDir,
		SecureCookies: secure,
	})

	go func() {
		<-ctx.Done()
		logger.Log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Log.Warn("shutdown failed", zap.Error(err))
		}
	}()

	logger.Log.Info("listening", zap.String("addr", cfg.Server.Addr()))
	if err := app.Listen(cfg.Server.Addr()); err != nil {
		logger.Log.Fatal("server stopped", zap.Error(err))
	}
}
