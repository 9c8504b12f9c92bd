package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/user-table-api/api/swagger"
	"github.com/noah-isme/user-table-api/internal/handler"
	internalmiddleware "github.com/noah-isme/user-table-api/internal/middleware"
	"github.com/noah-isme/user-table-api/internal/repository"
	"github.com/noah-isme/user-table-api/internal/service"
	"github.com/noah-isme/user-table-api/pkg/config"
	"github.com/noah-isme/user-table-api/pkg/i18n"
	"github.com/noah-isme/user-table-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/user-table-api/pkg/middleware/cors"
	"github.com/noah-isme/user-table-api/pkg/middleware/ratelimit"
	reqidmiddleware "github.com/noah-isme/user-table-api/pkg/middleware/requestid"
)

const shutdownTimeout = 10 * time.Second

// @title User Table API
// @version 0.1.0
// @description Server-side state for the user administration table
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	translator, err := i18n.New(cfg.Locale)
	if err != nil {
		logr.Fatal("failed to load locales", zap.Error(err))
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userAPI := repository.NewMockUserAPI(repository.MockUserAPIConfig{
		UserCount:         cfg.Mock.UserCount,
		Seed:              cfg.Mock.Seed,
		FetchLatency:      cfg.Mock.FetchLatency,
		CreateLatency:     cfg.Mock.CreateLatency,
		UpdateLatency:     cfg.Mock.UpdateLatency,
		DeleteLatency:     cfg.Mock.DeleteLatency,
		DeleteManyLatency: cfg.Mock.DeleteManyLatency,
		FailureRate:       cfg.Mock.FailureRate,
	}, logr.Named("user_api"))

	var mailer service.Mailer = service.NewLogMailer(logr.Named("mailer"))
	if cfg.Mail.ResendAPIKey != "" {
		mailer = service.NewResendMailer(cfg.Mail.ResendAPIKey, cfg.Mail.From, translator, logr.Named("mailer"))
	}
	notifications := service.NewNotificationService(mailer, service.NotificationConfig{
		Workers:    cfg.Notify.Workers,
		Retries:    cfg.Notify.Retries,
		RetryDelay: cfg.Notify.RetryDelay,
	}, logr, metricsSvc)
	notifications.Start(ctx)

	validate := validator.New()
	registry := service.NewSessionRegistry(service.TableDeps{
		API:        userAPI,
		Notifier:   notifications,
		Translator: translator,
		Validate:   validate,
		Logger:     logr,
		Metrics:    metricsSvc,
		PageSize:   cfg.Table.PageSize,
		Location:   time.Local,
	}, cfg.Table.SessionTTL)
	registry.StartJanitor(ctx, cfg.Table.JanitorInterval)

	tableHandler := handler.NewTableHandler(registry, service.NewExportService(translator, time.Local), validate, logr)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, registry)

	limiter := ratelimit.New(cfg.Rate.Requests, cfg.Rate.Window)
	limiter.StartSweeper(ctx, cfg.Rate.Window)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc, "/health", "/ready", "/metrics"))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if metricsSvc != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
		r.GET("/metrics/summary", metricsHandler.Summary)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(limiter.Middleware())
	tableHandler.Register(api, internalmiddleware.TableSession(registry))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "locale", translator.Language())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown failed", zap.Error(err))
	}
	registry.Stop()
	notifications.Stop()
	logr.Info("server stopped")
}
