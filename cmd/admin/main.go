package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/projuktisheba/erp-mini-admin/internal/app"
	"github.com/projuktisheba/erp-mini-admin/internal/auth"
	"github.com/projuktisheba/erp-mini-admin/internal/erpapi"
	"github.com/projuktisheba/erp-mini-admin/internal/masterdata"
	"github.com/projuktisheba/erp-mini-admin/internal/observability"
	"github.com/projuktisheba/erp-mini-admin/internal/orders"
	"github.com/projuktisheba/erp-mini-admin/internal/platform/cache"
	"github.com/projuktisheba/erp-mini-admin/internal/report"
	reporthttp "github.com/projuktisheba/erp-mini-admin/internal/report/http"
	"github.com/projuktisheba/erp-mini-admin/internal/shared"
	"github.com/projuktisheba/erp-mini-admin/internal/view"
	"github.com/projuktisheba/erp-mini-admin/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, sessions and report cache degraded", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "erpadmin_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	api := erpapi.NewClient(cfg.APIBaseURL, cfg.APITimeout)

	fetcher := report.NewFetcher(api)
	reportCache := report.NewCache(redisClient, cfg.ReportCacheTTL)
	reportService := report.NewService(fetcher, reportCache)

	printer := report.NewGotenbergPrinter(cfg.GotenbergURL)
	if err := printer.Ping(ctx); err != nil {
		logger.Warn("gotenberg ping", slog.Any("error", err))
	}

	metrics := observability.NewMetrics()

	authHandler := auth.NewHandler(logger, api, templates, csrfManager, sessionManager)
	reportHandler := reporthttp.NewHandler(logger, reportService, templates, printer, csrfManager, metrics)
	masterDataHandler := masterdata.NewHandler(logger, api, templates, csrfManager)
	ordersHandler := orders.NewHandler(logger, api, templates, csrfManager)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		API:               api,
		Templates:         templates,
		SessionManager:    sessionManager,
		CSRFManager:       csrfManager,
		AuthHandler:       authHandler,
		ReportHandler:     reportHandler,
		MasterDataHandler: masterDataHandler,
		OrdersHandler:     ordersHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
