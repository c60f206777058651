package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/juicepos/internal/config"
	"github.com/mamadbah2/juicepos/internal/events"
	"github.com/mamadbah2/juicepos/internal/metrics"
	"github.com/mamadbah2/juicepos/internal/repository/mongodb"
	"github.com/mamadbah2/juicepos/internal/repository/records"
	"github.com/mamadbah2/juicepos/internal/repository/sheets"
	"github.com/mamadbah2/juicepos/internal/repository/store"
	"github.com/mamadbah2/juicepos/internal/scheduler"
	"github.com/mamadbah2/juicepos/internal/server/handlers"
	"github.com/mamadbah2/juicepos/internal/server/router"
	inventorysvc "github.com/mamadbah2/juicepos/internal/service/inventory"
	notificationsvc "github.com/mamadbah2/juicepos/internal/service/notifications"
	pricingsvc "github.com/mamadbah2/juicepos/internal/service/pricing"
	reportingsvc "github.com/mamadbah2/juicepos/internal/service/reporting"
	salessvc "github.com/mamadbah2/juicepos/internal/service/sales"
	"github.com/mamadbah2/juicepos/internal/service/seed"
	whatsappclient "github.com/mamadbah2/juicepos/pkg/clients/whatsapp"
	"github.com/mamadbah2/juicepos/pkg/logger"
	"github.com/mamadbah2/juicepos/pkg/tracing"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName)
	if err != nil {
		baseLogger.Fatal("failed to init tracing", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			baseLogger.Error("failed to flush traces", zap.Error(err))
		}
	}()

	st, err := store.Open(cfg.Store.Dir, store.Options{InMemory: cfg.Store.InMemory, Logger: baseLogger.Named("store")})
	if err != nil {
		baseLogger.Fatal("failed to open record store", zap.Error(err))
	}
	defer func() {
		if err := st.Close(); err != nil {
			baseLogger.Error("failed to close record store", zap.Error(err))
		}
	}()
	db := records.New(st)

	if _, err := seed.NewInitializer(db, baseLogger.Named("seed")).EnsureSeeded(ctx); err != nil {
		baseLogger.Fatal("failed to seed record store", zap.Error(err))
	}

	reg := metrics.NewRegistry()
	pol := cfg.Policy.Policy()

	var whatsClient whatsappclient.Client
	if cfg.WhatsApp.Enabled() {
		whatsClient = whatsappclient.NewClient(cfg.WhatsApp)
		baseLogger.Info("whatsapp cloud api enabled")
	} else {
		whatsClient = whatsappclient.NewLinkClient(cfg.WhatsApp.LinkBaseURL)
		baseLogger.Warn("whatsapp token missing, bills are logged as wa.me links")
	}

	notifier := notificationsvc.NewService(db, whatsClient, notificationsvc.Options{
		DefaultCountryCode: cfg.WhatsApp.DefaultCountryCode,
		CurrencySymbol:     cfg.WhatsApp.CurrencySymbol,
		SendTimeout:        cfg.WhatsApp.SendTimeout,
	}, reg, baseLogger.Named("svc.notifications"))

	bus := events.NewBus(cfg.Events.HandlerTimeout, reg, baseLogger.Named("events"))
	bus.Subscribe(notifier)

	if cfg.Kafka.Enabled() {
		kafkaPub := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, baseLogger.Named("events.kafka"))
		defer func() {
			if err := kafkaPub.Close(); err != nil {
				baseLogger.Error("failed to close kafka writer", zap.Error(err))
			}
		}()
		bus.Subscribe(kafkaPub)
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		bus.Subscribe(sheets.NewSalesLedger(sheetsRepo, cfg.Sheets.SalesRange))
	}

	var archive reportingsvc.Archive
	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive = mongoRepo
	}

	// Validate already checked the zone when reporting is enabled.
	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Warn("unknown timezone, using UTC", zap.String("timezone", cfg.Reporting.Timezone))
		loc = time.UTC
	}

	catalogSvc := inventorysvc.NewService(db, pol, baseLogger.Named("svc.inventory"))
	pricingEngine := pricingsvc.NewEngine(db, pricingsvc.Config{
		DefaultMarkup: cfg.Pricing.DefaultMarkup,
		RoundingUnit:  cfg.Pricing.RoundingUnit,
	}, pol, reg, baseLogger.Named("svc.pricing"))
	salesEngine := salessvc.NewEngine(db, pol, bus, reg, baseLogger.Named("svc.sales"))
	reportingSvc := reportingsvc.NewService(db, archive, loc, baseLogger.Named("svc.reporting"))

	if cfg.Reporting.Enabled() {
		var sender scheduler.Sender
		if cfg.WhatsApp.OwnerPhone != "" {
			sender = notifier
		}
		sched := scheduler.NewScheduler(scheduler.Options{
			Schedule:       cfg.Reporting.CronSchedule,
			Location:       loc,
			OwnerPhone:     cfg.WhatsApp.OwnerPhone,
			CurrencySymbol: cfg.WhatsApp.CurrencySymbol,
		}, reportingSvc, sender, baseLogger.Named("scheduler"))
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	engine := router.New(router.Handlers{
		Catalog:   handlers.NewCatalogHandler(catalogSvc, pricingEngine, baseLogger.Named("handlers.catalog")),
		Sales:     handlers.NewSalesHandler(salesEngine, baseLogger.Named("handlers.sales")),
		Messaging: handlers.NewMessagingHandler(notifier, baseLogger.Named("handlers.messaging")),
		Reports:   handlers.NewReportHandler(reportingSvc, loc, baseLogger.Named("handlers.reports")),
		Metrics:   reg.Handler(),
	}, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
