package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/autolane/autolane-backend/api/routes"
	"github.com/autolane/autolane-backend/internal/accounts"
	"github.com/autolane/autolane-backend/internal/auctions"
	"github.com/autolane/autolane-backend/internal/bids"
	"github.com/autolane/autolane-backend/internal/documents"
	"github.com/autolane/autolane-backend/internal/inspections"
	"github.com/autolane/autolane-backend/internal/notifications"
	"github.com/autolane/autolane-backend/internal/shipments"
	"github.com/autolane/autolane-backend/internal/translations"
	"github.com/autolane/autolane-backend/pkg/config"
	"github.com/autolane/autolane-backend/pkg/db"
	"github.com/autolane/autolane-backend/pkg/logger"
	"github.com/autolane/autolane-backend/pkg/migrate"
	"github.com/autolane/autolane-backend/pkg/outbox"
	"github.com/autolane/autolane-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	auctionsService, err := auctions.NewService(auctions.NewRepository(dbClient.DB()), redisClient, logg, cfg.Cache)
	if err != nil {
		logg.Error(context.Background(), "failed to create auctions service", err)
		os.Exit(1)
	}

	bidsService, err := bids.NewService(bids.NewRepository(dbClient.DB()), dbClient, outboxService, cfg.Bids)
	if err != nil {
		logg.Error(context.Background(), "failed to create bids service", err)
		os.Exit(1)
	}

	shipmentsService, err := shipments.NewService(shipments.NewRepository(dbClient.DB()), dbClient, outboxService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipments service", err)
		os.Exit(1)
	}

	inspectionsService, err := inspections.NewService(inspections.NewRepository(dbClient.DB()), dbClient, outboxService, cfg.Worker)
	if err != nil {
		logg.Error(context.Background(), "failed to create inspections service", err)
		os.Exit(1)
	}

	translationsService, err := translations.NewService(translations.NewRepository(dbClient.DB()), dbClient, outboxService, cfg.Worker)
	if err != nil {
		logg.Error(context.Background(), "failed to create translations service", err)
		os.Exit(1)
	}

	documentsService, err := documents.NewService(documents.NewRepository(dbClient.DB()), dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create documents service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	accountsService, err := accounts.NewService(accounts.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create accounts service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			auctionsService,
			bidsService,
			shipmentsService,
			inspectionsService,
			translationsService,
			documentsService,
			notificationsService,
			accountsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
