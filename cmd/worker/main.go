package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/autolane/autolane-backend/internal/inspections"
	"github.com/autolane/autolane-backend/internal/notifications"
	"github.com/autolane/autolane-backend/internal/translations"
	"github.com/autolane/autolane-backend/internal/worker"
	"github.com/autolane/autolane-backend/pkg/config"
	"github.com/autolane/autolane-backend/pkg/db"
	"github.com/autolane/autolane-backend/pkg/instance"
	"github.com/autolane/autolane-backend/pkg/logger"
	"github.com/autolane/autolane-backend/pkg/metrics"
	"github.com/autolane/autolane-backend/pkg/migrate"
	"github.com/autolane/autolane-backend/pkg/outbox"
	"github.com/autolane/autolane-backend/pkg/outbox/idempotency"
	"github.com/autolane/autolane-backend/pkg/pubsub"
	"github.com/autolane/autolane-backend/pkg/redis"
)

const (
	lockKeyFormat  = "al:worker:lock:%s"
	idempotencyTTL = 7 * 24 * time.Hour
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "worker"

	logg = logger.New(logger.Options{
		ServiceName: "worker",
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

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub client", err)
		}
	}()

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

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

	notificationsRepo := notifications.NewRepository(dbClient.DB())
	notificationsService, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	inspectionJob, err := worker.NewInspectionJob(inspectionsService, logg, cfg.Worker)
	if err != nil {
		logg.Error(context.Background(), "failed to create inspection job", err)
		os.Exit(1)
	}
	translationJob, err := worker.NewTranslationJob(translationsService, logg, cfg.Worker)
	if err != nil {
		logg.Error(context.Background(), "failed to create translation job", err)
		os.Exit(1)
	}
	retentionJob, err := worker.NewNotificationRetentionJob(notificationsService, logg, cfg.Worker)
	if err != nil {
		logg.Error(context.Background(), "failed to create retention job", err)
		os.Exit(1)
	}

	lock, err := worker.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker lock", err)
		os.Exit(1)
	}

	jobService, err := worker.NewService(worker.ServiceParams{
		Logger:   logg,
		Registry: worker.NewRegistry(inspectionJob, translationJob, retentionJob),
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Worker.PollInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	idempotencyManager, err := idempotency.NewManager(redisClient, idempotencyTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create idempotency manager", err)
		os.Exit(1)
	}

	consumer, err := notifications.NewConsumer(notificationsRepo, pubsubClient.DomainSubscription(), idempotencyManager, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications consumer", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"instance":    instance.GetID(),
	})
	logg.Info(ctx, "starting worker")

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return jobService.Run(groupCtx)
	})
	group.Go(func() error {
		return consumer.Run(groupCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
