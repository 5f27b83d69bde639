package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/autolane/autolane-backend/pkg/config"
	"github.com/autolane/autolane-backend/pkg/logger"
)

type requestCompleter interface {
	CompleteDue(ctx context.Context, asOf time.Time, limit int) (int, error)
}

type notificationPurger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// InspectionJob completes inspection requests whose turnaround has elapsed.
type InspectionJob struct {
	inspections requestCompleter
	logg        *logger.Logger
	batchSize   int
	now         func() time.Time
}

// NewInspectionJob builds the inspection completion job.
func NewInspectionJob(inspections requestCompleter, logg *logger.Logger, cfg config.WorkerConfig) (*InspectionJob, error) {
	if inspections == nil {
		return nil, fmt.Errorf("inspections service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &InspectionJob{
		inspections: inspections,
		logg:        logg,
		batchSize:   cfg.BatchSize,
		now:         time.Now,
	}, nil
}

func (j *InspectionJob) Name() string { return "complete-inspections" }

func (j *InspectionJob) Run(ctx context.Context) error {
	completed, err := j.inspections.CompleteDue(ctx, j.now(), j.batchSize)
	if completed > 0 {
		j.logg.Info(j.logg.WithField(ctx, "completed", completed), "inspections completed")
	}
	return err
}

// TranslationJob completes translation requests whose turnaround has elapsed.
type TranslationJob struct {
	translations requestCompleter
	logg         *logger.Logger
	batchSize    int
	now          func() time.Time
}

// NewTranslationJob builds the translation completion job.
func NewTranslationJob(translations requestCompleter, logg *logger.Logger, cfg config.WorkerConfig) (*TranslationJob, error) {
	if translations == nil {
		return nil, fmt.Errorf("translations service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &TranslationJob{
		translations: translations,
		logg:         logg,
		batchSize:    cfg.BatchSize,
		now:          time.Now,
	}, nil
}

func (j *TranslationJob) Name() string { return "complete-translations" }

func (j *TranslationJob) Run(ctx context.Context) error {
	completed, err := j.translations.CompleteDue(ctx, j.now(), j.batchSize)
	if completed > 0 {
		j.logg.Info(j.logg.WithField(ctx, "completed", completed), "translations completed")
	}
	return err
}

// NotificationRetentionJob purges notifications older than the retention
// window.
type NotificationRetentionJob struct {
	notifications notificationPurger
	logg          *logger.Logger
	retention     time.Duration
	now           func() time.Time
}

// NewNotificationRetentionJob builds the retention job.
func NewNotificationRetentionJob(notifications notificationPurger, logg *logger.Logger, cfg config.WorkerConfig) (*NotificationRetentionJob, error) {
	if notifications == nil {
		return nil, fmt.Errorf("notifications service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.NotificationTTL <= 0 {
		return nil, fmt.Errorf("notification retention must be positive")
	}
	return &NotificationRetentionJob{
		notifications: notifications,
		logg:          logg,
		retention:     cfg.NotificationTTL,
		now:           time.Now,
	}, nil
}

func (j *NotificationRetentionJob) Name() string { return "notification-retention" }

func (j *NotificationRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.retention)
	purged, err := j.notifications.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	if purged > 0 {
		j.logg.Info(j.logg.WithField(ctx, "purged", purged), "stale notifications purged")
	}
	return nil
}
