package worker

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/autolane/autolane-backend/pkg/config"
	"github.com/autolane/autolane-backend/pkg/logger"
)

type stubCompleter struct {
	completed int
	err       error
	gotAsOf   time.Time
	gotLimit  int
}

func (s *stubCompleter) CompleteDue(ctx context.Context, asOf time.Time, limit int) (int, error) {
	s.gotAsOf = asOf
	s.gotLimit = limit
	return s.completed, s.err
}

type stubPurger struct {
	purged    int64
	err       error
	gotCutoff time.Time
}

func (s *stubPurger) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.gotCutoff = cutoff
	return s.purged, s.err
}

func workerTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "worker-test", Output: &bytes.Buffer{}})
}

func TestInspectionJobPassesBatchSize(t *testing.T) {
	completer := &stubCompleter{completed: 3}
	job, err := NewInspectionJob(completer, workerTestLogger(), config.WorkerConfig{BatchSize: 50})
	if err != nil {
		t.Fatalf("constructor: %v", err)
	}
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if completer.gotLimit != 50 {
		t.Fatalf("expected batch size 50, got %d", completer.gotLimit)
	}
	if !completer.gotAsOf.Equal(now) {
		t.Fatalf("expected asOf %s, got %s", now, completer.gotAsOf)
	}
}

func TestTranslationJobPropagatesError(t *testing.T) {
	completer := &stubCompleter{err: errors.New("db down")}
	job, err := NewTranslationJob(completer, workerTestLogger(), config.WorkerConfig{BatchSize: 10})
	if err != nil {
		t.Fatalf("constructor: %v", err)
	}

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error to propagate")
	}
}

func TestNotificationRetentionJobUsesTTLCutoff(t *testing.T) {
	purger := &stubPurger{purged: 7}
	job, err := NewNotificationRetentionJob(purger, workerTestLogger(), config.WorkerConfig{NotificationTTL: 90 * 24 * time.Hour})
	if err != nil {
		t.Fatalf("constructor: %v", err)
	}
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := now.Add(-90 * 24 * time.Hour)
	if !purger.gotCutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, purger.gotCutoff)
	}
}

func TestNotificationRetentionJobRejectsZeroTTL(t *testing.T) {
	if _, err := NewNotificationRetentionJob(&stubPurger{}, workerTestLogger(), config.WorkerConfig{}); err == nil {
		t.Fatal("expected constructor error for zero retention")
	}
}

type countingLock struct {
	acquired  int
	released  int
	available bool
}

func (l *countingLock) Acquire(ctx context.Context) (bool, error) {
	l.acquired++
	return l.available, nil
}

func (l *countingLock) Release(ctx context.Context) error {
	l.released++
	return nil
}

type recordingJob struct {
	name string
	runs int
	err  error
}

func (j *recordingJob) Name() string { return j.name }

func (j *recordingJob) Run(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestServiceRunsAllJobsWhenLocked(t *testing.T) {
	lock := &countingLock{available: true}
	first := &recordingJob{name: "first"}
	second := &recordingJob{name: "second", err: errors.New("boom")}
	svc, err := NewService(ServiceParams{
		Logger:   workerTestLogger(),
		Registry: NewRegistry(first, second),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("constructor: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if first.runs != 1 || second.runs != 1 {
		t.Fatalf("expected both jobs to run, got %d/%d", first.runs, second.runs)
	}
	if lock.released != 1 {
		t.Fatalf("expected lock release, got %d", lock.released)
	}
}

func TestServiceSkipsCycleWithoutLock(t *testing.T) {
	lock := &countingLock{available: false}
	job := &recordingJob{name: "only"}
	svc, err := NewService(ServiceParams{
		Logger:   workerTestLogger(),
		Registry: NewRegistry(job),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("constructor: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("job must not run without the lock, ran %d times", job.runs)
	}
	if lock.released != 0 {
		t.Fatalf("lock must not be released when not held, got %d", lock.released)
	}
}
