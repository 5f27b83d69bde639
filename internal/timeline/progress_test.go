package timeline

import (
	"testing"

	"github.com/autolane/autolane-backend/pkg/enums"
	pkgerrors "github.com/autolane/autolane-backend/pkg/errors"
)

func stageSeq(statuses ...enums.StageStatus) []Stage {
	stages := make([]Stage, 0, len(statuses))
	for i, status := range statuses {
		stages = append(stages, Stage{
			ID:     stageID(i),
			Title:  "Stage",
			Status: status,
		})
	}
	return stages
}

func stageID(i int) string {
	return string(rune('a' + i))
}

func TestSummarizeEmptySequence(t *testing.T) {
	_, err := Summarize(nil)
	if err == nil {
		t.Fatal("expected error for empty sequence")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePrecondition {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestSummarizeAllPending(t *testing.T) {
	summary, err := Summarize(stageSeq(
		enums.StageStatusPending,
		enums.StageStatusPending,
		enums.StageStatusPending,
	))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.OverallProgress != 0 {
		t.Fatalf("expected progress 0, got %d", summary.OverallProgress)
	}
	if summary.CurrentStageIndex != -1 {
		t.Fatalf("expected index -1, got %d", summary.CurrentStageIndex)
	}
}

func TestSummarizeAllCompleted(t *testing.T) {
	summary, err := Summarize(stageSeq(
		enums.StageStatusCompleted,
		enums.StageStatusCompleted,
		enums.StageStatusCompleted,
		enums.StageStatusCompleted,
	))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.OverallProgress != 100 {
		t.Fatalf("expected progress 100, got %d", summary.OverallProgress)
	}
	if summary.CurrentStageIndex != 3 {
		t.Fatalf("expected index 3, got %d", summary.CurrentStageIndex)
	}
}

func TestSummarizeWorkedExample(t *testing.T) {
	// 7 stages: 3 completed, 1 in progress at 60%, 3 pending.
	stages := stageSeq(
		enums.StageStatusCompleted,
		enums.StageStatusCompleted,
		enums.StageStatusCompleted,
		enums.StageStatusInProgress,
		enums.StageStatusPending,
		enums.StageStatusPending,
		enums.StageStatusPending,
	)
	stages[3].Progress = 60

	summary, err := Summarize(stages)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.OverallProgress != 51 {
		t.Fatalf("expected progress 51, got %d", summary.OverallProgress)
	}
	if summary.CurrentStageIndex != 3 {
		t.Fatalf("expected index 3, got %d", summary.CurrentStageIndex)
	}
	if summary.CompletedStages != 3 || summary.TotalStages != 7 {
		t.Fatalf("unexpected counts %+v", summary)
	}
}

func TestSummarizeFirstInProgressWins(t *testing.T) {
	stages := stageSeq(
		enums.StageStatusInProgress,
		enums.StageStatusInProgress,
		enums.StageStatusPending,
	)
	stages[0].Progress = 30
	stages[1].Progress = 90

	summary, err := Summarize(stages)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.CurrentStageIndex != 0 {
		t.Fatalf("expected first in-progress stage, got index %d", summary.CurrentStageIndex)
	}
	// round((0 + 0.3)/3 * 100) = 10; the second stage's 90% is ignored.
	if summary.OverallProgress != 10 {
		t.Fatalf("expected progress 10, got %d", summary.OverallProgress)
	}
}

func TestSummarizeFallsBackToLastCompleted(t *testing.T) {
	summary, err := Summarize(stageSeq(
		enums.StageStatusCompleted,
		enums.StageStatusCompleted,
		enums.StageStatusPending,
	))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.CurrentStageIndex != 1 {
		t.Fatalf("expected index 1, got %d", summary.CurrentStageIndex)
	}
}

func TestSummarizeClampsCorruptProgress(t *testing.T) {
	for _, tc := range []struct {
		name     string
		progress int
		expected int
	}{
		{name: "negative", progress: -40, expected: 0},
		{name: "overflow", progress: 250, expected: 50},
	} {
		t.Run(tc.name, func(t *testing.T) {
			stages := stageSeq(enums.StageStatusInProgress, enums.StageStatusPending)
			stages[0].Progress = tc.progress

			summary, err := Summarize(stages)
			if err != nil {
				t.Fatalf("Summarize: %v", err)
			}
			if summary.OverallProgress != tc.expected {
				t.Fatalf("expected progress %d, got %d", tc.expected, summary.OverallProgress)
			}
		})
	}
}

func TestSummarizeCompletedStageIgnoresStoredProgress(t *testing.T) {
	stages := stageSeq(enums.StageStatusCompleted, enums.StageStatusPending)
	stages[0].Progress = 5 // stale value; completed counts as 100

	summary, err := Summarize(stages)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.OverallProgress != 50 {
		t.Fatalf("expected progress 50, got %d", summary.OverallProgress)
	}
}

func TestSummarizeRejectsInconsistentTaskCounts(t *testing.T) {
	stages := stageSeq(enums.StageStatusInProgress)
	stages[0].TasksCompleted = 3
	stages[0].TotalTasks = 2

	_, err := Summarize(stages)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePrecondition {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestSummarizeMonotonicity(t *testing.T) {
	// Advance a 5-stage pipeline one transition at a time and require the
	// overall percentage to never decrease.
	stages := stageSeq(
		enums.StageStatusPending,
		enums.StageStatusPending,
		enums.StageStatusPending,
		enums.StageStatusPending,
		enums.StageStatusPending,
	)

	previous := -1
	check := func() {
		t.Helper()
		summary, err := Summarize(stages)
		if err != nil {
			t.Fatalf("Summarize: %v", err)
		}
		if summary.OverallProgress < previous {
			t.Fatalf("progress regressed from %d to %d", previous, summary.OverallProgress)
		}
		previous = summary.OverallProgress
	}

	check()
	for i := range stages {
		stages[i].Status = enums.StageStatusInProgress
		for _, progress := range []int{25, 50, 75} {
			stages[i].Progress = progress
			check()
		}
		stages[i].Status = enums.StageStatusCompleted
		check()
	}
	if previous != 100 {
		t.Fatalf("expected final progress 100, got %d", previous)
	}
}
