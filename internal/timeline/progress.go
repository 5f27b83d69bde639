package timeline

import (
	"math"

	"github.com/autolane/autolane-backend/pkg/enums"
	pkgerrors "github.com/autolane/autolane-backend/pkg/errors"
)

// effectiveProgress normalizes a stage's progress for aggregation: completed
// counts as 100 and pending as 0 regardless of the stored value, and
// in-progress values are clamped to [0,100].
func effectiveProgress(stage Stage) int {
	switch stage.Status {
	case enums.StageStatusCompleted:
		return 100
	case enums.StageStatusPending:
		return 0
	default:
		return clampProgress(stage.Progress)
	}
}

func clampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

// Summarize computes the overall completion percentage and current stage
// pointer for an ordered stage sequence.
//
// Overall progress counts each completed stage as a full share and the first
// in-progress stage as a fractional share of its clamped progress. When more
// than one stage reports in_progress only the first contributes; the rest are
// ignored. The current stage index is the first in-progress stage, falling
// back to the last completed stage, then to -1 when nothing has started.
func Summarize(stages []Stage) (Summary, error) {
	if len(stages) == 0 {
		return Summary{}, pkgerrors.New(pkgerrors.CodePrecondition, "stage sequence is empty")
	}

	for _, stage := range stages {
		if stage.TasksCompleted > stage.TotalTasks {
			return Summary{}, pkgerrors.New(pkgerrors.CodePrecondition, "stage task counts are inconsistent").
				WithDetails(map[string]any{
					"stage_id":        stage.ID,
					"tasks_completed": stage.TasksCompleted,
					"total_tasks":     stage.TotalTasks,
				})
		}
	}

	completed := 0
	inProgressIndex := -1
	lastCompletedIndex := -1
	for i, stage := range stages {
		switch stage.Status {
		case enums.StageStatusCompleted:
			completed++
			lastCompletedIndex = i
		case enums.StageStatusInProgress:
			if inProgressIndex == -1 {
				inProgressIndex = i
			}
		}
	}

	fraction := 0.0
	if inProgressIndex >= 0 {
		fraction = float64(effectiveProgress(stages[inProgressIndex])) / 100
	}
	overall := int(math.Round((float64(completed) + fraction) / float64(len(stages)) * 100))
	overall = clampProgress(overall)

	currentIndex := inProgressIndex
	if currentIndex == -1 {
		currentIndex = lastCompletedIndex
	}

	return Summary{
		OverallProgress:   overall,
		CurrentStageIndex: currentIndex,
		CompletedStages:   completed,
		TotalStages:       len(stages),
	}, nil
}
