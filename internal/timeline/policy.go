package timeline

import (
	"github.com/autolane/autolane-backend/pkg/enums"
	pkgerrors "github.com/autolane/autolane-backend/pkg/errors"
)

// CanExpand reports whether a stage can be expanded by the caller: it must
// be flagged expandable and actually carry tasks.
func CanExpand(stage Stage) bool {
	return stage.IsExpandable && len(stage.Tasks) > 0
}

// Toggle flips membership of id in the expanded-stage set, returning a new
// set. Double-toggling returns a set equal to the input.
func Toggle(expanded map[string]struct{}, id string) map[string]struct{} {
	next := make(map[string]struct{}, len(expanded)+1)
	for key := range expanded {
		next[key] = struct{}{}
	}
	if _, ok := next[id]; ok {
		delete(next, id)
	} else {
		next[id] = struct{}{}
	}
	return next
}

// InsertAfter returns a new sequence with stage spliced in immediately after
// the stage whose ID equals anchorID.
func InsertAfter(stages []Stage, anchorID string, stage Stage) ([]Stage, error) {
	anchor := indexOf(stages, anchorID)
	if anchor == -1 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "anchor stage not found").
			WithDetails(map[string]any{"anchor_id": anchorID})
	}
	next := make([]Stage, 0, len(stages)+1)
	next = append(next, stages[:anchor+1]...)
	next = append(next, stage)
	next = append(next, stages[anchor+1:]...)
	return next, nil
}

// RemoveByID returns a new sequence without the stage whose ID equals id.
// It is the inverse of InsertAfter.
func RemoveByID(stages []Stage, id string) ([]Stage, error) {
	target := indexOf(stages, id)
	if target == -1 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stage not found").
			WithDetails(map[string]any{"stage_id": id})
	}
	next := make([]Stage, 0, len(stages)-1)
	next = append(next, stages[:target]...)
	next = append(next, stages[target+1:]...)
	return next, nil
}

func indexOf(stages []Stage, id string) int {
	for i, stage := range stages {
		if stage.ID == id {
			return i
		}
	}
	return -1
}

// DeriveStatus suggests a stage status from its tasks: completed when every
// task is done, in_progress when some are, pending otherwise. Advisory only;
// callers may force a different status (work started with no finished task).
func DeriveStatus(tasks []Task) (enums.StageStatus, int) {
	done := 0
	for _, task := range tasks {
		if task.Status == enums.TaskStatusCompleted {
			done++
		}
	}
	total := len(tasks)
	switch {
	case total > 0 && done == total:
		return enums.StageStatusCompleted, done
	case done > 0:
		return enums.StageStatusInProgress, done
	default:
		return enums.StageStatusPending, done
	}
}

// Reconcile compares each stage's declared status against its task-derived
// status. The declared status is kept; disagreements come back as warnings.
// Stages without tasks produce no warning.
func Reconcile(stages []Stage) []ConflictWarning {
	var warnings []ConflictWarning
	for _, stage := range stages {
		if len(stage.Tasks) == 0 {
			continue
		}
		derived, done := DeriveStatus(stage.Tasks)
		if derived == stage.Status {
			continue
		}
		warnings = append(warnings, ConflictWarning{
			StageID:        stage.ID,
			DeclaredStatus: stage.Status,
			DerivedStatus:  derived,
			TasksCompleted: done,
			TotalTasks:     len(stage.Tasks),
		})
	}
	return warnings
}
