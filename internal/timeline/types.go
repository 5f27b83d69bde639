// Package timeline models the shipment progress pipeline: ordered stages
// with embedded tasks, percent-complete aggregation and the policies that
// govern stage insertion and expansion. Every function here is pure; the
// shipments service owns loading and persisting the underlying rows.
package timeline

import (
	"time"

	"github.com/autolane/autolane-backend/pkg/enums"
)

// Document is a file requirement attached to a task. Purely descriptive.
type Document struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Uploaded bool   `json:"uploaded"`
}

// Task is a sub-item of a stage, visible when the stage is expanded.
type Task struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Status      enums.TaskStatus `json:"status"`
	Description string           `json:"description,omitempty"`
	Assignee    string           `json:"assignee,omitempty"`
	Note        string           `json:"note,omitempty"`
	DueAt       *time.Time       `json:"dueAt,omitempty"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
	Documents   []Document       `json:"documents,omitempty"`
}

// Stage is one phase of the shipment pipeline. ID is a stable caller-assigned
// key ("payment-documents"), never reused within one shipment.
type Stage struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	Status         enums.StageStatus `json:"status"`
	Progress       int               `json:"progress"`
	TasksCompleted int               `json:"tasksCompleted"`
	TotalTasks     int               `json:"totalTasks"`
	IsExpandable   bool              `json:"isExpandable"`
	CompletedAt    *time.Time        `json:"completedAt,omitempty"`
	EstimatedAt    *time.Time        `json:"estimatedAt,omitempty"`
	Tasks          []Task            `json:"tasks,omitempty"`
}

// Summary is the aggregate view computed from an ordered stage sequence.
type Summary struct {
	OverallProgress   int `json:"overallProgress"`
	CurrentStageIndex int `json:"currentStageIndex"`
	CompletedStages   int `json:"completedStages"`
	TotalStages       int `json:"totalStages"`
}

// ConflictWarning reports a stage whose caller-provided status disagrees with
// the status derived from its tasks. The caller's status wins; the warning is
// surfaced so the discrepancy can be logged.
type ConflictWarning struct {
	StageID        string            `json:"stageId"`
	DeclaredStatus enums.StageStatus `json:"declaredStatus"`
	DerivedStatus  enums.StageStatus `json:"derivedStatus"`
	TasksCompleted int               `json:"tasksCompleted"`
	TotalTasks     int               `json:"totalTasks"`
}
