package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/autolane/autolane-backend/pkg/enums"
)

// StageTask is a sub-item of a shipment stage, shown when the stage is
// expanded.
type StageTask struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StageID     uuid.UUID        `gorm:"column:stage_id;type:uuid;not null"`
	TaskKey     string           `gorm:"column:task_key;type:text;not null"`
	Title       string           `gorm:"column:title;type:text;not null"`
	Status      enums.TaskStatus `gorm:"column:status;type:task_status;not null;default:'pending'"`
	Description *string          `gorm:"column:description;type:text"`
	Assignee    *string          `gorm:"column:assignee;type:text"`
	Note        *string          `gorm:"column:note;type:text"`
	Position    int              `gorm:"column:position;not null"`
	DueAt       *time.Time       `gorm:"column:due_at"`
	CompletedAt *time.Time       `gorm:"column:completed_at"`
	Documents   []Document       `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
