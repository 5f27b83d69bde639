package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/autolane/autolane-backend/pkg/enums"
)

// ShipmentStage is one phase of a shipment's timeline. StageKey is the
// stable caller-facing identifier ("payment-documents"); Position orders
// the sequence.
type ShipmentStage struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShipmentID     uuid.UUID         `gorm:"column:shipment_id;type:uuid;not null"`
	StageKey       string            `gorm:"column:stage_key;type:text;not null"`
	Title          string            `gorm:"column:title;type:text;not null"`
	Description    string            `gorm:"column:description;type:text;not null;default:''"`
	Status         enums.StageStatus `gorm:"column:status;type:stage_status;not null;default:'pending'"`
	Progress       int               `gorm:"column:progress;not null;default:0"`
	TasksCompleted int               `gorm:"column:tasks_completed;not null;default:0"`
	TotalTasks     int               `gorm:"column:total_tasks;not null;default:0"`
	Position       int               `gorm:"column:position;not null"`
	IsExpandable   bool              `gorm:"column:is_expandable;not null;default:false"`
	CompletedAt    *time.Time        `gorm:"column:completed_at"`
	EstimatedAt    *time.Time        `gorm:"column:estimated_at"`
	Tasks          []StageTask       `gorm:"foreignKey:StageID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
