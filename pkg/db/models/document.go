package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is a file requirement attached to a stage task (invoice,
// export certificate, bill of lading).
type Document struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TaskID     uuid.UUID  `gorm:"column:task_id;type:uuid;not null"`
	Name       string     `gorm:"column:name;type:text;not null"`
	Type       string     `gorm:"column:type;type:text;not null"`
	Required   bool       `gorm:"column:required;not null;default:false"`
	Uploaded   bool       `gorm:"column:uploaded;not null;default:false"`
	UploadedAt *time.Time `gorm:"column:uploaded_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
