package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/autolane/autolane-backend/pkg/enums"
)

// InspectionRequest asks an external company for a pre-export inspection.
// ReadyAt is the earliest time the worker may complete it; the interval
// stands in for the external company's turnaround.
type InspectionRequest struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShipmentID  uuid.UUID           `gorm:"column:shipment_id;type:uuid;not null"`
	CustomerID  uuid.UUID           `gorm:"column:customer_id;type:uuid;not null"`
	Company     string              `gorm:"column:company;type:text;not null"`
	Status      enums.RequestStatus `gorm:"column:status;type:request_status;not null;default:'pending'"`
	RequestedAt time.Time           `gorm:"column:requested_at;not null"`
	ReadyAt     time.Time           `gorm:"column:ready_at;not null"`
	CompletedAt *time.Time          `gorm:"column:completed_at"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
