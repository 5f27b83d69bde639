package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/autolane/autolane-backend/pkg/enums"
)

// TranslationRequest asks for an auction-sheet translation. Completion is
// performed by the worker once ReadyAt passes.
type TranslationRequest struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AuctionID     uuid.UUID           `gorm:"column:auction_id;type:uuid;not null"`
	CustomerID    uuid.UUID           `gorm:"column:customer_id;type:uuid;not null"`
	Status        enums.RequestStatus `gorm:"column:status;type:request_status;not null;default:'pending'"`
	TranslatedURL *string             `gorm:"column:translated_url;type:text"`
	RequestedAt   time.Time           `gorm:"column:requested_at;not null"`
	ReadyAt       time.Time           `gorm:"column:ready_at;not null"`
	CompletedAt   *time.Time          `gorm:"column:completed_at"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
