package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a dashboard account. Identity is asserted by the caller;
// there is no credential storage here.
type Customer struct {
	ID                    uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email                 string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	FullName              string    `gorm:"column:full_name;type:text;not null"`
	Country               string    `gorm:"column:country;type:text;not null"`
	PreferredPort         *string   `gorm:"column:preferred_port;type:text"`
	Locale                string    `gorm:"column:locale;type:text;not null;default:'en'"`
	NotifyBidUpdates      bool      `gorm:"column:notify_bid_updates;not null;default:true"`
	NotifyShipmentUpdates bool      `gorm:"column:notify_shipment_updates;not null;default:true"`
	CreatedAt             time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
