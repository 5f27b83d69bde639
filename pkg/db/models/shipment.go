package models

import (
	"time"

	"github.com/google/uuid"
)

// Shipment tracks delivery of a won vehicle from auction house to the
// customer's destination port.
type Shipment struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BidID           uuid.UUID       `gorm:"column:bid_id;type:uuid;not null"`
	CustomerID      uuid.UUID       `gorm:"column:customer_id;type:uuid;not null"`
	VehicleID       uuid.UUID       `gorm:"column:vehicle_id;type:uuid;not null"`
	Vehicle         *Vehicle        `gorm:"foreignKey:VehicleID"`
	DestinationPort string          `gorm:"column:destination_port;type:text;not null"`
	VesselName      *string         `gorm:"column:vessel_name;type:text"`
	Stages          []ShipmentStage `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
