package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/autolane/autolane-backend/pkg/enums"
)

// Auction is one lot offered at an auction house.
type Auction struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LotNumber     string              `gorm:"column:lot_number;type:text;not null"`
	AuctionHouse  string              `gorm:"column:auction_house;type:text;not null"`
	VehicleID     uuid.UUID           `gorm:"column:vehicle_id;type:uuid;not null"`
	Vehicle       *Vehicle            `gorm:"foreignKey:VehicleID"`
	Status        enums.AuctionStatus `gorm:"column:status;type:auction_status;not null;default:'upcoming'"`
	StartPriceJPY decimal.Decimal     `gorm:"column:start_price_jpy;type:numeric(14,0);not null"`
	HighestBidJPY decimal.Decimal     `gorm:"column:highest_bid_jpy;type:numeric(14,0);not null;default:0"`
	SheetURL      *string             `gorm:"column:sheet_url;type:text"`
	StartsAt      time.Time           `gorm:"column:starts_at;not null"`
	EndsAt        time.Time           `gorm:"column:ends_at;not null"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
