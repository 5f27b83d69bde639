package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/autolane/autolane-backend/pkg/enums"
)

// Bid is a customer's offer on an auction lot. Rows are snapshots: a change
// of bid supersedes the previous row rather than mutating it in place.
type Bid struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID    uuid.UUID               `gorm:"column:customer_id;type:uuid;not null"`
	AuctionID     uuid.UUID               `gorm:"column:auction_id;type:uuid;not null"`
	Auction       *Auction                `gorm:"foreignKey:AuctionID"`
	Status        enums.BidStatus         `gorm:"column:status;type:bid_status;not null;default:'active'"`
	AmountJPY     decimal.Decimal         `gorm:"column:amount_jpy;type:numeric(14,0);not null"`
	PaymentStatus *enums.BidPaymentStatus `gorm:"column:payment_status;type:bid_payment_status"`
	SupersededBy  *uuid.UUID              `gorm:"column:superseded_by;type:uuid"`
	PlacedAt      time.Time               `gorm:"column:placed_at;not null"`
	CanceledAt    *time.Time              `gorm:"column:canceled_at"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
