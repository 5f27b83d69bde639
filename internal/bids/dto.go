package bids

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/autolane/autolane-backend/pkg/enums"
)

// Filters describe the inputs supported by the customer bid list.
type Filters struct {
	Status *enums.BidStatus
	Live   bool // only active/outbid, uncanceled snapshots
}

// VehicleSummary is the lot vehicle shown alongside a bid.
type VehicleSummary struct {
	ID           uuid.UUID `json:"id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	MileageKM    int       `json:"mileage_km"`
	ImageURL     *string   `json:"image_url,omitempty"`
	Grade        *string   `json:"grade,omitempty"`
	Transmission *string   `json:"transmission,omitempty"`
}

// BidSummary is the dashboard read model for one bid: the snapshot itself,
// the auction context and the action table result.
type BidSummary struct {
	ID               uuid.UUID               `json:"id"`
	AuctionID        uuid.UUID               `json:"auction_id"`
	Status           enums.BidStatus         `json:"status"`
	AmountJPY        decimal.Decimal         `json:"amount_jpy"`
	HighestBidJPY    decimal.Decimal         `json:"highest_bid_jpy"`
	PaymentStatus    *enums.BidPaymentStatus `json:"payment_status,omitempty"`
	AuctionEndsAt    time.Time               `json:"auction_ends_at"`
	PlacedAt         time.Time               `json:"placed_at"`
	CanceledAt       *time.Time              `json:"canceled_at,omitempty"`
	SupersededBy     *uuid.UUID              `json:"superseded_by,omitempty"`
	AllowedActions   []enums.BidAction       `json:"allowed_actions"`
	Urgent           bool                    `json:"urgent"`
	CanTrackShipment bool                    `json:"can_track_shipment"`
	Vehicle          *VehicleSummary         `json:"vehicle,omitempty"`
}

// BidList wraps the paginated bids plus the next page cursor.
type BidList struct {
	Bids       []BidSummary `json:"bids"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// ChangeBidInput carries a change-of-bid request.
type ChangeBidInput struct {
	BidID      uuid.UUID
	CustomerID uuid.UUID
	AmountJPY  decimal.Decimal
}

// ChangeBidResult reports the snapshot that superseded the original bid.
type ChangeBidResult struct {
	Bid    BidSummary `json:"bid"`
	Urgent bool       `json:"urgent"`
}

// CancelBidInput carries a bid withdrawal request.
type CancelBidInput struct {
	BidID      uuid.UUID
	CustomerID uuid.UUID
}

// CancelBidResult confirms the withdrawal.
type CancelBidResult struct {
	BidID      uuid.UUID `json:"bid_id"`
	CanceledAt time.Time `json:"canceled_at"`
	Urgent     bool      `json:"urgent"`
}
