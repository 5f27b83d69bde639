package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/autolane/autolane-backend/pkg/enums"
)

// BidChangedEvent is emitted when a customer raises or lowers an active bid.
// NewBidID points at the snapshot row that supersedes the original.
type BidChangedEvent struct {
	BidID      uuid.UUID       `json:"bid_id"`
	NewBidID   uuid.UUID       `json:"new_bid_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	AuctionID  uuid.UUID       `json:"auction_id"`
	OldAmount  decimal.Decimal `json:"old_amount_jpy"`
	NewAmount  decimal.Decimal `json:"new_amount_jpy"`
}

// BidCanceledEvent is emitted when a customer withdraws a live bid.
type BidCanceledEvent struct {
	BidID      uuid.UUID       `json:"bid_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	AuctionID  uuid.UUID       `json:"auction_id"`
	AmountJPY  decimal.Decimal `json:"amount_jpy"`
	CanceledAt time.Time       `json:"canceled_at"`
}

// BidOutbidEvent tells downstream systems that another buyer now holds the
// highest bid on the auction.
type BidOutbidEvent struct {
	BidID         uuid.UUID       `json:"bid_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	AuctionID     uuid.UUID       `json:"auction_id"`
	HighestBidJPY decimal.Decimal `json:"highest_bid_jpy"`
}

// AuctionWonEvent is emitted once when an auction closes with the customer's
// bid on top.
type AuctionWonEvent struct {
	BidID      uuid.UUID       `json:"bid_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	AuctionID  uuid.UUID       `json:"auction_id"`
	AmountJPY  decimal.Decimal `json:"amount_jpy"`
	WonAt      time.Time       `json:"won_at"`
}

// ShipmentStageAdvancedEvent reports timeline movement on a shipment.
type ShipmentStageAdvancedEvent struct {
	ShipmentID      uuid.UUID         `json:"shipment_id"`
	CustomerID      uuid.UUID         `json:"customer_id"`
	StageKey        string            `json:"stage_key"`
	StageStatus     enums.StageStatus `json:"stage_status"`
	OverallProgress int               `json:"overall_progress"`
}

// InspectionRequestedEvent is emitted when a customer orders a pre-export
// inspection.
type InspectionRequestedEvent struct {
	RequestID  uuid.UUID `json:"request_id"`
	ShipmentID uuid.UUID `json:"shipment_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Company    string    `json:"company"`
}

// InspectionCompletedEvent is emitted when the inspection result is ready.
type InspectionCompletedEvent struct {
	RequestID   uuid.UUID `json:"request_id"`
	ShipmentID  uuid.UUID `json:"shipment_id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	Company     string    `json:"company"`
	CompletedAt time.Time `json:"completed_at"`
}

// TranslationRequestedEvent is emitted when a customer orders an
// auction-sheet translation.
type TranslationRequestedEvent struct {
	RequestID  uuid.UUID `json:"request_id"`
	AuctionID  uuid.UUID `json:"auction_id"`
	CustomerID uuid.UUID `json:"customer_id"`
}

// TranslationCompletedEvent carries the translated sheet location.
type TranslationCompletedEvent struct {
	RequestID     uuid.UUID `json:"request_id"`
	AuctionID     uuid.UUID `json:"auction_id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	TranslatedURL string    `json:"translated_url,omitempty"`
	CompletedAt   time.Time `json:"completed_at"`
}

// DocumentUploadedEvent is emitted when a required document lands on a
// stage task.
type DocumentUploadedEvent struct {
	DocumentID uuid.UUID `json:"document_id"`
	TaskID     uuid.UUID `json:"task_id"`
	ShipmentID uuid.UUID `json:"shipment_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`
}
