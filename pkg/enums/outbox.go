package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateBid         OutboxAggregateType = "bid"
	AggregateShipment    OutboxAggregateType = "shipment"
	AggregateInspection  OutboxAggregateType = "inspection_request"
	AggregateTranslation OutboxAggregateType = "translation_request"
	AggregateDocument    OutboxAggregateType = "document"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateBid,
	AggregateShipment,
	AggregateInspection,
	AggregateTranslation,
	AggregateDocument,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventBidChanged            OutboxEventType = "bid_changed"
	EventBidCanceled           OutboxEventType = "bid_canceled"
	EventBidOutbid             OutboxEventType = "bid_outbid"
	EventAuctionWon            OutboxEventType = "auction_won"
	EventShipmentStageAdvanced OutboxEventType = "shipment_stage_advanced"
	EventInspectionRequested   OutboxEventType = "inspection_requested"
	EventInspectionCompleted   OutboxEventType = "inspection_completed"
	EventTranslationRequested  OutboxEventType = "translation_requested"
	EventTranslationCompleted  OutboxEventType = "translation_completed"
	EventDocumentUploaded      OutboxEventType = "document_uploaded"
)

var validOutboxEventTypes = []OutboxEventType{
	EventBidChanged,
	EventBidCanceled,
	EventBidOutbid,
	EventAuctionWon,
	EventShipmentStageAdvanced,
	EventInspectionRequested,
	EventInspectionCompleted,
	EventTranslationRequested,
	EventTranslationCompleted,
	EventDocumentUploaded,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
