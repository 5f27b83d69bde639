package enums

import "fmt"

// BidAction enumerates the actions a customer may take on a bid.
type BidAction string

const (
	BidActionChangeBid       BidAction = "change_bid"
	BidActionCancelBid       BidAction = "cancel_bid"
	BidActionCompletePayment BidAction = "complete_payment"
	BidActionViewShipment    BidAction = "view_shipment"
)

var validBidActions = []BidAction{
	BidActionChangeBid,
	BidActionCancelBid,
	BidActionCompletePayment,
	BidActionViewShipment,
}

// String implements fmt.Stringer.
func (b BidAction) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BidAction.
func (b BidAction) IsValid() bool {
	for _, candidate := range validBidActions {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBidAction converts raw input into a BidAction.
func ParseBidAction(value string) (BidAction, error) {
	for _, candidate := range validBidActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bid action %q", value)
}
