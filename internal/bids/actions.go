package bids

import (
	"time"

	"github.com/autolane/autolane-backend/pkg/config"
	"github.com/autolane/autolane-backend/pkg/enums"
)

// Policy is the pure bid action table: which actions a customer may take on
// a bid in a given state, and when those actions are flagged urgent.
type Policy struct {
	urgencyWindow time.Duration
}

// NewPolicy builds the policy from config. A zero urgency window falls back
// to the 3 hour default.
func NewPolicy(cfg config.BidPolicyConfig) Policy {
	window := cfg.UrgencyWindow
	if window <= 0 {
		window = 3 * time.Hour
	}
	return Policy{urgencyWindow: window}
}

// AllowedActions returns the actions available for a bid's status and
// payment status:
//
//	active, outbid            -> change_bid, cancel_bid
//	won, payment incomplete   -> complete_payment
//	won, payment completed    -> view_shipment
//	lost                      -> none
func (p Policy) AllowedActions(status enums.BidStatus, payment *enums.BidPaymentStatus) []enums.BidAction {
	switch status {
	case enums.BidStatusActive, enums.BidStatusOutbid:
		return []enums.BidAction{enums.BidActionChangeBid, enums.BidActionCancelBid}
	case enums.BidStatusWon:
		if paymentCompleted(payment) {
			return []enums.BidAction{enums.BidActionViewShipment}
		}
		return []enums.BidAction{enums.BidActionCompletePayment}
	default:
		return nil
	}
}

// IsUrgent reports whether performing action now should warn the customer
// that staff may not process it before the auction closes. Only bid
// mutations are ever urgent.
func (p Policy) IsUrgent(action enums.BidAction, auctionEndsAt time.Time, now time.Time) bool {
	if action != enums.BidActionChangeBid && action != enums.BidActionCancelBid {
		return false
	}
	remaining := auctionEndsAt.Sub(now)
	return remaining <= p.urgencyWindow
}

// CanTrackShipment gates the shipment timeline: only a won bid with
// completed payment reaches it.
func CanTrackShipment(status enums.BidStatus, payment *enums.BidPaymentStatus) bool {
	return status == enums.BidStatusWon && paymentCompleted(payment)
}

func paymentCompleted(payment *enums.BidPaymentStatus) bool {
	return payment != nil && *payment == enums.BidPaymentStatusCompleted
}
