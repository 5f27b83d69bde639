package enums

import "fmt"

// BidPaymentStatus tracks payment progress for a won bid.
type BidPaymentStatus string

const (
	BidPaymentStatusPending    BidPaymentStatus = "pending"
	BidPaymentStatusProcessing BidPaymentStatus = "processing"
	BidPaymentStatusCompleted  BidPaymentStatus = "completed"
)

var validBidPaymentStatuses = []BidPaymentStatus{
	BidPaymentStatusPending,
	BidPaymentStatusProcessing,
	BidPaymentStatusCompleted,
}

// String implements fmt.Stringer.
func (b BidPaymentStatus) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BidPaymentStatus.
func (b BidPaymentStatus) IsValid() bool {
	for _, candidate := range validBidPaymentStatuses {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBidPaymentStatus converts raw input into a BidPaymentStatus.
func ParseBidPaymentStatus(value string) (BidPaymentStatus, error) {
	for _, candidate := range validBidPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bid payment status %q", value)
}
