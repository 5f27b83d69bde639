package enums

import "fmt"

// BidStatus tracks the lifecycle of a customer's auction bid.
type BidStatus string

const (
	BidStatusActive BidStatus = "active"
	BidStatusOutbid BidStatus = "outbid"
	BidStatusWon    BidStatus = "won"
	BidStatusLost   BidStatus = "lost"
)

var validBidStatuses = []BidStatus{
	BidStatusActive,
	BidStatusOutbid,
	BidStatusWon,
	BidStatusLost,
}

// String implements fmt.Stringer.
func (b BidStatus) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BidStatus.
func (b BidStatus) IsValid() bool {
	for _, candidate := range validBidStatuses {
		if candidate == b {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the bid can no longer change state.
func (b BidStatus) IsTerminal() bool {
	return b == BidStatusWon || b == BidStatusLost
}

// IsLive reports whether the bid is still competing in a running auction.
func (b BidStatus) IsLive() bool {
	return b == BidStatusActive || b == BidStatusOutbid
}

// ParseBidStatus converts raw input into a BidStatus.
func ParseBidStatus(value string) (BidStatus, error) {
	for _, candidate := range validBidStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bid status %q", value)
}
