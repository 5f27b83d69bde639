package enums

import "fmt"

// AuctionStatus tracks whether an auction lot is open for bidding.
type AuctionStatus string

const (
	AuctionStatusUpcoming AuctionStatus = "upcoming"
	AuctionStatusLive     AuctionStatus = "live"
	AuctionStatusEnded    AuctionStatus = "ended"
)

var validAuctionStatuses = []AuctionStatus{
	AuctionStatusUpcoming,
	AuctionStatusLive,
	AuctionStatusEnded,
}

// String implements fmt.Stringer.
func (a AuctionStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AuctionStatus.
func (a AuctionStatus) IsValid() bool {
	for _, candidate := range validAuctionStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAuctionStatus converts raw input into an AuctionStatus.
func ParseAuctionStatus(value string) (AuctionStatus, error) {
	for _, candidate := range validAuctionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid auction status %q", value)
}
