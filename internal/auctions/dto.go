package auctions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/autolane/autolane-backend/pkg/enums"
)

// Filters narrows the auction listing.
type Filters struct {
	Status       *enums.AuctionStatus
	AuctionHouse string
}

// VehicleSummary is the vehicle card rendered inside an auction listing.
type VehicleSummary struct {
	ID           uuid.UUID `json:"id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	MileageKM    int       `json:"mileageKm"`
	ImageURL     *string   `json:"imageUrl,omitempty"`
	Grade        *string   `json:"grade,omitempty"`
	Transmission *string   `json:"transmission,omitempty"`
}

// AuctionSummary is one auction row in the dashboard listing.
type AuctionSummary struct {
	ID            uuid.UUID           `json:"id"`
	LotNumber     string              `json:"lotNumber"`
	AuctionHouse  string              `json:"auctionHouse"`
	Status        enums.AuctionStatus `json:"status"`
	StartPriceJPY decimal.Decimal     `json:"startPriceJpy"`
	HighestBidJPY decimal.Decimal     `json:"highestBidJpy"`
	StartsAt      time.Time           `json:"startsAt"`
	EndsAt        time.Time           `json:"endsAt"`
	Vehicle       *VehicleSummary     `json:"vehicle,omitempty"`
}

// AuctionDetail extends the summary with sheet links.
type AuctionDetail struct {
	AuctionSummary
	SheetURL           *string `json:"sheetUrl,omitempty"`
	TranslatedSheetURL *string `json:"translatedSheetUrl,omitempty"`
}

// AuctionList is a cursor page of auction summaries.
type AuctionList struct {
	Auctions   []AuctionSummary `json:"auctions"`
	NextCursor string           `json:"nextCursor,omitempty"`
}
