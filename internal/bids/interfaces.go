package bids

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autolane/autolane-backend/pkg/db/models"
	"github.com/autolane/autolane-backend/pkg/pagination"
)

// Repository defines persistence operations for bid snapshots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBid(ctx context.Context, bid *models.Bid) (*models.Bid, error)
	FindBid(ctx context.Context, bidID uuid.UUID) (*models.Bid, error)
	FindAuction(ctx context.Context, auctionID uuid.UUID) (*models.Auction, error)
	ListCustomerBids(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters Filters) ([]models.Bid, error)
	UpdateBid(ctx context.Context, bidID uuid.UUID, updates map[string]any) error
	UpdateAuction(ctx context.Context, auctionID uuid.UUID, updates map[string]any) error
}
