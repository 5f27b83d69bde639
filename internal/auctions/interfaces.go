package auctions

import (
	"context"

	"github.com/google/uuid"

	"github.com/autolane/autolane-backend/pkg/db/models"
	"github.com/autolane/autolane-backend/pkg/pagination"
)

// Repository reads auction lots and their vehicles.
type Repository interface {
	ListAuctions(ctx context.Context, params pagination.Params, filters Filters) ([]models.Auction, error)
	FindAuction(ctx context.Context, auctionID uuid.UUID) (*models.Auction, error)
	FindCompletedTranslation(ctx context.Context, auctionID uuid.UUID) (*models.TranslationRequest, error)
}
