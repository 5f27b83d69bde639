package translations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autolane/autolane-backend/pkg/db/models"
)

// Repository persists auction-sheet translation requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateRequest(ctx context.Context, request *models.TranslationRequest) (*models.TranslationRequest, error)
	FindPendingForAuction(ctx context.Context, auctionID, customerID uuid.UUID) (*models.TranslationRequest, error)
	FindAuction(ctx context.Context, auctionID uuid.UUID) (*models.Auction, error)
	ListDue(ctx context.Context, asOf time.Time, limit int) ([]models.TranslationRequest, error)
	UpdateRequest(ctx context.Context, requestID uuid.UUID, updates map[string]any) error
}
