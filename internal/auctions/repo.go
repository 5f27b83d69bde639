package auctions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autolane/autolane-backend/pkg/db/models"
	"github.com/autolane/autolane-backend/pkg/enums"
	"github.com/autolane/autolane-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an auctions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListAuctions(ctx context.Context, params pagination.Params, filters Filters) ([]models.Auction, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Auction{}).
		Preload("Vehicle")

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.AuctionHouse != "" {
		query = query.Where("auction_house = ?", filters.AuctionHouse)
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, err
		}
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var auctions []models.Auction
	err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&auctions).Error
	if err != nil {
		return nil, err
	}
	return auctions, nil
}

func (r *repository) FindAuction(ctx context.Context, auctionID uuid.UUID) (*models.Auction, error) {
	var auction models.Auction
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Where("id = ?", auctionID).
		First(&auction).Error
	if err != nil {
		return nil, err
	}
	return &auction, nil
}

func (r *repository) FindCompletedTranslation(ctx context.Context, auctionID uuid.UUID) (*models.TranslationRequest, error) {
	var request models.TranslationRequest
	err := r.db.WithContext(ctx).
		Where("auction_id = ? AND status = ?", auctionID, enums.RequestStatusCompleted).
		Order("completed_at DESC").
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}
