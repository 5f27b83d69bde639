package bids

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

// NewRepository builds a bids repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateBid(ctx context.Context, bid *models.Bid) (*models.Bid, error) {
	if err := r.db.WithContext(ctx).Create(bid).Error; err != nil {
		return nil, err
	}
	return bid, nil
}

func (r *repository) FindBid(ctx context.Context, bidID uuid.UUID) (*models.Bid, error) {
	var bid models.Bid
	err := r.db.WithContext(ctx).
		Preload("Auction").
		Preload("Auction.Vehicle").
		Where("id = ?", bidID).
		First(&bid).Error
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

func (r *repository) FindAuction(ctx context.Context, auctionID uuid.UUID) (*models.Auction, error) {
	var auction models.Auction
	err := r.db.WithContext(ctx).
		Where("id = ?", auctionID).
		First(&auction).Error
	if err != nil {
		return nil, err
	}
	return &auction, nil
}

func (r *repository) ListCustomerBids(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters Filters) ([]models.Bid, error) {
	query := r.db.WithContext(ctx).
		Preload("Auction").
		Preload("Auction.Vehicle").
		Where("customer_id = ?", customerID).
		Where("superseded_by IS NULL")

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Live {
		query = query.
			Where("status IN ?", []enums.BidStatus{enums.BidStatusActive, enums.BidStatusOutbid}).
			Where("canceled_at IS NULL")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(placed_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Bid
	err = query.
		Order("placed_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	return rows, err
}

func (r *repository) UpdateBid(ctx context.Context, bidID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Bid{}).
		Where("id = ?", bidID).
		Updates(updates).Error
}

func (r *repository) UpdateAuction(ctx context.Context, auctionID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Auction{}).
		Where("id = ?", auctionID).
		Updates(updates).Error
}
