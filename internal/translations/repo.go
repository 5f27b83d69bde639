package translations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autolane/autolane-backend/pkg/db/models"
	"github.com/autolane/autolane-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a translations repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateRequest(ctx context.Context, request *models.TranslationRequest) (*models.TranslationRequest, error) {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func (r *repository) FindPendingForAuction(ctx context.Context, auctionID, customerID uuid.UUID) (*models.TranslationRequest, error) {
	var request models.TranslationRequest
	err := r.db.WithContext(ctx).
		Where("auction_id = ? AND customer_id = ? AND status = ?", auctionID, customerID, enums.RequestStatusPending).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
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

func (r *repository) ListDue(ctx context.Context, asOf time.Time, limit int) ([]models.TranslationRequest, error) {
	var requests []models.TranslationRequest
	query := r.db.WithContext(ctx).
		Where("status = ? AND ready_at <= ?", enums.RequestStatusPending, asOf).
		Order("ready_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *repository) UpdateRequest(ctx context.Context, requestID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.TranslationRequest{}).
		Where("id = ?", requestID).
		Updates(updates).Error
}
