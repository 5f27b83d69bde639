package inspections

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

// NewRepository builds an inspections repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateRequest(ctx context.Context, request *models.InspectionRequest) (*models.InspectionRequest, error) {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func (r *repository) FindRequest(ctx context.Context, requestID uuid.UUID) (*models.InspectionRequest, error) {
	var request models.InspectionRequest
	err := r.db.WithContext(ctx).
		Where("id = ?", requestID).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) FindPendingForShipment(ctx context.Context, shipmentID uuid.UUID) (*models.InspectionRequest, error) {
	var request models.InspectionRequest
	err := r.db.WithContext(ctx).
		Where("shipment_id = ? AND status = ?", shipmentID, enums.RequestStatusPending).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) FindShipment(ctx context.Context, shipmentID uuid.UUID) (*models.Shipment, error) {
	var shipment models.Shipment
	err := r.db.WithContext(ctx).
		Where("id = ?", shipmentID).
		First(&shipment).Error
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

func (r *repository) ListDue(ctx context.Context, asOf time.Time, limit int) ([]models.InspectionRequest, error) {
	var requests []models.InspectionRequest
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
		Model(&models.InspectionRequest{}).
		Where("id = ?", requestID).
		Updates(updates).Error
}
