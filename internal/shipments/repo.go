package shipments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autolane/autolane-backend/pkg/db/models"
	"github.com/autolane/autolane-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a shipments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindShipment(ctx context.Context, shipmentID uuid.UUID) (*models.Shipment, error) {
	var shipment models.Shipment
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("Stages").
		Preload("Stages.Tasks").
		Preload("Stages.Tasks.Documents").
		Where("id = ?", shipmentID).
		First(&shipment).Error
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

func (r *repository) FindShipmentByBid(ctx context.Context, bidID uuid.UUID) (*models.Shipment, error) {
	var shipment models.Shipment
	err := r.db.WithContext(ctx).
		Where("bid_id = ?", bidID).
		First(&shipment).Error
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

func (r *repository) FindBid(ctx context.Context, bidID uuid.UUID) (*models.Bid, error) {
	var bid models.Bid
	err := r.db.WithContext(ctx).
		Where("id = ?", bidID).
		First(&bid).Error
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

func (r *repository) FindCompletedInspection(ctx context.Context, shipmentID uuid.UUID) (*models.InspectionRequest, error) {
	var request models.InspectionRequest
	err := r.db.WithContext(ctx).
		Where("shipment_id = ? AND status = ?", shipmentID, enums.RequestStatusCompleted).
		Order("completed_at DESC").
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) FindStageByKey(ctx context.Context, shipmentID uuid.UUID, stageKey string) (*models.ShipmentStage, error) {
	var stage models.ShipmentStage
	err := r.db.WithContext(ctx).
		Where("shipment_id = ? AND stage_key = ?", shipmentID, stageKey).
		First(&stage).Error
	if err != nil {
		return nil, err
	}
	return &stage, nil
}

func (r *repository) UpdateStage(ctx context.Context, stageID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.ShipmentStage{}).
		Where("id = ?", stageID).
		Updates(updates).Error
}
