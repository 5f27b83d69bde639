package documents

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autolane/autolane-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a documents repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindDocument(ctx context.Context, documentID uuid.UUID) (*models.Document, error) {
	var document models.Document
	err := r.db.WithContext(ctx).
		Where("id = ?", documentID).
		First(&document).Error
	if err != nil {
		return nil, err
	}
	return &document, nil
}

func (r *repository) FindTask(ctx context.Context, taskID uuid.UUID) (*models.StageTask, error) {
	var task models.StageTask
	err := r.db.WithContext(ctx).
		Preload("Documents").
		Where("id = ?", taskID).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *repository) FindStage(ctx context.Context, stageID uuid.UUID) (*models.ShipmentStage, error) {
	var stage models.ShipmentStage
	err := r.db.WithContext(ctx).
		Where("id = ?", stageID).
		First(&stage).Error
	if err != nil {
		return nil, err
	}
	return &stage, nil
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

func (r *repository) UpdateDocument(ctx context.Context, documentID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("id = ?", documentID).
		Updates(updates).Error
}

func (r *repository) UpdateTask(ctx context.Context, taskID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.StageTask{}).
		Where("id = ?", taskID).
		Updates(updates).Error
}

func (r *repository) UpdateStage(ctx context.Context, stageID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.ShipmentStage{}).
		Where("id = ?", stageID).
		Updates(updates).Error
}
