package documents

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autolane/autolane-backend/pkg/db/models"
)

// Repository walks the document → task → stage → shipment chain.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindDocument(ctx context.Context, documentID uuid.UUID) (*models.Document, error)
	FindTask(ctx context.Context, taskID uuid.UUID) (*models.StageTask, error)
	FindStage(ctx context.Context, stageID uuid.UUID) (*models.ShipmentStage, error)
	FindShipment(ctx context.Context, shipmentID uuid.UUID) (*models.Shipment, error)
	UpdateDocument(ctx context.Context, documentID uuid.UUID, updates map[string]any) error
	UpdateTask(ctx context.Context, taskID uuid.UUID, updates map[string]any) error
	UpdateStage(ctx context.Context, stageID uuid.UUID, updates map[string]any) error
}
