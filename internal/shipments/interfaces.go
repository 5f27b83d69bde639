package shipments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autolane/autolane-backend/pkg/db/models"
)

// Repository loads shipments with their full timeline graph and the stage
// rows the service mutates when a stage advances.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindShipment(ctx context.Context, shipmentID uuid.UUID) (*models.Shipment, error)
	FindShipmentByBid(ctx context.Context, bidID uuid.UUID) (*models.Shipment, error)
	FindBid(ctx context.Context, bidID uuid.UUID) (*models.Bid, error)
	FindCompletedInspection(ctx context.Context, shipmentID uuid.UUID) (*models.InspectionRequest, error)
	FindStageByKey(ctx context.Context, shipmentID uuid.UUID, stageKey string) (*models.ShipmentStage, error)
	UpdateStage(ctx context.Context, stageID uuid.UUID, updates map[string]any) error
}
