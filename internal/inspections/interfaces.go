package inspections

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autolane/autolane-backend/pkg/db/models"
)

// Repository persists inspection requests and finds those due for
// completion by the worker.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateRequest(ctx context.Context, request *models.InspectionRequest) (*models.InspectionRequest, error)
	FindRequest(ctx context.Context, requestID uuid.UUID) (*models.InspectionRequest, error)
	FindPendingForShipment(ctx context.Context, shipmentID uuid.UUID) (*models.InspectionRequest, error)
	FindShipment(ctx context.Context, shipmentID uuid.UUID) (*models.Shipment, error)
	ListDue(ctx context.Context, asOf time.Time, limit int) ([]models.InspectionRequest, error)
	UpdateRequest(ctx context.Context, requestID uuid.UUID, updates map[string]any) error
}
