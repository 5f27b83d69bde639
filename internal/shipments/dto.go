package shipments

import (
	"time"

	"github.com/google/uuid"

	"github.com/autolane/autolane-backend/internal/timeline"
)

// TimelineView is the full dashboard payload for one shipment.
type TimelineView struct {
	ShipmentID      uuid.UUID        `json:"shipmentId"`
	DestinationPort string           `json:"destinationPort"`
	VesselName      *string          `json:"vesselName,omitempty"`
	Vehicle         *VehicleInfo     `json:"vehicle,omitempty"`
	Stages          []timeline.Stage `json:"stages"`
	Summary         timeline.Summary `json:"summary"`
}

// VehicleInfo is the vehicle header shown above the timeline.
type VehicleInfo struct {
	ID       uuid.UUID `json:"id"`
	Make     string    `json:"make"`
	Model    string    `json:"model"`
	Year     int       `json:"year"`
	ImageURL *string   `json:"imageUrl,omitempty"`
	Chassis  *string   `json:"chassis,omitempty"`
}

// AdvanceStageInput marks a stage completed and moves the timeline forward.
type AdvanceStageInput struct {
	ShipmentID uuid.UUID
	StageKey   string
}

// AdvanceStageResult reports the new timeline position after an advance.
type AdvanceStageResult struct {
	ShipmentID      uuid.UUID `json:"shipmentId"`
	StageKey        string    `json:"stageKey"`
	CompletedAt     time.Time `json:"completedAt"`
	OverallProgress int       `json:"overallProgress"`
	NextStageKey    *string   `json:"nextStageKey,omitempty"`
}
