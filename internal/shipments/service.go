package shipments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autolane/autolane-backend/internal/bids"
	"github.com/autolane/autolane-backend/internal/timeline"
	"github.com/autolane/autolane-backend/pkg/db/models"
	"github.com/autolane/autolane-backend/pkg/enums"
	pkgerrors "github.com/autolane/autolane-backend/pkg/errors"
	"github.com/autolane/autolane-backend/pkg/logger"
	"github.com/autolane/autolane-backend/pkg/outbox"
	"github.com/autolane/autolane-backend/pkg/outbox/payloads"
)

// ExportInspectionStageKey identifies the optional stage spliced into the
// timeline once a pre-export inspection has completed.
const ExportInspectionStageKey = "export-inspection"

// paymentDocumentsStageKey anchors the export-inspection splice.
const paymentDocumentsStageKey = "payment-documents"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes shipment timeline reads and the stage-advance mutation
// used by the background worker.
type Service interface {
	GetTimeline(ctx context.Context, customerID, shipmentID uuid.UUID) (*TimelineView, error)
	AdvanceStage(ctx context.Context, input AdvanceStageInput) (*AdvanceStageResult, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	logg   *logger.Logger
	now    func() time.Time
}

// NewService builds a shipments service with the required dependencies.
func NewService(repo Repository, tx txRunner, publisher outboxPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shipments repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		outbox: publisher,
		logg:   logg,
		now:    time.Now,
	}, nil
}

func (s *service) GetTimeline(ctx context.Context, customerID, shipmentID uuid.UUID) (*TimelineView, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if shipmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipment id required")
	}

	shipment, err := s.loadOwnedShipment(ctx, customerID, shipmentID)
	if err != nil {
		return nil, err
	}
	if err := s.requireTrackable(ctx, shipment); err != nil {
		return nil, err
	}

	stages := mapStages(shipment.Stages)
	stages, err = s.spliceExportInspection(ctx, shipment.ID, stages)
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithShipmentID(ctx, shipment.ID.String())
	for _, warning := range timeline.Reconcile(stages) {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"stage_id":        warning.StageID,
			"declared_status": warning.DeclaredStatus,
			"derived_status":  warning.DerivedStatus,
			"tasks_completed": warning.TasksCompleted,
			"total_tasks":     warning.TotalTasks,
		}), "stage status disagrees with its tasks")
	}

	summary, err := timeline.Summarize(stages)
	if err != nil {
		return nil, err
	}

	view := &TimelineView{
		ShipmentID:      shipment.ID,
		DestinationPort: shipment.DestinationPort,
		VesselName:      shipment.VesselName,
		Stages:          stages,
		Summary:         summary,
	}
	if shipment.Vehicle != nil {
		view.Vehicle = &VehicleInfo{
			ID:       shipment.Vehicle.ID,
			Make:     shipment.Vehicle.Make,
			Model:    shipment.Vehicle.Model,
			Year:     shipment.Vehicle.Year,
			ImageURL: shipment.Vehicle.ImageURL,
			Chassis:  shipment.Vehicle.Chassis,
		}
	}
	return view, nil
}

func (s *service) AdvanceStage(ctx context.Context, input AdvanceStageInput) (*AdvanceStageResult, error) {
	if input.ShipmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipment id required")
	}
	if input.StageKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stage key required")
	}

	var result *AdvanceStageResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		shipment, err := repo.FindShipment(ctx, input.ShipmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipment")
		}

		stage, err := repo.FindStageByKey(ctx, shipment.ID, input.StageKey)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stage not found").
					WithDetails(map[string]any{"stage_key": input.StageKey})
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stage")
		}
		if stage.Status == enums.StageStatusCompleted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "stage already completed").
				WithDetails(map[string]any{"stage_key": input.StageKey})
		}

		now := s.now()
		if err := repo.UpdateStage(ctx, stage.ID, map[string]any{
			"status":          enums.StageStatusCompleted,
			"progress":        100,
			"tasks_completed": stage.TotalTasks,
			"completed_at":    now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete stage")
		}

		// Move the next pending stage into progress, then recompute the
		// overall figure from the updated sequence.
		var nextKey *string
		stages := mapStages(shipment.Stages)
		for i := range stages {
			if stages[i].ID != input.StageKey {
				continue
			}
			stages[i].Status = enums.StageStatusCompleted
			stages[i].Progress = 100
			stages[i].TasksCompleted = stages[i].TotalTasks
			if i+1 < len(stages) && stages[i+1].Status == enums.StageStatusPending {
				next, err := repo.FindStageByKey(ctx, shipment.ID, stages[i+1].ID)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load next stage")
				}
				if err := repo.UpdateStage(ctx, next.ID, map[string]any{
					"status": enums.StageStatusInProgress,
				}); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start next stage")
				}
				stages[i+1].Status = enums.StageStatusInProgress
				key := stages[i+1].ID
				nextKey = &key
			}
			break
		}

		summary, err := timeline.Summarize(stages)
		if err != nil {
			return err
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventShipmentStageAdvanced,
			AggregateType: enums.AggregateShipment,
			AggregateID:   shipment.ID,
			Version:       1,
			Data: payloads.ShipmentStageAdvancedEvent{
				ShipmentID:      shipment.ID,
				CustomerID:      shipment.CustomerID,
				StageKey:        input.StageKey,
				StageStatus:     enums.StageStatusCompleted,
				OverallProgress: summary.OverallProgress,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return err
		}

		result = &AdvanceStageResult{
			ShipmentID:      shipment.ID,
			StageKey:        input.StageKey,
			CompletedAt:     now,
			OverallProgress: summary.OverallProgress,
			NextStageKey:    nextKey,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) loadOwnedShipment(ctx context.Context, customerID, shipmentID uuid.UUID) (*models.Shipment, error) {
	shipment, err := s.repo.FindShipment(ctx, shipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipment")
	}
	if shipment.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "shipment does not belong to customer")
	}
	return shipment, nil
}

// requireTrackable enforces the payment gate: only a won, fully paid bid
// unlocks shipment tracking.
func (s *service) requireTrackable(ctx context.Context, shipment *models.Shipment) error {
	bid, err := s.repo.FindBid(ctx, shipment.BidID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "owning bid not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owning bid")
	}
	if !bids.CanTrackShipment(bid.Status, bid.PaymentStatus) {
		return pkgerrors.New(pkgerrors.CodePaymentRequired, "complete payment to track this shipment").
			WithDetails(map[string]any{
				"bid_id":         bid.ID,
				"bid_status":     bid.Status,
				"payment_status": bid.PaymentStatus,
			})
	}
	return nil
}

// spliceExportInspection inserts the optional inspection stage after the
// payment-documents anchor once a completed inspection request exists. The
// splice is a view-level concern; inspection rows stay in their own table.
func (s *service) spliceExportInspection(ctx context.Context, shipmentID uuid.UUID, stages []timeline.Stage) ([]timeline.Stage, error) {
	for _, stage := range stages {
		if stage.ID == ExportInspectionStageKey {
			return stages, nil
		}
	}

	inspection, err := s.repo.FindCompletedInspection(ctx, shipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return stages, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inspection request")
	}

	stage := timeline.Stage{
		ID:          ExportInspectionStageKey,
		Title:       "Export Inspection",
		Description: fmt.Sprintf("Pre-export inspection by %s", inspection.Company),
		Status:      enums.StageStatusCompleted,
		Progress:    100,
		CompletedAt: inspection.CompletedAt,
	}
	spliced, err := timeline.InsertAfter(stages, paymentDocumentsStageKey, stage)
	if err != nil {
		// Older shipments predate the payment-documents stage; surface the
		// inspection at the end rather than failing the whole timeline.
		s.logg.Warn(s.logg.WithShipmentID(ctx, shipmentID.String()), "no payment-documents anchor, appending inspection stage")
		return append(stages, stage), nil
	}
	return spliced, nil
}

func mapStages(rows []models.ShipmentStage) []timeline.Stage {
	sorted := make([]models.ShipmentStage, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	stages := make([]timeline.Stage, 0, len(sorted))
	for _, row := range sorted {
		stages = append(stages, mapStage(row))
	}
	return stages
}

func mapStage(row models.ShipmentStage) timeline.Stage {
	stage := timeline.Stage{
		ID:             row.StageKey,
		Title:          row.Title,
		Description:    row.Description,
		Status:         row.Status,
		Progress:       row.Progress,
		TasksCompleted: row.TasksCompleted,
		TotalTasks:     row.TotalTasks,
		IsExpandable:   row.IsExpandable,
		CompletedAt:    row.CompletedAt,
		EstimatedAt:    row.EstimatedAt,
	}
	if len(row.Tasks) > 0 {
		tasks := make([]models.StageTask, len(row.Tasks))
		copy(tasks, row.Tasks)
		sort.Slice(tasks, func(i, j int) bool { return tasks[i].Position < tasks[j].Position })
		stage.Tasks = make([]timeline.Task, 0, len(tasks))
		for _, task := range tasks {
			stage.Tasks = append(stage.Tasks, mapTask(task))
		}
	}
	return stage
}

func mapTask(row models.StageTask) timeline.Task {
	task := timeline.Task{
		ID:          row.TaskKey,
		Title:       row.Title,
		Status:      row.Status,
		DueAt:       row.DueAt,
		CompletedAt: row.CompletedAt,
	}
	if row.Description != nil {
		task.Description = *row.Description
	}
	if row.Assignee != nil {
		task.Assignee = *row.Assignee
	}
	if row.Note != nil {
		task.Note = *row.Note
	}
	for _, doc := range row.Documents {
		task.Documents = append(task.Documents, timeline.Document{
			ID:       doc.ID.String(),
			Name:     doc.Name,
			Type:     doc.Type,
			Required: doc.Required,
			Uploaded: doc.Uploaded,
		})
	}
	return task
}
