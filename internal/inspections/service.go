// Package inspections manages pre-export inspection requests. Requests are
// completed asynchronously: ReadyAt models the external company's turnaround
// and the worker flips due requests to completed.
package inspections

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/autolane/autolane-backend/pkg/config"
	"github.com/autolane/autolane-backend/pkg/db/models"
	"github.com/autolane/autolane-backend/pkg/enums"
	pkgerrors "github.com/autolane/autolane-backend/pkg/errors"
	"github.com/autolane/autolane-backend/pkg/outbox"
	"github.com/autolane/autolane-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// RequestInput orders an inspection for a shipment.
type RequestInput struct {
	ShipmentID uuid.UUID
	CustomerID uuid.UUID
	Company    string
}

// RequestView is the caller-facing inspection request record.
type RequestView struct {
	ID          uuid.UUID           `json:"id"`
	ShipmentID  uuid.UUID           `json:"shipmentId"`
	Company     string              `json:"company"`
	Status      enums.RequestStatus `json:"status"`
	RequestedAt time.Time           `json:"requestedAt"`
	ReadyAt     time.Time           `json:"readyAt"`
	CompletedAt *time.Time          `json:"completedAt,omitempty"`
}

// Service exposes inspection ordering and the worker-side completion sweep.
type Service interface {
	Request(ctx context.Context, input RequestInput) (*RequestView, error)
	CompleteDue(ctx context.Context, asOf time.Time, limit int) (int, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	outbox  outboxPublisher
	latency time.Duration
	now     func() time.Time
}

// NewService builds an inspections service with the required dependencies.
func NewService(repo Repository, tx txRunner, publisher outboxPublisher, cfg config.WorkerConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inspections repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	latency := cfg.InspectionLatency
	if latency <= 0 {
		latency = 2 * time.Minute
	}
	return &service{
		repo:    repo,
		tx:      tx,
		outbox:  publisher,
		latency: latency,
		now:     time.Now,
	}, nil
}

func (s *service) Request(ctx context.Context, input RequestInput) (*RequestView, error) {
	if input.ShipmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipment id required")
	}
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.Company == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inspection company required")
	}

	var view *RequestView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		shipment, err := repo.FindShipment(ctx, input.ShipmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipment")
		}
		if shipment.CustomerID != input.CustomerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "shipment does not belong to customer")
		}

		if _, err := repo.FindPendingForShipment(ctx, shipment.ID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "an inspection is already pending for this shipment")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check pending inspections")
		}

		now := s.now()
		request := &models.InspectionRequest{
			ShipmentID:  shipment.ID,
			CustomerID:  shipment.CustomerID,
			Company:     input.Company,
			Status:      enums.RequestStatusPending,
			RequestedAt: now,
			ReadyAt:     now.Add(s.latency),
		}
		if _, err := repo.CreateRequest(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inspection request")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventInspectionRequested,
			AggregateType: enums.AggregateInspection,
			AggregateID:   request.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{CustomerID: input.CustomerID},
			Data: payloads.InspectionRequestedEvent{
				RequestID:  request.ID,
				ShipmentID: shipment.ID,
				CustomerID: shipment.CustomerID,
				Company:    input.Company,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return err
		}

		mapped := mapRequest(*request)
		view = &mapped
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// CompleteDue flips every pending request whose ReadyAt has passed. Each
// request completes in its own transaction so one failure cannot hold back
// the rest of the batch.
func (s *service) CompleteDue(ctx context.Context, asOf time.Time, limit int) (int, error) {
	due, err := s.repo.ListDue(ctx, asOf, limit)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list due inspections")
	}

	completed := 0
	var errs error
	for _, request := range due {
		if err := s.complete(ctx, request); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("request %s: %w", request.ID, err))
			continue
		}
		completed++
	}
	return completed, errs
}

func (s *service) complete(ctx context.Context, request models.InspectionRequest) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		now := s.now()
		if err := repo.UpdateRequest(ctx, request.ID, map[string]any{
			"status":       enums.RequestStatusCompleted,
			"completed_at": now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete inspection request")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventInspectionCompleted,
			AggregateType: enums.AggregateInspection,
			AggregateID:   request.ID,
			Version:       1,
			Data: payloads.InspectionCompletedEvent{
				RequestID:   request.ID,
				ShipmentID:  request.ShipmentID,
				CustomerID:  request.CustomerID,
				Company:     request.Company,
				CompletedAt: now,
			},
		}
		return s.outbox.EmitIfNotExists(ctx, tx, event)
	})
}

func mapRequest(request models.InspectionRequest) RequestView {
	return RequestView{
		ID:          request.ID,
		ShipmentID:  request.ShipmentID,
		Company:     request.Company,
		Status:      request.Status,
		RequestedAt: request.RequestedAt,
		ReadyAt:     request.ReadyAt,
		CompletedAt: request.CompletedAt,
	}
}
