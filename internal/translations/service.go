// Package translations manages auction-sheet translation requests. Like
// inspections, completion is simulated by the worker once ReadyAt passes;
// the completed request carries the translated sheet URL.
package translations

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

// RequestInput orders a translation of an auction's inspection sheet.
type RequestInput struct {
	AuctionID  uuid.UUID
	CustomerID uuid.UUID
}

// RequestView is the caller-facing translation request record.
type RequestView struct {
	ID            uuid.UUID           `json:"id"`
	AuctionID     uuid.UUID           `json:"auctionId"`
	Status        enums.RequestStatus `json:"status"`
	TranslatedURL *string             `json:"translatedUrl,omitempty"`
	RequestedAt   time.Time           `json:"requestedAt"`
	ReadyAt       time.Time           `json:"readyAt"`
	CompletedAt   *time.Time          `json:"completedAt,omitempty"`
}

// Service exposes translation ordering and the worker-side completion sweep.
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

// NewService builds a translations service with the required dependencies.
func NewService(repo Repository, tx txRunner, publisher outboxPublisher, cfg config.WorkerConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("translations repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	latency := cfg.TranslationLatency
	if latency <= 0 {
		latency = time.Minute
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
	if input.AuctionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "auction id required")
	}
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	var view *RequestView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		auction, err := repo.FindAuction(ctx, input.AuctionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "auction not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load auction")
		}
		if auction.SheetURL == nil {
			return pkgerrors.New(pkgerrors.CodePrecondition, "auction has no inspection sheet to translate")
		}

		if _, err := repo.FindPendingForAuction(ctx, auction.ID, input.CustomerID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "a translation is already pending for this auction")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check pending translations")
		}

		now := s.now()
		request := &models.TranslationRequest{
			AuctionID:   auction.ID,
			CustomerID:  input.CustomerID,
			Status:      enums.RequestStatusPending,
			RequestedAt: now,
			ReadyAt:     now.Add(s.latency),
		}
		if _, err := repo.CreateRequest(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create translation request")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventTranslationRequested,
			AggregateType: enums.AggregateTranslation,
			AggregateID:   request.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{CustomerID: input.CustomerID},
			Data: payloads.TranslationRequestedEvent{
				RequestID:  request.ID,
				AuctionID:  auction.ID,
				CustomerID: input.CustomerID,
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

// CompleteDue flips every pending request whose ReadyAt has passed and
// attaches a deterministic translated sheet URL.
func (s *service) CompleteDue(ctx context.Context, asOf time.Time, limit int) (int, error) {
	due, err := s.repo.ListDue(ctx, asOf, limit)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list due translations")
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

func (s *service) complete(ctx context.Context, request models.TranslationRequest) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		now := s.now()
		translatedURL := translatedSheetURL(request)
		if err := repo.UpdateRequest(ctx, request.ID, map[string]any{
			"status":         enums.RequestStatusCompleted,
			"translated_url": translatedURL,
			"completed_at":   now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete translation request")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventTranslationCompleted,
			AggregateType: enums.AggregateTranslation,
			AggregateID:   request.ID,
			Version:       1,
			Data: payloads.TranslationCompletedEvent{
				RequestID:     request.ID,
				AuctionID:     request.AuctionID,
				CustomerID:    request.CustomerID,
				TranslatedURL: translatedURL,
				CompletedAt:   now,
			},
		}
		return s.outbox.EmitIfNotExists(ctx, tx, event)
	})
}

// translatedSheetURL derives a stable location from the request id. There
// is no real translation vendor behind this; the URL shape mirrors where a
// finished document would land.
func translatedSheetURL(request models.TranslationRequest) string {
	return fmt.Sprintf("https://sheets.autolane.example/translations/%s.pdf", request.ID)
}

func mapRequest(request models.TranslationRequest) RequestView {
	return RequestView{
		ID:            request.ID,
		AuctionID:     request.AuctionID,
		Status:        request.Status,
		TranslatedURL: request.TranslatedURL,
		RequestedAt:   request.RequestedAt,
		ReadyAt:       request.ReadyAt,
		CompletedAt:   request.CompletedAt,
	}
}
