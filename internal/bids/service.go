package bids

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/autolane/autolane-backend/pkg/config"
	"github.com/autolane/autolane-backend/pkg/db/models"
	"github.com/autolane/autolane-backend/pkg/enums"
	pkgerrors "github.com/autolane/autolane-backend/pkg/errors"
	"github.com/autolane/autolane-backend/pkg/outbox"
	"github.com/autolane/autolane-backend/pkg/outbox/payloads"
	"github.com/autolane/autolane-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines customer-facing bid operations.
type Service interface {
	List(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters Filters) (*BidList, error)
	Get(ctx context.Context, customerID, bidID uuid.UUID) (*BidSummary, error)
	ChangeBid(ctx context.Context, input ChangeBidInput) (*ChangeBidResult, error)
	CancelBid(ctx context.Context, input CancelBidInput) (*CancelBidResult, error)
}

type service struct {
	repo         Repository
	tx           txRunner
	outbox       outboxPublisher
	policy       Policy
	minIncrement decimal.Decimal
	now          func() time.Time
}

// NewService builds a bids service with the required dependencies.
func NewService(repo Repository, tx txRunner, publisher outboxPublisher, cfg config.BidPolicyConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bids repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:         repo,
		tx:           tx,
		outbox:       publisher,
		policy:       NewPolicy(cfg),
		minIncrement: decimal.NewFromInt(cfg.MinIncrementJPY),
		now:          time.Now,
	}, nil
}

func (s *service) List(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters Filters) (*BidList, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	rows, err := s.repo.ListCustomerBids(ctx, customerID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer bids")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	nextCursor := ""
	if len(rows) > limit {
		last := rows[limit-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.PlacedAt, ID: last.ID})
		rows = rows[:limit]
	}

	now := s.now()
	summaries := make([]BidSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, s.summarize(row, now))
	}
	return &BidList{Bids: summaries, NextCursor: nextCursor}, nil
}

func (s *service) Get(ctx context.Context, customerID, bidID uuid.UUID) (*BidSummary, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if bidID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bid id required")
	}

	bid, err := s.loadOwnedBid(ctx, s.repo, customerID, bidID)
	if err != nil {
		return nil, err
	}
	summary := s.summarize(*bid, s.now())
	return &summary, nil
}

func (s *service) ChangeBid(ctx context.Context, input ChangeBidInput) (*ChangeBidResult, error) {
	if input.BidID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bid id required")
	}
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if !input.AmountJPY.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bid amount must be positive")
	}

	var result *ChangeBidResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		bid, err := s.loadOwnedBid(ctx, repo, input.CustomerID, input.BidID)
		if err != nil {
			return err
		}
		if err := s.requireLive(bid); err != nil {
			return err
		}
		if bid.AmountJPY.Equal(input.AmountJPY) {
			return pkgerrors.New(pkgerrors.CodeValidation, "new amount equals current bid")
		}

		auction, err := repo.FindAuction(ctx, bid.AuctionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "auction not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load auction")
		}
		if auction.Status == enums.AuctionStatusEnded {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "auction has ended")
		}

		// A raise above the current highest bid must clear it by the
		// configured increment; a lower amount is allowed but leaves the
		// customer outbid.
		status := enums.BidStatusOutbid
		if input.AmountJPY.GreaterThan(auction.HighestBidJPY) {
			if input.AmountJPY.LessThan(auction.HighestBidJPY.Add(s.minIncrement)) {
				return pkgerrors.New(pkgerrors.CodeValidation, "raise must exceed highest bid by the minimum increment").
					WithDetails(map[string]any{
						"highest_bid_jpy":   auction.HighestBidJPY,
						"min_increment_jpy": s.minIncrement,
					})
			}
			status = enums.BidStatusActive
		}

		now := s.now()
		replacement := &models.Bid{
			CustomerID: bid.CustomerID,
			AuctionID:  bid.AuctionID,
			Status:     status,
			AmountJPY:  input.AmountJPY,
			PlacedAt:   now,
		}
		if _, err := repo.CreateBid(ctx, replacement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create replacement bid")
		}
		if err := repo.UpdateBid(ctx, bid.ID, map[string]any{"superseded_by": replacement.ID}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "supersede original bid")
		}
		if status == enums.BidStatusActive {
			if err := repo.UpdateAuction(ctx, auction.ID, map[string]any{"highest_bid_jpy": input.AmountJPY}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update auction highest bid")
			}
			auction.HighestBidJPY = input.AmountJPY
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventBidChanged,
			AggregateType: enums.AggregateBid,
			AggregateID:   replacement.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{CustomerID: input.CustomerID},
			Data: payloads.BidChangedEvent{
				BidID:      bid.ID,
				NewBidID:   replacement.ID,
				CustomerID: bid.CustomerID,
				AuctionID:  bid.AuctionID,
				OldAmount:  bid.AmountJPY,
				NewAmount:  input.AmountJPY,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return err
		}

		replacement.Auction = auction
		summary := s.summarize(*replacement, now)
		result = &ChangeBidResult{
			Bid:    summary,
			Urgent: s.policy.IsUrgent(enums.BidActionChangeBid, auction.EndsAt, now),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) CancelBid(ctx context.Context, input CancelBidInput) (*CancelBidResult, error) {
	if input.BidID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bid id required")
	}
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	var result *CancelBidResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		bid, err := s.loadOwnedBid(ctx, repo, input.CustomerID, input.BidID)
		if err != nil {
			return err
		}
		if err := s.requireLive(bid); err != nil {
			return err
		}

		now := s.now()
		if err := repo.UpdateBid(ctx, bid.ID, map[string]any{"canceled_at": now}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel bid")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventBidCanceled,
			AggregateType: enums.AggregateBid,
			AggregateID:   bid.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{CustomerID: input.CustomerID},
			Data: payloads.BidCanceledEvent{
				BidID:      bid.ID,
				CustomerID: bid.CustomerID,
				AuctionID:  bid.AuctionID,
				AmountJPY:  bid.AmountJPY,
				CanceledAt: now,
			},
		}
		if err := s.outbox.EmitIfNotExists(ctx, tx, event); err != nil {
			return err
		}

		urgent := false
		if bid.Auction != nil {
			urgent = s.policy.IsUrgent(enums.BidActionCancelBid, bid.Auction.EndsAt, now)
		}
		result = &CancelBidResult{BidID: bid.ID, CanceledAt: now, Urgent: urgent}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) loadOwnedBid(ctx context.Context, repo Repository, customerID, bidID uuid.UUID) (*models.Bid, error) {
	bid, err := repo.FindBid(ctx, bidID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bid not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bid")
	}
	if bid.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "bid does not belong to customer")
	}
	return bid, nil
}

func (s *service) requireLive(bid *models.Bid) error {
	if bid.SupersededBy != nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "bid has been superseded")
	}
	if bid.CanceledAt != nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "bid already canceled")
	}
	if !bid.Status.IsLive() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "bid is no longer live")
	}
	return nil
}

func (s *service) summarize(bid models.Bid, now time.Time) BidSummary {
	summary := BidSummary{
		ID:             bid.ID,
		AuctionID:      bid.AuctionID,
		Status:         bid.Status,
		AmountJPY:      bid.AmountJPY,
		PaymentStatus:  bid.PaymentStatus,
		PlacedAt:       bid.PlacedAt,
		CanceledAt:     bid.CanceledAt,
		SupersededBy:   bid.SupersededBy,
		AllowedActions: []enums.BidAction{},
	}
	// Canceled and superseded snapshots are historical: no actions, no
	// urgency, no shipment gate.
	live := bid.CanceledAt == nil && bid.SupersededBy == nil
	if live {
		summary.AllowedActions = s.policy.AllowedActions(bid.Status, bid.PaymentStatus)
		summary.CanTrackShipment = CanTrackShipment(bid.Status, bid.PaymentStatus)
	}
	if bid.Auction != nil {
		summary.HighestBidJPY = bid.Auction.HighestBidJPY
		summary.AuctionEndsAt = bid.Auction.EndsAt
		for _, action := range summary.AllowedActions {
			if s.policy.IsUrgent(action, bid.Auction.EndsAt, now) {
				summary.Urgent = true
				break
			}
		}
		if bid.Auction.Vehicle != nil {
			vehicle := bid.Auction.Vehicle
			summary.Vehicle = &VehicleSummary{
				ID:           vehicle.ID,
				Make:         vehicle.Make,
				Model:        vehicle.Model,
				Year:         vehicle.Year,
				MileageKM:    vehicle.MileageKM,
				ImageURL:     vehicle.ImageURL,
				Grade:        vehicle.Grade,
				Transmission: vehicle.Transmission,
			}
		}
	}
	return summary
}
