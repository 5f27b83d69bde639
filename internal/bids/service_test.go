package bids

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/autolane/autolane-backend/pkg/config"
	"github.com/autolane/autolane-backend/pkg/db/models"
	"github.com/autolane/autolane-backend/pkg/enums"
	pkgerrors "github.com/autolane/autolane-backend/pkg/errors"
	"github.com/autolane/autolane-backend/pkg/outbox"
	"github.com/autolane/autolane-backend/pkg/pagination"
)

type stubBidsRepo struct {
	bid            *models.Bid
	auction        *models.Auction
	created        *models.Bid
	bidUpdates     map[string]any
	auctionUpdates map[string]any
	listRows       []models.Bid
}

func (s *stubBidsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubBidsRepo) CreateBid(ctx context.Context, bid *models.Bid) (*models.Bid, error) {
	if bid.ID == uuid.Nil {
		bid.ID = uuid.New()
	}
	s.created = bid
	return bid, nil
}

func (s *stubBidsRepo) FindBid(ctx context.Context, bidID uuid.UUID) (*models.Bid, error) {
	if s.bid == nil || s.bid.ID != bidID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.bid
	return &copied, nil
}

func (s *stubBidsRepo) FindAuction(ctx context.Context, auctionID uuid.UUID) (*models.Auction, error) {
	if s.auction == nil || s.auction.ID != auctionID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.auction
	return &copied, nil
}

func (s *stubBidsRepo) ListCustomerBids(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters Filters) ([]models.Bid, error) {
	return s.listRows, nil
}

func (s *stubBidsRepo) UpdateBid(ctx context.Context, bidID uuid.UUID, updates map[string]any) error {
	s.bidUpdates = updates
	return nil
}

func (s *stubBidsRepo) UpdateAuction(ctx context.Context, auctionID uuid.UUID, updates map[string]any) error {
	s.auctionUpdates = updates
	return nil
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *stubOutboxPublisher) EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	return s.Emit(ctx, tx, event)
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testService(t *testing.T, repo Repository, publisher outboxPublisher, now time.Time) *service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, publisher, config.BidPolicyConfig{
		UrgencyWindow:   3 * time.Hour,
		MinIncrementJPY: 5000,
	})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	typed := svc.(*service)
	typed.now = fixedClock(now)
	return typed
}

func liveAuctionFixture(now time.Time) (*models.Auction, *models.Bid) {
	auction := &models.Auction{
		ID:            uuid.New(),
		Status:        enums.AuctionStatusLive,
		HighestBidJPY: decimal.NewFromInt(600000),
		EndsAt:        now.Add(12 * time.Hour),
	}
	bid := &models.Bid{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		AuctionID:  auction.ID,
		Status:     enums.BidStatusOutbid,
		AmountJPY:  decimal.NewFromInt(550000),
		PlacedAt:   now.Add(-time.Hour),
		Auction:    auction,
	}
	return auction, bid
}

func TestChangeBidRaisesAboveHighest(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	auction, bid := liveAuctionFixture(now)
	repo := &stubBidsRepo{bid: bid, auction: auction}
	publisher := &stubOutboxPublisher{}
	svc := testService(t, repo, publisher, now)

	result, err := svc.ChangeBid(context.Background(), ChangeBidInput{
		BidID:      bid.ID,
		CustomerID: bid.CustomerID,
		AmountJPY:  decimal.NewFromInt(610000),
	})
	if err != nil {
		t.Fatalf("ChangeBid: %v", err)
	}

	if repo.created == nil {
		t.Fatal("expected replacement snapshot created")
	}
	if repo.created.Status != enums.BidStatusActive {
		t.Fatalf("expected replacement active, got %s", repo.created.Status)
	}
	if got, ok := repo.bidUpdates["superseded_by"]; !ok || got != repo.created.ID {
		t.Fatalf("expected original superseded by %s, got %v", repo.created.ID, got)
	}
	if _, ok := repo.auctionUpdates["highest_bid_jpy"]; !ok {
		t.Fatal("expected auction highest bid updated")
	}
	if len(publisher.events) != 1 || publisher.events[0].EventType != enums.EventBidChanged {
		t.Fatalf("expected bid_changed event, got %v", publisher.events)
	}
	if result.Bid.Status != enums.BidStatusActive {
		t.Fatalf("unexpected result status %s", result.Bid.Status)
	}
	if result.Urgent {
		t.Fatal("auction ends in 12h, change must not be urgent")
	}
}

func TestChangeBidBelowHighestLeavesOutbid(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	auction, bid := liveAuctionFixture(now)
	repo := &stubBidsRepo{bid: bid, auction: auction}
	publisher := &stubOutboxPublisher{}
	svc := testService(t, repo, publisher, now)

	result, err := svc.ChangeBid(context.Background(), ChangeBidInput{
		BidID:      bid.ID,
		CustomerID: bid.CustomerID,
		AmountJPY:  decimal.NewFromInt(580000),
	})
	if err != nil {
		t.Fatalf("ChangeBid: %v", err)
	}
	if repo.created.Status != enums.BidStatusOutbid {
		t.Fatalf("expected replacement outbid, got %s", repo.created.Status)
	}
	if repo.auctionUpdates != nil {
		t.Fatal("auction highest bid must not change on a lower bid")
	}
	if result.Bid.Status != enums.BidStatusOutbid {
		t.Fatalf("unexpected result status %s", result.Bid.Status)
	}
}

func TestChangeBidRejectsShortRaise(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	auction, bid := liveAuctionFixture(now)
	repo := &stubBidsRepo{bid: bid, auction: auction}
	svc := testService(t, repo, &stubOutboxPublisher{}, now)

	// above highest (600000) but below highest + 5000 increment
	_, err := svc.ChangeBid(context.Background(), ChangeBidInput{
		BidID:      bid.ID,
		CustomerID: bid.CustomerID,
		AmountJPY:  decimal.NewFromInt(603000),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestChangeBidFlagsUrgencyNearClose(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	auction, bid := liveAuctionFixture(now)
	auction.EndsAt = now.Add(2*time.Hour + 59*time.Minute)
	repo := &stubBidsRepo{bid: bid, auction: auction}
	svc := testService(t, repo, &stubOutboxPublisher{}, now)

	result, err := svc.ChangeBid(context.Background(), ChangeBidInput{
		BidID:      bid.ID,
		CustomerID: bid.CustomerID,
		AmountJPY:  decimal.NewFromInt(610000),
	})
	if err != nil {
		t.Fatalf("ChangeBid: %v", err)
	}
	if !result.Urgent {
		t.Fatal("expected urgent flag inside the 3h window")
	}
}

func TestChangeBidRejectsEndedAuction(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	auction, bid := liveAuctionFixture(now)
	auction.Status = enums.AuctionStatusEnded
	repo := &stubBidsRepo{bid: bid, auction: auction}
	svc := testService(t, repo, &stubOutboxPublisher{}, now)

	_, err := svc.ChangeBid(context.Background(), ChangeBidInput{
		BidID:      bid.ID,
		CustomerID: bid.CustomerID,
		AmountJPY:  decimal.NewFromInt(610000),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestChangeBidRejectsTerminalBid(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	auction, bid := liveAuctionFixture(now)
	bid.Status = enums.BidStatusWon
	repo := &stubBidsRepo{bid: bid, auction: auction}
	svc := testService(t, repo, &stubOutboxPublisher{}, now)

	_, err := svc.ChangeBid(context.Background(), ChangeBidInput{
		BidID:      bid.ID,
		CustomerID: bid.CustomerID,
		AmountJPY:  decimal.NewFromInt(610000),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestChangeBidRejectsForeignBid(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	auction, bid := liveAuctionFixture(now)
	repo := &stubBidsRepo{bid: bid, auction: auction}
	svc := testService(t, repo, &stubOutboxPublisher{}, now)

	_, err := svc.ChangeBid(context.Background(), ChangeBidInput{
		BidID:      bid.ID,
		CustomerID: uuid.New(),
		AmountJPY:  decimal.NewFromInt(610000),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCancelBid(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	auction, bid := liveAuctionFixture(now)
	auction.EndsAt = now.Add(time.Hour)
	repo := &stubBidsRepo{bid: bid, auction: auction}
	publisher := &stubOutboxPublisher{}
	svc := testService(t, repo, publisher, now)

	result, err := svc.CancelBid(context.Background(), CancelBidInput{
		BidID:      bid.ID,
		CustomerID: bid.CustomerID,
	})
	if err != nil {
		t.Fatalf("CancelBid: %v", err)
	}
	if _, ok := repo.bidUpdates["canceled_at"]; !ok {
		t.Fatal("expected canceled_at set")
	}
	if len(publisher.events) != 1 || publisher.events[0].EventType != enums.EventBidCanceled {
		t.Fatalf("expected bid_canceled event, got %v", publisher.events)
	}
	if !result.Urgent {
		t.Fatal("expected urgent flag with 1h remaining")
	}
}

func TestCancelBidAlreadyCanceled(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	auction, bid := liveAuctionFixture(now)
	canceled := now.Add(-time.Minute)
	bid.CanceledAt = &canceled
	repo := &stubBidsRepo{bid: bid, auction: auction}
	svc := testService(t, repo, &stubOutboxPublisher{}, now)

	_, err := svc.CancelBid(context.Background(), CancelBidInput{
		BidID:      bid.ID,
		CustomerID: bid.CustomerID,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestListBuildsSummariesAndCursor(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	customerID := uuid.New()

	rows := make([]models.Bid, 0, 3)
	for i := 0; i < 3; i++ {
		auction := &models.Auction{
			ID:            uuid.New(),
			Status:        enums.AuctionStatusLive,
			HighestBidJPY: decimal.NewFromInt(700000),
			EndsAt:        now.Add(6 * time.Hour),
		}
		rows = append(rows, models.Bid{
			ID:         uuid.New(),
			CustomerID: customerID,
			AuctionID:  auction.ID,
			Status:     enums.BidStatusActive,
			AmountJPY:  decimal.NewFromInt(700000),
			PlacedAt:   now.Add(-time.Duration(i) * time.Hour),
			Auction:    auction,
		})
	}
	repo := &stubBidsRepo{listRows: rows}
	svc := testService(t, repo, &stubOutboxPublisher{}, now)

	list, err := svc.List(context.Background(), customerID, pagination.Params{Limit: 2}, Filters{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list.Bids) != 2 {
		t.Fatalf("expected 2 bids, got %d", len(list.Bids))
	}
	if list.NextCursor == "" {
		t.Fatal("expected next cursor with a third row available")
	}
	first := list.Bids[0]
	if len(first.AllowedActions) != 2 {
		t.Fatalf("expected change/cancel actions, got %v", first.AllowedActions)
	}
	if first.CanTrackShipment {
		t.Fatal("active bid must not reach shipment tracking")
	}
}

func TestGetCanceledBidHasNoActions(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	auction, bid := liveAuctionFixture(now)
	auction.EndsAt = now.Add(time.Hour)
	canceled := now.Add(-time.Minute)
	bid.CanceledAt = &canceled
	repo := &stubBidsRepo{bid: bid, auction: auction}
	svc := testService(t, repo, &stubOutboxPublisher{}, now)

	summary, err := svc.Get(context.Background(), bid.CustomerID, bid.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(summary.AllowedActions) != 0 {
		t.Fatalf("canceled bid must offer no actions, got %v", summary.AllowedActions)
	}
	if summary.Urgent {
		t.Fatal("canceled bid must not be urgent")
	}
	if summary.CanceledAt == nil || !summary.CanceledAt.Equal(canceled) {
		t.Fatalf("expected canceled_at %v, got %v", canceled, summary.CanceledAt)
	}
}

func TestListSupersededBidHasNoActions(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	customerID := uuid.New()
	replacementID := uuid.New()
	auction := &models.Auction{
		ID:            uuid.New(),
		Status:        enums.AuctionStatusLive,
		HighestBidJPY: decimal.NewFromInt(700000),
		EndsAt:        now.Add(time.Hour),
	}
	repo := &stubBidsRepo{listRows: []models.Bid{{
		ID:           uuid.New(),
		CustomerID:   customerID,
		AuctionID:    auction.ID,
		Status:       enums.BidStatusOutbid,
		AmountJPY:    decimal.NewFromInt(650000),
		PlacedAt:     now.Add(-time.Hour),
		SupersededBy: &replacementID,
		Auction:      auction,
	}}}
	svc := testService(t, repo, &stubOutboxPublisher{}, now)

	list, err := svc.List(context.Background(), customerID, pagination.Params{Limit: 10}, Filters{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list.Bids) != 1 {
		t.Fatalf("expected 1 bid, got %d", len(list.Bids))
	}
	summary := list.Bids[0]
	if len(summary.AllowedActions) != 0 {
		t.Fatalf("superseded bid must offer no actions, got %v", summary.AllowedActions)
	}
	if summary.Urgent || summary.CanTrackShipment {
		t.Fatal("superseded bid must not be urgent or trackable")
	}
	if summary.SupersededBy == nil || *summary.SupersededBy != replacementID {
		t.Fatalf("expected superseded_by %s, got %v", replacementID, summary.SupersededBy)
	}
}

func TestGetRejectsUnknownBid(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := testService(t, &stubBidsRepo{}, &stubOutboxPublisher{}, now)

	_, err := svc.Get(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
