package auctions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/autolane/autolane-backend/pkg/config"
	"github.com/autolane/autolane-backend/pkg/db/models"
	"github.com/autolane/autolane-backend/pkg/enums"
	pkgerrors "github.com/autolane/autolane-backend/pkg/errors"
	"github.com/autolane/autolane-backend/pkg/logger"
	"github.com/autolane/autolane-backend/pkg/pagination"
	"gorm.io/gorm"
)

type stubAuctionsRepo struct {
	rows        []models.Auction
	listCalls   int
	auction     *models.Auction
	translation *models.TranslationRequest
}

func (s *stubAuctionsRepo) ListAuctions(ctx context.Context, params pagination.Params, filters Filters) ([]models.Auction, error) {
	s.listCalls++
	return s.rows, nil
}

func (s *stubAuctionsRepo) FindAuction(ctx context.Context, auctionID uuid.UUID) (*models.Auction, error) {
	if s.auction == nil || s.auction.ID != auctionID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.auction, nil
}

func (s *stubAuctionsRepo) FindCompletedTranslation(ctx context.Context, auctionID uuid.UUID) (*models.TranslationRequest, error) {
	if s.translation == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.translation, nil
}

type stubCache struct {
	entries map[string]string
}

func (s *stubCache) Get(ctx context.Context, key string) (string, error) {
	if value, ok := s.entries[key]; ok {
		return value, nil
	}
	return "", errors.New("cache miss")
}

func (s *stubCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if s.entries == nil {
		s.entries = map[string]string{}
	}
	s.entries[key] = value.(string)
	return nil
}

func (s *stubCache) CacheKey(parts ...string) string {
	return "al:cache:" + strings.Join(parts, ":")
}

func testAuctionsService(t *testing.T, repo Repository, cache cacheStore) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "auctions-test", Output: &bytes.Buffer{}})
	svc, err := NewService(repo, cache, logg, config.CacheConfig{AuctionListTTL: 30 * time.Second})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func auctionRows(n int) []models.Auction {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	rows := make([]models.Auction, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, models.Auction{
			ID:            uuid.New(),
			LotNumber:     "7701",
			AuctionHouse:  "USS Tokyo",
			Status:        enums.AuctionStatusLive,
			StartPriceJPY: decimal.NewFromInt(300000),
			HighestBidJPY: decimal.NewFromInt(450000),
			StartsAt:      now.Add(-2 * time.Hour),
			EndsAt:        now.Add(4 * time.Hour),
			CreatedAt:     now.Add(-time.Duration(i) * time.Minute),
			Vehicle: &models.Vehicle{
				ID:    uuid.New(),
				Make:  "Toyota",
				Model: "Land Cruiser",
				Year:  2019,
			},
		})
	}
	return rows
}

func TestListCachesFirstPage(t *testing.T) {
	repo := &stubAuctionsRepo{rows: auctionRows(2)}
	cache := &stubCache{}
	svc := testAuctionsService(t, repo, cache)

	first, err := svc.List(context.Background(), pagination.Params{}, Filters{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(first.Auctions) != 2 {
		t.Fatalf("expected 2 auctions, got %d", len(first.Auctions))
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected one repo call, got %d", repo.listCalls)
	}

	second, err := svc.List(context.Background(), pagination.Params{}, Filters{})
	if err != nil {
		t.Fatalf("List (cached): %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected cache hit, repo called %d times", repo.listCalls)
	}
	if len(second.Auctions) != 2 || second.Auctions[0].Vehicle == nil {
		t.Fatalf("cached list lost data: %+v", second)
	}
}

func TestListCursorPagesSkipCache(t *testing.T) {
	repo := &stubAuctionsRepo{rows: auctionRows(1)}
	cache := &stubCache{}
	svc := testAuctionsService(t, repo, cache)

	cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: time.Now(), ID: uuid.New()})
	if _, err := svc.List(context.Background(), pagination.Params{Cursor: cursor}, Filters{}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(cache.entries) != 0 {
		t.Fatalf("cursor page must not be cached, got %v", cache.entries)
	}
}

func TestListEmitsNextCursorWhenOverLimit(t *testing.T) {
	repo := &stubAuctionsRepo{rows: auctionRows(3)}
	svc := testAuctionsService(t, repo, &stubCache{})

	list, err := svc.List(context.Background(), pagination.Params{Limit: 2}, Filters{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list.Auctions) != 2 {
		t.Fatalf("expected trimmed page of 2, got %d", len(list.Auctions))
	}
	if list.NextCursor == "" {
		t.Fatal("expected next cursor")
	}
	cursor, err := pagination.ParseCursor(list.NextCursor)
	if err != nil {
		t.Fatalf("cursor round-trip: %v", err)
	}
	if cursor.ID != repo.rows[1].ID {
		t.Fatalf("cursor must point at last returned row, got %s", cursor.ID)
	}
}

func TestGetIncludesTranslatedSheet(t *testing.T) {
	rows := auctionRows(1)
	translatedURL := "https://cdn.example.com/sheets/7701-en.pdf"
	repo := &stubAuctionsRepo{
		auction: &rows[0],
		translation: &models.TranslationRequest{
			ID:            uuid.New(),
			AuctionID:     rows[0].ID,
			Status:        enums.RequestStatusCompleted,
			TranslatedURL: &translatedURL,
		},
	}
	svc := testAuctionsService(t, repo, &stubCache{})

	detail, err := svc.Get(context.Background(), rows[0].ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.TranslatedSheetURL == nil || *detail.TranslatedSheetURL != translatedURL {
		t.Fatalf("expected translated sheet url, got %v", detail.TranslatedSheetURL)
	}
}

func TestGetUnknownAuction(t *testing.T) {
	svc := testAuctionsService(t, &stubAuctionsRepo{}, &stubCache{})

	_, err := svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListDiscardsMalformedCacheEntry(t *testing.T) {
	repo := &stubAuctionsRepo{rows: auctionRows(1)}
	cache := &stubCache{entries: map[string]string{
		"al:cache:auctions:all:limit_25": "{not-json",
	}}
	svc := testAuctionsService(t, repo, cache)

	_, err := svc.List(context.Background(), pagination.Params{}, Filters{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected fallthrough to repo, got %d calls", repo.listCalls)
	}
	var decoded AuctionList
	if err := json.Unmarshal([]byte(cache.entries["al:cache:auctions:all:limit_25"]), &decoded); err != nil {
		t.Fatalf("cache must be overwritten with valid JSON: %v", err)
	}
	if len(decoded.Auctions) != 1 {
		t.Fatalf("unexpected cached list %+v", decoded)
	}
}
