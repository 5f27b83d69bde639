package auctions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autolane/autolane-backend/pkg/config"
	"github.com/autolane/autolane-backend/pkg/db/models"
	pkgerrors "github.com/autolane/autolane-backend/pkg/errors"
	"github.com/autolane/autolane-backend/pkg/logger"
	"github.com/autolane/autolane-backend/pkg/pagination"
)

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

// Service exposes the auction browsing surface.
type Service interface {
	List(ctx context.Context, params pagination.Params, filters Filters) (*AuctionList, error)
	Get(ctx context.Context, auctionID uuid.UUID) (*AuctionDetail, error)
}

type service struct {
	repo    Repository
	cache   cacheStore
	logg    *logger.Logger
	listTTL time.Duration
}

// NewService builds an auctions service. The cache is optional; a nil cache
// disables listing memoization.
func NewService(repo Repository, cache cacheStore, logg *logger.Logger, cfg config.CacheConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("auctions repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		cache:   cache,
		logg:    logg,
		listTTL: cfg.AuctionListTTL,
	}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters Filters) (*AuctionList, error) {
	cacheKey := s.listCacheKey(params, filters)
	if cacheKey != "" {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var list AuctionList
			if err := json.Unmarshal([]byte(cached), &list); err == nil {
				return &list, nil
			}
			s.logg.Warn(ctx, "discarding malformed auction list cache entry")
		}
	}

	rows, err := s.repo.ListAuctions(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list auctions")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	nextCursor := ""
	if len(rows) > limit {
		last := rows[limit-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}

	summaries := make([]AuctionSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, summarize(row))
	}
	list := &AuctionList{Auctions: summaries, NextCursor: nextCursor}

	if cacheKey != "" {
		if encoded, err := json.Marshal(list); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(encoded), s.listTTL); err != nil {
				s.logg.Warn(ctx, "failed to cache auction list")
			}
		}
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, auctionID uuid.UUID) (*AuctionDetail, error) {
	if auctionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "auction id required")
	}

	auction, err := s.repo.FindAuction(ctx, auctionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "auction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load auction")
	}

	detail := &AuctionDetail{
		AuctionSummary: summarize(*auction),
		SheetURL:       auction.SheetURL,
	}
	translation, err := s.repo.FindCompletedTranslation(ctx, auctionID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load translation request")
		}
	} else {
		detail.TranslatedSheetURL = translation.TranslatedURL
	}
	return detail, nil
}

// listCacheKey memoizes only the anonymous browse surface. Cursor pages and
// house filters fan out too widely to be worth caching.
func (s *service) listCacheKey(params pagination.Params, filters Filters) string {
	if s.cache == nil || s.listTTL <= 0 {
		return ""
	}
	if params.Cursor != "" || filters.AuctionHouse != "" {
		return ""
	}
	status := "all"
	if filters.Status != nil {
		status = filters.Status.String()
	}
	return s.cache.CacheKey("auctions", status, fmt.Sprintf("limit_%d", pagination.NormalizeLimit(params.Limit)))
}

func summarize(auction models.Auction) AuctionSummary {
	summary := AuctionSummary{
		ID:            auction.ID,
		LotNumber:     auction.LotNumber,
		AuctionHouse:  auction.AuctionHouse,
		Status:        auction.Status,
		StartPriceJPY: auction.StartPriceJPY,
		HighestBidJPY: auction.HighestBidJPY,
		StartsAt:      auction.StartsAt,
		EndsAt:        auction.EndsAt,
	}
	if auction.Vehicle != nil {
		vehicle := auction.Vehicle
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
	return summary
}
