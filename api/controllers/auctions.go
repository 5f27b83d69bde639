package controllers

import (
	"net/http"
	"strings"

	"github.com/autolane/autolane-backend/api/responses"
	"github.com/autolane/autolane-backend/api/validators"
	"github.com/autolane/autolane-backend/internal/auctions"
	"github.com/autolane/autolane-backend/pkg/enums"
	pkgerrors "github.com/autolane/autolane-backend/pkg/errors"
	"github.com/autolane/autolane-backend/pkg/logger"
	"github.com/autolane/autolane-backend/pkg/pagination"
)

// ListAuctions returns the browsable auction feed.
func ListAuctions(svc auctions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auctions service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		filters := auctions.Filters{
			AuctionHouse: strings.TrimSpace(r.URL.Query().Get("house")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseAuctionStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}

		result, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetAuction returns a single auction lot with its vehicle detail.
func GetAuction(svc auctions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auctions service unavailable"))
			return
		}

		auctionID, err := routeUUID(r, "auctionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), auctionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
