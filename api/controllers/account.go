package controllers

import (
	"net/http"

	"github.com/autolane/autolane-backend/api/responses"
	"github.com/autolane/autolane-backend/api/validators"
	"github.com/autolane/autolane-backend/internal/accounts"
	pkgerrors "github.com/autolane/autolane-backend/pkg/errors"
	"github.com/autolane/autolane-backend/pkg/logger"
)

type updateAccountRequest struct {
	FullName              *string `json:"fullName" validate:"omitempty,max=120"`
	Country               *string `json:"country" validate:"omitempty,max=56"`
	PreferredPort         *string `json:"preferredPort" validate:"omitempty,max=120"`
	Locale                *string `json:"locale" validate:"omitempty,max=16"`
	NotifyBidUpdates      *bool   `json:"notifyBidUpdates"`
	NotifyShipmentUpdates *bool   `json:"notifyShipmentUpdates"`
}

// GetAccount returns the calling customer's profile and preferences.
func GetAccount(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable"))
			return
		}

		customerID, err := customerIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Get(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// UpdateAccount applies a partial profile update.
func UpdateAccount(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable"))
			return
		}

		customerID, err := customerIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateAccountRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Update(r.Context(), customerID, accounts.UpdateInput{
			FullName:              body.FullName,
			Country:               body.Country,
			PreferredPort:         body.PreferredPort,
			Locale:                body.Locale,
			NotifyBidUpdates:      body.NotifyBidUpdates,
			NotifyShipmentUpdates: body.NotifyShipmentUpdates,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
