package controllers

import (
	"net/http"

	"github.com/autolane/autolane-backend/api/responses"
	"github.com/autolane/autolane-backend/api/validators"
	"github.com/autolane/autolane-backend/internal/inspections"
	pkgerrors "github.com/autolane/autolane-backend/pkg/errors"
	"github.com/autolane/autolane-backend/pkg/logger"
)

type requestInspectionRequest struct {
	Company string `json:"company" validate:"required,max=120"`
}

// RequestInspection files a pre-export inspection request for a shipment.
func RequestInspection(svc inspections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inspections service unavailable"))
			return
		}

		customerID, err := customerIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shipmentID, err := routeUUID(r, "shipmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body requestInspectionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Request(r.Context(), inspections.RequestInput{
			ShipmentID: shipmentID,
			CustomerID: customerID,
			Company:    body.Company,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, view)
	}
}
