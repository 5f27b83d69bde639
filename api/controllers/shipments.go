package controllers

import (
	"net/http"

	"github.com/autolane/autolane-backend/api/responses"
	"github.com/autolane/autolane-backend/internal/shipments"
	pkgerrors "github.com/autolane/autolane-backend/pkg/errors"
	"github.com/autolane/autolane-backend/pkg/logger"
)

// GetShipmentTimeline returns the stage-by-stage delivery timeline for a
// shipment the customer has paid for.
func GetShipmentTimeline(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipments service unavailable"))
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

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithShipmentID(ctx, shipmentID.String())
		}

		view, err := svc.GetTimeline(ctx, customerID, shipmentID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
