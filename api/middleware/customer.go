package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/autolane/autolane-backend/api/responses"
	pkgerrors "github.com/autolane/autolane-backend/pkg/errors"
	"github.com/autolane/autolane-backend/pkg/logger"
)

const customerIDHeader = "X-Customer-Id"

// CustomerContext resolves the calling customer from the X-Customer-Id
// header set by the dashboard's edge proxy and injects it into the request
// context. Requests without a valid customer identifier are rejected.
func CustomerContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(customerIDHeader))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "customer identity required"))
				return
			}

			customerID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
				return
			}

			ctx := WithCustomerID(r.Context(), customerID.String())
			if logg != nil {
				ctx = logg.WithCustomerID(ctx, customerID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
