package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/autolane/autolane-backend/api/responses"
	pkgerrors "github.com/autolane/autolane-backend/pkg/errors"
	"github.com/autolane/autolane-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// BidActionPolicy defines the throttling parameters for bid mutations.
type BidActionPolicy struct {
	name   string
	window time.Duration
	limit  int
}

// NewBidActionPolicy builds a policy with the supplied window and limit.
func NewBidActionPolicy(name string, window time.Duration, limit int) BidActionPolicy {
	return BidActionPolicy{
		name:   strings.ToLower(strings.TrimSpace(name)),
		window: window,
		limit:  limit,
	}
}

func (p BidActionPolicy) enabled() bool {
	return p.window > 0 && p.limit > 0
}

func (p BidActionPolicy) normalizedName() string {
	if p.name == "" {
		return "bid-action"
	}
	return p.name
}

func (p BidActionPolicy) customerKey(customerID string) string {
	if customerID == "" {
		return ""
	}
	return fmt.Sprintf("rl:customer:%s:%s", p.normalizedName(), customerID)
}

// BidActionRateLimit enforces a per-customer counter for bid mutations so a
// misbehaving dashboard cannot hammer the bidding tables.
func BidActionRateLimit(policy BidActionPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			key := policy.customerKey(CustomerIDFromContext(ctx))
			if key == "" {
				// Fall back to IP when the customer middleware has not run.
				key = policy.customerKey(clientIP(r))
			}
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			count, err := store.IncrWithTTL(ctx, key, policy.window)
			if err != nil {
				responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if count > int64(policy.limit) {
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"policy":         policy.normalizedName(),
						"attempts":       count,
						"limit":          policy.limit,
						"window_seconds": int(policy.window.Seconds()),
					})
					logg.Warn(logCtx, "bid.rate_limit.blocked")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
