package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

type stubLimiterStore struct {
	counts map[string]int64
	err    error
}

func (s *stubLimiterStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.counts == nil {
		s.counts = map[string]int64{}
	}
	s.counts[key]++
	return s.counts[key], nil
}

func limitedRequest(customerID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bids/"+uuid.NewString()+"/change", nil)
	if customerID != "" {
		req = req.WithContext(WithCustomerID(req.Context(), customerID))
	}
	return req
}

func TestBidActionRateLimitBlocksOverLimit(t *testing.T) {
	policy := NewBidActionPolicy("bid-action", time.Minute, 2)
	store := &stubLimiterStore{}
	customerID := uuid.NewString()

	handled := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handled++
	})
	handler := BidActionRateLimit(policy, store, testLogger(t))(next)

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, limitedRequest(customerID))
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d unexpectedly blocked with %d", i+1, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, limitedRequest(customerID))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
	if handled != 2 {
		t.Fatalf("expected 2 handled requests, got %d", handled)
	}
}

func TestBidActionRateLimitSeparateCustomers(t *testing.T) {
	policy := NewBidActionPolicy("bid-action", time.Minute, 1)
	store := &stubLimiterStore{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := BidActionRateLimit(policy, store, testLogger(t))(next)

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, limitedRequest(uuid.NewString()))
		if resp.Code != http.StatusOK {
			t.Fatalf("distinct customers should not share a counter, got %d", resp.Code)
		}
	}
}

func TestBidActionRateLimitDisabledPolicy(t *testing.T) {
	policy := NewBidActionPolicy("bid-action", 0, 0)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := BidActionRateLimit(policy, &stubLimiterStore{}, testLogger(t))(next)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, limitedRequest(uuid.NewString()))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("disabled policy should pass through, got %d", resp.Code)
	}
}
