package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/autolane/autolane-backend/api/middleware"
	"github.com/autolane/autolane-backend/internal/bids"
	pkgerrors "github.com/autolane/autolane-backend/pkg/errors"
	"github.com/autolane/autolane-backend/pkg/pagination"
)

type testBidsService struct {
	listFn   func(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters bids.Filters) (*bids.BidList, error)
	getFn    func(ctx context.Context, customerID, bidID uuid.UUID) (*bids.BidSummary, error)
	changeFn func(ctx context.Context, input bids.ChangeBidInput) (*bids.ChangeBidResult, error)
	cancelFn func(ctx context.Context, input bids.CancelBidInput) (*bids.CancelBidResult, error)
}

func (s *testBidsService) List(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters bids.Filters) (*bids.BidList, error) {
	if s.listFn != nil {
		return s.listFn(ctx, customerID, params, filters)
	}
	return &bids.BidList{}, nil
}

func (s *testBidsService) Get(ctx context.Context, customerID, bidID uuid.UUID) (*bids.BidSummary, error) {
	if s.getFn != nil {
		return s.getFn(ctx, customerID, bidID)
	}
	return &bids.BidSummary{}, nil
}

func (s *testBidsService) ChangeBid(ctx context.Context, input bids.ChangeBidInput) (*bids.ChangeBidResult, error) {
	if s.changeFn != nil {
		return s.changeFn(ctx, input)
	}
	return &bids.ChangeBidResult{}, nil
}

func (s *testBidsService) CancelBid(ctx context.Context, input bids.CancelBidInput) (*bids.CancelBidResult, error) {
	if s.cancelFn != nil {
		return s.cancelFn(ctx, input)
	}
	return &bids.CancelBidResult{}, nil
}

func TestChangeBidSuccess(t *testing.T) {
	customerID := uuid.New()
	bidID := uuid.New()
	var captured bids.ChangeBidInput
	svc := &testBidsService{
		changeFn: func(ctx context.Context, input bids.ChangeBidInput) (*bids.ChangeBidResult, error) {
			captured = input
			return &bids.ChangeBidResult{
				Bid:    bids.BidSummary{ID: uuid.New(), AmountJPY: input.AmountJPY},
				Urgent: true,
			}, nil
		},
	}

	body := strings.NewReader(`{"amountJpy": 610000}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bids/"+bidID.String()+"/change", body)
	req = req.WithContext(middleware.WithCustomerID(req.Context(), customerID.String()))
	req = addRouteParam(req, "bidId", bidID.String())

	resp := httptest.NewRecorder()
	ChangeBid(svc, testLogger(t))(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if captured.BidID != bidID {
		t.Fatalf("unexpected bid id %s", captured.BidID)
	}
	if captured.CustomerID != customerID {
		t.Fatalf("unexpected customer id %s", captured.CustomerID)
	}
	if !captured.AmountJPY.Equal(decimal.NewFromInt(610000)) {
		t.Fatalf("unexpected amount %s", captured.AmountJPY)
	}

	var envelope struct {
		Data bids.ChangeBidResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !envelope.Data.Urgent {
		t.Fatal("expected urgent flag in response")
	}
}

func TestChangeBidMissingCustomer(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bids/"+uuid.NewString()+"/change", strings.NewReader(`{"amountJpy": 610000}`))
	req = addRouteParam(req, "bidId", uuid.NewString())
	resp := httptest.NewRecorder()
	ChangeBid(&testBidsService{}, testLogger(t))(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestChangeBidInvalidBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bids/"+uuid.NewString()+"/change", strings.NewReader(`{"amountJpy": 610000, "extra": true}`))
	req = req.WithContext(middleware.WithCustomerID(req.Context(), uuid.NewString()))
	req = addRouteParam(req, "bidId", uuid.NewString())
	resp := httptest.NewRecorder()
	ChangeBid(&testBidsService{}, testLogger(t))(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCancelBidStateConflictMapsTo422(t *testing.T) {
	svc := &testBidsService{
		cancelFn: func(ctx context.Context, input bids.CancelBidInput) (*bids.CancelBidResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "bid already canceled")
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bids/"+uuid.NewString()+"/cancel", nil)
	req = req.WithContext(middleware.WithCustomerID(req.Context(), uuid.NewString()))
	req = addRouteParam(req, "bidId", uuid.NewString())
	resp := httptest.NewRecorder()
	CancelBid(svc, testLogger(t))(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeStateConflict) {
		t.Fatalf("unexpected error code %s", envelope.Error.Code)
	}
	if envelope.Error.Message != "bid already canceled" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestListBidsInvalidStatusFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bids?status=bogus", nil)
	req = req.WithContext(middleware.WithCustomerID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	ListBids(&testBidsService{}, testLogger(t))(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListBidsPassesFilters(t *testing.T) {
	var gotFilters bids.Filters
	var gotParams pagination.Params
	svc := &testBidsService{
		listFn: func(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters bids.Filters) (*bids.BidList, error) {
			gotFilters = filters
			gotParams = params
			return &bids.BidList{}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bids?live=true&limit=10&cursor=abc", nil)
	req = req.WithContext(middleware.WithCustomerID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	ListBids(svc, testLogger(t))(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !gotFilters.Live {
		t.Fatal("expected live filter")
	}
	if gotParams.Limit != 10 || gotParams.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", gotParams)
	}
}
