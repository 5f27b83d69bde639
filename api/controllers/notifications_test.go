package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/autolane/autolane-backend/api/middleware"
	"github.com/autolane/autolane-backend/internal/notifications"
)

type testNotificationsService struct {
	listFn        func(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error)
	markReadFn    func(ctx context.Context, customerID, notificationID uuid.UUID) error
	markAllReadFn func(ctx context.Context, customerID uuid.UUID) (int64, error)
}

func (s *testNotificationsService) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return &notifications.ListResult{}, nil
}

func (s *testNotificationsService) MarkRead(ctx context.Context, customerID, notificationID uuid.UUID) error {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, customerID, notificationID)
	}
	return nil
}

func (s *testNotificationsService) MarkAllRead(ctx context.Context, customerID uuid.UUID) (int64, error) {
	if s.markAllReadFn != nil {
		return s.markAllReadFn(ctx, customerID)
	}
	return 0, nil
}

func (s *testNotificationsService) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func TestMarkNotificationReadSuccess(t *testing.T) {
	customerID := uuid.New()
	notificationID := uuid.New()
	called := false
	svc := &testNotificationsService{
		markReadFn: func(ctx context.Context, cid, nid uuid.UUID) error {
			called = true
			if cid != customerID {
				t.Fatalf("unexpected customer %s", cid)
			}
			if nid != notificationID {
				t.Fatalf("unexpected notification %s", nid)
			}
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/"+notificationID.String()+"/read", nil)
	req = req.WithContext(middleware.WithCustomerID(req.Context(), customerID.String()))
	req = addRouteParam(req, "notificationId", notificationID.String())

	resp := httptest.NewRecorder()
	MarkNotificationRead(svc, testLogger(t))(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !called {
		t.Fatal("expected service called")
	}
	var envelope struct {
		Data map[string]bool `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !envelope.Data["read"] {
		t.Fatal("response missing read flag")
	}
}

func TestMarkNotificationReadMissingCustomer(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/"+uuid.NewString()+"/read", nil)
	req = addRouteParam(req, "notificationId", uuid.NewString())
	resp := httptest.NewRecorder()
	MarkNotificationRead(&testNotificationsService{}, testLogger(t))(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestListNotificationsInvalidLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?limit=-1", nil)
	req = req.WithContext(middleware.WithCustomerID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	ListNotifications(&testNotificationsService{}, testLogger(t))(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListNotificationsPassesParams(t *testing.T) {
	customerID := uuid.New()
	var got notifications.ListParams
	svc := &testNotificationsService{
		listFn: func(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
			got = params
			return &notifications.ListResult{}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?limit=5&cursor=abc&unreadOnly=true", nil)
	req = req.WithContext(middleware.WithCustomerID(req.Context(), customerID.String()))
	resp := httptest.NewRecorder()
	ListNotifications(svc, testLogger(t))(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if got.CustomerID != customerID {
		t.Fatalf("unexpected customer %s", got.CustomerID)
	}
	if got.Limit != 5 || got.Cursor != "abc" || !got.UnreadOnly {
		t.Fatalf("unexpected params %+v", got)
	}
}

func TestMarkAllNotificationsRead(t *testing.T) {
	svc := &testNotificationsService{
		markAllReadFn: func(ctx context.Context, customerID uuid.UUID) (int64, error) {
			return 7, nil
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/read-all", nil)
	req = req.WithContext(middleware.WithCustomerID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	MarkAllNotificationsRead(svc, testLogger(t))(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["updated"] != 7 {
		t.Fatalf("unexpected count %d", envelope.Data["updated"])
	}
}
