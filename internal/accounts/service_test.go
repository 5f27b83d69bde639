package accounts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autolane/autolane-backend/pkg/db/models"
	pkgerrors "github.com/autolane/autolane-backend/pkg/errors"
)

type stubAccountsRepo struct {
	customer *models.Customer
	updates  map[string]any
}

func (s *stubAccountsRepo) FindCustomer(ctx context.Context, customerID uuid.UUID) (*models.Customer, error) {
	if s.customer == nil || s.customer.ID != customerID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.customer, nil
}

func (s *stubAccountsRepo) UpdateCustomer(ctx context.Context, customerID uuid.UUID, updates map[string]any) error {
	s.updates = updates
	for key, value := range updates {
		switch key {
		case "full_name":
			s.customer.FullName = value.(string)
		case "notify_bid_updates":
			s.customer.NotifyBidUpdates = value.(bool)
		}
	}
	return nil
}

func customerFixture() *models.Customer {
	return &models.Customer{
		ID:                    uuid.New(),
		Email:                 "amara@example.com",
		FullName:              "Amara Okafor",
		Country:               "KE",
		Locale:                "en",
		NotifyBidUpdates:      true,
		NotifyShipmentUpdates: true,
	}
}

func TestGetProfile(t *testing.T) {
	repo := &stubAccountsRepo{customer: customerFixture()}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("constructor: %v", err)
	}

	profile, err := svc.Get(context.Background(), repo.customer.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if profile.Email != "amara@example.com" || !profile.NotifyBidUpdates {
		t.Fatalf("unexpected profile %+v", profile)
	}
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	repo := &stubAccountsRepo{customer: customerFixture()}
	svc, _ := NewService(repo)

	name := "A. Okafor"
	optOut := false
	profile, err := svc.Update(context.Background(), repo.customer.ID, UpdateInput{
		FullName:         &name,
		NotifyBidUpdates: &optOut,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if profile.FullName != name {
		t.Fatalf("expected renamed profile, got %q", profile.FullName)
	}
	if profile.NotifyBidUpdates {
		t.Fatal("expected bid updates off")
	}
	if _, ok := repo.updates["country"]; ok {
		t.Fatal("untouched fields must not be written")
	}
}

func TestUpdateRejectsEmptyPatch(t *testing.T) {
	repo := &stubAccountsRepo{customer: customerFixture()}
	svc, _ := NewService(repo)

	_, err := svc.Update(context.Background(), repo.customer.ID, UpdateInput{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateRejectsEmptyName(t *testing.T) {
	repo := &stubAccountsRepo{customer: customerFixture()}
	svc, _ := NewService(repo)

	empty := ""
	_, err := svc.Update(context.Background(), repo.customer.ID, UpdateInput{FullName: &empty})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetUnknownCustomer(t *testing.T) {
	svc, _ := NewService(&stubAccountsRepo{})

	_, err := svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
