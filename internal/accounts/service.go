// Package accounts manages customer profile and notification preferences.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autolane/autolane-backend/pkg/db/models"
	pkgerrors "github.com/autolane/autolane-backend/pkg/errors"
)

// Repository reads and writes customer rows.
type Repository interface {
	FindCustomer(ctx context.Context, customerID uuid.UUID) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, customerID uuid.UUID, updates map[string]any) error
}

// Profile is the caller-facing account view.
type Profile struct {
	ID                    uuid.UUID `json:"id"`
	Email                 string    `json:"email"`
	FullName              string    `json:"fullName"`
	Country               string    `json:"country"`
	PreferredPort         *string   `json:"preferredPort,omitempty"`
	Locale                string    `json:"locale"`
	NotifyBidUpdates      bool      `json:"notifyBidUpdates"`
	NotifyShipmentUpdates bool      `json:"notifyShipmentUpdates"`
	CreatedAt             time.Time `json:"createdAt"`
}

// UpdateInput carries a partial profile update; nil fields are untouched.
type UpdateInput struct {
	FullName              *string
	Country               *string
	PreferredPort         *string
	Locale                *string
	NotifyBidUpdates      *bool
	NotifyShipmentUpdates *bool
}

// Service exposes account reads and updates.
type Service interface {
	Get(ctx context.Context, customerID uuid.UUID) (*Profile, error)
	Update(ctx context.Context, customerID uuid.UUID, input UpdateInput) (*Profile, error)
}

type service struct {
	repo Repository
}

// NewService builds an accounts service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, customerID uuid.UUID) (*Profile, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	customer, err := s.loadCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	profile := mapProfile(*customer)
	return &profile, nil
}

func (s *service) Update(ctx context.Context, customerID uuid.UUID, input UpdateInput) (*Profile, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	updates := map[string]any{}
	if input.FullName != nil {
		if *input.FullName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name cannot be empty")
		}
		updates["full_name"] = *input.FullName
	}
	if input.Country != nil {
		if *input.Country == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "country cannot be empty")
		}
		updates["country"] = *input.Country
	}
	if input.PreferredPort != nil {
		updates["preferred_port"] = *input.PreferredPort
	}
	if input.Locale != nil {
		if *input.Locale == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "locale cannot be empty")
		}
		updates["locale"] = *input.Locale
	}
	if input.NotifyBidUpdates != nil {
		updates["notify_bid_updates"] = *input.NotifyBidUpdates
	}
	if input.NotifyShipmentUpdates != nil {
		updates["notify_shipment_updates"] = *input.NotifyShipmentUpdates
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if _, err := s.loadCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCustomer(ctx, customerID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}

	customer, err := s.loadCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	profile := mapProfile(*customer)
	return &profile, nil
}

func (s *service) loadCustomer(ctx context.Context, customerID uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func mapProfile(customer models.Customer) Profile {
	return Profile{
		ID:                    customer.ID,
		Email:                 customer.Email,
		FullName:              customer.FullName,
		Country:               customer.Country,
		PreferredPort:         customer.PreferredPort,
		Locale:                customer.Locale,
		NotifyBidUpdates:      customer.NotifyBidUpdates,
		NotifyShipmentUpdates: customer.NotifyShipmentUpdates,
		CreatedAt:             customer.CreatedAt,
	}
}
