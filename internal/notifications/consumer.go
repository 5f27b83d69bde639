package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/autolane/autolane-backend/pkg/db/models"
	"github.com/autolane/autolane-backend/pkg/enums"
	"github.com/autolane/autolane-backend/pkg/logger"
	"github.com/autolane/autolane-backend/pkg/outbox"
	"github.com/autolane/autolane-backend/pkg/outbox/idempotency"
	"github.com/autolane/autolane-backend/pkg/outbox/payloads"
)

const notificationsConsumer = "notifications-worker"

type consumerRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindCustomer(ctx context.Context, customerID uuid.UUID) (*models.Customer, error)
}

// Consumer watches domain events and turns them into in-app notification
// rows, honoring each customer's notification preferences.
type Consumer struct {
	repo         consumerRepository
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds the notifications consumer.
func NewConsumer(repo consumerRepository, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	builder, handled := builders[eventType]
	if !handled {
		c.logg.Info(logCtx, "event carries no notification")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, notificationsConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	notification, err := builder(envelope.Data)
	if err != nil {
		c.logg.Error(logCtx, "failed to parse payload", err)
		_ = c.idempotency.Delete(ctx, notificationsConsumer, eventID)
		return processResult{nack: true}
	}

	logCtx = c.logg.WithCustomerID(logCtx, notification.CustomerID.String())
	if err := c.deliver(ctx, notification, logCtx); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, notificationsConsumer, eventID)
		return processResult{nack: true}
	}
	return processResult{ack: true}
}

func (c *Consumer) deliver(ctx context.Context, notification *models.Notification, logCtx context.Context) error {
	if notification.CustomerID == uuid.Nil {
		return fmt.Errorf("customer id missing")
	}

	customer, err := c.repo.FindCustomer(ctx, notification.CustomerID)
	if err != nil {
		return fmt.Errorf("load customer: %w", err)
	}
	if !wantsNotification(customer, notification.Type) {
		c.logg.Info(logCtx, "customer opted out of this notification type")
		return nil
	}

	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(logCtx, "notification created")
	return nil
}

func wantsNotification(customer *models.Customer, kind enums.NotificationType) bool {
	switch kind {
	case enums.NotificationTypeBidChanged, enums.NotificationTypeBidCanceled,
		enums.NotificationTypeOutbid, enums.NotificationTypeAuctionWon,
		enums.NotificationTypeTranslationCompleted:
		return customer.NotifyBidUpdates
	case enums.NotificationTypeShipmentUpdate, enums.NotificationTypeInspectionCompleted:
		return customer.NotifyShipmentUpdates
	default:
		return true
	}
}

type notificationBuilder func(data json.RawMessage) (*models.Notification, error)

var builders = map[enums.OutboxEventType]notificationBuilder{
	enums.EventBidChanged:            buildBidChanged,
	enums.EventBidCanceled:           buildBidCanceled,
	enums.EventBidOutbid:             buildBidOutbid,
	enums.EventAuctionWon:            buildAuctionWon,
	enums.EventShipmentStageAdvanced: buildStageAdvanced,
	enums.EventInspectionCompleted:   buildInspectionCompleted,
	enums.EventTranslationCompleted:  buildTranslationCompleted,
}

func buildBidChanged(data json.RawMessage) (*models.Notification, error) {
	var payload payloads.BidChangedEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &models.Notification{
		CustomerID: payload.CustomerID,
		Type:       enums.NotificationTypeBidChanged,
		Title:      "Bid updated",
		Message:    fmt.Sprintf("Your bid was changed to ¥%s.", payload.NewAmount.StringFixed(0)),
		Link:       linkPtr("/bids/%s", payload.NewBidID),
	}, nil
}

func buildBidCanceled(data json.RawMessage) (*models.Notification, error) {
	var payload payloads.BidCanceledEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &models.Notification{
		CustomerID: payload.CustomerID,
		Type:       enums.NotificationTypeBidCanceled,
		Title:      "Bid canceled",
		Message:    fmt.Sprintf("Your bid of ¥%s was canceled.", payload.AmountJPY.StringFixed(0)),
		Link:       linkPtr("/bids/%s", payload.BidID),
	}, nil
}

func buildBidOutbid(data json.RawMessage) (*models.Notification, error) {
	var payload payloads.BidOutbidEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &models.Notification{
		CustomerID: payload.CustomerID,
		Type:       enums.NotificationTypeOutbid,
		Title:      "You were outbid",
		Message:    fmt.Sprintf("The highest bid is now ¥%s. Raise yours to stay in the race.", payload.HighestBidJPY.StringFixed(0)),
		Link:       linkPtr("/bids/%s", payload.BidID),
	}, nil
}

func buildAuctionWon(data json.RawMessage) (*models.Notification, error) {
	var payload payloads.AuctionWonEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &models.Notification{
		CustomerID: payload.CustomerID,
		Type:       enums.NotificationTypeAuctionWon,
		Title:      "Auction won",
		Message:    fmt.Sprintf("Congratulations, you won the lot at ¥%s. Complete payment to start shipping.", payload.AmountJPY.StringFixed(0)),
		Link:       linkPtr("/bids/%s", payload.BidID),
	}, nil
}

func buildStageAdvanced(data json.RawMessage) (*models.Notification, error) {
	var payload payloads.ShipmentStageAdvancedEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &models.Notification{
		CustomerID: payload.CustomerID,
		Type:       enums.NotificationTypeShipmentUpdate,
		Title:      "Shipment update",
		Message:    fmt.Sprintf("Stage %q completed. Your shipment is %d%% of the way there.", payload.StageKey, payload.OverallProgress),
		Link:       linkPtr("/shipments/%s/timeline", payload.ShipmentID),
	}, nil
}

func buildInspectionCompleted(data json.RawMessage) (*models.Notification, error) {
	var payload payloads.InspectionCompletedEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &models.Notification{
		CustomerID: payload.CustomerID,
		Type:       enums.NotificationTypeInspectionCompleted,
		Title:      "Inspection complete",
		Message:    fmt.Sprintf("%s finished the pre-export inspection of your vehicle.", payload.Company),
		Link:       linkPtr("/shipments/%s/timeline", payload.ShipmentID),
	}, nil
}

func buildTranslationCompleted(data json.RawMessage) (*models.Notification, error) {
	var payload payloads.TranslationCompletedEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &models.Notification{
		CustomerID: payload.CustomerID,
		Type:       enums.NotificationTypeTranslationCompleted,
		Title:      "Translation ready",
		Message:    "The auction sheet translation you requested is ready.",
		Link:       linkPtr("/auctions/%s", payload.AuctionID),
	}, nil
}

func linkPtr(format string, id uuid.UUID) *string {
	link := fmt.Sprintf(format, id)
	return &link
}
