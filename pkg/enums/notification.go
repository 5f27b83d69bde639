package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeBidChanged           NotificationType = "bid_changed"
	NotificationTypeBidCanceled          NotificationType = "bid_canceled"
	NotificationTypeOutbid               NotificationType = "outbid"
	NotificationTypeAuctionWon           NotificationType = "auction_won"
	NotificationTypeShipmentUpdate       NotificationType = "shipment_update"
	NotificationTypeInspectionCompleted  NotificationType = "inspection_completed"
	NotificationTypeTranslationCompleted NotificationType = "translation_completed"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeBidChanged,
	NotificationTypeBidCanceled,
	NotificationTypeOutbid,
	NotificationTypeAuctionWon,
	NotificationTypeShipmentUpdate,
	NotificationTypeInspectionCompleted,
	NotificationTypeTranslationCompleted,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
