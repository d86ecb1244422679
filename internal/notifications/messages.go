package notifications

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
)

// OrderUpdate is sent to the order's owner after every status change.
func OrderUpdate(order models.Order) models.Notification {
	return models.Notification{
		UserID:  order.UserID,
		Title:   "Order Status Updated",
		Message: fmt.Sprintf("Your order #%s is now %s", ShortID(order.ID), order.Status),
		Type:    enums.NotificationTypeOrderUpdate,
	}
}

// LowStock builds one alert per admin for an item at or below its minimum.
func LowStock(adminIDs []uuid.UUID, item models.InventoryItem) []models.Notification {
	msg := fmt.Sprintf("%s is running low (%s %s remaining)", item.ItemName, item.CurrentStock.String(), item.Unit)
	return fanout(adminIDs, "Low Stock Alert", msg, enums.NotificationTypeInventoryAlert)
}

// Expiring builds one alert per admin for an item close to its expiry date.
// days is the whole number of days left; negative means already expired.
func Expiring(adminIDs []uuid.UUID, item models.InventoryItem, days int) []models.Notification {
	var msg string
	switch {
	case days < 0:
		msg = fmt.Sprintf("%s has expired", item.ItemName)
	case days == 0:
		msg = fmt.Sprintf("%s expires today", item.ItemName)
	case days == 1:
		msg = fmt.Sprintf("%s expires in 1 day", item.ItemName)
	default:
		msg = fmt.Sprintf("%s expires in %d days", item.ItemName, days)
	}
	return fanout(adminIDs, "Expiry Alert", msg, enums.NotificationTypeExpiryAlert)
}

// ShortID is the first eight characters of an id, used as an order number.
func ShortID(id uuid.UUID) string {
	return id.String()[:8]
}

func fanout(userIDs []uuid.UUID, title, message string, kind enums.NotificationType) []models.Notification {
	out := make([]models.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		out = append(out, models.Notification{UserID: id, Title: title, Message: message, Type: kind})
	}
	return out
}
