package realtime

import "fmt"

// Event names carried on the bus. These strings are the wire contract with
// connected clients and must be preserved byte-for-byte.
const (
	EventNewOrder          = "new_order"
	EventOrderCreated      = "order_created"
	EventOrderUpdated      = "order_updated"
	EventOrderCancelled    = "order_cancelled"
	EventOrderQueueUpdated = "order_queue_updated"
	EventPrinterCreated    = "printer_created"
	EventPrinterUpdated    = "printer_updated"
	EventPrinterDeleted    = "printer_deleted"
	EventNotification      = "notification"
	EventViolationCreated  = "violation_created"
	EventViolationSettled  = "violation_settled"
	EventAccountApproved   = "account_approved"
	EventUserBanned        = "user_banned"
	EventUserUnbanned      = "user_unbanned"
	EventPricingUpdated    = "pricing_updated"
)

// Event is one tagged message delivered to subscribers. Every event name has
// a fixed payload shape; subscribers never receive free-form objects.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload"`
}

// RoomBroadcast is the room every connected client belongs to. Printer
// visibility changes go here since any client may be viewing a printer list.
const RoomBroadcast = "broadcast"

// UserRoom returns the per-user room name.
func UserRoom(userID int64) string {
	return fmt.Sprintf("user_%d", userID)
}
