package domain

import "time"

type NotificationType string

const (
	NotifRoomStatusChanged NotificationType = "room_status_changed"
	NotifRoomBlocked       NotificationType = "room_blocked"
	NotifRoomUnblocked     NotificationType = "room_unblocked"
	NotifUserOnline        NotificationType = "user_online"
	NotifUserOffline       NotificationType = "user_offline"
)

// SystemSender marks notifications produced by reconciliation rather than by a
// caller.
const SystemSender = "system"

// Notification is pushed to connected staff. Recipients never receive the
// notifications they created themselves.
type Notification struct {
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message,omitempty"`
	Data      map[string]any   `json:"data,omitempty"`
	CreatedBy string           `json:"created_by"`
	CreatedAt time.Time        `json:"created_at"`
}
