// internal/models/notification.go
package models

import "time"

// System-notification categories, mirrored into the push data block as "type".
const (
	NotifTypeNewLead          = "new_lead"
	NotifTypeNewVisit         = "new_visit"
	NotifTypeFollowupDue      = "followup_due"
	NotifTypeFollowupReminder = "followup_reminder"
	NotifTypeLeadStatusChange = "lead_status_change"
	NotifTypeVisitReminder    = "visit_reminder"
	NotifTypeSystem           = "system"
	NotifTypeInfo             = "info"
)

// SystemNotification is an in-app notification. A nil RecipientID means
// broadcast to every recipient holding a token. Creation triggers push
// fan-out exactly once; updates (read-state) never do.
type SystemNotification struct {
	ID          string     `json:"id"`
	RecipientID *int64     `json:"recipientId,omitempty"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	Type        string     `json:"type"`
	Icon        string     `json:"icon,omitempty"`
	Link        string     `json:"link,omitempty"`
	IsRead      bool       `json:"isRead"`
	CreatedAt   time.Time  `json:"createdAt"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
}

// DeliveryLog is the immutable audit record of one push-send attempt.
// Created exactly once per attempt by the delivery client, never mutated.
type DeliveryLog struct {
	ID          int64     `json:"id"`
	RecipientID int64     `json:"recipientId"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Category    string    `json:"category"`
	FCMToken    string    `json:"fcmToken,omitempty"`
	Success     bool      `json:"success"`
	ErrorDetail string    `json:"errorDetail,omitempty"`
	SentAt      time.Time `json:"sentAt"`
}
