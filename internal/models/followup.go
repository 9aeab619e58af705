// internal/models/followup.go
package models

import "time"

// FollowUp is a scheduled reminder tied to a customer relationship.
// RecipientID is nullable: an unassigned follow-up is never reminded.
// ReminderSent flips false->true once per due date, only by the sweep,
// and is never reset by it.
type FollowUp struct {
	ID           int64      `json:"id"`
	CustomerName string     `json:"customerName"`
	RecipientID  *int64     `json:"recipientId,omitempty"`
	DueAt        time.Time  `json:"dueAt"`
	Notes        string     `json:"notes,omitempty"`
	ReminderSent bool       `json:"reminderSent"`
	Completed    bool       `json:"completed"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
