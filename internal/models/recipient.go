// internal/models/recipient.go
package models

import "time"

// Recipient roles. Role only matters to callers routing by audience;
// the delivery pipeline itself is role-agnostic.
const (
	RoleSalesExecutive = "sales_executive"
	RoleAdmin          = "admin"
)

// Recipient is a user eligible for push delivery. Every account gets a
// recipient row at creation time, so the pipeline never has to check for
// its existence. FCMToken is empty until the client registers a device.
type Recipient struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	FCMToken  string    `json:"fcmToken,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasToken reports whether the recipient can receive a push.
func (r *Recipient) HasToken() bool {
	return r.FCMToken != ""
}
