// internal/fcm/message_test.go
package fcm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeMessage_DataBlock(t *testing.T) {
	msg := ComposeMessage("tok-1", "Hello", "World", "followup_reminder", nil)

	assert.Equal(t, "tok-1", msg.Token)
	assert.Equal(t, "Hello", msg.Notification.Title)
	assert.Equal(t, "World", msg.Notification.Body)
	assert.Equal(t, map[string]string{
		"type":  "followup_reminder",
		"title": "Hello",
		"body":  "World",
	}, msg.Data)
}

func TestComposeMessage_ExtraDataCoercion(t *testing.T) {
	msg := ComposeMessage("tok-1", "T", "B", "system", map[string]interface{}{
		"link":  "/x",
		"count": nil,
		"id":    42,
	})

	// nil values become empty strings, never missing keys or non-strings
	assert.Equal(t, "/x", msg.Data["link"])
	assert.Contains(t, msg.Data, "count")
	assert.Equal(t, "", msg.Data["count"])
	assert.Equal(t, "42", msg.Data["id"])
}

func TestComposeMessage_DeliveryHints(t *testing.T) {
	msg := ComposeMessage("tok-1", "T", "B", "system", nil)

	assert.Equal(t, "high", msg.Android.Priority)
	assert.Equal(t, "default", msg.Android.Notification.Sound)
	assert.Equal(t, "high_importance_channel", msg.Android.Notification.ChannelID)
	assert.Equal(t, "10", msg.APNS.Headers["apns-priority"])
	assert.Equal(t, "default", msg.APNS.Payload.APS.Sound)
	assert.Equal(t, "T", msg.Webpush.Notification.Title)
	assert.Equal(t, "/", msg.Webpush.FCMOptions.Link)
}

func TestComposeMessage_WebpushLinkFromExtra(t *testing.T) {
	msg := ComposeMessage("tok-1", "T", "B", "system", map[string]interface{}{
		"link": "/leads/7",
	})
	assert.Equal(t, "/leads/7", msg.Webpush.FCMOptions.Link)
}

func TestComposeMessage_Deterministic(t *testing.T) {
	a := ComposeMessage("tok", "T", "B", "c", map[string]interface{}{"k": "v"})
	b := ComposeMessage("tok", "T", "B", "c", map[string]interface{}{"k": "v"})
	assert.Equal(t, a, b)
}

func TestComposeMessage_ExtraOverridesBaseKeys(t *testing.T) {
	// The dispatcher sets its own "type" in extra data; it must win.
	msg := ComposeMessage("tok", "T", "B", "new_lead", map[string]interface{}{
		"type": "system_notification",
	})
	assert.Equal(t, "system_notification", msg.Data["type"])
}
