// internal/fcm/message.go
package fcm

import "fmt"

// Message is the FCM HTTP v1 message object, posted as {"message": ...}.
type Message struct {
	Token        string            `json:"token"`
	Notification Notification      `json:"notification"`
	Data         map[string]string `json:"data"`
	Android      AndroidConfig     `json:"android"`
	APNS         APNSConfig        `json:"apns"`
	Webpush      WebpushConfig     `json:"webpush"`
}

type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type AndroidConfig struct {
	Priority     string              `json:"priority"`
	Notification AndroidNotification `json:"notification"`
}

type AndroidNotification struct {
	Sound     string `json:"sound"`
	ChannelID string `json:"channel_id"`
}

type APNSConfig struct {
	Headers map[string]string `json:"headers"`
	Payload APNSPayload       `json:"payload"`
}

type APNSPayload struct {
	APS APS `json:"aps"`
}

type APS struct {
	Sound string `json:"sound"`
	Badge int    `json:"badge"`
}

type WebpushConfig struct {
	Notification WebpushNotification `json:"notification"`
	FCMOptions   WebpushFCMOptions   `json:"fcm_options"`
}

type WebpushNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
	Badge string `json:"badge"`
}

type WebpushFCMOptions struct {
	Link string `json:"link"`
}

// ComposeMessage builds the full platform message for one device token.
// Pure: no I/O, deterministic for given inputs.
//
// The data block always carries type, title and body; extra entries are
// merged on top with values coerced to strings (nil becomes ""). Delivery
// hints (high priority, default sound, fixed channel) are replicated across
// android, apns and webpush so behavior is uniform regardless of the
// recipient's platform.
func ComposeMessage(token, title, body, category string, extra map[string]interface{}) Message {
	data := map[string]string{
		"type":  category,
		"title": title,
		"body":  body,
	}
	for k, v := range extra {
		if v == nil {
			data[k] = ""
			continue
		}
		switch s := v.(type) {
		case string:
			data[k] = s
		default:
			data[k] = fmt.Sprintf("%v", v)
		}
	}

	link := data["link"]
	if link == "" {
		link = "/"
	}

	return Message{
		Token:        token,
		Notification: Notification{Title: title, Body: body},
		Data:         data,
		Android: AndroidConfig{
			Priority: "high",
			Notification: AndroidNotification{
				Sound:     "default",
				ChannelID: "high_importance_channel",
			},
		},
		APNS: APNSConfig{
			Headers: map[string]string{"apns-priority": "10"},
			Payload: APNSPayload{APS: APS{Sound: "default", Badge: 1}},
		},
		Webpush: WebpushConfig{
			Notification: WebpushNotification{
				Title: title,
				Body:  body,
				Icon:  "/favicon.ico",
				Badge: "/favicon.ico",
			},
			FCMOptions: WebpushFCMOptions{Link: link},
		},
	}
}
