// internal/fcm/client.go
package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"salescrm-notifier/internal/common/config"
	apperrors "salescrm-notifier/internal/common/errors"
	"salescrm-notifier/internal/common/logger"
	"salescrm-notifier/internal/common/metrics"
	"salescrm-notifier/internal/common/observability"
	"salescrm-notifier/internal/models"
)

// DeliveryResult is the outcome of one push attempt. Error is empty on
// success; on failure it carries the classified cause, and Retryable
// reports whether the same attempt could plausibly succeed later.
type DeliveryResult struct {
	Success   bool
	Error     string
	Retryable bool
}

// LogAppender is the slice of the delivery-log store the client needs.
type LogAppender interface {
	Append(ctx context.Context, entry *models.DeliveryLog) error
}

// Client performs the synchronous FCM HTTP v1 send and records the outcome.
// It never retries; retry policy belongs to callers.
type Client struct {
	cfg        config.FCMConfig
	creds      TokenProvider
	logs       LogAppender
	httpClient *http.Client
	log        logger.Logger
	obs        *observability.Observability
}

// NewClient builds the delivery client. obs may be nil.
func NewClient(cfg config.FCMConfig, creds TokenProvider, logs LogAppender, log logger.Logger, obs *observability.Observability) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:        cfg,
		creds:      creds,
		logs:       logs,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
		obs:        obs,
	}
}

// fcmErrorBody is the structured non-200 response shape.
type fcmErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Send delivers one composed message to one recipient.
//
// Preconditions and outcomes:
//   - no registration token: immediate failure, no network call, no log row;
//   - credential failure: one log row with the cause, no network call;
//   - otherwise exactly one POST and exactly one log row, with Success
//     matching the transport/service outcome.
func (c *Client) Send(ctx context.Context, recipient *models.Recipient, category string, msg Message) DeliveryResult {
	if !recipient.HasToken() {
		metrics.PushDeliveriesFailed.WithLabelValues(category, string(apperrors.ErrCodeMissingFCMToken)).Inc()
		return DeliveryResult{Success: false, Error: apperrors.NewMissingTokenError(recipient.ID).Error()}
	}

	metrics.PushDeliveriesAttempted.WithLabelValues(category).Inc()
	start := time.Now()
	defer func() {
		metrics.PushDeliveryDuration.WithLabelValues(category).Observe(time.Since(start).Seconds())
	}()

	accessToken, err := c.creds.AccessToken(ctx)
	if err != nil {
		credErr := apperrors.NewCredentialError(err)
		c.record(ctx, recipient, category, msg, false, "Failed to get OAuth2 access token: "+err.Error())
		metrics.PushDeliveriesFailed.WithLabelValues(category, string(credErr.Code)).Inc()
		return DeliveryResult{Success: false, Error: credErr.Details, Retryable: apperrors.IsRetryable(credErr)}
	}

	body, err := json.Marshal(map[string]interface{}{"message": msg})
	if err != nil {
		// Only reachable with a corrupt message value; treated as transport.
		c.record(ctx, recipient, category, msg, false, err.Error())
		metrics.PushDeliveriesFailed.WithLabelValues(category, string(apperrors.ErrCodeFCMTransport)).Inc()
		return DeliveryResult{Success: false, Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.SendURL(), bytes.NewReader(body))
	if err != nil {
		c.record(ctx, recipient, category, msg, false, err.Error())
		metrics.PushDeliveriesFailed.WithLabelValues(category, string(apperrors.ErrCodeFCMTransport)).Inc()
		return DeliveryResult{Success: false, Error: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeout, DNS, connection reset: same handling as a rejection.
		transportErr := apperrors.NewTransportError(err)
		c.record(ctx, recipient, category, msg, false, err.Error())
		metrics.PushDeliveriesFailed.WithLabelValues(category, string(transportErr.Code)).Inc()
		return DeliveryResult{Success: false, Error: err.Error(), Retryable: apperrors.IsRetryable(transportErr)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		c.record(ctx, recipient, category, msg, true, "")
		return DeliveryResult{Success: true}
	}

	raw, _ := io.ReadAll(resp.Body)
	detail := string(raw)
	var parsed fcmErrorBody
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error.Message != "" {
		detail = parsed.Error.Message
	}

	rejErr := apperrors.NewRejectedError(resp.StatusCode, detail)
	c.record(ctx, recipient, category, msg, false, detail)
	metrics.PushDeliveriesFailed.WithLabelValues(category, string(rejErr.Code)).Inc()

	c.log.Warn("fcm rejected message", map[string]interface{}{
		"recipientId": recipient.ID,
		"status":      resp.StatusCode,
		"detail":      detail,
	})
	return DeliveryResult{Success: false, Error: detail, Retryable: apperrors.IsRetryable(rejErr)}
}

// SendTo composes and delivers in one step. This is the form the scanner,
// dispatcher and service facade use.
func (c *Client) SendTo(ctx context.Context, recipient *models.Recipient, title, body, category string, extra map[string]interface{}) DeliveryResult {
	msg := ComposeMessage(recipient.FCMToken, title, body, category, extra)
	return c.Send(ctx, recipient, category, msg)
}

// record appends exactly one delivery-log row for this attempt. A failed
// append is logged but does not change the delivery outcome.
func (c *Client) record(ctx context.Context, recipient *models.Recipient, category string, msg Message, success bool, errDetail string) {
	entry := &models.DeliveryLog{
		RecipientID: recipient.ID,
		Title:       msg.Notification.Title,
		Message:     msg.Notification.Body,
		Category:    category,
		FCMToken:    msg.Token,
		Success:     success,
		ErrorDetail: errDetail,
	}
	if err := c.logs.Append(ctx, entry); err != nil {
		c.log.Error("delivery log append failed", map[string]interface{}{
			"recipientId": recipient.ID,
			"error":       err,
		})
	}

	if c.obs != nil {
		status := "success"
		if !success {
			status = "failed"
		}
		c.obs.RecordDelivery(ctx, status)
	}
}
