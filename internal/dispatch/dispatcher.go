// internal/dispatch/dispatcher.go

// Package dispatch fans a newly created system notification out to its
// push audience. Dispatch runs on a bounded worker pool, decoupled from
// the write that created the notification: the caller hands the persisted
// record over and never blocks on (or learns about) delivery.
package dispatch

import (
	"context"

	"salescrm-notifier/internal/common/logger"
	"salescrm-notifier/internal/common/metrics"
	"salescrm-notifier/internal/common/worker"
	"salescrm-notifier/internal/fcm"
	"salescrm-notifier/internal/models"
)

// RecipientSource is the slice of the recipient store the dispatcher needs.
type RecipientSource interface {
	Get(ctx context.Context, id int64) (*models.Recipient, error)
	ListWithTokens(ctx context.Context) ([]*models.Recipient, error)
}

// PushSender delivers one composed push. Satisfied by *fcm.Client.
type PushSender interface {
	SendTo(ctx context.Context, recipient *models.Recipient, title, body, category string, extra map[string]interface{}) fcm.DeliveryResult
}

type Dispatcher struct {
	recipients RecipientSource
	sender     PushSender
	pool       *worker.Pool
	log        logger.Logger
}

func NewDispatcher(recipients RecipientSource, sender PushSender, pool *worker.Pool, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		recipients: recipients,
		sender:     sender,
		pool:       pool,
		log:        log.WithFields(map[string]interface{}{"component": "dispatcher"}),
	}
}

// DispatchSystemNotification resolves the audience and hands the fan-out to
// the pool. Called exactly once per notification, at creation.
//
// A targeted notification goes to its recipient; an untargeted one is a
// broadcast to every recipient currently holding a token. Each delivery is
// independent: one recipient's failure never blocks the others, and nothing
// here can roll back the notification's persisted state. The caller returns
// as soon as the audience is resolved; it never waits on a delivery.
func (d *Dispatcher) DispatchSystemNotification(ctx context.Context, n *models.SystemNotification) error {
	audience, err := d.resolveAudience(ctx, n)
	if err != nil {
		return err
	}

	metrics.DispatchFanoutSize.Observe(float64(len(audience)))

	// Pool submission blocks when every worker is busy, so the submission
	// loop runs off the creator's goroutine. One coordinator per dispatch;
	// the sends themselves stay bounded by the pool.
	go d.fanOut(n, audience)

	return nil
}

func (d *Dispatcher) fanOut(n *models.SystemNotification, audience []*models.Recipient) {
	for _, recipient := range audience {
		if !recipient.HasToken() {
			continue
		}
		r := recipient
		err := d.pool.SubmitDetached(func(taskCtx context.Context) {
			res := d.sender.SendTo(taskCtx, r, n.Title, n.Message, n.Type, extraData(n))
			if !res.Success {
				d.log.Warn("system notification delivery failed", map[string]interface{}{
					"notificationId": n.ID,
					"recipientId":    r.ID,
					"retryable":      res.Retryable,
					"error":          res.Error,
				})
			}
		})
		if err != nil {
			d.log.Error("dispatch submit failed", map[string]interface{}{
				"notificationId": n.ID,
				"recipientId":    r.ID,
				"error":          err,
			})
		}
	}
}

func (d *Dispatcher) resolveAudience(ctx context.Context, n *models.SystemNotification) ([]*models.Recipient, error) {
	if n.RecipientID != nil {
		recipient, err := d.recipients.Get(ctx, *n.RecipientID)
		if err != nil {
			return nil, err
		}
		return []*models.Recipient{recipient}, nil
	}
	return d.recipients.ListWithTokens(ctx)
}

// extraData carries the notification's identity into the push data block so
// the app can route taps. The body keys mirror what the in-app inbox shows.
func extraData(n *models.SystemNotification) map[string]interface{} {
	data := map[string]interface{}{
		"type":              "system_notification",
		"notification_type": n.Type,
		"notification_id":   n.ID,
		"title":             n.Title,
		"body":              n.Message,
	}
	if n.Link != "" {
		data["link"] = n.Link
	}
	return data
}
