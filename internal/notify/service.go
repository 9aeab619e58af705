// internal/notify/service.go

// Package notify is the facade the rest of the CRM calls into. It hides the
// compose/send/log pipeline behind two operations: a direct push to one
// user, and system-notification creation with fire-and-forget fan-out.
package notify

import (
	"context"

	"salescrm-notifier/internal/common/logger"
	"salescrm-notifier/internal/fcm"
	"salescrm-notifier/internal/models"
	"salescrm-notifier/internal/store"
)

// RecipientSource resolves recipients for direct sends.
type RecipientSource interface {
	Get(ctx context.Context, id int64) (*models.Recipient, error)
}

// NotificationStore persists system notifications.
type NotificationStore interface {
	Create(ctx context.Context, p store.CreateParams) (*models.SystemNotification, error)
}

// PushSender delivers one composed push. Satisfied by *fcm.Client.
type PushSender interface {
	SendTo(ctx context.Context, recipient *models.Recipient, title, body, category string, extra map[string]interface{}) fcm.DeliveryResult
}

// NotificationDispatcher fans a created notification out to its audience.
type NotificationDispatcher interface {
	DispatchSystemNotification(ctx context.Context, n *models.SystemNotification) error
}

type Service struct {
	recipients    RecipientSource
	notifications NotificationStore
	sender        PushSender
	dispatcher    NotificationDispatcher
	log           logger.Logger
}

func NewService(recipients RecipientSource, notifications NotificationStore, sender PushSender, dispatcher NotificationDispatcher, log logger.Logger) *Service {
	return &Service{
		recipients:    recipients,
		notifications: notifications,
		sender:        sender,
		dispatcher:    dispatcher,
		log:           log.WithFields(map[string]interface{}{"component": "notify-service"}),
	}
}

// SendNotification pushes a message to one user and reports whether the
// delivery was accepted. Failures are absorbed into the delivery log; the
// boolean is the only synchronous surface collaborators get.
func (s *Service) SendNotification(ctx context.Context, recipientID int64, title, body, category string) bool {
	recipient, err := s.recipients.Get(ctx, recipientID)
	if err != nil {
		s.log.Warn("recipient not found", map[string]interface{}{
			"recipientId": recipientID,
			"error":       err,
		})
		return false
	}
	res := s.sender.SendTo(ctx, recipient, title, body, category, nil)
	return res.Success
}

// CreateSystemNotification persists the notification, then hands it to the
// dispatcher. The write completes and is visible before dispatch starts,
// and a dispatch problem never surfaces to the creator: the notification
// exists either way, and delivery outcomes land in the delivery log.
func (s *Service) CreateSystemNotification(ctx context.Context, p store.CreateParams) (*models.SystemNotification, error) {
	n, err := s.notifications.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	if err := s.dispatcher.DispatchSystemNotification(ctx, n); err != nil {
		s.log.Error("system notification dispatch failed", map[string]interface{}{
			"notificationId": n.ID,
			"error":          err,
		})
	}

	return n, nil
}
