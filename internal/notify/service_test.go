// internal/notify/service_test.go
package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "salescrm-notifier/internal/common/errors"
	"salescrm-notifier/internal/common/logger"
	"salescrm-notifier/internal/fcm"
	"salescrm-notifier/internal/models"
	"salescrm-notifier/internal/store"
)

type fakeRecipients struct {
	byID map[int64]*models.Recipient
}

func (f *fakeRecipients) Get(ctx context.Context, id int64) (*models.Recipient, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, apperrors.NewRecipientNotFoundError(id)
	}
	return r, nil
}

type fakeNotifications struct {
	created []*models.SystemNotification
	err     error
}

func (f *fakeNotifications) Create(ctx context.Context, p store.CreateParams) (*models.SystemNotification, error) {
	if f.err != nil {
		return nil, f.err
	}
	n := &models.SystemNotification{
		ID:          "n-1",
		RecipientID: p.RecipientID,
		Title:       p.Title,
		Message:     p.Message,
		Type:        p.Type,
		Icon:        p.Icon,
		Link:        p.Link,
	}
	f.created = append(f.created, n)
	return n, nil
}

type sentPush struct {
	recipientID int64
	title       string
	category    string
}

type fakeSender struct {
	sent    []sentPush
	succeed bool
}

func (f *fakeSender) SendTo(ctx context.Context, r *models.Recipient, title, body, category string, extra map[string]interface{}) fcm.DeliveryResult {
	f.sent = append(f.sent, sentPush{recipientID: r.ID, title: title, category: category})
	if f.succeed {
		return fcm.DeliveryResult{Success: true}
	}
	return fcm.DeliveryResult{Success: false, Error: apperrors.NewRejectedError(404, "Requested entity was not found.").Details}
}

type fakeDispatcher struct {
	dispatched []*models.SystemNotification
	err        error
}

func (f *fakeDispatcher) DispatchSystemNotification(ctx context.Context, n *models.SystemNotification) error {
	f.dispatched = append(f.dispatched, n)
	return f.err
}

func newTestService(recipients *fakeRecipients, notifications *fakeNotifications, sender *fakeSender, dispatcher *fakeDispatcher) *Service {
	return NewService(recipients, notifications, sender, dispatcher, logger.NewNoOpLogger())
}

func TestSendNotification_Success(t *testing.T) {
	recipients := &fakeRecipients{byID: map[int64]*models.Recipient{
		7: {ID: 7, Name: "Priya", FCMToken: "tok-7", Active: true},
	}}
	sender := &fakeSender{succeed: true}
	svc := newTestService(recipients, &fakeNotifications{}, sender, &fakeDispatcher{})

	ok := svc.SendNotification(context.Background(), 7, "New Lead", "Lead from Acme", models.NotifTypeNewLead)

	assert.True(t, ok)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(7), sender.sent[0].recipientID)
	assert.Equal(t, models.NotifTypeNewLead, sender.sent[0].category)
}

func TestSendNotification_UnknownRecipient(t *testing.T) {
	sender := &fakeSender{succeed: true}
	svc := newTestService(&fakeRecipients{byID: map[int64]*models.Recipient{}}, &fakeNotifications{}, sender, &fakeDispatcher{})

	ok := svc.SendNotification(context.Background(), 99, "t", "b", models.NotifTypeInfo)

	assert.False(t, ok)
	assert.Empty(t, sender.sent, "no push attempt without a resolved recipient")
}

func TestSendNotification_DeliveryFailure(t *testing.T) {
	recipients := &fakeRecipients{byID: map[int64]*models.Recipient{
		7: {ID: 7, Name: "Priya", FCMToken: "tok-7", Active: true},
	}}
	sender := &fakeSender{succeed: false}
	svc := newTestService(recipients, &fakeNotifications{}, sender, &fakeDispatcher{})

	ok := svc.SendNotification(context.Background(), 7, "t", "b", models.NotifTypeInfo)

	assert.False(t, ok)
	assert.Len(t, sender.sent, 1)
}

func TestCreateSystemNotification_PersistsThenDispatches(t *testing.T) {
	notifications := &fakeNotifications{}
	dispatcher := &fakeDispatcher{}
	svc := newTestService(&fakeRecipients{}, notifications, &fakeSender{}, dispatcher)

	n, err := svc.CreateSystemNotification(context.Background(), store.CreateParams{
		Title:   "Maintenance",
		Message: "Down at 2am",
		Type:    models.NotifTypeSystem,
	})

	require.NoError(t, err)
	require.Len(t, notifications.created, 1)
	require.Len(t, dispatcher.dispatched, 1)
	assert.Same(t, n, dispatcher.dispatched[0], "dispatch receives the persisted row")
}

func TestCreateSystemNotification_StoreError(t *testing.T) {
	notifications := &fakeNotifications{err: assert.AnError}
	dispatcher := &fakeDispatcher{}
	svc := newTestService(&fakeRecipients{}, notifications, &fakeSender{}, dispatcher)

	_, err := svc.CreateSystemNotification(context.Background(), store.CreateParams{Title: "t", Message: "m"})

	require.Error(t, err)
	assert.Empty(t, dispatcher.dispatched, "no dispatch when the write fails")
}

func TestCreateSystemNotification_DispatchErrorAbsorbed(t *testing.T) {
	notifications := &fakeNotifications{}
	dispatcher := &fakeDispatcher{err: assert.AnError}
	svc := newTestService(&fakeRecipients{}, notifications, &fakeSender{}, dispatcher)

	n, err := svc.CreateSystemNotification(context.Background(), store.CreateParams{Title: "t", Message: "m"})

	require.NoError(t, err, "creation succeeds even when fan-out fails")
	assert.NotNil(t, n)
	assert.Len(t, dispatcher.dispatched, 1)
}
