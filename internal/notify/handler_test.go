// internal/notify/handler_test.go
package notify

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescrm-notifier/internal/common/logger"
	"salescrm-notifier/internal/models"
)

func newTestHandler(recipients *fakeRecipients, notifications *fakeNotifications, sender *fakeSender, dispatcher *fakeDispatcher) *http.ServeMux {
	svc := newTestService(recipients, notifications, sender, dispatcher)
	mux := http.NewServeMux()
	NewHandler(svc, logger.NewNoOpLogger()).Register(mux)
	return mux
}

func TestHandler_CreateNotification(t *testing.T) {
	notifications := &fakeNotifications{}
	dispatcher := &fakeDispatcher{}
	mux := newTestHandler(&fakeRecipients{}, notifications, &fakeSender{}, dispatcher)

	body := `{"title":"Maintenance","message":"Down at 2am","type":"system","link":"/status"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/notifications", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Maintenance"`)
	require.Len(t, notifications.created, 1)
	assert.Len(t, dispatcher.dispatched, 1)
}

func TestHandler_CreateNotification_Validation(t *testing.T) {
	mux := newTestHandler(&fakeRecipients{}, &fakeNotifications{}, &fakeSender{}, &fakeDispatcher{})

	req := httptest.NewRequest(http.MethodPost, "/admin/notifications", strings.NewReader(`{"title":""}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/notifications", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandler_TestSend(t *testing.T) {
	recipients := &fakeRecipients{byID: map[int64]*models.Recipient{
		7: {ID: 7, Name: "Priya", FCMToken: "tok-7", Active: true},
	}}
	sender := &fakeSender{succeed: true}
	mux := newTestHandler(recipients, &fakeNotifications{}, sender, &fakeDispatcher{})

	body := `{"recipientId":7,"title":"Ping","body":"Hello"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/test-send", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "system", sender.sent[0].category, "category defaults when omitted")
}

func TestHandler_TestSend_UnknownRecipient(t *testing.T) {
	mux := newTestHandler(&fakeRecipients{byID: map[int64]*models.Recipient{}}, &fakeNotifications{}, &fakeSender{succeed: true}, &fakeDispatcher{})

	body := `{"recipientId":99,"title":"Ping","body":"Hello"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/test-send", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":false}`, rec.Body.String())
}
