// internal/store/followups_test.go
package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkReminderSent_Claimed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE followups SET reminder_sent = TRUE`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewFollowUpStore(db)
	claimed, err := s.MarkReminderSent(context.Background(), 5)

	assert.NoError(t, err)
	assert.True(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReminderSent_AlreadyClaimed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Conditional update matched no rows: another sweep won.
	mock.ExpectExec(`UPDATE followups SET reminder_sent = TRUE`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewFollowUpStore(db)
	claimed, err := s.MarkReminderSent(context.Background(), 5)

	assert.NoError(t, err)
	assert.False(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDueBetween(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	from := now.Truncate(24 * time.Hour)
	to := from.Add(24 * time.Hour)

	rows := sqlmock.NewRows([]string{
		"id", "customer_name", "recipient_id", "due_at", "notes",
		"reminder_sent", "completed", "created_at", "updated_at",
	}).
		AddRow(int64(1), "Acme Traders", int64(7), now, "call back", false, false, now, now).
		AddRow(int64(2), "Bharat Supplies", nil, now, "", false, false, now, now)

	mock.ExpectQuery(`SELECT .+ FROM followups`).
		WithArgs(from, to).
		WillReturnRows(rows)

	s := NewFollowUpStore(db)
	out, err := s.ListDueBetween(context.Background(), from, to)

	require.NoError(t, err)
	require.Len(t, out, 2)
	require.NotNil(t, out[0].RecipientID)
	assert.Equal(t, int64(7), *out[0].RecipientID)
	assert.Nil(t, out[1].RecipientID, "unassigned followup scans as nil recipient")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDueBetween_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM followups`).
		WillReturnError(assert.AnError)

	s := NewFollowUpStore(db)
	_, err = s.ListDueBetween(context.Background(), time.Now(), time.Now())

	assert.Error(t, err)
}
