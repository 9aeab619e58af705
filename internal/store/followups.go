// internal/store/followups.go
package store

import (
	"context"
	"database/sql"
	"time"

	apperrors "salescrm-notifier/internal/common/errors"
	"salescrm-notifier/internal/models"
)

// FollowUpStore reads and mutates follow-up rows.
type FollowUpStore struct {
	db *sql.DB
}

func NewFollowUpStore(db *sql.DB) *FollowUpStore {
	return &FollowUpStore{db: db}
}

const followupColumns = `id, customer_name, recipient_id, due_at, COALESCE(notes, ''), reminder_sent, completed, created_at, updated_at`

func scanFollowUp(row interface{ Scan(...interface{}) error }) (*models.FollowUp, error) {
	var f models.FollowUp
	var recipientID sql.NullInt64
	err := row.Scan(&f.ID, &f.CustomerName, &recipientID, &f.DueAt, &f.Notes,
		&f.ReminderSent, &f.Completed, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if recipientID.Valid {
		f.RecipientID = &recipientID.Int64
	}
	return &f, nil
}

// Create inserts a follow-up. recipientID may be nil for an unassigned record.
func (s *FollowUpStore) Create(ctx context.Context, customerName string, recipientID *int64, dueAt time.Time, notes string) (*models.FollowUp, error) {
	var rid sql.NullInt64
	if recipientID != nil {
		rid = sql.NullInt64{Int64: *recipientID, Valid: true}
	}
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO followups (customer_name, recipient_id, due_at, notes, reminder_sent, completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, FALSE, FALSE, NOW(), NOW())
		 RETURNING `+followupColumns, customerName, rid, dueAt, notes)
	f, err := scanFollowUp(row)
	if err != nil {
		return nil, apperrors.NewDatabaseError("create followup", err)
	}
	return f, nil
}

// ListDueBetween returns open, un-reminded follow-ups whose due timestamp
// falls in [from, to). Boundaries are computed by the caller in the
// reference time zone; the query compares raw timestamps.
func (s *FollowUpStore) ListDueBetween(ctx context.Context, from, to time.Time) ([]*models.FollowUp, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+followupColumns+` FROM followups
		 WHERE due_at >= $1 AND due_at < $2
		   AND completed = FALSE AND reminder_sent = FALSE
		 ORDER BY due_at`, from, to)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list due followups", err)
	}
	defer rows.Close()

	var out []*models.FollowUp
	for rows.Next() {
		f, err := scanFollowUp(rows)
		if err != nil {
			return nil, apperrors.NewDatabaseError("scan followup", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("iterate followups", err)
	}
	return out, nil
}

// MarkReminderSent flips reminder_sent to true, but only if it is still
// false. Returns whether this caller won the flip; a false return means a
// concurrent sweep already claimed the record and the caller must not send.
func (s *FollowUpStore) MarkReminderSent(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE followups SET reminder_sent = TRUE, updated_at = NOW()
		 WHERE id = $1 AND reminder_sent = FALSE`, id)
	if err != nil {
		return false, apperrors.NewDatabaseError("mark reminder sent", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.NewDatabaseError("mark reminder sent", err)
	}
	return n == 1, nil
}

// Complete marks the follow-up as done. Used by collaborators, not the sweep.
func (s *FollowUpStore) Complete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE followups SET completed = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return apperrors.NewDatabaseError("complete followup", err)
	}
	return nil
}
