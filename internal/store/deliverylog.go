// internal/store/deliverylog.go
package store

import (
	"context"
	"database/sql"

	apperrors "salescrm-notifier/internal/common/errors"
	"salescrm-notifier/internal/models"
)

// DeliveryLogStore is the append-only audit store for push attempts.
// Rows are never updated or deleted; concurrent appenders are safe because
// every write is an independent INSERT.
type DeliveryLogStore struct {
	db *sql.DB
}

func NewDeliveryLogStore(db *sql.DB) *DeliveryLogStore {
	return &DeliveryLogStore{db: db}
}

// Append writes one delivery attempt and returns the assigned id.
func (s *DeliveryLogStore) Append(ctx context.Context, entry *models.DeliveryLog) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO delivery_logs (recipient_id, title, message, category, fcm_token, success, error_detail, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		 RETURNING id, sent_at`,
		entry.RecipientID, entry.Title, entry.Message, entry.Category,
		entry.FCMToken, entry.Success, entry.ErrorDetail).
		Scan(&entry.ID, &entry.SentAt)
	if err != nil {
		return apperrors.NewDatabaseError("append delivery log", err)
	}
	return nil
}

// ListByRecipient returns the most recent attempts for one recipient,
// newest first. Operator-facing; the pipeline itself only appends.
func (s *DeliveryLogStore) ListByRecipient(ctx context.Context, recipientID int64, limit int) ([]*models.DeliveryLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, recipient_id, title, message, category, COALESCE(fcm_token, ''), success, COALESCE(error_detail, ''), sent_at
		 FROM delivery_logs WHERE recipient_id = $1
		 ORDER BY sent_at DESC LIMIT $2`, recipientID, limit)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list delivery logs", err)
	}
	defer rows.Close()

	var out []*models.DeliveryLog
	for rows.Next() {
		var e models.DeliveryLog
		if err := rows.Scan(&e.ID, &e.RecipientID, &e.Title, &e.Message, &e.Category,
			&e.FCMToken, &e.Success, &e.ErrorDetail, &e.SentAt); err != nil {
			return nil, apperrors.NewDatabaseError("scan delivery log", err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("iterate delivery logs", err)
	}
	return out, nil
}

// CountFailuresSince reports failed attempts after a cutoff, for operator
// dashboards and alerting.
func (s *DeliveryLogStore) CountFailuresSince(ctx context.Context, since sql.NullTime) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM delivery_logs WHERE success = FALSE AND ($1::timestamptz IS NULL OR sent_at >= $1)`,
		since).Scan(&n)
	if err != nil {
		return 0, apperrors.NewDatabaseError("count delivery failures", err)
	}
	return n, nil
}
