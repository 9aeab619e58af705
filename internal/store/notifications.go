// internal/store/notifications.go
package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	apperrors "salescrm-notifier/internal/common/errors"
	"salescrm-notifier/internal/models"
)

// SystemNotificationStore persists in-app notifications.
type SystemNotificationStore struct {
	db *sql.DB
}

func NewSystemNotificationStore(db *sql.DB) *SystemNotificationStore {
	return &SystemNotificationStore{db: db}
}

const systemNotificationColumns = `id, recipient_id, title, message, notification_type,
	COALESCE(icon, ''), COALESCE(link, ''), is_read, created_at, read_at`

func scanSystemNotification(row interface{ Scan(...interface{}) error }) (*models.SystemNotification, error) {
	var n models.SystemNotification
	var recipientID sql.NullInt64
	var readAt sql.NullTime
	err := row.Scan(&n.ID, &recipientID, &n.Title, &n.Message, &n.Type,
		&n.Icon, &n.Link, &n.IsRead, &n.CreatedAt, &readAt)
	if err != nil {
		return nil, err
	}
	if recipientID.Valid {
		n.RecipientID = &recipientID.Int64
	}
	if readAt.Valid {
		n.ReadAt = &readAt.Time
	}
	return &n, nil
}

// CreateParams carries the fields for a new system notification.
// RecipientID nil means broadcast.
type CreateParams struct {
	RecipientID *int64
	Title       string
	Message     string
	Type        string
	Icon        string
	Link        string
}

// Create inserts the notification and returns the persisted row. The row is
// committed and visible before any push dispatch happens; dispatch is the
// caller's responsibility (see notify.Service).
func (s *SystemNotificationStore) Create(ctx context.Context, p CreateParams) (*models.SystemNotification, error) {
	var rid sql.NullInt64
	if p.RecipientID != nil {
		rid = sql.NullInt64{Int64: *p.RecipientID, Valid: true}
	}
	if p.Type == "" {
		p.Type = models.NotifTypeInfo
	}
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO system_notifications (id, recipient_id, title, message, notification_type, icon, link, is_read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, NOW())
		 RETURNING `+systemNotificationColumns,
		uuid.NewString(), rid, p.Title, p.Message, p.Type, p.Icon, p.Link)
	n, err := scanSystemNotification(row)
	if err != nil {
		return nil, apperrors.NewDatabaseError("create system notification", err)
	}
	return n, nil
}

// MarkRead sets the read flag and timestamp. Updates never re-trigger push.
func (s *SystemNotificationStore) MarkRead(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE system_notifications SET is_read = TRUE, read_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return apperrors.NewDatabaseError("mark notification read", err)
	}
	return nil
}

// ListUnread returns unread notifications visible to a recipient: targeted
// ones plus broadcasts.
func (s *SystemNotificationStore) ListUnread(ctx context.Context, recipientID int64) ([]*models.SystemNotification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+systemNotificationColumns+` FROM system_notifications
		 WHERE is_read = FALSE AND (recipient_id = $1 OR recipient_id IS NULL)
		 ORDER BY created_at DESC`, recipientID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list unread notifications", err)
	}
	defer rows.Close()

	var out []*models.SystemNotification
	for rows.Next() {
		n, err := scanSystemNotification(rows)
		if err != nil {
			return nil, apperrors.NewDatabaseError("scan system notification", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("iterate system notifications", err)
	}
	return out, nil
}
