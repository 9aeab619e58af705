// internal/store/recipients.go
package store

import (
	"context"
	"database/sql"

	apperrors "salescrm-notifier/internal/common/errors"
	"salescrm-notifier/internal/models"
)

// RecipientStore reads and mutates recipient rows.
type RecipientStore struct {
	db *sql.DB
}

func NewRecipientStore(db *sql.DB) *RecipientStore {
	return &RecipientStore{db: db}
}

const recipientColumns = `id, name, role, phone, COALESCE(fcm_token, ''), active, created_at, updated_at`

func scanRecipient(row interface{ Scan(...interface{}) error }) (*models.Recipient, error) {
	var r models.Recipient
	err := row.Scan(&r.ID, &r.Name, &r.Role, &r.Phone, &r.FCMToken, &r.Active, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Get returns a single recipient by id.
func (s *RecipientStore) Get(ctx context.Context, id int64) (*models.Recipient, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recipientColumns+` FROM recipients WHERE id = $1`, id)
	r, err := scanRecipient(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewRecipientNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("get recipient", err)
	}
	return r, nil
}

// Create inserts a recipient row. Called from the account-creation path so
// every account has one from the start.
func (s *RecipientStore) Create(ctx context.Context, name, role, phone string) (*models.Recipient, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO recipients (name, role, phone, active, created_at, updated_at)
		 VALUES ($1, $2, $3, TRUE, NOW(), NOW())
		 RETURNING `+recipientColumns, name, role, phone)
	r, err := scanRecipient(row)
	if err != nil {
		return nil, apperrors.NewDatabaseError("create recipient", err)
	}
	return r, nil
}

// UpdateToken replaces the device registration token. The mobile client
// calls this on every re-registration.
func (s *RecipientStore) UpdateToken(ctx context.Context, id int64, token string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE recipients SET fcm_token = $1, updated_at = NOW() WHERE id = $2`, token, id)
	if err != nil {
		return apperrors.NewDatabaseError("update fcm token", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewRecipientNotFoundError(id)
	}
	return nil
}

// ListWithTokens returns every active recipient holding a non-empty token.
// This is the broadcast audience.
func (s *RecipientStore) ListWithTokens(ctx context.Context) ([]*models.Recipient, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recipientColumns+` FROM recipients
		 WHERE active = TRUE AND fcm_token IS NOT NULL AND fcm_token <> ''
		 ORDER BY id`)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list recipients with tokens", err)
	}
	defer rows.Close()

	var out []*models.Recipient
	for rows.Next() {
		r, err := scanRecipient(rows)
		if err != nil {
			return nil, apperrors.NewDatabaseError("scan recipient", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("iterate recipients", err)
	}
	return out, nil
}
