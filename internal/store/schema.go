// internal/store/schema.go
package store

import (
	"context"
	"database/sql"

	apperrors "salescrm-notifier/internal/common/errors"
)

// schema holds the pipeline's tables. delivery_logs is append-only by
// convention: nothing in this module issues UPDATE or DELETE against it.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS recipients (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		role        TEXT NOT NULL DEFAULT 'sales_executive',
		phone       TEXT NOT NULL DEFAULT '',
		fcm_token   TEXT,
		active      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS followups (
		id            BIGSERIAL PRIMARY KEY,
		customer_name TEXT NOT NULL,
		recipient_id  BIGINT REFERENCES recipients(id) ON DELETE SET NULL,
		due_at        TIMESTAMPTZ NOT NULL,
		notes         TEXT,
		reminder_sent BOOLEAN NOT NULL DEFAULT FALSE,
		completed     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_followups_due ON followups (due_at) WHERE completed = FALSE AND reminder_sent = FALSE`,
	`CREATE TABLE IF NOT EXISTS system_notifications (
		id                UUID PRIMARY KEY,
		recipient_id      BIGINT REFERENCES recipients(id) ON DELETE CASCADE,
		title             TEXT NOT NULL,
		message           TEXT NOT NULL,
		notification_type TEXT NOT NULL DEFAULT 'info',
		icon              TEXT,
		link              TEXT,
		is_read           BOOLEAN NOT NULL DEFAULT FALSE,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		read_at           TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS delivery_logs (
		id           BIGSERIAL PRIMARY KEY,
		recipient_id BIGINT NOT NULL,
		title        TEXT NOT NULL,
		message      TEXT NOT NULL,
		category     TEXT NOT NULL,
		fcm_token    TEXT,
		success      BOOLEAN NOT NULL DEFAULT FALSE,
		error_detail TEXT,
		sent_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_delivery_logs_recipient ON delivery_logs (recipient_id, sent_at DESC)`,
}

// EnsureSchema creates missing tables. Safe to run on every start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return apperrors.NewDatabaseError("ensure schema", err)
		}
	}
	return nil
}
