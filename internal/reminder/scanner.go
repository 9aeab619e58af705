// internal/reminder/scanner.go

// Package reminder implements the daily follow-up sweep. An external
// scheduler invokes RunOnce at most once per day; the due-today path is
// idempotent across repeated runs, the due-tomorrow path intentionally is
// not (see the batch comments below).
package reminder

import (
	"context"
	"fmt"
	"time"

	apperrors "salescrm-notifier/internal/common/errors"
	"salescrm-notifier/internal/common/logger"
	"salescrm-notifier/internal/common/metrics"
	"salescrm-notifier/internal/fcm"
	"salescrm-notifier/internal/models"
)

const reminderCategory = models.NotifTypeFollowupReminder

// FollowUpSource is the slice of the follow-up store the scanner needs.
type FollowUpSource interface {
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*models.FollowUp, error)
	MarkReminderSent(ctx context.Context, id int64) (bool, error)
}

// RecipientSource resolves assigned recipients.
type RecipientSource interface {
	Get(ctx context.Context, id int64) (*models.Recipient, error)
}

// PushSender delivers one composed push. Satisfied by *fcm.Client.
type PushSender interface {
	SendTo(ctx context.Context, recipient *models.Recipient, title, body, category string, extra map[string]interface{}) fcm.DeliveryResult
}

type Scanner struct {
	followups  FollowUpSource
	recipients RecipientSource
	sender     PushSender
	locker     SweepLocker // nil disables locking (single-instance deployments, tests)
	loc        *time.Location
	log        logger.Logger
}

func NewScanner(followups FollowUpSource, recipients RecipientSource, sender PushSender, locker SweepLocker, loc *time.Location, log logger.Logger) *Scanner {
	if loc == nil {
		loc = time.Local
	}
	return &Scanner{
		followups:  followups,
		recipients: recipients,
		sender:     sender,
		locker:     locker,
		loc:        loc,
		log:        log.WithFields(map[string]interface{}{"component": "reminder-scanner"}),
	}
}

// RunOnce sweeps follow-ups due today and tomorrow, reckoned as calendar
// days in the configured reference zone, not UTC. A single recipient's
// delivery failure never aborts the batch. When another instance holds
// today's lock it returns a SWEEP_LOCK_HELD error without scanning;
// callers can distinguish that skip from a real failure via the code.
func (s *Scanner) RunOnce(ctx context.Context, now time.Time) error {
	startToday := dayStart(now.In(s.loc))
	startTomorrow := startToday.AddDate(0, 0, 1)
	endTomorrow := startToday.AddDate(0, 0, 2)

	if s.locker != nil {
		key := sweepLockKey(startToday)
		acquired, err := s.locker.Acquire(ctx, key)
		if err != nil {
			return fmt.Errorf("acquire sweep lock: %w", err)
		}
		if !acquired {
			s.log.Info("sweep skipped: lock held by another instance", map[string]interface{}{"key": key})
			metrics.ReminderSweepRuns.WithLabelValues("skipped_locked").Inc()
			return apperrors.NewSweepLockHeldError(key)
		}
		defer func() {
			if err := s.locker.Release(ctx, key); err != nil {
				s.log.Warn("sweep lock release failed", map[string]interface{}{"error": err})
			}
		}()
	}

	if err := s.sweepToday(ctx, startToday, startTomorrow); err != nil {
		metrics.ReminderSweepRuns.WithLabelValues("error").Inc()
		return err
	}
	if err := s.sweepTomorrow(ctx, startTomorrow, endTomorrow); err != nil {
		metrics.ReminderSweepRuns.WithLabelValues("error").Inc()
		return err
	}

	metrics.ReminderSweepRuns.WithLabelValues("success").Inc()
	return nil
}

// sweepToday sends the reminder that counts. The flag flip is a conditional
// update claimed before the send: whoever wins the flip owns the attempt, so
// concurrent sweeps cannot double-send. The flip happens regardless of the
// send outcome, matching the one-reminder-per-due-date contract.
func (s *Scanner) sweepToday(ctx context.Context, from, to time.Time) error {
	followups, err := s.followups.ListDueBetween(ctx, from, to)
	if err != nil {
		return err
	}

	for _, f := range followups {
		if f.RecipientID == nil {
			// Unassigned follow-ups are left untouched: no reminder, no flag.
			continue
		}

		recipient, err := s.recipients.Get(ctx, *f.RecipientID)
		if err != nil {
			s.log.Warn("reminder recipient lookup failed", map[string]interface{}{
				"followupId":  f.ID,
				"recipientId": *f.RecipientID,
				"error":       err,
			})
			continue
		}

		claimed, err := s.followups.MarkReminderSent(ctx, f.ID)
		if err != nil {
			s.log.Error("reminder flag update failed", map[string]interface{}{
				"followupId": f.ID,
				"error":      err,
			})
			continue
		}
		if !claimed {
			// Another sweep instance already claimed this record.
			continue
		}

		body := fmt.Sprintf("Follow-up with %s is due today", f.CustomerName)
		res := s.sender.SendTo(ctx, recipient, "Follow-up Reminder", body, reminderCategory, nil)
		if res.Success {
			metrics.ReminderSweepSent.WithLabelValues("today").Inc()
		}
		s.log.Info("due-today reminder processed", map[string]interface{}{
			"followupId":  f.ID,
			"recipientId": recipient.ID,
			"success":     res.Success,
		})
	}

	return nil
}

// sweepTomorrow sends the courtesy nudge. It never sets reminder_sent, so
// the same record fires again on its due-today pass the next run. That
// repetition is intentional: the due-today reminder is the one that counts.
func (s *Scanner) sweepTomorrow(ctx context.Context, from, to time.Time) error {
	followups, err := s.followups.ListDueBetween(ctx, from, to)
	if err != nil {
		return err
	}

	for _, f := range followups {
		if f.RecipientID == nil {
			continue
		}

		recipient, err := s.recipients.Get(ctx, *f.RecipientID)
		if err != nil {
			s.log.Warn("reminder recipient lookup failed", map[string]interface{}{
				"followupId":  f.ID,
				"recipientId": *f.RecipientID,
				"error":       err,
			})
			continue
		}

		body := fmt.Sprintf("Follow-up with %s is due tomorrow", f.CustomerName)
		res := s.sender.SendTo(ctx, recipient, "Follow-up Reminder", body, reminderCategory, nil)
		if res.Success {
			metrics.ReminderSweepSent.WithLabelValues("tomorrow").Inc()
		}
	}

	return nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sweepLockKey(day time.Time) string {
	return "notifier:sweep:" + day.Format("2006-01-02")
}
