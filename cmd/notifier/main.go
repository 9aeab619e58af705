// cmd/notifier/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"salescrm-notifier/internal/common/config"
	"salescrm-notifier/internal/common/database"
	apperrors "salescrm-notifier/internal/common/errors"
	"salescrm-notifier/internal/common/logger"
	"salescrm-notifier/internal/common/observability"
	"salescrm-notifier/internal/common/worker"
	"salescrm-notifier/internal/dispatch"
	"salescrm-notifier/internal/fcm"
	"salescrm-notifier/internal/notify"
	"salescrm-notifier/internal/reminder"
	"salescrm-notifier/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting notifier...",
		zap.String("project", cfg.FCM.ProjectID),
		zap.String("timezone", cfg.Notifications.Timezone),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	if err := store.EnsureSchema(ctx, pg.DB); err != nil {
		zapLog.Fatal("schema init failed", zap.Error(err))
	}

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Stores ---
	recipients := store.NewRecipientStore(pg.DB)
	followups := store.NewFollowUpStore(pg.DB)
	notifications := store.NewSystemNotificationStore(pg.DB)
	deliveryLogs := store.NewDeliveryLogStore(pg.DB)

	// --- Delivery pipeline ---
	creds := fcm.NewGoogleTokenProvider(cfg.FCM.ServiceAccountPath)
	client := fcm.NewClient(cfg.FCM, creds, deliveryLogs, log, obs)

	pool, err := worker.NewPool(ctx, cfg.Notifications.PoolSize, log)
	if err != nil {
		zapLog.Fatal("worker pool init failed", zap.Error(err))
	}

	dispatcher := dispatch.NewDispatcher(recipients, client, pool, log)
	service := notify.NewService(recipients, notifications, client, dispatcher, log)
	notifyHandler := notify.NewHandler(service, log)

	loc, err := time.LoadLocation(cfg.Notifications.Timezone)
	if err != nil {
		zapLog.Fatal("invalid timezone", zap.Error(err))
	}
	locker := reminder.NewRedisSweepLock(rdb.Client, cfg.Notifications.SweepLockTTL)
	scanner := reminder.NewScanner(followups, recipients, client, locker, loc, log)

	// --- Reminder sweep schedule ---
	sched := cron.New(cron.WithLocation(loc))
	_, err = sched.AddFunc(cfg.Notifications.SweepSchedule, func() {
		if err := scanner.RunOnce(ctx, time.Now()); err != nil {
			if apperrors.CodeOf(err) == apperrors.ErrCodeSweepLockHeld {
				zapLog.Info("reminder sweep skipped", zap.Error(err))
				return
			}
			zapLog.Error("reminder sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		zapLog.Fatal("invalid sweep schedule", zap.Error(err))
	}
	sched.Start()
	zapLog.Info("Reminder sweep scheduled", zap.String("schedule", cfg.Notifications.SweepSchedule))

	// --- Health, Metrics & Admin Server ---
	go func() {
		notifyHandler.Register(http.DefaultServeMux)
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("addr", cfg.App.MetricsAddr))
		if err := http.ListenAndServe(cfg.App.MetricsAddr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	cronCtx := sched.Stop()
	<-cronCtx.Done()
	pool.Shutdown(30 * time.Second)

	zapLog.Info("Notifier stopped gracefully")
}
