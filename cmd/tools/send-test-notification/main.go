// cmd/tools/send-test-notification/main.go

// Sends a single push to one recipient through the real pipeline. Useful
// for verifying FCM credentials and a device registration end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"salescrm-notifier/internal/common/config"
	"salescrm-notifier/internal/common/database"
	"salescrm-notifier/internal/common/logger"
	"salescrm-notifier/internal/fcm"
	"salescrm-notifier/internal/store"
)

func main() {
	recipientID := flag.Int64("recipient", 0, "recipient id to push to")
	title := flag.String("title", "Test Notification", "notification title")
	body := flag.String("body", "This is a test notification from salescrm-notifier", "notification body")
	category := flag.String("category", "system", "notification category")
	flag.Parse()

	if *recipientID == 0 {
		fmt.Fprintln(os.Stderr, "usage: send-test-notification -recipient <id> [-title ...] [-body ...]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, "console")

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		fmt.Fprintf(os.Stderr, "postgres: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	recipients := store.NewRecipientStore(pg.DB)
	deliveryLogs := store.NewDeliveryLogStore(pg.DB)

	recipient, err := recipients.Get(ctx, *recipientID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "recipient lookup: %v\n", err)
		os.Exit(1)
	}
	if !recipient.HasToken() {
		fmt.Fprintf(os.Stderr, "recipient %d has no FCM token registered\n", recipient.ID)
		os.Exit(1)
	}

	creds := fcm.NewGoogleTokenProvider(cfg.FCM.ServiceAccountPath)
	client := fcm.NewClient(cfg.FCM, creds, deliveryLogs, log, nil)

	res := client.SendTo(ctx, recipient, *title, *body, *category, nil)
	if res.Success {
		fmt.Printf("delivered to recipient %d (%s)\n", recipient.ID, recipient.Name)
		return
	}
	fmt.Fprintf(os.Stderr, "delivery failed: %s\n", res.Error)
	os.Exit(1)
}
